package matrix_service

import (
	"github.com/google/uuid"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/domain"
)

// matchesFilter - предикат попадания персоны под текущий выбор команд.
// Пустой выбор пропускает всех. Неизвестный id команды (устаревший после
// перезагрузки ростера) просто не совпадает ни с кем - это не ошибка
func matchesFilter(person domain.Person, filter domain.TeamFilter) bool {
	if filter.Empty() {
		return true
	}

	if filter.Mode == domain.FilterModeAnd {
		for _, teamID := range filter.TeamIDs {
			if !person.MemberOf(teamID) {
				return false
			}
		}
		return true
	}

	for _, teamID := range filter.TeamIDs {
		if person.MemberOf(teamID) {
			return true
		}
	}
	return false
}

// FilterPersons возвращает отфильтрованное подмножество персон
func FilterPersons(persons []domain.Person, filter domain.TeamFilter) []domain.Person {
	filtered := make([]domain.Person, 0, len(persons))
	for _, person := range persons {
		if matchesFilter(person, filter) {
			filtered = append(filtered, person)
		}
	}
	return filtered
}

// TeamMemberCount - счетчик для UI фильтра рядом с командой-кандидатом:
//   - без выбора, или кандидат уже выбран - буквальное число участников;
//   - режим AND - сколько персон останется, если добавить кандидата к
//     текущему выбору (все выбранные команды одновременно);
//   - режим OR - сколько новых персон кандидат добавит сверх уже
//     совпавших с текущим выбором
func TeamMemberCount(persons []domain.Person, filter domain.TeamFilter, candidate uuid.UUID) int {
	if filter.Empty() || filter.Selected(candidate) {
		count := 0
		for _, person := range persons {
			if person.MemberOf(candidate) {
				count++
			}
		}
		return count
	}

	if filter.Mode == domain.FilterModeAnd {
		combined := domain.TeamFilter{
			TeamIDs: append(append([]uuid.UUID{}, filter.TeamIDs...), candidate),
			Mode:    domain.FilterModeAnd,
		}
		count := 0
		for _, person := range persons {
			if matchesFilter(person, combined) {
				count++
			}
		}
		return count
	}

	count := 0
	for _, person := range persons {
		if person.MemberOf(candidate) && !matchesFilter(person, filter) {
			count++
		}
	}
	return count
}

// TeamCounts считает счетчики для всех команд плюс сентинел "без команды"
func TeamCounts(persons []domain.Person, teams []domain.Team, filter domain.TeamFilter) map[string]int {
	counts := make(map[string]int, len(teams)+1)
	for _, team := range teams {
		counts[team.ID.String()] = TeamMemberCount(persons, filter, team.ID)
	}
	counts[domain.NoTeamID.String()] = TeamMemberCount(persons, filter, domain.NoTeamID)
	return counts
}
