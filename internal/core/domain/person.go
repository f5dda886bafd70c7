package domain

import "github.com/google/uuid"

type Team struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NoTeamID - зарезервированный id фильтра "без команды"
var NoTeamID = uuid.Nil

// PersonCategory - дискриминатор категории персоны. Движок не различает
// категории, обе идут через одну реализацию экспандера и фильтра
type PersonCategory string

const (
	PersonCategoryInternal PersonCategory = "internal"
	PersonCategoryExternal PersonCategory = "external"
)

type Person struct {
	ID         uuid.UUID      `json:"id"`
	FirstName  string         `json:"firstName"`
	LastName   string         `json:"lastName"`
	NamePrefix string         `json:"namePrefix,omitempty"`
	Category   PersonCategory `json:"category,omitempty"`
	Teams      []Team         `json:"teams"`
}

// MemberOf проверяет членство; NoTeamID совпадает с персонами без команд
func (p Person) MemberOf(teamID uuid.UUID) bool {
	if teamID == NoTeamID {
		return len(p.Teams) == 0
	}
	for _, team := range p.Teams {
		if team.ID == teamID {
			return true
		}
	}
	return false
}

type FilterMode string

const (
	FilterModeAnd FilterMode = "AND"
	FilterModeOr  FilterMode = "OR"
)

// TeamFilter - выбранные команды и режим их комбинирования
type TeamFilter struct {
	TeamIDs []uuid.UUID `json:"teamIds"`
	Mode    FilterMode  `json:"mode"`
}

func (f TeamFilter) Empty() bool {
	return len(f.TeamIDs) == 0
}

func (f TeamFilter) Selected(teamID uuid.UUID) bool {
	for _, id := range f.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

type SortField string

const (
	SortFieldNone       SortField = ""
	SortFieldFirstName  SortField = "firstName"
	SortFieldLastName   SortField = "lastName"
	SortFieldNamePrefix SortField = "namePrefix"
)

type SortDirection string

const (
	SortDirectionNone SortDirection = ""
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// SortState - трехпозиционная сортировка по колонке
type SortState struct {
	Field     SortField     `json:"field,omitempty"`
	Direction SortDirection `json:"direction,omitempty"`
}

// Toggle реализует цикл клика по заголовку колонки:
// asc -> desc -> без сортировки; клик по другой колонке начинает с asc
func (s SortState) Toggle(field SortField) SortState {
	if s.Field != field {
		return SortState{Field: field, Direction: SortDirectionAsc}
	}
	switch s.Direction {
	case SortDirectionAsc:
		return SortState{Field: field, Direction: SortDirectionDesc}
	case SortDirectionDesc:
		return SortState{}
	default:
		return SortState{Field: field, Direction: SortDirectionAsc}
	}
}
