package matrix_service

import (
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/domain"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/utils"
)

// LeavePeriodExpander хранит кэш периодов отсутствия и разворачивает его в
// плотную карту (personId, dateKey) -> ExpandedDayEntry. После любой мутации
// карта перестраивается целиком - периодов мало, это дешевле точечных правок.
// Экспандер не потокобезопасен, им владеет оркестратор под своим мьютексом
type LeavePeriodExpander struct {
	periods []domain.LeavePeriod
	entries map[string]domain.ExpandedDayEntry
}

func NewLeavePeriodExpander() *LeavePeriodExpander {
	return &LeavePeriodExpander{
		periods: make([]domain.LeavePeriod, 0),
		entries: make(map[string]domain.ExpandedDayEntry),
	}
}

func entryKey(personID uuid.UUID, dateKey string) string {
	return personID.String() + "|" + dateKey
}

// Entry - O(1) поиск записи дня для пары (персона, день)
func (e *LeavePeriodExpander) Entry(personID uuid.UUID, dateKey string) (domain.ExpandedDayEntry, bool) {
	entry, exists := e.entries[entryKey(personID, dateKey)]
	return entry, exists
}

func (e *LeavePeriodExpander) Periods() []domain.LeavePeriod {
	periods := make([]domain.LeavePeriod, len(e.periods))
	copy(periods, e.periods)
	return periods
}

func (e *LeavePeriodExpander) Period(periodID string) (domain.LeavePeriod, bool) {
	for _, period := range e.periods {
		if period.ID == periodID {
			return period, true
		}
	}
	return domain.LeavePeriod{}, false
}

// ReplaceWindow заменяет кэш для окна дат: выбрасывает все ранее
// закэшированные периоды, пересекающие окно, и вставляет свежезагруженные
func (e *LeavePeriodExpander) ReplaceWindow(startDate, endDate time.Time, loaded []domain.LeavePeriod) {
	start := utils.StartCurrentDay(startDate)
	end := utils.StartCurrentDay(endDate)

	kept := make([]domain.LeavePeriod, 0, len(e.periods))
	for _, period := range e.periods {
		if !period.Overlaps(start, end) {
			kept = append(kept, period)
		}
	}

	e.periods = append(kept, loaded...)
	e.rebuild()
}

// ReplacePersonPeriods заменяет все закэшированные периоды одной персоны
func (e *LeavePeriodExpander) ReplacePersonPeriods(personID uuid.UUID, loaded []domain.LeavePeriod) {
	kept := make([]domain.LeavePeriod, 0, len(e.periods))
	for _, period := range e.periods {
		if period.PersonID != personID {
			kept = append(kept, period)
		}
	}

	e.periods = append(kept, loaded...)
	e.rebuild()
}

// Add вставляет период немедленно, до подтверждения сети
func (e *LeavePeriodExpander) Add(period domain.LeavePeriod) {
	e.periods = append(e.periods, period)
	e.rebuild()
}

// Confirm убирает временный период по буквальному значению id (не по
// позиции) и вставляет подтвержденный сервером. Ровно один период
// остается в кэше - ни дубликата, ни осиротевшей временной записи
func (e *LeavePeriodExpander) Confirm(tempID string, confirmed domain.LeavePeriod) {
	e.removeByID(tempID)
	e.periods = append(e.periods, confirmed)
	e.rebuild()
}

// Update заменяет период с тем же id новыми полями
func (e *LeavePeriodExpander) Update(period domain.LeavePeriod) {
	for i := range e.periods {
		if e.periods[i].ID == period.ID {
			e.periods[i] = period
			break
		}
	}
	e.rebuild()
}

// Remove удаляет период немедленно
func (e *LeavePeriodExpander) Remove(periodID string) bool {
	removed := e.removeByID(periodID)
	if removed {
		e.rebuild()
	}
	return removed
}

func (e *LeavePeriodExpander) removeByID(periodID string) bool {
	for i := range e.periods {
		if e.periods[i].ID == periodID {
			e.periods = append(e.periods[:i], e.periods[i+1:]...)
			return true
		}
	}
	return false
}

// rebuild перестраивает карту записей целиком. Периоды вставляются в
// порядке хранения, при пересечении одного дня побеждает
// последний вставленный - конфликты не детектируются
func (e *LeavePeriodExpander) rebuild() {
	e.entries = make(map[string]domain.ExpandedDayEntry)

	for _, period := range e.periods {
		for _, entry := range expandPeriod(period) {
			e.entries[entryKey(entry.PersonID, entry.DateKey)] = entry
		}
	}
}

// expandPeriod материализует период в записи по календарным дням.
// Части дня: единственный день берет startDayPart как есть; иначе первый
// день берет startDayPart, последний - endDayPart, все строго между - full
func expandPeriod(period domain.LeavePeriod) []domain.ExpandedDayEntry {
	start := utils.StartCurrentDay(period.StartDate.Date)
	end := utils.StartCurrentDay(period.EndDate.Date)
	if end.Before(start) {
		return nil
	}

	entries := make([]domain.ExpandedDayEntry, 0, utils.DaysBetween(start, end))

	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		entries = append(entries, domain.ExpandedDayEntry{
			PeriodID:    period.ID,
			PersonID:    period.PersonID,
			Date:        date,
			DateKey:     utils.DateKey(date),
			DayPart:     periodDayPart(period, date, start, end),
			Description: period.Description,
			LeaveType:   period.LeaveType,
		})
	}

	return entries
}

func periodDayPart(period domain.LeavePeriod, date, start, end time.Time) domain.DayPart {
	// Для однодневного периода endDayPart не имеет собственного смысла
	if utils.SameDay(start, end) {
		return period.StartDayPart
	}
	if utils.SameDay(date, start) {
		return period.StartDayPart
	}
	if utils.SameDay(date, end) {
		return period.EndDayPart
	}
	return domain.DayPartFull
}
