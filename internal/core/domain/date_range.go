package domain

import (
	"fmt"

	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/json_types"
)

// DateRange - включительный диапазон календарных дат, без компонента времени
type DateRange struct {
	StartDate json_types.Date `json:"startDate"`
	EndDate   json_types.Date `json:"endDate"`
}

func (r DateRange) Validate() error {
	if r.StartDate.Date.IsZero() || r.EndDate.Date.IsZero() {
		return fmt.Errorf("date range is not set")
	}
	if r.EndDate.Date.Before(r.StartDate.Date) {
		return fmt.Errorf("start date %s is after end date %s", r.StartDate.Key(), r.EndDate.Key())
	}
	return nil
}

// Days возвращает количество дней в диапазоне включительно
func (r DateRange) Days() int {
	days := 0
	for d := r.StartDate.Date; !d.After(r.EndDate.Date); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}

// Key используется как ключ кэша снапшотов
func (r DateRange) Key() string {
	return r.StartDate.Key() + ".." + r.EndDate.Key()
}

func (r DateRange) Equal(other DateRange) bool {
	return r.StartDate.Key() == other.StartDate.Key() && r.EndDate.Key() == other.EndDate.Key()
}
