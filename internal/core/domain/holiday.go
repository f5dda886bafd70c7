package domain

import "github.com/suchimauz/roster-schedule-matrix-generator/internal/core/json_types"

// Holiday - государственный праздник из внешнего календаря
type Holiday struct {
	Date      json_types.Date `json:"date"`
	LocalName string          `json:"localName"`
	Name      string          `json:"name"`
}

// Label - подпись праздника для ячейки, локальное имя приоритетнее
func (h Holiday) Label() string {
	if h.LocalName != "" {
		return h.LocalName
	}
	return h.Name
}

// HolidayLookup - праздники по каноническому ключу даты
type HolidayLookup map[string]Holiday

func NewHolidayLookup(holidays []Holiday) HolidayLookup {
	lookup := make(HolidayLookup, len(holidays))
	for _, holiday := range holidays {
		lookup[holiday.Date.Key()] = holiday
	}
	return lookup
}

func (l HolidayLookup) Merge(holidays []Holiday) {
	for _, holiday := range holidays {
		l[holiday.Date.Key()] = holiday
	}
}
