package domain

import "time"

// CalendarDay - аннотированная колонка календаря, производные данные, не хранится.
// Пересчитывается целиком при смене диапазона; смена маски рабочих дней и
// календаря праздников патчит только свои поля.
type CalendarDay struct {
	Date            time.Time    `json:"-"`
	DateKey         string       `json:"dateKey"`
	DayOfWeek       time.Weekday `json:"dayOfWeek"`
	IsNonWorkingDay bool         `json:"isNonWorkingDay"`
	IsHoliday       bool         `json:"isHoliday"`
	HolidayLabel    string       `json:"holidayLabel,omitempty"`
	IsToday         bool         `json:"isToday"`
	IsFirstOfMonth  bool         `json:"isFirstOfMonth"`
	IsFirstOfYear   bool         `json:"isFirstOfYear"`
	IsFirstOfWeek   bool         `json:"isFirstOfWeek"`
	IsoWeekNumber   int          `json:"isoWeekNumber"`

	// Спаны заполнены только у дней с соответствующим флагом isFirstOfX,
	// чтобы рендер мог рисовать объединенные заголовки без повторного обхода
	SpanDaysInMonth int `json:"spanDaysInMonth,omitempty"`
	SpanDaysInYear  int `json:"spanDaysInYear,omitempty"`
	SpanDaysInWeek  int `json:"spanDaysInWeek,omitempty"`
}
