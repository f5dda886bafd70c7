package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/suchimauz/roster-schedule-matrix-generator/internal/config"
)

// DateKey возвращает каноническую строку YYYY-MM-DD для сравнения и ключей
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// StartCurrentDay сбрасывает время на 00:00, таймзона остается прежней
func StartCurrentDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartNextDay возвращает новую дату, где день увеличен на 1, время установлено на 00:00
func StartNextDay(t time.Time) time.Time {
	newDate := t.AddDate(0, 0, 1)
	return time.Date(newDate.Year(), newDate.Month(), newDate.Day(), 0, 0, 0, 0, newDate.Location())
}

// SameDay сравнивает две даты по календарному дню, без учета времени
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DaysBetween возвращает количество дней между двумя датами включительно
func DaysBetween(start, end time.Time) int {
	s := StartCurrentDay(start)
	e := StartCurrentDay(end)
	if e.Before(s) {
		return 0
	}

	// Округление гасит 23/25-часовые сутки на переходах летнего времени
	return int(math.Round(e.Sub(s).Hours()/24)) + 1
}

// ParseDate парсит дату из канонической строки YYYY-MM-DD,
// если не удается, то пробует RFC3339 и дату со временем без таймзоны
func ParseDate(str string) (time.Time, error) {
	parsedDate, err := time.ParseInLocation("2006-01-02", str, config.TimeZone)
	if err != nil {
		parsedDate, err = time.Parse(time.RFC3339, str)
		if err != nil {
			parsedDate, err = time.ParseInLocation("2006-01-02T15:04:05", str, config.TimeZone)
			if err != nil {
				return time.Time{}, fmt.Errorf("failed to parse date: %v", err)
			}
		}
	}

	// Явная полночь, чтобы дневная арифметика не плыла по таймзонам
	return StartCurrentDay(parsedDate), nil
}
