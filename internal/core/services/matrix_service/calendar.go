package matrix_service

import (
	"time"

	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/domain"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/utils"
)

// BuildCalendarDays обходит диапазон день за днем, без пропусков через
// границы месяца, года и високосный день, и возвращает аннотированные
// колонки календаря со спанами для объединенных заголовков
func BuildCalendarDays(rng domain.DateRange, settings domain.ScheduleSettings, holidays domain.HolidayLookup, now time.Time) []domain.CalendarDay {
	start := utils.StartCurrentDay(rng.StartDate.Date)
	end := utils.StartCurrentDay(rng.EndDate.Date)
	if end.Before(start) {
		return []domain.CalendarDay{}
	}

	days := make([]domain.CalendarDay, 0, utils.DaysBetween(start, end))

	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		dateKey := utils.DateKey(date)
		_, isoWeek := date.ISOWeek()

		day := domain.CalendarDay{
			Date:            date,
			DateKey:         dateKey,
			DayOfWeek:       date.Weekday(),
			IsNonWorkingDay: !settings.IsWorkingDay(date.Weekday()),
			IsToday:         utils.SameDay(date, now),
			IsFirstOfMonth:  date.Day() == 1,
			IsFirstOfYear:   date.Day() == 1 && date.Month() == time.January,
			// Первая колонка всегда открывает неделю, иначе у частичной
			// ведущей недели не будет заголовка
			IsFirstOfWeek: date.Weekday() == settings.WeekStart || len(days) == 0,
			IsoWeekNumber: isoWeek,
		}

		if holiday, exists := holidays[dateKey]; exists {
			day.IsHoliday = true
			day.HolidayLabel = holiday.Label()
		}

		days = append(days, day)
	}

	computeSpans(days)

	return days
}

// computeSpans - второй проход: от каждого дня с флагом isFirstOfX считаем
// вперед длину непрерывной группы, чтобы рендер рисовал объединенные
// заголовки месяца/года/недели без повторного вывода границ
func computeSpans(days []domain.CalendarDay) {
	for i := range days {
		if days[i].IsFirstOfMonth {
			span := 1
			for j := i + 1; j < len(days); j++ {
				if days[j].Date.Month() != days[i].Date.Month() || days[j].Date.Year() != days[i].Date.Year() {
					break
				}
				span++
			}
			days[i].SpanDaysInMonth = span
		}

		if days[i].IsFirstOfYear {
			span := 1
			for j := i + 1; j < len(days); j++ {
				// Спан года не должен перетекать в соседний год
				if days[j].Date.Year() != days[i].Date.Year() {
					break
				}
				span++
			}
			days[i].SpanDaysInYear = span
		}

		if days[i].IsFirstOfWeek {
			span := 1
			for j := i + 1; j < len(days); j++ {
				if days[j].IsFirstOfWeek {
					break
				}
				span++
			}
			days[i].SpanDaysInWeek = span
		}
	}
}

// PatchNonWorkingDays патчит на месте только isNonWorkingDay после смены
// маски рабочих дней, остальные поля не трогаются
func PatchNonWorkingDays(days []domain.CalendarDay, settings domain.ScheduleSettings) {
	for i := range days {
		days[i].IsNonWorkingDay = !settings.IsWorkingDay(days[i].DayOfWeek)
	}
}

// PatchHolidays патчит на месте только isHoliday/holidayLabel после смены
// праздничного календаря
func PatchHolidays(days []domain.CalendarDay, holidays domain.HolidayLookup) {
	for i := range days {
		if holiday, exists := holidays[days[i].DateKey]; exists {
			days[i].IsHoliday = true
			days[i].HolidayLabel = holiday.Label()
		} else {
			days[i].IsHoliday = false
			days[i].HolidayLabel = ""
		}
	}
}
