package domain

import "time"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ColorPair - пара цветов для светлой и темной темы
type ColorPair struct {
	Light string `json:"light"`
	Dark  string `json:"dark"`
}

func (c ColorPair) Color(theme Theme) string {
	if theme == ThemeDark {
		return c.Dark
	}
	return c.Light
}

// ScheduleSettings - настройки матрицы: маска рабочих дней недели
// (индекс - time.Weekday, 0=воскресенье), день начала недели и цвета
type ScheduleSettings struct {
	WorkingDays         [7]bool      `json:"workingDays"`
	WeekStart           time.Weekday `json:"weekStart"`
	NonWorkingDayColors ColorPair    `json:"nonWorkingDayColors"`
	HolidayColors       ColorPair    `json:"holidayColors"`
}

func DefaultScheduleSettings() ScheduleSettings {
	return ScheduleSettings{
		WorkingDays: [7]bool{
			time.Sunday:    false,
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
			time.Saturday:  false,
		},
		WeekStart:           time.Monday,
		NonWorkingDayColors: ColorPair{Light: "#e8e8e8", Dark: "#3a3a3a"},
		HolidayColors:       ColorPair{Light: "#ffe0b2", Dark: "#5d4037"},
	}
}

// IsWorkingDay - предикат рабочего дня по маске
func (s ScheduleSettings) IsWorkingDay(weekday time.Weekday) bool {
	return s.WorkingDays[weekday]
}
