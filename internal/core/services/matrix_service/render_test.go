package matrix_service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/domain"
)

var testLeaveType = domain.LeaveType{
	ID:         uuid.New(),
	Name:       "Vacation",
	ColorLight: "#a5d6a7",
	ColorDark:  "#2e7d32",
}

func testEntry(part domain.DayPart, description string, leaveType *domain.LeaveType) *domain.ExpandedDayEntry {
	return &domain.ExpandedDayEntry{
		PeriodID:    "p1",
		PersonID:    uuid.New(),
		DateKey:     "2024-06-10",
		DayPart:     part,
		Description: description,
		LeaveType:   leaveType,
	}
}

func TestResolveCellPlainDay(t *testing.T) {
	settings := domain.DefaultScheduleSettings()
	cell := ResolveCell(domain.CalendarDay{}, nil, domain.ThemeLight, settings, testLeaveType)

	if cell.BackgroundColor != "" || cell.BackgroundGradient != "" || cell.TooltipText != "" {
		t.Fatalf("plain working day must render empty, got %+v", cell)
	}
}

func TestResolveCellNonWorkingDay(t *testing.T) {
	settings := domain.DefaultScheduleSettings()
	day := domain.CalendarDay{IsNonWorkingDay: true}

	cell := ResolveCell(day, nil, domain.ThemeLight, settings, testLeaveType)
	if cell.BackgroundColor != settings.NonWorkingDayColors.Light {
		t.Fatalf("expected non-working color, got %q", cell.BackgroundColor)
	}

	cell = ResolveCell(day, nil, domain.ThemeDark, settings, testLeaveType)
	if cell.BackgroundColor != settings.NonWorkingDayColors.Dark {
		t.Fatalf("expected dark theme non-working color, got %q", cell.BackgroundColor)
	}
}

func TestResolveCellHolidayBeatsNonWorking(t *testing.T) {
	settings := domain.DefaultScheduleSettings()
	day := domain.CalendarDay{
		IsNonWorkingDay: true,
		IsHoliday:       true,
		HolidayLabel:    "Koningsdag",
	}

	cell := ResolveCell(day, nil, domain.ThemeLight, settings, testLeaveType)
	if cell.BackgroundColor != settings.HolidayColors.Light {
		t.Fatalf("holiday color must win over non-working, got %q", cell.BackgroundColor)
	}
	if cell.TooltipText != "Koningsdag" {
		t.Fatalf("holiday label must become the tooltip, got %q", cell.TooltipText)
	}
}

func TestResolveCellTodaySuppressesDayBackground(t *testing.T) {
	settings := domain.DefaultScheduleSettings()
	day := domain.CalendarDay{
		IsToday:         true,
		IsNonWorkingDay: true,
		IsHoliday:       true,
		HolidayLabel:    "Koningsdag",
	}

	cell := ResolveCell(day, nil, domain.ThemeLight, settings, testLeaveType)
	if cell.BackgroundColor != "" {
		t.Fatalf("today must render without day background, got %q", cell.BackgroundColor)
	}
	// Подсказка праздника остается и у сегодняшнего дня
	if cell.TooltipText != "Koningsdag" {
		t.Fatalf("holiday tooltip must survive on today, got %q", cell.TooltipText)
	}
}

func TestResolveCellLeaveOverridesDayBackground(t *testing.T) {
	settings := domain.DefaultScheduleSettings()
	day := domain.CalendarDay{IsNonWorkingDay: true}
	entry := testEntry(domain.DayPartFull, "", &testLeaveType)

	cell := ResolveCell(day, entry, domain.ThemeLight, settings, testLeaveType)
	if cell.BackgroundColor != testLeaveType.ColorLight {
		t.Fatalf("leave color must override the day background, got %q", cell.BackgroundColor)
	}
	if cell.BackgroundGradient != "" {
		t.Fatalf("full day leave must not use a gradient")
	}
	if cell.TooltipText != "Vacation" {
		t.Fatalf("expected leave tooltip, got %q", cell.TooltipText)
	}
}

func TestResolveCellHalfDaySplits(t *testing.T) {
	settings := domain.DefaultScheduleSettings()

	morning := ResolveCell(domain.CalendarDay{}, testEntry(domain.DayPartMorning, "", &testLeaveType), domain.ThemeLight, settings, testLeaveType)
	if morning.BackgroundColor != "" {
		t.Fatalf("half day must not set a solid color")
	}
	if !strings.Contains(morning.BackgroundGradient, "135deg") || !strings.Contains(morning.BackgroundGradient, testLeaveType.ColorLight) {
		t.Fatalf("morning gradient is wrong: %q", morning.BackgroundGradient)
	}

	afternoon := ResolveCell(domain.CalendarDay{}, testEntry(domain.DayPartAfternoon, "", &testLeaveType), domain.ThemeLight, settings, testLeaveType)
	if !strings.Contains(afternoon.BackgroundGradient, "315deg") {
		t.Fatalf("afternoon gradient must be mirrored: %q", afternoon.BackgroundGradient)
	}
}

func TestResolveCellTooltipComposition(t *testing.T) {
	settings := domain.DefaultScheduleSettings()

	cell := ResolveCell(domain.CalendarDay{}, testEntry(domain.DayPartMorning, "dentist", &testLeaveType), domain.ThemeLight, settings, testLeaveType)
	if cell.TooltipText != "Vacation (morning): dentist" {
		t.Fatalf("unexpected tooltip: %q", cell.TooltipText)
	}

	cell = ResolveCell(domain.CalendarDay{}, testEntry(domain.DayPartAfternoon, "", &testLeaveType), domain.ThemeLight, settings, testLeaveType)
	if cell.TooltipText != "Vacation (afternoon)" {
		t.Fatalf("unexpected tooltip: %q", cell.TooltipText)
	}
}

func TestResolveCellFallsBackToDefaultLeaveType(t *testing.T) {
	settings := domain.DefaultScheduleSettings()
	fallback := domain.LeaveType{Name: "Leave", ColorLight: "#90caf9", ColorDark: "#1565c0"}

	cell := ResolveCell(domain.CalendarDay{}, testEntry(domain.DayPartFull, "", nil), domain.ThemeLight, settings, fallback)
	if cell.BackgroundColor != fallback.ColorLight {
		t.Fatalf("entry without a type must use the fallback color, got %q", cell.BackgroundColor)
	}
	if cell.TooltipText != "Leave" {
		t.Fatalf("entry without a type must use the fallback name, got %q", cell.TooltipText)
	}
}
