package matrix_service

import (
	"fmt"

	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/domain"
)

// ResolveCell разрешает визуальное состояние одной ячейки из пересекающихся
// источников. Фоновая раскраска дня: "сегодня" не красится вообще (UI рисует
// рамку), дальше праздник, дальше нерабочий день. Отсутствие персоны красится
// поверх дневного фона независимо - это действующий сигнал и он всегда виден
func ResolveCell(day domain.CalendarDay, entry *domain.ExpandedDayEntry, theme domain.Theme, settings domain.ScheduleSettings, defaultLeaveType domain.LeaveType) domain.CellRender {
	cell := domain.CellRender{}

	if !day.IsToday {
		if day.IsHoliday {
			cell.BackgroundColor = settings.HolidayColors.Color(theme)
		} else if day.IsNonWorkingDay {
			cell.BackgroundColor = settings.NonWorkingDayColors.Color(theme)
		}
	}

	if day.IsHoliday {
		cell.TooltipText = day.HolidayLabel
	}

	if entry == nil {
		return cell
	}

	leaveType := defaultLeaveType
	if entry.LeaveType != nil {
		leaveType = *entry.LeaveType
	}
	color := leaveType.Color(theme)

	switch entry.DayPart {
	case domain.DayPartMorning:
		// Диагональный сплит, цвет отсутствия занимает верхнюю левую половину
		cell.BackgroundColor = ""
		cell.BackgroundGradient = fmt.Sprintf("linear-gradient(135deg, %s 50%%, transparent 50%%)", color)
	case domain.DayPartAfternoon:
		// Зеркальный сплит для второй половины дня
		cell.BackgroundColor = ""
		cell.BackgroundGradient = fmt.Sprintf("linear-gradient(315deg, %s 50%%, transparent 50%%)", color)
	default:
		cell.BackgroundColor = color
		cell.BackgroundGradient = ""
	}

	cell.TooltipText = leaveTooltip(leaveType, entry)

	return cell
}

func leaveTooltip(leaveType domain.LeaveType, entry *domain.ExpandedDayEntry) string {
	text := leaveType.Name

	switch entry.DayPart {
	case domain.DayPartMorning:
		text += " (morning)"
	case domain.DayPartAfternoon:
		text += " (afternoon)"
	}

	if entry.Description != "" {
		text += ": " + entry.Description
	}

	return text
}
