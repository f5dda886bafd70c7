package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/json_types"
)

type DayPart string

const (
	DayPartFull      DayPart = "full"
	DayPartMorning   DayPart = "morning"
	DayPartAfternoon DayPart = "afternoon"
)

// TempPeriodIDPrefix - префикс локального id периода до подтверждения сервером
const TempPeriodIDPrefix = "temp-"

func NewTempPeriodID() string {
	return TempPeriodIDPrefix + uuid.NewString()
}

// LeavePeriod - непрерывный период отсутствия с независимыми частями дня
// на первом и последнем дне. Id выдает сервер, временные периоды живут
// локально с префиксом temp- до подтверждения
type LeavePeriod struct {
	ID           string          `json:"id"`
	PersonID     uuid.UUID       `json:"personId"`
	StartDate    json_types.Date `json:"startDate"`
	EndDate      json_types.Date `json:"endDate"`
	StartDayPart DayPart         `json:"startDayPart"`
	EndDayPart   DayPart         `json:"endDayPart"`
	Description  string          `json:"description,omitempty"`
	LeaveType    *LeaveType      `json:"leaveType,omitempty"`
}

func (p LeavePeriod) Validate() error {
	if p.PersonID == uuid.Nil {
		return fmt.Errorf("leave period has no person")
	}
	if p.StartDate.Date.IsZero() || p.EndDate.Date.IsZero() {
		return fmt.Errorf("leave period dates are not set")
	}
	if p.EndDate.Date.Before(p.StartDate.Date) {
		return fmt.Errorf("leave period start %s is after end %s", p.StartDate.Key(), p.EndDate.Key())
	}
	return nil
}

func (p LeavePeriod) IsTemporary() bool {
	return strings.HasPrefix(p.ID, TempPeriodIDPrefix)
}

// Overlaps - тест пересечения интервалов по календарным дням включительно
func (p LeavePeriod) Overlaps(start, end time.Time) bool {
	return !p.StartDate.Date.After(end) && !p.EndDate.Date.Before(start)
}

// LeavePeriodDraft - все поля периода кроме id, запрос на создание/изменение
type LeavePeriodDraft struct {
	PersonID     uuid.UUID       `json:"personId"`
	StartDate    json_types.Date `json:"startDate"`
	EndDate      json_types.Date `json:"endDate"`
	StartDayPart DayPart         `json:"startDayPart"`
	EndDayPart   DayPart         `json:"endDayPart"`
	Description  string          `json:"description,omitempty"`
	LeaveTypeID  *uuid.UUID      `json:"leaveTypeId,omitempty"`
}

func (d LeavePeriodDraft) ToPeriod(id string, leaveType *LeaveType) LeavePeriod {
	return LeavePeriod{
		ID:           id,
		PersonID:     d.PersonID,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		StartDayPart: d.StartDayPart,
		EndDayPart:   d.EndDayPart,
		Description:  d.Description,
		LeaveType:    leaveType,
	}
}

// ExpandedDayEntry - материализация одного календарного дня периода,
// ключуется парой (personId, dateKey) для O(1) доступа при рендере
type ExpandedDayEntry struct {
	PeriodID    string     `json:"periodId"`
	PersonID    uuid.UUID  `json:"personId"`
	Date        time.Time  `json:"-"`
	DateKey     string     `json:"dateKey"`
	DayPart     DayPart    `json:"dayPart"`
	Description string     `json:"description,omitempty"`
	LeaveType   *LeaveType `json:"leaveType,omitempty"`
}

type LeaveType struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ColorLight string    `json:"colorLight"`
	ColorDark  string    `json:"colorDark"`
	SortOrder  int       `json:"sortOrder"`
}

func (t LeaveType) Color(theme Theme) string {
	if theme == ThemeDark {
		return t.ColorDark
	}
	return t.ColorLight
}
