package out

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/domain"
)

type RosterPort interface {
	// Периоды отсутствия
	GetLeavePeriods(ctx context.Context, startDate, endDate time.Time) ([]domain.LeavePeriod, error)
	GetPersonLeavePeriods(ctx context.Context, personID uuid.UUID) ([]domain.LeavePeriod, error)
	CreateLeavePeriod(ctx context.Context, draft domain.LeavePeriodDraft) (*domain.LeavePeriod, error)
	UpdateLeavePeriod(ctx context.Context, periodID string, draft domain.LeavePeriodDraft) (*domain.LeavePeriod, error)
	DeleteLeavePeriod(ctx context.Context, periodID string) (bool, error)

	// Справочники
	GetPersons(ctx context.Context) ([]domain.Person, error)
	GetTeams(ctx context.Context) ([]domain.Team, error)
	GetLeaveTypes(ctx context.Context) ([]domain.LeaveType, error)

	// Глобальный диапазон матрицы и настройки, хранятся на стороне API
	GetScheduleRange(ctx context.Context) (*domain.DateRange, error)
	SaveScheduleRange(ctx context.Context, rng domain.DateRange) error
	GetSettings(ctx context.Context) (*domain.ScheduleSettings, error)
	SaveSettings(ctx context.Context, settings domain.ScheduleSettings) error
}
