package in

import (
	"context"

	"github.com/google/uuid"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/domain"
)

// MatrixRequest - параметры построения матрицы из HTTP-запроса.
// Нулевые поля означают "оставить текущее состояние оркестратора"
type MatrixRequest struct {
	Range  *domain.DateRange
	Theme  domain.Theme
	Filter *domain.TeamFilter
	Sort   *domain.SortState
}

type MatrixUseCase interface {
	// Построение матрицы для диапазона с учетом фильтра и сортировки
	BuildMatrix(ctx context.Context, req MatrixRequest) (*domain.MatrixSnapshot, []domain.DebugInfo, error)

	// Оптимистичные мутации периодов отсутствия
	CreateLeavePeriod(ctx context.Context, draft domain.LeavePeriodDraft) (*domain.LeavePeriod, error)
	UpdateLeavePeriod(ctx context.Context, periodID string, draft domain.LeavePeriodDraft) (*domain.LeavePeriod, error)
	RemoveLeavePeriod(ctx context.Context, periodID string) error

	// Глобальный диапазон и настройки
	ApplyScheduleRange(ctx context.Context, rng domain.DateRange) error
	Settings(ctx context.Context) (*domain.ScheduleSettings, error)
	ApplySettings(ctx context.Context, settings domain.ScheduleSettings) error

	// Входные точки инвалидации кэша для слушателя шины
	StoreLeavePeriodCache(ctx context.Context, period domain.LeavePeriod)
	InvalidateLeavePeriodCache(ctx context.Context, periodID string)
	InvalidatePersonCache(ctx context.Context, personID uuid.UUID)
	InvalidateSettingsCache(ctx context.Context)
	InvalidateAllCache(ctx context.Context)
}
