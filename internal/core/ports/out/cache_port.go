package out

import (
	"context"

	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/domain"
)

type CachePort interface {
	// Кэширование годов праздничного календаря, год запрашивается один раз
	GetHolidayYear(ctx context.Context, year int, regionCode string) ([]domain.Holiday, bool)
	StoreHolidayYear(ctx context.Context, year int, regionCode string, holidays []domain.Holiday)
	InvalidateHolidayYears(ctx context.Context)

	// Кэширование готовых снапшотов матрицы
	GetSnapshot(ctx context.Context, key string) (*domain.MatrixSnapshot, bool)
	StoreSnapshot(ctx context.Context, key string, snapshot *domain.MatrixSnapshot)
	InvalidateSnapshots(ctx context.Context)
}
