package out

import (
	"context"

	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/domain"
)

type HolidayPort interface {
	GetPublicHolidays(ctx context.Context, year int, regionCode string) ([]domain.Holiday, error)
}
