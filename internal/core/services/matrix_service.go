package services

import (
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/config"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/ports/out"
	matrix "github.com/suchimauz/roster-schedule-matrix-generator/internal/core/services/matrix_service"
)

type MatrixService = matrix.MatrixService

func NewMatrixService(
	rosterPort out.RosterPort,
	holidayPort out.HolidayPort,
	cachePort out.CachePort,
	logger out.LoggerPort,
	cfg *config.Config,
) *MatrixService {
	return matrix.NewMatrixService(rosterPort, holidayPort, cachePort, logger, cfg)
}
