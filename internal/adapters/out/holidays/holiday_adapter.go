package holidays

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/suchimauz/roster-schedule-matrix-generator/internal/config"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/domain"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/ports/out"
)

// HolidayAdapter - HTTP-клиент внешнего календаря государственных праздников
type HolidayAdapter struct {
	client  *http.Client
	baseURL string
	logger  out.LoggerPort
}

func NewHolidayAdapter(cfg *config.Config, logger out.LoggerPort) *HolidayAdapter {
	return &HolidayAdapter{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: cfg.Holidays.URL,
		logger:  logger,
	}
}

func (a *HolidayAdapter) GetPublicHolidays(ctx context.Context, year int, regionCode string) ([]domain.Holiday, error) {
	a.logger.Info("holidays.fetch", out.LogFields{
		"year":   year,
		"region": regionCode,
	})

	url := fmt.Sprintf("%s/PublicHolidays/%d/%s", a.baseURL, year, regionCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		a.logger.Error("holidays.fetch_failed", out.LogFields{
			"year":  year,
			"error": err.Error(),
		})
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("holidays.fetch_failed", out.LogFields{
			"year":  year,
			"error": err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("holidays.fetch_failed", out.LogFields{
			"year":   year,
			"status": resp.StatusCode,
		})
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var holidays []domain.Holiday
	if err := json.NewDecoder(resp.Body).Decode(&holidays); err != nil {
		a.logger.Error("holidays.decode_failed", out.LogFields{
			"year":  year,
			"error": err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("holidays.fetch_success", out.LogFields{
		"year":  year,
		"count": len(holidays),
	})

	return holidays, nil
}
