package roster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	nurl "net/url"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/config"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/domain"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/ports/out"
)

// RosterAdapter - HTTP-клиент внешнего API ростера: периоды отсутствия,
// персоны, команды, типы отсутствия, глобальный диапазон и настройки
type RosterAdapter struct {
	client   *http.Client
	baseURL  string
	username string
	password string
	logger   out.LoggerPort
}

func NewRosterAdapter(cfg *config.Config, logger out.LoggerPort) *RosterAdapter {
	return &RosterAdapter{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  cfg.Roster.URL,
		username: cfg.Roster.Username,
		password: cfg.Roster.Password,
		logger:   logger,
	}
}

func (a *RosterAdapter) doJSON(ctx context.Context, method, url string, query nurl.Values, body interface{}, result interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}

	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth(a.username, a.password)

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

func (a *RosterAdapter) GetLeavePeriods(ctx context.Context, startDate, endDate time.Time) ([]domain.LeavePeriod, error) {
	a.logger.Info("roster.leave_periods.fetch", out.LogFields{
		"startDate": startDate.Format("2006-01-02"),
		"endDate":   endDate.Format("2006-01-02"),
	})

	query := nurl.Values{}
	query.Add("startDate", startDate.Format("2006-01-02"))
	query.Add("endDate", endDate.Format("2006-01-02"))

	var periods []domain.LeavePeriod
	url := fmt.Sprintf("%s/leave-periods", a.baseURL)
	if err := a.doJSON(ctx, http.MethodGet, url, query, nil, &periods); err != nil {
		a.logger.Error("roster.leave_periods.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("roster.leave_periods.fetch_success", out.LogFields{
		"count": len(periods),
	})

	return periods, nil
}

func (a *RosterAdapter) GetPersonLeavePeriods(ctx context.Context, personID uuid.UUID) ([]domain.LeavePeriod, error) {
	a.logger.Info("roster.person_leave_periods.fetch", out.LogFields{
		"personId": personID,
	})

	query := nurl.Values{}
	query.Add("personId", personID.String())

	var periods []domain.LeavePeriod
	url := fmt.Sprintf("%s/leave-periods", a.baseURL)
	if err := a.doJSON(ctx, http.MethodGet, url, query, nil, &periods); err != nil {
		a.logger.Error("roster.person_leave_periods.fetch_failed", out.LogFields{
			"personId": personID,
			"error":    err.Error(),
		})
		return nil, err
	}

	return periods, nil
}

func (a *RosterAdapter) CreateLeavePeriod(ctx context.Context, draft domain.LeavePeriodDraft) (*domain.LeavePeriod, error) {
	a.logger.Info("roster.leave_period.create", out.LogFields{
		"personId": draft.PersonID,
	})

	var period domain.LeavePeriod
	url := fmt.Sprintf("%s/leave-periods", a.baseURL)
	if err := a.doJSON(ctx, http.MethodPost, url, nil, draft, &period); err != nil {
		a.logger.Error("roster.leave_period.create_failed", out.LogFields{
			"personId": draft.PersonID,
			"error":    err.Error(),
		})
		return nil, err
	}

	return &period, nil
}

func (a *RosterAdapter) UpdateLeavePeriod(ctx context.Context, periodID string, draft domain.LeavePeriodDraft) (*domain.LeavePeriod, error) {
	a.logger.Info("roster.leave_period.update", out.LogFields{
		"periodId": periodID,
	})

	var period domain.LeavePeriod
	url := fmt.Sprintf("%s/leave-periods/%s", a.baseURL, periodID)
	if err := a.doJSON(ctx, http.MethodPut, url, nil, draft, &period); err != nil {
		a.logger.Error("roster.leave_period.update_failed", out.LogFields{
			"periodId": periodID,
			"error":    err.Error(),
		})
		return nil, err
	}

	return &period, nil
}

func (a *RosterAdapter) DeleteLeavePeriod(ctx context.Context, periodID string) (bool, error) {
	a.logger.Info("roster.leave_period.delete", out.LogFields{
		"periodId": periodID,
	})

	var result struct {
		Deleted bool `json:"deleted"`
	}
	url := fmt.Sprintf("%s/leave-periods/%s", a.baseURL, periodID)
	if err := a.doJSON(ctx, http.MethodDelete, url, nil, nil, &result); err != nil {
		a.logger.Error("roster.leave_period.delete_failed", out.LogFields{
			"periodId": periodID,
			"error":    err.Error(),
		})
		return false, err
	}

	return result.Deleted, nil
}

func (a *RosterAdapter) GetPersons(ctx context.Context) ([]domain.Person, error) {
	a.logger.Info("roster.persons.fetch", out.LogFields{})

	var persons []domain.Person
	url := fmt.Sprintf("%s/persons", a.baseURL)
	if err := a.doJSON(ctx, http.MethodGet, url, nil, nil, &persons); err != nil {
		a.logger.Error("roster.persons.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("roster.persons.fetch_success", out.LogFields{
		"count": len(persons),
	})

	return persons, nil
}

func (a *RosterAdapter) GetTeams(ctx context.Context) ([]domain.Team, error) {
	a.logger.Info("roster.teams.fetch", out.LogFields{})

	var teams []domain.Team
	url := fmt.Sprintf("%s/teams", a.baseURL)
	if err := a.doJSON(ctx, http.MethodGet, url, nil, nil, &teams); err != nil {
		a.logger.Error("roster.teams.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return teams, nil
}

func (a *RosterAdapter) GetLeaveTypes(ctx context.Context) ([]domain.LeaveType, error) {
	a.logger.Info("roster.leave_types.fetch", out.LogFields{})

	var leaveTypes []domain.LeaveType
	url := fmt.Sprintf("%s/leave-types", a.baseURL)
	if err := a.doJSON(ctx, http.MethodGet, url, nil, nil, &leaveTypes); err != nil {
		a.logger.Error("roster.leave_types.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return leaveTypes, nil
}

func (a *RosterAdapter) GetScheduleRange(ctx context.Context) (*domain.DateRange, error) {
	a.logger.Info("roster.schedule_range.fetch", out.LogFields{})

	var rng domain.DateRange
	url := fmt.Sprintf("%s/schedule-range", a.baseURL)
	if err := a.doJSON(ctx, http.MethodGet, url, nil, nil, &rng); err != nil {
		a.logger.Error("roster.schedule_range.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &rng, nil
}

func (a *RosterAdapter) SaveScheduleRange(ctx context.Context, rng domain.DateRange) error {
	a.logger.Info("roster.schedule_range.save", out.LogFields{
		"range": rng.Key(),
	})

	url := fmt.Sprintf("%s/schedule-range", a.baseURL)
	if err := a.doJSON(ctx, http.MethodPut, url, nil, rng, nil); err != nil {
		a.logger.Error("roster.schedule_range.save_failed", out.LogFields{
			"error": err.Error(),
		})
		return err
	}

	return nil
}

func (a *RosterAdapter) GetSettings(ctx context.Context) (*domain.ScheduleSettings, error) {
	a.logger.Info("roster.settings.fetch", out.LogFields{})

	var settings domain.ScheduleSettings
	url := fmt.Sprintf("%s/settings", a.baseURL)
	if err := a.doJSON(ctx, http.MethodGet, url, nil, nil, &settings); err != nil {
		a.logger.Error("roster.settings.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &settings, nil
}

func (a *RosterAdapter) SaveSettings(ctx context.Context, settings domain.ScheduleSettings) error {
	a.logger.Info("roster.settings.save", out.LogFields{})

	url := fmt.Sprintf("%s/settings", a.baseURL)
	if err := a.doJSON(ctx, http.MethodPut, url, nil, settings, nil); err != nil {
		a.logger.Error("roster.settings.save_failed", out.LogFields{
			"error": err.Error(),
		})
		return err
	}

	return nil
}
