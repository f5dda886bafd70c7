package matrix_service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/domain"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/ports/in"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/ports/out"
)

// BuildMatrix применяет параметры запроса к состоянию оркестратора и отдает
// снапшот матрицы с таймингами этапов
func (s *MatrixService) BuildMatrix(ctx context.Context, req in.MatrixRequest) (*domain.MatrixSnapshot, []domain.DebugInfo, error) {
	debug := MatrixServiceDebug{
		data: make([]domain.DebugInfo, 0),
	}

	if req.Theme != "" {
		s.OnThemeChanged(req.Theme)
	}
	if req.Filter != nil {
		s.OnFilterChanged(*req.Filter)
	}
	if req.Sort != nil {
		s.OnSortChanged(*req.Sort)
	}

	if req.Range != nil {
		s.mu.Lock()
		rangeChanged := !req.Range.Equal(s.rng)
		s.mu.Unlock()

		if rangeChanged {
			reload_debug := domain.DebugInfo{
				Event: "matrix.build.range.reload",
			}
			reload_debug.Start()
			if err := s.OnRangeChanged(ctx, *req.Range); err != nil {
				return nil, nil, err
			}
			reload_debug.Elapse()
			debug.AddDebugInfo(reload_debug)
		}
	}

	// Проверяем кэш снапшотов только если он включен
	key := s.snapshotKey()
	if s.cachePort != nil && s.cfg.Cache.Enabled {
		if cached, exists := s.cachePort.GetSnapshot(ctx, key); exists {
			s.logger.Debug("matrix.build.cache.hit", out.LogFields{
				"key": key,
			})
			return cached, debug.data, nil
		}
	}

	resolve_debug := domain.DebugInfo{
		Event: "matrix.build.cells.resolve",
	}
	resolve_debug.Start()

	s.mu.Lock()
	s.recomputeLocked()
	snapshot := s.snapshot
	s.mu.Unlock()

	resolve_debug.Elapse()
	resolve_debug.AddOption("rows", fmt.Sprintf("%d", len(snapshot.Rows)))
	resolve_debug.AddOption("days", fmt.Sprintf("%d", len(snapshot.Days)))
	debug.AddDebugInfo(resolve_debug)

	if s.cachePort != nil && s.cfg.Cache.Enabled {
		s.cachePort.StoreSnapshot(ctx, key, snapshot)
	}

	return snapshot, debug.data, nil
}

// CreateLeavePeriod - оптимистичное создание: временный период вставляется
// и публикуется до сетевого подтверждения, после подтверждения заменяется
// серверным. При ошибке сети временная запись убирается, пользователю
// остается только сообщение об ошибке
func (s *MatrixService) CreateLeavePeriod(ctx context.Context, draft domain.LeavePeriodDraft) (*domain.LeavePeriod, error) {
	tempID := domain.NewTempPeriodID()
	temp := draft.ToPeriod(tempID, s.leaveTypeByID(draft.LeaveTypeID))

	// Валидация до любого сетевого вызова
	if err := temp.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.expander.Add(temp)
	s.recomputeLocked()
	s.mu.Unlock()
	s.invalidateSnapshots(ctx)

	s.logger.Debug("matrix.period.create.optimistic", out.LogFields{
		"tempId":   tempID,
		"personId": draft.PersonID,
	})

	confirmed, err := s.rosterPort.CreateLeavePeriod(ctx, draft)
	if err != nil {
		s.logger.Error("matrix.period.create.failed", out.LogFields{
			"tempId": tempID,
			"error":  err.Error(),
		})

		s.mu.Lock()
		s.expander.Remove(tempID)
		s.recomputeLocked()
		s.mu.Unlock()
		s.invalidateSnapshots(ctx)

		return nil, fmt.Errorf("matrix.period.create.failed: %w", err)
	}

	s.mu.Lock()
	s.expander.Confirm(tempID, *confirmed)
	s.recomputeLocked()
	s.mu.Unlock()
	s.invalidateSnapshots(ctx)

	s.logger.Info("matrix.period.create.confirmed", out.LogFields{
		"tempId":   tempID,
		"periodId": confirmed.ID,
	})

	return confirmed, nil
}

// UpdateLeavePeriod - оптимистичное изменение: локальный кэш обновляется
// сразу, после подтверждения заменяется серверной версией. Отката при
// ошибке сети нет - локальное состояние остается расходящимся с сервером
// до следующей перезагрузки окна
func (s *MatrixService) UpdateLeavePeriod(ctx context.Context, periodID string, draft domain.LeavePeriodDraft) (*domain.LeavePeriod, error) {
	s.mu.Lock()
	_, exists := s.expander.Period(periodID)
	s.mu.Unlock()
	if !exists {
		return nil, fmt.Errorf("leave period %s is not cached", periodID)
	}

	optimistic := draft.ToPeriod(periodID, s.leaveTypeByID(draft.LeaveTypeID))
	if err := optimistic.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.expander.Update(optimistic)
	s.recomputeLocked()
	s.mu.Unlock()
	s.invalidateSnapshots(ctx)

	confirmed, err := s.rosterPort.UpdateLeavePeriod(ctx, periodID, draft)
	if err != nil {
		s.logger.Error("matrix.period.update.failed", out.LogFields{
			"periodId": periodID,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("matrix.period.update.failed: %w", err)
	}

	s.mu.Lock()
	s.expander.Update(*confirmed)
	s.recomputeLocked()
	s.mu.Unlock()
	s.invalidateSnapshots(ctx)

	return confirmed, nil
}

// RemoveLeavePeriod удаляет период немедленно; отката при ошибке сети нет
func (s *MatrixService) RemoveLeavePeriod(ctx context.Context, periodID string) error {
	s.mu.Lock()
	removed := s.expander.Remove(periodID)
	if removed {
		s.recomputeLocked()
	}
	s.mu.Unlock()
	if !removed {
		return fmt.Errorf("leave period %s is not cached", periodID)
	}
	s.invalidateSnapshots(ctx)

	if _, err := s.rosterPort.DeleteLeavePeriod(ctx, periodID); err != nil {
		s.logger.Error("matrix.period.remove.failed", out.LogFields{
			"periodId": periodID,
			"error":    err.Error(),
		})
		return fmt.Errorf("matrix.period.remove.failed: %w", err)
	}

	return nil
}

// ApplyScheduleRange сохраняет глобальный диапазон и применяет его
func (s *MatrixService) ApplyScheduleRange(ctx context.Context, rng domain.DateRange) error {
	if err := rng.Validate(); err != nil {
		return err
	}

	if err := s.rosterPort.SaveScheduleRange(ctx, rng); err != nil {
		s.logger.Error("matrix.range.save_failed", out.LogFields{
			"range": rng.Key(),
			"error": err.Error(),
		})
		return fmt.Errorf("matrix.range.save_failed: %w", err)
	}

	return s.OnRangeChanged(ctx, rng)
}

func (s *MatrixService) Settings(ctx context.Context) (*domain.ScheduleSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings := s.settings
	return &settings, nil
}

// ApplySettings применяет настройки локально (патч нерабочих дней на месте)
// и сохраняет их во внешнее хранилище
func (s *MatrixService) ApplySettings(ctx context.Context, settings domain.ScheduleSettings) error {
	s.mu.Lock()
	s.applySettingsLocked(settings)
	s.mu.Unlock()
	s.invalidateSnapshots(ctx)

	if err := s.rosterPort.SaveSettings(ctx, settings); err != nil {
		s.logger.Error("matrix.settings.save_failed", out.LogFields{
			"error": err.Error(),
		})
		return fmt.Errorf("matrix.settings.save_failed: %w", err)
	}

	return nil
}

// Входные точки инвалидации для слушателя шины

func (s *MatrixService) StoreLeavePeriodCache(ctx context.Context, period domain.LeavePeriod) {
	s.mu.Lock()
	if _, exists := s.expander.Period(period.ID); exists {
		s.expander.Update(period)
	} else {
		s.expander.Add(period)
	}
	s.recomputeLocked()
	s.mu.Unlock()
	s.invalidateSnapshots(ctx)
}

func (s *MatrixService) InvalidateLeavePeriodCache(ctx context.Context, periodID string) {
	s.mu.Lock()
	if s.expander.Remove(periodID) {
		s.recomputeLocked()
	}
	s.mu.Unlock()
	s.invalidateSnapshots(ctx)
}

// InvalidatePersonCache перезагружает периоды одной персоны и заменяет
// все ее закэшированные периоды целиком
func (s *MatrixService) InvalidatePersonCache(ctx context.Context, personID uuid.UUID) {
	periods, err := s.rosterPort.GetPersonLeavePeriods(ctx, personID)
	if err != nil {
		s.logger.Error("matrix.person.periods.fetch_failed", out.LogFields{
			"personId": personID,
			"error":    err.Error(),
		})
		return
	}

	s.mu.Lock()
	s.expander.ReplacePersonPeriods(personID, periods)
	s.recomputeLocked()
	s.mu.Unlock()
	s.invalidateSnapshots(ctx)
}

// InvalidateSettingsCache перечитывает настройки из внешнего хранилища
// и перепатчивает нерабочие дни без перестройки календаря
func (s *MatrixService) InvalidateSettingsCache(ctx context.Context) {
	settings, err := s.rosterPort.GetSettings(ctx)
	if err != nil {
		s.logger.Error("matrix.settings.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return
	}

	s.mu.Lock()
	s.applySettingsLocked(*settings)
	s.mu.Unlock()
	s.invalidateSnapshots(ctx)
}

// applySettingsLocked патчит нерабочие дни на месте; смена начала недели
// меняет недельные шапки, поэтому колонки перестраиваются целиком
func (s *MatrixService) applySettingsLocked(settings domain.ScheduleSettings) {
	weekStartChanged := settings.WeekStart != s.settings.WeekStart
	s.settings = settings

	if weekStartChanged && s.rng.Validate() == nil {
		s.days = BuildCalendarDays(s.rng, s.settings, s.holidays, s.now())
	} else {
		PatchNonWorkingDays(s.days, s.settings)
	}
	s.recomputeLocked()
}

// InvalidateAllCache чистит все кэши и перезагружает текущее окно
func (s *MatrixService) InvalidateAllCache(ctx context.Context) {
	if s.cachePort != nil && s.cfg.Cache.Enabled {
		s.cachePort.InvalidateSnapshots(ctx)
		s.cachePort.InvalidateHolidayYears(ctx)
	}

	s.mu.Lock()
	rng := s.rng
	s.mu.Unlock()

	if rng.Validate() == nil {
		if err := s.OnRangeChanged(ctx, rng); err != nil {
			s.logger.Error("matrix.invalidate_all.reload_failed", out.LogFields{
				"error": err.Error(),
			})
		}
	}
}
