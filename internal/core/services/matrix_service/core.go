package matrix_service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"

	"github.com/suchimauz/roster-schedule-matrix-generator/internal/config"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/domain"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/json_types"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/ports/out"
)

// MatrixService - оркестратор матрицы: владеет диапазоном дат, ростером,
// кэшем периодов и настройками, и дергает чистые функции построения при
// каждом дискретном изменении. Все пересчеты синхронные, сетевые вызовы -
// нет; состояние защищено одним мьютексом
type MatrixService struct {
	rosterPort  out.RosterPort
	holidayPort out.HolidayPort
	cachePort   out.CachePort
	logger      out.LoggerPort
	cfg         *config.Config

	collator *collate.Collator

	mu          sync.Mutex
	rng         domain.DateRange
	settings    domain.ScheduleSettings
	theme       domain.Theme
	persons     []domain.Person
	teams       []domain.Team
	leaveTypes  []domain.LeaveType
	holidays    domain.HolidayLookup
	loadedYears map[string]bool
	expander    *LeavePeriodExpander
	days        []domain.CalendarDay
	filter      domain.TeamFilter
	sortState   domain.SortState
	snapshot    *domain.MatrixSnapshot
	subscribers []func(domain.MatrixSnapshot)

	// Монотонный номер перезагрузки окна: ответ устаревшей перезагрузки,
	// пришедший после более новой, отбрасывается и не затирает ее результат
	reloadSeq atomic.Uint64
}

func NewMatrixService(
	rosterPort out.RosterPort,
	holidayPort out.HolidayPort,
	cachePort out.CachePort,
	logger out.LoggerPort,
	cfg *config.Config,
) *MatrixService {
	return &MatrixService{
		rosterPort:  rosterPort,
		holidayPort: holidayPort,
		cachePort:   cachePort,
		logger:      logger.WithModule("MatrixService"),
		cfg:         cfg,
		collator:    NewCollator(cfg.App.Locale),
		settings:    domain.DefaultScheduleSettings(),
		theme:       domain.ThemeLight,
		holidays:    make(domain.HolidayLookup),
		loadedYears: make(map[string]bool),
		expander:    NewLeavePeriodExpander(),
		filter:      domain.TeamFilter{Mode: domain.FilterModeOr},
	}
}

func (s *MatrixService) now() time.Time {
	return time.Now().In(config.TimeZone)
}

// Bootstrap загружает настройки, глобальный диапазон и справочники при
// старте и строит первый снапшот
func (s *MatrixService) Bootstrap(ctx context.Context) error {
	s.logger.Info("matrix.bootstrap.started", out.LogFields{})

	settings, err := s.rosterPort.GetSettings(ctx)
	if err != nil {
		s.logger.Warn("matrix.bootstrap.settings.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
	}

	rng, err := s.rosterPort.GetScheduleRange(ctx)
	if err != nil {
		s.logger.Warn("matrix.bootstrap.range.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
	}
	if rng == nil || rng.Validate() != nil {
		// Без сохраненного диапазона показываем месяц от сегодня
		now := s.now()
		rng = &domain.DateRange{
			StartDate: json_types.NewDate(now),
			EndDate:   json_types.NewDate(now.AddDate(0, 1, 0)),
		}
	}

	persons, err := s.rosterPort.GetPersons(ctx)
	if err != nil {
		s.logger.Error("matrix.bootstrap.persons.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return fmt.Errorf("matrix.bootstrap.persons.fetch_failed: %w", err)
	}

	teams, err := s.rosterPort.GetTeams(ctx)
	if err != nil {
		s.logger.Error("matrix.bootstrap.teams.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return fmt.Errorf("matrix.bootstrap.teams.fetch_failed: %w", err)
	}

	leaveTypes, err := s.rosterPort.GetLeaveTypes(ctx)
	if err != nil {
		s.logger.Warn("matrix.bootstrap.leave_types.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
	}

	s.mu.Lock()
	if settings != nil {
		s.settings = *settings
	}
	s.persons = persons
	s.teams = teams
	s.leaveTypes = leaveTypes
	s.mu.Unlock()

	if err := s.OnRangeChanged(ctx, *rng); err != nil {
		return err
	}

	s.logger.Info("matrix.bootstrap.finished", out.LogFields{
		"persons": len(persons),
		"teams":   len(teams),
		"range":   rng.Key(),
	})

	return nil
}

// OnRangeChanged перезагружает периоды и праздники для нового окна и
// перестраивает колонки целиком. Перезагрузка защищена номером
// последовательности: медленный ответ для старого окна не затаптывает
// результат более нового
func (s *MatrixService) OnRangeChanged(ctx context.Context, rng domain.DateRange) error {
	if err := rng.Validate(); err != nil {
		return err
	}

	seq := s.reloadSeq.Add(1)

	s.logger.Info("matrix.range.reload", out.LogFields{
		"range": rng.Key(),
		"seq":   seq,
	})

	periods, err := s.rosterPort.GetLeavePeriods(ctx, rng.StartDate.Date, rng.EndDate.Date)
	if err != nil {
		s.logger.Error("matrix.range.periods.fetch_failed", out.LogFields{
			"range": rng.Key(),
			"error": err.Error(),
		})
		return fmt.Errorf("matrix.range.periods.fetch_failed: %w", err)
	}

	holidays := s.loadHolidays(ctx, rng)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.reloadSeq.Load() {
		s.logger.Warn("matrix.range.reload_stale_dropped", out.LogFields{
			"range": rng.Key(),
			"seq":   seq,
		})
		return nil
	}

	s.rng = rng
	s.holidays.Merge(holidays)
	s.expander.ReplaceWindow(rng.StartDate.Date, rng.EndDate.Date, periods)
	s.days = BuildCalendarDays(rng, s.settings, s.holidays, s.now())
	s.recomputeLocked()

	return nil
}

func yearKey(year int, region string) string {
	return fmt.Sprintf("%d/%s", year, region)
}

// loadHolidays догружает недостающие годы праздничного календаря.
// Уже загруженный год не запрашивается повторно; ошибка по одному году
// не блокирует остальные
func (s *MatrixService) loadHolidays(ctx context.Context, rng domain.DateRange) []domain.Holiday {
	region := s.cfg.Holidays.Region
	loaded := make([]domain.Holiday, 0)

	for year := rng.StartDate.Date.Year(); year <= rng.EndDate.Date.Year(); year++ {
		s.mu.Lock()
		alreadyLoaded := s.loadedYears[yearKey(year, region)]
		s.mu.Unlock()
		if alreadyLoaded {
			continue
		}

		var holidays []domain.Holiday
		cacheHit := false
		if s.cachePort != nil && s.cfg.Cache.Enabled {
			holidays, cacheHit = s.cachePort.GetHolidayYear(ctx, year, region)
		}

		if !cacheHit {
			fetched, err := s.holidayPort.GetPublicHolidays(ctx, year, region)
			if err != nil {
				s.logger.Error("matrix.holidays.fetch_failed", out.LogFields{
					"year":   year,
					"region": region,
					"error":  err.Error(),
				})
				continue
			}
			holidays = fetched

			if s.cachePort != nil && s.cfg.Cache.Enabled {
				s.cachePort.StoreHolidayYear(ctx, year, region, holidays)
			}
		}

		s.mu.Lock()
		s.loadedYears[yearKey(year, region)] = true
		s.mu.Unlock()

		loaded = append(loaded, holidays...)
	}

	return loaded
}

// OnWorkingDaysChanged патчит на месте только флаг нерабочего дня у уже
// построенных колонок, без полного перестроения
func (s *MatrixService) OnWorkingDaysChanged(ctx context.Context, workingDays [7]bool) {
	s.mu.Lock()
	s.settings.WorkingDays = workingDays
	PatchNonWorkingDays(s.days, s.settings)
	s.recomputeLocked()
	s.mu.Unlock()
	s.invalidateSnapshots(ctx)
}

// OnHolidayCalendarChanged сбрасывает загруженные годы, перечитывает
// календарь и патчит только поля праздников
func (s *MatrixService) OnHolidayCalendarChanged(ctx context.Context) {
	s.mu.Lock()
	s.loadedYears = make(map[string]bool)
	s.holidays = make(domain.HolidayLookup)
	rng := s.rng
	s.mu.Unlock()

	if s.cachePort != nil && s.cfg.Cache.Enabled {
		s.cachePort.InvalidateHolidayYears(ctx)
	}

	holidays := s.loadHolidays(ctx, rng)

	s.mu.Lock()
	s.holidays.Merge(holidays)
	PatchHolidays(s.days, s.holidays)
	s.recomputeLocked()
	s.mu.Unlock()
	s.invalidateSnapshots(ctx)
}

// OnPeriodsChanged публикует новый снапшот после мутации кэша периодов
func (s *MatrixService) OnPeriodsChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recomputeLocked()
}

func (s *MatrixService) OnFilterChanged(filter domain.TeamFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
	s.recomputeLocked()
}

func (s *MatrixService) OnSortChanged(state domain.SortState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortState = state
	s.recomputeLocked()
}

// ToggleSort - клик по заголовку колонки: asc -> desc -> без сортировки
func (s *MatrixService) ToggleSort(field domain.SortField) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortState = s.sortState.Toggle(field)
	s.recomputeLocked()
}

func (s *MatrixService) OnThemeChanged(theme domain.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	s.recomputeLocked()
}

// Snapshot возвращает последний опубликованный снапшот
func (s *MatrixService) Snapshot() *domain.MatrixSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// recomputeLocked пересчитывает производное состояние: фильтр, сортировка,
// разрешение ячеек. Вызывается только под мьютексом
func (s *MatrixService) recomputeLocked() {
	filtered := FilterPersons(s.persons, s.filter)
	sorted := SortPersons(filtered, s.sortState, s.collator)
	defaultType := s.defaultLeaveTypeLocked()

	rows := make([]domain.MatrixRow, 0, len(sorted))
	for _, person := range sorted {
		cells := make([]domain.CellRender, len(s.days))
		for i, day := range s.days {
			var entryRef *domain.ExpandedDayEntry
			if entry, exists := s.expander.Entry(person.ID, day.DateKey); exists {
				entryCopy := entry
				entryRef = &entryCopy
			}
			cells[i] = ResolveCell(day, entryRef, s.theme, s.settings, defaultType)
		}
		rows = append(rows, domain.MatrixRow{Person: person, Cells: cells})
	}

	days := make([]domain.CalendarDay, len(s.days))
	copy(days, s.days)

	s.snapshot = &domain.MatrixSnapshot{
		Range:      s.rng,
		Theme:      s.theme,
		Filter:     s.filter,
		Sort:       s.sortState,
		Days:       days,
		Rows:       rows,
		TeamCounts: TeamCounts(s.persons, s.teams, s.filter),
	}

	s.notifyLocked(*s.snapshot)
}

// defaultLeaveTypeLocked - тип отсутствия по умолчанию: первый по порядку
// сортировки, когда у периода тип не назначен
func (s *MatrixService) defaultLeaveTypeLocked() domain.LeaveType {
	if len(s.leaveTypes) == 0 {
		return domain.LeaveType{
			Name:       "Leave",
			ColorLight: "#90caf9",
			ColorDark:  "#1565c0",
		}
	}

	defaultType := s.leaveTypes[0]
	for _, leaveType := range s.leaveTypes[1:] {
		if leaveType.SortOrder < defaultType.SortOrder {
			defaultType = leaveType
		}
	}
	return defaultType
}

func (s *MatrixService) leaveTypeByID(id *uuid.UUID) *domain.LeaveType {
	if id == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, leaveType := range s.leaveTypes {
		if leaveType.ID == *id {
			leaveTypeCopy := leaveType
			return &leaveTypeCopy
		}
	}
	return nil
}

func (s *MatrixService) invalidateSnapshots(ctx context.Context) {
	if s.cachePort != nil && s.cfg.Cache.Enabled {
		s.cachePort.InvalidateSnapshots(ctx)
	}
}

// snapshotKey - ключ кэша снапшотов по всем параметрам, влияющим на рендер
func (s *MatrixService) snapshotKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.rng.Key() + "|" + string(s.theme) + "|" + string(s.filter.Mode)
	for _, teamID := range s.filter.TeamIDs {
		key += "," + teamID.String()
	}
	key += "|" + string(s.sortState.Field) + ":" + string(s.sortState.Direction)
	return key
}
