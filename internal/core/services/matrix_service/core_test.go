package matrix_service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/config"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/domain"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/ports/in"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/ports/out"
)

type nopLogger struct{}

func (nopLogger) Debug(event string, fields out.LogFields)        {}
func (nopLogger) Info(event string, fields out.LogFields)         {}
func (nopLogger) Warn(event string, fields out.LogFields)         {}
func (nopLogger) Error(event string, fields out.LogFields)        {}
func (l nopLogger) WithFields(fields out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(module string) out.LoggerPort        { return l }

// fakeRoster - управляемая заглушка внешнего API ростера
type fakeRoster struct {
	persons    []domain.Person
	teams      []domain.Team
	leaveTypes []domain.LeaveType
	periods    []domain.LeavePeriod
	rng        *domain.DateRange
	settings   *domain.ScheduleSettings

	createResult *domain.LeavePeriod
	createErr    error
	deleteErr    error

	// Хук, зовется внутри загрузки периодов, до возврата ответа
	onGetLeavePeriods func()

	periodFetches int
}

func (f *fakeRoster) GetLeavePeriods(ctx context.Context, startDate, endDate time.Time) ([]domain.LeavePeriod, error) {
	f.periodFetches++
	if f.onGetLeavePeriods != nil {
		hook := f.onGetLeavePeriods
		f.onGetLeavePeriods = nil
		hook()
	}
	return f.periods, nil
}

func (f *fakeRoster) GetPersonLeavePeriods(ctx context.Context, personID uuid.UUID) ([]domain.LeavePeriod, error) {
	matched := make([]domain.LeavePeriod, 0)
	for _, period := range f.periods {
		if period.PersonID == personID {
			matched = append(matched, period)
		}
	}
	return matched, nil
}

func (f *fakeRoster) CreateLeavePeriod(ctx context.Context, draft domain.LeavePeriodDraft) (*domain.LeavePeriod, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createResult, nil
}

func (f *fakeRoster) UpdateLeavePeriod(ctx context.Context, periodID string, draft domain.LeavePeriodDraft) (*domain.LeavePeriod, error) {
	period := draft.ToPeriod(periodID, nil)
	return &period, nil
}

func (f *fakeRoster) DeleteLeavePeriod(ctx context.Context, periodID string) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	return true, nil
}

func (f *fakeRoster) GetPersons(ctx context.Context) ([]domain.Person, error) { return f.persons, nil }
func (f *fakeRoster) GetTeams(ctx context.Context) ([]domain.Team, error)     { return f.teams, nil }
func (f *fakeRoster) GetLeaveTypes(ctx context.Context) ([]domain.LeaveType, error) {
	return f.leaveTypes, nil
}

func (f *fakeRoster) GetScheduleRange(ctx context.Context) (*domain.DateRange, error) {
	return f.rng, nil
}

func (f *fakeRoster) SaveScheduleRange(ctx context.Context, rng domain.DateRange) error {
	f.rng = &rng
	return nil
}

func (f *fakeRoster) GetSettings(ctx context.Context) (*domain.ScheduleSettings, error) {
	return f.settings, nil
}

func (f *fakeRoster) SaveSettings(ctx context.Context, settings domain.ScheduleSettings) error {
	f.settings = &settings
	return nil
}

type fakeHolidays struct {
	holidays map[int][]domain.Holiday
	fetches  int
}

func (f *fakeHolidays) GetPublicHolidays(ctx context.Context, year int, regionCode string) ([]domain.Holiday, error) {
	f.fetches++
	return f.holidays[year], nil
}

// fakeCache - кэш снапшотов с подсчетом инвалидаций
type fakeCache struct {
	snapshots     map[string]*domain.MatrixSnapshot
	invalidations int
}

func newFakeCache() *fakeCache {
	return &fakeCache{snapshots: make(map[string]*domain.MatrixSnapshot)}
}

func (f *fakeCache) GetHolidayYear(ctx context.Context, year int, regionCode string) ([]domain.Holiday, bool) {
	return nil, false
}

func (f *fakeCache) StoreHolidayYear(ctx context.Context, year int, regionCode string, holidays []domain.Holiday) {
}

func (f *fakeCache) InvalidateHolidayYears(ctx context.Context) {}

func (f *fakeCache) GetSnapshot(ctx context.Context, key string) (*domain.MatrixSnapshot, bool) {
	snapshot, exists := f.snapshots[key]
	return snapshot, exists
}

func (f *fakeCache) StoreSnapshot(ctx context.Context, key string, snapshot *domain.MatrixSnapshot) {
	f.snapshots[key] = snapshot
}

func (f *fakeCache) InvalidateSnapshots(ctx context.Context) {
	f.snapshots = make(map[string]*domain.MatrixSnapshot)
	f.invalidations++
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Locale = "nl"
	cfg.Holidays.Region = "NL"
	return cfg
}

func newTestService(roster *fakeRoster, holidays *fakeHolidays) *MatrixService {
	return NewMatrixService(roster, holidays, nil, nopLogger{}, testConfig())
}

func bootstrappedService(t *testing.T, roster *fakeRoster, holidays *fakeHolidays) *MatrixService {
	t.Helper()
	service := newTestService(roster, holidays)
	if err := service.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	return service
}

func TestBootstrapBuildsFirstSnapshot(t *testing.T) {
	personID := uuid.New()
	rng := testRange("2024-06-10", "2024-06-16")
	roster := &fakeRoster{
		persons: []domain.Person{{ID: personID, FirstName: "Anna", LastName: "Bakker"}},
		rng:     &rng,
		periods: []domain.LeavePeriod{
			testPeriod("p1", personID, "2024-06-11", "2024-06-12", domain.DayPartFull, domain.DayPartFull),
		},
	}
	service := bootstrappedService(t, roster, &fakeHolidays{})

	snapshot := service.Snapshot()
	if snapshot == nil {
		t.Fatalf("bootstrap must publish a snapshot")
	}
	if len(snapshot.Days) != 7 {
		t.Fatalf("expected 7 calendar days, got %d", len(snapshot.Days))
	}
	if len(snapshot.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(snapshot.Rows))
	}
	if snapshot.Rows[0].Cells[1].BackgroundColor == "" {
		t.Fatalf("leave day cell must be colored")
	}
	if snapshot.Rows[0].Cells[0].BackgroundColor != "" {
		t.Fatalf("plain working day cell must be empty")
	}
}

func TestBuildMatrixAppliesRequestState(t *testing.T) {
	backend := domain.Team{ID: uuid.New(), Name: "Backend"}
	rng := testRange("2024-06-10", "2024-06-16")
	roster := &fakeRoster{
		persons: []domain.Person{
			{ID: uuid.New(), FirstName: "Anna", Teams: []domain.Team{backend}},
			{ID: uuid.New(), FirstName: "Bram"},
		},
		teams: []domain.Team{backend},
		rng:   &rng,
	}
	service := bootstrappedService(t, roster, &fakeHolidays{})

	newRange := testRange("2024-07-01", "2024-07-07")
	snapshot, _, err := service.BuildMatrix(context.Background(), in.MatrixRequest{
		Range: &newRange,
		Theme: domain.ThemeDark,
		Filter: &domain.TeamFilter{
			TeamIDs: []uuid.UUID{backend.ID},
			Mode:    domain.FilterModeOr,
		},
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if snapshot.Range.Key() != "2024-07-01..2024-07-07" {
		t.Fatalf("range from the request must be applied, got %s", snapshot.Range.Key())
	}
	if snapshot.Theme != domain.ThemeDark {
		t.Fatalf("theme from the request must be applied")
	}
	if len(snapshot.Rows) != 1 || snapshot.Rows[0].Person.FirstName != "Anna" {
		t.Fatalf("team filter from the request must be applied")
	}
	if snapshot.TeamCounts[backend.ID.String()] != 1 {
		t.Fatalf("snapshot must carry team counters")
	}
}

func TestBuildMatrixSameRangeDoesNotRefetch(t *testing.T) {
	rng := testRange("2024-06-10", "2024-06-16")
	roster := &fakeRoster{
		persons: []domain.Person{{ID: uuid.New(), FirstName: "Anna"}},
		rng:     &rng,
	}
	service := bootstrappedService(t, roster, &fakeHolidays{})

	fetchesAfterBootstrap := roster.periodFetches
	if _, _, err := service.BuildMatrix(context.Background(), in.MatrixRequest{Range: &rng}); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if roster.periodFetches != fetchesAfterBootstrap {
		t.Fatalf("unchanged range must not trigger a reload")
	}
}

func TestStaleRangeReloadIsDropped(t *testing.T) {
	rng := testRange("2024-06-10", "2024-06-16")
	roster := &fakeRoster{
		persons: []domain.Person{{ID: uuid.New(), FirstName: "Anna"}},
		rng:     &rng,
	}
	service := bootstrappedService(t, roster, &fakeHolidays{})

	newer := testRange("2024-08-01", "2024-08-07")
	older := testRange("2024-07-01", "2024-07-31")

	// Пока медленный ответ старого окна в полете, успевает примениться
	// более новое окно
	roster.onGetLeavePeriods = func() {
		if err := service.OnRangeChanged(context.Background(), newer); err != nil {
			t.Errorf("newer reload failed: %v", err)
		}
	}

	if err := service.OnRangeChanged(context.Background(), older); err != nil {
		t.Fatalf("older reload failed: %v", err)
	}

	snapshot := service.Snapshot()
	if snapshot.Range.Key() != newer.Key() {
		t.Fatalf("stale reload must not overwrite the newer window, got %s", snapshot.Range.Key())
	}
	if len(snapshot.Days) != 7 {
		t.Fatalf("columns of the newer window must survive, got %d days", len(snapshot.Days))
	}
}

func TestCreateLeavePeriodConfirmsTempID(t *testing.T) {
	personID := uuid.New()
	rng := testRange("2024-06-10", "2024-06-16")
	confirmed := testPeriod("server-1", personID, "2024-06-11", "2024-06-12", domain.DayPartFull, domain.DayPartFull)
	roster := &fakeRoster{
		persons:      []domain.Person{{ID: personID, FirstName: "Anna"}},
		rng:          &rng,
		createResult: &confirmed,
	}
	service := bootstrappedService(t, roster, &fakeHolidays{})

	draft := domain.LeavePeriodDraft{
		PersonID:     personID,
		StartDate:    testDate("2024-06-11"),
		EndDate:      testDate("2024-06-12"),
		StartDayPart: domain.DayPartFull,
		EndDayPart:   domain.DayPartFull,
	}
	period, err := service.CreateLeavePeriod(context.Background(), draft)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if period.ID != "server-1" {
		t.Fatalf("expected the server id, got %s", period.ID)
	}
	if period.IsTemporary() {
		t.Fatalf("confirmed period must not be temporary")
	}

	snapshot := service.Snapshot()
	if snapshot.Rows[0].Cells[1].BackgroundColor == "" {
		t.Fatalf("confirmed period must color its cells")
	}
}

func TestCreateLeavePeriodFailureRemovesTempPeriod(t *testing.T) {
	personID := uuid.New()
	rng := testRange("2024-06-10", "2024-06-16")
	roster := &fakeRoster{
		persons:   []domain.Person{{ID: personID, FirstName: "Anna"}},
		rng:       &rng,
		createErr: fmt.Errorf("network down"),
	}
	service := bootstrappedService(t, roster, &fakeHolidays{})

	draft := domain.LeavePeriodDraft{
		PersonID:     personID,
		StartDate:    testDate("2024-06-11"),
		EndDate:      testDate("2024-06-12"),
		StartDayPart: domain.DayPartFull,
		EndDayPart:   domain.DayPartFull,
	}
	if _, err := service.CreateLeavePeriod(context.Background(), draft); err == nil {
		t.Fatalf("create must propagate the network error")
	}

	snapshot := service.Snapshot()
	for i, cell := range snapshot.Rows[0].Cells {
		if cell.BackgroundColor != "" || cell.BackgroundGradient != "" {
			t.Fatalf("temp period must not survive a failed create, cell %d is colored", i)
		}
	}
}

func TestCreateLeavePeriodRejectsInvalidDraft(t *testing.T) {
	rng := testRange("2024-06-10", "2024-06-16")
	roster := &fakeRoster{
		persons: []domain.Person{{ID: uuid.New(), FirstName: "Anna"}},
		rng:     &rng,
	}
	service := bootstrappedService(t, roster, &fakeHolidays{})

	// Конец раньше начала, сетевой вызов не должен случиться
	draft := domain.LeavePeriodDraft{
		PersonID:  uuid.New(),
		StartDate: testDate("2024-06-12"),
		EndDate:   testDate("2024-06-11"),
	}
	if _, err := service.CreateLeavePeriod(context.Background(), draft); err == nil {
		t.Fatalf("invalid draft must be rejected before the network call")
	}
}

func TestRemoveLeavePeriodUnknownID(t *testing.T) {
	rng := testRange("2024-06-10", "2024-06-16")
	roster := &fakeRoster{
		persons: []domain.Person{{ID: uuid.New(), FirstName: "Anna"}},
		rng:     &rng,
	}
	service := bootstrappedService(t, roster, &fakeHolidays{})

	if err := service.RemoveLeavePeriod(context.Background(), "missing"); err == nil {
		t.Fatalf("removing an unknown period must fail")
	}
}

func TestOnWorkingDaysChangedPatchesSnapshot(t *testing.T) {
	rng := testRange("2024-06-10", "2024-06-16")
	roster := &fakeRoster{
		persons: []domain.Person{{ID: uuid.New(), FirstName: "Anna"}},
		rng:     &rng,
	}
	service := bootstrappedService(t, roster, &fakeHolidays{})

	// Все дни становятся нерабочими
	service.OnWorkingDaysChanged(context.Background(), [7]bool{})

	snapshot := service.Snapshot()
	for _, day := range snapshot.Days {
		if !day.IsNonWorkingDay {
			t.Fatalf("%s must be non-working after the mask change", day.DateKey)
		}
	}
}

func TestHolidayCalendarChangeInvalidatesSnapshotCache(t *testing.T) {
	rng := testRange("2024-06-10", "2024-06-16")
	roster := &fakeRoster{
		persons: []domain.Person{{ID: uuid.New(), FirstName: "Anna"}},
		rng:     &rng,
	}
	holidays := &fakeHolidays{holidays: map[int][]domain.Holiday{}}
	cache := newFakeCache()
	cfg := testConfig()
	cfg.Cache.Enabled = true
	service := NewMatrixService(roster, holidays, cache, nopLogger{}, cfg)
	if err := service.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	// Прогреваем кэш снапшотов
	if _, _, err := service.BuildMatrix(context.Background(), in.MatrixRequest{}); err != nil {
		t.Fatalf("build failed: %v", err)
	}

	holidays.holidays[2024] = []domain.Holiday{
		{Date: testDate("2024-06-12"), Name: "Midweek Holiday"},
	}
	service.OnHolidayCalendarChanged(context.Background())

	if cache.invalidations == 0 {
		t.Fatalf("holiday calendar change must purge cached snapshots")
	}

	snapshot, _, err := service.BuildMatrix(context.Background(), in.MatrixRequest{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !snapshot.Days[2].IsHoliday {
		t.Fatalf("rebuild after the calendar change must carry the new holiday")
	}
}

func TestWorkingDaysChangeInvalidatesSnapshotCache(t *testing.T) {
	rng := testRange("2024-06-10", "2024-06-16")
	roster := &fakeRoster{
		persons: []domain.Person{{ID: uuid.New(), FirstName: "Anna"}},
		rng:     &rng,
	}
	cache := newFakeCache()
	cfg := testConfig()
	cfg.Cache.Enabled = true
	service := NewMatrixService(roster, &fakeHolidays{}, cache, nopLogger{}, cfg)
	if err := service.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	if _, _, err := service.BuildMatrix(context.Background(), in.MatrixRequest{}); err != nil {
		t.Fatalf("build failed: %v", err)
	}

	service.OnWorkingDaysChanged(context.Background(), [7]bool{})

	if cache.invalidations == 0 {
		t.Fatalf("working day mask change must purge cached snapshots")
	}

	snapshot, _, err := service.BuildMatrix(context.Background(), in.MatrixRequest{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	for _, day := range snapshot.Days {
		if !day.IsNonWorkingDay {
			t.Fatalf("rebuild after the mask change must see %s as non-working", day.DateKey)
		}
	}
}

func TestApplySettingsWeekStartRebuildsColumns(t *testing.T) {
	rng := testRange("2024-06-10", "2024-06-16")
	roster := &fakeRoster{
		persons: []domain.Person{{ID: uuid.New(), FirstName: "Anna"}},
		rng:     &rng,
	}
	service := bootstrappedService(t, roster, &fakeHolidays{})

	settings := domain.DefaultScheduleSettings()
	settings.WeekStart = time.Sunday
	if err := service.ApplySettings(context.Background(), settings); err != nil {
		t.Fatalf("apply settings failed: %v", err)
	}

	snapshot := service.Snapshot()
	// 2024-06-16 - воскресенье, теперь открывает неделю
	last := snapshot.Days[len(snapshot.Days)-1]
	if !last.IsFirstOfWeek {
		t.Fatalf("sunday must open the week after the week start change")
	}
	if roster.settings == nil || roster.settings.WeekStart != time.Sunday {
		t.Fatalf("settings must be persisted")
	}
}

func TestHolidayYearFetchedOnce(t *testing.T) {
	rng := testRange("2024-06-10", "2024-06-16")
	roster := &fakeRoster{
		persons: []domain.Person{{ID: uuid.New(), FirstName: "Anna"}},
		rng:     &rng,
	}
	holidays := &fakeHolidays{holidays: map[int][]domain.Holiday{
		2024: {{Date: testDate("2024-06-12"), Name: "Test Holiday"}},
	}}
	service := bootstrappedService(t, roster, holidays)

	if holidays.fetches != 1 {
		t.Fatalf("expected a single holiday fetch for 2024, got %d", holidays.fetches)
	}

	// Другое окно того же года не перезапрашивает календарь
	other := testRange("2024-09-01", "2024-09-07")
	if err := service.OnRangeChanged(context.Background(), other); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if holidays.fetches != 1 {
		t.Fatalf("same year must not be fetched twice, got %d", holidays.fetches)
	}

	// Окно через границу года догружает только недостающий год
	crossing := testRange("2024-12-30", "2025-01-05")
	if err := service.OnRangeChanged(context.Background(), crossing); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if holidays.fetches != 2 {
		t.Fatalf("expected one extra fetch for 2025, got %d", holidays.fetches)
	}
}

func TestSubscribersReceiveSnapshots(t *testing.T) {
	rng := testRange("2024-06-10", "2024-06-16")
	roster := &fakeRoster{
		persons: []domain.Person{{ID: uuid.New(), FirstName: "Anna"}},
		rng:     &rng,
	}
	service := newTestService(roster, &fakeHolidays{})

	received := 0
	service.Subscribe(func(snapshot domain.MatrixSnapshot) {
		received++
	})

	if err := service.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if received == 0 {
		t.Fatalf("subscriber must receive the bootstrap snapshot")
	}

	before := received
	service.OnThemeChanged(domain.ThemeDark)
	if received != before+1 {
		t.Fatalf("subscriber must receive a snapshot per recompute")
	}
}

func TestToggleSortRecomputesRows(t *testing.T) {
	rng := testRange("2024-06-10", "2024-06-16")
	roster := &fakeRoster{
		persons: []domain.Person{
			{ID: uuid.New(), FirstName: "Cees"},
			{ID: uuid.New(), FirstName: "Anna"},
		},
		rng: &rng,
	}
	service := bootstrappedService(t, roster, &fakeHolidays{})

	service.ToggleSort(domain.SortFieldFirstName)
	snapshot := service.Snapshot()
	if snapshot.Rows[0].Person.FirstName != "Anna" {
		t.Fatalf("first toggle must sort ascending")
	}

	service.ToggleSort(domain.SortFieldFirstName)
	snapshot = service.Snapshot()
	if snapshot.Rows[0].Person.FirstName != "Cees" {
		t.Fatalf("second toggle must sort descending")
	}

	service.ToggleSort(domain.SortFieldFirstName)
	snapshot = service.Snapshot()
	if snapshot.Rows[0].Person.FirstName != "Cees" {
		t.Fatalf("third toggle must restore roster order")
	}
}
