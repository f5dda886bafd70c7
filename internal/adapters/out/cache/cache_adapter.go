package cache

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/config"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/domain"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/ports/out"
)

// CacheAdapter - LRU-кэши: годы праздничного календаря ключуются парой
// год/регион, готовые снапшоты матрицы - ключом параметров рендера
type CacheAdapter struct {
	holidayYears *lru.Cache[string, []domain.Holiday]
	snapshots    *lru.Cache[string, *domain.MatrixSnapshot]
	mu           sync.RWMutex
	logger       out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	holidayYears, err := lru.New[string, []domain.Holiday](cfg.Cache.HolidayYearsSize)
	if err != nil {
		logger.Error("cache.holiday_years.init_failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.HolidayYearsSize,
		})
		return nil, err
	}

	snapshots, err := lru.New[string, *domain.MatrixSnapshot](cfg.Cache.SnapshotsSize)
	if err != nil {
		logger.Error("cache.snapshots.init_failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.SnapshotsSize,
		})
		return nil, err
	}

	return &CacheAdapter{
		holidayYears: holidayYears,
		snapshots:    snapshots,
		logger:       logger.WithModule("CacheAdapter"),
	}, nil
}

func holidayYearKey(year int, regionCode string) string {
	return fmt.Sprintf("%d/%s", year, regionCode)
}

// Кэширование годов праздничного календаря

func (c *CacheAdapter) GetHolidayYear(ctx context.Context, year int, regionCode string) ([]domain.Holiday, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	holidays, exists := c.holidayYears.Get(holidayYearKey(year, regionCode))
	if !exists {
		c.logger.Debug("cache.holiday_year.get.miss", out.LogFields{
			"year":   year,
			"region": regionCode,
		})
		return nil, false
	}

	c.logger.Debug("cache.holiday_year.get.hit", out.LogFields{
		"year":   year,
		"region": regionCode,
		"count":  len(holidays),
	})
	return holidays, true
}

func (c *CacheAdapter) StoreHolidayYear(ctx context.Context, year int, regionCode string, holidays []domain.Holiday) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.holiday_year.store", out.LogFields{
		"year":   year,
		"region": regionCode,
		"count":  len(holidays),
	})

	c.holidayYears.Add(holidayYearKey(year, regionCode), holidays)
}

func (c *CacheAdapter) InvalidateHolidayYears(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.holidayYears.Purge()
}

// Кэширование снапшотов матрицы

func (c *CacheAdapter) GetSnapshot(ctx context.Context, key string) (*domain.MatrixSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot, exists := c.snapshots.Get(key)
	if !exists {
		c.logger.Debug("cache.snapshot.get.miss", out.LogFields{
			"key": key,
		})
		return nil, false
	}

	c.logger.Debug("cache.snapshot.get.hit", out.LogFields{
		"key": key,
	})
	return snapshot, true
}

func (c *CacheAdapter) StoreSnapshot(ctx context.Context, key string, snapshot *domain.MatrixSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.snapshot.store", out.LogFields{
		"key":  key,
		"rows": len(snapshot.Rows),
	})

	c.snapshots.Add(key, snapshot)
}

func (c *CacheAdapter) InvalidateSnapshots(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshots.Purge()
}
