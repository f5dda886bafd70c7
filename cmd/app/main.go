package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/adapters/in/http"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/adapters/in/rabbitmq"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/adapters/out/cache"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/adapters/out/holidays"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/adapters/out/logger"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/adapters/out/roster"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/config"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/ports/out"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/services"
)

func main() {
	// .env нужен только для локального запуска, в остальных окружениях
	// переменные приходят снаружи
	_ = godotenv.Load()

	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера с таймзоной
	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := mainLogger.WithModule("Main")

	logger.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"locale":          cfg.App.Locale,
		"rabbitmqEnabled": cfg.RabbitMq.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	// Настройка Gin в зависимости от окружения
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Инициализация адаптеров
	rosterAdapter := roster.NewRosterAdapter(cfg, mainLogger.WithModule("RosterAdapter"))
	holidayAdapter := holidays.NewHolidayAdapter(cfg, mainLogger.WithModule("HolidayAdapter"))

	var cacheAdapter out.CachePort
	if cfg.Cache.Enabled {
		var err error
		cacheAdapter, err = cache.NewCacheAdapter(cfg, mainLogger.WithModule("CacheAdapter"))
		if err != nil {
			logger.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}

	// Инициализация сервиса
	matrixService := services.NewMatrixService(
		rosterAdapter,
		holidayAdapter,
		cacheAdapter,
		mainLogger,
		cfg,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Первичная загрузка ростера, диапазона и календаря праздников
	if err := matrixService.Bootstrap(ctx); err != nil {
		logger.Error("app.bootstrap.failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Настройка HTTP сервера
	router := gin.Default()
	controller := http.NewMatrixController(matrixService, cfg)
	controller.RegisterRoutes(router)

	// Настройка RabbitMQ слушателя только если он включен
	if cfg.RabbitMq.Enabled {
		listener, err := rabbitmq.NewCacheHitListener(
			matrixService,
			cfg,
			mainLogger.WithModule("RabbitMQListener"),
		)
		if err != nil {
			logger.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		if err := listener.Start(ctx); err != nil {
			logger.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		// Добавляем остановку RabbitMQ в defer
		defer func() {
			if err := listener.Stop(); err != nil {
				logger.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			logger.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	logger.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})

	// Дополнительное логирование для разработки
	if cfg.IsLocal() {
		logger.Debug("app.config.debug", out.LogFields{
			"config": map[string]interface{}{
				"http": map[string]string{
					"host": cfg.HTTP.Host,
					"port": cfg.HTTP.Port,
				},
				"roster": map[string]string{
					"url":      cfg.Roster.URL,
					"username": cfg.Roster.Username,
				},
				"holidays": map[string]string{
					"url":    cfg.Holidays.URL,
					"region": cfg.Holidays.Region,
				},
				"rabbitmq": map[string]interface{}{
					"enabled": cfg.RabbitMq.Enabled,
					"url":     cfg.RabbitMq.AmqpUri,
				},
				"cache": map[string]interface{}{
					"enabled":        cfg.Cache.Enabled,
					"snapshots_size": cfg.Cache.SnapshotsSize,
				},
			},
		})
	}
}
