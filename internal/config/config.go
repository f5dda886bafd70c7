package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

// TimeZone - таймзона приложения, выставляется при загрузке конфигурации
var TimeZone = time.UTC

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"Europe/Amsterdam"`
		Locale   string      `env:"APP_LOCALE" envDefault:"nl"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	Roster struct {
		URL      string `env:"ROSTER_API_URL"`
		Username string `env:"ROSTER_API_USERNAME"`
		Password string `env:"ROSTER_API_PASSWORD"`
	}

	Holidays struct {
		URL    string `env:"HOLIDAYS_API_URL" envDefault:"https://date.nager.at/api/v3"`
		Region string `env:"HOLIDAYS_REGION" envDefault:"NL"`
	}

	Auth struct {
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS" envDefault:"schedule_matrix:schedule_matrix"`
		BasicClients       []ConfigBasicClient
	}

	RabbitMq struct {
		Enabled     bool   `env:"RABBITMQ_ENABLED"`
		AmqpUri     string `env:"RABBITMQ_URL"`
		QueueConfig struct {
			LeavePeriodQueueName     string `env:"RABBITMQ_LEAVE_PERIOD_QUEUE" envDefault:"roster.schedule-matrix-svc.leaveperiod"`
			LeavePeriodQueueBind     string `env:"RABBITMQ_LEAVE_PERIOD_QUEUE_BIND" envDefault:"roster.schedule-matrix-svc.leaveperiod.#"`
			LeavePeriodQueueExchange string `env:"RABBITMQ_LEAVE_PERIOD_QUEUE_EXCHANGE" envDefault:"roster"`
			PersonQueueName          string `env:"RABBITMQ_PERSON_QUEUE" envDefault:"roster.schedule-matrix-svc.person"`
			PersonQueueBind          string `env:"RABBITMQ_PERSON_QUEUE_BIND" envDefault:"roster.schedule-matrix-svc.person.#"`
			PersonQueueExchange      string `env:"RABBITMQ_PERSON_QUEUE_EXCHANGE" envDefault:"roster"`
			SettingsQueueName        string `env:"RABBITMQ_SETTINGS_QUEUE" envDefault:"roster.schedule-matrix-svc.settings"`
			SettingsQueueBind        string `env:"RABBITMQ_SETTINGS_QUEUE_BIND" envDefault:"roster.schedule-matrix-svc.settings.#"`
			SettingsQueueExchange    string `env:"RABBITMQ_SETTINGS_QUEUE_EXCHANGE" envDefault:"roster"`
			AllQueueName             string `env:"RABBITMQ_ALL_QUEUE" envDefault:"roster.schedule-matrix-svc._all_"`
			AllQueueBind             string `env:"RABBITMQ_ALL_QUEUE_BIND" envDefault:"roster.schedule-matrix-svc._all_.#"`
			AllQueueExchange         string `env:"RABBITMQ_ALL_QUEUE_EXCHANGE" envDefault:"roster"`
		}
	}

	Cache struct {
		Enabled          bool `env:"CACHE_ENABLED"`
		HolidayYearsSize int  `env:"CACHE_HOLIDAY_YEARS_SIZE" envDefault:"50"`
		SnapshotsSize    int  `env:"CACHE_SNAPSHOTS_SIZE" envDefault:"200"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Приведение окружения к нижнему регистру для унификации
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	// Загружаем таймзону приложения, при ошибке остаемся в UTC
	if loc, err := time.LoadLocation(cfg.App.Timezone); err == nil {
		TimeZone = loc
	}

	// Разбираем пары логин:пароль для basic-авторизации
	if cfg.Auth.BasicClients == nil {
		cfg.Auth.BasicClients = []ConfigBasicClient{}
	}
	clientPairs := strings.Split(cfg.Auth.BasicClientsString, ",")
	for _, pair := range clientPairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			cfg.Auth.BasicClients = append(cfg.Auth.BasicClients, ConfigBasicClient{
				Username: parts[0],
				Password: parts[1],
			})
		}
	}

	// Если RabbitMQ не включен, то кэш тоже не включаем - без шины нет инвалидации
	if !cfg.RabbitMq.Enabled {
		cfg.Cache.Enabled = false
	}

	return cfg, nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}
