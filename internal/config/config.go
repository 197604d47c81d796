// Package config предоставялет структуры и функции для загрузки настроек сервиса
// из переменных окружения, необязательного .env-файла и необязательного YAML-файла.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	Store      `yaml:"store"`
	Session    `yaml:"session"`
	Cache      `yaml:"cache"`
	Redis      `yaml:"redis"`
	RabbitMQ   `yaml:"rabbitmq"`
	KPI        `yaml:"kpi"`
	LoginLimit `yaml:"login_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Store структура для подключения к внешнему табличному хранилищу
type Store struct {
	APIKey       string        `yaml:"api_key" env:"API_KEY" env-required:"true"`
	BaseID       string        `yaml:"base_id" env:"BASE_ID" env-required:"true"`
	SchoolsTable string        `yaml:"schools_table" env:"SCHOOLS_TABLE" env-required:"true"`
	FeesTable    string        `yaml:"fees_table" env:"FEES_TABLE" env-required:"true"`
	StoreURL     string        `yaml:"url" env:"STORE_URL" env-default:"https://api.airtable.com/v0"`
	StoreTimeout time.Duration `yaml:"timeout" env:"STORE_TIMEOUT" env-default:"10s"`
	// WriteDerivedFields записывать ли вместе с amount_paid остаток и статус.
	WriteDerivedFields bool `yaml:"write_derived_fields" env:"WRITE_DERIVED_FIELDS" env-default:"true"`
}

// Session структура для настройки сессий администратора
type Session struct {
	SessionSecret  string        `yaml:"secret" env:"SESSION_SECRET" env-required:"true"`
	SessionTimeout time.Duration `yaml:"timeout" env:"SESSION_TIMEOUT" env-default:"1800s"`
	RememberTTL    time.Duration `yaml:"remember_ttl" env:"REMEMBER_TTL" env-default:"12h"`
	SecureCookie   bool          `yaml:"secure_cookie" env:"SECURE_COOKIE" env-default:"false"`
}

// Cache структура для настройки кэша снимков записей
type Cache struct {
	CacheTTL time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"5m"`
}

// Redis структура для настройки подключения к redis. Без адреса используется кэш в памяти процесса.
type Redis struct {
	RedisAddress     string        `yaml:"address" env:"REDIS_ADDRESS"`
	RedisPassword    string        `yaml:"password" env:"REDIS_PASSWORD"`
	RedisUser        string        `yaml:"user" env:"REDIS_USER"`
	RedisDB          int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	RedisMaxRetries  int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"3"`
	RedisDialTimeout time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	RedisTimeout     time.Duration `yaml:"timeout" env:"REDIS_TIMEOUT" env-default:"3s"`
}

// RabbitMQ структура для публикации событий об оплатах. Без URL публикация выключена.
type RabbitMQ struct {
	RabbitURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitExchange   string        `yaml:"exchange" env:"RABBITMQ_EXCHANGE" env-default:"fees"`
	RabbitMaxRetries int           `yaml:"max_retries" env:"RABBITMQ_MAX_RETRIES" env-default:"5"`
	RabbitRetryDelay time.Duration `yaml:"retry_delay" env:"RABBITMQ_RETRY_DELAY" env-default:"2s"`
}

// KPI пороги подсветки показателей дашборда
type KPI struct {
	OutstandingAlert float64 `yaml:"outstanding_alert" env:"KPI_OUTSTANDING_ALERT" env-default:"10000"`
	ParentsAlert     int     `yaml:"parents_alert" env:"KPI_PARENTS_ALERT" env-default:"20"`
	CollectedTarget  float64 `yaml:"collected_target" env:"KPI_COLLECTED_TARGET" env-default:"80"`
}

// LoginLimit ограничение частоты попыток входа
type LoginLimit struct {
	LoginRate  float64 `yaml:"rate" env:"LOGIN_RATE" env-default:"1"`
	LoginBurst int     `yaml:"burst" env:"LOGIN_BURST" env-default:"5"`
}

// loadDotEnv подгружает .env (или файл из ENV_FILE), если он существует.
func loadDotEnv() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Load читает конфигурацию. Без обязательных значений возвращается ошибка.
func Load() (*Config, error) {
	const op = "config.Load"
	if err := loadDotEnv(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%s: config file %s: %w", op, path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// LoadStore читает только настройки хранилища; используется утилитами обслуживания.
func LoadStore() (*Store, error) {
	const op = "config.LoadStore"
	if err := loadDotEnv(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var store Store
	if err := cleanenv.ReadEnv(&store); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &store, nil
}

// MustLoad загружает конфиг и завершает процесс при ошибке
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Store:\n"+
			"  URL: %s\n"+
			"  BaseID: %s\n"+
			"  SchoolsTable: %s\n"+
			"  FeesTable: %s\n"+
			"  APIKey: %s\n"+
			"Session:\n"+
			"  Timeout: %s\n"+
			"  RememberTTL: %s\n"+
			"Cache:\n"+
			"  TTL: %s\n"+
			"  RedisAddress: %s\n"+
			"RabbitMQ:\n"+
			"  Enabled: %t\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.StoreURL,
		c.BaseID,
		c.SchoolsTable,
		c.FeesTable,
		mask(c.APIKey),
		c.SessionTimeout,
		c.RememberTTL,
		c.CacheTTL,
		c.RedisAddress,
		c.RabbitURL != "",
	)
}

func mask(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + "****"
}
