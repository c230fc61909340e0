package config

import (
	"fmt"
	"strings"
	"time"

	"moim-app-go/pkg/logger"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	CacheNone     = "none"
	CacheInMemory = "inmemory"
	CacheRedis    = "redis"
)

type Config struct {
	HTTPPort           string   `envconfig:"HTTP_PORT" default:"8080"`
	Env                string   `envconfig:"ENV" default:"development"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	DB                 DBConfig
	Supabase           SupabaseConfig
	Cache              CacheConfig
	Redis              RedisConfig
	Moim               MoimConfig
	Mannam             MannamConfig
}

type DBConfig struct {
	Driver          string        `envconfig:"DB_DRIVER" default:"postgres"`
	DSN             string        `envconfig:"DB_DSN"`
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            string        `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"postgres"`
	Password        string        `envconfig:"DB_PASSWORD" default:"postgres"`
	Name            string        `envconfig:"DB_NAME" default:"moim_app"`
	SSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	TimeZone        string        `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	AutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

type SupabaseConfig struct {
	URL            string        `envconfig:"SUPABASE_URL"`
	PublishableKey string        `envconfig:"SUPABASE_PUBLISHABLE_KEY"`
	JWTSecret      string        `envconfig:"SUPABASE_JWT_SECRET"`
	AuthTimeout    time.Duration `envconfig:"SUPABASE_AUTH_TIMEOUT" default:"5s"`
	RedirectURL    string        `envconfig:"SUPABASE_REDIRECT_URL"`
	SkipAuth       bool          `envconfig:"AUTH_SKIP" default:"false"`
	MockUserID     string        `envconfig:"AUTH_MOCK_USER_ID" default:"00000000-0000-0000-0000-000000000001"`
	MockUserEmail  string        `envconfig:"AUTH_MOCK_USER_EMAIL"`
	MockUserName   string        `envconfig:"AUTH_MOCK_USER_NAME"`
	MockUserAvatar string        `envconfig:"AUTH_MOCK_USER_AVATAR_URL"`
}

type CacheConfig struct {
	Backend string        `envconfig:"CACHE_BACKEND" default:"inmemory"`
	TTL     time.Duration `envconfig:"CACHE_TTL" default:"5m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"REDIS_URL"`
	Address      string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"REDIS_PASSWORD"`
	DB           int           `envconfig:"REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"3s"`
}

type MoimConfig struct {
	InviteCodeAttempts int `envconfig:"MOIM_INVITE_CODE_ATTEMPTS" default:"10"`
	CountConcurrency   int `envconfig:"MOIM_COUNT_CONCURRENCY" default:"4"`
}

type MannamConfig struct {
	StrictStatusTransitions bool `envconfig:"MANNAM_STRICT_STATUS_TRANSITIONS" default:"false"`
}

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.DB.Driver == DriverSQLite && c.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required for sqlite")
	}

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	switch c.Cache.Backend {
	case CacheNone, CacheInMemory, CacheRedis:
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND %q", c.Cache.Backend)
	}
	return nil
}

func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
