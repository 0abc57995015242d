package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Directory  DirectoryConfig
	Scheduling SchedulingConfig
	RateLimit  RateLimitConfig
	Notify     NotifyConfig
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel logrus.Level
}

type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// JWTConfig validates tokens issued by the identity service
type JWTConfig struct {
	Secret  string
	Enabled bool
}

type DirectoryConfig struct {
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
	Concurrency int
	CacheTTL    time.Duration
}

type SchedulingConfig struct {
	Location  *time.Location
	PastGrace time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type NotifyConfig struct {
	Channel string
	Timeout time.Duration
}

// DSN is the key/value connection string used by the gorm postgres driver
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

// MigrationURL is the pgx5:// URL understood by golang-migrate
func (c DBConfig) MigrationURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "dentalcare")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 50)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AUTH_ENABLED", true)

	v.SetDefault("DIRECTORY_BASE_URL", "http://localhost:8081")
	v.SetDefault("DIRECTORY_TIMEOUT", "2s")
	v.SetDefault("DIRECTORY_MAX_RETRIES", 2)
	v.SetDefault("DIRECTORY_CONCURRENCY", 8)
	v.SetDefault("DIRECTORY_CACHE_TTL", "10m")

	v.SetDefault("SCHEDULING_TIMEZONE", "America/Argentina/Cordoba")
	v.SetDefault("SCHEDULING_PAST_GRACE", "1m")

	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)

	v.SetDefault("NOTIFY_CHANNEL", "appointments.events")
	v.SetDefault("NOTIFY_TIMEOUT", "2s")
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	durations := map[string]time.Duration{}
	for _, key := range []string{
		"DB_CONN_MAX_LIFETIME",
		"DIRECTORY_TIMEOUT",
		"DIRECTORY_CACHE_TTL",
		"SCHEDULING_PAST_GRACE",
		"NOTIFY_TIMEOUT",
	} {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("invalid %s: must not be negative", key)
		}
		durations[key] = d
	}

	location, err := time.LoadLocation(v.GetString("SCHEDULING_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULING_TIMEZONE: %w", err)
	}

	level, err := logrus.ParseLevel(strings.ToLower(v.GetString("LOG_LEVEL")))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	secret := v.GetString("JWT_SECRET")
	authEnabled := v.GetBool("AUTH_ENABLED")
	if authEnabled && secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED is true")
	}

	config := &Config{
		App: AppConfig{
			Port:     v.GetString("APP_PORT"),
			Env:      v.GetString("APP_ENV"),
			LogLevel: level,
		},
		DB: DBConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: durations["DB_CONN_MAX_LIFETIME"],
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:  secret,
			Enabled: authEnabled,
		},
		Directory: DirectoryConfig{
			BaseURL:     strings.TrimRight(v.GetString("DIRECTORY_BASE_URL"), "/"),
			Timeout:     durations["DIRECTORY_TIMEOUT"],
			MaxRetries:  v.GetInt("DIRECTORY_MAX_RETRIES"),
			Concurrency: v.GetInt("DIRECTORY_CONCURRENCY"),
			CacheTTL:    durations["DIRECTORY_CACHE_TTL"],
		},
		Scheduling: SchedulingConfig{
			Location:  location,
			PastGrace: durations["SCHEDULING_PAST_GRACE"],
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Notify: NotifyConfig{
			Channel: v.GetString("NOTIFY_CHANNEL"),
			Timeout: durations["NOTIFY_TIMEOUT"],
		},
	}

	return config, nil
}
