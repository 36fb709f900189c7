package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/coucou-beaute/booking-api/internal/email"
	"github.com/coucou-beaute/booking-api/internal/repository/postgres"
)

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
}

type JWTConfig struct {
	Secret             string `mapstructure:"secret"`
	RefreshSecret      string `mapstructure:"refresh_secret"`
	ExpiryHours        int    `mapstructure:"expiry_hours"`
	RefreshExpiryHours int    `mapstructure:"refresh_expiry_hours"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

// ScheduleConfig holds the fallback availability window. These are the
// defaults substituted when a professional has no saved configuration or a
// malformed one.
type ScheduleConfig struct {
	OpenDays        []string `mapstructure:"open_days"`
	DayStart        string   `mapstructure:"day_start"`
	DayEnd          string   `mapstructure:"day_end"`
	SlotLengthMin   int      `mapstructure:"slot_length_minutes"`
	Timezone        string   `mapstructure:"timezone"`
	SlotCacheTTLSec int      `mapstructure:"slot_cache_ttl_seconds"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type GeocodeConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	UserAgent   string        `mapstructure:"user_agent"`
	Timeout     time.Duration `mapstructure:"timeout"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	CountryHint string        `mapstructure:"country_hint"`
}

type Config struct {
	Server    ServerConfig     `mapstructure:"server"`
	Database  postgres.Config  `mapstructure:"database"`
	JWT       JWTConfig        `mapstructure:"jwt"`
	Redis     RedisConfig      `mapstructure:"redis"`
	SMTP      email.SMTPConfig `mapstructure:"smtp"`
	Schedule  ScheduleConfig   `mapstructure:"schedule"`
	RateLimit RateLimitConfig  `mapstructure:"rate_limit"`
	Geocode   GeocodeConfig    `mapstructure:"geocode"`
}

// envOverrides is the environment layer applied on top of the config file.
// Variables use the BOOKING_ prefix, e.g. BOOKING_DB_HOST.
type envOverrides struct {
	DBHost        string `envconfig:"DB_HOST"`
	DBPort        int    `envconfig:"DB_PORT"`
	DBUser        string `envconfig:"DB_USER"`
	DBPassword    string `envconfig:"DB_PASSWORD"`
	DBName        string `envconfig:"DB_NAME"`
	RedisURL      string `envconfig:"REDIS_URL"`
	JWTSecret     string `envconfig:"JWT_SECRET"`
	RefreshSecret string `envconfig:"JWT_REFRESH_SECRET"`
	SMTPHost      string `envconfig:"SMTP_HOST"`
	SMTPPort      int    `envconfig:"SMTP_PORT"`
	SMTPUsername  string `envconfig:"SMTP_USERNAME"`
	SMTPPassword  string `envconfig:"SMTP_PASSWORD"`
	ServerPort    int    `envconfig:"SERVER_PORT"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app")
	viper.AddConfigPath("/app/config")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process("booking", &env); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	applyOverrides(&config, &env)

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 15*time.Second)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("jwt.expiry_hours", 24)
	viper.SetDefault("jwt.refresh_expiry_hours", 168)
	viper.SetDefault("schedule.open_days", []string{"mon", "tue", "wed", "thu", "fri"})
	viper.SetDefault("schedule.day_start", "09:00")
	viper.SetDefault("schedule.day_end", "18:00")
	viper.SetDefault("schedule.slot_length_minutes", 60)
	viper.SetDefault("schedule.timezone", "Africa/Tunis")
	viper.SetDefault("schedule.slot_cache_ttl_seconds", 30)
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests_per_second", 50.0)
	viper.SetDefault("rate_limit.burst", 100)
	viper.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org")
	viper.SetDefault("geocode.user_agent", "coucou-beaute-booking/1.0")
	viper.SetDefault("geocode.timeout", 5*time.Second)
	viper.SetDefault("geocode.cache_ttl", 24*time.Hour)
	viper.SetDefault("geocode.country_hint", "Tunisie")
}

func applyOverrides(config *Config, env *envOverrides) {
	if env.DBHost != "" {
		config.Database.Host = env.DBHost
	}
	if env.DBPort != 0 {
		config.Database.Port = env.DBPort
	}
	if env.DBUser != "" {
		config.Database.User = env.DBUser
	}
	if env.DBPassword != "" {
		config.Database.Password = env.DBPassword
	}
	if env.DBName != "" {
		config.Database.Name = env.DBName
	}
	if env.RedisURL != "" {
		config.Redis.URL = env.RedisURL
	}
	if env.JWTSecret != "" {
		config.JWT.Secret = env.JWTSecret
	}
	if env.RefreshSecret != "" {
		config.JWT.RefreshSecret = env.RefreshSecret
	}
	if env.SMTPHost != "" {
		config.SMTP.Host = env.SMTPHost
	}
	if env.SMTPPort != 0 {
		config.SMTP.Port = env.SMTPPort
	}
	if env.SMTPUsername != "" {
		config.SMTP.Username = env.SMTPUsername
	}
	if env.SMTPPassword != "" {
		config.SMTP.Password = env.SMTPPassword
	}
	if env.ServerPort != 0 {
		config.Server.Port = env.ServerPort
	}
}
