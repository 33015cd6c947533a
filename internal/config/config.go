package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/username/vacation-days/pkg/dateutil"
)

const envPrefix = "VACATION"

// Config represents application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Policy   PolicyConfig   `mapstructure:"policy"`
	Display  DisplayConfig  `mapstructure:"display"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// CalendarConfig represents holiday calendar configuration
type CalendarConfig struct {
	Type         string `mapstructure:"type"`     // "builtin", "hebcal" or "file"
	Israel       bool   `mapstructure:"israel"`   // Israeli observance
	APIURL       string `mapstructure:"api_url"`  // For hebcal type
	Fallback     string `mapstructure:"fallback"` // Behind hebcal: "builtin", "file" or "none"
	FallbackFile string `mapstructure:"fallback_file"`
	File         string `mapstructure:"file"`  // For file type
	Cache        string `mapstructure:"cache"` // "memory" or "redis"
	CacheTTL     string `mapstructure:"cache_ttl"`
}

// RedisConfig represents the shared cache connection
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PolicyConfig represents the workplace classification rules
type PolicyConfig struct {
	WeekendDays      []string `mapstructure:"weekend_days"`
	HalfDayNames     []string `mapstructure:"half_day_names"`
	NationalDayNames []string `mapstructure:"national_day_names"`
	IncludeHolHamoed bool     `mapstructure:"include_hol_hamoed"`
}

// DisplayConfig represents output configuration
type DisplayConfig struct {
	Language string `mapstructure:"language"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Addr            string   `mapstructure:"addr"`
	CORSOrigins     []string `mapstructure:"cors_origins"`
	ShutdownTimeout string   `mapstructure:"shutdown_timeout"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("calendar.type", "builtin")
	v.SetDefault("calendar.israel", true)
	v.SetDefault("calendar.api_url", "https://www.hebcal.com")
	v.SetDefault("calendar.fallback", "builtin")
	v.SetDefault("calendar.fallback_file", "")
	v.SetDefault("calendar.file", "")
	v.SetDefault("calendar.cache", "memory")
	v.SetDefault("calendar.cache_ttl", "24h")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("policy.weekend_days", []string{"friday", "saturday"})
	v.SetDefault("policy.half_day_names", []string{"Sukkot VII (Hoshana Raba)", "Pesach VI (CH''M)"})
	v.SetDefault("policy.national_day_names", []string{"Yom HaZikaron", "Yom HaAtzma'ut", "Yom Yerushalayim"})
	v.SetDefault("policy.include_hol_hamoed", false)

	v.SetDefault("display.language", "en")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Load loads configuration from file, .env and environment.
// A missing config file is not an error when no explicit path is given.
func Load(configPath string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.vacation-days")
		v.AddConfigPath("/etc/vacation-days")
	}

	// Read environment variables: VACATION_CALENDAR_TYPE, VACATION_LOG_LEVEL, ...
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate Calendar config
	switch c.Calendar.Type {
	case "builtin":
	case "hebcal":
		if c.Calendar.APIURL == "" {
			return fmt.Errorf("calendar.api_url is required for hebcal type")
		}
		switch c.Calendar.Fallback {
		case "", "none", "builtin":
		case "file":
			if c.Calendar.FallbackFile == "" {
				return fmt.Errorf("calendar.fallback_file is required for file fallback")
			}
		default:
			return fmt.Errorf("calendar.fallback must be 'builtin', 'file' or 'none', got '%s'", c.Calendar.Fallback)
		}
	case "file":
		if c.Calendar.File == "" {
			return fmt.Errorf("calendar.file is required for file type")
		}
	default:
		return fmt.Errorf("calendar.type must be 'builtin', 'hebcal' or 'file', got '%s'", c.Calendar.Type)
	}

	switch c.Calendar.Cache {
	case "", "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for redis cache")
		}
	default:
		return fmt.Errorf("calendar.cache must be 'memory' or 'redis', got '%s'", c.Calendar.Cache)
	}

	if c.Calendar.CacheTTL != "" {
		if _, err := time.ParseDuration(c.Calendar.CacheTTL); err != nil {
			return fmt.Errorf("calendar.cache_ttl: %w", err)
		}
	}

	// Validate Policy config
	if _, err := c.Policy.Weekend(); err != nil {
		return err
	}

	// Validate Log config
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got '%s'", c.Log.Level)
	}

	return nil
}

// GetCacheTTL returns cache TTL duration
func (c *CalendarConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return 24 * time.Hour
	}
	duration, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}

// Weekend returns the configured weekend days
func (p *PolicyConfig) Weekend() ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(p.WeekendDays))
	for _, name := range p.WeekendDays {
		day, err := dateutil.ParseWeekday(name)
		if err != nil {
			return nil, fmt.Errorf("policy.weekend_days: %w", err)
		}
		days = append(days, day)
	}
	return days, nil
}

// GetShutdownTimeout returns the graceful shutdown timeout
func (s *ServerConfig) GetShutdownTimeout() time.Duration {
	if s.ShutdownTimeout == "" {
		return 10 * time.Second
	}
	duration, err := time.ParseDuration(s.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return duration
}
