package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"

	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	Port               string        `mapstructure:"PORT"`
	Env                string        `mapstructure:"ENV"`
	DBDriver           string        `mapstructure:"DB_DRIVER"`
	DatabaseURL        string        `mapstructure:"DATABASE_URL"`
	JWTSecret          string        `mapstructure:"JWT_SECRET"`
	JWTTTL             time.Duration `mapstructure:"JWT_TTL"`
	AuthRequired       bool          `mapstructure:"AUTH_REQUIRED"`
	CORSOrigins        string        `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS       float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst     int           `mapstructure:"RATE_LIMIT_BURST"`
	CacheDriver        string        `mapstructure:"CACHE_DRIVER"`
	RedisURL           string        `mapstructure:"REDIS_URL"`
	CacheTTL           time.Duration `mapstructure:"CACHE_TTL"`
	MidtransServerKey  string        `mapstructure:"MIDTRANS_SERVER_KEY"`
	MidtransEnv        string        `mapstructure:"MIDTRANS_ENV"`
	FCMCredentialsFile string        `mapstructure:"FCM_CREDENTIALS_FILE"`
	SeedDemo           bool          `mapstructure:"SEED_DEMO"`
	Timezone           string        `mapstructure:"TIMEZONE"`
}

var keys = []string{
	"PORT", "ENV", "DB_DRIVER", "DATABASE_URL", "JWT_SECRET", "JWT_TTL", "AUTH_REQUIRED",
	"CORS_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CACHE_DRIVER", "REDIS_URL", "CACHE_TTL",
	"MIDTRANS_SERVER_KEY", "MIDTRANS_ENV", "FCM_CREDENTIALS_FILE", "SEED_DEMO", "TIMEZONE",
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using process environment")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_DRIVER", DriverMemory)
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("AUTH_REQUIRED", true)
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("CACHE_DRIVER", CacheNone)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("MIDTRANS_ENV", "sandbox")
	v.SetDefault("SEED_DEMO", true)
	v.SetDefault("TIMEZONE", "Local")

	// Unmarshal only sees keys viper knows about.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.DBDriver = strings.ToLower(cfg.DBDriver)
	cfg.CacheDriver = strings.ToLower(cfg.CacheDriver)
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) UsesDatabase() bool {
	return c.DBDriver == DriverMySQL || c.DBDriver == DriverPostgres
}

// Origins splits CORS_ORIGINS on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Location resolves TIMEZONE for "today" and calendar month boundaries.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMemory:
	case DriverMySQL, DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_DRIVER is %q", c.DBDriver)
		}
	default:
		return fmt.Errorf("DB_DRIVER must be \"memory\", \"mysql\" or \"postgres\", got %q", c.DBDriver)
	}

	switch c.CacheDriver {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when CACHE_DRIVER is \"redis\"")
		}
	default:
		return fmt.Errorf("CACHE_DRIVER must be \"none\", \"memory\" or \"redis\", got %q", c.CacheDriver)
	}

	if !c.IsDev() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required outside development (ENV=%q)", c.Env)
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.MidtransEnv != "sandbox" && c.MidtransEnv != "production" {
		return fmt.Errorf("MIDTRANS_ENV must be \"sandbox\" or \"production\", got %q", c.MidtransEnv)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}
	return nil
}
