package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/d60-Lab/foodgram/pkg/logger"
	"github.com/d60-Lab/foodgram/pkg/storage"
)

// Config 服务全部配置
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Log        logger.Config    `mapstructure:"log"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Storage    StorageConfig    `mapstructure:"storage"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Pagination PaginationConfig `mapstructure:"pagination"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug | release | test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr 监听地址
func (s ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // postgres, mysql, sqlite
	DSN             string `mapstructure:"dsn"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	FilePath        string `mapstructure:"file_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // minutes
	LogLevel        string `mapstructure:"log_level"`
	SlowThresholdMS int    `mapstructure:"slow_threshold_ms"`
}

// RedisConfig Address 为空时关闭参考数据缓存
type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	Issuer   string        `mapstructure:"issuer"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type StorageConfig struct {
	Driver string              `mapstructure:"driver"` // local | s3
	Local  storage.LocalConfig `mapstructure:"local"`
	S3     storage.S3Config    `mapstructure:"s3"`
	// MediaURL 本地存储对外暴露的路由前缀
	MediaURL string `mapstructure:"media_url"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

type SentryConfig struct {
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type PaginationConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size"`
	MaxPageSize     int `mapstructure:"max_page_size"`
}

// Load 读取 ./config/config.yaml（可选）与环境变量；FOODGRAM_CONFIG 可指定文件
func Load() (*Config, error) {
	return LoadFrom(os.Getenv("FOODGRAM_CONFIG"))
}

// LoadFrom 从指定文件加载；path 为空时按默认目录查找 config.yaml
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FOODGRAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 启动前的最小检查
func (c *Config) Validate() error {
	if c.Auth.Secret == "" {
		return fmt.Errorf("auth.secret is required")
	}
	switch c.Storage.Driver {
	case "local", "s3":
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.Storage.Driver)
	}
	if c.Pagination.DefaultPageSize <= 0 || c.Pagination.MaxPageSize < c.Pagination.DefaultPageSize {
		return fmt.Errorf("invalid pagination settings")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "foodgram")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.file_path", "./data/foodgram.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.slow_threshold_ms", 200)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "10m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.service_name", "foodgram")

	v.SetDefault("auth.issuer", "foodgram")
	v.SetDefault("auth.token_ttl", "24h")

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local.base_path", "./media")
	v.SetDefault("storage.media_url", "/media")
	v.SetDefault("storage.s3.region", "us-east-1")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rps", 20)
	v.SetDefault("rate_limit.burst", 40)

	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.service_name", "foodgram")
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("pagination.default_page_size", 6)
	v.SetDefault("pagination.max_page_size", 100)
}

// bindEnv 常用的无前缀变量名，便于容器部署
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("server.port", "FOODGRAM_SERVER_PORT", "PORT")
	_ = v.BindEnv("database.dsn", "FOODGRAM_DATABASE_DSN", "DATABASE_URL")
	_ = v.BindEnv("database.driver", "FOODGRAM_DATABASE_DRIVER", "DB_DRIVER")
	_ = v.BindEnv("redis.address", "FOODGRAM_REDIS_ADDRESS", "REDIS_ADDRESS")
	_ = v.BindEnv("auth.secret", "FOODGRAM_AUTH_SECRET", "JWT_SECRET")
	_ = v.BindEnv("sentry.dsn", "FOODGRAM_SENTRY_DSN", "SENTRY_DSN")
	_ = v.BindEnv("log.level", "FOODGRAM_LOG_LEVEL", "LOG_LEVEL")
}
