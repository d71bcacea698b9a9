package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Log       LogConfig
	Worker    WorkerConfig
	Nominatim NominatimConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	GeocodeCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled     bool
	Interval    time.Duration
	BatchSize   int
	MaxRetries  int
	RetryDelay  time.Duration
	ScheduleLag time.Duration
}

type NominatimConfig struct {
	BaseURL        string
	UserAgent      string
	RequestTimeout time.Duration
	Zoom           int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			GeocodeCacheTTL: time.Duration(viper.GetInt("GEOCODE_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:     viper.GetBool("WORKER_ENABLED"),
			Interval:    time.Duration(viper.GetInt("WORKER_INTERVAL")) * time.Second,
			BatchSize:   viper.GetInt("WORKER_BATCH_SIZE"),
			MaxRetries:  viper.GetInt("WORKER_MAX_RETRIES"),
			RetryDelay:  time.Duration(viper.GetInt("WORKER_RETRY_DELAY")) * time.Millisecond,
			ScheduleLag: time.Duration(viper.GetInt("WORKER_SCHEDULE_LAG")) * time.Millisecond,
		},
		Nominatim: NominatimConfig{
			BaseURL:        viper.GetString("NOMINATIM_BASE_URL"),
			UserAgent:      viper.GetString("NOMINATIM_USER_AGENT"),
			RequestTimeout: time.Duration(viper.GetInt("NOMINATIM_REQUEST_TIMEOUT")) * time.Second,
			Zoom:           viper.GetInt("NOMINATIM_ZOOM"),
		},
	}

	// Set default values if not provided
	if cfg.Worker.Interval == 0 {
		cfg.Worker.Interval = 5 * time.Minute
	}
	if cfg.Worker.BatchSize == 0 {
		cfg.Worker.BatchSize = 50
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
	if cfg.Worker.RetryDelay == 0 {
		cfg.Worker.RetryDelay = 2 * time.Second
	}
	if cfg.Worker.ScheduleLag == 0 {
		cfg.Worker.ScheduleLag = 3 * time.Second
	}
	if cfg.Nominatim.BaseURL == "" {
		cfg.Nominatim.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.Nominatim.UserAgent == "" {
		cfg.Nominatim.UserAgent = "PhotoMap App (desarrollo/testing)"
	}
	if cfg.Nominatim.RequestTimeout == 0 {
		cfg.Nominatim.RequestTimeout = 5 * time.Second
	}
	if cfg.Nominatim.Zoom == 0 {
		cfg.Nominatim.Zoom = 10
	}
	if cfg.Cache.GeocodeCacheTTL == 0 {
		cfg.Cache.GeocodeCacheTTL = time.Hour
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
