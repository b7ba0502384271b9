package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Service   ServiceConfig   `mapstructure:"service"`
	Databases DatabasesConfig `mapstructure:"databases"`
	Auth      AuthConfig      `mapstructure:"auth"`
	AWS       AWSConfig       `mapstructure:"aws"`
	Timezones TimezonesConfig `mapstructure:"timezones"`
	Worker    WorkerConfig    `mapstructure:"worker"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Cors      CorsConfig      `mapstructure:"cors"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

type ServiceType string

const (
	API    ServiceType = "API"
	WORKER ServiceType = "WORKER"
)

type ServiceConfig struct {
	Type           ServiceType   `mapstructure:"type"`
	Port           string        `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"requestTimeout"`
}

type DatabasesConfig struct {
	SQL   SQLConfig   `mapstructure:"sql"`
	Redis RedisConfig `mapstructure:"redis"`
}

type SQLConfig struct {
	Host             string `mapstructure:"host"`
	Port             string `mapstructure:"port"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	Driver           string `mapstructure:"driver"`
	Database         string `mapstructure:"database"`
	ConnectionString string `mapstructure:"connection_string"`
	AutoMigrate      bool   `mapstructure:"autoMigrate"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	TLS      bool   `mapstructure:"tls"`
}

func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type AuthConfig struct {
	JWTSecret   string        `mapstructure:"jwtSecret"`
	JWTSecretID string        `mapstructure:"jwtSecretId"`
	TokenTTL    time.Duration `mapstructure:"tokenTTL"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
}

type TimezonesConfig struct {
	ReferenceZone      string            `mapstructure:"referenceZone"`
	DefaultDisplayZone string            `mapstructure:"defaultDisplayZone"`
	Locations          map[string]string `mapstructure:"locations"`
}

type WorkerConfig struct {
	PruneCron string `mapstructure:"pruneCron"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.type", string(API))
	v.SetDefault("service.port", "8000")
	v.SetDefault("service.requestTimeout", 10*time.Second)
	v.SetDefault("databases.sql.driver", "postgres")
	v.SetDefault("databases.sql.port", "5432")
	v.SetDefault("databases.sql.host", "")
	v.SetDefault("databases.sql.username", "")
	v.SetDefault("databases.sql.password", "")
	v.SetDefault("databases.sql.database", "")
	v.SetDefault("databases.sql.connection_string", "")
	v.SetDefault("databases.sql.autoMigrate", false)
	v.SetDefault("databases.redis.host", "")
	v.SetDefault("databases.redis.port", "6379")
	v.SetDefault("databases.redis.password", "")
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.jwtSecretId", "")
	v.SetDefault("auth.tokenTTL", 24*time.Hour)
	v.SetDefault("aws.region", "")
	v.SetDefault("timezones.referenceZone", "America/New_York")
	v.SetDefault("timezones.defaultDisplayZone", "America/New_York")
	v.SetDefault("worker.pruneCron", "@every 1h")
	v.SetDefault("logging.level", "info")
	v.SetDefault("cors.allowedOrigins", []string{"*"})
	v.SetDefault("cache.ttl", 5*time.Minute)
}

// LoadConfig reads appsettings.yaml from path and, when env is set, merges
// appsettings.<env>.yaml on top. Environment variables prefixed with DASH_
// override both, e.g. DASH_DATABASES_SQL_HOST.
func LoadConfig(path string, env string) (*Config, error) {
	var cfg Config

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(path)
	v.SetConfigName("appsettings")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("DASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if env != "" {
		v.SetConfigName("appsettings." + env)
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
