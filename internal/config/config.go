package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	StorageDriverFile   = "file"
	StorageDriverSQLite = "sqlite"
	StorageDriverMySQL  = "mysql"
	StorageDriverMemory = "memory"
)

type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Supabase SupabaseConfig `mapstructure:"supabase"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Report   ReportConfig   `mapstructure:"report"`
}

// StorageConfig selects where the learning state is kept on this machine.
type StorageConfig struct {
	Driver     string         `mapstructure:"driver" validate:"oneof=file sqlite mysql memory"`
	Directory  string         `mapstructure:"directory"`
	SQLitePath string         `mapstructure:"sqlite_path"`
	Database   DatabaseConfig `mapstructure:"database"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port" validate:"gte=0,lte=65535"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type SupabaseConfig struct {
	URL            string `mapstructure:"url" validate:"omitempty,url"`
	AnonKey        string `mapstructure:"anon_key"`
	AccessToken    string `mapstructure:"access_token"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=0"`
}

// Enabled reports whether a Supabase project is configured. Without one the learner is
// treated as signed out.
func (c SupabaseConfig) Enabled() bool {
	return c.URL != "" && c.AnonKey != ""
}

func (c SupabaseConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type SyncConfig struct {
	RetryAttempts        uint `mapstructure:"retry_attempts"`
	WatchIntervalSeconds int  `mapstructure:"watch_interval_seconds" validate:"gt=0"`
}

func (c SyncConfig) WatchInterval() time.Duration {
	return time.Duration(c.WatchIntervalSeconds) * time.Second
}

type ReportConfig struct {
	// Template is optional; the embedded template is used when it is empty
	Template        string `mapstructure:"template" validate:"omitempty,file"`
	OutputDirectory string `mapstructure:"output_directory"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/teacherlee")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("storage.driver", StorageDriverFile)
	v.SetDefault("storage.directory", filepath.Join("data", "learning"))
	v.SetDefault("storage.sqlite_path", filepath.Join("data", "teacherlee.db"))
	v.SetDefault("storage.database.host", "localhost")
	v.SetDefault("storage.database.port", 3306)
	v.SetDefault("storage.database.database", "teacherlee")
	v.SetDefault("storage.database.username", "user")
	v.SetDefault("supabase.timeout_seconds", 10)
	v.SetDefault("sync.retry_attempts", 0)
	v.SetDefault("sync.watch_interval_seconds", 300)
	v.SetDefault("report.template", "")
	v.SetDefault("report.output_directory", filepath.Join("outputs", "reports"))

	// Supabase credentials come from the environment so they stay out of config files
	for key, env := range map[string]string{
		"supabase.url":          "SUPABASE_URL",
		"supabase.anon_key":     "SUPABASE_ANON_KEY",
		"supabase.access_token": "SUPABASE_ACCESS_TOKEN",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", env, err)
		}
	}

	if err := v.BindEnv("storage.database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
