// Package config loads the server configuration from defaults, an optional
// config file, .env files and SCORPION_* environment variables, in rising
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/adamwoolhether/scorpion/web"
	"github.com/adamwoolhether/scorpion/web/errs"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. SCORPION_HOST.
const EnvPrefix = "SCORPION"

// Config holds the settings of the resource server.
type Config struct {
	Host            string        `mapstructure:"host" json:"host" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" json:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" json:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" json:"shutdown_timeout"`
	TLSCertFile     string        `mapstructure:"tls_cert_file" json:"tls_cert_file" validate:"required_with=TLSKeyFile"`
	TLSKeyFile      string        `mapstructure:"tls_key_file" json:"tls_key_file" validate:"required_with=TLSCertFile"`

	LogLevel  string `mapstructure:"log_level" json:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" json:"log_format" validate:"oneof=json text"`

	Realm        string `mapstructure:"realm" json:"realm" validate:"required"`
	BasePath     string `mapstructure:"base_path" json:"base_path" validate:"omitempty,resource"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes" json:"max_body_bytes"`

	StorageType     string `mapstructure:"storage_type" json:"storage_type" validate:"oneof=fs bbolt memory"`
	StoragePath     string `mapstructure:"storage_path" json:"storage_path" validate:"required_unless=StorageType memory"`
	DefaultResource string `mapstructure:"default_resource" json:"default_resource" validate:"required,excludes=/"`

	UsersFile       string `mapstructure:"users_file" json:"users_file"`
	PermissionsFile string `mapstructure:"permissions_file" json:"permissions_file"`
	AuthFile        string `mapstructure:"auth_file" json:"auth_file"`

	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`
	CSRFOrigins []string `mapstructure:"csrf_origins" json:"csrf_origins" validate:"dive,url"`
	MetricsPath string   `mapstructure:"metrics_path" json:"metrics_path" validate:"omitempty,resource"`
	StaticDir   string   `mapstructure:"static_dir" json:"static_dir"`
	StaticPath  string   `mapstructure:"static_path" json:"static_path" validate:"required_with=StaticDir"`
}

// Load builds a Config. configFile may be empty; envFiles default to
// ".env". Missing .env files are ignored, a missing config file is not.
func Load(configFile string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.StorageType = strings.ToLower(strings.TrimSpace(cfg.StorageType))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if err := web.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", ":8080")
	v.SetDefault("read_timeout", 5*time.Second)
	v.SetDefault("write_timeout", 10*time.Second)
	v.SetDefault("idle_timeout", 120*time.Second)
	v.SetDefault("shutdown_timeout", 20*time.Second)
	v.SetDefault("tls_cert_file", "")
	v.SetDefault("tls_key_file", "")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("realm", "scorpion server")
	v.SetDefault("base_path", "")
	v.SetDefault("max_body_bytes", 10<<20)

	v.SetDefault("storage_type", "fs")
	v.SetDefault("storage_path", "./hosted")
	v.SetDefault("default_resource", "index")

	v.SetDefault("users_file", "./config/users")
	v.SetDefault("permissions_file", "./config/permissions")
	v.SetDefault("auth_file", "")

	v.SetDefault("cors_origins", []string{})
	v.SetDefault("csrf_origins", []string{})
	v.SetDefault("metrics_path", "/metrics")
	v.SetDefault("static_dir", "")
	v.SetDefault("static_path", "/public/")
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}

	return level
}

// TLS reports whether both TLS files are configured.
func (c *Config) TLS() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// CheckPaths verifies the static directory and TLS files exist. The
// first failure is returned as errs.FieldErrors keyed like the config file.
func (c *Config) CheckPaths() error {
	if c.StaticDir != "" {
		info, err := os.Stat(c.StaticDir)
		if err == nil && !info.IsDir() {
			err = fmt.Errorf("%s is not a directory", c.StaticDir)
		}
		if err != nil {
			return errs.NewFieldsError("static_dir", err)
		}
	}

	if c.TLS() {
		files := []struct{ field, path string }{
			{"tls_cert_file", c.TLSCertFile},
			{"tls_key_file", c.TLSKeyFile},
		}
		for _, f := range files {
			if _, err := os.Stat(f.path); err != nil {
				return errs.NewFieldsError(f.field, err)
			}
		}
	}

	return nil
}
