// Package config loads the application configuration from
// $WORKDIR/appconfig/default.yaml, merges the environment specific file on
// top of it and applies environment variable overrides.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/redhat-data-and-ai/accountsync/pkg/cache"
	"github.com/redhat-data-and-ai/accountsync/pkg/clients"
	"github.com/redhat-data-and-ai/accountsync/pkg/clients/google"
	"github.com/redhat-data-and-ai/accountsync/pkg/clients/ldap"
	"github.com/redhat-data-and-ai/accountsync/pkg/logger"
)

const (
	configDir  = "appconfig"
	defaultEnv = "default"
)

var (
	mu         sync.RWMutex
	appConfig  *AppConfig
	currentEnv string
)

type App struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// Directory selects the remote directory service and the domain it serves.
type Directory struct {
	Driver       string `mapstructure:"driver" validate:"required,oneof=google ldap"`
	Domain       string `mapstructure:"domain" validate:"required,fqdn"`
	StaffOrgUnit string `mapstructure:"staffOrgUnit"`
}

type Snapshot struct {
	// Path of the snapshot file, empty disables saving and restoring.
	Path           string `mapstructure:"path"`
	RestoreOnStart bool   `mapstructure:"restoreOnStart"`
}

type API struct {
	Address        string   `mapstructure:"address" validate:"required,hostname_port"`
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

type Jobs struct {
	// CacheRefreshInterval of zero disables the periodic reload.
	CacheRefreshInterval time.Duration `mapstructure:"cacheRefreshInterval" validate:"gte=0"`
}

type Log struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=panic fatal error warn warning info debug trace"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`
}

type AppConfig struct {
	App       App            `mapstructure:"app"`
	Directory Directory      `mapstructure:"directory"`
	Google    *google.Config `mapstructure:"google"`
	LDAP      *ldap.LDAP     `mapstructure:"ldap"`
	Cache     cache.Config   `mapstructure:"cache"`
	Snapshot  Snapshot       `mapstructure:"snapshot"`
	API       API            `mapstructure:"api"`
	Jobs      Jobs           `mapstructure:"jobs"`
	Log       Log            `mapstructure:"log"`
}

// Environment returns the environment selected by APP_ENV.
func Environment() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return defaultEnv
}

// LoadConfig reads the configuration for env and makes it the current one.
func LoadConfig(env string) (*AppConfig, error) {
	cfg, err := load(env)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	appConfig = cfg
	currentEnv = env
	mu.Unlock()
	return cfg, nil
}

// GetConfig returns the configuration loaded last, or nil.
func GetConfig() *AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	return appConfig
}

// Watch reloads the configuration whenever the environment file changes and
// passes every valid reload to onChange.
func Watch(onChange func(*AppConfig)) error {
	mu.RLock()
	env := currentEnv
	loaded := appConfig != nil
	mu.RUnlock()
	if !loaded {
		return errors.New("config is not loaded")
	}

	v := viper.New()
	v.SetConfigFile(configFile(env))
	if _, err := os.Stat(configFile(env)); err != nil {
		v.SetConfigFile(configFile(defaultEnv))
	}
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to watch config: %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		log := logger.Logger(context.Background()).WithField("file", e.Name)
		cfg, err := LoadConfig(env)
		if err != nil {
			log.WithError(err).Error("failed to reload config, keeping the previous one")
			return
		}
		log.Info("config reloaded")
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

func load(env string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configFile(defaultEnv))
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read %s config: %w", defaultEnv, err)
	}

	if env != "" && env != defaultEnv {
		path := configFile(env)
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("failed to merge %s config: %w", env, err)
			}
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = env
	}
	return cfg, nil
}

func configFile(env string) string {
	workdir := os.Getenv("WORKDIR")
	if workdir == "" {
		workdir = "."
	}
	return filepath.Join(workdir, configDir, env+".yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "accountsync")
	v.SetDefault("directory.driver", clients.DriverGoogle)
	v.SetDefault("directory.domain", "")
	v.SetDefault("directory.staffOrgUnit", clients.DefaultStaffOrgUnit)
	v.SetDefault("cache.driver", cache.DriverMemory)
	v.SetDefault("api.address", ":8080")
	v.SetDefault("jobs.cacheRefreshInterval", "0s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate checks the configuration before any client is created.
func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch c.Directory.Driver {
	case clients.DriverGoogle:
		if c.Google == nil {
			return errors.New("invalid config: google section is required for the google driver")
		}
	case clients.DriverLDAP:
		if c.LDAP == nil {
			return errors.New("invalid config: ldap section is required for the ldap driver")
		}
	}
	if c.Cache.Driver == cache.DriverRedis && c.Cache.Redis == nil {
		return errors.New("invalid config: cache.redis section is required for the redis driver")
	}
	if c.Snapshot.RestoreOnStart && c.Snapshot.Path == "" {
		return errors.New("invalid config: snapshot.path is required to restore on start")
	}
	return nil
}

// ClientConfig returns the directory client settings.
func (c *AppConfig) ClientConfig() clients.Config {
	return clients.Config{
		Driver: c.Directory.Driver,
		Google: c.Google,
		LDAP:   c.LDAP,
	}
}
