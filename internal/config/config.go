package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"distrotui/internal/api"
	"distrotui/internal/browser"
	"distrotui/internal/domain"
	"distrotui/internal/eventbus"
)

const (
	appName     = "distrotui"
	fileName    = "config.toml"
	envPrefix   = "DISTROTUI"
	dotEnvFile  = ".env"
	logFileName = "distrotui.log"
)

// Config represents the application configuration
type Config struct {
	API APIConfig `mapstructure:"api"`
	UI  UIConfig  `mapstructure:"ui"`
	Log LogConfig `mapstructure:"log"`
}

// APIConfig says where the distrobuild API lives
type APIConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Token   string        `mapstructure:"token"`
}

// UIConfig represents UI-related configuration
type UIConfig struct {
	PageSize      int           `mapstructure:"page_size"`
	Debounce      time.Duration `mapstructure:"debounce"`
	StartLocation string        `mapstructure:"start_location"`
	// FullName is shown in the header; $USER when empty
	FullName string `mapstructure:"full_name"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ClientConfig returns the API client configuration
func (c *Config) ClientConfig() *api.Config {
	return &api.Config{APIURL: c.API.URL, Timeout: c.API.Timeout, Token: c.API.Token}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.ClientConfig().Validate(); err != nil {
		return err
	}
	if c.UI.Debounce < 0 {
		return fmt.Errorf("invalid configuration: ui.debounce must not be negative, got %v", c.UI.Debounce)
	}
	if c.UI.StartLocation != "" && !strings.HasPrefix(c.UI.StartLocation, "/") {
		return fmt.Errorf("invalid configuration: ui.start_location must start with /, got %q", c.UI.StartLocation)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// fileConfig is the on-disk shape; durations are written as strings
type fileConfig struct {
	API struct {
		URL     string `toml:"url"`
		Timeout string `toml:"timeout"`
		Token   string `toml:"token,omitempty"`
	} `toml:"api"`
	UI struct {
		PageSize      int    `toml:"page_size"`
		Debounce      string `toml:"debounce"`
		StartLocation string `toml:"start_location"`
		FullName      string `toml:"full_name,omitempty"`
	} `toml:"ui"`
	Log struct {
		Level string `toml:"level"`
		File  string `toml:"file,omitempty"`
	} `toml:"log"`
}

func toFile(c *Config) fileConfig {
	var f fileConfig
	f.API.URL = c.API.URL
	f.API.Timeout = c.API.Timeout.String()
	f.API.Token = c.API.Token
	f.UI.PageSize = c.UI.PageSize
	f.UI.Debounce = c.UI.Debounce.String()
	f.UI.StartLocation = c.UI.StartLocation
	f.UI.FullName = c.UI.FullName
	f.Log.Level = c.Log.Level
	f.Log.File = c.Log.File
	return f
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	// BindFlag lets a command line flag override a configuration key
	BindFlag(key string, flag *pflag.Flag)
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
	flags    map[string]*pflag.Flag
}

// NewConfigService creates a config service reading path, or the default
// location when path is empty
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{
		filePath: path,
		flags:    make(map[string]*pflag.Flag),
	}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

// DefaultPath returns ~/.config/distrotui/config.toml or its platform equivalent
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, appName, fileName)
}

// LoadDotEnv loads variables from a .env file in the working directory.
// A missing file is not an error; variables already set win.
func LoadDotEnv() error {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", dotEnvFile, err)
	}
	return nil
}

func (cs *configService) Path() string {
	return cs.filePath
}

func (cs *configService) BindFlag(key string, flag *pflag.Flag) {
	if flag != nil {
		cs.flags[key] = flag
	}
}

// Load loads the configuration from the service's file. A missing file
// yields defaults overlaid with environment and flags.
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.load(cs.filePath, false)
	if err != nil {
		return nil, err
	}
	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigLoadedEvent{Path: cs.filePath, APIURL: cfg.API.URL})
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path, which must exist
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	return cs.load(path, true)
}

func (cs *configService) load(path string, mustExist bool) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flag := range cs.flags {
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
		}
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if mustExist {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.UI.PageSize = browser.NormalizePageSize(cfg.UI.PageSize)
	if cfg.Log.File == "" {
		cfg.Log.File = DefaultLogPath()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := Marshal(config)
	if err != nil {
		return err
	}

	// The file may hold a token
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders config as TOML
func Marshal(config *Config) ([]byte, error) {
	data, err := toml.Marshal(toFile(config))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("api.url", def.API.URL)
	v.SetDefault("api.timeout", def.API.Timeout.String())
	v.SetDefault("api.token", "")

	v.SetDefault("ui.page_size", def.UI.PageSize)
	v.SetDefault("ui.debounce", def.UI.Debounce.String())
	v.SetDefault("ui.start_location", def.UI.StartLocation)
	v.SetDefault("ui.full_name", "")

	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", "")
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			URL:     api.DefaultAPIURL,
			Timeout: api.DefaultTimeout,
		},
		UI: UIConfig{
			PageSize:      browser.DefaultPageSize,
			Debounce:      browser.DefaultQuietPeriod,
			StartLocation: "/",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
