package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"reflect"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

const configFileName = "torro"

// Built-in defaults, used when neither the config file nor the cli flags
// provide a value.
const (
	defaultTrackerPort = 6881
	defaultMaxRetries  = 3
)

// flagConfig stores the parsed values from the cli flags.
type flagConfig struct {
	libraryPath *string
	downloadDir *string
	logPath     *string
	debug       *bool
	port        *int
	maxRetries  *int
}

// Config holds the configuration options for the application.
type Config struct {
	LibraryPath string         `yaml:"libraryPath,omitempty"`
	DownloadDir string         `yaml:"downloadDir,omitempty"`
	LogPath     string         `yaml:"logPath,omitempty"`
	Debug       bool           `yaml:"debug,omitempty"`
	Tracker     *TrackerConfig `yaml:"tracker,omitempty"`
}

// TrackerConfig holds configuration options for tracker exchanges.
type TrackerConfig struct {
	// Port announced to trackers.
	Port int `yaml:"port,omitempty"`

	// MaxRetries caps the BEP0015 retransmit schedule; 0 through 8.
	MaxRetries int `yaml:"maxRetries,omitempty"`
}

// GetConfig reads the configuration file and returns a Config struct.
// If the configuration file does not exist, it uses default configuration
// but STILL applies CLI flags.
func GetConfig() (*Config, error) {
	configFilePath := filepath.Join(xdg.ConfigHome, configFileName)
	defaults := DefaultConfig()

	var cfg Config // Empty by default

	b, err := os.ReadFile(configFilePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if len(b) > 0 {
		err = yaml.Unmarshal(b, &cfg)
		if err != nil {
			return nil, err
		}
	}

	trackerCfg := zeroOr(cfg.Tracker, defaults.Tracker)

	conf := Config{
		LibraryPath: zeroOr(cfg.LibraryPath, defaults.LibraryPath),
		DownloadDir: zeroOr(cfg.DownloadDir, defaults.DownloadDir),
		LogPath:     zeroOr(cfg.LogPath, defaults.LogPath),
		Debug:       cfg.Debug,
		Tracker: &TrackerConfig{
			Port:       zeroOr(trackerCfg.Port, defaults.Tracker.Port),
			MaxRetries: zeroOr(trackerCfg.MaxRetries, defaults.Tracker.MaxRetries),
		},
	}

	conf.applyFlagsToConfig()

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return &conf, nil
}

func DefaultConfig() Config {
	dataDir := filepath.Join(xdg.DataHome, "torro")

	return Config{
		LibraryPath: filepath.Join(dataDir, "library.db"),
		DownloadDir: xdg.UserDirs.Download,
		LogPath:     filepath.Join(dataDir, "torro.log"),
		Tracker: &TrackerConfig{
			Port:       defaultTrackerPort,
			MaxRetries: defaultMaxRetries,
		},
	}
}

// zeroOr returns def if v is the zero value for its type.
func zeroOr[T any](v, def T) T {
	if reflect.ValueOf(v).IsZero() {
		return def
	}

	return v
}

// applyFlagsToConfig takes the value of the cli flags applied at the start and plugs them into the config.
func (c *Config) applyFlagsToConfig() {
	fc := flagConfig{
		libraryPath: flag.String("lib", c.LibraryPath, "path to the torrent library database"),
		downloadDir: flag.String("dd", c.DownloadDir, "path to the directory that will be used to store new downloads"),
		logPath:     flag.String("log", c.LogPath, "path to the log file"),
		debug:       flag.Bool("debug", c.Debug, "enable debug logging"),
		port:        flag.Int("port", c.Tracker.Port, "port announced to trackers"),
		maxRetries:  flag.Int("mr", c.Tracker.MaxRetries, "maximum number of tracker retransmits (0-8)"),
	}

	flag.Parse()

	c.LibraryPath = *fc.libraryPath
	c.DownloadDir = *fc.downloadDir
	c.LogPath = *fc.logPath
	c.Debug = *fc.debug
	c.Tracker.Port = *fc.port
	c.Tracker.MaxRetries = *fc.maxRetries
}

func (c *Config) validate() error {
	if c.LibraryPath == "" || c.LogPath == "" {
		return ErrInvalidConfig
	}

	return c.Tracker.validate()
}

func (t *TrackerConfig) validate() error {
	if t.Port <= 0 || t.Port > 65535 {
		return ErrInvalidConfig
	}

	if t.MaxRetries < 0 || t.MaxRetries > 8 {
		return ErrInvalidConfig
	}

	return nil
}
