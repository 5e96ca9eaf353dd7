// Package config loads certdevices settings from a YAML file, a .env file,
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/androidtrackers/certified-android-devices/internal/feed"
	"github.com/androidtrackers/certified-android-devices/internal/logging"
	"github.com/androidtrackers/certified-android-devices/internal/notify"
	"github.com/androidtrackers/certified-android-devices/internal/publish"
)

// Credential environment variables. Both must be set for a non-local run.
const (
	EnvGitToken = "GIT_OAUTH_TOKEN_XFU"
	EnvBotToken = "BOTTOKEN"
)

// FileName is the config file looked up in the working directory.
const FileName = "certdevices.yaml"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all settings for a sync run.
type Config struct {
	FeedURL     string         `yaml:"feed_url"`
	FeedTimeout time.Duration  `yaml:"feed_timeout"`
	OutputDir   string         `yaml:"output_dir"`
	StorePath   string         `yaml:"store_path"`
	Telegram    TelegramConfig `yaml:"telegram"`
	Git         GitConfig      `yaml:"git"`
	Log         logging.Config `yaml:"log"`

	// Credentials come from the environment only.
	GitToken string `yaml:"-"`
	BotToken string `yaml:"-"`
}

// TelegramConfig configures announcement delivery.
type TelegramConfig struct {
	Chat    string        `yaml:"chat"`
	APIBase string        `yaml:"api_base"`
	Pace    time.Duration `yaml:"pace"`
	Timeout time.Duration `yaml:"timeout"`
}

// GitConfig configures publishing.
type GitConfig struct {
	Repo      string `yaml:"repo"`   // owner/name on GitHub
	Remote    string `yaml:"remote"` // overrides the URL built from Repo
	Branch    string `yaml:"branch"`
	UserName  string `yaml:"user_name"`
	UserEmail string `yaml:"user_email"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		FeedURL:     feed.DefaultURL,
		FeedTimeout: 2 * time.Minute,
		OutputDir:   ".",
		StorePath:   "devices.db",
		Telegram: TelegramConfig{
			Chat:    "@CertifiedAndroidDevices",
			APIBase: notify.DefaultAPIBase,
			Pace:    notify.DefaultPace,
			Timeout: 30 * time.Second,
		},
		Git: GitConfig{
			Repo:      "androidtrackers/certified-android-devices",
			Branch:    "master",
			UserName:  "XiaomiFirmwareUpdater",
			UserEmail: "xiaomifirmwareupdater@gmail.com",
		},
		Log: logging.Config{Level: "info"},
	}
}

// Dir returns the certdevices config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/certdevices if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "certdevices"), nil
}

// DefaultPath returns ./certdevices.yaml if present, else the file of the
// same name in Dir.
func DefaultPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	dir, err := Dir()
	if err != nil {
		return FileName
	}
	return filepath.Join(dir, FileName)
}

// Load reads the config file at path over the defaults, loads .env from the
// working directory, then applies environment overrides and validates. A
// missing config file or .env is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.GitToken = os.Getenv(EnvGitToken)
	c.BotToken = os.Getenv(EnvBotToken)

	if v := os.Getenv("CERTDEVICES_FEED_URL"); v != "" {
		c.FeedURL = v
	}
	if v := os.Getenv("CERTDEVICES_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("CERTDEVICES_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch {
	case c.FeedURL == "":
		return fmt.Errorf("%w: feed_url is empty", ErrInvalid)
	case c.FeedTimeout <= 0:
		return fmt.Errorf("%w: feed_timeout must be positive", ErrInvalid)
	case c.Telegram.Timeout <= 0:
		return fmt.Errorf("%w: telegram.timeout must be positive", ErrInvalid)
	case c.Telegram.Pace < 0:
		return fmt.Errorf("%w: telegram.pace must not be negative", ErrInvalid)
	case c.OutputDir == "":
		return fmt.Errorf("%w: output_dir is empty", ErrInvalid)
	case c.Git.Branch == "":
		return fmt.Errorf("%w: git.branch is empty", ErrInvalid)
	}
	return nil
}

// LocalMode reports whether external side effects must be skipped: when
// forced by the caller, or when either credential is missing.
func (c *Config) LocalMode(force bool) bool {
	return force || c.GitToken == "" || c.BotToken == ""
}

// RemoteURL returns the push destination for published commits.
func (c *Config) RemoteURL() string {
	if c.Git.Remote != "" {
		return c.Git.Remote
	}
	return publish.RemoteURL(c.GitToken, c.Git.Repo)
}

// ResolveStorePath returns StorePath, relative to OutputDir unless absolute.
func (c *Config) ResolveStorePath() string {
	if filepath.IsAbs(c.StorePath) {
		return c.StorePath
	}
	return filepath.Join(c.OutputDir, c.StorePath)
}
