package config

import (
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/CrestNiraj12/jokefeed/domain"
)

const envPrefix = "JOKEFEED"

// Keys shared by the config file, JOKEFEED_* environment variables and flags.
const (
	KeyBaseURL           = "base_url"
	KeyCategory          = "category"
	KeyJokeType          = "joke_type"
	KeyBlacklistFlags    = "blacklist_flags"
	KeyAmount            = "amount"
	KeyTimeout           = "timeout"
	KeyRequestsPerSecond = "requests_per_second"
	KeyRequestBurst      = "request_burst"
	KeySafeTransport     = "safe_transport"
	KeyLogLevel          = "log_level"
	KeyLogPath           = "log_path"
	KeyMetricsAddr       = "metrics_addr"
)

// Config holds application-level configuration.
type Config struct {
	BaseURL           string        // e.g. "https://v2.jokeapi.dev/joke"
	Category          string        // JokeAPI category path segment, e.g. "Any"
	JokeType          string        // "twopart"
	BlacklistFlags    string        // e.g. "nsfw"
	Amount            int           // Jokes per screen
	Timeout           time.Duration // Per-request timeout
	RequestsPerSecond float64       // Outbound pacing, 0 disables
	RequestBurst      int
	SafeTransport     bool   // Refuse private and loopback addresses
	LogLevel          string // debug, info, warn or error
	LogPath           string // "-" disables logging
	MetricsAddr       string // Empty disables the /metrics listener
}

var categoryRe = regexp.MustCompile(`^[A-Za-z]+(,[A-Za-z]+)*$`)

// NewViper returns a viper instance with defaults and JOKEFEED_* environment
// binding. Callers may bind flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyBaseURL, "https://v2.jokeapi.dev/joke/")
	v.SetDefault(KeyCategory, "Any")
	v.SetDefault(KeyJokeType, "twopart")
	v.SetDefault(KeyBlacklistFlags, "nsfw")
	v.SetDefault(KeyAmount, 20)
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyRequestsPerSecond, 0)
	v.SetDefault(KeyRequestBurst, 10)
	v.SetDefault(KeySafeTransport, true)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogPath, defaultLogPath())
	v.SetDefault(KeyMetricsAddr, "")
	return v
}

// Load reads configuration from v, after merging configFile if given.
// Without an explicit file, $XDG_CONFIG_HOME/jokefeed/config.yaml is used
// when it exists.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "reading config file %s", configFile)
		}
	} else if path := defaultConfigPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, errors.Wrapf(err, "reading config file %s", path)
			}
		}
	}

	cfg := Config{
		BaseURL:           v.GetString(KeyBaseURL),
		Category:          strings.TrimSpace(v.GetString(KeyCategory)),
		JokeType:          strings.TrimSpace(v.GetString(KeyJokeType)),
		BlacklistFlags:    strings.TrimSpace(v.GetString(KeyBlacklistFlags)),
		Amount:            v.GetInt(KeyAmount),
		Timeout:           v.GetDuration(KeyTimeout),
		RequestsPerSecond: v.GetFloat64(KeyRequestsPerSecond),
		RequestBurst:      v.GetInt(KeyRequestBurst),
		SafeTransport:     v.GetBool(KeySafeTransport),
		LogLevel:          strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		LogPath:           strings.TrimSpace(v.GetString(KeyLogPath)),
		MetricsAddr:       strings.TrimSpace(v.GetString(KeyMetricsAddr)),
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	parsed, err := url.Parse(strings.TrimSpace(c.BaseURL))
	if err != nil || parsed.Host == "" || (parsed.Scheme != "https" && parsed.Scheme != "http") {
		return errors.WithHint(
			errors.Wrapf(domain.ErrInvalidBaseURL, "invalid %s %q", KeyBaseURL, c.BaseURL),
			"use something like https://v2.jokeapi.dev/joke/",
		)
	}
	c.BaseURL = strings.TrimRight(parsed.String(), "/")

	if !categoryRe.MatchString(c.Category) {
		return errors.WithHint(
			errors.Newf("invalid %s %q", KeyCategory, c.Category),
			"use Any or a comma separated list such as Programming,Pun",
		)
	}
	if c.Amount <= 0 {
		return errors.Wrapf(domain.ErrInvalidAmount, "invalid %s %d", KeyAmount, c.Amount)
	}
	if c.Timeout <= 0 {
		return errors.Newf("invalid %s %s: must be positive", KeyTimeout, c.Timeout)
	}
	if c.RequestsPerSecond < 0 {
		return errors.Newf("invalid %s %v: must not be negative", KeyRequestsPerSecond, c.RequestsPerSecond)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.WithHint(
			errors.Wrapf(err, "invalid %s", KeyLogLevel),
			"use debug, info, warn or error",
		)
	}
	return nil
}

func defaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "jokefeed", "config.yaml")
}

// defaultLogPath follows XDG: $XDG_STATE_HOME/jokefeed/jokefeed.log, falling
// back to ~/.local/state.
func defaultLogPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "-"
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "jokefeed", "jokefeed.log")
}
