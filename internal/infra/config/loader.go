package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"appship/internal/domain"
)

// Settings is the resolved runtime configuration.
type Settings struct {
	APIURL                string          `mapstructure:"apiURL"`
	LogLevel              string          `mapstructure:"logLevel"`
	RequestTimeoutSeconds int             `mapstructure:"requestTimeoutSeconds"`
	Metrics               MetricsSettings `mapstructure:"metrics"`

	// APIKey is the credential override. It is only read from the environment.
	APIKey string `mapstructure:"-"`
	// Path is the config file that was read, if any.
	Path string `mapstructure:"-"`
}

type MetricsSettings struct {
	ListenAddress string `mapstructure:"listenAddress"`
}

func (s Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// Overrides holds values set explicitly on the command line. A nil field is
// left alone; a set field wins even when empty, so "--metrics-addr=" turns
// off a listener configured elsewhere.
type Overrides struct {
	APIURL      *string
	LogLevel    *string
	MetricsAddr *string
}

type Options struct {
	// Path is an explicit config file. When set it must exist.
	Path string
	// HomeDir locates the default config file. Empty uses the user home.
	HomeDir string
	// Environ replaces the process environment when non-nil.
	Environ   map[string]string
	Overrides Overrides
}

type environment struct {
	APIKey      string `env:"APPSHIP_API_KEY"`
	APIURL      string `env:"APPSHIP_API_URL"`
	LogLevel    string `env:"APPSHIP_LOG_LEVEL"`
	MetricsAddr string `env:"APPSHIP_METRICS_ADDR"`
}

type Loader struct {
	logger *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger.Named("config")}
}

func newSettingsViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("apiURL", domain.DefaultAPIBaseURL)
	v.SetDefault("logLevel", domain.DefaultLogLevel)
	v.SetDefault("requestTimeoutSeconds", domain.DefaultRequestTimeoutSeconds)
	v.SetDefault("metrics.listenAddress", "")
	return v
}

// Load resolves settings from defaults, the config file, the environment and
// command line overrides, in increasing order of precedence.
func (l *Loader) Load(ctx context.Context, opts Options) (Settings, error) {
	v := newSettingsViper()
	lookup := lookupFromMap(opts.Environ)

	path, explicit, err := configPath(opts)
	if err != nil {
		return Settings{}, err
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := l.readFile(v, path, data, lookup); err != nil {
			return Settings{}, err
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		l.logger.Debug("no config file", zap.String("path", path))
		path = ""
	default:
		return Settings{}, fmt.Errorf("read config: %w", err)
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	settings.Path = path

	if err := ctx.Err(); err != nil {
		return Settings{}, err
	}

	var envCfg environment
	envOpts := env.Options{}
	if opts.Environ != nil {
		envOpts.Environment = opts.Environ
	}
	if err := env.ParseWithOptions(&envCfg, envOpts); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	settings.APIKey = strings.TrimSpace(envCfg.APIKey)
	overlay(&settings.APIURL, envCfg.APIURL)
	overlay(&settings.LogLevel, envCfg.LogLevel)
	overlay(&settings.Metrics.ListenAddress, envCfg.MetricsAddr)

	override(&settings.APIURL, opts.Overrides.APIURL)
	override(&settings.LogLevel, opts.Overrides.LogLevel)
	override(&settings.Metrics.ListenAddress, opts.Overrides.MetricsAddr)

	settings.APIURL = strings.TrimRight(settings.APIURL, "/")
	settings.LogLevel = strings.ToLower(settings.LogLevel)

	if err := Validate(settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (l *Loader) readFile(v *viper.Viper, path string, data []byte, lookup lookupFunc) error {
	expanded, missing, err := expandConfigEnv(data, lookup)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		l.logger.Warn("config references unset environment variables",
			zap.String("path", path),
			zap.Strings("vars", missing),
		)
	}
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func configPath(opts Options) (string, bool, error) {
	if path := strings.TrimSpace(opts.Path); path != "" {
		return path, true, nil
	}
	home := opts.HomeDir
	if home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return "", false, fmt.Errorf("resolve home dir: %w", err)
		}
		home = dir
	}
	return filepath.Join(home, domain.ConfigDirName, domain.ConfigFileName), false, nil
}

func override(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
}

func overlay(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}

// Validate reports every invalid setting.
func Validate(s Settings) error {
	var errs []error
	parsed, err := url.Parse(s.APIURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		errs = append(errs, fmt.Errorf("apiURL must be an absolute http(s) URL, got %q", s.APIURL))
	}
	if _, err := zapcore.ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("logLevel %q is not a valid level", s.LogLevel))
	}
	if s.RequestTimeoutSeconds < 0 {
		errs = append(errs, errors.New("requestTimeoutSeconds must be >= 0"))
	}
	return errors.Join(errs...)
}
