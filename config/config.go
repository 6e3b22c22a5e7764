package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/physio-dash/session-transcriber/logging"
)

type Deepgram struct {
	URL         string `mapstructure:"url" yaml:"url"`
	APIKey      string `mapstructure:"api_key" yaml:"api_key"`
	Model       string `mapstructure:"model" yaml:"model"`
	Language    string `mapstructure:"language" yaml:"language"`
	SmartFormat bool   `mapstructure:"smart_format" yaml:"smart_format"`
	Punctuate   bool   `mapstructure:"punctuate" yaml:"punctuate"`
	Diarize     bool   `mapstructure:"diarize" yaml:"diarize"`
	Utterances  bool   `mapstructure:"utterances" yaml:"utterances"`
	Timeout     int    `mapstructure:"timeout" yaml:"timeout"` // sec
}
type Server struct {
	Addr          string `mapstructure:"addr" yaml:"addr"`
	UploadLimitMB int    `mapstructure:"upload_limit_mb" yaml:"upload_limit_mb"`
}
type Pipeline struct {
	Name    string `mapstructure:"name" yaml:"name"`
	Version string `mapstructure:"version" yaml:"version"`
	LogLvl  string `mapstructure:"log_level" yaml:"log_level"`
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
}
type Paths struct {
	Outputs string `mapstructure:"outputs" yaml:"outputs"`
}
type Root struct {
	Pipeline Pipeline `mapstructure:"pipeline" yaml:"pipeline"`
	Deepgram Deepgram `mapstructure:"deepgram" yaml:"deepgram"`
	Server   Server   `mapstructure:"server" yaml:"server"`
	Paths    Paths    `mapstructure:"paths" yaml:"paths"`
}

// EnvPrefix prefixes environment overrides, e.g. PTDASH_SERVER_ADDR.
const EnvPrefix = "PTDASH"

// APIKeyEnv is read for deepgram.api_key without the prefix.
const APIKeyEnv = "DEEPGRAM_API_KEY"

var defaults = map[string]any{
	"pipeline.name":      "session-transcriber",
	"pipeline.version":   "0.1.0",
	"pipeline.log_level": "info",
	"pipeline.log_file":  "",

	"deepgram.url":          "https://api.deepgram.com",
	"deepgram.api_key":      "",
	"deepgram.model":        "nova-3",
	"deepgram.language":     "en",
	"deepgram.smart_format": true,
	"deepgram.punctuate":    true,
	"deepgram.diarize":      true,
	"deepgram.utterances":   true,
	"deepgram.timeout":      60,

	"server.addr":            ":8080",
	"server.upload_limit_mb": 25,

	"paths.outputs": "outputs",
}

// ValidationError reports a config field with an unusable value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Message)
}

func searchPaths() []string {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return []string{
		filepath.Join("config", env),
		filepath.Join("src", "shared"),
		".",
	}
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("deepgram.api_key", APIKeyEnv); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, p := range searchPaths() {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &nf) {
			return nil, fmt.Errorf("config read: %w", err)
		}
		logging.Log.Debug("no config file found, using defaults and environment")
	}
	return v, nil
}

func decode(v *viper.Viper) (*Root, error) {
	var c Root
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads path, or the first config.yaml found in the search paths when
// path is empty, applying defaults and environment overrides.
func Load(path string) (*Root, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	return decode(v)
}

// Watch loads the config and calls onChange with every valid reload of the
// file. Invalid reloads are logged and skipped.
func Watch(path string, onChange func(*Root)) (*Root, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	c, err := decode(v)
	if err != nil {
		return nil, err
	}
	if v.ConfigFileUsed() == "" {
		return c, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		next, err := decode(v)
		if err != nil {
			logging.Log.WithField("file", e.Name).Warnf("config reload rejected: %v", err)
			return
		}
		logging.Log.WithField("file", e.Name).Info("config reloaded")
		onChange(next)
	})
	v.WatchConfig()
	return c, nil
}

func (c *Root) Validate() error {
	if c.Deepgram.URL == "" {
		return &ValidationError{"deepgram.url", "must not be empty"}
	}
	if c.Deepgram.Model == "" {
		return &ValidationError{"deepgram.model", "must not be empty"}
	}
	if c.Deepgram.Timeout <= 0 {
		return &ValidationError{"deepgram.timeout", "must be positive"}
	}
	if c.Server.Addr == "" {
		return &ValidationError{"server.addr", "must not be empty"}
	}
	if c.Server.UploadLimitMB < 0 {
		return &ValidationError{"server.upload_limit_mb", "must not be negative"}
	}
	if _, err := logging.ParseLevel(c.Pipeline.LogLvl); err != nil {
		return &ValidationError{"pipeline.log_level", err.Error()}
	}
	return nil
}

// Redacted renders the config as YAML with the API key masked.
func (c *Root) Redacted() (string, error) {
	cp := *c
	if cp.Deepgram.APIKey != "" {
		cp.Deepgram.APIKey = "****"
	}
	b, err := yaml.Marshal(cp)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func DurSeconds(n int) time.Duration { return time.Duration(n) * time.Second }
