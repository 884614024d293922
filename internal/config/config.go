package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/satzlich/swift-rohan-sub002/internal/config/loader"
	"github.com/satzlich/swift-rohan-sub002/internal/logging"
)

// DefaultEnvPrefix is the prefix of environment variables read by Load.
const DefaultEnvPrefix = "ROHAN_"

// Config holds every rohan setting.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Engine  EngineConfig  `yaml:"engine"`
	Script  ScriptConfig  `yaml:"script"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// EngineConfig configures document engines.
type EngineConfig struct {
	// ParagraphKind is the block a fresh document starts with:
	// "paragraph" or "heading".
	ParagraphKind string `yaml:"paragraphKind"`
	// CheckInvariants runs the full tree check after every edit.
	CheckInvariants bool `yaml:"checkInvariants"`
}

// ScriptConfig bounds script execution.
type ScriptConfig struct {
	InstructionLimit int           `yaml:"instructionLimit"`
	Timeout          time.Duration `yaml:"timeout"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Engine:  EngineConfig{ParagraphKind: "paragraph"},
		Script: ScriptConfig{
			InstructionLimit: 10_000_000,
			Timeout:          5 * time.Second,
		},
	}
}

// LoggingSettings converts the logging section for logging.New.
func (c *Config) LoggingSettings() logging.Config {
	return logging.Config{Level: c.Logging.Level, Format: c.Logging.Format, Output: os.Stderr}
}

// Option configures Load.
type Option func(*options)

type options struct {
	fs        loader.FileSystem
	envPrefix string
	useEnv    bool
	environ   func() []string
}

// WithFS reads the configuration file from fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithEnviron reads environment variables from environ instead of the process.
func WithEnviron(environ func() []string) Option {
	return func(o *options) {
		o.environ = environ
	}
}

// WithoutEnv disables the environment layer.
func WithoutEnv() Option {
	return func(o *options) {
		o.useEnv = false
	}
}

// Load builds a Config from defaults, the file at path and the environment.
// An empty path skips the file layer.
func Load(path string, opts ...Option) (*Config, error) {
	o := options{
		fs:        loader.DefaultFS(),
		envPrefix: DefaultEnvPrefix,
		useEnv:    true,
		environ:   os.Environ,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var merged map[string]any
	if path != "" {
		if _, err := o.fs.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return nil, fmt.Errorf("config: %w", err)
		}
		l, err := loader.ForPath(o.fs, path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		data, err := l.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, data)
	}
	if o.useEnv {
		data, err := loader.NewEnvLoaderWithEnviron(o.envPrefix, o.environ).Load()
		if err != nil {
			return nil, fmt.Errorf("config: environment: %w", err)
		}
		merged = loader.DeepMerge(merged, data)
	}

	cfg := Default()
	if err := cfg.apply(merged); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setting binds a dotted path to the field it decodes into.
type setting struct {
	path string
	dst  any
}

func (c *Config) settings() []setting {
	return []setting{
		{"logging.level", &c.Logging.Level},
		{"logging.format", &c.Logging.Format},
		{"engine.paragraphKind", &c.Engine.ParagraphKind},
		{"engine.checkInvariants", &c.Engine.CheckInvariants},
		{"script.instructionLimit", &c.Script.InstructionLimit},
		{"script.timeout", &c.Script.Timeout},
	}
}

// apply decodes the values present in data over c. Each value goes
// through a YAML round trip so that loose source types (int64 from TOML,
// time.Duration from the environment) land in the typed field.
func (c *Config) apply(data map[string]any) error {
	for _, s := range c.settings() {
		v, ok := lookup(data, s.path)
		if !ok {
			continue
		}
		raw, err := yaml.Marshal(v)
		if err != nil {
			return &ValidationError{Field: s.path, Value: v, Message: err.Error(), Err: err}
		}
		if err := yaml.Unmarshal(raw, s.dst); err != nil {
			return &ValidationError{Field: s.path, Value: v, Message: "wrong type", Err: err}
		}
	}
	return nil
}

func lookup(data map[string]any, path string) (any, bool) {
	current := data
	for {
		key, rest, nested := cutPath(path)
		v, ok := current[key]
		if !ok {
			return nil, false
		}
		if !nested {
			return v, true
		}
		if current, ok = v.(map[string]any); !ok {
			return nil, false
		}
		path = rest
	}
}

func cutPath(path string) (string, string, bool) {
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			return path[:i], path[i+1:], true
		}
	}
	return path, "", false
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return &ValidationError{Field: "logging.level", Value: c.Logging.Level, Message: "unknown level", Err: err}
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return &ValidationError{Field: "logging.format", Value: c.Logging.Format, Message: `must be "console" or "json"`}
	}
	switch c.Engine.ParagraphKind {
	case "paragraph", "heading":
	default:
		return &ValidationError{Field: "engine.paragraphKind", Value: c.Engine.ParagraphKind, Message: `must be "paragraph" or "heading"`}
	}
	if c.Script.InstructionLimit <= 0 {
		return &ValidationError{Field: "script.instructionLimit", Value: c.Script.InstructionLimit, Message: "must be positive"}
	}
	if c.Script.Timeout <= 0 {
		return &ValidationError{Field: "script.timeout", Value: c.Script.Timeout, Message: "must be positive"}
	}
	return nil
}
