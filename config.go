package fquery

import (
	"io"
	"strings"
	"time"

	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of a Page. The zero value is not usable;
// start from DefaultConfig.
//
// In YAML, a configuration looks like this:
//
//    tracing:
//      key: fquery
//      level: info
//    animation:
//      default-duration: 400ms
//      properties: [opacity, height, width]
//    selectors:
//      cache-size: 256
//
type Config struct {
	Tracing   TracingConfig   `yaml:"tracing"`
	Animation AnimationConfig `yaml:"animation"`
	Selectors SelectorConfig  `yaml:"selectors"`
}

// TracingConfig selects the tracer of a page.
type TracingConfig struct {
	Key   string `yaml:"key,omitempty"`
	Level string `yaml:"level,omitempty"` // error, info or debug; empty keeps the tracer's level
}

// AnimationConfig controls animated class changes.
type AnimationConfig struct {
	DefaultDuration Duration `yaml:"default-duration,omitempty"`
	// Properties is the set of style properties compared before and after
	// a class change. Shorthands like "margin" are expanded.
	Properties []string `yaml:"properties,omitempty"`
}

// SelectorConfig controls the compiled-selector cache of a page.
type SelectorConfig struct {
	CacheSize int `yaml:"cache-size,omitempty"`
}

// Duration is a time.Duration which reads and writes as a Go duration
// string ("400ms") in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return errors.Wrapf(err, "line %d: invalid duration", value.Line)
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// DefaultAnimatedProperties are the style properties compared for animated
// class changes, if not configured otherwise.
var DefaultAnimatedProperties = []string{
	"opacity", "visibility", "display",
	"width", "height", "margin", "padding",
	"color", "background-color", "transform",
	"top", "left", "right", "bottom",
}

// DefaultConfig returns the configuration used if a page is created without
// WithConfig.
func DefaultConfig() *Config {
	return &Config{
		Tracing: TracingConfig{Key: "fquery"},
		Animation: AnimationConfig{
			DefaultDuration: Duration(400 * time.Millisecond),
			Properties:      append([]string(nil), DefaultAnimatedProperties...),
		},
		Selectors: SelectorConfig{CacheSize: 256},
	}
}

// LoadConfig reads a YAML configuration. Settings missing from the input
// keep their default values.
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "cannot parse fquery configuration")
	}
	if cfg.Selectors.CacheSize < 0 {
		return nil, errors.Errorf("selectors.cache-size must not be negative, is %d",
			cfg.Selectors.CacheSize)
	}
	if _, ok := traceLevel(cfg.Tracing.Level); !ok {
		return nil, errors.Errorf("unknown tracing level %q", cfg.Tracing.Level)
	}
	return cfg, nil
}

// tracer creates the tracer for the configured key and level.
func (cfg *Config) tracer() tracing.Trace {
	key := cfg.Tracing.Key
	if key == "" {
		key = "fquery"
	}
	t := tracing.Select(key)
	if level, ok := traceLevel(cfg.Tracing.Level); ok && strings.TrimSpace(cfg.Tracing.Level) != "" {
		t.SetTraceLevel(level)
	}
	return t
}

func traceLevel(s string) (tracing.TraceLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "error":
		return tracing.LevelError, true
	case "info":
		return tracing.LevelInfo, true
	case "debug":
		return tracing.LevelDebug, true
	}
	return tracing.LevelError, false
}
