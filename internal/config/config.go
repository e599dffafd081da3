package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/figurine/internal/engine/constraint"
	"github.com/dshills/figurine/internal/engine/keyboard"
	"github.com/dshills/figurine/internal/input/key"
	"github.com/dshills/figurine/internal/logging"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Duration is a time.Duration written as a string such as "100ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML and YAML.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// SetValue implements cleanenv.Setter for environment overrides.
func (d *Duration) SetValue(s string) error {
	return d.UnmarshalText([]byte(s))
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the complete configuration.
type Config struct {
	Engine   EngineConfig   `toml:"engine" yaml:"engine"`
	Keys     KeysConfig     `toml:"keys" yaml:"keys"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
	Terminal TerminalConfig `toml:"terminal" yaml:"terminal"`
	Source   SourceConfig   `toml:"source" yaml:"source"`
}

// EngineConfig holds the interaction engine settings.
type EngineConfig struct {
	// Padding is subtracted from each side of the container.
	Padding float64 `toml:"padding" yaml:"padding" env:"FIGURINE_ENGINE_PADDING"`
	// ResizeDebounce delays content area recomputation.
	ResizeDebounce Duration `toml:"resize_debounce" yaml:"resize_debounce" env:"FIGURINE_ENGINE_RESIZE_DEBOUNCE"`
	// FlowWidthFraction caps flow objects relative to the content width.
	FlowWidthFraction float64 `toml:"flow_width_fraction" yaml:"flow_width_fraction" env:"FIGURINE_ENGINE_FLOW_WIDTH_FRACTION"`
}

// KeysConfig holds the keyboard settings.
type KeysConfig struct {
	Precision  string  `toml:"precision" yaml:"precision" env:"FIGURINE_KEYS_PRECISION"`
	Fine       string  `toml:"fine" yaml:"fine" env:"FIGURINE_KEYS_FINE"`
	CoarseStep float64 `toml:"coarse_step" yaml:"coarse_step" env:"FIGURINE_KEYS_COARSE_STEP"`
	FineStep   float64 `toml:"fine_step" yaml:"fine_step" env:"FIGURINE_KEYS_FINE_STEP"`
	// Bindings overrides the default bindings per command name. Commands
	// not listed keep their defaults.
	Bindings map[string][]string `toml:"bindings" yaml:"bindings"`
}

// LoggingConfig holds the logging settings.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level" env:"FIGURINE_LOG_LEVEL"`
	Format string `toml:"format" yaml:"format" env:"FIGURINE_LOG_FORMAT"`
	// File receives log lines while the terminal UI owns the screen.
	File string `toml:"file" yaml:"file" env:"FIGURINE_LOG_FILE"`
}

// TerminalConfig holds the terminal renderer settings.
type TerminalConfig struct {
	Background string `toml:"background" yaml:"background" env:"FIGURINE_TERMINAL_BACKGROUND"`
	Foreground string `toml:"foreground" yaml:"foreground" env:"FIGURINE_TERMINAL_FOREGROUND"`
	Object     string `toml:"object" yaml:"object" env:"FIGURINE_TERMINAL_OBJECT"`
	Selected   string `toml:"selected" yaml:"selected" env:"FIGURINE_TERMINAL_SELECTED"`
	// CellWidth and CellHeight are the content units covered by one
	// terminal cell.
	CellWidth  float64 `toml:"cell_width" yaml:"cell_width" env:"FIGURINE_TERMINAL_CELL_WIDTH"`
	CellHeight float64 `toml:"cell_height" yaml:"cell_height" env:"FIGURINE_TERMINAL_CELL_HEIGHT"`
	Mouse      bool    `toml:"mouse" yaml:"mouse" env:"FIGURINE_TERMINAL_MOUSE"`
}

// SourceConfig holds the image directory settings.
type SourceConfig struct {
	Dir      string   `toml:"dir" yaml:"dir" env:"FIGURINE_SOURCE_DIR"`
	Watch    bool     `toml:"watch" yaml:"watch" env:"FIGURINE_SOURCE_WATCH"`
	Debounce Duration `toml:"debounce" yaml:"debounce" env:"FIGURINE_SOURCE_DEBOUNCE"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			Padding:           20,
			ResizeDebounce:    Duration(100 * time.Millisecond),
			FlowWidthFraction: 1,
		},
		Keys: KeysConfig{
			Precision:  "Ctrl",
			Fine:       "Shift",
			CoarseStep: keyboard.DefaultCoarseStep,
			FineStep:   keyboard.DefaultFineStep,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Terminal: TerminalConfig{
			Background: "#1e1e2e",
			Foreground: "#cdd6f4",
			Object:     "#89b4fa",
			Selected:   "#f9e2af",
			CellWidth:  8,
			CellHeight: 16,
			Mouse:      true,
		},
		Source: SourceConfig{
			Dir:      ".",
			Watch:    true,
			Debounce: Duration(50 * time.Millisecond),
		},
	}
}

// KeyboardConfig converts the keys section. Configured bindings replace
// the defaults command by command.
func (c Config) KeyboardConfig() (keyboard.Config, error) {
	cfg := keyboard.DefaultConfig()
	cfg.CoarseStep = c.Keys.CoarseStep
	cfg.FineStep = c.Keys.FineStep

	var err error
	if cfg.Precision, err = parseModifier(c.Keys.Precision); err != nil {
		return cfg, fmt.Errorf("keys.precision: %w", err)
	}
	if cfg.Fine, err = parseModifier(c.Keys.Fine); err != nil {
		return cfg, fmt.Errorf("keys.fine: %w", err)
	}

	overrides, err := keyboard.BindingsFromNames(c.Keys.Bindings)
	if err != nil {
		return cfg, fmt.Errorf("keys.bindings: %w", err)
	}
	for cmd, specs := range overrides {
		cfg.Bindings[cmd] = specs
	}
	return cfg, nil
}

func parseModifier(s string) (key.Modifier, error) {
	m := key.ParseModifiers(s)
	if m == key.ModNone {
		return m, fmt.Errorf("unknown modifier %q", s)
	}
	return m, nil
}

// Validate checks every section. The returned error wraps ErrInvalid and
// lists every problem found.
func (c Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Engine.Padding < 0 {
		add("engine.padding must not be negative")
	}
	if c.Engine.ResizeDebounce < 0 {
		add("engine.resize_debounce must not be negative")
	}
	if f := c.Engine.FlowWidthFraction; f <= 0 || f > 1 {
		add("engine.flow_width_fraction must be in (0,1], got %g", f)
	}

	if c.Keys.CoarseStep <= 0 {
		add("keys.coarse_step must be positive")
	}
	if c.Keys.FineStep <= 0 {
		add("keys.fine_step must be positive")
	}
	if kc, err := c.KeyboardConfig(); err != nil {
		add("%v", err)
	} else if _, err := keyboard.New(constraint.New(), kc); err != nil {
		add("keys.bindings: %v", err)
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		add("logging.level: %v", err)
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		add("logging.format: %v", err)
	}

	for name, hex := range map[string]string{
		"background": c.Terminal.Background,
		"foreground": c.Terminal.Foreground,
		"object":     c.Terminal.Object,
		"selected":   c.Terminal.Selected,
	} {
		if _, err := colorful.Hex(hex); err != nil {
			add("terminal.%s: invalid colour %q", name, hex)
		}
	}
	if c.Terminal.CellWidth <= 0 || c.Terminal.CellHeight <= 0 {
		add("terminal cell size must be positive")
	}

	if c.Source.Debounce < 0 {
		add("source.debounce must not be negative")
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
}
