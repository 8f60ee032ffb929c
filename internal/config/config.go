package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hippowm/hippowm/internal/keys"
)

// Config is the fully resolved configuration. The manager reads it once at
// startup.
type Config struct {
	Display  string `yaml:"display"`
	LogLevel string `yaml:"log_level"`

	MaxMain       int     `yaml:"max_main"`
	BorderWidth   int     `yaml:"border_width"`
	Border        Color   `yaml:"border"`
	FocusedBorder Color   `yaml:"focused_border"`
	Ratio         float64 `yaml:"ratio"`
	RatioSteps    float64 `yaml:"ratio_steps"`
	InnerGaps     int     `yaml:"inner_gaps"`
	OuterGap      int     `yaml:"outer_gap"`
	TopGaps       int     `yaml:"top_gaps"`

	Layouts  []string         `yaml:"layouts"`
	Commands []CommandBinding `yaml:"commands"`
	Actions  []ActionBinding  `yaml:"actions"`

	Workspaces      []string `yaml:"workspaces"`
	AutoStart       []string `yaml:"auto_start"`
	AutoStartStrict bool     `yaml:"auto_start_strict"`

	MoveButton   string `yaml:"move_button"`
	ResizeButton string `yaml:"resize_button"`
	MinWidth     int    `yaml:"min_width"`
	MinHeight    int    `yaml:"min_height"`
}

// CommandBinding runs a shell command when Bind is pressed.
type CommandBinding struct {
	Bind    string `yaml:"bind"`
	Command string `yaml:"command"`
}

// ActionBinding runs a named action when Bind is pressed.
type ActionBinding struct {
	Bind   string `yaml:"bind"`
	Action string `yaml:"action"`
}

// Layout names understood by the layout engine.
const (
	LayoutSide          = "side"
	LayoutSideReflected = "side-reflected"
	LayoutBottom        = "bottom"
	LayoutMonocle       = "monocle"
)

var knownLayouts = []string{LayoutSide, LayoutSideReflected, LayoutBottom, LayoutMonocle}

// KnownActions lists the action names accepted in `actions`.
var KnownActions = []string{
	"kill",
	"focusnext",
	"focusprevious",
	"swapup",
	"swapdown",
	"nextlayout",
	"previouslayout",
	"incmain",
	"decmain",
	"expandmain",
	"shrinkmain",
	"floatfocused",
	"togglefullscreen",
	"quit",
}

// Color is a border pixel value. YAML accepts 0xAARRGGBB, #RRGGBB or a
// plain integer.
type Color uint32

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: color must be a scalar", value.Line)
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

func (c Color) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("0x%08x", uint32(c)), nil
}

func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	var (
		v   uint64
		err error
	)
	switch {
	case strings.HasPrefix(s, "#"):
		hex := s[1:]
		if len(hex) != 6 && len(hex) != 8 {
			return 0, fmt.Errorf("invalid color %q: want #RRGGBB or #AARRGGBB", s)
		}
		v, err = strconv.ParseUint(hex, 16, 32)
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		v, err = strconv.ParseUint(s[2:], 16, 32)
	default:
		v, err = strconv.ParseUint(s, 10, 32)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	return Color(v), nil
}

type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:      "info",
		MaxMain:       1,
		BorderWidth:   2,
		Border:        0x00000000,
		FocusedBorder: 0xf00e70ef,
		Ratio:         0.5,
		RatioSteps:    0.05,
		Layouts:       append([]string{}, knownLayouts...),
		Commands: []CommandBinding{
			{Bind: "M-Return", Command: "kitty"},
			{Bind: "M-p", Command: "rofi -show drun"},
		},
		Actions: []ActionBinding{
			{Bind: "M-S-q", Action: "kill"},
			{Bind: "M-l", Action: "focusnext"},
			{Bind: "M-h", Action: "focusprevious"},
			{Bind: "M-S-k", Action: "swapup"},
			{Bind: "M-S-j", Action: "swapdown"},
			{Bind: "M-S-f", Action: "floatfocused"},
			{Bind: "M-f", Action: "togglefullscreen"},
			{Bind: "M-grave", Action: "nextlayout"},
			{Bind: "M-S-grave", Action: "previouslayout"},
			{Bind: "M-i", Action: "incmain"},
			{Bind: "M-d", Action: "decmain"},
			{Bind: "M-equal", Action: "expandmain"},
			{Bind: "M-minus", Action: "shrinkmain"},
			{Bind: "M-S-e", Action: "quit"},
		},
		Workspaces:   []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0"},
		AutoStart:    []string{},
		MoveButton:   "M-1",
		ResizeButton: "M-3",
		MinWidth:     32,
		MinHeight:    32,
	}
}

func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if c.MaxMain < 0 {
		return &ValidationError{Path: "max_main", Err: fmt.Errorf("max_main must be >= 0")}
	}
	if c.BorderWidth < 0 {
		return &ValidationError{Path: "border_width", Err: fmt.Errorf("border_width must be >= 0")}
	}
	if c.Ratio < 0.1 || c.Ratio > 0.9 {
		return &ValidationError{Path: "ratio", Err: fmt.Errorf("ratio must be between 0.1 and 0.9")}
	}
	if c.RatioSteps < 0 || c.RatioSteps >= 0.5 {
		return &ValidationError{Path: "ratio_steps", Err: fmt.Errorf("ratio_steps must be >= 0 and < 0.5")}
	}
	if c.InnerGaps < 0 || c.OuterGap < 0 || c.TopGaps < 0 {
		return &ValidationError{Path: "gaps", Err: fmt.Errorf("inner_gaps, outer_gap and top_gaps must be >= 0")}
	}
	if len(c.Layouts) == 0 {
		return &ValidationError{Path: "layouts", Err: fmt.Errorf("layouts must not be empty")}
	}
	seenLayouts := make(map[string]bool)
	for i, name := range c.Layouts {
		if !contains(knownLayouts, name) {
			return &ValidationError{Path: fmt.Sprintf("layouts[%d]", i), Err: fmt.Errorf("unknown layout %q (want one of: %s)", name, strings.Join(knownLayouts, ", "))}
		}
		if seenLayouts[name] {
			return &ValidationError{Path: fmt.Sprintf("layouts[%d]", i), Err: fmt.Errorf("layout %q listed twice", name)}
		}
		seenLayouts[name] = true
	}

	binds := make(map[string]string)
	claim := func(path, bind string) error {
		b, err := keys.ParseBinding(bind)
		if err != nil {
			return &ValidationError{Path: path, Err: err}
		}
		if prev, ok := binds[b.String()]; ok {
			return &ValidationError{Path: path, Err: fmt.Errorf("binding %q already used by %s", bind, prev)}
		}
		binds[b.String()] = path
		return nil
	}
	for i, cb := range c.Commands {
		path := fmt.Sprintf("commands[%d]", i)
		if strings.TrimSpace(cb.Command) == "" {
			return &ValidationError{Path: path, Err: fmt.Errorf("command must not be empty")}
		}
		if err := claim(path, cb.Bind); err != nil {
			return err
		}
	}
	for i, ab := range c.Actions {
		path := fmt.Sprintf("actions[%d]", i)
		if !contains(KnownActions, strings.ToLower(ab.Action)) {
			return &ValidationError{Path: path, Err: fmt.Errorf("unknown action %q", ab.Action)}
		}
		if err := claim(path, ab.Bind); err != nil {
			return err
		}
	}

	for i, name := range c.Workspaces {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: fmt.Sprintf("workspaces[%d]", i), Err: fmt.Errorf("workspace name must not be empty")}
		}
	}
	for i, cmd := range c.AutoStart {
		if strings.TrimSpace(cmd) == "" {
			return &ValidationError{Path: fmt.Sprintf("auto_start[%d]", i), Err: fmt.Errorf("command must not be empty")}
		}
	}

	move, _, err := keys.ParseButton(c.MoveButton)
	if err != nil {
		return &ValidationError{Path: "move_button", Err: err}
	}
	resize, _, err := keys.ParseButton(c.ResizeButton)
	if err != nil {
		return &ValidationError{Path: "resize_button", Err: err}
	}
	if move.String() == resize.String() {
		return &ValidationError{Path: "resize_button", Err: fmt.Errorf("resize_button must differ from move_button")}
	}
	if c.MinWidth < 1 || c.MinHeight < 1 {
		return &ValidationError{Path: "min_width", Err: fmt.Errorf("min_width and min_height must be >= 1")}
	}
	return nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
