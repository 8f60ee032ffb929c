package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "colors.yaml"
//	  - "~/.config/hippowm/keys.yaml"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// RawConfig mirrors one YAML file. Nil fields were not set by that file.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Display  *string `yaml:"display"`
	LogLevel *string `yaml:"log_level"`

	MaxMain       *int     `yaml:"max_main"`
	BorderWidth   *int     `yaml:"border_width"`
	Border        *Color   `yaml:"border"`
	FocusedBorder *Color   `yaml:"focused_border"`
	Ratio         *float64 `yaml:"ratio"`
	RatioSteps    *float64 `yaml:"ratio_steps"`
	InnerGaps     *int     `yaml:"inner_gaps"`
	OuterGap      *int     `yaml:"outer_gap"`
	TopGaps       *int     `yaml:"top_gaps"`

	Layouts  *[]string         `yaml:"layouts"`
	Commands *[]CommandBinding `yaml:"commands"`
	Actions  *[]ActionBinding  `yaml:"actions"`

	Workspaces      *[]string `yaml:"workspaces"`
	AutoStart       *[]string `yaml:"auto_start"`
	AutoStartStrict *bool     `yaml:"auto_start_strict"`

	MoveButton   *string `yaml:"move_button"`
	ResizeButton *string `yaml:"resize_button"`
	MinWidth     *int    `yaml:"min_width"`
	MinHeight    *int    `yaml:"min_height"`
}

// merge overlays o on r; fields set in o win. Lists are replaced, not
// appended.
func (r RawConfig) merge(o RawConfig) RawConfig {
	out := r
	out.Include = nil
	setIf(&out.Display, o.Display)
	setIf(&out.LogLevel, o.LogLevel)
	setIf(&out.MaxMain, o.MaxMain)
	setIf(&out.BorderWidth, o.BorderWidth)
	setIf(&out.Border, o.Border)
	setIf(&out.FocusedBorder, o.FocusedBorder)
	setIf(&out.Ratio, o.Ratio)
	setIf(&out.RatioSteps, o.RatioSteps)
	setIf(&out.InnerGaps, o.InnerGaps)
	setIf(&out.OuterGap, o.OuterGap)
	setIf(&out.TopGaps, o.TopGaps)
	setIf(&out.Layouts, o.Layouts)
	setIf(&out.Commands, o.Commands)
	setIf(&out.Actions, o.Actions)
	setIf(&out.Workspaces, o.Workspaces)
	setIf(&out.AutoStart, o.AutoStart)
	setIf(&out.AutoStartStrict, o.AutoStartStrict)
	setIf(&out.MoveButton, o.MoveButton)
	setIf(&out.ResizeButton, o.ResizeButton)
	setIf(&out.MinWidth, o.MinWidth)
	setIf(&out.MinHeight, o.MinHeight)
	return out
}

func setIf[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}
