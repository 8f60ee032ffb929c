package config

// apply copies every set field onto cfg.
func (r RawConfig) apply(cfg *Config) {
	copyIf(&cfg.Display, r.Display)
	copyIf(&cfg.LogLevel, r.LogLevel)
	copyIf(&cfg.MaxMain, r.MaxMain)
	copyIf(&cfg.BorderWidth, r.BorderWidth)
	copyIf(&cfg.Border, r.Border)
	copyIf(&cfg.FocusedBorder, r.FocusedBorder)
	copyIf(&cfg.Ratio, r.Ratio)
	copyIf(&cfg.RatioSteps, r.RatioSteps)
	copyIf(&cfg.InnerGaps, r.InnerGaps)
	copyIf(&cfg.OuterGap, r.OuterGap)
	copyIf(&cfg.TopGaps, r.TopGaps)
	copyIf(&cfg.Layouts, r.Layouts)
	copyIf(&cfg.Commands, r.Commands)
	copyIf(&cfg.Actions, r.Actions)
	copyIf(&cfg.Workspaces, r.Workspaces)
	copyIf(&cfg.AutoStart, r.AutoStart)
	copyIf(&cfg.AutoStartStrict, r.AutoStartStrict)
	copyIf(&cfg.MoveButton, r.MoveButton)
	copyIf(&cfg.ResizeButton, r.ResizeButton)
	copyIf(&cfg.MinWidth, r.MinWidth)
	copyIf(&cfg.MinHeight, r.MinHeight)
}

func copyIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// BuildEffectiveConfig applies raw on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()
	raw.apply(cfg)
	if cfg.AutoStart == nil {
		cfg.AutoStart = []string{}
	}
	return cfg
}
