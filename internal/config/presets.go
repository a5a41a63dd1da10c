package config

import "sort"

// Presets are named variations of DefaultConfig.
var Presets = map[string]func(*Config){
	// classic is the reference run and matches DefaultConfig.
	"classic": func(*Config) {},
	"small": func(c *Config) {
		c.InitialAngle = 10
	},
	"undamped": func(c *Config) {
		c.Damping = 0
	},
	"overdamped": func(c *Config) {
		c.Damping = 8
		c.TotalDuration = 10
	},
	"oscillator": func(c *Config) {
		c.System = "oscillator"
		c.InitialPosition = 1
		c.InitialVelocity = 0
		c.Frequency = 1
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
