package config

// Presets are named run configurations layered over DefaultConfig.
var Presets = map[string]*Config{
	"figure8": {
		Preset: "figure8", G: 1.5, TimeScale: 1.0,
	},
	"figure8-slow": {
		Preset: "figure8", G: 1.0, TimeScale: 0.5,
	},
	"random": {
		Preset: "random", G: 1.5, TimeScale: 1.0,
	},
	"hierarchical": {
		Preset: "hierarchical", G: 1.5, TimeScale: 1.0,
	},
	"hierarchical-fast": {
		Preset: "hierarchical", G: 2.0, TimeScale: 2.5,
	},
	"collision": {
		Preset: "collision", G: 1.5, TimeScale: 1.0,
	},
	"collision-heavy": {
		Preset: "collision", G: 5.0, TimeScale: 0.5,
	},
}

// GetPreset returns DefaultConfig with the named preset applied, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Preset = p.Preset
	cfg.G = p.G
	cfg.TimeScale = p.TimeScale
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
