package config

import "sort"

var Presets = map[string]*Config{
	"explicit": {
		Scheme: "explicit", TFinal: 150,
		Rod:      RodConfig{Length: 1, Alpha: 1e-4},
		Grid:     GridConfig{Points: 51, Dt: 0.1},
		Initial:  InitialConfig{Profile: ProfileUniform, Value: 20},
		Boundary: BoundaryConfig{Left: 100, Right: 0},
	},
	"explicit-verify": {
		Scheme: "explicit", TFinal: 500, Verify: true,
		Rod:     RodConfig{Length: 1, Alpha: 1e-4},
		Grid:    GridConfig{Points: 51, Dt: 0.1},
		Initial: InitialConfig{Profile: ProfileSine},
	},
	"implicit": {
		Scheme: "implicit", TFinal: 150,
		Rod:      RodConfig{Length: 1, Alpha: 1e-4},
		Grid:     GridConfig{Points: 51, Dt: 1},
		Initial:  InitialConfig{Profile: ProfileUniform, Value: 20},
		Boundary: BoundaryConfig{Left: 100, Right: 0},
	},
	"implicit-verify": {
		Scheme: "implicit", TFinal: 1000, Verify: true,
		Rod:     RodConfig{Length: 1, Alpha: 1e-4},
		Grid:    GridConfig{Points: 51, Dt: 1},
		Initial: InitialConfig{Profile: ProfileSine},
	},
	"animation": {
		Scheme: "explicit", TFinal: 250, SampleEvery: 10,
		Rod:      RodConfig{Length: 1, Alpha: 1e-4},
		Grid:     GridConfig{Points: 51, Dt: 0.1},
		Initial:  InitialConfig{Profile: ProfileUniform, Value: 20},
		Boundary: BoundaryConfig{Left: 100, Right: 0},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
