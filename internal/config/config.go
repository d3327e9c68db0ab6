package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/heatsim/internal/analytic"
	"github.com/san-kum/heatsim/internal/experiment"
	"github.com/san-kum/heatsim/internal/rod"
)

const (
	DefaultLength  = 1.0
	DefaultAlpha   = 1e-4
	DefaultTFinal  = 150.0
	DefaultPoints  = 51
	DefaultDt      = 0.1
	DefaultInitial = 20.0
	DefaultLeft    = 100.0
	DefaultRight   = 0.0
)

const (
	ProfileUniform = "uniform"
	ProfileSine    = "sine"
)

type Config struct {
	Scheme      string         `yaml:"scheme"`
	Rod         RodConfig      `yaml:"rod"`
	Grid        GridConfig     `yaml:"grid"`
	TFinal      float64        `yaml:"t_final"`
	Initial     InitialConfig  `yaml:"initial"`
	Boundary    BoundaryConfig `yaml:"boundary"`
	SampleEvery int            `yaml:"sample_every"`
	Verify      bool           `yaml:"verify"`
	Strict      bool           `yaml:"strict"`
}

type RodConfig struct {
	Length float64 `yaml:"length"`
	Alpha  float64 `yaml:"alpha"`
}

type GridConfig struct {
	Points int     `yaml:"nx"`
	Dt     float64 `yaml:"dt"`
}

type InitialConfig struct {
	Profile string  `yaml:"profile"`
	Value   float64 `yaml:"value"`
}

type BoundaryConfig struct {
	Left  float64 `yaml:"left"`
	Right float64 `yaml:"right"`
}

func DefaultConfig() *Config {
	return &Config{
		Scheme: "explicit",
		Rod:    RodConfig{Length: DefaultLength, Alpha: DefaultAlpha},
		Grid:   GridConfig{Points: DefaultPoints, Dt: DefaultDt},
		TFinal: DefaultTFinal,
		Initial: InitialConfig{
			Profile: ProfileUniform,
			Value:   DefaultInitial,
		},
		Boundary: BoundaryConfig{Left: DefaultLeft, Right: DefaultRight},
	}
}

// Load reads a YAML or INI file, chosen by extension, over the defaults.
func Load(path string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini":
		return loadINI(path)
	default:
		return loadYAML(path)
	}
}

func loadYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func loadINI(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	d := DefaultConfig()
	run := file.Section("run")
	cfg := &Config{
		Scheme: run.Key("scheme").MustString(d.Scheme),
		Rod: RodConfig{
			Length: file.Section("rod").Key("length").MustFloat64(d.Rod.Length),
			Alpha:  file.Section("rod").Key("alpha").MustFloat64(d.Rod.Alpha),
		},
		Grid: GridConfig{
			Points: file.Section("grid").Key("nx").MustInt(d.Grid.Points),
			Dt:     file.Section("grid").Key("dt").MustFloat64(d.Grid.Dt),
		},
		TFinal: run.Key("t_final").MustFloat64(d.TFinal),
		Initial: InitialConfig{
			Profile: file.Section("initial").Key("profile").MustString(d.Initial.Profile),
			Value:   file.Section("initial").Key("value").MustFloat64(d.Initial.Value),
		},
		Boundary: BoundaryConfig{
			Left:  file.Section("boundary").Key("left").MustFloat64(d.Boundary.Left),
			Right: file.Section("boundary").Key("right").MustFloat64(d.Boundary.Right),
		},
		SampleEvery: run.Key("sample_every").MustInt(d.SampleEvery),
		Verify:      run.Key("verify").MustBool(d.Verify),
		Strict:      run.Key("strict").MustBool(d.Strict),
	}
	return cfg, nil
}

// Save writes YAML, or INI when path ends in .ini.
func Save(path string, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".ini") {
		return saveINI(path, cfg)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func saveINI(path string, cfg *Config) error {
	file := ini.Empty()
	set := func(section, key, value string) {
		file.Section(section).Key(key).SetValue(value)
	}
	g := func(v float64) string { return fmt.Sprintf("%g", v) }

	set("run", "scheme", cfg.Scheme)
	set("run", "t_final", g(cfg.TFinal))
	set("run", "sample_every", fmt.Sprint(cfg.SampleEvery))
	set("run", "verify", fmt.Sprint(cfg.Verify))
	set("run", "strict", fmt.Sprint(cfg.Strict))
	set("rod", "length", g(cfg.Rod.Length))
	set("rod", "alpha", g(cfg.Rod.Alpha))
	set("grid", "nx", fmt.Sprint(cfg.Grid.Points))
	set("grid", "dt", g(cfg.Grid.Dt))
	set("initial", "profile", cfg.Initial.Profile)
	set("initial", "value", g(cfg.Initial.Value))
	set("boundary", "left", g(cfg.Boundary.Left))
	set("boundary", "right", g(cfg.Boundary.Right))

	return file.SaveTo(path)
}

// Params converts the file layout into run parameters.
func (c *Config) Params() (rod.Params, error) {
	p := rod.Params{
		Length:   c.Rod.Length,
		Alpha:    c.Rod.Alpha,
		TFinal:   c.TFinal,
		Points:   c.Grid.Points,
		Dt:       c.Grid.Dt,
		Boundary: rod.Boundary{Left: c.Boundary.Left, Right: c.Boundary.Right},
	}
	switch c.Initial.Profile {
	case ProfileUniform, "":
		p.Initial = rod.Uniform(c.Initial.Value)
	case ProfileSine:
		p.Initial = analytic.Sine(c.Rod.Length)
	default:
		return rod.Params{}, &rod.ConfigError{Field: "initial.profile", Reason: fmt.Sprintf("unknown profile %q", c.Initial.Profile)}
	}
	return p, nil
}

func (c *Config) Experiment(name string) (experiment.Config, error) {
	p, err := c.Params()
	if err != nil {
		return experiment.Config{}, err
	}
	if c.Verify && c.Initial.Profile != ProfileSine {
		return experiment.Config{}, &rod.ConfigError{Field: "verify", Reason: "requires the sine initial profile"}
	}
	return experiment.Config{
		Name:        name,
		Scheme:      c.Scheme,
		Params:      p,
		SampleEvery: c.SampleEvery,
		Verify:      c.Verify,
		Strict:      c.Strict,
	}, nil
}

// Clone returns a copy safe to modify without touching shared presets.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
