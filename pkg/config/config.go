// Package config loads tool and machine presets from YAML.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chazu/kerf/pkg/state"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Tool is a cutter preset.
type Tool struct {
	Name          string  `yaml:"name"`
	CutDiameter   float64 `yaml:"cut_diameter"`
	ShankDiameter float64 `yaml:"shank_diameter"`
}

// Machine holds the starting machine parameters of a job.
type Machine struct {
	Tool                 string  `yaml:"tool"`
	ZSafe                float64 `yaml:"z_safe"`
	SpindleSpeed         int     `yaml:"spindle_speed"`
	MillingFeedRate      float64 `yaml:"milling_feed_rate"`
	DrillingFeedRate     float64 `yaml:"drilling_feed_rate"`
	DepthPerMillingPass  float64 `yaml:"depth_per_milling_pass"`
	DepthPerDrillingPass float64 `yaml:"depth_per_drilling_pass"`
	MillingOverlap       float64 `yaml:"milling_overlap"`
	ZMargin              float64 `yaml:"z_margin"`
}

// Stock is the size of the raw block. Its top face is at z=0 and its
// lower-left corner at the XY origin.
type Stock struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Config is a complete preset file.
type Config struct {
	Tools   []Tool  `yaml:"tools"`
	Machine Machine `yaml:"machine"`
	Stock   Stock   `yaml:"stock"`
}

// Default returns the built-in presets.
func Default() *Config {
	var c Config
	if err := decode(defaultYAML, &c); err != nil {
		panic(fmt.Sprintf("config: built-in presets: %v", err))
	}
	return &c
}

// Parse decodes a preset file. Keys the file leaves out keep their
// built-in values; a tools list replaces the built-in one.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := decode(data, c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads and parses the preset file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func decode(data []byte, c *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Tool looks up a tool preset by name.
func (c *Config) Tool(name string) (state.Tool, bool) {
	for _, t := range c.Tools {
		if t.Name == name {
			return state.Tool{Name: t.Name, CutDiameter: t.CutDiameter, ShankDiameter: t.ShankDiameter}, true
		}
	}
	return state.Tool{}, false
}

// Validate reports every invalid value.
func (c *Config) Validate() error {
	var errs []error
	seen := make(map[string]bool)
	for i, t := range c.Tools {
		switch {
		case t.Name == "":
			errs = append(errs, fmt.Errorf("tools[%d]: missing name", i))
		case seen[t.Name]:
			errs = append(errs, fmt.Errorf("tools[%d]: duplicate name %q", i, t.Name))
		}
		seen[t.Name] = true
		if t.CutDiameter <= 0 {
			errs = append(errs, fmt.Errorf("tool %q: cut_diameter must be positive", t.Name))
		}
		if t.ShankDiameter < 0 {
			errs = append(errs, fmt.Errorf("tool %q: shank_diameter must not be negative", t.Name))
		}
	}

	m := c.Machine
	if _, ok := c.Tool(m.Tool); !ok {
		errs = append(errs, fmt.Errorf("machine: unknown tool %q", m.Tool))
	}
	if m.SpindleSpeed <= 0 {
		errs = append(errs, errors.New("machine: spindle_speed must be positive"))
	}
	if m.MillingFeedRate <= 0 {
		errs = append(errs, errors.New("machine: milling_feed_rate must be positive"))
	}
	if m.DrillingFeedRate <= 0 {
		errs = append(errs, errors.New("machine: drilling_feed_rate must be positive"))
	}
	if m.DepthPerMillingPass < 0 || m.DepthPerDrillingPass < 0 {
		errs = append(errs, errors.New("machine: depth per pass must not be negative"))
	}
	if m.MillingOverlap < 0 || m.MillingOverlap >= 1 {
		errs = append(errs, errors.New("machine: milling_overlap must be in [0, 1)"))
	}
	if m.ZMargin < 0 {
		errs = append(errs, errors.New("machine: z_margin must not be negative"))
	}
	if c.Stock.X <= 0 || c.Stock.Y <= 0 || c.Stock.Z <= 0 {
		errs = append(errs, errors.New("stock: every dimension must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// State builds the starting machine state described by c.
func (c *Config) State() (*state.CncState, error) {
	tool, ok := c.Tool(c.Machine.Tool)
	if !ok {
		return nil, fmt.Errorf("config: unknown tool %q", c.Machine.Tool)
	}
	s := state.New()
	s.Tool = tool
	s.ZSafe = c.Machine.ZSafe
	s.SpindleSpeed = c.Machine.SpindleSpeed
	s.MillingFeedRate = c.Machine.MillingFeedRate
	s.DrillingFeedRate = c.Machine.DrillingFeedRate
	s.DepthPerMillingPass = c.Machine.DepthPerMillingPass
	s.DepthPerDrillingPass = c.Machine.DepthPerDrillingPass
	s.MillingOverlap = c.Machine.MillingOverlap
	s.ZMargin = c.Machine.ZMargin
	return s, nil
}
