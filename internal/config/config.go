package config

import (
	"fmt"
	"os"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/seed"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCount       = 50
	DefaultRadiusMin   = 0.035
	DefaultRadiusMax   = 0.085
	DefaultSpeed       = 0.009
	DefaultSteps       = 2000
	DefaultRecordEvery = 1
	DefaultCollider    = "serial"
)

type Config struct {
	Count       int           `yaml:"count"`
	RadiusMin   float64       `yaml:"radius_min"`
	RadiusMax   float64       `yaml:"radius_max"`
	Speed       float64       `yaml:"speed"`
	Dt          float64       `yaml:"dt,omitempty"`
	Steps       int           `yaml:"steps"`
	Seed        int64         `yaml:"seed"`
	Collider    string        `yaml:"collider"`
	Workers     int           `yaml:"workers,omitempty"`
	RecordEvery int           `yaml:"record_every"`
	Layout      string        `yaml:"layout"`
	Bounds      dynamo.Bounds `yaml:"bounds"`
}

func DefaultConfig() *Config {
	return &Config{
		Count:       DefaultCount,
		RadiusMin:   DefaultRadiusMin,
		RadiusMax:   DefaultRadiusMax,
		Speed:       DefaultSpeed,
		Steps:       DefaultSteps,
		Collider:    DefaultCollider,
		RecordEvery: DefaultRecordEvery,
		Layout:      LayoutUniform,
		Bounds:      dynamo.UnitBox(),
	}
}

// Initial layouts understood by the run command.
const (
	LayoutUniform = "uniform"
	LayoutLattice = "lattice"
)

func Load(path string) (*Config, error) {
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

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the file-level settings into particle system parameters.
func (c *Config) Params() particle.Params {
	return particle.Params{
		Count:     c.Count,
		RadiusMin: c.RadiusMin,
		RadiusMax: c.RadiusMax,
		Speed:     c.Speed,
		Bounds:    c.Bounds,
		Dt:        c.Dt,
	}
}

// Validate checks everything particle.New checks plus the run settings.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Steps <= 0 {
		return dynamo.Invalidf("steps must be positive, got %d", c.Steps)
	}
	if c.RecordEvery < 0 {
		return dynamo.Invalidf("record_every must not be negative, got %d", c.RecordEvery)
	}
	if c.Layout != LayoutUniform && c.Layout != LayoutLattice {
		return dynamo.Invalidf("unknown layout %q", c.Layout)
	}
	if c.Layout == LayoutLattice {
		if cell := seed.LatticeCell(c.Count, c.Bounds); 2*c.RadiusMin > cell {
			return dynamo.Invalidf("lattice of %d particles leaves cells of %g, too small for radius %g", c.Count, cell, c.RadiusMin)
		}
	}
	return nil
}
