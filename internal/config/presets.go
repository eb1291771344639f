package config

import (
	"sort"

	"github.com/san-kum/partsim/internal/dynamo"
)

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"sparse": {
		Count: 20, RadiusMin: 0.015, RadiusMax: 0.045, Speed: 0.009, Steps: 2000,
		Collider: "serial", RecordEvery: 1, Layout: LayoutUniform, Bounds: dynamo.UnitBox(),
	},
	"dense": {
		Count: 400, RadiusMin: 0.008, RadiusMax: 0.012, Speed: 0.005, Steps: 3000,
		Collider: "parallel", RecordEvery: 5, Layout: LayoutUniform, Bounds: dynamo.UnitBox(),
	},
	"billiards": {
		Count: 16, RadiusMin: 0.03, RadiusMax: 0.03, Speed: 0.02, Steps: 1500,
		Collider: "serial", RecordEvery: 1, Layout: LayoutLattice,
		Bounds: dynamo.Bounds{XMin: 0, XMax: 2, YMin: 0, YMax: 1},
	},
	"gas": {
		Count: 1000, RadiusMin: 0.003, RadiusMax: 0.003, Speed: 0.01, Steps: 5000,
		Collider: "parallel", RecordEvery: 10, Layout: LayoutLattice, Bounds: dynamo.UnitBox(),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *p
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
