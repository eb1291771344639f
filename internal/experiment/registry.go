package experiment

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/seed"
)

// Layout populates a freshly allocated system.
type Layout func(s *particle.System, rng *rand.Rand)

type Registry struct {
	layouts map[string]Layout
}

func NewRegistry() *Registry {
	r := &Registry{layouts: make(map[string]Layout)}

	r.layouts[config.LayoutUniform] = seed.Uniform
	r.layouts[config.LayoutLattice] = func(s *particle.System, _ *rand.Rand) { seed.Lattice(s) }

	return r
}

func (r *Registry) Register(name string, l Layout) { r.layouts[name] = l }

func (r *Registry) GetLayout(name string) (Layout, error) {
	l, ok := r.layouts[name]
	if !ok {
		return nil, fmt.Errorf("unknown layout: %s", name)
	}
	return l, nil
}

func (r *Registry) ListLayouts() []string {
	names := make([]string, 0, len(r.layouts))
	for name := range r.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
