package dynamo

import (
	"fmt"
	"math"
)

type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) Norm2() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vec2) Norm() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Bounds is an axis-aligned box. A usable box has XMin < XMax and YMin < YMax.
type Bounds struct {
	XMin float64 `yaml:"x_min" json:"x_min"`
	XMax float64 `yaml:"x_max" json:"x_max"`
	YMin float64 `yaml:"y_min" json:"y_min"`
	YMax float64 `yaml:"y_max" json:"y_max"`
}

// UnitBox returns the [0,1]x[0,1] box.
func UnitBox() Bounds {
	return Bounds{XMin: 0, XMax: 1, YMin: 0, YMax: 1}
}

func (b Bounds) Width() float64  { return b.XMax - b.XMin }
func (b Bounds) Height() float64 { return b.YMax - b.YMin }

func (b Bounds) Validate() error {
	for _, v := range []float64{b.XMin, b.XMax, b.YMin, b.YMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Invalidf("bounds must be finite, got %+v", b)
		}
	}
	if b.XMin >= b.XMax {
		return Invalidf("x_min (%g) must be less than x_max (%g)", b.XMin, b.XMax)
	}
	if b.YMin >= b.YMax {
		return Invalidf("y_min (%g) must be less than y_max (%g)", b.YMin, b.YMax)
	}
	return nil
}

// containTol absorbs the rounding of a clamp (wall - r) + r, relative to the
// box size.
const containTol = 1e-9

// ContainsDisk reports whether a disk of radius r centered at p lies fully
// inside the box. Touching a wall counts as inside.
func (b Bounds) ContainsDisk(p Vec2, r float64) bool {
	eps := containTol * math.Max(b.Width(), b.Height())
	return p.X-r >= b.XMin-eps && p.X+r <= b.XMax+eps &&
		p.Y-r >= b.YMin-eps && p.Y+r <= b.YMax+eps
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%g,%g]x[%g,%g]", b.XMin, b.XMax, b.YMin, b.YMax)
}
