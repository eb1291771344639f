package viz

import (
	"math"

	"github.com/san-kum/partsim/internal/dynamo"
)

// Viewport maps box coordinates onto canvas sub-pixels. The y axis is
// flipped so YMax is drawn at the top. Braille dots are close to square so
// a single scale keeps disks round.
type Viewport struct {
	Bounds         dynamo.Bounds
	Scale          float64
	OffX, OffY     float64
	PixelW, PixelH int
}

func NewViewport(b dynamo.Bounds, c *Canvas) Viewport {
	pw, ph := c.PixelSize()
	scale := math.Min(float64(pw-1)/b.Width(), float64(ph-1)/b.Height())
	return Viewport{
		Bounds: b,
		Scale:  scale,
		OffX:   (float64(pw-1) - b.Width()*scale) / 2,
		OffY:   (float64(ph-1) - b.Height()*scale) / 2,
		PixelW: pw,
		PixelH: ph,
	}
}

func (v Viewport) Project(p dynamo.Vec2) (int, int) {
	x := v.OffX + (p.X-v.Bounds.XMin)*v.Scale
	y := v.OffY + (v.Bounds.YMax-p.Y)*v.Scale
	return int(math.Round(x)), int(math.Round(y))
}

func (v Viewport) Radius(r float64) int {
	return int(math.Round(r * v.Scale))
}

// DrawFrame renders the box outline and every particle onto c.
func DrawFrame(c *Canvas, v Viewport, positions []dynamo.Vec2, radii []float64) {
	c.Clear()
	x0, y0 := v.Project(dynamo.Vec2{X: v.Bounds.XMin, Y: v.Bounds.YMax})
	x1, y1 := v.Project(dynamo.Vec2{X: v.Bounds.XMax, Y: v.Bounds.YMin})
	c.DrawRect(x0, y0, x1, y1)

	for i, p := range positions {
		x, y := v.Project(p)
		r := 1
		if i < len(radii) {
			r = v.Radius(radii[i])
		}
		if r <= 1 {
			c.FillCircle(x, y, r)
		} else {
			c.DrawCircle(x, y, r)
		}
	}
}
