package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/partsim/internal/analysis"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/viz"
)

const background = "#0a0a0a"

// FrameToSVG draws the box and every particle as a circle. The image is
// width pixels wide and keeps the box aspect ratio; y points up.
func FrameToSVG(bounds dynamo.Bounds, positions []dynamo.Vec2, radii []float64, width int) string {
	if width <= 0 || bounds.Width() <= 0 || bounds.Height() <= 0 {
		return ""
	}
	scale := float64(width) / bounds.Width()
	height := bounds.Height() * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%.0f" viewBox="0 0 %d %.0f">
<rect width="100%%" height="100%%" fill="%s" stroke="#444466" stroke-width="2"/>
<g fill="#00ccff" fill-opacity="0.8">
`, width, height, width, height, background)

	for i, p := range positions {
		if i >= len(radii) {
			break
		}
		cx := (p.X - bounds.XMin) * scale
		cy := (bounds.YMax - p.Y) * scale
		fmt.Fprintf(&sb, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\"/>\n", cx, cy, radii[i]*scale)
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	pw, ph := canvas.PixelSize()
	width := float64(pw) * scale
	height := float64(ph) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="#00ff00">
`, width, height, width, height, background)

	dotRadius := scale * 0.4
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// PathToSVG draws a particle path inside the box as a polyline.
func PathToSVG(bounds dynamo.Bounds, points []analysis.Point, width int, strokeColor string) string {
	if len(points) < 2 || width <= 0 || bounds.Width() <= 0 {
		return ""
	}
	scale := float64(width) / bounds.Width()
	height := bounds.Height() * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%.0f" viewBox="0 0 %d %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor)

	for i, p := range points {
		x := (p.X - bounds.XMin) * scale
		y := (bounds.YMax - p.Y) * scale
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
