package viz

import (
	"errors"
	"image/color"
	"image/gif"
	"io"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
)

// GIFOptions control trajectory animation output.
type GIFOptions struct {
	Cols, Rows int // canvas size in cells
	Dot        int // pixels per braille dot
	Delay      int // per frame, in 100ths of a second
	Every      int // render every n-th frame
}

func DefaultGIFOptions() GIFOptions {
	return GIFOptions{Cols: 60, Rows: 30, Dot: 3, Delay: 4, Every: 1}
}

// EncodeGIF renders frames as an animated GIF.
func EncodeGIF(w io.Writer, bounds dynamo.Bounds, frames []sim.Snapshot, opts GIFOptions) error {
	if len(frames) == 0 {
		return errors.New("no frames to encode")
	}
	if opts.Every < 1 {
		opts.Every = 1
	}
	if opts.Dot < 1 {
		opts.Dot = 1
	}

	c := NewCanvas(opts.Cols, opts.Rows)
	v := NewViewport(bounds, c)
	bg := color.RGBA{0x0a, 0x0a, 0x0a, 0xff}
	fg := color.RGBA{0x00, 0xff, 0x88, 0xff}

	anim := gif.GIF{LoopCount: 0}
	for i := 0; i < len(frames); i += opts.Every {
		DrawFrame(c, v, frames[i].Positions, frames[i].Radii)
		anim.Image = append(anim.Image, c.Image(opts.Dot, opts.Dot, bg, fg))
		anim.Delay = append(anim.Delay, opts.Delay)
	}
	return gif.EncodeAll(w, &anim)
}
