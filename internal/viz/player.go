package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
)

const (
	canvasCols = 60
	canvasRows = 30
	maxSpeed   = 64
	tickRate   = time.Second / 30
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Player replays a recorded trajectory frame by frame.
type Player struct {
	title    string
	frames   []sim.Snapshot
	canvas   *Canvas
	view     Viewport
	theme    Theme
	energy   []float64
	head     int
	speed    int
	playing  bool
	showHelp bool
}

func NewPlayer(title string, bounds dynamo.Bounds, frames []sim.Snapshot) Player {
	c := NewCanvas(canvasCols, canvasRows)
	return Player{
		title:   title,
		frames:  frames,
		canvas:  c,
		view:    NewViewport(bounds, c),
		theme:   Themes[0],
		speed:   1,
		playing: len(frames) > 1,
	}
}

// WithEnergy attaches the per-step kinetic energy series shown in the side
// panel.
func (p Player) WithEnergy(energy []float64) Player {
	p.energy = energy
	return p
}

func (p Player) Head() int     { return p.head }
func (p Player) Speed() int    { return p.speed }
func (p Player) Playing() bool { return p.playing }

func (p Player) Init() tea.Cmd { return tick() }

func (p Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return p, tea.Quit
		case " ":
			p.playing = !p.playing
			if p.playing && p.head >= len(p.frames)-1 {
				p.head = 0
			}
		case "right", "l":
			p.playing = false
			p.seek(p.head + 1)
		case "left", "h":
			p.playing = false
			p.seek(p.head - 1)
		case "+", "=":
			p.speed = min(p.speed*2, maxSpeed)
		case "-", "_":
			p.speed = max(p.speed/2, 1)
		case "home", "g":
			p.seek(0)
		case "end", "G":
			p.seek(len(p.frames) - 1)
		case "t":
			p.theme = nextTheme(p.theme.Name)
		case "?":
			p.showHelp = !p.showHelp
		}
	case TickMsg:
		if p.playing {
			p.seek(p.head + p.speed)
			if p.head >= len(p.frames)-1 {
				p.playing = false
			}
		}
		return p, tick()
	}
	return p, nil
}

func (p *Player) seek(i int) {
	p.head = min(max(i, 0), max(len(p.frames)-1, 0))
}

func (p Player) View() string {
	if len(p.frames) == 0 {
		return "no frames recorded\n"
	}
	f := p.frames[p.head]
	DrawFrame(p.canvas, p.view, f.Positions, f.Radii)
	canvasView := lipgloss.NewStyle().
		Foreground(p.theme.Primary).
		Padding(1, 2).
		Render(p.canvas.String())

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(p.title)) + "\n\n")
	if p.playing {
		s.WriteString(StatusRunning.Render(fmt.Sprintf("PLAYING x%d", p.speed)) + "\n\n")
	} else {
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	s.WriteString(MetricLabel.Render("Frame") + MetricValue.Render(fmt.Sprintf("%d/%d", p.head+1, len(p.frames))) + "\n")
	s.WriteString(MetricLabel.Render("Step") + MetricValue.Render(fmt.Sprintf("%d", f.Step)) + "\n")
	s.WriteString(MetricLabel.Render("Time") + MetricValue.Render(fmt.Sprintf("%.3f", f.Time)) + "\n")
	s.WriteString(MetricLabel.Render("Particles") + MetricValue.Render(fmt.Sprintf("%d", len(f.Positions))) + "\n\n")

	progress := 0.0
	if len(p.frames) > 1 {
		progress = float64(p.head) / float64(len(p.frames)-1)
	}
	s.WriteString(ProgressBar(progress, 28) + "\n\n")

	if len(p.energy) > 1 {
		end := min(f.Step+1, len(p.energy))
		if end > 1 {
			chart := asciigraph.Plot(p.energy[:end], asciigraph.Height(4), asciigraph.Width(26), asciigraph.Caption("Kinetic energy"))
			s.WriteString(chart + "\n\n")
		}
	}

	s.WriteString(Separator(28) + "\n")
	s.WriteString(KeyHint.Render("SP:Play ←→:Step +-:Speed\nG/g:Ends T:Theme Q:Quit ?:Help"))

	layout := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle.Render(s.String()))
	if p.showHelp {
		return helpText + "\n" + layout
	}
	return layout
}

const helpText = `
  Space       play / pause
  Left/Right  step one frame
  + / -       double / halve playback speed
  g / G       jump to first / last frame
  t           cycle theme
  q           quit
`
