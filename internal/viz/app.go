package viz

import (
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/swing/internal/config"
	"github.com/san-kum/swing/internal/loop"
	"github.com/san-kum/swing/internal/metrics"
	"github.com/san-kum/swing/internal/render"
	"github.com/san-kum/swing/internal/stage"
	"github.com/san-kum/swing/internal/surface"
)

const (
	hudWidth     = 34
	statusRows   = 1
	historyLen   = 240
	defaultCols  = 80
	defaultRows  = 24
	dotsPerCellX = 2
	dotsPerCellY = 4
)

type frameMsg time.Time

// App is the bubbletea host. It mounts a stage on a braille canvas, maps
// mouse motion to the pivot and pumps frames with tea.Tick.
type App struct {
	cfg    *config.Config
	stage  *stage.Stage
	sched  *loop.Manual
	canvas *surface.Braille
	theme  Theme

	loss *metrics.EnergyLoss
	peak *metrics.PeakSpeed

	width, height int
	cols, rows    int
	zoom          float64
	showHUD       bool
	quitting      bool

	energy []float64
	speed  []float64
}

func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		sched:   loop.NewManual(),
		canvas:  surface.NewBraille(),
		theme:   GetTheme(cfg.Theme),
		showHUD: true,
	}
	st, err := stage.Mount(a.canvas, a.sched, cfg)
	if err != nil {
		return nil, err
	}
	a.stage = st
	a.loss = metrics.NewEnergyLoss(st.Dynamics())
	a.peak = metrics.NewPeakSpeed()
	st.AddMetric(a.loss)
	st.AddMetric(a.peak)
	st.OnFrame(a.record)

	a.layout(defaultCols, defaultRows)
	return a, nil
}

func (a *App) Stage() *stage.Stage { return a.stage }

func (a *App) Init() tea.Cmd {
	if err := a.stage.Start(); err != nil {
		log.Printf("viz: start: %v", err)
		return tea.Quit
	}
	log.Printf("viz: mounted %dx%d cells, zoom %.3f", a.cols, a.rows, a.zoom)
	return a.tick()
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(a.cfg.FPS), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			a.Close()
			return a, tea.Quit
		case "t":
			a.theme = NextTheme(a.theme)
		case "h":
			a.showHUD = !a.showHUD
			a.layout(a.width, a.height)
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionMotion {
			a.stage.PointerMove(a.pointer(msg.X, msg.Y))
		}

	case tea.WindowSizeMsg:
		a.layout(msg.Width, msg.Height)

	case frameMsg:
		a.sched.Fire(time.Time(msg))
		if a.sched.Pending() > 0 {
			return a, a.tick()
		}
	}
	return a, nil
}

// Close unmounts the stage. It is safe to call more than once.
func (a *App) Close() {
	if a.quitting {
		return
	}
	a.quitting = true
	a.stage.Unmount()
	log.Printf("viz: unmounted after %d steps", a.stage.Steps())
}

// layout sizes the canvas to the terminal and forwards the new logical
// viewport to the stage.
func (a *App) layout(width, height int) {
	a.width, a.height = width, height
	a.cols = width
	if a.showHUD {
		a.cols -= hudWidth
	}
	a.cols = max(a.cols, 1)
	a.rows = max(height-statusRows, 1)

	dotsW := float64(a.cols * dotsPerCellX)
	dotsH := float64(a.rows * dotsPerCellY)
	a.zoom = a.cfg.Scale
	if a.zoom <= 0 {
		a.zoom = render.FitScale(dotsW, dotsH, a.stage.Params(), a.stage.Renderer().BobRadius)
	}
	a.stage.Resize(dotsW/a.zoom, dotsH/a.zoom, a.zoom)
}

// pointer maps a terminal cell to logical coordinates at the center of the
// cell's dot block.
func (a *App) pointer(col, row int) (float64, float64) {
	x := float64(col*dotsPerCellX+1) / a.zoom
	y := float64(row*dotsPerCellY+2) / a.zoom
	return x, y
}

func (a *App) record(render.Frame) {
	a.energy = appendBounded(a.energy, a.stage.Energy(), historyLen)
	s := a.stage.State()
	a.speed = appendBounded(a.speed, math.Abs(s.Omega1)+math.Abs(s.Omega2), historyLen)
}

func appendBounded(xs []float64, v float64, n int) []float64 {
	xs = append(xs, v)
	if len(xs) > n {
		xs = xs[len(xs)-n:]
	}
	return xs
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	canvas := lipgloss.NewStyle().Foreground(a.theme.Pendulum).Render(a.canvas.String())
	body := canvas
	if a.showHUD {
		body = lipgloss.JoinHorizontal(lipgloss.Top, canvas, a.hud())
	}
	status := helpStyle.Render(" move mouse to drag the pivot · t theme · h hud · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, body, status)
}

func (a *App) hud() string {
	s := a.stage.State()
	p := a.stage.Pivot()
	title := lipgloss.NewStyle().Bold(true).Foreground(a.theme.Primary).Render("DOUBLE PENDULUM")

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	var b strings.Builder
	b.WriteString(title + "\n\n")
	b.WriteString(row("θ1", fmt.Sprintf("%+.3f", s.Theta1)) + "\n")
	b.WriteString(row("θ2", fmt.Sprintf("%+.3f", s.Theta2)) + "\n")
	b.WriteString(row("ω1", fmt.Sprintf("%+.4f", s.Omega1)) + "\n")
	b.WriteString(row("ω2", fmt.Sprintf("%+.4f", s.Omega2)) + "\n")
	b.WriteString(row("pivot", fmt.Sprintf("%.0f,%.0f", p.X, p.Y)) + "\n")
	b.WriteString(row("steps", fmt.Sprintf("%d", a.stage.Steps())) + "\n")
	b.WriteString(row("damped", fmt.Sprintf("%.1f%%", a.loss.Value()*100)) + "\n")
	b.WriteString(row("peak ω", fmt.Sprintf("%.4f", a.peak.Value())) + "\n")
	b.WriteString(row("theme", a.theme.Name) + "\n\n")

	if len(a.energy) > 1 {
		plot := asciigraph.Plot(a.energy,
			asciigraph.Height(5),
			asciigraph.Width(hudWidth-14),
			asciigraph.Caption("energy"))
		b.WriteString(graphStyle.Render(plot) + "\n\n")
	}
	b.WriteString(labelStyle.Render("|ω|") + SparklineChart(a.speed, hudWidth-16))

	return statsStyle.Render(b.String())
}

// Run starts the interactive terminal host and blocks until the user quits.
func Run(cfg *config.Config) error {
	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = p.Run()
	return err
}
