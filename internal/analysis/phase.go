package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/swing/internal/dynamo"
)

// Point is one sample in a 2D projection of phase space.
type Point struct {
	X, Y float64
}

// Axis projects a state onto one phase space coordinate.
type Axis func(dynamo.State) float64

var (
	Theta1 Axis = func(s dynamo.State) float64 { return s.Theta1 }
	Theta2 Axis = func(s dynamo.State) float64 { return s.Theta2 }
	Omega1 Axis = func(s dynamo.State) float64 { return s.Omega1 }
	Omega2 Axis = func(s dynamo.State) float64 { return s.Omega2 }
)

// Axes maps the CLI names of the phase space coordinates to projections.
var Axes = map[string]Axis{
	"theta1": Theta1,
	"theta2": Theta2,
	"omega1": Omega1,
	"omega2": Omega2,
}

// PhasePortrait holds a 2D phase space trajectory.
type PhasePortrait struct {
	Points []Point
}

// NewPhasePortrait projects recorded states onto the x and y axes.
// Non-finite states are skipped.
func NewPhasePortrait(states []dynamo.State, x, y Axis) *PhasePortrait {
	portrait := &PhasePortrait{Points: make([]Point, 0, len(states))}
	for _, s := range states {
		if !s.IsValid() {
			continue
		}
		portrait.Points = append(portrait.Points, Point{X: x(s), Y: y(s)})
	}
	return portrait
}

// NewPoincareSection samples (θ2, ω2) each time the upper link swings
// through the downward vertical moving right, i.e. θ1 crosses a multiple
// of 2π upwards. The sample is interpolated between the two steps.
func NewPoincareSection(states []dynamo.State) *PhasePortrait {
	section := &PhasePortrait{Points: make([]Point, 0)}
	for i := 1; i < len(states); i++ {
		prev, curr := states[i-1], states[i]
		if !prev.IsValid() || !curr.IsValid() {
			continue
		}
		k := math.Ceil(prev.Theta1 / (2 * math.Pi))
		target := k * 2 * math.Pi
		if !(prev.Theta1 < target && curr.Theta1 >= target) {
			continue
		}

		frac := (target - prev.Theta1) / (curr.Theta1 - prev.Theta1)
		if math.IsNaN(frac) || math.IsInf(frac, 0) {
			frac = 0.5
		}
		section.Points = append(section.Points, Point{
			X: prev.Theta2 + frac*(curr.Theta2-prev.Theta2),
			Y: prev.Omega2 + frac*(curr.Omega2-prev.Omega2),
		})
	}
	return section
}

// ToASCII renders the portrait as ASCII art with axes where they cross the
// plotted range.
func (portrait *PhasePortrait) ToASCII(width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	// Find bounds
	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	// Draw axes first so points overwrite them
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == '│' {
				canvas[row][col] = '┼'
				continue
			}
			canvas[row][col] = '─'
		}
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
