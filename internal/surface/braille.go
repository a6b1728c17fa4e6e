package surface

import (
	"image/color"
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Braille is a monochrome terminal canvas. Each character cell carries 2×4
// dots, so a backing store of W×H dots occupies ceil(W/2)×ceil(H/4) cells.
// Colours and line width are accepted and ignored.
type Braille struct {
	Width, Height int // cells
	Grid          [][]rune
	dotsW, dotsH  int
	scale         float64
	path          Path
}

func NewBraille() *Braille {
	return &Braille{scale: 1}
}

// SetBackingSize resizes the canvas to w×h dots and clears it.
func (c *Braille) SetBackingSize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c.dotsW, c.dotsH = w, h
	c.Width = (w + 1) / 2
	c.Height = (h + 3) / 4
	c.Grid = make([][]rune, c.Height)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, c.Width)
	}
	c.Clear()
}

func (c *Braille) Dots() (int, int) { return c.dotsW, c.dotsH }

func (c *Braille) SetScale(s float64) {
	if !(s > 0) {
		s = 1
	}
	c.scale = s
}

func (c *Braille) SetLineWidth(float64)       {}
func (c *Braille) SetStrokeColor(color.Color) {}
func (c *Braille) SetFillColor(color.Color)   {}

// Set sets a dot at (x, y) in device coordinates.
func (c *Braille) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.dotsW || y >= c.dotsH {
		return
	}
	c.Grid[y/4][x/2] |= rune(pixelMap[y%4][x%2])
}

// Unset clears a dot
func (c *Braille) Unset(x, y int) {
	if x < 0 || y < 0 || x >= c.dotsW || y >= c.dotsH {
		return
	}
	c.Grid[y/4][x/2] &^= rune(pixelMap[y%4][x%2])
}

func (c *Braille) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x >= c.dotsW || y >= c.dotsH {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// Clear resets the canvas
func (c *Braille) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

func (c *Braille) ClearRect(x, y, w, h float64) {
	x0, y0 := c.device(x, y)
	x1, y1 := c.device(x+w, y+h)
	if x0 <= 0 && y0 <= 0 && x1 >= c.dotsW && y1 >= c.dotsH {
		c.Clear()
		return
	}
	for py := max(y0, 0); py < min(y1, c.dotsH); py++ {
		for px := max(x0, 0); px < min(x1, c.dotsW); px++ {
			c.Unset(px, py)
		}
	}
}

func (c *Braille) BeginPath() { c.path.Reset() }

func (c *Braille) MoveTo(x, y float64) { c.path.MoveTo(Vec{x, y}) }

func (c *Braille) LineTo(x, y float64) { c.path.LineTo(Vec{x, y}) }

func (c *Braille) Arc(x, y, r, start, end float64) {
	c.path.Arc(ArcSegment{Center: Vec{x, y}, Radius: r, Start: start, End: end})
}

func (c *Braille) Stroke() {
	for _, run := range c.path.Runs {
		for i := 1; i < len(run); i++ {
			x0, y0 := c.device(run[i-1].X, run[i-1].Y)
			x1, y1 := c.device(run[i].X, run[i].Y)
			c.DrawLine(x0, y0, x1, y1)
		}
	}
	for _, a := range c.path.Arcs {
		c.strokeArc(a)
	}
}

// Fill fills every full circle on the path as a disc; partial arcs are
// outlined.
func (c *Braille) Fill() {
	for _, a := range c.path.Arcs {
		if !a.Full() {
			c.strokeArc(a)
			continue
		}
		cx, cy := c.device(a.Center.X, a.Center.Y)
		r := toInt(math.Round(a.Radius * c.scale))
		if r < 1 {
			c.Set(cx, cy)
			continue
		}
		// only the part of the disc's bounding box that is on the canvas
		for dy := max(-r, -cy); dy <= min(r, c.dotsH-1-cy); dy++ {
			for dx := max(-r, -cx); dx <= min(r, c.dotsW-1-cx); dx++ {
				if dx*dx+dy*dy <= r*r {
					c.Set(cx+dx, cy+dy)
				}
			}
		}
	}
}

func (c *Braille) strokeArc(a ArcSegment) {
	span := a.End - a.Start
	n := int(math.Ceil(math.Abs(span) * a.Radius * c.scale))
	if n < 8 {
		n = 8
	}
	if n > 4096 {
		n = 4096
	}
	for i := 0; i <= n; i++ {
		th := a.Start + span*float64(i)/float64(n)
		x, y := c.device(a.Center.X+a.Radius*math.Cos(th), a.Center.Y+a.Radius*math.Sin(th))
		c.Set(x, y)
	}
}

// device maps logical coordinates to dots. Non-finite coordinates land far
// off-canvas and are clipped.
func (c *Braille) device(x, y float64) (int, int) {
	return toInt(x * c.scale), toInt(y * c.scale)
}

func toInt(v float64) int {
	const limit = 1 << 30
	switch {
	case math.IsNaN(v):
		return -limit
	case v > limit:
		return limit
	case v < -limit:
		return -limit
	}
	return int(math.Floor(v))
}

// DrawLine draws a line using Bresenham's algorithm, clipped to the canvas.
func (c *Braille) DrawLine(x0, y0, x1, y1 int) {
	var ok bool
	if x0, y0, x1, y1, ok = c.clip(x0, y0, x1, y1); !ok {
		return
	}

	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// clip trims a segment to the dot grid (Liang–Barsky) so runaway bob
// positions cannot make Bresenham walk billions of dots.
func (c *Braille) clip(x0, y0, x1, y1 int) (int, int, int, int, bool) {
	if c.dotsW == 0 || c.dotsH == 0 {
		return 0, 0, 0, 0, false
	}
	fx0, fy0 := float64(x0), float64(y0)
	dx, dy := float64(x1-x0), float64(y1-y0)
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, fx0},
		{dx, float64(c.dotsW-1) - fx0},
		{-dy, fy0},
		{dy, float64(c.dotsH-1) - fy0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return int(math.Round(fx0 + t0*dx)), int(math.Round(fy0 + t0*dy)),
		int(math.Round(fx0 + t1*dx)), int(math.Round(fy0 + t1*dy)), true
}

func (c *Braille) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
