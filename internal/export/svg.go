// Package export renders pendulum frames to SVG.
package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/san-kum/swing/internal/surface"
)

const DefaultBackground = "#0a0a0a"

// SVG is a surface.Target that records drawing calls as SVG elements. The
// document is sized to the backing store; logical coordinates are multiplied
// by the scale.
type SVG struct {
	Background string

	w, h      int
	scale     float64
	lineWidth float64
	stroke    string
	fill      string
	path      surface.Path
	elems     []string
}

func NewSVG() *SVG {
	return &SVG{
		Background: DefaultBackground,
		scale:      1,
		lineWidth:  1,
		stroke:     "#000000",
		fill:       "#000000",
	}
}

func (s *SVG) SetBackingSize(w, h int) {
	s.w, s.h = max(w, 0), max(h, 0)
	s.elems = s.elems[:0]
}

func (s *SVG) SetScale(scale float64) {
	if !(scale > 0) {
		scale = 1
	}
	s.scale = scale
}

func (s *SVG) SetLineWidth(w float64)       { s.lineWidth = w }
func (s *SVG) SetStrokeColor(c color.Color) { s.stroke = hex(c) }
func (s *SVG) SetFillColor(c color.Color)   { s.fill = hex(c) }

// ClearRect drops everything drawn so far when it covers the document;
// otherwise it paints the rectangle with the background.
func (s *SVG) ClearRect(x, y, w, h float64) {
	x0, y0 := x*s.scale, y*s.scale
	x1, y1 := (x+w)*s.scale, (y+h)*s.scale
	if x0 <= 0 && y0 <= 0 && x1 >= float64(s.w) && y1 >= float64(s.h) {
		s.elems = s.elems[:0]
		return
	}
	s.elems = append(s.elems, fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`,
		x0, y0, x1-x0, y1-y0, s.Background))
}

func (s *SVG) BeginPath()          { s.path.Reset() }
func (s *SVG) MoveTo(x, y float64) { s.path.MoveTo(surface.Vec{X: x, Y: y}) }
func (s *SVG) LineTo(x, y float64) { s.path.LineTo(surface.Vec{X: x, Y: y}) }

func (s *SVG) Arc(x, y, r, start, end float64) {
	s.path.Arc(surface.ArcSegment{Center: surface.Vec{X: x, Y: y}, Radius: r, Start: start, End: end})
}

func (s *SVG) Stroke() {
	if d := s.runs(); d != "" {
		s.elems = append(s.elems, fmt.Sprintf(
			`<path d="%s" fill="none" stroke="%s" stroke-width="%.2f" stroke-linecap="round" stroke-linejoin="round"/>`,
			d, s.stroke, s.lineWidth*s.scale))
	}
	for _, a := range s.path.Arcs {
		s.elems = append(s.elems, fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="%.2f"/>`,
			s.arc(a), s.stroke, s.lineWidth*s.scale))
	}
}

func (s *SVG) Fill() {
	if d := s.runs(); d != "" {
		s.elems = append(s.elems, fmt.Sprintf(`<path d="%sZ" fill="%s"/>`, d, s.fill))
	}
	for _, a := range s.path.Arcs {
		if a.Full() {
			s.elems = append(s.elems, fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`,
				a.Center.X*s.scale, a.Center.Y*s.scale, a.Radius*s.scale, s.fill))
			continue
		}
		s.elems = append(s.elems, fmt.Sprintf(`<path d="%sZ" fill="%s"/>`, s.arc(a), s.fill))
	}
}

// runs returns the line runs of the current path as SVG path data. Runs
// with non-finite points are skipped.
func (s *SVG) runs() string {
	var b strings.Builder
	for _, run := range s.path.Runs {
		if len(run) < 2 || !finite(run) {
			continue
		}
		for i, v := range run {
			cmd := "L"
			if i == 0 {
				cmd = "M"
			}
			fmt.Fprintf(&b, "%s%.2f,%.2f ", cmd, v.X*s.scale, v.Y*s.scale)
		}
	}
	return strings.TrimSpace(b.String())
}

func (s *SVG) arc(a surface.ArcSegment) string {
	r := a.Radius * s.scale
	sx := (a.Center.X + a.Radius*math.Cos(a.Start)) * s.scale
	sy := (a.Center.Y + a.Radius*math.Sin(a.Start)) * s.scale
	ex := (a.Center.X + a.Radius*math.Cos(a.End)) * s.scale
	ey := (a.Center.Y + a.Radius*math.Sin(a.End)) * s.scale
	large := 0
	if math.Abs(a.End-a.Start) > math.Pi {
		large = 1
	}
	sweep := 1
	if a.End < a.Start {
		sweep = 0
	}
	return fmt.Sprintf("M%.2f,%.2f A%.2f,%.2f 0 %d %d %.2f,%.2f", sx, sy, r, r, large, sweep, ex, ey)
}

// Elements returns the recorded elements in draw order.
func (s *SVG) Elements() []string {
	return append([]string(nil), s.elems...)
}

// WriteTo writes the complete document.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.w, s.h, s.w, s.h, s.Background))
	for _, e := range s.elems {
		sb.WriteString(e)
		sb.WriteString("\n")
	}
	sb.WriteString("</svg>\n")
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

func (s *SVG) String() string {
	var sb strings.Builder
	s.WriteTo(&sb)
	return sb.String()
}

// CanvasToSVG converts a braille canvas to SVG, one circle per set dot.
func CanvasToSVG(canvas *surface.Braille, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="#888888">
`, width, height, width, height, DefaultBackground))

	dotRadius := scale * 0.4
	dotsW, dotsH := canvas.Dots()
	for y := 0; y < dotsH; y++ {
		for x := 0; x < dotsW; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func hex(c color.Color) string {
	if c == nil {
		return "none"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

func finite(run []surface.Vec) bool {
	for _, v := range run {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
			return false
		}
	}
	return true
}
