package ec2

import "math"

// Point is a position in the cross-section in m, origin at the lower left
// corner of the concrete outline.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Segment struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// Layout is the schematic bar arrangement of a section. Columns are drawn
// in plan with bars on the perimeter, footings as a two-way mesh.
type Layout struct {
	ElementType       ElementType `json:"element_type"`
	WidthM            float64     `json:"width_m"`
	DepthM            float64     `json:"depth_m"`
	CoverM            float64     `json:"cover_m"`
	BarDiameterMM     float64     `json:"bar_diameter_mm"`
	Bars              []Point     `json:"bars,omitempty"`
	Mesh              []Segment   `json:"mesh,omitempty"`
	MinClearSpacingMM float64     `json:"min_clear_spacing_mm"` // 0 with fewer than two bars
}

// BarLayout places the longitudinal bars. For columns the first four bars
// sit in the corners at the cover line and the rest are shared between the
// top and bottom faces, the top face taking the odd one. For footings the
// bar count is used in both directions.
func BarLayout(t ElementType, g Geometry, r Reinforcement) Layout {
	l := Layout{
		ElementType:   t,
		WidthM:        g.WidthM,
		DepthM:        g.DepthM,
		CoverM:        r.CoverMM / 1000,
		BarDiameterMM: r.Longitudinal.DiameterMM,
	}
	if t == Footing {
		footingMesh(&l, r.Longitudinal.Count)
	} else {
		columnBars(&l, r.Longitudinal.Count)
	}
	return l
}

func columnBars(l *Layout, n int) {
	c := l.CoverM
	left, right := c, l.WidthM-c
	bottom, top := c, l.DepthM-c

	corners := []Point{{left, top}, {right, top}, {right, bottom}, {left, bottom}}
	if n <= len(corners) {
		if n > 0 {
			l.Bars = append(l.Bars, corners[:n]...)
		}
		if n >= 2 {
			l.MinClearSpacingMM = (right-left)*1000 - l.BarDiameterMM
		}
		if n >= 3 {
			l.MinClearSpacingMM = math.Min(l.MinClearSpacingMM, (top-bottom)*1000-l.BarDiameterMM)
		}
		return
	}
	l.Bars = append(l.Bars, corners...)

	side := n - len(corners)
	onTop := side - side/2
	onBottom := side / 2
	l.Bars = append(l.Bars, faceBars(left, right, top, onTop)...)
	l.Bars = append(l.Bars, faceBars(left, right, bottom, onBottom)...)

	pitch := math.Min((right-left)/float64(onTop+1), top-bottom)
	l.MinClearSpacingMM = pitch*1000 - l.BarDiameterMM
}

func faceBars(from, to, y float64, k int) []Point {
	pts := make([]Point, 0, k)
	step := (to - from) / float64(k+1)
	for i := 1; i <= k; i++ {
		pts = append(pts, Point{X: from + float64(i)*step, Y: y})
	}
	return pts
}

func footingMesh(l *Layout, n int) {
	c := l.CoverM
	if n < 1 {
		return
	}
	stepX, stepY := 0.0, 0.0
	if n > 1 {
		stepX = (l.WidthM - 2*c) / float64(n-1)
		stepY = (l.DepthM - 2*c) / float64(n-1)
	}
	for i := 0; i < n; i++ {
		x := c + float64(i)*stepX
		l.Mesh = append(l.Mesh, Segment{From: Point{x, c}, To: Point{x, l.DepthM - c}})
	}
	for i := 0; i < n; i++ {
		y := c + float64(i)*stepY
		l.Mesh = append(l.Mesh, Segment{From: Point{c, y}, To: Point{l.WidthM - c, y}})
	}
	if n == 1 {
		return
	}
	l.MinClearSpacingMM = math.Min(stepX, stepY)*1000 - l.BarDiameterMM
}
