// Implements parsing of SVG path data into flattened runs of points,
// which can then be consumed by scene reconstruction.
package svgpath

import (
	"fmt"

	"golang.org/x/image/math/f64"
)

// Path is path data reduced to an anchor and a run of points relative to
// that anchor. The anchor is the path's first coordinate; the first point
// is always {0, 0}. Curved segments arrive here already flattened.
type Path struct {
	X, Y          float64    // anchor, absolute
	Points        []f64.Vec2 // anchor-relative
	Width, Height float64    // extent of the points per axis
}

// String returns a readable summary of the path.
func (p Path) String() string {
	return fmt.Sprintf("M%g,%g +%d points (%g x %g)", p.X, p.Y, len(p.Points), p.Width, p.Height)
}

// End returns the last point of the run, anchor-relative.
func (p Path) End() f64.Vec2 {
	if len(p.Points) == 0 {
		return f64.Vec2{}
	}
	return p.Points[len(p.Points)-1]
}

// extent measures the bounding box of a point run.
func extent(pts []f64.Vec2) (w, h float64) {
	if len(pts) == 0 {
		return 0, 0
	}
	minX, maxX := pts[0][0], pts[0][0]
	minY, maxY := pts[0][1], pts[0][1]
	for _, pt := range pts[1:] {
		if pt[0] < minX {
			minX = pt[0]
		}
		if pt[0] > maxX {
			maxX = pt[0]
		}
		if pt[1] < minY {
			minY = pt[1]
		}
		if pt[1] > maxY {
			maxY = pt[1]
		}
	}
	return maxX - minX, maxY - minY
}
