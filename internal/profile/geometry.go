package profile

import "math"

// PolygonArea returns the area of a simple polygon using the shoelace formula.
// Fewer than three points have no area.
func PolygonArea(points []Point) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}

	var sum int64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += int64(points[i].X())*int64(points[j].Y()) - int64(points[j].X())*int64(points[i].Y())
	}

	return math.Abs(float64(sum)) / 2
}

// PolygonBounds returns the top-left and bottom-right corners of the bounding box.
// Both are zero for an empty polygon.
func PolygonBounds(points []Point) (Point, Point) {
	if len(points) == 0 {
		return Point{}, Point{}
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo[0] = min(lo[0], p[0])
		lo[1] = min(lo[1], p[1])
		hi[0] = max(hi[0], p[0])
		hi[1] = max(hi[1], p[1])
	}
	return lo, hi
}

// FieldSummary describes a selected field zone for display.
type FieldSummary struct {
	Points []Point `json:"points"`
	Min    Point   `json:"min"`
	Max    Point   `json:"max"`
	Area   float64 `json:"area"`
}

// Summarize computes the bounds and area of a polygon.
func Summarize(points []Point) FieldSummary {
	lo, hi := PolygonBounds(points)
	return FieldSummary{
		Points: append([]Point(nil), points...),
		Min:    lo,
		Max:    hi,
		Area:   PolygonArea(points),
	}
}
