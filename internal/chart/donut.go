// Package chart turns a category breakdown into donut chart geometry: one
// contiguous angular segment per category, plus the SVG path drawing it.
package chart

import (
	"fmt"
	"math"

	"chitieu/internal/core"
)

// Chart geometry in a 100x100 viewBox.
const (
	centerX    = 50.0
	centerY    = 50.0
	radius     = 45.0
	holeRadius = 35.0
)

// fullCircleSpan is the span used when a single group covers the whole
// circle. A true 360° arc has coincident endpoints and SVG renders it as
// nothing, so the segment stops just short.
const fullCircleSpan = 359.99

// Segment is one category's slice of the donut. StartAngle and SweepAngle
// are degrees on a circle starting at 12 o'clock; segments are contiguous
// in breakdown order.
type Segment struct {
	Category   core.Category `json:"category"`
	Color      string        `json:"color"`
	Percent    float64       `json:"percent"`
	StartAngle float64       `json:"startAngle"`
	SweepAngle float64       `json:"sweepAngle"`
	Path       string        `json:"path"`
}

// Segments assigns each breakdown group a proportional angular span,
// accumulating the start angle from 0° in the given order.
func Segments(shares []core.CategoryShare) []Segment {
	segments := make([]Segment, 0, len(shares))
	accumulated := 0.0
	for _, share := range shares {
		start := accumulated * 3.6
		sweep := share.Percent * 3.6
		if share.Percent > 99.99 {
			sweep = fullCircleSpan
		}
		segments = append(segments, Segment{
			Category:   share.Category,
			Color:      share.Category.Color(),
			Percent:    share.Percent,
			StartAngle: start,
			SweepAngle: sweep,
			Path:       arcPath(start, start+sweep, share.Percent > 50),
		})
		accumulated += share.Percent
	}
	return segments
}

type point struct {
	x, y float64
}

// polar maps an angle in donut degrees (0 at 12 o'clock, clockwise) to
// cartesian coordinates at the given radius.
func polar(angle, r float64) point {
	rad := (angle - 90) * math.Pi / 180
	return point{
		x: centerX + r*math.Cos(rad),
		y: centerY + r*math.Sin(rad),
	}
}

func arcPath(startAngle, endAngle float64, largeArc bool) string {
	start := polar(startAngle, radius)
	end := polar(endAngle, radius)
	startHole := polar(startAngle, holeRadius)
	endHole := polar(endAngle, holeRadius)

	flag := 0
	if largeArc {
		flag = 1
	}

	return fmt.Sprintf(
		"M %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 0 %.2f %.2f Z",
		start.x, start.y,
		radius, radius, flag, end.x, end.y,
		endHole.x, endHole.y,
		holeRadius, holeRadius, flag, startHole.x, startHole.y,
	)
}
