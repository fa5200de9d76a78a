// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package choropleth

import (
	"fmt"
	"image/color"
	"math"

	"github.com/aclements/go-moremath/scale"
	"github.com/countymaps/choropleth/internal/colorscale"
)

// Legend geometry.
const (
	legendWidth    = 300
	legendHeight   = 20
	legendTop      = 25
	legendSwatches = 4
	legendTicks    = 8
)

// LegendSamples are the values the legend gradients are sampled at.
// Swatch i blends from LegendSamples[i] to LegendSamples[i+1].
//
// These are fixed percentages and do not follow the color domain, so
// for a domain narrower than [0, 100] the legend shows only part of
// the map's colors and clamps the rest.
var LegendSamples = [legendSwatches + 1]float64{0, 25, 50, 75, 100}

// Legend is the color key: a row of gradient swatches over an axis
// spanning the color domain.
type Legend struct {
	// X and Y are the top-left corner of the swatch row.
	X, Y          float64
	Width, Height float64

	Swatches []Swatch
	Axis     Axis
}

// Swatch is one gradient rectangle of the legend.
type Swatch struct {
	// GradientID is the id of the swatch's linear gradient.
	GradientID string

	// X is the left edge of the swatch.
	X, Width float64

	// From and To are the gradient's 0% and 100% stop colors.
	From, To color.Color
}

// Axis is a horizontal axis below the legend swatches.
type Axis struct {
	// X and Y are the position of the axis origin.
	X, Y  float64
	Ticks []Tick

	// Length is the axis length in pixels.
	Length float64
}

// Tick is one labeled axis tick. Pos is relative to the axis origin.
type Tick struct {
	Value float64
	Pos   float64
	Label string
}

func newLegend(s *colorscale.Sequential) Legend {
	l := Legend{
		X:      Width - legendWidth,
		Y:      legendTop,
		Width:  legendWidth,
		Height: legendHeight,
	}
	sw := l.Width / legendSwatches
	for i := 0; i < legendSwatches; i++ {
		l.Swatches = append(l.Swatches, Swatch{
			GradientID: fmt.Sprintf("gradient%d", i+1),
			X:          l.X + float64(i)*sw,
			Width:      sw,
			From:       s.Map(LegendSamples[i]),
			To:         s.Map(LegendSamples[i+1]),
		})
	}
	l.Axis = newAxis(s.Domain, l.Width)
	l.Axis.X, l.Axis.Y = l.X, l.Y+l.Height
	return l
}

// newAxis lays out ticks for domain d over length pixels. The domain
// is extended to round tick values first.
func newAxis(d colorscale.Domain, length float64) Axis {
	lin := scale.Linear{Min: d.Min, Max: d.Max}
	if lin.Min == lin.Max {
		lin.Min, lin.Max = lin.Min-1, lin.Max+1
	}
	lin.Nice(scale.TickOptions{Max: legendTicks + 2})
	major, _ := lin.Ticks(scale.TickOptions{Max: legendTicks + 1})

	a := Axis{Length: length}
	for _, v := range major {
		a.Ticks = append(a.Ticks, Tick{
			Value: v,
			Pos:   lin.Map(v) * length,
			Label: fmt.Sprintf("%d%%", int(math.Floor(v+0.5))),
		})
	}
	return a
}
