// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package colorscale maps data values to colors.
package colorscale

import (
	"fmt"
	"image/color"
	"math"

	"github.com/aclements/go-gg/palette"
	"github.com/aclements/go-gg/palette/brewer"
	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/stats"
)

// Domain is the closed range of input values of a scale.
type Domain struct {
	Min, Max float64
}

// DomainOf returns the smallest domain containing every value in xs.
// NaNs are ignored. If xs has no non-NaN values, the domain is [0, 0].
func DomainOf(xs []float64) Domain {
	clean := xs[:0:0]
	for _, x := range xs {
		if !math.IsNaN(x) {
			clean = append(clean, x)
		}
	}
	if len(clean) == 0 {
		return Domain{}
	}
	min, max := stats.Bounds(clean)
	return Domain{min, max}
}

func (d Domain) String() string {
	return fmt.Sprintf("[%g, %g]", d.Min, d.Max)
}

// YlGnBu is the ColorBrewer yellow-green-blue sequential palette as a
// continuous gradient over its nine levels.
var YlGnBu = gradient(brewer.YlGnBu_9)

func gradient[C color.Color](cs []C) Gradient {
	g := make(Gradient, len(cs))
	for i, c := range cs {
		g[i] = color.RGBAModel.Convert(c).(color.RGBA)
	}
	return g
}

// Gradient is a continuous palette that blends between evenly spaced
// colors in linear light.
//
// palette.RGBGradient does the blending, but its Map returns the
// first color for all of [0, 1/(n-1)), so Gradient picks the segment
// itself.
type Gradient []color.RGBA

var _ palette.Continuous = Gradient(nil)

// Map returns the color at x. x is clamped to [0, 1].
func (g Gradient) Map(x float64) color.Color {
	n := len(g)
	switch {
	case n == 0:
		return color.Black
	case n == 1 || x <= 0 || math.IsNaN(x):
		return g[0]
	case x >= 1:
		return g[n-1]
	}
	pos := x * float64(n-1)
	i := int(pos)
	if i > n-2 {
		i = n - 2
	}
	fr := pos - float64(i)
	if fr == 0 {
		return g[i]
	}
	// Segment 1 of a three-color RGBGradient blends correctly.
	seg := palette.RGBGradient{Colors: []color.RGBA{g[i], g[i], g[i+1]}}
	return seg.Map((1 + fr) / 2)
}

// Sequential maps a continuous domain onto a continuous palette. It is
// the equivalent of a sequential scale with an interpolator: the
// domain is linearly normalized to [0, 1] and then looked up in the
// palette. Values outside the domain take the color of the nearest
// end.
type Sequential struct {
	Domain  Domain
	Palette palette.Continuous

	lin scale.Linear
}

// NewSequential returns a sequential scale over d using p.
func NewSequential(d Domain, p palette.Continuous) *Sequential {
	return &Sequential{
		Domain:  d,
		Palette: p,
		lin:     scale.Linear{Min: d.Min, Max: d.Max},
	}
}

// Map returns the color of value x.
func (s *Sequential) Map(x float64) color.Color {
	return s.Palette.Map(s.normalize(x))
}

// normalize maps x from the domain to [0, 1]. A degenerate domain
// maps everything to 0.
func (s *Sequential) normalize(x float64) float64 {
	if s.Domain.Min == s.Domain.Max || math.IsNaN(x) {
		return 0
	}
	return math.Max(0, math.Min(1, s.lin.Map(x)))
}

// CSS returns c as a CSS color of the form #rrggbb. Alpha is ignored.
func CSS(c color.Color) string {
	r, g, b, a := c.RGBA()
	if a != 0 && a != 0xffff {
		// Undo alpha pre-multiplication.
		r = r * 0xffff / a
		g = g * 0xffff / a
		b = b * 0xffff / a
	}
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
