// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geo projects topology features to the plane and generates
// SVG path data for them.
package geo

import (
	"math"
	"strconv"
	"strings"

	"github.com/countymaps/choropleth/internal/topo"
)

// A Projection maps a position in the source coordinate space to
// canvas coordinates.
type Projection interface {
	Project(x, y float64) (float64, float64)
}

// Identity passes coordinates through unchanged. This is the right
// projection for topologies that are already projected to screen
// space, such as the Albers USA county topology.
type Identity struct{}

func (Identity) Project(x, y float64) (float64, float64) { return x, y }

// maxLat is the latitude at which the Mercator projection is clipped,
// in radians. This makes the projected world square.
var maxLat = 2*math.Atan(math.Exp(math.Pi)) - math.Pi/2

// Mercator is the spherical Mercator projection. Inputs are longitude
// and latitude in degrees. Scale is the radius of the sphere in
// pixels and Translate is the canvas position of (0°, 0°).
type Mercator struct {
	Scale     float64
	Translate [2]float64
}

func (m Mercator) Project(lon, lat float64) (float64, float64) {
	λ := lon * math.Pi / 180
	φ := math.Max(-maxLat, math.Min(maxLat, lat*math.Pi/180))
	x := λ
	y := math.Log(math.Tan((math.Pi/2 + φ) / 2))
	return m.Translate[0] + x*m.Scale, m.Translate[1] - y*m.Scale
}

// Path generates SVG path data for features.
type Path struct {
	// Projection is applied to every point. If nil, points are used
	// as-is.
	Projection Projection

	// Digits is the number of fractional digits to round
	// coordinates to. If zero, DefaultDigits is used.
	Digits int
}

// DefaultDigits is the default coordinate precision of a Path.
const DefaultDigits = 3

// D returns the path data for f. Each ring becomes a closed subpath.
// The duplicate closing point of each ring is not emitted since the
// "Z" command closes the subpath. Features without polygons produce
// an empty string.
func (p Path) D(f topo.Feature) string {
	var b strings.Builder
	for _, poly := range f.Polygons {
		for _, ring := range poly {
			p.ring(&b, ring)
		}
	}
	return b.String()
}

func (p Path) ring(b *strings.Builder, ring topo.Ring) {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}
	if n == 0 {
		return
	}
	for i, pt := range ring[:n] {
		x, y := pt[0], pt[1]
		if p.Projection != nil {
			x, y = p.Projection.Project(x, y)
		}
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		b.WriteString(p.format(x))
		b.WriteByte(',')
		b.WriteString(p.format(y))
	}
	b.WriteByte('Z')
}

func (p Path) format(v float64) string {
	digits := p.Digits
	if digits == 0 {
		digits = DefaultDigits
	}
	k := math.Pow(10, float64(digits))
	v = math.Round(v*k) / k
	if v == 0 {
		// Avoid "-0".
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
