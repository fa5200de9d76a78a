// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package choropleth builds and renders a county choropleth map of
// educational attainment as an interactive SVG document.
//
// Build assembles a Scene from the loaded data: one shaded path per
// county, a legend, and a hover tooltip. Scene.WriteSVG renders the
// scene together with a script that drives the tooltip and pans and
// zooms the map.
package choropleth

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/countymaps/choropleth/internal/colorscale"
	"github.com/countymaps/choropleth/internal/dataset"
	"github.com/countymaps/choropleth/internal/geo"
)

// Nominal canvas size. The SVG is Width+Margin wide and
// Height+2*Margin tall.
const (
	Width  = 1024
	Height = 768
	Margin = 50
)

// DefaultObject is the topology object holding the county shapes.
const DefaultObject = "counties"

// DefaultTitle is the document title.
const DefaultTitle = "United States Educational Attainment"

// Options control how a Scene is built.
type Options struct {
	// Object is the topology object to draw. If empty,
	// DefaultObject is used.
	Object string

	// Projection is applied to shape coordinates. If nil, it is
	// geo.Identity and shapes are drawn in the topology's own
	// coordinates, which for the county topology are already
	// projected to the canvas.
	Projection geo.Projection

	// NoDataFill, if non-nil, fills counties without statistics.
	// By default they take the color of the domain minimum.
	NoDataFill color.Color

	// Title is the document title. If empty, DefaultTitle is used.
	Title string
}

// DefaultMercator returns the Mercator projection the map is
// configured with. It is not applied unless passed as
// Options.Projection: the county topology is pre-projected and
// projecting it again yields an unusable map.
func DefaultMercator() geo.Mercator {
	return geo.Mercator{Scale: 500, Translate: [2]float64{Width, Height / 4}}
}

// A Scene is a fully laid out map. Build constructs it and the
// render methods only read it, except for the tooltip, which is
// updated by Tooltip.Hover and Tooltip.Leave.
type Scene struct {
	Title string

	// Width and Height are the size of the SVG canvas.
	Width, Height int

	// Scale maps attainment percentages to fill colors.
	Scale *colorscale.Sequential

	// Mercator is the configured Mercator projection. It only
	// affects the map if Projected is set.
	Mercator  geo.Mercator
	Projected bool

	// Counties are the county shapes in topology order.
	Counties []County

	// Unmatched is the number of counties without statistics.
	Unmatched int

	Legend  Legend
	Tooltip *Tooltip
}

// County is one rendered county shape.
type County struct {
	// FIPS is the county's FIPS code, if HasFIPS is set.
	FIPS    int
	HasFIPS bool

	// D is the SVG path data of the shape.
	D string

	// Fill is the shape's color.
	Fill color.Color

	// Matched reports whether Record holds the county's statistic.
	Matched bool
	Record  dataset.Record

	// Education is the attainment percentage, or 0 if the county
	// is not matched.
	Education float64

	// TipWidth and TipHeight are the size of the tooltip box for
	// this county's label.
	TipWidth, TipHeight float64
}

// Label returns the tooltip text of c, or "" if c is not matched.
func (c *County) Label() string {
	if !c.Matched {
		return ""
	}
	return TooltipText(c.Record)
}

// Build lays out a map of d.
func Build(d *dataset.Data, opts Options) (*Scene, error) {
	if d.Topology == nil {
		return nil, fmt.Errorf("no topology")
	}
	object := opts.Object
	if object == "" {
		object = DefaultObject
	}
	features, err := d.Topology.Features(object)
	if err != nil {
		return nil, err
	}

	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}
	index := dataset.NewIndex(d.Records)
	s := &Scene{
		Title:     title,
		Width:     Width + Margin,
		Height:    Height + 2*Margin,
		Scale:     colorscale.NewSequential(colorscale.DomainOf(index.Values()), colorscale.YlGnBu),
		Mercator:  DefaultMercator(),
		Projected: !isIdentity(opts.Projection),
		Tooltip:   NewTooltip(),
	}

	proj := opts.Projection
	if proj == nil {
		proj = geo.Identity{}
	}
	path := geo.Path{Projection: proj}
	s.Counties = make([]County, len(features))
	for i, f := range features {
		c := County{FIPS: f.ID, HasFIPS: f.HasID, D: path.D(f)}
		if f.HasID {
			c.Record, c.Matched = index.Lookup(f.ID)
		}
		s.paint(&c, opts.NoDataFill)
		if !c.Matched {
			s.Unmatched++
		}
		s.Counties[i] = c
	}

	s.Legend = newLegend(s.Scale)
	return s, nil
}

func isIdentity(p geo.Projection) bool {
	if p == nil {
		return true
	}
	_, ok := p.(geo.Identity)
	return ok
}

// paint colors c and sizes its tooltip. Unmatched counties fall back
// to the color of the domain minimum and an education value of 0.
func (s *Scene) paint(c *County, noData color.Color) {
	if !c.Matched {
		c.Education = 0
		c.Fill = s.Scale.Map(s.Scale.Domain.Min)
		if noData != nil {
			c.Fill = noData
		}
		return
	}
	c.Education = c.Record.BachelorsOrHigher
	c.Fill = s.Scale.Map(c.Education)
	c.TipWidth, c.TipHeight = s.Tooltip.Box(c.Label())
}

// County returns the first county with the given FIPS code.
func (s *Scene) County(fips int) (*County, bool) {
	for i := range s.Counties {
		if c := &s.Counties[i]; c.HasFIPS && c.FIPS == fips {
			return c, true
		}
	}
	return nil, false
}

// formatNumber formats v the way it appears in labels and
// attributes: the shortest decimal that represents it exactly.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
