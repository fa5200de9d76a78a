// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package topo decodes TopoJSON topology documents into polygon
// features.
//
// A topology stores each shared boundary once as an "arc". Geometries
// refer to arcs by index, where a negative index ~i means arc i
// traversed in reverse. Arcs may be quantized, in which case their
// positions are delta-encoded integers that must be scaled by the
// topology's transform.
//
// The format is specified at:
// https://github.com/topojson/topojson-specification
package topo

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Point is a position in the topology's coordinate space.
type Point [2]float64

// Ring is a closed sequence of points. The first and last points are
// equal.
type Ring []Point

// Polygon is an outer ring followed by zero or more hole rings.
type Polygon []Ring

// Feature is a single geometry of a topology object, with its arcs
// resolved into coordinates.
type Feature struct {
	// ID is the geometry's identifier. For county topologies this
	// is the FIPS code.
	ID int

	// HasID indicates whether the geometry carried an ID at all.
	HasID bool

	// Type is the TopoJSON geometry type, such as "Polygon" or
	// "MultiPolygon".
	Type string

	// Polygons is the resolved geometry. A Polygon geometry has
	// exactly one element. Geometries without area are empty.
	Polygons []Polygon
}

// Transform is a quantization transform.
type Transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

// Topology is a decoded TopoJSON document.
type Topology struct {
	Type      string                     `json:"type"`
	BBox      []float64                  `json:"bbox,omitempty"`
	Transform *Transform                 `json:"transform,omitempty"`
	Objects   map[string]json.RawMessage `json:"objects"`
	Arcs      [][][]float64              `json:"arcs"`

	// decoded holds arcs in absolute coordinates, computed on
	// first use.
	decoded []Ring
}

// geometry is a TopoJSON geometry object. Arcs is left raw because
// its nesting depth depends on Type.
type geometry struct {
	Type       string          `json:"type"`
	ID         json.RawMessage `json:"id,omitempty"`
	Arcs       json.RawMessage `json:"arcs,omitempty"`
	Geometries []geometry      `json:"geometries,omitempty"`
}

// Decode reads a topology document from r.
func Decode(r io.Reader) (*Topology, error) {
	var t Topology
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decoding topology: %w", err)
	}
	if t.Type != "Topology" {
		return nil, fmt.Errorf("decoding topology: type is %q, want \"Topology\"", t.Type)
	}
	return &t, nil
}

// ObjectNames returns the sorted names of the topology's objects.
func (t *Topology) ObjectNames() []string {
	names := make([]string, 0, len(t.Objects))
	for name := range t.Objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Features converts the named object into features. If the object is
// a GeometryCollection, it returns one feature per member geometry,
// in document order. Otherwise it returns a single feature.
func (t *Topology) Features(object string) ([]Feature, error) {
	raw, ok := t.Objects[object]
	if !ok {
		return nil, fmt.Errorf("topology has no object %q (have %s)", object, strings.Join(t.ObjectNames(), ", "))
	}
	var g geometry
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decoding object %q: %w", object, err)
	}
	t.decodeArcs()

	members := []geometry{g}
	if g.Type == "GeometryCollection" {
		members = g.Geometries
	}
	features := make([]Feature, 0, len(members))
	for i, m := range members {
		f, err := t.feature(m)
		if err != nil {
			return nil, fmt.Errorf("object %q geometry %d: %w", object, i, err)
		}
		features = append(features, f)
	}
	return features, nil
}

func (t *Topology) feature(g geometry) (Feature, error) {
	f := Feature{Type: g.Type}
	if len(g.ID) > 0 && string(g.ID) != "null" {
		id, err := parseID(g.ID)
		if err != nil {
			return f, err
		}
		f.ID, f.HasID = id, true
	}

	switch g.Type {
	case "Polygon":
		var rings [][]int
		if err := json.Unmarshal(g.Arcs, &rings); err != nil {
			return f, fmt.Errorf("decoding Polygon arcs: %w", err)
		}
		p, err := t.polygon(rings)
		if err != nil {
			return f, err
		}
		f.Polygons = []Polygon{p}

	case "MultiPolygon":
		var polys [][][]int
		if err := json.Unmarshal(g.Arcs, &polys); err != nil {
			return f, fmt.Errorf("decoding MultiPolygon arcs: %w", err)
		}
		for _, rings := range polys {
			p, err := t.polygon(rings)
			if err != nil {
				return f, err
			}
			f.Polygons = append(f.Polygons, p)
		}
	}
	return f, nil
}

// parseID accepts both numeric IDs and numeric strings such as
// "01001".
func parseID(raw json.RawMessage) (int, error) {
	s := string(raw)
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, fmt.Errorf("geometry id %s is not an integer", raw)
		}
		id = int(f)
	}
	return id, nil
}

func (t *Topology) polygon(rings [][]int) (Polygon, error) {
	p := make(Polygon, 0, len(rings))
	for _, arcs := range rings {
		r, err := t.ring(arcs)
		if err != nil {
			return nil, err
		}
		p = append(p, r)
	}
	return p, nil
}

// ring stitches arcs into a ring. Consecutive arcs share an endpoint,
// so the last point of each arc is dropped before appending the next.
func (t *Topology) ring(arcs []int) (Ring, error) {
	var r Ring
	for _, a := range arcs {
		rev := a < 0
		if rev {
			a = ^a
		}
		if a >= len(t.decoded) {
			return nil, fmt.Errorf("arc index %d out of range [0,%d)", a, len(t.decoded))
		}
		if len(r) > 0 {
			r = r[:len(r)-1]
		}
		arc := t.decoded[a]
		if rev {
			for i := len(arc) - 1; i >= 0; i-- {
				r = append(r, arc[i])
			}
		} else {
			r = append(r, arc...)
		}
	}
	// Rings with fewer than four points are degenerate. Pad them
	// the way topojson-client does so they still close.
	for len(r) > 0 && len(r) < 4 {
		r = append(r, r[0])
	}
	return r, nil
}

// decodeArcs converts t.Arcs to absolute coordinates, undoing
// delta-encoding and quantization if t has a transform.
func (t *Topology) decodeArcs() {
	if t.decoded != nil {
		return
	}
	t.decoded = make([]Ring, len(t.Arcs))
	for i, arc := range t.Arcs {
		out := make(Ring, len(arc))
		var x, y float64
		for j, pos := range arc {
			if len(pos) < 2 {
				continue
			}
			if t.Transform == nil {
				out[j] = Point{pos[0], pos[1]}
				continue
			}
			x += pos[0]
			y += pos[1]
			out[j] = Point{
				x*t.Transform.Scale[0] + t.Transform.Translate[0],
				y*t.Transform.Scale[1] + t.Transform.Translate[1],
			}
		}
		t.decoded[i] = out
	}
}
