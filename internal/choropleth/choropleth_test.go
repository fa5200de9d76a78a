// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package choropleth

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/countymaps/choropleth/internal/colorscale"
	"github.com/countymaps/choropleth/internal/dataset"
	"github.com/countymaps/choropleth/internal/geo"
	"github.com/countymaps/choropleth/internal/topo"
)

// Four unit squares in a row: Autauga, Baldwin, a county with no
// statistics, and a shape with no id.
const testTopology = `{
  "type": "Topology",
  "objects": {
    "counties": {
      "type": "GeometryCollection",
      "geometries": [
        {"type": "Polygon", "id": 1001, "arcs": [[0]]},
        {"type": "Polygon", "id": 1003, "arcs": [[1]]},
        {"type": "Polygon", "id": 9999, "arcs": [[2]]},
        {"type": "Polygon", "arcs": [[3]]}
      ]
    }
  },
  "arcs": [
    [[0, 0], [1, 0], [1, 1], [0, 1], [0, 0]],
    [[1, 0], [2, 0], [2, 1], [1, 1], [1, 0]],
    [[2, 0], [3, 0], [3, 1], [2, 1], [2, 0]],
    [[3, 0], [4, 0], [4, 1], [3, 1], [3, 0]]
  ]
}`

var testRecords = []dataset.Record{
	{FIPS: 1001, State: "AL", AreaName: "Autauga", BachelorsOrHigher: 21.3},
	{FIPS: 1003, State: "AL", AreaName: "Baldwin County", BachelorsOrHigher: 28.6},
	{FIPS: 1005, State: "AL", AreaName: "Barbour County", BachelorsOrHigher: 5},
	{FIPS: 1003, State: "AL", AreaName: "Duplicate", BachelorsOrHigher: 50},
}

func testData(t *testing.T) *dataset.Data {
	t.Helper()
	tp, err := topo.Decode(strings.NewReader(testTopology))
	if err != nil {
		t.Fatal(err)
	}
	return &dataset.Data{Topology: tp, Records: testRecords}
}

func testScene(t *testing.T, opts Options) *Scene {
	t.Helper()
	s, err := Build(testData(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func mustCounty(t *testing.T, s *Scene, fips int) *County {
	t.Helper()
	c, ok := s.County(fips)
	if !ok {
		t.Fatalf("no county %d", fips)
	}
	return c
}

func TestDomain(t *testing.T) {
	s := testScene(t, Options{})
	if want := (colorscale.Domain{Min: 5, Max: 50}); s.Scale.Domain != want {
		t.Errorf("domain: want %v, got %v", want, s.Scale.Domain)
	}
	if s.Width != 1074 || s.Height != 868 {
		t.Errorf("canvas: want 1074x868, got %dx%d", s.Width, s.Height)
	}
}

func TestMatched(t *testing.T) {
	s := testScene(t, Options{})
	for _, test := range []struct {
		fips int
		want float64
	}{
		{1001, 21.3},
		// The first of duplicate records wins.
		{1003, 28.6},
	} {
		c := mustCounty(t, s, test.fips)
		if !c.Matched || c.Education != test.want {
			t.Errorf("county %d: want matched with %v, got %v %v", test.fips, test.want, c.Matched, c.Education)
		}
		if got, want := colorscale.CSS(c.Fill), colorscale.CSS(s.Scale.Map(test.want)); got != want {
			t.Errorf("county %d: want fill %s, got %s", test.fips, want, got)
		}
	}
}

func TestUnmatched(t *testing.T) {
	s := testScene(t, Options{})
	minFill := colorscale.CSS(s.Scale.Map(s.Scale.Domain.Min))
	c := mustCounty(t, s, 9999)
	if c.Matched || c.Education != 0 {
		t.Errorf("county 9999: want unmatched with 0, got %v %v", c.Matched, c.Education)
	}
	if got := colorscale.CSS(c.Fill); got != minFill {
		t.Errorf("county 9999: want fill %s, got %s", minFill, got)
	}
	if c.Label() != "" {
		t.Errorf("county 9999: want no label, got %q", c.Label())
	}
	noID := &s.Counties[3]
	if noID.HasFIPS || noID.Matched || colorscale.CSS(noID.Fill) != minFill {
		t.Errorf("shape without id: got %+v", noID)
	}
	if s.Unmatched != 2 {
		t.Errorf("want 2 unmatched, got %d", s.Unmatched)
	}
}

func TestNoDataFill(t *testing.T) {
	s := testScene(t, Options{NoDataFill: color.Gray{0xcc}})
	if got := colorscale.CSS(mustCounty(t, s, 9999).Fill); got != "#cccccc" {
		t.Errorf("want no-data fill #cccccc, got %s", got)
	}
	if got, want := colorscale.CSS(mustCounty(t, s, 1001).Fill), colorscale.CSS(s.Scale.Map(21.3)); got != want {
		t.Errorf("matched county: want %s, got %s", want, got)
	}
}

func TestProjection(t *testing.T) {
	d := testData(t)
	fs, err := d.Topology.Features("counties")
	if err != nil {
		t.Fatal(err)
	}

	s := testScene(t, Options{})
	if s.Projected {
		t.Errorf("Mercator applied by default")
	}
	if want := (geo.Path{}).D(fs[0]); s.Counties[0].D != want {
		t.Errorf("default path: want %q, got %q", want, s.Counties[0].D)
	}
	if s.Counties[0].D != "M0,0L1,0L1,1L0,1Z" {
		t.Errorf("default path: got %q", s.Counties[0].D)
	}

	m := DefaultMercator()
	if m.Scale != 500 || m.Translate != [2]float64{1024, 192} {
		t.Errorf("configured Mercator: got %+v", m)
	}
	if s.Mercator != m {
		t.Errorf("scene Mercator: want %+v, got %+v", m, s.Mercator)
	}

	is := testScene(t, Options{Projection: geo.Identity{}})
	if is.Projected || is.Counties[0].D != s.Counties[0].D {
		t.Errorf("explicit identity: Projected=%v, path %q", is.Projected, is.Counties[0].D)
	}

	ps := testScene(t, Options{Projection: m})
	if !ps.Projected {
		t.Errorf("Projected not set")
	}
	if want := (geo.Path{Projection: m}).D(fs[0]); ps.Counties[0].D != want {
		t.Errorf("projected path: want %q, got %q", want, ps.Counties[0].D)
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := Build(testData(t), Options{Object: "states"}); err == nil {
		t.Errorf("want error for missing object")
	}
	if _, err := Build(&dataset.Data{}, Options{}); err == nil {
		t.Errorf("want error for missing topology")
	}
}

func TestLegend(t *testing.T) {
	s := testScene(t, Options{})
	l := s.Legend
	if l.X != 724 || l.Y != 25 || l.Width != 300 || l.Height != 20 {
		t.Errorf("legend geometry: got %+v", l)
	}
	if len(l.Swatches) != 4 {
		t.Fatalf("want 4 swatches, got %d", len(l.Swatches))
	}
	// The gradients sample fixed percentages, not the domain.
	samples := []float64{0, 25, 50, 75, 100}
	for i, sw := range l.Swatches {
		if want := "gradient" + string(rune('1'+i)); sw.GradientID != want {
			t.Errorf("swatch %d: want id %s, got %s", i, want, sw.GradientID)
		}
		if want := 724 + 75*float64(i); sw.X != want || sw.Width != 75 {
			t.Errorf("swatch %d: want x=%v width=75, got x=%v width=%v", i, want, sw.X, sw.Width)
		}
		from, to := colorscale.CSS(s.Scale.Map(samples[i])), colorscale.CSS(s.Scale.Map(samples[i+1]))
		if colorscale.CSS(sw.From) != from || colorscale.CSS(sw.To) != to {
			t.Errorf("swatch %d: want %s..%s, got %s..%s", i, from, to, colorscale.CSS(sw.From), colorscale.CSS(sw.To))
		}
	}
	if LegendSamples != [5]float64{0, 25, 50, 75, 100} {
		t.Errorf("legend samples changed: %v", LegendSamples)
	}
}

func TestAxis(t *testing.T) {
	a := newAxis(colorscale.Domain{Min: 0, Max: 100}, 300)
	if len(a.Ticks) < 2 || len(a.Ticks) > legendTicks+1 {
		t.Fatalf("want 2..%d ticks, got %+v", legendTicks+1, a.Ticks)
	}
	first, last := a.Ticks[0], a.Ticks[len(a.Ticks)-1]
	if first.Label != "0%" || math.Abs(first.Pos) > 1e-9 {
		t.Errorf("first tick: got %+v", first)
	}
	if last.Label != "100%" || math.Abs(last.Pos-300) > 1e-9 {
		t.Errorf("last tick: got %+v", last)
	}

	// An awkward domain is niced outward, so every tick stays
	// within the axis.
	a = newAxis(colorscale.Domain{Min: 2.6, Max: 75.1}, 300)
	prev := -1.0
	for _, tk := range a.Ticks {
		if tk.Pos < -1e-9 || tk.Pos > 300+1e-9 || tk.Pos <= prev {
			t.Errorf("tick out of order or range: %+v", a.Ticks)
			break
		}
		if !strings.HasSuffix(tk.Label, "%") {
			t.Errorf("tick label %q lacks %%", tk.Label)
		}
		prev = tk.Pos
	}

	// The county dataset's domain gets an axis from 0% to 80% in
	// steps of 10%.
	if len(a.Ticks) != 9 {
		t.Fatalf("domain [2.6, 75.1]: want 9 ticks, got %+v", a.Ticks)
	}
	for i, tk := range a.Ticks {
		want := fmt.Sprintf("%d%%", 10*i)
		if tk.Label != want || math.Abs(tk.Pos-37.5*float64(i)) > 1e-9 {
			t.Errorf("tick %d: want %s at %v, got %+v", i, want, 37.5*float64(i), tk)
		}
	}

	// A degenerate domain still produces an axis.
	if a := newAxis(colorscale.Domain{Min: 5, Max: 5}, 300); len(a.Ticks) == 0 {
		t.Errorf("degenerate domain: no ticks")
	}
}

func TestTooltip(t *testing.T) {
	s := testScene(t, Options{})
	tip := s.Tooltip
	if tip.Visible || tip.Width != 120 || tip.Height != 50 {
		t.Errorf("initial tooltip: got %+v", tip)
	}

	if !tip.Hover(mustCounty(t, s, 1001), 100, 200) {
		t.Fatalf("Hover on matched county did nothing")
	}
	if !tip.Visible || tip.Text != "Autauga, AL: 21.3%" || tip.Education != "21.3" {
		t.Errorf("after hover: got %+v", tip)
	}
	if tip.X != 110 || tip.Y != 190 {
		t.Errorf("after hover: want position (110, 190), got (%v, %v)", tip.X, tip.Y)
	}
	w, h := measureText(tip.Text)
	if tip.Width != w+20 || tip.Height != h+20 || w <= 0 || h <= 0 {
		t.Errorf("after hover: want box %vx%v, got %vx%v", w+20, h+20, tip.Width, tip.Height)
	}

	// Hovering a county without statistics changes nothing.
	before := *tip
	if tip.Hover(mustCounty(t, s, 9999), 5, 5) {
		t.Errorf("Hover on unmatched county reported an update")
	}
	if tip.Visible != before.Visible || tip.Text != before.Text || tip.X != before.X {
		t.Errorf("Hover on unmatched county changed tooltip: %+v", tip)
	}

	tip.Leave()
	if tip.Visible {
		t.Errorf("tooltip visible after Leave")
	}
}

func TestTooltipText(t *testing.T) {
	for _, test := range []struct {
		r    dataset.Record
		want string
	}{
		{dataset.Record{AreaName: "Autauga", State: "AL", BachelorsOrHigher: 21.3}, "Autauga, AL: 21.3%"},
		{dataset.Record{AreaName: "Loving County", State: "TX", BachelorsOrHigher: 40}, "Loving County, TX: 40%"},
		{dataset.Record{AreaName: "Doña Ana County", State: "NM", BachelorsOrHigher: 26.05}, "Doña Ana County, NM: 26.05%"},
	} {
		if got := TooltipText(test.r); got != test.want {
			t.Errorf("want %q, got %q", test.want, got)
		}
	}
}

func TestTooltipBoxGrows(t *testing.T) {
	tip := NewTooltip()
	w1, h1 := tip.Box("A, AL: 1%")
	w2, h2 := tip.Box("A much longer county name, AL: 12.5%")
	if !(w2 > w1) || h1 != h2 {
		t.Errorf("want wider box for longer label with equal height, got %vx%v and %vx%v", w1, h1, w2, h2)
	}

	tip.measure = func(s string) (float64, float64) { return float64(len(s)), 10 }
	if w, h := tip.Box("abcd"); w != 24 || h != 30 {
		t.Errorf("fixed metrics: want 24x30, got %vx%v", w, h)
	}
}

// node is a parsed XML element.
type node struct {
	name     string
	attr     map[string]string
	text     string
	children []*node
}

func parseXML(t *testing.T, data []byte) *node {
	t.Helper()
	d := xml.NewDecoder(bytes.NewReader(data))
	root := &node{}
	stack := []*node{root}
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("parsing SVG: %v", err)
		}
		top := stack[len(stack)-1]
		switch tok := tok.(type) {
		case xml.StartElement:
			n := &node{name: tok.Name.Local, attr: map[string]string{}}
			for _, a := range tok.Attr {
				n.attr[a.Name.Local] = a.Value
			}
			top.children = append(top.children, n)
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			top.text += string(tok)
		}
	}
	return root
}

// find returns all elements under n for which pred is true, in
// document order.
func (n *node) find(pred func(*node) bool) []*node {
	var out []*node
	for _, c := range n.children {
		if pred(c) {
			out = append(out, c)
		}
		out = append(out, c.find(pred)...)
	}
	return out
}

func (n *node) byID(id string) *node {
	ns := n.find(func(c *node) bool { return c.attr["id"] == id })
	if len(ns) == 0 {
		return nil
	}
	return ns[0]
}

func renderSVG(t *testing.T, s *Scene) *node {
	t.Helper()
	var buf bytes.Buffer
	if err := s.WriteSVG(&buf); err != nil {
		t.Fatal(err)
	}
	return parseXML(t, buf.Bytes())
}

func TestWriteSVG(t *testing.T) {
	s := testScene(t, Options{})
	doc := renderSVG(t, s)

	root := doc.byID("choropleth")
	if root == nil || root.name != "svg" || root.attr["width"] != "1074" || root.attr["height"] != "868" {
		t.Fatalf("bad root element: %+v", root)
	}

	mapGroup := doc.byID("map")
	if mapGroup == nil || mapGroup.attr["transform"] != "translate(50, 50)" {
		t.Fatalf("bad map group: %+v", mapGroup)
	}
	paths := mapGroup.find(func(n *node) bool { return n.attr["class"] == "county" })
	if len(paths) != 4 {
		t.Fatalf("want 4 county paths, got %d", len(paths))
	}
	minFill := colorscale.CSS(s.Scale.Map(5))
	for _, test := range []struct {
		fips, education, fill, tip string
	}{
		{"1001", "21.3", colorscale.CSS(s.Scale.Map(21.3)), "Autauga, AL: 21.3%"},
		{"1003", "28.6", colorscale.CSS(s.Scale.Map(28.6)), "Baldwin County, AL: 28.6%"},
		{"9999", "0", minFill, ""},
		{"", "0", minFill, ""},
	} {
		var p *node
		for _, cand := range paths {
			if cand.attr["data-fips"] == test.fips {
				p = cand
			}
		}
		if p == nil {
			t.Errorf("no path with data-fips=%q", test.fips)
			continue
		}
		if p.attr["data-education"] != test.education || p.attr["fill"] != test.fill || p.attr["data-tip"] != test.tip {
			t.Errorf("path %q: want education=%s fill=%s tip=%q, got %v", test.fips, test.education, test.fill, test.tip, p.attr)
		}
		if _, ok := p.attr["data-tip-w"]; ok != (test.tip != "") {
			t.Errorf("path %q: data-tip-w present=%v", test.fips, ok)
		}
	}

	grads := doc.find(func(n *node) bool { return n.name == "linearGradient" })
	if len(grads) != 4 {
		t.Fatalf("want 4 gradients, got %d", len(grads))
	}
	for i, g := range grads {
		stops := g.find(func(n *node) bool { return n.name == "stop" })
		if len(stops) != 2 {
			t.Errorf("gradient %d: want 2 stops, got %d", i, len(stops))
			continue
		}
		want := []string{colorscale.CSS(s.Scale.Map(LegendSamples[i])), colorscale.CSS(s.Scale.Map(LegendSamples[i+1]))}
		if stops[0].attr["stop-color"] != want[0] || stops[1].attr["stop-color"] != want[1] {
			t.Errorf("gradient %d: want %v, got %s %s", i, want, stops[0].attr["stop-color"], stops[1].attr["stop-color"])
		}
	}

	legend := doc.byID("legend")
	if legend == nil {
		t.Fatalf("no legend")
	}
	rects := legend.find(func(n *node) bool { return n.name == "rect" })
	if len(rects) != 4 || !strings.Contains(rects[0].attr["style"], "url(#gradient1)") {
		t.Errorf("bad legend swatches: %+v", rects)
	}
	ticks := legend.find(func(n *node) bool { return n.attr["class"] == "tick" })
	if len(ticks) != len(s.Legend.Axis.Ticks) {
		t.Errorf("want %d ticks, got %d", len(s.Legend.Axis.Ticks), len(ticks))
	}

	tooltip := doc.byID("tooltip")
	if tooltip == nil || tooltip.attr["style"] != "display:none" {
		t.Fatalf("tooltip not hidden: %+v", tooltip)
	}
	// The tooltip is drawn after everything but the script.
	last := root.children[len(root.children)-1]
	if last.name != "script" || root.children[len(root.children)-2] != tooltip {
		t.Errorf("tooltip is not topmost")
	}
	if !strings.Contains(last.text, "data-tip") {
		t.Errorf("script does not read data-tip")
	}
}

func TestWriteSVGHover(t *testing.T) {
	s := testScene(t, Options{})
	s.Tooltip.Hover(mustCounty(t, s, 1001), 0, 0)
	doc := renderSVG(t, s)

	tooltip := doc.byID("tooltip")
	if tooltip == nil {
		t.Fatal("no tooltip")
	}
	if tooltip.attr["data-education"] != "21.3" {
		t.Errorf("want data-education=21.3, got %v", tooltip.attr)
	}
	if strings.Contains(tooltip.attr["style"], "display:none") {
		t.Errorf("tooltip hidden after hover")
	}
	if tooltip.attr["transform"] != "translate(10, -10)" {
		t.Errorf("want transform translate(10, -10), got %q", tooltip.attr["transform"])
	}
	if text := doc.byID("tooltip-text"); text == nil || text.text != "Autauga, AL: 21.3%" {
		t.Errorf("want tooltip text %q, got %+v", "Autauga, AL: 21.3%", text)
	}

	s.Tooltip.Leave()
	doc = renderSVG(t, s)
	if tooltip := doc.byID("tooltip"); tooltip.attr["style"] != "display:none" {
		t.Errorf("tooltip visible after Leave: %v", tooltip.attr)
	}
}

func TestWriteHTML(t *testing.T) {
	s := testScene(t, Options{Title: "Test <map>"})
	var buf bytes.Buffer
	if err := s.WriteHTML(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("missing doctype: %.40q", out)
	}
	if strings.Contains(out, "<?xml") {
		t.Errorf("XML declaration inside HTML")
	}
	if !strings.Contains(out, "<title>Test &lt;map&gt;</title>") {
		t.Errorf("title not escaped")
	}
	if !strings.Contains(out, `<svg`) || !strings.Contains(out, `id="choropleth"`) {
		t.Errorf("missing inline SVG")
	}
}

type failWriter struct{ n int }

func (w *failWriter) Write(p []byte) (int, error) {
	if w.n <= 0 {
		return 0, io.ErrShortWrite
	}
	w.n--
	return len(p), nil
}

func TestWriteSVGError(t *testing.T) {
	s := testScene(t, Options{})
	if err := s.WriteSVG(&failWriter{n: 3}); err != io.ErrShortWrite {
		t.Errorf("want ErrShortWrite, got %v", err)
	}
}
