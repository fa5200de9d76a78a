// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package choropleth

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"io"
	"strconv"

	"github.com/ajstarks/svgo"
	"github.com/countymaps/choropleth/internal/colorscale"
)

// errWriter records the first error from w. svg.SVG discards write
// errors, so this is how rendering reports them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

// attr formats an XML attribute with an escaped value.
func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(value))
}

func fnum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteSVG writes the scene as a standalone SVG document. The
// document is drawn back to front: map, legend, then the tooltip on
// top, followed by the interaction script.
func (s *Scene) WriteSVG(w io.Writer) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(s.Width, s.Height, `id="choropleth"`)
	canvas.Title(s.Title)
	s.writeMap(canvas)
	s.writeLegend(canvas)
	s.writeTooltip(canvas)
	canvas.Script("application/ecmascript", interactScript)
	canvas.End()
	return ew.err
}

func (s *Scene) writeMap(canvas *svg.SVG) {
	canvas.Group(`id="map"`, fmt.Sprintf(`transform="translate(%d, %d)"`, Margin, Margin))
	canvas.Group(`class="counties"`)
	for i := range s.Counties {
		c := &s.Counties[i]
		attrs := []string{`class="county"`}
		if c.HasFIPS {
			attrs = append(attrs, attr("data-fips", strconv.Itoa(c.FIPS)))
		}
		attrs = append(attrs,
			attr("data-education", formatNumber(c.Education)),
			attr("fill", colorscale.CSS(c.Fill)))
		if c.Matched {
			attrs = append(attrs,
				attr("data-tip", c.Label()),
				attr("data-tip-w", fnum(c.TipWidth)),
				attr("data-tip-h", fnum(c.TipHeight)))
		}
		canvas.Path(c.D, attrs...)
	}
	canvas.Gend()
	canvas.Gend()
}

func (s *Scene) writeLegend(canvas *svg.SVG) {
	l := &s.Legend
	canvas.Def()
	for _, sw := range l.Swatches {
		canvas.LinearGradient(sw.GradientID, 0, 0, 100, 0, []svg.Offcolor{
			{Offset: 0, Color: colorscale.CSS(sw.From), Opacity: 1},
			{Offset: 100, Color: colorscale.CSS(sw.To), Opacity: 1},
		})
	}
	canvas.DefEnd()

	canvas.Gid("legend")
	for _, sw := range l.Swatches {
		canvas.Rect(int(sw.X), int(l.Y), int(sw.Width), int(l.Height),
			fmt.Sprintf("fill:url(#%s)", sw.GradientID))
	}

	a := &l.Axis
	canvas.Group(fmt.Sprintf(`transform="translate(%s, %s)"`, fnum(a.X), fnum(a.Y)),
		`fill="none"`, `font-size="10"`, `font-family="sans-serif"`, `text-anchor="middle"`)
	canvas.Path(fmt.Sprintf("M0,6V0H%sV6", fnum(a.Length)), `class="domain"`, `stroke="currentColor"`)
	for _, t := range a.Ticks {
		canvas.Group(`class="tick"`, fmt.Sprintf(`transform="translate(%s,0)"`, fnum(t.Pos)))
		canvas.Line(0, 0, 0, 6, `stroke="currentColor"`)
		canvas.Text(0, 9, t.Label, `fill="currentColor"`, `dy="0.71em"`)
		canvas.Gend()
	}
	canvas.Gend()
	canvas.Gend()
}

func (s *Scene) writeTooltip(canvas *svg.SVG) {
	t := s.Tooltip
	attrs := []string{`id="tooltip"`, `class="tooltip"`}
	if t.Education != "" {
		attrs = append(attrs, attr("data-education", t.Education))
	}
	if t.Visible {
		attrs = append(attrs, fmt.Sprintf(`transform="translate(%s, %s)"`, fnum(t.X), fnum(t.Y)))
	} else {
		attrs = append(attrs, "display:none")
	}
	canvas.Group(attrs...)
	canvas.Rect(0, 0, int(t.Width+0.5), int(t.Height+0.5), `id="tooltip-rect"`,
		`fill="white"`, `stroke="lightgray"`, `rx="5"`, `ry="5"`)
	canvas.Text(10, 20, t.Text, `id="tooltip-text"`, `dy=".35em"`, "font-size:.8em")
	canvas.Gend()
}

var htmlPage = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
    <head>
        <meta charset="utf-8">
        <title>{{.Title}}</title>
    </head>
    <body>
        <h1 id="title">{{.Title}}</h1>
        {{.SVG}}
    </body>
</html>
`))

// WriteHTML writes the scene as an HTML page with the SVG inline.
func (s *Scene) WriteHTML(w io.Writer) error {
	var buf bytes.Buffer
	if err := s.WriteSVG(&buf); err != nil {
		return err
	}
	// Drop the XML declaration, which is not valid inside HTML.
	body := buf.Bytes()
	if bytes.HasPrefix(body, []byte("<?xml")) {
		if i := bytes.IndexByte(body, '\n'); i >= 0 {
			body = body[i+1:]
		}
	}
	return htmlPage.Execute(w, struct {
		Title string
		SVG   template.HTML
	}{s.Title, template.HTML(body)})
}
