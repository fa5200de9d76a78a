// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package choropleth

import (
	"fmt"
	"sync"

	"github.com/countymaps/choropleth/internal/dataset"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Tooltip geometry. The tooltip sits up and to the right of the
// pointer and its box is the text bounds plus tooltipPad.
const (
	tooltipDX     = 10
	tooltipDY     = -10
	tooltipPad    = 20
	tooltipWidth  = 120
	tooltipHeight = 50

	// tooltipFontSize is .8em of the browser default 16px.
	tooltipFontSize = 12.8
)

// TooltipText returns the tooltip label of r.
func TooltipText(r dataset.Record) string {
	return fmt.Sprintf("%s, %s: %s%%", r.AreaName, r.State, formatNumber(r.BachelorsOrHigher))
}

// Tooltip is the hover overlay. It is either hidden or showing the
// label of one matched county.
type Tooltip struct {
	Visible bool

	// X and Y are the position of the overlay's top-left corner.
	X, Y float64

	// Text is the current label.
	Text string

	// Education is the attainment value of the hovered county, as
	// written to the overlay's data-education attribute. It is ""
	// until the first hover.
	Education string

	// Width and Height are the size of the overlay's box.
	Width, Height float64

	measure func(s string) (w, h float64)
}

// NewTooltip returns a hidden tooltip that measures text with the Go
// regular font.
func NewTooltip() *Tooltip {
	return &Tooltip{Width: tooltipWidth, Height: tooltipHeight, measure: measureText}
}

// Hover shows the label of c with the pointer at (px, py), in the
// same coordinate space as the tooltip. Unmatched counties have no
// label and leave the tooltip unchanged. Hover reports whether the
// tooltip was updated.
func (t *Tooltip) Hover(c *County, px, py float64) bool {
	if !c.Matched {
		return false
	}
	t.Visible = true
	t.Education = formatNumber(c.Record.BachelorsOrHigher)
	t.X, t.Y = px+tooltipDX, py+tooltipDY
	t.Text = c.Label()
	t.Width, t.Height = t.Box(t.Text)
	return true
}

// Leave hides the tooltip. Its last label and position are kept.
func (t *Tooltip) Leave() {
	t.Visible = false
}

// Box returns the size of the box that fits label.
func (t *Tooltip) Box(label string) (w, h float64) {
	m := t.measure
	if m == nil {
		m = measureText
	}
	w, h = m(label)
	return w + tooltipPad, h + tooltipPad
}

var (
	faceOnce sync.Once
	face     font.Face
)

// tooltipFace returns the face tooltip text is measured with. If the
// Go font cannot be loaded it falls back to a fixed 7x13 face.
func tooltipFace() font.Face {
	faceOnce.Do(func() {
		face = basicfont.Face7x13
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return
		}
		of, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    tooltipFontSize,
			DPI:     72,
			Hinting: font.HintingNone,
		})
		if err != nil {
			return
		}
		face = of
	})
	return face
}

// measureText returns the advance width and line height of s.
func measureText(s string) (w, h float64) {
	f := tooltipFace()
	adv := font.MeasureString(f, s)
	return float64(adv) / 64, float64(f.Metrics().Height) / 64
}
