// Package content builds PDF page content streams for the fill overlay:
// single-line text in a core font and stroked lines.
package content

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/color"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/draw"
)

// Rect is a box in PDF user space.
type Rect struct {
	X1, Y1, X2, Y2 float64
}

// CheckStroke is the line width of a drawn checkmark.
const CheckStroke = 1.2

// Checkmark vertices as fractions of the box width and height.
var checkPath = [3][2]float64{
	{0.15, 0.45},
	{0.40, 0.15},
	{0.85, 0.85},
}

// Builder accumulates content stream operators. The zero value is ready to use.
type Builder struct {
	buf bytes.Buffer
	ops int
}

// Text draws s with its baseline origin at (x, y) in black. font is the
// resource name the page's font dictionary uses, without the slash.
// The operators are written here because pdfcpu's text writers register
// their own font resources and lay out paragraphs.
func (b *Builder) Text(font string, size, x, y float64, s string) {
	fmt.Fprintf(&b.buf, "BT /%s %s Tf 0 g %s %s Td (%s) Tj ET\n",
		font, num(size), num(x), num(y), Escape(Encode(s)))
	b.ops++
}

// Line strokes a black segment from (x1, y1) to (x2, y2).
func (b *Builder) Line(x1, y1, x2, y2, width float64) {
	draw.DrawLine(&b.buf, x1, y1, x2, y2, width, &color.Black, nil)
	b.buf.WriteByte('\n')
	b.ops++
}

// CheckMark strokes a two-segment tick inside r.
func (b *Builder) CheckMark(r Rect, width float64) {
	w, h := r.X2-r.X1, r.Y2-r.Y1
	pt := func(i int) (float64, float64) {
		return r.X1 + w*checkPath[i][0], r.Y1 + h*checkPath[i][1]
	}
	x0, y0 := pt(0)
	x1, y1 := pt(1)
	x2, y2 := pt(2)
	b.Line(x0, y0, x1, y1, width)
	b.Line(x1, y1, x2, y2, width)
}

// Len is the number of drawing operations recorded.
func (b *Builder) Len() int { return b.ops }

// Bytes returns the stream wrapped in a saved graphics state.
func (b *Builder) Bytes() []byte {
	out := make([]byte, 0, b.buf.Len()+8)
	out = append(out, "q\n"...)
	out = append(out, b.buf.Bytes()...)
	out = append(out, "Q\n"...)
	return out
}

// num formats a coordinate with at most two decimals and no trailing zeros.
func num(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	if s == "-0" {
		return "0"
	}
	return s
}
