package content

import (
	"github.com/pdfcpu/pdfcpu/pkg/font"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"
)

// Helvetica is the PostScript name of the core font used for all text.
const Helvetica = "Helvetica"

// Font sizing for drawn values, in points.
const (
	BaseSize  = 8.0
	FloorSize = 5.0
	SizeStep  = 0.5
)

// Encode converts s to WinAnsiEncoding. Runes outside the code page become '?'.
func Encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := charmap.Windows1252.EncodeRune(r); ok {
			out = append(out, b)
			continue
		}
		out = append(out, '?')
	}
	return out
}

// Escape renders b as the body of a PDF literal string.
func Escape(b []byte) string {
	s, _ := types.Escape(string(b))
	return *s
}

// Upper folds s to upper case.
func Upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// Width is the advance width of s in Helvetica at size points, measured on
// the WinAnsi bytes that Text draws.
func Width(s string, size float64) float64 {
	return font.TextWidth(string(Encode(s)), Helvetica, 1000) * size / 1000
}

// FitSize shrinks base by step until s fits in maxWidth or the floor is
// reached. The result never exceeds base.
func FitSize(s string, base, floor, step, maxWidth float64) float64 {
	size := base
	for size > floor && Width(s, size) > maxWidth {
		size -= step
	}
	return size
}
