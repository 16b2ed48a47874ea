package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	assert.Equal(t, []byte("ROBERT"), Encode("ROBERT"))
	assert.Equal(t, []byte{'J', 0xE9}, Encode("Jé"))
	assert.Equal(t, []byte{0x80}, Encode("€"))
	assert.Equal(t, []byte("A?B"), Encode("A中B"))
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `SMITH \(JR\)`, Escape([]byte("SMITH (JR)")))
	assert.Equal(t, `C:\\TEMP`, Escape([]byte(`C:\TEMP`)))
	assert.Equal(t, `A\nB`, Escape([]byte("A\nB")))
	assert.Equal(t, "J\xe9", Escape(Encode("Jé")))
}

func TestUpper(t *testing.T) {
	assert.Equal(t, "DE LA CRUZ", Upper("de la Cruz"))
	assert.Equal(t, "STRASSE", Upper("straße"))
	assert.Equal(t, "", Upper(""))
}

func TestWidth(t *testing.T) {
	assert.Zero(t, Width("", BaseSize))
	assert.Greater(t, Width("W", BaseSize), Width("i", BaseSize))
	assert.InDelta(t, Width("ROBERT", 8)/2, Width("ROBERT", 4), 1e-9)

	// accented capitals share the advance of the base letter
	assert.InDelta(t, Width("ELODIE", 8), Width("ÉLODIE", 8), 1e-9)
	assert.InDelta(t, Width("MUNOZ", 8), Width("MUÑOZ", 8), 1e-9)
}

func TestFitSize(t *testing.T) {
	short := "LEE"
	assert.Equal(t, BaseSize, FitSize(short, BaseSize, FloorSize, SizeStep, 100))

	long := strings.Repeat("W", 80)
	assert.Equal(t, FloorSize, FitSize(long, BaseSize, FloorSize, SizeStep, 10))

	mid := "123 MAIN ST, HONOLULU, HI, 96819, USA"
	limit := Width(mid, 6.5)
	assert.Equal(t, 6.5, FitSize(mid, BaseSize, FloorSize, SizeStep, limit))

	// never grows, even with room to spare
	assert.Equal(t, 7.0, FitSize(mid, 7, FloorSize, SizeStep, 10000))
}

func TestFitSize_NonASCII(t *testing.T) {
	wide := strings.Repeat("Œ", 20)
	assert.Equal(t, FloorSize, FitSize(wide, BaseSize, FloorSize, SizeStep, 100))

	for _, s := range []string{
		"ÉLODIE",
		"MUÑOZ-GÖTZE",
		strings.Repeat("Œ", 12),
		"€ 1.000",
		"ŠTĚPÁNEK",
	} {
		for _, maxWidth := range []float64{20, 40, 60, 80} {
			size := FitSize(s, BaseSize, FloorSize, SizeStep, maxWidth)
			if size > FloorSize {
				assert.LessOrEqual(t, Width(s, size), maxWidth, "%q in %v", s, maxWidth)
			}
		}
	}
}

func TestFitSize_Monotone(t *testing.T) {
	s := "HONOLULU INTERNATIONAL"
	prev := BaseSize
	for w := 200.0; w >= 0; w -= 10 {
		size := FitSize(s, BaseSize, FloorSize, SizeStep, w)
		assert.LessOrEqual(t, size, prev, "width %v", w)
		assert.GreaterOrEqual(t, size, FloorSize)
		prev = size
	}
}

func TestBuilder_Text(t *testing.T) {
	var b Builder
	b.Text("F1", 7.5, 77, 601, "O'NEIL (JR)")

	assert.Equal(t, 1, b.Len())
	assert.Equal(t, "q\nBT /F1 7.5 Tf 0 g 77 601 Td (O'NEIL \\(JR\\)) Tj ET\nQ\n", string(b.Bytes()))
}

func TestBuilder_CheckMark(t *testing.T) {
	var b Builder
	b.CheckMark(Rect{X1: 50, Y1: 700, X2: 60, Y2: 710}, CheckStroke)

	assert.Equal(t, 2, b.Len())
	want := "q\n" +
		"q 1.20 w 0.00 0.00 0.00 RG 51.50 704.50 m 54.00 701.50 l s Q \n" +
		"q 1.20 w 0.00 0.00 0.00 RG 54.00 701.50 m 58.50 708.50 l s Q \n" +
		"Q\n"
	assert.Equal(t, want, string(b.Bytes()))
}

func TestNum(t *testing.T) {
	assert.Equal(t, "8", num(8))
	assert.Equal(t, "7.5", num(7.5))
	assert.Equal(t, "0.33", num(1.0/3))
	assert.Equal(t, "0", num(-0.001))
	assert.Equal(t, "-3.25", num(-3.25))
}
