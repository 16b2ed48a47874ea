// Package pdftest builds small single-page form templates for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/vredrick/cofa-passport/internal/fieldmap"
)

// Kind is the interactive field type of a template field.
type Kind int

const (
	Text Kind = iota
	Check
)

// Field describes one interactive field on the generated page.
type Field struct {
	Name string
	Kind Kind
	Rect [4]float64
	// Split emits the field and its widget as separate parent and kid objects.
	Split bool
}

// Heading is drawn at the top of every generated page.
const Heading = "PASSPORT APPLICATION"

type writer struct {
	buf     bytes.Buffer
	offsets []int
}

func (w *writer) object(body string) {
	w.offsets = append(w.offsets, w.buf.Len())
	fmt.Fprintf(&w.buf, "%d 0 obj\n%s\nendobj\n", len(w.offsets), body)
}

// Template returns a PDF 1.4 document with one 612x792 page carrying the
// given fields in its AcroForm.
func Template(fields ...Field) []byte {
	const (
		catalogObj = 1
		pagesObj   = 2
		pageObj    = 3
		formObj    = 4
		fontObj    = 5
		contentObj = 6
		firstField = 7
	)

	var (
		topLevel []string
		widgets  []string
		bodies   []string
	)
	next := firstField
	for _, f := range fields {
		rect := fmt.Sprintf("[%g %g %g %g]", f.Rect[0], f.Rect[1], f.Rect[2], f.Rect[3])
		ft := "/Tx"
		extra := " /DA (/Helv 0 Tf 0 g)"
		if f.Kind == Check {
			ft = "/Btn"
			extra = " /MK << /CA (4) >>"
		}
		if !f.Split {
			ref := fmt.Sprintf("%d 0 R", next)
			bodies = append(bodies, fmt.Sprintf(
				"<< /Type /Annot /Subtype /Widget /FT %s /T (%s) /Rect %s /F 4 /P %d 0 R%s >>",
				ft, f.Name, rect, pageObj, extra))
			topLevel = append(topLevel, ref)
			widgets = append(widgets, ref)
			next++
			continue
		}
		parent, kid := next, next+1
		bodies = append(bodies,
			fmt.Sprintf("<< /FT %s /T (%s) /Kids [%d 0 R]%s >>", ft, f.Name, kid, extra),
			fmt.Sprintf("<< /Type /Annot /Subtype /Widget /Parent %d 0 R /Rect %s /F 4 /P %d 0 R >>",
				parent, rect, pageObj))
		topLevel = append(topLevel, fmt.Sprintf("%d 0 R", parent))
		widgets = append(widgets, fmt.Sprintf("%d 0 R", kid))
		next += 2
	}

	stream := fmt.Sprintf("BT /F0 14 Tf 200 750 Td (%s) Tj ET\n", Heading)

	w := &writer{}
	w.buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	w.object(fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R /AcroForm %d 0 R >>", pagesObj, formObj))
	w.object(fmt.Sprintf("<< /Type /Pages /Kids [%d 0 R] /Count 1 >>", pageObj))
	w.object(fmt.Sprintf(
		"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F0 %d 0 R >> >> /Contents %d 0 R /Annots [%s] >>",
		pagesObj, fontObj, contentObj, strings.Join(widgets, " ")))
	w.object(fmt.Sprintf("<< /Fields [%s] /DR << /Font << /Helv %d 0 R >> >> /DA (/Helv 0 Tf 0 g) >>",
		strings.Join(topLevel, " "), fontObj))
	w.object("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	w.object(fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(stream), stream))
	for _, b := range bodies {
		w.object(b)
	}

	xref := w.buf.Len()
	fmt.Fprintf(&w.buf, "xref\n0 %d\n", len(w.offsets)+1)
	w.buf.WriteString("0000000000 65535 f \n")
	for _, off := range w.offsets {
		fmt.Fprintf(&w.buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&w.buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(w.offsets)+1, catalogObj, xref)
	return w.buf.Bytes()
}

// RegistryFields lays out one template field per registry entry. Text
// fields sit under their drawing position; checkboxes are placed on a
// 10pt grid near the bottom of the page. Names listed in omit are skipped.
func RegistryFields(reg *fieldmap.Registry, omit ...string) []Field {
	skip := map[string]bool{}
	for _, id := range omit {
		skip[id] = true
	}

	var (
		out    []Field
		checks int
	)
	for _, e := range reg.Entries() {
		if e.ID == "" || skip[e.ID] {
			continue
		}
		switch e.Kind {
		case fieldmap.Text:
			out = append(out, Field{
				Name: e.ID,
				Kind: Text,
				Rect: [4]float64{e.Pos.X, e.Pos.Y, e.Pos.X + e.Pos.MaxWidth, e.Pos.Y + 12},
			})
		case fieldmap.Check:
			x := 20 + float64(checks%20)*25
			y := 40 + float64(checks/20)*20
			out = append(out, Field{
				Name:  e.ID,
				Kind:  Check,
				Rect:  [4]float64{x, y, x + 10, y + 10},
				Split: checks%2 == 1,
			})
			checks++
		}
	}
	return out
}

// FSMTemplate is a stand-in for the FSM application template with every
// registry field present.
func FSMTemplate(omit ...string) []byte {
	return Template(RegistryFields(fieldmap.FSM(), omit...)...)
}

// RectOf returns the rectangle RegistryFields assigned to id.
func RectOf(fields []Field, id string) ([4]float64, bool) {
	for _, f := range fields {
		if f.Name == id {
			return f.Rect, true
		}
	}
	return [4]float64{}, false
}
