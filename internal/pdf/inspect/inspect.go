// Package inspect reads back what a template or filled document contains:
// its interactive fields and its page text.
package inspect

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/vredrick/cofa-passport/internal/fieldmap"
	"github.com/vredrick/cofa-passport/internal/pdf/form"
)

// maxTextSize caps the text returned by Text.
const maxTextSize = 10 * 1024 * 1024

// PageBreak separates the text of consecutive pages.
const PageBreak = "\n\n--- Page Break ---\n\n"

// FieldInfo describes one terminal form field.
type FieldInfo struct {
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Value    string      `json:"value,omitempty"`
	ReadOnly bool        `json:"read_only"`
	Rects    []form.Rect `json:"rects,omitempty"`
}

// Report summarizes a document.
type Report struct {
	Pages   int         `json:"pages"`
	HasForm bool        `json:"has_form"`
	Fields  []FieldInfo `json:"fields"`
	Text    string      `json:"text,omitempty"`
}

// Fields lists the terminal fields of b. A field counts as read-only when it
// or any ancestor has the read-only flag.
func Fields(b []byte) ([]FieldInfo, error) {
	ctx, err := form.Open(b)
	if err != nil {
		return nil, err
	}
	return fieldsOf(ctx)
}

func fieldsOf(ctx *model.Context) ([]FieldInfo, error) {
	var out []FieldInfo
	locked := map[string]bool{}

	err := form.Walk(ctx, func(f form.Field) error {
		ro := form.ReadOnly(ctx, f.Dict)
		if parent := parentName(f.Name); parent != "" && locked[parent] {
			ro = true
		}
		locked[f.Name] = ro
		if !f.Terminal {
			return nil
		}

		info := FieldInfo{
			Name:     f.Name,
			Type:     f.Type,
			Value:    form.Value(ctx, f.Dict),
			ReadOnly: ro,
		}
		for _, w := range f.Widgets {
			if r, ok := form.WidgetRect(ctx, w); ok {
				info.Rects = append(info.Rects, r)
			}
		}
		out = append(out, info)
		return nil
	})
	return out, err
}

func parentName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return ""
}

// Text extracts the plain text of every page with ledongthuc/pdf.
func Text(b []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var builder strings.Builder
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if builder.Len()+len(content) > maxTextSize {
			builder.WriteString(content[:maxTextSize-builder.Len()])
			break
		}
		builder.WriteString(content)

		if pageNum < r.NumPage() {
			builder.WriteString(PageBreak)
		}
	}
	return builder.String(), nil
}

// Inspect builds a full report. Text extraction failures leave Text empty.
func Inspect(b []byte, withText bool) (*Report, error) {
	ctx, err := form.Open(b)
	if err != nil {
		return nil, err
	}
	acroForm, err := form.AcroForm(ctx)
	if err != nil {
		return nil, err
	}
	fields, err := fieldsOf(ctx)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Pages:   ctx.PageCount,
		HasForm: acroForm != nil,
		Fields:  fields,
	}
	if withText {
		rep.Text, _ = Text(b)
	}
	return rep, nil
}

// Coverage compares a registry against the fields of a template.
type Coverage struct {
	// Missing are registry identifiers absent from the template.
	Missing []string `json:"missing"`
	// Unmapped are template fields no registry entry refers to.
	Unmapped []string `json:"unmapped"`
	// KindMismatch are identifiers whose template type does not suit the entry.
	KindMismatch []string `json:"kind_mismatch"`
}

// OK reports whether every registry entry has a matching template field.
func (c Coverage) OK() bool {
	return len(c.Missing) == 0 && len(c.KindMismatch) == 0
}

// Check compares reg against the fields of template bytes b.
func Check(reg *fieldmap.Registry, b []byte) (Coverage, error) {
	fields, err := Fields(b)
	if err != nil {
		return Coverage{}, err
	}

	byName := make(map[string]FieldInfo, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	var cov Coverage
	used := map[string]bool{}
	for _, e := range reg.Entries() {
		if e.ID == "" {
			continue
		}
		used[e.ID] = true
		f, ok := byName[e.ID]
		if !ok {
			cov.Missing = append(cov.Missing, e.ID)
			continue
		}
		want := "Tx"
		if e.Kind == fieldmap.Check {
			want = "Btn"
		}
		if f.Type != want {
			cov.KindMismatch = append(cov.KindMismatch, e.ID)
		}
	}
	for name := range byName {
		if !used[name] {
			cov.Unmapped = append(cov.Unmapped, name)
		}
	}
	sort.Strings(cov.Missing)
	sort.Strings(cov.Unmapped)
	sort.Strings(cov.KindMismatch)
	return cov, nil
}
