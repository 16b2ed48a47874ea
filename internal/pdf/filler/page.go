package filler

import (
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/vredrick/cofa-passport/internal/fieldmap"
	"github.com/vredrick/cofa-passport/internal/pdf/content"
	pdferrors "github.com/vredrick/cofa-passport/internal/pdf/errors"
	"github.com/vredrick/cofa-passport/internal/pdf/form"
)

// fontResource is the preferred resource name for the added Helvetica font.
const fontResource = "FillHelv"

// namedInset keeps text drawn into a widget rectangle off its border.
const namedInset = 2.0

var (
	errNoWidget = errors.New("field has no widget rectangle")
	errNoField  = errors.New("no field with this name in template")
	errNoEntry  = errors.New("field not in registry")
)

// page collects drawing for one page and applies it on commit.
type page struct {
	doc    *model.Context
	dict   types.Dict
	fields map[string]form.Field
	b      content.Builder
	font   string
}

func openPage(doc *model.Context, nr int) (*page, error) {
	if nr < 1 || nr > doc.PageCount {
		return nil, fmt.Errorf("page %d out of range, document has %d", nr, doc.PageCount)
	}
	d, _, _, err := doc.PageDict(nr, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get page %d: %w", nr, err)
	}
	if d == nil {
		return nil, fmt.Errorf("page %d has no dictionary", nr)
	}

	p := &page{doc: doc, dict: d, fields: map[string]form.Field{}}
	err = form.Walk(doc, func(f form.Field) error {
		if f.Terminal {
			p.fields[f.Name] = f
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.font, err = addFont(doc, d)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// apply renders one operation. Any failure is scoped to that field.
func (p *page) apply(reg *fieldmap.Registry, op Op) (err error) {
	e, ok := reg.Lookup(op.Field)
	if !ok {
		return pdferrors.FieldError(pdferrors.ErrorTypeFieldUnresolved, op.Field.String(), "", errNoEntry)
	}

	defer func() {
		if r := recover(); r != nil {
			err = pdferrors.FieldError(pdferrors.ErrorTypeFieldWrite, op.Field.String(), e.ID, fmt.Errorf("panic: %v", r))
		}
	}()

	switch {
	case e.Kind == fieldmap.Text && e.Mode == fieldmap.Coordinate:
		p.drawText(op.Text, e.Pos.X, e.Pos.Y, e.Pos.MaxWidth)
		return nil

	case e.Kind == fieldmap.Check && e.Mode == fieldmap.Coordinate:
		p.b.CheckMark(content.Rect(e.Box), content.CheckStroke)
		return nil
	}

	f, ok := p.fields[e.ID]
	if !ok {
		return pdferrors.FieldError(pdferrors.ErrorTypeFieldUnresolved, op.Field.String(), e.ID, errNoField)
	}
	rects := p.widgetRects(f)
	if len(rects) == 0 {
		return pdferrors.FieldError(pdferrors.ErrorTypeFieldUnresolved, op.Field.String(), e.ID, errNoWidget)
	}

	switch e.Kind {
	case fieldmap.Check:
		for _, r := range rects {
			p.b.CheckMark(content.Rect(r), content.CheckStroke)
		}
	case fieldmap.Text:
		r := rects[0]
		p.drawText(op.Text, r.X1+namedInset, r.Y1+namedInset, r.X2-r.X1-2*namedInset)
	}
	return nil
}

func (p *page) drawText(s string, x, y, maxWidth float64) {
	size := content.FitSize(s, content.BaseSize, content.FloorSize, content.SizeStep, maxWidth)
	p.b.Text(p.font, size, x, y, s)
}

func (p *page) widgetRects(f form.Field) []form.Rect {
	var out []form.Rect
	for _, w := range f.Widgets {
		if r, ok := form.WidgetRect(p.doc, w); ok && r.X2 > r.X1 && r.Y2 > r.Y1 {
			out = append(out, r)
		}
	}
	return out
}

// commit appends the drawn content to the page, isolated from the existing
// content by a save/restore pair.
func (p *page) commit() error {
	if p.b.Len() == 0 {
		return nil
	}

	open, err := newStream(p.doc, []byte("q\n"))
	if err != nil {
		return err
	}
	closing, err := newStream(p.doc, append([]byte("Q\n"), p.b.Bytes()...))
	if err != nil {
		return err
	}

	contents := types.Array{*open}
	if obj, found := p.dict.Find("Contents"); found {
		existing, err := contentRefs(p.doc, obj)
		if err != nil {
			return err
		}
		contents = append(contents, existing...)
	}
	contents = append(contents, *closing)
	p.dict["Contents"] = contents
	return nil
}

func contentRefs(doc *model.Context, obj types.Object) (types.Array, error) {
	switch o := obj.(type) {
	case types.Array:
		return o, nil
	case types.IndirectRef:
		v, err := doc.Dereference(o)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve page contents: %w", err)
		}
		if arr, ok := v.(types.Array); ok {
			return arr, nil
		}
		return types.Array{o}, nil
	default:
		return nil, fmt.Errorf("unexpected page contents %T", obj)
	}
}

func newStream(doc *model.Context, buf []byte) (*types.IndirectRef, error) {
	sd, err := doc.NewStreamDictForBuf(buf)
	if err != nil {
		return nil, err
	}
	if err := sd.Encode(); err != nil {
		return nil, err
	}
	return doc.IndRefForNewObject(*sd)
}

// addFont registers a WinAnsi Helvetica in the page's font resources and
// returns the resource name it was given.
func addFont(doc *model.Context, pageDict types.Dict) (string, error) {
	res, err := pageResources(doc, pageDict)
	if err != nil {
		return "", err
	}

	var fonts types.Dict
	if obj, found := res.Find("Font"); found {
		if fonts, err = doc.DereferenceDict(obj); err != nil {
			return "", fmt.Errorf("failed to resolve font resources: %w", err)
		}
	}
	if fonts == nil {
		fonts = types.Dict{}
		res["Font"] = fonts
	}

	name := fontResource
	for i := 1; ; i++ {
		if _, taken := fonts[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s%d", fontResource, i)
	}

	ref, err := doc.IndRefForNewObject(types.Dict{
		"Type":     types.Name("Font"),
		"Subtype":  types.Name("Type1"),
		"BaseFont": types.Name(content.Helvetica),
		"Encoding": types.Name("WinAnsiEncoding"),
	})
	if err != nil {
		return "", err
	}
	fonts[name] = *ref
	return name, nil
}

// pageResources returns the page's own resource dictionary. Inherited
// resources are copied into a new dictionary on the page.
func pageResources(doc *model.Context, pageDict types.Dict) (types.Dict, error) {
	if obj, found := pageDict.Find("Resources"); found {
		d, err := doc.DereferenceDict(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve page resources: %w", err)
		}
		if d != nil {
			return d, nil
		}
	}

	res := types.Dict{}
	parentObj, found := pageDict.Find("Parent")
	for depth := 0; found && depth < 32; depth++ {
		parent, err := doc.DereferenceDict(parentObj)
		if err != nil || parent == nil {
			break
		}
		if obj, ok := parent.Find("Resources"); ok {
			if inherited, err := doc.DereferenceDict(obj); err == nil && inherited != nil {
				for k, v := range inherited {
					res[k] = v
				}
				break
			}
		}
		parentObj, found = parent.Find("Parent")
	}
	pageDict["Resources"] = res
	return res, nil
}
