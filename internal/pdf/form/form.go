// Package form reads and walks the interactive form (AcroForm) of a PDF
// loaded with pdfcpu.
package form

import (
	"bytes"
	"fmt"
	"math"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// maxDepth bounds field tree recursion.
const maxDepth = 32

// FlagReadOnly is bit 1 of a field's Ff entry.
const FlagReadOnly = 1

// Field is one node of the field tree.
type Field struct {
	// Name is the fully qualified name, partial names joined by dots.
	Name string
	// Type is the inherited field type: Tx, Btn, Ch, Sig or empty.
	Type string
	Dict types.Dict
	// Widgets are the annotation dictionaries that display this field.
	Widgets []types.Dict
	// Terminal is false for fields that only group child fields.
	Terminal bool
}

// Rect is a widget rectangle normalized so X1 <= X2 and Y1 <= Y2.
type Rect struct {
	X1, Y1, X2, Y2 float64
}

// Open parses b with relaxed validation.
func Open(b []byte) (*model.Context, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(b), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}
	return ctx, nil
}

// AcroForm returns the document's form dictionary, or nil when there is none.
func AcroForm(ctx *model.Context) (types.Dict, error) {
	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}
	obj, found := rootDict.Find("AcroForm")
	if !found {
		return nil, nil
	}
	d, err := ctx.DereferenceDict(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	return d, nil
}

// Walk calls fn for every field in document order, parents before kids.
func Walk(ctx *model.Context, fn func(Field) error) error {
	acroForm, err := AcroForm(ctx)
	if err != nil || acroForm == nil {
		return err
	}
	fieldsObj, found := acroForm.Find("Fields")
	if !found {
		return nil
	}
	fields, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return fmt.Errorf("failed to dereference Fields array: %w", err)
	}
	for _, obj := range fields {
		if err := walk(ctx, obj, "", "", 0, fn); err != nil {
			return err
		}
	}
	return nil
}

func walk(ctx *model.Context, obj types.Object, parentName, parentType string, depth int, fn func(Field) error) error {
	if depth > maxDepth {
		return fmt.Errorf("field tree deeper than %d", maxDepth)
	}
	d, err := ctx.DereferenceDict(obj)
	if err != nil || d == nil {
		return nil
	}

	f := Field{
		Name: qualify(parentName, partialName(ctx, d)),
		Type: parentType,
		Dict: d,
	}
	if ft, found := d.Find("FT"); found {
		if name, err := ctx.DereferenceName(ft, model.V10, nil); err == nil {
			f.Type = name.Value()
		}
	}
	if _, found := d.Find("Rect"); found {
		f.Widgets = append(f.Widgets, d)
	}

	var children []types.Object
	if kidsObj, found := d.Find("Kids"); found {
		kids, err := ctx.DereferenceArray(kidsObj)
		if err == nil {
			for _, k := range kids {
				kd, err := ctx.DereferenceDict(k)
				if err != nil || kd == nil {
					continue
				}
				if _, named := kd.Find("T"); named {
					children = append(children, k)
					continue
				}
				f.Widgets = append(f.Widgets, kd)
			}
		}
	}
	f.Terminal = len(children) == 0

	if err := fn(f); err != nil {
		return err
	}
	for _, c := range children {
		if err := walk(ctx, c, f.Name, f.Type, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

func partialName(ctx *model.Context, d types.Dict) string {
	obj, found := d.Find("T")
	if !found {
		return ""
	}
	s, err := ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil)
	if err != nil {
		return ""
	}
	return s
}

func qualify(parent, partial string) string {
	switch {
	case parent == "":
		return partial
	case partial == "":
		return parent
	default:
		return parent + "." + partial
	}
}

// Find returns the terminal field named name.
func Find(ctx *model.Context, name string) (Field, bool, error) {
	var (
		out   Field
		found bool
	)
	err := Walk(ctx, func(f Field) error {
		if !found && f.Terminal && f.Name == name {
			out, found = f, true
		}
		return nil
	})
	return out, found, err
}

// WidgetRect reads the Rect entry of a widget annotation.
func WidgetRect(ctx *model.Context, w types.Dict) (Rect, bool) {
	obj, found := w.Find("Rect")
	if !found {
		return Rect{}, false
	}
	arr, err := ctx.DereferenceArray(obj)
	if err != nil || len(arr) != 4 {
		return Rect{}, false
	}
	var c [4]float64
	for i, o := range arr {
		v, err := ctx.DereferenceNumber(o)
		if err != nil {
			return Rect{}, false
		}
		c[i] = v
	}
	return Rect{
		X1: math.Min(c[0], c[2]),
		Y1: math.Min(c[1], c[3]),
		X2: math.Max(c[0], c[2]),
		Y2: math.Max(c[1], c[3]),
	}, true
}

// Flags returns the field's own Ff value, or zero.
func Flags(ctx *model.Context, d types.Dict) int {
	obj, found := d.Find("Ff")
	if !found {
		return 0
	}
	i, err := ctx.DereferenceInteger(obj)
	if err != nil || i == nil {
		return 0
	}
	return i.Value()
}

// ReadOnly reports whether bit 1 of Ff is set.
func ReadOnly(ctx *model.Context, d types.Dict) bool {
	return Flags(ctx, d)&FlagReadOnly != 0
}

// SetReadOnly sets bit 1 of the field's Ff entry, keeping other bits.
func SetReadOnly(ctx *model.Context, d types.Dict) {
	d["Ff"] = types.Integer(Flags(ctx, d) | FlagReadOnly)
}

// Value returns the field's V entry as text. Names (checkbox states) are
// returned without the slash.
func Value(ctx *model.Context, d types.Dict) string {
	obj, found := d.Find("V")
	if !found {
		return ""
	}
	if s, err := ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil); err == nil {
		return s
	}
	if n, err := ctx.DereferenceName(obj, model.V10, nil); err == nil {
		return n.Value()
	}
	return ""
}
