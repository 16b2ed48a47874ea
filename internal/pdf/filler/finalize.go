package filler

import (
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/vredrick/cofa-passport/internal/pdf/form"
)

// Finalize selects how the interactive form layer is disabled after drawing.
type Finalize int

const (
	// Lock marks every field read-only and keeps the (empty) form layer.
	Lock Finalize = iota
	// Strip removes the form layer and every widget annotation.
	Strip
)

func (s Finalize) String() string {
	switch s {
	case Lock:
		return "lock"
	case Strip:
		return "strip"
	default:
		return fmt.Sprintf("finalize(%d)", int(s))
	}
}

// ParseFinalize reads "lock" or "strip".
func ParseFinalize(s string) (Finalize, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lock", "":
		return Lock, nil
	case "strip":
		return Strip, nil
	default:
		return Lock, fmt.Errorf("unknown finalize strategy %q (want lock or strip)", s)
	}
}

func (s Finalize) apply(doc *model.Context) error {
	switch s {
	case Lock:
		return lockFields(doc)
	case Strip:
		return stripForm(doc)
	default:
		return fmt.Errorf("unknown finalize strategy %d", int(s))
	}
}

func lockFields(doc *model.Context) error {
	return form.Walk(doc, func(f form.Field) error {
		form.SetReadOnly(doc, f.Dict)
		return nil
	})
}

func stripForm(doc *model.Context) error {
	root, err := doc.Catalog()
	if err != nil {
		return fmt.Errorf("failed to get catalog: %w", err)
	}
	delete(root, "AcroForm")

	for nr := 1; nr <= doc.PageCount; nr++ {
		d, _, _, err := doc.PageDict(nr, false)
		if err != nil {
			return fmt.Errorf("failed to get page %d: %w", nr, err)
		}
		if d == nil {
			continue
		}
		if err := dropWidgets(doc, d); err != nil {
			return fmt.Errorf("page %d: %w", nr, err)
		}
	}
	return nil
}

func dropWidgets(doc *model.Context, pageDict types.Dict) error {
	obj, found := pageDict.Find("Annots")
	if !found {
		return nil
	}
	annots, err := doc.DereferenceArray(obj)
	if err != nil {
		return fmt.Errorf("failed to resolve annotations: %w", err)
	}

	kept := types.Array{}
	for _, a := range annots {
		d, err := doc.DereferenceDict(a)
		if err != nil || d == nil {
			continue
		}
		if st, ok := d.Find("Subtype"); ok {
			if name, err := doc.DereferenceName(st, model.V10, nil); err == nil && name.Value() == "Widget" {
				continue
			}
		}
		kept = append(kept, a)
	}

	if len(kept) == 0 {
		delete(pageDict, "Annots")
		return nil
	}
	pageDict["Annots"] = kept
	return nil
}
