// Package fieldmap is the registry that maps logical application fields to
// their targets on a fixed-layout form template.
//
// A target is addressed in one of two ways. Coordinate entries carry the
// page position where text is drawn. Named entries carry the identifier of an
// interactive field whose widget rectangle is resolved from the template.
package fieldmap

import (
	"fmt"
	"sort"
	"strings"
)

// Mode selects how an entry is addressed on the template.
type Mode int

const (
	Coordinate Mode = iota
	Named
)

func (m Mode) String() string {
	switch m {
	case Coordinate:
		return "coordinate"
	case Named:
		return "named"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Kind is what gets rendered at the target.
type Kind int

const (
	Text Kind = iota
	Check
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Check:
		return "check"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Pos is the bottom-left origin of a text baseline and the widest the
// rendered text may be, in PDF points.
type Pos struct {
	X, Y     float64
	MaxWidth float64
}

// Rect is an axis-aligned box in PDF points.
type Rect struct {
	X1, Y1, X2, Y2 float64
}

func (r Rect) Width() float64  { return r.X2 - r.X1 }
func (r Rect) Height() float64 { return r.Y2 - r.Y1 }

// Entry is one registry row.
type Entry struct {
	Field Field
	Kind  Kind
	Mode  Mode
	// ID is the template's interactive field name. Coordinate entries keep it
	// so the underlying (emptied) field can still be found.
	ID string
	// Pos is used by coordinate text entries.
	Pos Pos
	// Box is used by coordinate check entries.
	Box Rect
}

// Registry is an immutable set of entries keyed by logical field.
type Registry struct {
	name    string
	page    int
	entries map[Field]Entry
}

// New builds a registry. Entries are drawn on page (1-based).
func New(name string, page int, entries ...Entry) (*Registry, error) {
	r := &Registry{
		name:    name,
		page:    page,
		entries: make(map[Field]Entry, len(entries)),
	}
	for _, e := range entries {
		if _, dup := r.entries[e.Field]; dup {
			return nil, fmt.Errorf("fieldmap %s: field %s registered twice", name, e.Field)
		}
		r.entries[e.Field] = e
	}
	if err := r.Verify(); err != nil {
		return nil, err
	}
	return r, nil
}

// Name identifies the template layout this registry targets.
func (r *Registry) Name() string { return r.name }

// Page is the 1-based page the entries refer to.
func (r *Registry) Page() int { return r.page }

// Lookup returns the entry for f.
func (r *Registry) Lookup(f Field) (Entry, bool) {
	e, ok := r.entries[f]
	return e, ok
}

// Entries returns all entries ordered by field.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

// IDs returns the template identifiers referenced by the registry, sorted.
func (r *Registry) IDs() []string {
	var ids []string
	for _, e := range r.entries {
		if e.ID != "" {
			ids = append(ids, e.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

// Verify checks that no two entries resolve to the same identifier or the
// same coordinate target.
func (r *Registry) Verify() error {
	byID := map[string][]Field{}
	byTarget := map[string][]Field{}

	for _, e := range r.Entries() {
		if e.Mode == Named && e.ID == "" {
			return fmt.Errorf("fieldmap %s: named entry %s has no identifier", r.name, e.Field)
		}
		if e.ID != "" {
			byID[e.ID] = append(byID[e.ID], e.Field)
		}
		if e.Mode != Coordinate {
			continue
		}
		var key string
		switch e.Kind {
		case Text:
			if e.Pos.MaxWidth <= 0 {
				return fmt.Errorf("fieldmap %s: %s has no width", r.name, e.Field)
			}
			key = fmt.Sprintf("text@%g,%g", e.Pos.X, e.Pos.Y)
		case Check:
			if e.Box.Width() <= 0 || e.Box.Height() <= 0 {
				return fmt.Errorf("fieldmap %s: %s has an empty box", r.name, e.Field)
			}
			key = fmt.Sprintf("check@%g,%g", e.Box.X1, e.Box.Y1)
		}
		byTarget[key] = append(byTarget[key], e.Field)
	}

	var dups []string
	for id, fields := range byID {
		if len(fields) > 1 {
			dups = append(dups, fmt.Sprintf("%s shared by %v", id, fields))
		}
	}
	for target, fields := range byTarget {
		if len(fields) > 1 {
			dups = append(dups, fmt.Sprintf("%s shared by %v", target, fields))
		}
	}
	if len(dups) > 0 {
		sort.Strings(dups)
		return fmt.Errorf("fieldmap %s: duplicate targets: %s", r.name, strings.Join(dups, "; "))
	}
	return nil
}
