package application

import (
	"fmt"
)

// TriState is an answer that starts out unanswered and must be resolved to
// yes or no before submission.
type TriState int

const (
	TriUnset TriState = iota
	Yes
	No
)

// ParseTriState parses the wire form ("", "yes", "no").
func ParseTriState(s string) (TriState, error) {
	switch s {
	case "":
		return TriUnset, nil
	case "yes":
		return Yes, nil
	case "no":
		return No, nil
	default:
		return TriUnset, fmt.Errorf("invalid tri-state %q", s)
	}
}

func (t TriState) String() string {
	switch t {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return ""
	}
}

// Answered reports whether the tri-state has been resolved.
func (t TriState) Answered() bool {
	return t == Yes || t == No
}

func (t TriState) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TriState) UnmarshalText(b []byte) error {
	v, err := ParseTriState(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// DocumentType is the passport category being applied for.
type DocumentType int

const (
	DocumentUnset DocumentType = iota
	Ordinary
	Official
	Diplomatic
)

// ParseDocumentType parses the wire form ("", "ordinary", "official", "diplomatic").
func ParseDocumentType(s string) (DocumentType, error) {
	switch s {
	case "":
		return DocumentUnset, nil
	case "ordinary":
		return Ordinary, nil
	case "official":
		return Official, nil
	case "diplomatic":
		return Diplomatic, nil
	default:
		return DocumentUnset, fmt.Errorf("invalid passport type %q", s)
	}
}

func (d DocumentType) String() string {
	switch d {
	case Ordinary:
		return "ordinary"
	case Official:
		return "official"
	case Diplomatic:
		return "diplomatic"
	default:
		return ""
	}
}

func (d DocumentType) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DocumentType) UnmarshalText(b []byte) error {
	v, err := ParseDocumentType(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Gender is the title printed on the form.
type Gender int

const (
	GenderUnset Gender = iota
	Miss
	Mrs
	Ms
	Mr
)

// ParseGender parses the wire form ("", "miss", "mrs", "ms", "mr").
func ParseGender(s string) (Gender, error) {
	switch s {
	case "":
		return GenderUnset, nil
	case "miss":
		return Miss, nil
	case "mrs":
		return Mrs, nil
	case "ms":
		return Ms, nil
	case "mr":
		return Mr, nil
	default:
		return GenderUnset, fmt.Errorf("invalid title %q", s)
	}
}

func (g Gender) String() string {
	switch g {
	case Miss:
		return "miss"
	case Mrs:
		return "mrs"
	case Ms:
		return "ms"
	case Mr:
		return "mr"
	default:
		return ""
	}
}

func (g Gender) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *Gender) UnmarshalText(b []byte) error {
	v, err := ParseGender(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// CitizenshipMethod is how the applicant acquired citizenship.
type CitizenshipMethod int

const (
	CitizenshipUnset CitizenshipMethod = iota
	ByBirth
	ByNaturalization
	ByOther
)

// ParseCitizenshipMethod parses the wire form ("", "birth", "naturalization", "other").
func ParseCitizenshipMethod(s string) (CitizenshipMethod, error) {
	switch s {
	case "":
		return CitizenshipUnset, nil
	case "birth":
		return ByBirth, nil
	case "naturalization":
		return ByNaturalization, nil
	case "other":
		return ByOther, nil
	default:
		return CitizenshipUnset, fmt.Errorf("invalid citizenship method %q", s)
	}
}

func (c CitizenshipMethod) String() string {
	switch c {
	case ByBirth:
		return "birth"
	case ByNaturalization:
		return "naturalization"
	case ByOther:
		return "other"
	default:
		return ""
	}
}

func (c CitizenshipMethod) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *CitizenshipMethod) UnmarshalText(b []byte) error {
	v, err := ParseCitizenshipMethod(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
