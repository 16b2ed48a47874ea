// Package application holds the data model for one passport application:
// the passport type, the applicant and both parents.
//
// Records are plain values. Copying a Record yields an independent value;
// none of the nested types hold pointers, slices or maps.
package application

import (
	"strings"
)

type (
	// Address is a postal address. Unit is optional.
	Address struct {
		Street  string `json:"street" yaml:"street"`
		Unit    string `json:"unit,omitempty" yaml:"unit,omitempty"`
		City    string `json:"city" yaml:"city"`
		State   string `json:"state" yaml:"state"`
		Zip     string `json:"zip" yaml:"zip"`
		Country string `json:"country" yaml:"country"`
	}

	// PriorDocument describes a previously held passport. Its fields are
	// required together, and only when the applicant says they held one.
	PriorDocument struct {
		Country        string `json:"country" yaml:"country"`
		Date           string `json:"date" yaml:"date"`
		PassportNumber string `json:"passportNumber" yaml:"passportNumber"`
	}

	Applicant struct {
		LastName           string            `json:"lastName" yaml:"lastName"`
		MiddleName         string            `json:"middleName" yaml:"middleName"`
		FirstName          string            `json:"firstName" yaml:"firstName"`
		OtherNames         string            `json:"otherNames" yaml:"otherNames"`
		DateOfBirth        string            `json:"dateOfBirth" yaml:"dateOfBirth"`
		Gender             Gender            `json:"gender" yaml:"gender"`
		HeightFeet         string            `json:"heightFeet" yaml:"heightFeet"`
		HeightInches       string            `json:"heightInches" yaml:"heightInches"`
		HairColor          string            `json:"hairColor" yaml:"hairColor"`
		EyeColor           string            `json:"eyeColor" yaml:"eyeColor"`
		BirthPlace         string            `json:"birthPlace" yaml:"birthPlace"`
		HomeAddress        Address           `json:"homeAddress" yaml:"homeAddress"`
		ShippingAddress    Address           `json:"shippingAddress" yaml:"shippingAddress"`
		ShippingSameAsHome bool              `json:"shippingAddressSameAsHome" yaml:"shippingAddressSameAsHome"`
		Email              string            `json:"email" yaml:"email"`
		Phone              string            `json:"phone" yaml:"phone"`
		PreviousPassport   TriState          `json:"previousPassport" yaml:"previousPassport"`
		PreviousDetails    PriorDocument     `json:"previousPassportDetails" yaml:"previousPassportDetails"`
		Convicted          TriState          `json:"convicted" yaml:"convicted"`
		ConvictedDetail    string            `json:"convictedExplanation" yaml:"convictedExplanation"`
		NameChanged        TriState          `json:"nameChanged" yaml:"nameChanged"`
		NameChangedDetail  string            `json:"nameChangedExplanation" yaml:"nameChangedExplanation"`
		CitizenshipMethod  CitizenshipMethod `json:"citizenshipMethod" yaml:"citizenshipMethod"`
	}

	Parent struct {
		LastName    string   `json:"lastName" yaml:"lastName"`
		FirstName   string   `json:"firstName" yaml:"firstName"`
		MiddleName  string   `json:"middleName" yaml:"middleName"`
		BirthDate   string   `json:"birthDate" yaml:"birthDate"`
		BirthPlace  string   `json:"birthPlace" yaml:"birthPlace"`
		Citizen     TriState `json:"fsmCitizen" yaml:"fsmCitizen"`
		Nationality string   `json:"nationality" yaml:"nationality"`
	}

	// Record is one complete application.
	Record struct {
		PassportType DocumentType `json:"passportType" yaml:"passportType"`
		Applicant    Applicant    `json:"applicant" yaml:"applicant"`
		Father       Parent       `json:"father" yaml:"father"`
		Mother       Parent       `json:"mother" yaml:"mother"`
	}
)

// Parent labels personalize validation messages.
const (
	FatherLabel = "Father"
	MotherLabel = "Mother"
)

// NewRecord returns an application with every field blank and every choice unset.
func NewRecord() Record {
	return Record{}
}

// Format joins the non-blank parts of the address with ", ".
// The unit, when present, follows the street. A fully blank address formats to "".
func (a Address) Format() string {
	return joinNonBlank(a.Street, a.Unit, a.City, a.State, a.Zip, a.Country)
}

// Summary joins country, issue date and number the same way addresses are joined.
func (p PriorDocument) Summary() string {
	return joinNonBlank(p.Country, p.Date, p.PassportNumber)
}

// PostalAddress is the address printed in the mailing slot of the form.
func (a Applicant) PostalAddress() Address {
	if a.ShippingSameAsHome {
		return a.HomeAddress
	}
	return a.ShippingAddress
}

// Parent returns the parent record with the given label and whether the label is known.
func (r Record) Parent(label string) (Parent, bool) {
	switch label {
	case FatherLabel:
		return r.Father, true
	case MotherLabel:
		return r.Mother, true
	default:
		return Parent{}, false
	}
}

func joinNonBlank(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
