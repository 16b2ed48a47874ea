package filler

import (
	"strings"

	"github.com/vredrick/cofa-passport/internal/application"
	"github.com/vredrick/cofa-passport/internal/fieldmap"
	"github.com/vredrick/cofa-passport/internal/pdf/content"
)

// Op is one value to render: text for text fields, a mark for checkboxes.
type Op struct {
	Field fieldmap.Field
	Kind  fieldmap.Kind
	// Text is the display string after formatting and case folding.
	Text string
}

type planner struct {
	ops []Op
}

// text queues value for f unless it is blank. Everything except the email
// address is upper-cased.
func (p *planner) text(f fieldmap.Field, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	if f != fieldmap.Email {
		value = content.Upper(value)
	}
	p.ops = append(p.ops, Op{Field: f, Kind: fieldmap.Text, Text: value})
}

func (p *planner) check(f fieldmap.Field, ok bool) {
	if ok {
		p.ops = append(p.ops, Op{Field: f, Kind: fieldmap.Check})
	}
}

// Plan lists the operations needed to render r, in form order. Blank values
// are omitted, as are sub-fields whose guarding answer is not "yes" (or, for
// a parent's nationality, not "no"). Each choice group yields at most one check.
func Plan(r application.Record) []Op {
	p := &planner{}

	p.check(fieldmap.DocumentTypeField(r.PassportType))

	a := r.Applicant
	p.text(fieldmap.LastName, a.LastName)
	p.text(fieldmap.MiddleName, a.MiddleName)
	p.text(fieldmap.FirstName, a.FirstName)
	p.text(fieldmap.OtherNames, a.OtherNames)
	p.text(fieldmap.DateOfBirth, a.DateOfBirth)

	p.check(fieldmap.GenderField(a.Gender))

	p.text(fieldmap.HeightFeet, a.HeightFeet)
	p.text(fieldmap.HeightInches, a.HeightInches)
	p.text(fieldmap.HairColor, a.HairColor)
	p.text(fieldmap.EyeColor, a.EyeColor)

	p.text(fieldmap.BirthPlace, a.BirthPlace)
	p.text(fieldmap.HomeAddress, a.HomeAddress.Format())
	p.text(fieldmap.PostalAddress, a.PostalAddress().Format())

	p.text(fieldmap.Email, a.Email)
	p.text(fieldmap.Phone, a.Phone)

	p.check(fieldmap.TriStateField(a.PreviousPassport, fieldmap.PrevPassportYes, fieldmap.PrevPassportNo))
	if a.PreviousPassport == application.Yes {
		p.text(fieldmap.PrevPassportDetails, a.PreviousDetails.Summary())
	}

	p.check(fieldmap.TriStateField(a.Convicted, fieldmap.ConvictedYes, fieldmap.ConvictedNo))
	if a.Convicted == application.Yes {
		p.text(fieldmap.ConvictedExplain, a.ConvictedDetail)
	}

	p.check(fieldmap.TriStateField(a.NameChanged, fieldmap.NameChangedYes, fieldmap.NameChangedNo))
	if a.NameChanged == application.Yes {
		p.text(fieldmap.NameChangedExplain, a.NameChangedDetail)
	}

	p.check(fieldmap.CitizenshipField(a.CitizenshipMethod))

	p.parent(r.Father, fieldmap.Father)
	p.parent(r.Mother, fieldmap.Mother)

	return p.ops
}

func (p *planner) parent(par application.Parent, f fieldmap.ParentFields) {
	p.text(f.Last, par.LastName)
	p.text(f.First, par.FirstName)
	p.text(f.Middle, par.MiddleName)
	p.text(f.BirthDate, par.BirthDate)
	p.text(f.BirthPlace, par.BirthPlace)

	p.check(fieldmap.TriStateField(par.Citizen, f.CitizenYes, f.CitizenNo))
	if par.Citizen == application.No {
		p.text(f.Nationality, par.Nationality)
	}
}
