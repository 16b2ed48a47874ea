package validation

import (
	"fmt"

	"github.com/vredrick/cofa-passport/internal/application"
)

// DocumentType requires a passport type to be chosen.
func DocumentType(t application.DocumentType) Errors {
	errs := Errors{}
	switch t {
	case application.DocumentUnset:
		errs["passportType"] = "Please select a passport type"
	case application.Ordinary, application.Official, application.Diplomatic:
	}
	return errs
}

// Applicant checks every applicant field. The shipping address is ignored
// entirely when it is the same as the home address.
func Applicant(a application.Applicant) Errors {
	errs := Errors{}

	requireText(errs, "lastName", a.LastName, "Last name is required")
	requireText(errs, "firstName", a.FirstName, "First name is required")
	requireDate(errs, "dateOfBirth", a.DateOfBirth, "Date of birth is required")

	switch a.Gender {
	case application.GenderUnset:
		errs["gender"] = "Please select a title"
	case application.Miss, application.Mrs, application.Ms, application.Mr:
	}

	requireRange(errs, "heightFeet", a.HeightFeet, 3, 7, MsgFeetRange)
	requireRange(errs, "heightInches", a.HeightInches, 0, 11, MsgInchesRange)

	requireText(errs, "hairColor", a.HairColor, "Hair color is required")
	requireText(errs, "eyeColor", a.EyeColor, "Eye color is required")
	requireText(errs, "birthPlace", a.BirthPlace, "Birth place is required")

	requireAddress(errs, "homeAddress", a.HomeAddress)
	if !a.ShippingSameAsHome {
		requireAddress(errs, "shippingAddress", a.ShippingAddress)
	}

	switch {
	case blank(a.Email):
		errs["email"] = "Email is required"
	case !IsEmail(a.Email):
		errs["email"] = MsgInvalidEmail
	}
	requireText(errs, "phone", a.Phone, "Phone number is required")

	switch a.PreviousPassport {
	case application.TriUnset:
		errs["previousPassport"] = MsgSelectYesNo
	case application.Yes:
		d := a.PreviousDetails
		requireText(errs, "previousPassportDetails.country", d.Country, "Country of issue is required")
		requireDate(errs, "previousPassportDetails.date", d.Date, "Date of issue is required")
		requireText(errs, "previousPassportDetails.passportNumber", d.PassportNumber, "Passport number is required")
	case application.No:
	}

	switch a.Convicted {
	case application.TriUnset:
		errs["convicted"] = MsgSelectYesNo
	case application.Yes:
		requireText(errs, "convictedExplanation", a.ConvictedDetail, "Please provide an explanation")
	case application.No:
	}

	switch a.NameChanged {
	case application.TriUnset:
		errs["nameChanged"] = MsgSelectYesNo
	case application.Yes:
		requireText(errs, "nameChangedExplanation", a.NameChangedDetail, "Please provide details")
	case application.No:
	}

	switch a.CitizenshipMethod {
	case application.CitizenshipUnset:
		errs["citizenshipMethod"] = "Please select citizenship method"
	case application.ByBirth, application.ByNaturalization, application.ByOther:
	}

	return errs
}

// Parent checks one parent. label ("Father", "Mother") is interpolated into
// the name messages. The birth date is optional but must be well formed when given.
func Parent(p application.Parent, label string) Errors {
	errs := Errors{}

	requireText(errs, "lastName", p.LastName, fmt.Sprintf("%s's last name is required", label))
	requireText(errs, "firstName", p.FirstName, fmt.Sprintf("%s's first name is required", label))

	if !blank(p.BirthDate) && !IsDate(p.BirthDate) {
		errs["birthDate"] = MsgDateFormat
	}

	switch p.Citizen {
	case application.TriUnset:
		errs["fsmCitizen"] = MsgSelectYesNo
	case application.No:
		requireText(errs, "nationality", p.Nationality, "Nationality is required when not an FSM citizen")
	case application.Yes:
	}

	return errs
}

// Record validates the whole application. Paths are prefixed with
// "applicant.", "father." and "mother.".
func Record(r application.Record) Errors {
	return Merge(
		DocumentType(r.PassportType),
		Applicant(r.Applicant).Prefixed("applicant"),
		Parent(r.Father, application.FatherLabel).Prefixed("father"),
		Parent(r.Mother, application.MotherLabel).Prefixed("mother"),
	)
}
