// Package apptest provides application records for tests.
package apptest

import (
	"github.com/vredrick/cofa-passport/internal/application"
)

// Full returns a record with every required field populated and well formed.
// The mother is not a citizen, so her nationality is required and printed.
func Full() application.Record {
	rec := application.NewRecord()
	rec.PassportType = application.Ordinary
	rec.Applicant = application.Applicant{
		LastName:     "Robert",
		FirstName:    "Sau",
		MiddleName:   "Santos",
		DateOfBirth:  "01/15/1990",
		Gender:       application.Mr,
		HeightFeet:   "5",
		HeightInches: "8",
		HairColor:    "Black",
		EyeColor:     "Brown",
		BirthPlace:   "Weno, Chuuk",
		HomeAddress: application.Address{
			Street:  "123 Main St",
			City:    "Honolulu",
			State:   "HI",
			Zip:     "96819",
			Country: "USA",
		},
		ShippingSameAsHome: true,
		Email:              "sau@example.com",
		Phone:              "+691 320 1234",
		PreviousPassport:   application.Yes,
		PreviousDetails: application.PriorDocument{
			Country:        "FSM",
			Date:           "06/01/2015",
			PassportNumber: "A12345678",
		},
		Convicted:         application.No,
		NameChanged:       application.No,
		CitizenshipMethod: application.ByBirth,
	}
	rec.Father = application.Parent{
		LastName:   "Robert",
		FirstName:  "John",
		MiddleName: "S",
		BirthDate:  "03/20/1960",
		BirthPlace: "Weno",
		Citizen:    application.Yes,
	}
	rec.Mother = application.Parent{
		LastName:    "Santos",
		FirstName:   "Maria",
		MiddleName:  "L",
		BirthDate:   "07/10/1965",
		BirthPlace:  "Kolonia",
		Citizen:     application.No,
		Nationality: "Philippines",
	}
	return rec
}

// FullJSON is Full in the wire format accepted by application.Decode.
const FullJSON = `{
  "passportType": "ordinary",
  "applicant": {
    "lastName": "Robert",
    "middleName": "Santos",
    "firstName": "Sau",
    "otherNames": "",
    "dateOfBirth": "01/15/1990",
    "gender": "mr",
    "heightFeet": "5",
    "heightInches": "8",
    "hairColor": "Black",
    "eyeColor": "Brown",
    "birthPlace": "Weno, Chuuk",
    "homeAddress": {"street": "123 Main St", "city": "Honolulu", "state": "HI", "zip": "96819", "country": "USA"},
    "shippingAddress": {"street": "", "city": "", "state": "", "zip": "", "country": ""},
    "shippingAddressSameAsHome": true,
    "email": "sau@example.com",
    "phone": "+691 320 1234",
    "previousPassport": "yes",
    "previousPassportDetails": {"country": "FSM", "date": "06/01/2015", "passportNumber": "A12345678"},
    "convicted": "no",
    "convictedExplanation": "",
    "nameChanged": "no",
    "nameChangedExplanation": "",
    "citizenshipMethod": "birth"
  },
  "father": {"lastName": "Robert", "firstName": "John", "middleName": "S", "birthDate": "03/20/1960", "birthPlace": "Weno", "fsmCitizen": "yes", "nationality": ""},
  "mother": {"lastName": "Santos", "firstName": "Maria", "middleName": "L", "birthDate": "07/10/1965", "birthPlace": "Kolonia", "fsmCitizen": "no", "nationality": "Philippines"}
}`
