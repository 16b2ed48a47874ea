package fieldmap

import (
	"github.com/vredrick/cofa-passport/internal/application"
)

// Field is a logical slot on the application form.
type Field int

const (
	TypeOrdinary Field = iota + 1
	TypeOfficial
	TypeDiplomatic

	LastName
	MiddleName
	FirstName
	OtherNames
	DateOfBirth

	GenderMiss
	GenderMrs
	GenderMs
	GenderMr

	HeightFeet
	HeightInches
	HairColor
	EyeColor
	BirthPlace
	HomeAddress
	PostalAddress
	Email
	Phone

	PrevPassportYes
	PrevPassportNo
	PrevPassportDetails
	ConvictedYes
	ConvictedNo
	ConvictedExplain
	NameChangedYes
	NameChangedNo
	NameChangedExplain

	CitizenBirth
	CitizenNaturalization
	CitizenOther

	FatherLast
	FatherFirst
	FatherMiddle
	FatherBirthDate
	FatherBirthPlace
	FatherNationality
	FatherCitizenYes
	FatherCitizenNo

	MotherLast
	MotherFirst
	MotherMiddle
	MotherBirthDate
	MotherBirthPlace
	MotherNationality
	MotherCitizenYes
	MotherCitizenNo
)

var fieldNames = map[Field]string{
	TypeOrdinary:          "TYPE_ORDINARY",
	TypeOfficial:          "TYPE_OFFICIAL",
	TypeDiplomatic:        "TYPE_DIPLOMATIC",
	LastName:              "LAST_NAME",
	MiddleName:            "MIDDLE_NAME",
	FirstName:             "FIRST_NAME",
	OtherNames:            "OTHER_NAMES",
	DateOfBirth:           "DATE_OF_BIRTH",
	GenderMiss:            "GENDER_MISS",
	GenderMrs:             "GENDER_MRS",
	GenderMs:              "GENDER_MS",
	GenderMr:              "GENDER_MR",
	HeightFeet:            "HEIGHT_FEET",
	HeightInches:          "HEIGHT_INCHES",
	HairColor:             "HAIR_COLOR",
	EyeColor:              "EYE_COLOR",
	BirthPlace:            "BIRTH_PLACE",
	HomeAddress:           "HOME_ADDRESS",
	PostalAddress:         "POSTAL_ADDRESS",
	Email:                 "EMAIL",
	Phone:                 "PHONE",
	PrevPassportYes:       "PREV_PASSPORT_YES",
	PrevPassportNo:        "PREV_PASSPORT_NO",
	PrevPassportDetails:   "PREV_PASSPORT_DETAILS",
	ConvictedYes:          "CONVICTED_YES",
	ConvictedNo:           "CONVICTED_NO",
	ConvictedExplain:      "CONVICTED_EXPLAIN",
	NameChangedYes:        "NAME_CHANGED_YES",
	NameChangedNo:         "NAME_CHANGED_NO",
	NameChangedExplain:    "NAME_CHANGED_EXPLAIN",
	CitizenBirth:          "CITIZEN_BIRTH",
	CitizenNaturalization: "CITIZEN_NATURALIZATION",
	CitizenOther:          "CITIZEN_OTHER",
	FatherLast:            "FATHER_LAST",
	FatherFirst:           "FATHER_FIRST",
	FatherMiddle:          "FATHER_MIDDLE",
	FatherBirthDate:       "FATHER_BIRTHDATE",
	FatherBirthPlace:      "FATHER_BIRTHPLACE",
	FatherNationality:     "FATHER_NATIONALITY",
	FatherCitizenYes:      "FATHER_FSM_YES",
	FatherCitizenNo:       "FATHER_FSM_NO",
	MotherLast:            "MOTHER_LAST",
	MotherFirst:           "MOTHER_FIRST",
	MotherMiddle:          "MOTHER_MIDDLE",
	MotherBirthDate:       "MOTHER_BIRTHDATE",
	MotherBirthPlace:      "MOTHER_BIRTHPLACE",
	MotherNationality:     "MOTHER_NATIONALITY",
	MotherCitizenYes:      "MOTHER_FSM_YES",
	MotherCitizenNo:       "MOTHER_FSM_NO",
}

func (f Field) String() string {
	if s, ok := fieldNames[f]; ok {
		return s
	}
	return "UNKNOWN_FIELD"
}

// AllFields lists every logical field in declaration order.
func AllFields() []Field {
	out := make([]Field, 0, len(fieldNames))
	for f := TypeOrdinary; f <= MotherCitizenNo; f++ {
		out = append(out, f)
	}
	return out
}

// ParentFields groups the slots belonging to one parent.
type ParentFields struct {
	Last, First, Middle   Field
	BirthDate, BirthPlace Field
	Nationality           Field
	CitizenYes, CitizenNo Field
}

var (
	Father = ParentFields{
		Last:        FatherLast,
		First:       FatherFirst,
		Middle:      FatherMiddle,
		BirthDate:   FatherBirthDate,
		BirthPlace:  FatherBirthPlace,
		Nationality: FatherNationality,
		CitizenYes:  FatherCitizenYes,
		CitizenNo:   FatherCitizenNo,
	}
	Mother = ParentFields{
		Last:        MotherLast,
		First:       MotherFirst,
		Middle:      MotherMiddle,
		BirthDate:   MotherBirthDate,
		BirthPlace:  MotherBirthPlace,
		Nationality: MotherNationality,
		CitizenYes:  MotherCitizenYes,
		CitizenNo:   MotherCitizenNo,
	}
)

// DocumentTypeField is the checkbox for t. It reports false when t is unset.
func DocumentTypeField(t application.DocumentType) (Field, bool) {
	switch t {
	case application.Ordinary:
		return TypeOrdinary, true
	case application.Official:
		return TypeOfficial, true
	case application.Diplomatic:
		return TypeDiplomatic, true
	case application.DocumentUnset:
		return 0, false
	}
	return 0, false
}

// GenderField is the checkbox for g. It reports false when g is unset.
func GenderField(g application.Gender) (Field, bool) {
	switch g {
	case application.Miss:
		return GenderMiss, true
	case application.Mrs:
		return GenderMrs, true
	case application.Ms:
		return GenderMs, true
	case application.Mr:
		return GenderMr, true
	case application.GenderUnset:
		return 0, false
	}
	return 0, false
}

// CitizenshipField is the checkbox for c. It reports false when c is unset.
func CitizenshipField(c application.CitizenshipMethod) (Field, bool) {
	switch c {
	case application.ByBirth:
		return CitizenBirth, true
	case application.ByNaturalization:
		return CitizenNaturalization, true
	case application.ByOther:
		return CitizenOther, true
	case application.CitizenshipUnset:
		return 0, false
	}
	return 0, false
}

// TriStateField picks between the yes and no checkboxes of a group.
func TriStateField(v application.TriState, yes, no Field) (Field, bool) {
	switch v {
	case application.Yes:
		return yes, true
	case application.No:
		return no, true
	case application.TriUnset:
		return 0, false
	}
	return 0, false
}
