package wizard

import (
	"fmt"

	"github.com/vredrick/cofa-passport/internal/application"
	"github.com/vredrick/cofa-passport/internal/validation"
)

// Step is one page of the data entry flow.
type Step int

const (
	StepType Step = iota
	StepApplicant
	StepFather
	StepMother
	StepReview
)

// Steps lists every step in order.
var Steps = []Step{StepType, StepApplicant, StepFather, StepMother, StepReview}

var stepLabels = [...]string{"Type", "Applicant", "Father", "Mother", "Review"}

// String returns the label shown for the step.
func (s Step) String() string {
	if s < StepType || s > StepReview {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepLabels[s]
}

// Section is the metrics label for the part of the record the step validates.
func (s Step) Section() string {
	switch s {
	case StepType:
		return "passport_type"
	case StepApplicant:
		return "applicant"
	case StepFather:
		return "father"
	case StepMother:
		return "mother"
	case StepReview:
		return "record"
	default:
		return "unknown"
	}
}

// Validate checks the slice of rec that step owns. Paths are relative to that
// slice, except on the review step which validates the whole record.
func Validate(step Step, rec application.Record) validation.Errors {
	switch step {
	case StepType:
		return validation.DocumentType(rec.PassportType)
	case StepApplicant:
		return validation.Applicant(rec.Applicant)
	case StepFather:
		return validation.Parent(rec.Father, application.FatherLabel)
	case StepMother:
		return validation.Parent(rec.Mother, application.MotherLabel)
	case StepReview:
		return validation.Record(rec)
	default:
		return validation.Errors{}
	}
}
