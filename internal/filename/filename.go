// Package filename derives the download name of a filled application.
package filename

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vredrick/cofa-passport/internal/application"
)

const (
	// Prefix starts every derived name.
	Prefix = "PassportApplication"
	// Unknown replaces a name part that is empty once whitespace is removed.
	Unknown = "UNKNOWN"
	// Ext is the extension of every derived name.
	Ext = ".pdf"

	dateLayout = "20060102"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// Derive builds "PassportApplication_<LAST>_<FIRST>_<YYYYMMDD>.pdf" for rec
// as of now. The date is taken in now's location.
func Derive(rec application.Record, now time.Time) string {
	return strings.Join([]string{
		Prefix,
		part(rec.Applicant.LastName),
		part(rec.Applicant.FirstName),
		now.Format(dateLayout),
	}, "_") + Ext
}

// part upper-cases s and removes every whitespace rune, not only the ends.
func part(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return Unknown
	}
	return cases.Upper(language.Und).String(s)
}

// Deriver derives names against an injected clock.
type Deriver struct {
	Clock Clock
}

// NewDeriver returns a Deriver on clock, or on the system clock when nil.
func NewDeriver(clock Clock) *Deriver {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Deriver{Clock: clock}
}

// Filename derives the name of rec as of the clock's current time.
func (d *Deriver) Filename(rec application.Record) string {
	return Derive(rec, d.Clock.Now())
}
