// Package validation checks each section of an application and reports
// problems as a map from dotted field path to a human-readable message.
//
// Every function is pure. Every field is checked independently and all
// failures are reported together; nothing here returns an error.
package validation

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/vredrick/cofa-passport/internal/application"
)

// Errors maps a field path such as "homeAddress.street" to its message.
// A missing key means the field is valid. Each validation call returns a new map.
type Errors map[string]string

// Has reports whether any field failed.
func (e Errors) Has() bool {
	return len(e) > 0
}

// Keys returns the failing paths in sorted order.
func (e Errors) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Prefixed returns a copy of e with every path prefixed by prefix and a dot.
func (e Errors) Prefixed(prefix string) Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[prefix+"."+k] = v
	}
	return out
}

// Merge returns a new map holding the entries of every argument.
func Merge(all ...Errors) Errors {
	out := Errors{}
	for _, e := range all {
		for k, v := range e {
			out[k] = v
		}
	}
	return out
}

const (
	MsgDateFormat   = "Use format MM/DD/YYYY"
	MsgSelectYesNo  = "Please select Yes or No"
	MsgFeetRange    = "3-7 ft"
	MsgInchesRange  = "0-11 in"
	MsgRequired     = "Required"
	MsgInvalidEmail = "Enter a valid email address"
)

var (
	dateRegex  = regexp.MustCompile(`^(0[1-9]|1[0-2])/(0[1-9]|[12]\d|3[01])/\d{4}$`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	leadingInt = regexp.MustCompile(`^[+-]?\d+`)
	nonDigits  = regexp.MustCompile(`\D`)
)

// IsDate reports whether s is a zero-padded MM/DD/YYYY date.
func IsDate(s string) bool {
	return dateRegex.MatchString(s)
}

// IsEmail reports whether s looks like local@domain.tld with no whitespace.
func IsEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// FormatDateInput turns partially typed input into MM/DD/YYYY shape by
// keeping at most eight digits and inserting slashes as they become due.
func FormatDateInput(value string) string {
	digits := nonDigits.ReplaceAllString(value, "")
	if len(digits) > 8 {
		digits = digits[:8]
	}

	switch {
	case len(digits) <= 2:
		return digits
	case len(digits) <= 4:
		return digits[:2] + "/" + digits[2:]
	default:
		return digits[:2] + "/" + digits[2:4] + "/" + digits[4:]
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// parseLeadingInt reads the integer at the start of s, ignoring leading
// whitespace and any trailing text ("5ft" is 5).
func parseLeadingInt(s string) (int, bool) {
	m := leadingInt.FindString(strings.TrimLeft(s, " \t\r\n"))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

func requireText(errs Errors, path, value, msg string) {
	if blank(value) {
		errs[path] = msg
	}
}

func requireDate(errs Errors, path, value, missing string) {
	switch {
	case blank(value):
		errs[path] = missing
	case !IsDate(value):
		errs[path] = MsgDateFormat
	}
}

func requireRange(errs Errors, path, value string, lo, hi int, rangeMsg string) {
	if blank(value) {
		errs[path] = MsgRequired
		return
	}
	if n, ok := parseLeadingInt(value); !ok || n < lo || n > hi {
		errs[path] = rangeMsg
	}
}

func requireAddress(errs Errors, prefix string, a application.Address) {
	requireText(errs, prefix+".street", a.Street, "Street is required")
	requireText(errs, prefix+".city", a.City, "City is required")
	requireText(errs, prefix+".state", a.State, "State is required")
	requireText(errs, prefix+".zip", a.Zip, "ZIP code is required")
	requireText(errs, prefix+".country", a.Country, "Country is required")
}
