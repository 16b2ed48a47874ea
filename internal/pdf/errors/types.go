package errors

import (
	"errors"
	"fmt"
	"time"
)

// PDFError is a failure while producing or reading back a filled document.
type PDFError struct {
	Type        ErrorType `json:"type"`
	Message     string    `json:"message"`
	Context     string    `json:"context,omitempty"`
	Field       string    `json:"field,omitempty"`
	Recoverable bool      `json:"recoverable"`
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source,omitempty"`
	PageNumber  int       `json:"page_number,omitempty"`

	cause error
}

// ErrorType categorizes fill failures
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeTemplateUnavailable means the template bytes could not be fetched.
	ErrorTypeTemplateUnavailable
	// ErrorTypeTemplateMalformed means the bytes are not a loadable PDF.
	ErrorTypeTemplateMalformed
	// ErrorTypeFieldUnresolved means a named entry has no matching widget.
	ErrorTypeFieldUnresolved
	// ErrorTypeFieldWrite means a single value could not be drawn or set.
	ErrorTypeFieldWrite
	// ErrorTypeSerialize means the modified document could not be written.
	ErrorTypeSerialize
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity int

const (
	SeverityInfo ErrorSeverity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s ErrorSeverity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error implements the error interface
func (e *PDFError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type, e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("[%s] %s: %s", e.Type, e.Field, e.Message)
	}
	if e.Context != "" {
		msg += ": " + e.Context
	}
	return msg
}

// Unwrap exposes the underlying cause.
func (e *PDFError) Unwrap() error {
	return e.cause
}

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeTemplateUnavailable:
		return "TEMPLATE_UNAVAILABLE"
	case ErrorTypeTemplateMalformed:
		return "TEMPLATE_MALFORMED"
	case ErrorTypeFieldUnresolved:
		return "FIELD_UNRESOLVED"
	case ErrorTypeFieldWrite:
		return "FIELD_WRITE"
	case ErrorTypeSerialize:
		return "SERIALIZE"
	default:
		return "UNKNOWN"
	}
}

// GetSeverity returns the severity level for a given error type
func (et ErrorType) GetSeverity() ErrorSeverity {
	switch et {
	case ErrorTypeTemplateUnavailable, ErrorTypeTemplateMalformed, ErrorTypeSerialize:
		return SeverityFatal
	case ErrorTypeFieldUnresolved, ErrorTypeFieldWrite:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// IsRecoverable reports whether a fill can continue past this kind of error.
// Field level problems leave that field blank; everything else aborts.
func (et ErrorType) IsRecoverable() bool {
	switch et {
	case ErrorTypeFieldUnresolved, ErrorTypeFieldWrite:
		return true
	default:
		return false
	}
}

// IsTemplateLoad reports whether the type is a template loading failure.
func (et ErrorType) IsTemplateLoad() bool {
	return et == ErrorTypeTemplateUnavailable || et == ErrorTypeTemplateMalformed
}

// NewPDFError creates a new PDFError
func NewPDFError(errorType ErrorType, message string) *PDFError {
	return &PDFError{
		Type:        errorType,
		Message:     message,
		Recoverable: errorType.IsRecoverable(),
		Timestamp:   time.Now(),
	}
}

// NewPDFErrorWithContext creates a new PDFError with additional context
func NewPDFErrorWithContext(errorType ErrorType, message, context string) *PDFError {
	e := NewPDFError(errorType, message)
	e.Context = context
	return e
}

// WrapError wraps err as a PDFError. The original error stays reachable
// through errors.Is and errors.As.
func WrapError(errorType ErrorType, err error) *PDFError {
	e := NewPDFError(errorType, err.Error())
	e.cause = err
	return e
}

// FieldError reports a problem with one logical field.
func FieldError(errorType ErrorType, field, id string, err error) *PDFError {
	e := WrapError(errorType, err)
	e.Field = field
	e.Context = id
	return e
}

// WithContext adds context to an existing PDFError
func (e *PDFError) WithContext(context string) *PDFError {
	e.Context = context
	return e
}

// WithSource records where the template came from.
func (e *PDFError) WithSource(source string) *PDFError {
	e.Source = source
	return e
}

// WithPage adds page number information to an existing PDFError
func (e *PDFError) WithPage(pageNumber int) *PDFError {
	e.PageNumber = pageNumber
	return e
}

// GetSeverity returns the severity of this specific error
func (e *PDFError) GetSeverity() ErrorSeverity {
	return e.Type.GetSeverity()
}

// IsCritical returns true if this error aborts a fill
func (e *PDFError) IsCritical() bool {
	return e.GetSeverity() == SeverityFatal
}

// IsTemplateLoad reports whether err is, or wraps, a template loading failure.
func IsTemplateLoad(err error) bool {
	var pe *PDFError
	return errors.As(err, &pe) && pe.Type.IsTemplateLoad()
}

// IsType reports whether err is, or wraps, a PDFError of type et.
func IsType(err error, et ErrorType) bool {
	var pe *PDFError
	return errors.As(err, &pe) && pe.Type == et
}

// ErrorCollection gathers the problems of one fill.
type ErrorCollection struct {
	Errors   []*PDFError `json:"errors"`
	Warnings []*PDFError `json:"warnings"`
	Source   string      `json:"source,omitempty"`
}

// NewErrorCollection creates a new error collection
func NewErrorCollection(source string) *ErrorCollection {
	return &ErrorCollection{
		Errors:   make([]*PDFError, 0),
		Warnings: make([]*PDFError, 0),
		Source:   source,
	}
}

// Add adds an error to the appropriate collection based on severity
func (ec *ErrorCollection) Add(err *PDFError) {
	if err.Source == "" && ec.Source != "" {
		err.Source = ec.Source
	}

	severity := err.GetSeverity()
	if severity == SeverityWarning || severity == SeverityInfo {
		ec.Warnings = append(ec.Warnings, err)
	} else {
		ec.Errors = append(ec.Errors, err)
	}
}

// HasCriticalErrors returns true if any critical errors exist
func (ec *ErrorCollection) HasCriticalErrors() bool {
	for _, err := range ec.Errors {
		if err.IsCritical() {
			return true
		}
	}
	return false
}

// Fields returns the names of the fields that produced warnings, in order.
func (ec *ErrorCollection) Fields() []string {
	out := make([]string, 0, len(ec.Warnings))
	for _, w := range ec.Warnings {
		if w.Field != "" {
			out = append(out, w.Field)
		}
	}
	return out
}

// Count returns the total number of errors and warnings
func (ec *ErrorCollection) Count() (errors, warnings int) {
	return len(ec.Errors), len(ec.Warnings)
}

// Summary returns a text summary of all errors and warnings
func (ec *ErrorCollection) Summary() string {
	errorCount, warningCount := ec.Count()
	if errorCount == 0 && warningCount == 0 {
		return "No errors or warnings"
	}

	summary := fmt.Sprintf("Found %d error(s) and %d warning(s)", errorCount, warningCount)

	if ec.HasCriticalErrors() {
		summary += " (including critical errors)"
	}

	return summary
}
