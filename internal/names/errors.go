package names

import "errors"

// Sentinel errors for the four validation issue kinds. Issues unwrap to
// these so callers can use errors.Is across the whole chain.
var (
	// ErrInvalidCharacter indicates a name that does not follow the
	// prefix-value(_key-value)* grammar.
	ErrInvalidCharacter = errors.New("names: invalid name grammar")

	// ErrDuplicateID indicates two names at the same level sharing a
	// primary id but differing in their full component set.
	ErrDuplicateID = errors.New("names: duplicate primary id")

	// ErrInconsistentPadding indicates primary numeric values whose
	// zero-padded digit counts disagree within one hierarchy level.
	ErrInconsistentPadding = errors.New("names: inconsistent value lengths")

	// ErrTemplateMismatch indicates a name that fails the configured
	// regular-expression template.
	ErrTemplateMismatch = errors.New("names: name template mismatch")
)

// Kind tags a validation issue with its category.
type Kind string

const (
	InvalidCharacter    Kind = "invalid_character"
	DuplicateID         Kind = "duplicate_id"
	InconsistentPadding Kind = "inconsistent_padding"
	TemplateMismatch    Kind = "template_mismatch"
)

// Severity distinguishes issues that abort an operation from issues
// collected and reported as warnings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single validation finding. Issues are transient: they are
// produced during one validation call and never persisted.
type Issue struct {
	Kind     Kind
	Severity Severity
	Message  string
}

// Error implements the error interface.
func (i *Issue) Error() string {
	return i.Message
}

// Unwrap returns the sentinel error for the issue kind.
func (i *Issue) Unwrap() error {
	switch i.Kind {
	case InvalidCharacter:
		return ErrInvalidCharacter
	case DuplicateID:
		return ErrDuplicateID
	case InconsistentPadding:
		return ErrInconsistentPadding
	case TemplateMismatch:
		return ErrTemplateMismatch
	}
	return nil
}

// newIssue builds an error-severity issue. Severity is downgraded later
// when the caller validates in warn mode.
func newIssue(kind Kind, message string) *Issue {
	return &Issue{Kind: kind, Severity: SeverityError, Message: message}
}
