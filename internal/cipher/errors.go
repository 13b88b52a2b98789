package cipher

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrInvalidParameter reports a parameter that fails a precondition.
	// Nothing is transformed when it is returned.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDomainViolation reports input text outside a transform's domain.
	ErrDomainViolation = errors.New("domain violation")

	// ErrUnknownOperation reports a name missing from the registry.
	ErrUnknownOperation = errors.New("unknown operation")
)

// ParamError describes a rejected parameter
type ParamError struct {
	Op     string
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: invalid parameter %q: %s", e.Op, e.Param, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}

// DomainError describes a character the transform cannot handle
type DomainError struct {
	Op       string
	Position int
	Rune     rune
	Reason   string
}

func (e *DomainError) Error() string {
	if e.Rune == utf8.RuneError {
		return fmt.Sprintf("%s: position %d: %s", e.Op, e.Position, e.Reason)
	}
	return fmt.Sprintf("%s: character %q (U+%04X) at position %d: %s", e.Op, e.Rune, e.Rune, e.Position, e.Reason)
}

func (e *DomainError) Unwrap() error {
	return ErrDomainViolation
}

func paramErrorf(op, param, format string, args ...interface{}) error {
	return &ParamError{Op: op, Param: param, Reason: fmt.Sprintf(format, args...)}
}

func domainError(op string, pos int, r rune, reason string) error {
	return &DomainError{Op: op, Position: pos, Rune: r, Reason: reason}
}
