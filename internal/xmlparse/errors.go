package xmlparse

import (
	"errors"
	"fmt"
)

// ErrParse matches every ParseError via errors.Is.
var ErrParse = errors.New("response parse failed")

// ParseErrorKind classifies a parse failure.
type ParseErrorKind int

const (
	KindUnexpectedElement ParseErrorKind = iota
	KindUnknownAttribute
	KindFormat
	KindSyntax
)

// String returns a string representation of the kind.
func (k ParseErrorKind) String() string {
	switch k {
	case KindUnexpectedElement:
		return "unexpected_element"
	case KindUnknownAttribute:
		return "unknown_attribute"
	case KindFormat:
		return "format"
	case KindSyntax:
		return "syntax"
	default:
		return "unknown"
	}
}

// ParseError carries the offending name and value of a failed parse.
type ParseError struct {
	Kind     ParseErrorKind
	Name     string
	Value    string
	Expected string
	Err      error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Kind {
	case KindUnexpectedElement:
		return fmt.Sprintf("unexpected element <%s>, expected <%s>", e.Name, e.Expected)
	case KindUnknownAttribute:
		return fmt.Sprintf("unknown attribute %s=%q", e.Name, e.Value)
	case KindFormat:
		if e.Err != nil {
			return fmt.Sprintf("invalid %s value %q: %v", e.Expected, e.Value, e.Err)
		}
		return fmt.Sprintf("invalid %s value %q", e.Expected, e.Value)
	default:
		return fmt.Sprintf("malformed xml: %v", e.Err)
	}
}

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// Unwrap returns the underlying cause, if any.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnexpectedElement reports an element whose local name does not match.
func UnexpectedElement(got, expected string) error {
	return &ParseError{Kind: KindUnexpectedElement, Name: got, Expected: expected}
}

// UnknownAttribute reports an attribute outside the recognized set.
func UnknownAttribute(name, value string) error {
	return &ParseError{Kind: KindUnknownAttribute, Name: name, Value: value}
}

// FormatError reports a value that does not match the expected wire format.
func FormatError(value, expected string, err error) error {
	return &ParseError{Kind: KindFormat, Value: value, Expected: expected, Err: err}
}

func syntaxError(err error) error {
	return &ParseError{Kind: KindSyntax, Err: err}
}
