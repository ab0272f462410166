package report

import (
	"errors"
	"fmt"
)

// Kind classifies why a run failed.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindConnection
	KindQuery
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration error"
	case KindConnection:
		return "connection error"
	case KindQuery:
		return "query error"
	default:
		return "error"
	}
}

// ExitCode maps a failure kind to the process exit status.
func (k Kind) ExitCode() int {
	switch k {
	case KindConfiguration:
		return 2
	case KindConnection:
		return 3
	case KindQuery:
		return 4
	default:
		return 1
	}
}

// Error is a classified run failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func ConfigurationError(err error) *Error {
	return NewError(KindConfiguration, "invalid configuration", err)
}

func ConnectionError(err error) *Error {
	return NewError(KindConnection, "cannot connect to log store", err)
}

func QueryError(err error) *Error {
	return NewError(KindQuery, "log query failed", err)
}

// ExitCode returns 0 for nil and the kind's status for classified errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var re *Error
	if errors.As(err, &re) {
		return re.Kind.ExitCode()
	}
	return 1
}
