// Package fescaerr defines the fatal error kinds shared by every layer of
// fesca. Every fallible operation in this module returns one of these kinds
// wrapped around its cause; there is no other exceptional control flow.
package fescaerr

import (
	"errors"
	"fmt"
)

// Kind identifies which part of the system rejected an operation. Policy for
// each kind (what aborts, what is retried) lives with its caller, not here.
type Kind int

const (
	_ Kind = iota
	ParseError
	EncodingError
	SchemaError
	ShareCodecError
	ProtocolError
	TransportError
	StorageError
)

func (k Kind) String() string {
	switch k {
	case ParseError:
		return "ParseError"
	case EncodingError:
		return "EncodingError"
	case SchemaError:
		return "SchemaError"
	case ShareCodecError:
		return "ShareCodecError"
	case ProtocolError:
		return "ProtocolError"
	case TransportError:
		return "TransportError"
	case StorageError:
		return "StorageError"
	default:
		return "UnknownError"
	}
}

// Error pairs a Kind with the artefact that triggered it (a file path, a SQL
// snippet, a gate index, an RPC endpoint) and the underlying cause, if any.
type Error struct {
	Kind     Kind
	Artefact string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Artefact, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Artefact)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error with no wrapped cause.
func New(kind Kind, artefact string) *Error {
	return &Error{Kind: kind, Artefact: artefact}
}

// Wrap builds an *Error around an existing cause.
func Wrap(kind Kind, artefact string, cause error) *Error {
	return &Error{Kind: kind, Artefact: artefact, Cause: cause}
}

// Is reports whether the first *Error in err's chain has the given Kind.
// Kinds of *Errors wrapped further down the chain are not consulted.
func Is(err error, kind Kind) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}
