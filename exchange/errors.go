package exchange

import "errors"

// Kind identifies the pipeline stage (or the submission step) an error
// belongs to. A failed stage halts the pipeline; nothing partial moves
// forward.
//
// Callers should branch on Kind rather than matching error strings;
// messages are for humans and may evolve.
type Kind string

const (
	KindSign    Kind = "Sign"
	KindEncrypt Kind = "Encrypt"
	KindProof   Kind = "Proof"
	KindLink    Kind = "Link"
	KindSubmit  Kind = "Submit"
)

// Error is the package's structured error type.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func wrapError(kind Kind, msg string, cause error) error {
	if cause == nil {
		return newError(kind, msg)
	}
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
