// Package errs holds the assistant's failure taxonomy. Every kind maps to a
// single user-facing message so callers never leak internals into a reply.
package errs

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindClassification  Kind = "classification_failure"
	KindRetrievalEmpty  Kind = "retrieval_empty"
	KindQueryValidation Kind = "query_validation"
	KindNoData          Kind = "no_data"
	KindAmbiguousTarget Kind = "ambiguous_target"
	KindTransport       Kind = "transport_failure"
)

var (
	ErrClassification  = errors.New("classification failure")
	ErrRetrievalEmpty  = errors.New("no documentation cleared the similarity floor")
	ErrQueryValidation = errors.New("operation rejected by catalog validation")
	ErrNoData          = errors.New("query returned no rows")
	ErrAmbiguousTarget = errors.New("target is ambiguous")
	ErrTransport       = errors.New("transport failure")

	// ErrOverloaded marks a provider rate-limit response. It is a transport
	// failure with its own wording.
	ErrOverloaded = errors.New("provider overloaded")
)

const (
	MsgClassification  = "I'm having trouble understanding that right now. I can explain features of the application, run analytics on shipments and disputes, open application pages, or email results."
	MsgRetrievalEmpty  = "I don't have specific documentation on that."
	MsgQueryValidation = "I couldn't run that request as asked. Could you rephrase it with the metric, grouping or dispute you mean?"
	MsgNoData          = "No data available for that request."
	MsgAmbiguousTarget = "Could you clarify which one you mean?"
	MsgTransport       = "Something went wrong while reaching a backend service. Please try again later."
	MsgOverloaded      = "The assistant is busy right now. Please try again in a moment."
)

var sentinels = map[Kind]error{
	KindClassification:  ErrClassification,
	KindRetrievalEmpty:  ErrRetrievalEmpty,
	KindQueryValidation: ErrQueryValidation,
	KindNoData:          ErrNoData,
	KindAmbiguousTarget: ErrAmbiguousTarget,
	KindTransport:       ErrTransport,
}

// Error wraps an underlying cause with a taxonomy kind and the failing operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// Transport wraps err as a transport failure for op.
func Transport(op string, err error) error {
	return New(KindTransport, op, err)
}

// Validation wraps a catalog rejection.
func Validation(op string, format string, args ...interface{}) error {
	return New(KindQueryValidation, op, fmt.Errorf(format, args...))
}

// KindOf reports the taxonomy kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	for kind, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return kind, true
		}
	}
	return "", false
}

// UserMessage converts any error into text safe to show an end user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrOverloaded) {
		return MsgOverloaded
	}
	kind, ok := KindOf(err)
	if !ok {
		return MsgTransport
	}
	switch kind {
	case KindClassification:
		return MsgClassification
	case KindRetrievalEmpty:
		return MsgRetrievalEmpty
	case KindQueryValidation:
		return MsgQueryValidation
	case KindNoData:
		return MsgNoData
	case KindAmbiguousTarget:
		return MsgAmbiguousTarget
	default:
		return MsgTransport
	}
}
