package errors

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// CodedError is an error carrying one of the codes declared in
// errorcode.go, with a pkg/errors stack trace attached at the point
// it was raised.
type CodedError struct {
	code  uint32
	cause error
}

func (e *CodedError) Code() uint32 {
	return e.code
}

func (e *CodedError) Error() string {
	msg := ErrCode[e.code]
	if e.cause == nil {
		return msg
	}
	return fmt.Sprintf("%s: %s", msg, e.cause)
}

func (e *CodedError) Cause() error {
	return e.cause
}

// New raises a CodedError for the given code with no additional
// detail.
func New(code uint32) error {
	return &CodedError{code: code, cause: pkgerrors.New(ErrCode[code])}
}

// Wrap raises a CodedError for the given code, attaching detail about
// the specific violation (e.g. the offending index).
func Wrap(code uint32, detail string) error {
	return &CodedError{code: code, cause: pkgerrors.New(detail)}
}

// Is reports whether err is a CodedError carrying the given code.
func Is(err error, code uint32) bool {
	ce, ok := err.(*CodedError)
	return ok && ce.code == code
}
