package command

import (
	"errors"
	"fmt"

	"gomedic/internal/model"
)

// Error is a command failure with a message meant for the user.
type Error struct {
	Msg string
	Err error
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Err }

func newError(msg string, err error) *Error {
	return &Error{Msg: msg, Err: err}
}

// Wrap turns any error into an *Error, keeping the message of one that already is.
func Wrap(err error) *Error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	return newError(err.Error(), err)
}

// storeError maps store failures to the user facing messages; dup is the message used for
// ErrDuplicate.
func storeError(err error, dup string) *Error {
	var conflict *model.ConflictError
	switch {
	case errors.As(err, &conflict):
		return newError(fmt.Sprintf(MessageConflictingActivity, conflict.Existing), err)
	case errors.Is(err, model.ErrDuplicate):
		return newError(dup, err)
	case errors.Is(err, model.ErrIDsExhausted):
		return newError(MessageIDsExhausted, err)
	default:
		return Wrap(err)
	}
}
