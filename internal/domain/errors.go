package domain

import (
	"errors"
	"strings"
)

// Construction errors. Each is wrapped together with the human readable constraint.
var (
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidTime     = errors.New("invalid time")
	ErrInvalidActivity = errors.New("invalid activity")
	ErrInvalidField    = errors.New("invalid field")
)

// Constraint returns the human readable rule carried by a construction error, or the whole
// error text when err is not one.
func Constraint(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{ErrInvalidID, ErrInvalidTime, ErrInvalidActivity, ErrInvalidField} {
		if errors.Is(err, sentinel) {
			if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
				return rest
			}
		}
	}
	return msg
}
