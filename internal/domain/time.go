package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	TimeLayout = "02/01/2006 15:04"

	TimeConstraints = "Time must be in the format dd/MM/yyyy HH:mm, e.g. 15/10/2026 09:30"
)

// Time is a point in time with minute precision.
type Time struct {
	t time.Time
}

// NewTime drops everything below the minute and normalises to UTC.
func NewTime(t time.Time) Time {
	return Time{t: t.UTC().Truncate(time.Minute)}
}

func ParseTime(s string) (Time, error) {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return Time{}, fmt.Errorf("%w: %s", ErrInvalidTime, TimeConstraints)
	}
	return NewTime(t), nil
}

// MustParseTime is ParseTime for fixtures; it panics on invalid input.
func MustParseTime(s string) Time {
	t, err := ParseTime(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Time) Std() time.Time        { return t.t }
func (t Time) Before(other Time) bool { return t.t.Before(other.t) }
func (t Time) After(other Time) bool  { return t.t.After(other.t) }
func (t Time) Equal(other Time) bool  { return t.t.Equal(other.t) }
func (t Time) Compare(other Time) int { return t.t.Compare(other.t) }
func (t Time) IsZero() bool           { return t.t.IsZero() }
func (t Time) String() string         { return t.t.Format(TimeLayout) }
