package model

import (
	"errors"
	"fmt"

	"gomedic/internal/domain"
)

var (
	ErrDuplicate    = errors.New("duplicate entity")
	ErrConflict     = errors.New("conflicting activity")
	ErrNotFound     = errors.New("not found")
	ErrIDsExhausted = errors.New("no free id left")
)

// ConflictError names the stored activity that overlaps the rejected one.
type ConflictError struct {
	Existing domain.Activity
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("activity conflicts with %s", e.Existing.ID())
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
