package domain

import (
	"fmt"
	"hash/fnv"
)

const ActivityConstraints = "Start time must be before end time"

// Activity is a scheduled block of time. Values are immutable once built.
type Activity struct {
	id          ID
	start       Time
	end         Time
	title       Title
	description Description
}

// NewActivity validates start < end (strictly) and the id prefix.
func NewActivity(id ID, start, end Time, title Title, description Description) (Activity, error) {
	if id.Prefix() != PrefixActivity {
		return Activity{}, fmt.Errorf("%w: activity id must start with A", ErrInvalidID)
	}
	if title == "" {
		return Activity{}, invalid(TitleConstraints)
	}
	if !start.Before(end) {
		return Activity{}, fmt.Errorf("%w: %s", ErrInvalidActivity, ActivityConstraints)
	}
	return Activity{id: id, start: start, end: end, title: title, description: description}, nil
}

func (a Activity) ID() ID                   { return a.id }
func (a Activity) Start() Time              { return a.start }
func (a Activity) End() Time                { return a.end }
func (a Activity) Title() Title             { return a.title }
func (a Activity) Description() Description { return a.description }

// SameID reports whether both values denote the same activity, whatever their other fields.
func (a Activity) SameID(other Activity) bool {
	return a.id.Equal(other.id)
}

// Equal compares every field.
func (a Activity) Equal(other Activity) bool {
	return a.id.Equal(other.id) &&
		a.start.Equal(other.start) &&
		a.end.Equal(other.end) &&
		a.title == other.title &&
		a.description == other.description
}

// Hash covers every field, in the order id, start, end, description, title.
func (a Activity) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d|%d|%s|%s", a.id, a.start.Std().Unix(), a.end.Std().Unix(), a.description, a.title)
	return h.Sum64()
}

// IsConflicting reports whether the two activities share any instant, treating both as
// closed intervals. Activities that merely touch (one ends exactly when the other starts)
// conflict.
func (a Activity) IsConflicting(other Activity) bool {
	return !a.start.After(other.end) && !other.start.After(a.end)
}

func (a Activity) String() string {
	return fmt.Sprintf("%s; Title: %s; Desc: %s; Start Time: %s; End Time: %s",
		a.id, a.title, a.description, a.start, a.end)
}
