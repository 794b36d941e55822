// Package command holds the units of work the engine runs against the record store.
package command

import (
	"context"

	"gomedic/internal/domain"
	"gomedic/internal/model"
)

// Command is one parsed user request.
type Command interface {
	Execute(ctx context.Context, m model.Model) (Result, error)
}

// Listing tells the caller which filtered view a result refers to.
type Listing int

const (
	ListingNone Listing = iota
	ListingPersons
	ListingActivities
	ListingAll
)

// Result is what a successful command reports back to the user.
type Result struct {
	Feedback   string
	Listing    Listing
	Persons    model.View[domain.Person]
	Activities model.View[domain.Activity]
	ShowHelp   bool
	Exit       bool
}

func withListing(feedback string, listing Listing, m model.Model) Result {
	res := Result{Feedback: feedback, Listing: listing}
	if listing == ListingPersons || listing == ListingAll {
		res.Persons = m.FilteredPersons()
	}
	if listing == ListingActivities || listing == ListingAll {
		res.Activities = m.FilteredActivities()
	}
	return res
}
