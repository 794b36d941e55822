package command

import (
	"context"

	"gomedic/internal/model"
)

// List drops any active filter and shows the Target view. Order only applies to activities.
type List struct {
	Target Listing
	Order  model.Order
}

func (c List) Execute(_ context.Context, m model.Model) (Result, error) {
	msg := MessageListAll
	switch c.Target {
	case ListingPersons:
		m.UpdatePersonFilter(model.ShowAllPersons)
		msg = MessageListPersons
	case ListingActivities:
		m.UpdateActivityFilter(model.ShowAllActivities)
		m.SetActivityOrder(c.Order)
		msg = MessageListActivities
	default:
		m.UpdatePersonFilter(model.ShowAllPersons)
		m.UpdateActivityFilter(model.ShowAllActivities)
		m.SetActivityOrder(c.Order)
	}
	target := c.Target
	if target == ListingNone {
		target = ListingAll
	}
	return withListing(msg, target, m), nil
}

