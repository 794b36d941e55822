package command

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"gomedic/internal/domain"
	"gomedic/internal/model"
)

// FindPersons narrows the person view to names containing any of the keywords as a whole
// word, ignoring case.
type FindPersons struct {
	Keywords []string
}

func (c FindPersons) Execute(_ context.Context, m model.Model) (Result, error) {
	m.UpdatePersonFilter(func(p domain.Person) bool {
		return containsAnyWord(string(p.Name()), c.Keywords)
	})
	shown := m.FilteredPersons()
	return Result{
		Feedback: fmt.Sprintf(MessagePersonsListedOverview, shown.Len()),
		Listing:  ListingPersons,
		Persons:  shown,
	}, nil
}

// FindActivities matches keywords against activity titles and descriptions.
type FindActivities struct {
	Keywords []string
}

func (c FindActivities) Execute(_ context.Context, m model.Model) (Result, error) {
	m.UpdateActivityFilter(func(a domain.Activity) bool {
		return containsAnyWord(string(a.Title()), c.Keywords) ||
			containsAnyWord(string(a.Description()), c.Keywords)
	})
	shown := m.FilteredActivities()
	return Result{
		Feedback:   fmt.Sprintf(MessageActivitiesListedOverview, shown.Len()),
		Listing:    ListingActivities,
		Activities: shown,
	}, nil
}

func containsAnyWord(text string, keywords []string) bool {
	words := strings.Fields(strings.ToLower(text))
	return slices.ContainsFunc(keywords, func(k string) bool {
		return slices.Contains(words, strings.ToLower(k))
	})
}
