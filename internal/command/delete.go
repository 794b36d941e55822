package command

import (
	"context"
	"fmt"

	"gomedic/internal/domain"
	"gomedic/internal/model"
)

// DeleteActivity removes the activity whose id, as displayed, equals Target.
type DeleteActivity struct {
	Target domain.ID
}

func (c DeleteActivity) Execute(_ context.Context, m model.Model) (Result, error) {
	var (
		victim domain.Activity
		found  bool
	)
	for _, a := range m.FilteredActivities().All() {
		if a.ID().String() == c.Target.String() {
			victim, found = a, true
			break
		}
	}
	if !found {
		return Result{}, newError(MessageInvalidActivityID, model.ErrNotFound)
	}
	if err := m.DeleteActivity(victim.ID()); err != nil {
		return Result{}, storeError(err, MessageDuplicateActivity)
	}
	return Result{Feedback: fmt.Sprintf(MessageDeleteActivitySuccess, victim)}, nil
}

// DeletePerson removes the person shown at the 1-based Index of the filtered person list.
type DeletePerson struct {
	Index int
}

func (c DeletePerson) Execute(_ context.Context, m model.Model) (Result, error) {
	p, err := personAt(m, c.Index)
	if err != nil {
		return Result{}, err
	}
	if err := m.DeletePerson(p.ID()); err != nil {
		return Result{}, storeError(err, MessageDuplicatePerson)
	}
	return Result{Feedback: fmt.Sprintf(MessageDeletePersonSuccess, p)}, nil
}

func personAt(m model.Model, index int) (domain.Person, error) {
	shown := m.FilteredPersons()
	if index < 1 || index > shown.Len() {
		return domain.Person{}, newError(MessageInvalidPersonIndex, model.ErrNotFound)
	}
	return shown.At(index - 1), nil
}
