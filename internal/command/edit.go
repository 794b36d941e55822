package command

import (
	"context"
	"fmt"

	"gomedic/internal/domain"
	"gomedic/internal/model"
)

// EditActivity replaces the displayed activity Target with a copy carrying the given fields.
// Nil fields keep their current value.
type EditActivity struct {
	Target      domain.ID
	Start       *domain.Time
	End         *domain.Time
	Title       *domain.Title
	Description *domain.Description
}

func (c EditActivity) Execute(_ context.Context, m model.Model) (Result, error) {
	if c.Start == nil && c.End == nil && c.Title == nil && c.Description == nil {
		return Result{}, newError(MessageNotEdited, nil)
	}
	var (
		current domain.Activity
		found   bool
	)
	for _, a := range m.FilteredActivities().All() {
		if a.ID().Equal(c.Target) {
			current, found = a, true
			break
		}
	}
	if !found {
		return Result{}, newError(MessageInvalidActivityID, model.ErrNotFound)
	}
	start, end := current.Start(), current.End()
	title, desc := current.Title(), current.Description()
	if c.Start != nil {
		start = *c.Start
	}
	if c.End != nil {
		end = *c.End
	}
	if c.Title != nil {
		title = *c.Title
	}
	if c.Description != nil {
		desc = *c.Description
	}
	edited, err := domain.NewActivity(current.ID(), start, end, title, desc)
	if err != nil {
		return Result{}, constructionError(err)
	}
	if err := m.SetActivity(current.ID(), edited); err != nil {
		return Result{}, storeError(err, MessageDuplicateActivity)
	}
	return Result{Feedback: fmt.Sprintf(MessageEditActivitySuccess, edited)}, nil
}

// PersonEdits lists the person fields to change; nil means keep.
type PersonEdits struct {
	Name       *domain.Name
	Phone      *domain.Phone
	Department *domain.Department
	Age        *domain.Age
	Gender     *domain.Gender
	BloodType  *domain.BloodType
	Conditions []domain.Condition
	// ConditionsSet distinguishes "clear all conditions" from "leave them alone".
	ConditionsSet bool
}

func (e PersonEdits) empty() bool {
	return e.Name == nil && e.Phone == nil && e.Department == nil && e.Age == nil &&
		e.Gender == nil && e.BloodType == nil && !e.ConditionsSet
}

// EditPerson replaces the person shown at the 1-based Index.
type EditPerson struct {
	Index int
	Edits PersonEdits
}

func (c EditPerson) Execute(_ context.Context, m model.Model) (Result, error) {
	if c.Edits.empty() {
		return Result{}, newError(MessageNotEdited, nil)
	}
	current, err := personAt(m, c.Index)
	if err != nil {
		return Result{}, err
	}
	f := PersonFields{
		Name:       current.Name(),
		Phone:      current.Phone(),
		Department: current.Department(),
		Age:        current.Age(),
		Gender:     current.Gender(),
		BloodType:  current.BloodType(),
		Conditions: current.Conditions(),
	}
	e := c.Edits
	if e.Name != nil {
		f.Name = *e.Name
	}
	if e.Phone != nil {
		f.Phone = *e.Phone
	}
	if e.Department != nil {
		f.Department = *e.Department
	}
	if e.Age != nil {
		f.Age = *e.Age
	}
	if e.Gender != nil {
		f.Gender = *e.Gender
	}
	if e.BloodType != nil {
		f.BloodType = *e.BloodType
	}
	if e.ConditionsSet {
		f.Conditions = e.Conditions
	}
	edited, err := f.build(current.Kind(), current.ID())
	if err != nil {
		return Result{}, constructionError(err)
	}
	if err := m.SetPerson(current.ID(), edited); err != nil {
		return Result{}, storeError(err, MessageDuplicatePerson)
	}
	return Result{Feedback: fmt.Sprintf(MessageEditPersonSuccess, edited)}, nil
}
