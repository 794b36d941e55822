package command

import (
	"context"
	"errors"
	"fmt"

	"gomedic/internal/domain"
	"gomedic/internal/model"
)

// AddActivity schedules a new activity under the next free activity id.
type AddActivity struct {
	Start       domain.Time
	End         domain.Time
	Title       domain.Title
	Description domain.Description
}

func (c AddActivity) Execute(_ context.Context, m model.Model) (Result, error) {
	id, err := m.NextActivityID()
	if err != nil {
		return Result{}, storeError(err, MessageDuplicateActivity)
	}
	a, err := domain.NewActivity(id, c.Start, c.End, c.Title, c.Description)
	if err != nil {
		return Result{}, constructionError(err)
	}
	if err := m.AddActivity(a); err != nil {
		return Result{}, storeError(err, MessageDuplicateActivity)
	}
	return Result{Feedback: fmt.Sprintf(MessageAddActivitySuccess, a)}, nil
}

// PersonFields carries the raw, already validated fields of a doctor or a patient.
type PersonFields struct {
	Name       domain.Name
	Phone      domain.Phone
	Department domain.Department
	Age        domain.Age
	Gender     domain.Gender
	BloodType  domain.BloodType
	Conditions []domain.Condition
}

func (f PersonFields) build(kind domain.Kind, id domain.ID) (domain.Person, error) {
	if kind == domain.KindDoctor {
		return domain.NewDoctor(id, f.Name, f.Phone, f.Department)
	}
	return domain.NewPatient(id, f.Name, f.Phone, f.Age, f.Gender, f.BloodType, f.Conditions)
}

// AddPerson registers a doctor or a patient under the next free id of its kind.
type AddPerson struct {
	Kind   domain.Kind
	Fields PersonFields
}

func (c AddPerson) Execute(_ context.Context, m model.Model) (Result, error) {
	id, err := m.NextPersonID(c.Kind)
	if err != nil {
		return Result{}, storeError(err, MessageDuplicatePerson)
	}
	p, err := c.Fields.build(c.Kind, id)
	if err != nil {
		return Result{}, constructionError(err)
	}
	if err := m.AddPerson(p); err != nil {
		return Result{}, storeError(err, MessageDuplicatePerson)
	}
	msg := MessageAddPatientSuccess
	if c.Kind == domain.KindDoctor {
		msg = MessageAddDoctorSuccess
	}
	return Result{Feedback: fmt.Sprintf(msg, p)}, nil
}

func constructionError(err error) *Error {
	if errors.Is(err, domain.ErrInvalidActivity) {
		return newError(domain.ActivityConstraints, err)
	}
	if errors.Is(err, domain.ErrInvalidField) || errors.Is(err, domain.ErrInvalidID) {
		return newError(domain.Constraint(err), err)
	}
	return Wrap(err)
}
