// Package record defines the plain, serialisable form of the store content.
package record

import (
	"errors"
	"fmt"

	"gomedic/internal/domain"
	"gomedic/internal/model"
)

// ErrDataConversion means stored data could not be turned back into valid entities.
var ErrDataConversion = errors.New("data conversion failed")

type Activity struct {
	ID          string `json:"id"`
	Start       string `json:"start_time"`
	End         string `json:"end_time"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Person struct {
	ID         string   `json:"id"`
	Kind       string   `json:"kind"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone"`
	Department string   `json:"department,omitempty"`
	Age        int      `json:"age,omitempty"`
	Gender     string   `json:"gender,omitempty"`
	BloodType  string   `json:"blood_type,omitempty"`
	Conditions []string `json:"medical_conditions,omitempty"`
}

// Snapshot is the whole record at one point in time.
type Snapshot struct {
	Persons    []Person   `json:"persons"`
	Activities []Activity `json:"activities"`
}

// Event is one row of the command audit log.
type Event struct {
	ID           int64  `json:"id"`
	TS           string `json:"ts"`
	Type         string `json:"type"`
	InvocationID string `json:"invocation_id"`
	Command      string `json:"command"`
	Outcome      string `json:"outcome"`
	Message      string `json:"message,omitempty"`
	Payload      string `json:"payload,omitempty"`
}

func FromActivity(a domain.Activity) Activity {
	return Activity{
		ID:          a.ID().String(),
		Start:       a.Start().String(),
		End:         a.End().String(),
		Title:       string(a.Title()),
		Description: string(a.Description()),
	}
}

func FromPerson(p domain.Person) Person {
	r := Person{
		ID:    p.ID().String(),
		Kind:  string(p.Kind()),
		Name:  string(p.Name()),
		Phone: string(p.Phone()),
	}
	if p.Kind() == domain.KindDoctor {
		r.Department = string(p.Department())
		return r
	}
	r.Age = int(p.Age())
	r.Gender = string(p.Gender())
	r.BloodType = string(p.BloodType())
	for _, c := range p.Conditions() {
		r.Conditions = append(r.Conditions, string(c))
	}
	return r
}

// Capture copies the store content in insertion order.
func Capture(s *model.Store) Snapshot {
	return FromViews(s.Persons(), s.Activities())
}

func FromViews(persons model.View[domain.Person], activities model.View[domain.Activity]) Snapshot {
	snap := Snapshot{
		Persons:    make([]Person, 0, persons.Len()),
		Activities: make([]Activity, 0, activities.Len()),
	}
	for _, p := range persons.All() {
		snap.Persons = append(snap.Persons, FromPerson(p))
	}
	for _, a := range activities.All() {
		snap.Activities = append(snap.Activities, FromActivity(a))
	}
	return snap
}

func (a Activity) ToDomain() (domain.Activity, error) {
	id, err := domain.ParseID(a.ID)
	if err != nil {
		return domain.Activity{}, err
	}
	start, err := domain.ParseTime(a.Start)
	if err != nil {
		return domain.Activity{}, err
	}
	end, err := domain.ParseTime(a.End)
	if err != nil {
		return domain.Activity{}, err
	}
	title, err := domain.NewTitle(a.Title)
	if err != nil {
		return domain.Activity{}, err
	}
	desc, err := domain.NewDescription(a.Description)
	if err != nil {
		return domain.Activity{}, err
	}
	return domain.NewActivity(id, start, end, title, desc)
}

func (p Person) ToDomain() (domain.Person, error) {
	id, err := domain.ParseID(p.ID)
	if err != nil {
		return domain.Person{}, err
	}
	name, err := domain.NewName(p.Name)
	if err != nil {
		return domain.Person{}, err
	}
	phone, err := domain.NewPhone(p.Phone)
	if err != nil {
		return domain.Person{}, err
	}
	switch domain.Kind(p.Kind) {
	case domain.KindDoctor:
		dept, err := domain.NewDepartment(p.Department)
		if err != nil {
			return domain.Person{}, err
		}
		return domain.NewDoctor(id, name, phone, dept)
	case domain.KindPatient:
		age, err := domain.NewAge(p.Age)
		if err != nil {
			return domain.Person{}, err
		}
		gender, err := domain.NewGender(p.Gender)
		if err != nil {
			return domain.Person{}, err
		}
		var blood domain.BloodType
		if p.BloodType != "" {
			if blood, err = domain.NewBloodType(p.BloodType); err != nil {
				return domain.Person{}, err
			}
		}
		conds := make([]domain.Condition, 0, len(p.Conditions))
		for _, c := range p.Conditions {
			cond, err := domain.NewCondition(c)
			if err != nil {
				return domain.Person{}, err
			}
			conds = append(conds, cond)
		}
		return domain.NewPatient(id, name, phone, age, gender, blood, conds)
	default:
		return domain.Person{}, fmt.Errorf("%w: unknown person kind %q", domain.ErrInvalidField, p.Kind)
	}
}

// Restore converts the snapshot back to entities and checks them against the store
// invariants. Any failure is reported as ErrDataConversion.
func (s Snapshot) Restore() ([]domain.Person, []domain.Activity, error) {
	persons := make([]domain.Person, 0, len(s.Persons))
	for i, r := range s.Persons {
		p, err := r.ToDomain()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: person %d (%s): %w", ErrDataConversion, i, r.ID, err)
		}
		persons = append(persons, p)
	}
	activities := make([]domain.Activity, 0, len(s.Activities))
	for i, r := range s.Activities {
		a, err := r.ToDomain()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: activity %d (%s): %w", ErrDataConversion, i, r.ID, err)
		}
		activities = append(activities, a)
	}
	if err := model.NewStore().Reset(persons, activities); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrDataConversion, err)
	}
	return persons, activities, nil
}

// Load restores the snapshot into s, replacing its content.
func (s Snapshot) Load(into *model.Store) error {
	persons, activities, err := s.Restore()
	if err != nil {
		return err
	}
	return into.Reset(persons, activities)
}
