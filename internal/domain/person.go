package domain

import (
	"fmt"
	"slices"
	"strings"
)

type Kind string

const (
	KindDoctor  Kind = "doctor"
	KindPatient Kind = "patient"
)

// PrefixFor returns the id prefix used by persons of the given kind.
func PrefixFor(k Kind) Prefix {
	if k == KindDoctor {
		return PrefixDoctor
	}
	return PrefixPatient
}

// Person is a doctor or a patient. Only the fields of its kind are populated.
type Person struct {
	id    ID
	kind  Kind
	name  Name
	phone Phone

	department Department

	age        Age
	gender     Gender
	bloodType  BloodType
	conditions []Condition
}

func NewDoctor(id ID, name Name, phone Phone, department Department) (Person, error) {
	if id.Prefix() != PrefixDoctor {
		return Person{}, fmt.Errorf("%w: doctor id must start with D", ErrInvalidID)
	}
	if name == "" || phone == "" || department == "" {
		return Person{}, fmt.Errorf("%w: doctor requires name, phone and department", ErrInvalidField)
	}
	return Person{id: id, kind: KindDoctor, name: name, phone: phone, department: department}, nil
}

func NewPatient(id ID, name Name, phone Phone, age Age, gender Gender, bloodType BloodType, conditions []Condition) (Person, error) {
	if id.Prefix() != PrefixPatient {
		return Person{}, fmt.Errorf("%w: patient id must start with P", ErrInvalidID)
	}
	if name == "" || phone == "" || gender == "" {
		return Person{}, fmt.Errorf("%w: patient requires name, phone and gender", ErrInvalidField)
	}
	return Person{
		id:         id,
		kind:       KindPatient,
		name:       name,
		phone:      phone,
		age:        age,
		gender:     gender,
		bloodType:  bloodType,
		conditions: slices.Clone(conditions),
	}, nil
}

func (p Person) ID() ID                 { return p.id }
func (p Person) Kind() Kind             { return p.kind }
func (p Person) Name() Name             { return p.name }
func (p Person) Phone() Phone           { return p.phone }
func (p Person) Department() Department { return p.department }
func (p Person) Age() Age               { return p.age }
func (p Person) Gender() Gender         { return p.gender }
func (p Person) BloodType() BloodType   { return p.bloodType }

// Conditions returns a copy of the patient's medical conditions.
func (p Person) Conditions() []Condition { return slices.Clone(p.conditions) }

func (p Person) SameID(other Person) bool {
	return p.id.Equal(other.id)
}

func (p Person) Equal(other Person) bool {
	return p.id.Equal(other.id) &&
		p.kind == other.kind &&
		p.name == other.name &&
		p.phone == other.phone &&
		p.department == other.department &&
		p.age == other.age &&
		p.gender == other.gender &&
		p.bloodType == other.bloodType &&
		slices.Equal(p.conditions, other.conditions)
}

func (p Person) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s; Name: %s; Phone: %s", p.id, p.name, p.phone)
	switch p.kind {
	case KindDoctor:
		fmt.Fprintf(&b, "; Department: %s", p.department)
	case KindPatient:
		fmt.Fprintf(&b, "; Age: %d; Gender: %s", p.age, p.gender)
		if p.bloodType != "" {
			fmt.Fprintf(&b, "; Blood Type: %s", p.bloodType)
		}
		if len(p.conditions) > 0 {
			names := make([]string, len(p.conditions))
			for i, c := range p.conditions {
				names[i] = string(c)
			}
			fmt.Fprintf(&b, "; Medical Conditions: %s", strings.Join(names, ", "))
		}
	}
	return b.String()
}
