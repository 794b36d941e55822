package model

import "gomedic/internal/domain"

// Model is the part of the Store commands work against.
type Model interface {
	HasActivity(id domain.ID) bool
	AddActivity(a domain.Activity) error
	DeleteActivity(id domain.ID) error
	SetActivity(oldID domain.ID, a domain.Activity) error

	HasPerson(id domain.ID) bool
	AddPerson(p domain.Person) error
	DeletePerson(id domain.ID) error
	SetPerson(oldID domain.ID, p domain.Person) error

	FilteredPersons() View[domain.Person]
	FilteredActivities() View[domain.Activity]
	UpdatePersonFilter(pred func(domain.Person) bool)
	UpdateActivityFilter(pred func(domain.Activity) bool)
	SetActivityOrder(o Order)

	NextActivityID() (domain.ID, error)
	NextPersonID(kind domain.Kind) (domain.ID, error)
	Clear()
}

// Order selects how the filtered activity view is sorted.
type Order int

const (
	OrderByID Order = iota
	OrderByStartTime
)

func ShowAllPersons(domain.Person) bool       { return true }
func ShowAllActivities(domain.Activity) bool { return true }
