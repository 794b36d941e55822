package model

import (
	"fmt"
	"slices"
	"sync"

	"gomedic/internal/domain"
)

// Store is the in-memory record of persons and activities. It enforces:
//   - no two activities share an id,
//   - no two activities conflict (see domain.Activity.IsConflicting),
//   - no two persons share an id.
//
// Mutators replace the canonical slices instead of writing into them, so every View handed
// out earlier stays a consistent snapshot. Mutation is single-threaded; only Subscribe and
// the returned cancel func may be called from other goroutines.
type Store struct {
	persons    []domain.Person
	activities []domain.Activity

	personFilter   func(domain.Person) bool
	activityFilter func(domain.Activity) bool
	activityOrder  Order

	// derived, nil when stale
	personsByID     []domain.Person
	activitiesByID  []domain.Activity
	activitiesStart []domain.Activity

	version uint64

	subMu   sync.Mutex
	subs    map[int]chan *Projection
	nextSub int
}

func NewStore() *Store {
	return &Store{
		personFilter:   ShowAllPersons,
		activityFilter: ShowAllActivities,
	}
}

// Version counts successful mutations.
func (s *Store) Version() uint64 { return s.version }

func (s *Store) Persons() View[domain.Person]       { return newView(s.persons) }
func (s *Store) Activities() View[domain.Activity] { return newView(s.activities) }

func (s *Store) PersonsByID() View[domain.Person] {
	if s.personsByID == nil {
		sorted := slices.Clone(s.persons)
		slices.SortStableFunc(sorted, func(a, b domain.Person) int { return a.ID().Compare(b.ID()) })
		s.personsByID = nonNil(sorted)
	}
	return newView(s.personsByID)
}

func (s *Store) ActivitiesByID() View[domain.Activity] {
	if s.activitiesByID == nil {
		sorted := slices.Clone(s.activities)
		slices.SortStableFunc(sorted, func(a, b domain.Activity) int { return a.ID().Compare(b.ID()) })
		s.activitiesByID = nonNil(sorted)
	}
	return newView(s.activitiesByID)
}

// ActivitiesByStartTime orders by start time, ties broken by id.
func (s *Store) ActivitiesByStartTime() View[domain.Activity] {
	if s.activitiesStart == nil {
		sorted := slices.Clone(s.activities)
		slices.SortStableFunc(sorted, func(a, b domain.Activity) int {
			if c := a.Start().Compare(b.Start()); c != 0 {
				return c
			}
			return a.ID().Compare(b.ID())
		})
		s.activitiesStart = nonNil(sorted)
	}
	return newView(s.activitiesStart)
}

func (s *Store) FilteredPersons() View[domain.Person] {
	return newView(filter(s.PersonsByID().items, s.personFilter))
}

func (s *Store) FilteredActivities() View[domain.Activity] {
	src := s.ActivitiesByID()
	if s.activityOrder == OrderByStartTime {
		src = s.ActivitiesByStartTime()
	}
	return newView(filter(src.items, s.activityFilter))
}

func (s *Store) UpdatePersonFilter(pred func(domain.Person) bool) {
	if pred == nil {
		pred = ShowAllPersons
	}
	s.personFilter = pred
}

func (s *Store) UpdateActivityFilter(pred func(domain.Activity) bool) {
	if pred == nil {
		pred = ShowAllActivities
	}
	s.activityFilter = pred
}

func (s *Store) SetActivityOrder(o Order) { s.activityOrder = o }

func (s *Store) HasActivity(id domain.ID) bool {
	return s.activityIndex(id) >= 0
}

func (s *Store) Activity(id domain.ID) (domain.Activity, bool) {
	if i := s.activityIndex(id); i >= 0 {
		return s.activities[i], true
	}
	return domain.Activity{}, false
}

func (s *Store) HasPerson(id domain.ID) bool {
	return s.personIndex(id) >= 0
}

func (s *Store) Person(id domain.ID) (domain.Person, bool) {
	if i := s.personIndex(id); i >= 0 {
		return s.persons[i], true
	}
	return domain.Person{}, false
}

// AddActivity fails with ErrDuplicate when the id is taken and with *ConflictError when a
// stored activity overlaps a.
func (s *Store) AddActivity(a domain.Activity) error {
	if s.HasActivity(a.ID()) {
		return fmt.Errorf("%w: activity %s", ErrDuplicate, a.ID())
	}
	if err := checkConflict(s.activities, a, -1); err != nil {
		return err
	}
	s.activities = append(slices.Clip(s.activities), a)
	s.mutated()
	return nil
}

func (s *Store) DeleteActivity(id domain.ID) error {
	i := s.activityIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: activity %s", ErrNotFound, id)
	}
	s.activities = slices.Delete(slices.Clone(s.activities), i, i+1)
	s.mutated()
	return nil
}

// SetActivity replaces the activity stored under oldID. The replaced activity is left out of
// the duplicate and conflict checks, so editing an activity in place never conflicts with
// itself. On error the store is unchanged.
func (s *Store) SetActivity(oldID domain.ID, a domain.Activity) error {
	i := s.activityIndex(oldID)
	if i < 0 {
		return fmt.Errorf("%w: activity %s", ErrNotFound, oldID)
	}
	if !a.ID().Equal(oldID) && s.HasActivity(a.ID()) {
		return fmt.Errorf("%w: activity %s", ErrDuplicate, a.ID())
	}
	if err := checkConflict(s.activities, a, i); err != nil {
		return err
	}
	next := slices.Clone(s.activities)
	next[i] = a
	s.activities = next
	s.mutated()
	return nil
}

func (s *Store) AddPerson(p domain.Person) error {
	if s.HasPerson(p.ID()) {
		return fmt.Errorf("%w: person %s", ErrDuplicate, p.ID())
	}
	s.persons = append(slices.Clip(s.persons), p)
	s.mutated()
	return nil
}

func (s *Store) DeletePerson(id domain.ID) error {
	i := s.personIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: person %s", ErrNotFound, id)
	}
	s.persons = slices.Delete(slices.Clone(s.persons), i, i+1)
	s.mutated()
	return nil
}

func (s *Store) SetPerson(oldID domain.ID, p domain.Person) error {
	i := s.personIndex(oldID)
	if i < 0 {
		return fmt.Errorf("%w: person %s", ErrNotFound, oldID)
	}
	if !p.ID().Equal(oldID) && s.HasPerson(p.ID()) {
		return fmt.Errorf("%w: person %s", ErrDuplicate, p.ID())
	}
	next := slices.Clone(s.persons)
	next[i] = p
	s.persons = next
	s.mutated()
	return nil
}

// Reset replaces the whole content, e.g. after loading from storage. The input is checked
// against every invariant first; on error nothing changes.
func (s *Store) Reset(persons []domain.Person, activities []domain.Activity) error {
	tmp := NewStore()
	for _, p := range persons {
		if err := tmp.AddPerson(p); err != nil {
			return err
		}
	}
	for _, a := range activities {
		if err := tmp.AddActivity(a); err != nil {
			return err
		}
	}
	s.persons = tmp.persons
	s.activities = tmp.activities
	s.mutated()
	return nil
}

func (s *Store) Clear() {
	s.persons = nil
	s.activities = nil
	s.mutated()
}

// NextActivityID returns the id after the highest one in use.
func (s *Store) NextActivityID() (domain.ID, error) {
	maxN := 0
	for _, a := range s.activities {
		maxN = max(maxN, a.ID().Number())
	}
	return nextID(domain.PrefixActivity, maxN)
}

func (s *Store) NextPersonID(kind domain.Kind) (domain.ID, error) {
	prefix := domain.PrefixFor(kind)
	maxN := 0
	for _, p := range s.persons {
		if p.ID().Prefix() == prefix {
			maxN = max(maxN, p.ID().Number())
		}
	}
	return nextID(prefix, maxN)
}

func nextID(prefix domain.Prefix, used int) (domain.ID, error) {
	if used >= domain.MaxIDNumber {
		return domain.ID{}, fmt.Errorf("%w: prefix %c", ErrIDsExhausted, prefix)
	}
	return domain.NewID(prefix, used+1)
}

func (s *Store) activityIndex(id domain.ID) int {
	return slices.IndexFunc(s.activities, func(a domain.Activity) bool { return a.ID().Equal(id) })
}

func (s *Store) personIndex(id domain.ID) int {
	return slices.IndexFunc(s.persons, func(p domain.Person) bool { return p.ID().Equal(id) })
}

// checkConflict scans every stored activity except the one at index skip.
func checkConflict(activities []domain.Activity, a domain.Activity, skip int) error {
	for i, existing := range activities {
		if i == skip {
			continue
		}
		if existing.IsConflicting(a) {
			return &ConflictError{Existing: existing}
		}
	}
	return nil
}

func (s *Store) mutated() {
	s.version++
	s.personsByID = nil
	s.activitiesByID = nil
	s.activitiesStart = nil
	s.publish()
}

func filter[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
