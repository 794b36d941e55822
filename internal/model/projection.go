package model

import "gomedic/internal/domain"

// Projection is an immutable picture of the store taken right after a mutation.
type Projection struct {
	Version               uint64
	Persons               View[domain.Person]
	ActivitiesByID        View[domain.Activity]
	ActivitiesByStartTime View[domain.Activity]
}

func (s *Store) Projection() *Projection {
	return &Projection{
		Version:               s.version,
		Persons:               s.PersonsByID(),
		ActivitiesByID:        s.ActivitiesByID(),
		ActivitiesByStartTime: s.ActivitiesByStartTime(),
	}
}

// Subscribe registers for a projection after every successful mutation. Delivery never
// blocks the store: a subscriber that falls behind only sees the latest projection. The
// channel is closed by cancel.
func (s *Store) Subscribe() (<-chan *Projection, func()) {
	ch := make(chan *Projection, 1)
	s.subMu.Lock()
	if s.subs == nil {
		s.subs = make(map[int]chan *Projection)
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

func (s *Store) publish() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if len(s.subs) == 0 {
		return
	}
	p := s.Projection()
	for _, ch := range s.subs {
		select {
		case ch <- p:
			continue
		default:
		}
		// drop the stale projection and retry once
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- p:
		default:
		}
	}
}
