package shoplist

import (
	"github.com/mdouchement/sharedlist/pkg/libsl"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// A Kind is the kind of change received from the realtime feed.
type Kind int

// Kinds of change.
const (
	Insert Kind = iota + 1
	Update
	Delete
)

func (k Kind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Update:
		return "update"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// An Event is a normalized change of the items table.
// Row is the full new row for inserts and updates.
type Event struct {
	Kind Kind
	ID   string
	Row  libsl.Item
}

// Normalize converts a raw change event.
func Normalize(ev libsl.ChangeEvent) (Event, error) {
	switch ev.Type {
	case libsl.EventInsert, libsl.EventUpdate:
		if ev.New == nil || ev.New.ID == "" {
			return Event{}, errors.Errorf("%s event without row id", ev.Type)
		}
		kind := Insert
		if ev.Type == libsl.EventUpdate {
			kind = Update
		}
		return Event{Kind: kind, ID: ev.New.ID, Row: ev.New.Clone()}, nil
	case libsl.EventDelete:
		if ev.Old == nil || ev.Old.ID == "" {
			return Event{}, errors.New("DELETE event without row id")
		}
		return Event{Kind: Delete, ID: ev.Old.ID}, nil
	default:
		return Event{}, errors.Errorf("unknown event type %q", ev.Type)
	}
}

// Apply merges the event into the session cache.
func (s *Session) Apply(e Event) {
	switch e.Kind {
	case Insert, Update:
		s.cache.Upsert(e.Row)
	case Delete:
		s.cache.Remove(e.ID)
	}
}

// listen forwards the subscription events to the merge goroutine.
func (s *Session) listen() {
	defer s.wg.Done()
	defer close(s.events)

	for ev := range s.sub.Events() {
		e, err := Normalize(ev)
		if err != nil {
			s.log.WithError(err).Warn("Dropping realtime event")
			continue
		}

		select {
		case s.events <- e:
		case <-s.done:
			return
		}
	}

	if err := s.sub.Err(); err != nil {
		s.setErr(err)
		s.log.WithError(err).Error("Realtime feed stopped")
	}
}

func (s *Session) merge() {
	defer s.wg.Done()

	for e := range s.events {
		s.log.WithFields(logrus.Fields{
			"kind": e.Kind,
			"id":   e.ID,
		}).Debug("Realtime change")
		s.Apply(e)
	}
}
