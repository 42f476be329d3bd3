package viewmodel

import (
	"sync"

	"github.com/mdouchement/sharedlist/pkg/libsl"
	"github.com/pkg/errors"
)

// A ModalState is the state of the edit modal.
type ModalState int

// Modal states.
const (
	Closed ModalState = iota
	Open
	Saving
)

func (s ModalState) String() string {
	switch s {
	case Open:
		return "open"
	case Saving:
		return "saving"
	default:
		return "closed"
	}
}

var (
	// ErrModalClosed is returned when no item is being edited.
	ErrModalClosed = errors.New("edit modal is closed")
	// ErrModalSaving is returned while a save is in flight.
	ErrModalSaving = errors.New("edit modal is saving")
)

// An EditModal tracks the item being edited.
//
//	Closed -Open-> Open -BeginSave-> Saving -EndSave(true)-> Closed
//	                                        -EndSave(false)-> Open
type EditModal struct {
	mu    sync.Mutex
	state ModalState
	item  libsl.Item
}

// State returns the current state.
func (m *EditModal) State() ModalState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Item returns the edited item and true if the modal is not closed.
func (m *EditModal) Item() (libsl.Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.item, m.state != Closed
}

// Open starts editing the given item.
// Opening another item replaces the edited one unless a save is in flight.
func (m *EditModal) Open(item libsl.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Saving {
		return ErrModalSaving
	}
	m.state = Open
	m.item = item.Clone()
	return nil
}

// BeginSave marks the beginning of the submission.
func (m *EditModal) BeginSave() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case Closed:
		return ErrModalClosed
	case Saving:
		return ErrModalSaving
	}
	m.state = Saving
	return nil
}

// EndSave closes the modal on success, or leaves it open for another try.
func (m *EditModal) EndSave(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Saving {
		return
	}
	if ok {
		m.state = Closed
		m.item = libsl.Item{}
		return
	}
	m.state = Open
}

// Close dismisses the modal.
func (m *EditModal) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Saving {
		return ErrModalSaving
	}
	m.state = Closed
	m.item = libsl.Item{}
	return nil
}
