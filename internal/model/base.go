package model

import (
	"time"

	"github.com/gofrs/uuid"
)

type (
	// A Model is a row handled by the database drivers.
	Model interface {
		GetID() string
		// Touch stamps the row right before it is written.
		Touch(now time.Time)
	}

	// A Base holds the columns every stored row carries.
	Base struct {
		ID        string     `json:"id"                   msgpack:"id"         storm:"id"`
		CreatedAt *time.Time `json:"created_at"           msgpack:"created_at" storm:"index"`
		UpdatedAt *time.Time `json:"updated_at,omitempty" msgpack:"updated_at"`
	}
)

// GetID returns the row id.
func (m *Base) GetID() string {
	return m.ID
}

// Touch sets the update date. A row without id is new: it gets a random id
// and its creation date.
func (m *Base) Touch(now time.Time) {
	if m.ID == "" {
		m.ID = uuid.Must(uuid.NewV4()).String()
		m.CreatedAt = &now
	}
	m.UpdatedAt = &now
}
