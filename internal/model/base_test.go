package model_test

import (
	"testing"
	"time"

	"github.com/mdouchement/sharedlist/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestBase_Touch(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	var m model.Base
	m.Touch(created)
	assert.Len(t, m.ID, 36)
	assert.Equal(t, created, *m.CreatedAt)
	assert.Equal(t, created, *m.UpdatedAt)

	id := m.ID
	m.Touch(updated)
	assert.Equal(t, id, m.GetID())
	assert.Equal(t, created, *m.CreatedAt)
	assert.Equal(t, updated, *m.UpdatedAt)
}
