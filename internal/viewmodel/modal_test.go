package viewmodel_test

import (
	"testing"

	"github.com/mdouchement/sharedlist/internal/viewmodel"
	"github.com/mdouchement/sharedlist/pkg/libsl"
	"github.com/stretchr/testify/assert"
)

func TestEditModal(t *testing.T) {
	var m viewmodel.EditModal
	assert.Equal(t, viewmodel.Closed, m.State())
	assert.ErrorIs(t, m.BeginSave(), viewmodel.ErrModalClosed)

	assert.NoError(t, m.Open(libsl.Item{ID: "1", Name: "Milk"}))
	item, ok := m.Item()
	assert.True(t, ok)
	assert.Equal(t, "Milk", item.Name)

	assert.NoError(t, m.BeginSave())
	assert.Equal(t, viewmodel.Saving, m.State())
	assert.ErrorIs(t, m.Close(), viewmodel.ErrModalSaving)
	assert.ErrorIs(t, m.Open(libsl.Item{ID: "2"}), viewmodel.ErrModalSaving)
	assert.ErrorIs(t, m.BeginSave(), viewmodel.ErrModalSaving)

	m.EndSave(false)
	assert.Equal(t, viewmodel.Open, m.State())

	assert.NoError(t, m.BeginSave())
	m.EndSave(true)
	assert.Equal(t, viewmodel.Closed, m.State())
	_, ok = m.Item()
	assert.False(t, ok)
}

func TestEditModal_Close(t *testing.T) {
	var m viewmodel.EditModal
	assert.NoError(t, m.Close())

	assert.NoError(t, m.Open(libsl.Item{ID: "1"}))
	assert.NoError(t, m.Close())
	assert.Equal(t, viewmodel.Closed, m.State())

	m.EndSave(true) // ignored when not saving
	assert.Equal(t, viewmodel.Closed, m.State())
}
