package structs_test

import (
	"testing"

	"github.com/mdouchement/sharedlist/pkg/structs"
	"github.com/stretchr/testify/assert"
)

type record struct {
	Name      string
	Quantity  *int
	Purchased *bool
	Note      string
}

type partial struct {
	Name      *string
	Quantity  *int
	Purchased *bool
	Unknown   *string
}

func TestPatch(t *testing.T) {
	qty := 2
	r := &record{Name: "Milk", Quantity: &qty, Note: "keep"}

	name := "Oat milk"
	purchased := true
	unknown := "ignored"
	p := partial{Name: &name, Purchased: &purchased, Unknown: &unknown}

	patched, err := structs.Patch(r, p)
	assert.NoError(t, err)
	assert.True(t, patched)
	assert.Equal(t, "Oat milk", r.Name)
	assert.Equal(t, 2, *r.Quantity)
	assert.True(t, *r.Purchased)
	assert.Equal(t, "keep", r.Note)

	// The pointer is not shared with the patch.
	purchased = false
	assert.True(t, *r.Purchased)
}

func TestPatch_Empty(t *testing.T) {
	r := &record{Name: "Milk"}

	patched, err := structs.Patch(r, partial{})
	assert.NoError(t, err)
	assert.False(t, patched)
	assert.Equal(t, "Milk", r.Name)
}

func TestGetSetField(t *testing.T) {
	r := &record{Name: "Milk"}

	structs.SetField(r, "Note", "fresh")
	assert.Equal(t, "fresh", structs.GetField(r, "Note"))
	assert.Panics(t, func() {
		structs.SetField(r, "Note", 42)
	})
}

func TestProject(t *testing.T) {
	r := &record{Name: "Milk", Note: "organic"}

	values, err := structs.Project(r, "Name", "Note")
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"Name": "Milk", "Note": "organic"}, values)

	_, err = structs.Project(r, "Price")
	assert.Error(t, err)
}
