package tui

import (
	"bytes"
	"testing"

	"github.com/gcla/gowid/widgets/list"
	"github.com/mdouchement/sharedlist/internal/viewmodel"
	"github.com/mdouchement/sharedlist/pkg/libsl"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	item := libsl.Item{
		ID:        "1",
		Name:      "Milk",
		Quantity:  libsl.Int(2),
		Price:     libsl.NewPrice(1.5),
		Purchased: libsl.Bool(true),
	}

	assert.Equal(t, "[x] Milk                     x2       3.00  Anonymous", Label(item))
}

func TestHeadline(t *testing.T) {
	assert.Equal(t, "Loading...", headline(viewmodel.View{}))

	view := viewmodel.Build([]libsl.Item{
		{ID: "1", Price: libsl.NewPrice(10), Quantity: libsl.Int(2)},
		{ID: "2", Price: libsl.NewPrice(5), Purchased: libsl.Bool(true)},
	}, viewmodel.Pending, true)
	assert.Equal(t, "Filter: pending | 1 items | Total: 25.00 | Per person (20): 1.25", headline(view))
}

func TestItemListAbstraction(t *testing.T) {
	abs := newItemListAbstraction()
	assert.Nil(t, abs.First())

	abs.Replace([]libsl.Item{{ID: "3"}, {ID: "2"}, {ID: "1"}})
	assert.Equal(t, 3, abs.Length())
	abs.SetFocus(list.ListPos(1), nil)

	abs.Replace([]libsl.Item{{ID: "4"}, {ID: "3"}, {ID: "2"}, {ID: "1"}})
	assert.Equal(t, list.ListPos(2), abs.Focus(), "focus follows the item")
	assert.Equal(t, list.ListPos(-1), abs.Next(list.ListPos(3)))
	assert.Equal(t, list.ListPos(-1), abs.Previous(list.ListPos(0)))

	abs.Replace([]libsl.Item{{ID: "4"}})
	assert.Equal(t, list.ListPos(0), abs.Focus())
	assert.Nil(t, abs.At(list.ListPos(1)))
}

func TestLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := new(logFormatter)

	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	log.Hooks.Add(&fileHook{rotate: buf, formatter: formatter})

	log.WithFields(logrus.Fields{"op": "add", "id": "1"}).Warn("Could not add item")
	assert.Regexp(t, `^\[.+\] WARNING: Could not add item \(id=1, op=add\)\n$`, buf.String())
}
