package viewmodel_test

import (
	"math"
	"testing"

	"github.com/mdouchement/sharedlist/internal/viewmodel"
	"github.com/mdouchement/sharedlist/pkg/libsl"
	"github.com/stretchr/testify/assert"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name     string
		expected viewmodel.Filter
		err      bool
	}{
		{"", viewmodel.All, false},
		{"all", viewmodel.All, false},
		{" Pending ", viewmodel.Pending, false},
		{"PURCHASED", viewmodel.Purchased, false},
		{"bought", viewmodel.All, true},
	}

	for _, test := range tests {
		f, err := viewmodel.ParseFilter(test.name)
		if test.err {
			assert.Error(t, err, test.name)
			continue
		}
		assert.NoError(t, err, test.name)
		assert.Equal(t, test.expected, f, test.name)
	}
}

func TestFilter_Next(t *testing.T) {
	assert.Equal(t, viewmodel.Pending, viewmodel.All.Next())
	assert.Equal(t, viewmodel.Purchased, viewmodel.Pending.Next())
	assert.Equal(t, viewmodel.All, viewmodel.Purchased.Next())

	assert.Equal(t, "pending", viewmodel.Pending.String())
}

func TestVisible(t *testing.T) {
	items := []libsl.Item{
		{ID: "1", Purchased: libsl.Bool(true)},
		{ID: "2", Purchased: libsl.Bool(false)},
		{ID: "3"},
	}

	ids := func(items []libsl.Item) []string {
		var r []string
		for _, item := range items {
			r = append(r, item.ID)
		}
		return r
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids(viewmodel.Visible(items, viewmodel.All)))
	assert.Equal(t, []string{"2", "3"}, ids(viewmodel.Visible(items, viewmodel.Pending)))
	assert.Equal(t, []string{"1"}, ids(viewmodel.Visible(items, viewmodel.Purchased)))
}

func TestTotals(t *testing.T) {
	items := []libsl.Item{
		{ID: "1", Price: libsl.NewPrice(10), Quantity: libsl.Int(2)},
		{ID: "2", Price: libsl.NewPrice(5)},
	}

	total := viewmodel.TotalCost(items)
	assert.Equal(t, 25.0, total)
	assert.Equal(t, 1.25, viewmodel.PerPersonShare(total))

	assert.Equal(t, 0.0, viewmodel.TotalCost(nil))
	assert.Equal(t, 0.0, viewmodel.TotalCost([]libsl.Item{{ID: "3", Quantity: libsl.Int(3)}}))
}

func TestTotals_InvalidPrice(t *testing.T) {
	items := []libsl.Item{
		{ID: "1", Price: libsl.NewPrice(math.NaN()), Quantity: libsl.Int(1)},
		{ID: "2", Price: libsl.NewPrice(10), Quantity: libsl.Int(2)},
		{ID: "3", Price: libsl.NewPrice(math.Inf(1))},
		{ID: "4", Price: libsl.NewPrice(-3)},
	}

	total := viewmodel.TotalCost(items)
	assert.Equal(t, 20.0, total)
	assert.Equal(t, 1.0, viewmodel.PerPersonShare(total))
}

func TestBuild(t *testing.T) {
	items := []libsl.Item{
		{ID: "1", Price: libsl.NewPrice(10), Quantity: libsl.Int(2), Purchased: libsl.Bool(true)},
		{ID: "2", Price: libsl.NewPrice(5)},
	}

	view := viewmodel.Build(items, viewmodel.Purchased, true)
	assert.Len(t, view.Items, 1)
	assert.Equal(t, "1", view.Items[0].ID)
	assert.Equal(t, 25.0, view.Total, "totals ignore the filter")
	assert.Equal(t, 1.25, view.PerPerson)
	assert.Equal(t, viewmodel.Purchased, view.Filter)
	assert.True(t, view.Loaded)
	assert.False(t, view.Empty())

	view = viewmodel.Build(nil, viewmodel.All, false)
	assert.True(t, view.Empty())
	assert.False(t, view.Loaded)
}
