// Package viewmodel derives what the presentation layer displays from the
// content of the cache.
package viewmodel

import (
	"strings"

	"github.com/mdouchement/sharedlist/pkg/libsl"
	"github.com/pkg/errors"
)

// GroupSize is the number of people sharing the bill.
const GroupSize = 20

// A Filter selects the visible items.
type Filter int

// Available filters.
const (
	All Filter = iota
	Pending
	Purchased
)

var filters = []string{"all", "pending", "purchased"}

// ParseFilter returns the filter matching the given name.
func ParseFilter(name string) (Filter, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return All, nil
	}

	for i, f := range filters {
		if f == name {
			return Filter(i), nil
		}
	}
	return All, errors.Errorf("unknown filter %q (expected one of %s)", name, strings.Join(filters, ", "))
}

func (f Filter) String() string {
	if f < All || f > Purchased {
		return "unknown"
	}
	return filters[f]
}

// Next returns the following filter, cycling back to All.
func (f Filter) Next() Filter {
	return (f + 1) % Filter(len(filters))
}

// Match reports whether the item is selected by the filter.
// An item with no purchased state is pending.
func (f Filter) Match(item libsl.Item) bool {
	switch f {
	case Pending:
		return !item.IsPurchased()
	case Purchased:
		return item.IsPurchased()
	default:
		return true
	}
}

// Visible returns the items selected by the filter, in the cache order.
func Visible(items []libsl.Item, f Filter) []libsl.Item {
	visible := make([]libsl.Item, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			visible = append(visible, item)
		}
	}
	return visible
}

// TotalCost returns the sum of price × quantity over all the given items.
func TotalCost(items []libsl.Item) float64 {
	var total float64
	for _, item := range items {
		total += item.Cost()
	}
	return total
}

// PerPersonShare splits the total between the GroupSize people.
func PerPersonShare(total float64) float64 {
	return total / GroupSize
}

// A View is a snapshot of everything the presentation layer renders.
type View struct {
	Items     []libsl.Item
	Total     float64
	PerPerson float64
	Filter    Filter
	Loaded    bool
}

// Build computes the view from a snapshot of the cache.
// Totals are computed over all the items, whatever the filter.
func Build(items []libsl.Item, f Filter, loaded bool) View {
	total := TotalCost(items)
	return View{
		Items:     Visible(items, f),
		Total:     total,
		PerPerson: PerPersonShare(total),
		Filter:    f,
		Loaded:    loaded,
	}
}

// Empty reports whether there is nothing to display for the current filter.
func (v View) Empty() bool {
	return len(v.Items) == 0
}
