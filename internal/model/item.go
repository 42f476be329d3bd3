package model

import "github.com/mdouchement/sharedlist/pkg/libsl"

// A Item represents a database record and the rendered API response.
type Item struct {
	Base `msgpack:",inline" storm:"inline"`

	Name      string       `json:"name"      msgpack:"name"`
	Quantity  *int         `json:"quantity"  msgpack:"quantity"`
	Price     *libsl.Price `json:"price"     msgpack:"price"`
	AddedBy   *string      `json:"added_by"  msgpack:"added_by"`
	Purchased *bool        `json:"purchased" msgpack:"purchased"`
}

// NewItem returns a new item with default values for the given draft.
func NewItem(draft libsl.Draft) *Item {
	item := &Item{
		Name:      draft.Name,
		Quantity:  libsl.Int(draft.Quantity),
		Price:     libsl.NewPrice(draft.Price),
		Purchased: libsl.Bool(false),
	}
	if draft.AddedBy != "" {
		item.AddedBy = libsl.String(draft.AddedBy)
	}
	return item
}

// Row returns the API representation of the item.
func (m *Item) Row() libsl.Item {
	return libsl.Item{
		ID:        m.ID,
		Name:      m.Name,
		Quantity:  m.Quantity,
		Price:     m.Price,
		AddedBy:   m.AddedBy,
		Purchased: m.Purchased,
		CreatedAt: m.CreatedAt,
	}
}
