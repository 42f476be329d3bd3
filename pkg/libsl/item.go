package libsl

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultBuyer is the name used when an item has no author.
const DefaultBuyer = "Anonymous"

type (
	// An Item is a row of the items table.
	// Nullable columns are pointers, use the accessors to get coerced values.
	Item struct {
		ID        string     `json:"id"`
		Name      string     `json:"name"`
		Quantity  *int       `json:"quantity"`
		Price     *Price     `json:"price"`
		AddedBy   *string    `json:"added_by"`
		Purchased *bool      `json:"purchased"`
		CreatedAt *time.Time `json:"created_at,omitempty"`
	}

	// A Draft is the payload used to insert a new item.
	Draft struct {
		Name     string  `json:"name"`
		Quantity int     `json:"quantity"`
		Price    float64 `json:"price"`
		AddedBy  string  `json:"added_by"`
	}

	// Fields is a partial set of columns. Nil fields are left untouched.
	Fields struct {
		Name      *string `json:"name,omitempty"`
		Quantity  *int    `json:"quantity,omitempty"`
		Price     *Price  `json:"price,omitempty"`
		Purchased *bool   `json:"purchased,omitempty"`
	}

	// A Price is a decimal amount.
	// It is decoded from a JSON number or a numeric string.
	Price float64
)

// Qty returns the quantity, at least 1.
func (i Item) Qty() int {
	if i.Quantity == nil || *i.Quantity < 1 {
		return 1
	}
	return *i.Quantity
}

// Amount returns the unit price. It is 0 when the price is missing, negative or not finite.
func (i Item) Amount() float64 {
	if i.Price == nil || !i.Price.Valid() {
		return 0
	}
	return float64(*i.Price)
}

// Cost returns the unit price multiplied by the quantity.
func (i Item) Cost() float64 {
	return i.Amount() * float64(i.Qty())
}

// IsPurchased returns true if the item has been bought.
func (i Item) IsPurchased() bool {
	return i.Purchased != nil && *i.Purchased
}

// Buyer returns who added the item.
func (i Item) Buyer() string {
	if i.AddedBy == nil || strings.TrimSpace(*i.AddedBy) == "" {
		return DefaultBuyer
	}
	return *i.AddedBy
}

// Clone returns a deep copy of the item.
func (i Item) Clone() Item {
	c := i
	if i.Quantity != nil {
		c.Quantity = Int(*i.Quantity)
	}
	if i.Price != nil {
		p := *i.Price
		c.Price = &p
	}
	if i.AddedBy != nil {
		c.AddedBy = String(*i.AddedBy)
	}
	if i.Purchased != nil {
		c.Purchased = Bool(*i.Purchased)
	}
	if i.CreatedAt != nil {
		t := *i.CreatedAt
		c.CreatedAt = &t
	}
	return c
}

// IsEmpty returns true when no field is set.
func (f Fields) IsEmpty() bool {
	return f.Name == nil && f.Quantity == nil && f.Price == nil && f.Purchased == nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return errors.Wrap(err, "could not parse price")
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*p = 0
			return nil
		}
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid price %q", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.Errorf("invalid price %q", raw)
	}
	*p = Price(v)
	return nil
}

// Valid reports whether the price is a finite non-negative number.
func (p Price) Valid() bool {
	v := float64(p)
	return v >= 0 && !math.IsInf(v, 0)
}

// NewPrice returns a pointer to the given price.
func NewPrice(v float64) *Price {
	p := Price(v)
	return &p
}

// Int returns a pointer to the given int.
func Int(v int) *int {
	return &v
}

// String returns a pointer to the given string.
func String(v string) *string {
	return &v
}

// Bool returns a pointer to the given bool.
func Bool(v bool) *bool {
	return &v
}
