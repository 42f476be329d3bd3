package shoplist

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/mdouchement/sharedlist/pkg/libsl"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type (
	// A ValidationError is an invalid user input. Its message can be displayed as is.
	ValidationError struct {
		Field   string
		Message string
	}

	// EditInput holds the raw values typed in the edit form.
	// Nil values are left untouched.
	EditInput struct {
		Name  *string
		Price *string
	}
)

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError returns true if err is caused by an invalid input.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// Add inserts a new item.
// A blank name is ignored and returns a nil item.
// The quantity falls back to 1 and the price to 0 when they can't be parsed.
func (s *Session) Add(ctx context.Context, name, quantity, price, addedBy string) (*libsl.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	draft := libsl.Draft{
		Name:     name,
		Quantity: ParseQuantity(quantity),
		AddedBy:  strings.TrimSpace(addedBy),
	}
	if v, err := ParsePrice(price); err == nil {
		draft.Price = v
	}
	if draft.AddedBy == "" {
		draft.AddedBy = libsl.DefaultBuyer
	}

	item, err := s.client.InsertItem(ctx, draft)
	if err != nil {
		s.failure(err, "add", "").Error("Could not add item")
		return nil, errors.Wrap(err, "could not add item")
	}

	s.cache.Upsert(item)
	return &item, nil
}

// TogglePurchased flips the purchased state of the item.
func (s *Session) TogglePurchased(ctx context.Context, item libsl.Item) error {
	fields := libsl.Fields{
		Purchased: libsl.Bool(!item.IsPurchased()),
	}

	if _, err := s.client.UpdateItem(ctx, item.ID, fields); err != nil {
		s.failure(err, "toggle", item.ID).Error("Could not update item")
		return errors.Wrap(err, "could not update item")
	}

	return s.cache.Patch(item.ID, fields)
}

// AdjustQuantity adds delta to the quantity of the item. The quantity never goes below 1.
func (s *Session) AdjustQuantity(ctx context.Context, item libsl.Item, delta int) error {
	quantity := item.Qty() + delta
	if quantity < 1 {
		quantity = 1
	}
	fields := libsl.Fields{
		Quantity: libsl.Int(quantity),
	}

	if _, err := s.client.UpdateItem(ctx, item.ID, fields); err != nil {
		s.failure(err, "quantity", item.ID).Error("Could not update item")
		return errors.Wrap(err, "could not update item")
	}

	return s.cache.Patch(item.ID, fields)
}

// Edit updates the name and/or the price of the item.
// Invalid inputs are reported as a *ValidationError and nothing is sent.
func (s *Session) Edit(ctx context.Context, item libsl.Item, input EditInput) error {
	var fields libsl.Fields

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return &ValidationError{Field: "name", Message: "Name is required."}
		}
		fields.Name = libsl.String(name)
	}

	if input.Price != nil {
		if strings.TrimSpace(*input.Price) == "" {
			return &ValidationError{Field: "price", Message: "Price is required."}
		}
		v, err := ParsePrice(*input.Price)
		if err != nil {
			return &ValidationError{Field: "price", Message: "Price must be a positive number."}
		}
		fields.Price = libsl.NewPrice(v)
	}

	if fields.IsEmpty() {
		return &ValidationError{Message: "Nothing to update."}
	}

	if _, err := s.client.UpdateItem(ctx, item.ID, fields); err != nil {
		s.failure(err, "edit", item.ID).Error("Could not update item")
		return errors.Wrap(err, "could not update item")
	}

	return s.cache.Patch(item.ID, fields)
}

// Remove deletes the item once confirm has returned true.
// A nil confirm is a refusal. It returns whether the item has been deleted.
func (s *Session) Remove(ctx context.Context, item libsl.Item, confirm func(libsl.Item) bool) (bool, error) {
	if confirm == nil || !confirm(item) {
		return false, nil
	}

	if err := s.client.DeleteItem(ctx, item.ID); err != nil {
		s.failure(err, "remove", item.ID).Error("Could not remove item")
		return false, errors.Wrap(err, "could not remove item")
	}

	s.cache.Remove(item.ID)
	return true, nil
}

func (s *Session) failure(err error, op, id string) logrus.FieldLogger {
	fields := logrus.Fields{"op": op}
	if id != "" {
		fields["id"] = id
	}
	return s.log.WithError(err).WithFields(fields)
}

// ParseQuantity parses a quantity, 1 when invalid.
func ParseQuantity(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 1 {
		return 1
	}
	return v
}

// ParsePrice parses a decimal price. A comma is accepted as decimal separator
// and a blank input is 0.
func ParsePrice(raw string) (float64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid price %q", raw)
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Errorf("invalid price %q", raw)
	}
	return v, nil
}
