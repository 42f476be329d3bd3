package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/sharedlist/internal/changefeed"
	"github.com/mdouchement/sharedlist/internal/database"
	"github.com/mdouchement/sharedlist/internal/model"
	"github.com/mdouchement/sharedlist/internal/slerror"
	"github.com/mdouchement/sharedlist/pkg/libsl"
	"github.com/mdouchement/sharedlist/pkg/structs"
	"github.com/pkg/errors"
)

// item contains all item handlers.
type item struct {
	db     database.Client
	broker *changefeed.Broker
}

// insertParams are the accepted columns on insert.
type insertParams struct {
	Name      string       `json:"name"`
	Quantity  *int         `json:"quantity"`
	Price     *libsl.Price `json:"price"`
	AddedBy   *string      `json:"added_by"`
	Purchased *bool        `json:"purchased"`
}

///// List
////
//

// List returns all the items, newest first.
func (h *item) List(c echo.Context) error {
	items, err := h.db.FindItems()
	if err != nil {
		return errors.Wrap(err, "could not get access to database")
	}

	rows := make([]libsl.Item, len(items))
	for i, item := range items {
		rows[i] = item.Row()
	}
	return c.JSON(http.StatusOK, rows)
}

///// Insert
////
//

// Insert stores a new item and returns it with its generated fields.
func (h *item) Insert(c echo.Context) error {
	var params insertParams
	if err := bind(c, &params); err != nil {
		return err
	}

	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return c.JSON(http.StatusBadRequest, slerror.New("Name is required."))
	}
	if err := validate(params.Quantity, params.Price); err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}

	item := &model.Item{
		Name:      params.Name,
		Quantity:  params.Quantity,
		Price:     params.Price,
		AddedBy:   params.AddedBy,
		Purchased: params.Purchased,
	}
	if item.Purchased == nil {
		item.Purchased = libsl.Bool(false)
	}

	if err := h.db.Save(item); err != nil {
		return errors.Wrap(err, "could not save item")
	}

	row := item.Row()
	h.broker.Publish(libsl.ChangeEvent{Type: libsl.EventInsert, New: &row})

	return c.JSON(http.StatusCreated, row)
}

///// Update
////
//

// Update patches the given fields of an item.
func (h *item) Update(c echo.Context) error {
	item, err := h.find(c.Param("id"))
	if err != nil {
		return err
	}

	var fields libsl.Fields
	if err := bind(c, &fields); err != nil {
		return err
	}
	if fields.IsEmpty() {
		return c.JSON(http.StatusBadRequest, slerror.New("Nothing to update."))
	}
	if fields.Name != nil {
		name := strings.TrimSpace(*fields.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, slerror.New("Name is required."))
		}
		fields.Name = &name
	}
	if err := validate(fields.Quantity, fields.Price); err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}

	if _, err = structs.Patch(item, fields); err != nil {
		return errors.Wrap(err, "could not patch item")
	}

	if err = h.db.Save(item); err != nil {
		return errors.Wrap(err, "could not save item")
	}

	row := item.Row()
	h.broker.Publish(libsl.ChangeEvent{Type: libsl.EventUpdate, New: &row, Old: &libsl.Item{ID: row.ID}})

	return c.JSON(http.StatusOK, row)
}

///// Delete
////
//

// Delete removes an item.
func (h *item) Delete(c echo.Context) error {
	item, err := h.find(c.Param("id"))
	if err != nil {
		return err
	}

	if err = h.db.Delete(item); err != nil {
		return errors.Wrap(err, "could not delete item")
	}

	h.broker.Publish(libsl.ChangeEvent{Type: libsl.EventDelete, Old: &libsl.Item{ID: item.ID}})

	return c.NoContent(http.StatusNoContent)
}

func (h *item) find(id string) (*model.Item, error) {
	item, err := h.db.FindItem(id)
	if err != nil {
		if h.db.IsNotFound(err) {
			return nil, slerror.NewWithCode(http.StatusNotFound, "Item not found.")
		}
		return nil, errors.Wrap(err, "could not get access to database")
	}
	return item, nil
}

// bind decodes the request body. Errors raised by the binder checks are
// rendered as is, decoding errors as invalid params.
func bind(c echo.Context, v any) error {
	err := c.Bind(v)
	if err == nil {
		return nil
	}

	if herr, ok := err.(*echo.HTTPError); ok && herr.Internal == nil {
		return herr
	}
	return c.JSON(http.StatusBadRequest, slerror.New("Could not get item params."))
}

func validate(quantity *int, price *libsl.Price) *slerror.SLError {
	if quantity != nil && *quantity < 1 {
		return slerror.New("Quantity must be at least 1.")
	}
	if price != nil && *price < 0 {
		return slerror.New("Price can't be negative.")
	}
	if price != nil && !price.Valid() {
		return slerror.New("Price must be a number.")
	}
	return nil
}
