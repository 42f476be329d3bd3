package libsl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/pkg/errors"
)

// Table is the name of the table holding the shopping list.
const Table = "items"

type (
	// A Client defines all interactions that can be performed on the store.
	Client interface {
		// ListItems returns all the rows ordered by creation date, newest first.
		ListItems(ctx context.Context) ([]Item, error)
		// InsertItem stores a new row and returns it as stored.
		InsertItem(ctx context.Context, draft Draft) (Item, error)
		// UpdateItem updates the given fields of the row and returns it as stored.
		UpdateItem(ctx context.Context, id string, fields Fields) (Item, error)
		// DeleteItem deletes the row.
		DeleteItem(ctx context.Context, id string) error
		// Subscribe opens the change feed of the table.
		// The returned subscription must be closed to release the connection.
		Subscribe(ctx context.Context) (Subscription, error)
	}

	client struct {
		http     *http.Client
		endpoint string
		apikey   string
	}
)

// NewDefaultClient returns a new Client with default HTTP client.
func NewDefaultClient(endpoint, apikey string) (Client, error) {
	return NewClient(http.DefaultClient, endpoint, apikey)
}

// NewClient returns a new Client.
func NewClient(c *http.Client, endpoint, apikey string) (Client, error) {
	_, err := url.Parse(endpoint)
	return &client{http: c, endpoint: endpoint, apikey: apikey}, errors.Wrap(err, "could not parse endpoint")
}

func (c *client) ListItems(ctx context.Context) ([]Item, error) {
	items := make([]Item, 0)
	err := c.do(ctx, http.MethodGet, c.rest(), nil, &items)
	return items, errors.Wrap(err, "list items")
}

func (c *client) InsertItem(ctx context.Context, draft Draft) (Item, error) {
	var item Item
	err := c.do(ctx, http.MethodPost, c.rest(), draft, &item)
	return item, errors.Wrap(err, "insert item")
}

func (c *client) UpdateItem(ctx context.Context, id string, fields Fields) (Item, error) {
	var item Item
	err := c.do(ctx, http.MethodPatch, c.rest(id), fields, &item)
	return item, errors.Wrapf(err, "update item %s", id)
}

func (c *client) DeleteItem(ctx context.Context, id string) error {
	err := c.do(ctx, http.MethodDelete, c.rest(id), nil, nil)
	return errors.Wrapf(err, "delete item %s", id)
}

func (c *client) rest(id ...string) string {
	return path.Join(append([]string{"/rest/v1", Table}, id...)...)
}

func (c *client) url(p string) (*url.URL, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse endpoint")
	}
	u.Path = path.Join(u.Path, p)
	return u, nil
}

func (c *client) authorize(h http.Header) {
	h.Set("apikey", c.apikey)
	h.Set("Authorization", fmt.Sprintf("Bearer %s", c.apikey))
}

func (c *client) do(ctx context.Context, method, p string, payload, v any) error {
	u, err := c.url(p)
	if err != nil {
		return err
	}

	//
	// Build request
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "could not serialize payload")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return errors.Wrap(err, "could not build request")
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	c.authorize(req.Header)

	//
	// Perform request
	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "could not perform request")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return parseSLError(res.Body, res.StatusCode)
	}

	//
	// Process response
	if v == nil {
		return nil
	}
	dec := json.NewDecoder(res.Body)
	return errors.Wrap(dec.Decode(v), "could not parse response")
}
