package shoplist_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/mdouchement/sharedlist/pkg/libsl"
)

type (
	fakeClient struct {
		mu     sync.Mutex
		rows   []libsl.Item
		calls  []string
		fields []libsl.Fields
		drafts []libsl.Draft
		seq    int
		err    error
		subErr error
		sub    *fakeSubscription
	}

	fakeSubscription struct {
		events chan libsl.ChangeEvent
		once   sync.Once
		closed chan struct{}
	}
)

func newFakeClient(rows ...libsl.Item) *fakeClient {
	return &fakeClient{
		rows: rows,
		sub: &fakeSubscription{
			events: make(chan libsl.ChangeEvent),
			closed: make(chan struct{}),
		},
	}
}

func (c *fakeClient) record(call string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
	return c.err
}

func (c *fakeClient) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *fakeClient) ListItems(ctx context.Context) ([]libsl.Item, error) {
	if err := c.record("list"); err != nil {
		return nil, err
	}
	return c.rows, nil
}

func (c *fakeClient) InsertItem(ctx context.Context, draft libsl.Draft) (libsl.Item, error) {
	if err := c.record("insert"); err != nil {
		return libsl.Item{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.drafts = append(c.drafts, draft)
	return libsl.Item{
		ID:        fmt.Sprintf("id-%d", c.seq),
		Name:      draft.Name,
		Quantity:  libsl.Int(draft.Quantity),
		Price:     libsl.NewPrice(draft.Price),
		AddedBy:   libsl.String(draft.AddedBy),
		Purchased: libsl.Bool(false),
	}, nil
}

func (c *fakeClient) UpdateItem(ctx context.Context, id string, fields libsl.Fields) (libsl.Item, error) {
	if err := c.record("update " + id); err != nil {
		return libsl.Item{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields = append(c.fields, fields)
	return libsl.Item{ID: id}, nil
}

func (c *fakeClient) DeleteItem(ctx context.Context, id string) error {
	return c.record("delete " + id)
}

func (c *fakeClient) Subscribe(ctx context.Context) (libsl.Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "subscribe")
	if c.subErr != nil {
		return nil, c.subErr
	}
	return c.sub, nil
}

func (s *fakeSubscription) Events() <-chan libsl.ChangeEvent {
	return s.events
}

func (s *fakeSubscription) Err() error {
	return nil
}

func (s *fakeSubscription) Close() error {
	s.once.Do(func() {
		close(s.closed)
		close(s.events)
	})
	return nil
}

func (s *fakeSubscription) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

var errRemote = &libsl.SLError{StatusCode: http.StatusBadGateway}
