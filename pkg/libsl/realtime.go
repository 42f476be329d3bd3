package libsl

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

// Kinds of change published on the feed.
const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

type (
	// An EventType is the kind of change carried by a ChangeEvent.
	EventType string

	// A ChangeEvent is a row change published by the store.
	// New is set for inserts and updates, Old for deletes (only the id is reliable).
	ChangeEvent struct {
		Type EventType `json:"eventType"`
		New  *Item     `json:"new,omitempty"`
		Old  *Item     `json:"old,omitempty"`
	}

	// A Subscription is a live change feed on the items table.
	Subscription interface {
		// Events returns the channel of changes. It is closed when the feed stops.
		Events() <-chan ChangeEvent
		// Err returns why the feed stopped, nil when closed by the caller.
		Err() error
		// Close releases the connection. It is safe to call it several times.
		Close() error
	}

	subscription struct {
		conn   *websocket.Conn
		events chan ChangeEvent
		done   chan struct{}
		once   sync.Once
		mu     sync.Mutex
		err    error
	}
)

// ParseChangeEvent decodes a change feed message.
func ParseChangeEvent(data []byte) (ChangeEvent, error) {
	var ev ChangeEvent

	v, err := fastjson.ParseBytes(data)
	if err != nil {
		return ev, errors.Wrap(err, "could not parse change event")
	}

	ev.Type = EventType(strings.ToUpper(string(v.GetStringBytes("eventType"))))
	switch ev.Type {
	case EventInsert, EventUpdate, EventDelete:
	default:
		return ev, errors.Errorf("unknown event type %q", ev.Type)
	}

	ev.New, err = parseRow(v, "new")
	if err != nil {
		return ev, err
	}
	ev.Old, err = parseRow(v, "old")
	return ev, err
}

func parseRow(v *fastjson.Value, key string) (*Item, error) {
	row := v.Get(key)
	if row == nil || row.Type() != fastjson.TypeObject {
		return nil, nil
	}

	var item Item
	if err := json.Unmarshal(row.MarshalTo(nil), &item); err != nil {
		return nil, errors.Wrapf(err, "could not parse %s row", key)
	}
	return &item, nil
}

func (c *client) Subscribe(ctx context.Context) (Subscription, error) {
	u, err := c.url("/realtime/v1/" + Table)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	header := http.Header{}
	c.authorize(header)

	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 30 * time.Second,
	}
	conn, res, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if res != nil && res.StatusCode >= 400 {
			defer res.Body.Close()
			return nil, errors.Wrap(parseSLError(res.Body, res.StatusCode), "subscribe")
		}
		return nil, errors.Wrap(err, "could not open change feed")
	}

	s := &subscription{
		conn:   conn,
		events: make(chan ChangeEvent),
		done:   make(chan struct{}),
	}
	go s.read()
	go func() {
		select {
		case <-ctx.Done():
			s.Close() // nolint:errcheck
		case <-s.done:
		}
	}()

	return s, nil
}

func (s *subscription) read() {
	defer close(s.events)

	for {
		_, p, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
			default:
				s.setErr(errors.Wrap(err, "change feed interrupted"))
			}
			return
		}

		ev, err := ParseChangeEvent(p)
		if err != nil {
			// Unknown messages are not fatal for the feed.
			continue
		}

		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

func (s *subscription) Events() <-chan ChangeEvent {
	return s.events
}

func (s *subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *subscription) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *subscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		deadline := time.Now().Add(time.Second)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		s.conn.WriteControl(websocket.CloseMessage, msg, deadline) // nolint:errcheck
		err = s.conn.Close()
	})
	return err
}
