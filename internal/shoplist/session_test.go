package shoplist_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mdouchement/sharedlist/internal/changefeed"
	"github.com/mdouchement/sharedlist/internal/database"
	"github.com/mdouchement/sharedlist/internal/server"
	"github.com/mdouchement/sharedlist/internal/server/middlewares"
	"github.com/mdouchement/sharedlist/internal/shoplist"
	"github.com/mdouchement/sharedlist/internal/viewmodel"
	"github.com/mdouchement/sharedlist/pkg/libsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	client := newFakeClient(libsl.Item{ID: "2", Name: "Bread"}, libsl.Item{ID: "1", Name: "Milk"})

	s, err := shoplist.Open(context.Background(), client, shoplist.Options{})
	require.NoError(t, err)

	assert.True(t, s.Loaded())
	assert.Equal(t, []string{"subscribe", "list"}, client.Calls())
	assert.Len(t, s.Items(), 2)

	view := s.View(viewmodel.All)
	assert.True(t, view.Loaded)
	assert.Len(t, view.Items, 2)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.True(t, client.sub.isClosed())
}

func TestOpen_Failure(t *testing.T) {
	client := newFakeClient()
	client.err = errRemote

	_, err := shoplist.Open(context.Background(), client, shoplist.Options{})
	assert.Error(t, err)
	assert.True(t, client.sub.isClosed(), "subscription is released")

	client = newFakeClient()
	client.subErr = errRemote

	_, err = shoplist.Open(context.Background(), client, shoplist.Options{})
	assert.Error(t, err)
	assert.Equal(t, []string{"subscribe"}, client.Calls())
}

func TestRealtime(t *testing.T) {
	client := newFakeClient(libsl.Item{ID: "1", Name: "Milk"})

	s, err := shoplist.Open(context.Background(), client, shoplist.Options{})
	require.NoError(t, err)
	defer s.Close()

	var changes atomic.Int32
	s.OnChange(func() { changes.Add(1) })

	push := func(ev libsl.ChangeEvent) {
		select {
		case client.sub.events <- ev:
		case <-time.After(2 * time.Second):
			t.Fatal("realtime event not consumed")
		}
	}

	push(libsl.ChangeEvent{Type: libsl.EventInsert, New: &libsl.Item{ID: "2", Name: "Bread"}})
	push(libsl.ChangeEvent{Type: libsl.EventInsert}) // malformed, dropped
	push(libsl.ChangeEvent{Type: libsl.EventUpdate, New: &libsl.Item{ID: "1", Name: "Milk", Purchased: libsl.Bool(true)}})
	push(libsl.ChangeEvent{Type: libsl.EventDelete, Old: &libsl.Item{ID: "2"}})
	push(libsl.ChangeEvent{Type: libsl.EventDelete, Old: &libsl.Item{ID: "unknown"}})

	assert.Eventually(t, func() bool {
		item, ok := s.Cache().Get("1")
		return ok && item.IsPurchased() && s.Cache().Len() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		return changes.Load() == 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRealtime_Convergence(t *testing.T) {
	client := newFakeClient()

	s, err := shoplist.Open(context.Background(), client, shoplist.Options{})
	require.NoError(t, err)
	defer s.Close()

	item, err := s.Add(context.Background(), "Milk", "1", "", "Ana")
	require.NoError(t, err)

	client.sub.events <- libsl.ChangeEvent{Type: libsl.EventInsert, New: item}
	client.sub.events <- libsl.ChangeEvent{Type: libsl.EventInsert, New: &libsl.Item{ID: "other", Name: "Bread"}}

	assert.Eventually(t, func() bool {
		return s.Cache().Len() == 2
	}, 2*time.Second, 10*time.Millisecond)

	items := s.Items()
	assert.Equal(t, "other", items[0].ID)
	assert.Equal(t, item.ID, items[1].ID)
}

func TestNormalize(t *testing.T) {
	e, err := shoplist.Normalize(libsl.ChangeEvent{Type: libsl.EventUpdate, New: &libsl.Item{ID: "1"}})
	require.NoError(t, err)
	assert.Equal(t, shoplist.Update, e.Kind)
	assert.Equal(t, "1", e.ID)

	e, err = shoplist.Normalize(libsl.ChangeEvent{Type: libsl.EventDelete, Old: &libsl.Item{ID: "2"}})
	require.NoError(t, err)
	assert.Equal(t, shoplist.Delete, e.Kind)
	assert.Equal(t, "2", e.ID)

	_, err = shoplist.Normalize(libsl.ChangeEvent{Type: libsl.EventDelete})
	assert.Error(t, err)
	_, err = shoplist.Normalize(libsl.ChangeEvent{Type: "TRUNCATE"})
	assert.Error(t, err)
}

func TestSession_WithServer(t *testing.T) {
	dir, err := os.MkdirTemp("", "sharedlist")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	db, err := database.Open(database.Config{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(dir, "sharedlist.sqlite"),
	})
	require.NoError(t, err)
	defer db.Close()

	ioc := server.IOC{
		Version:    "test",
		Database:   db,
		Broker:     changefeed.NewBroker(changefeed.DefaultBuffer),
		SigningKey: []byte("00000000000000000000000000000000"),
	}
	defer ioc.Broker.Close()

	ts := httptest.NewServer(server.EchoEngine(ioc))
	defer ts.Close()

	apikey, err := middlewares.NewAPIKey(ioc.SigningKey)
	require.NoError(t, err)

	client, err := libsl.NewClient(http.DefaultClient, ts.URL, apikey)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	alice, err := shoplist.Open(ctx, client, shoplist.Options{})
	require.NoError(t, err)
	defer alice.Close()

	bob, err := shoplist.Open(ctx, client, shoplist.Options{})
	require.NoError(t, err)
	defer bob.Close()

	assert.Eventually(t, func() bool {
		return ioc.Broker.Len() == 2
	}, 2*time.Second, 10*time.Millisecond)

	item, err := alice.Add(ctx, "Milk", "2", "1,5", "Alice")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return bob.Cache().Len() == 1
	}, 2*time.Second, 10*time.Millisecond)

	shared, _ := bob.Cache().Get(item.ID)
	require.NoError(t, bob.TogglePurchased(ctx, shared))

	assert.Eventually(t, func() bool {
		row, ok := alice.Cache().Get(item.ID)
		return ok && row.IsPurchased()
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, alice.Cache().Len(), "insert echo is merged with the local insert")
	assert.Equal(t, 3.0, alice.View(viewmodel.All).Total)

	ok, err := alice.Remove(ctx, *item, func(libsl.Item) bool { return true })
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Eventually(t, func() bool {
		return bob.Cache().Len() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
