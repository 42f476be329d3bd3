package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mdouchement/sharedlist/internal/server"
	"github.com/mdouchement/sharedlist/pkg/libsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedSubscribe(t *testing.T) {
	engine, ctrl, _, cleanup := setup()
	defer cleanup()

	ts := httptest.NewServer(engine)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bad, err := libsl.NewDefaultClient(ts.URL, "wrong")
	require.NoError(t, err)

	_, err = bad.Subscribe(ctx)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "Invalid API key.")
	}

	client, err := libsl.NewClient(http.DefaultClient, ts.URL, server.CreateAPIKey(ctrl))
	require.NoError(t, err)

	sub, err := client.Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Close()

	assert.Eventually(t, func() bool {
		return ctrl.Broker.Len() == 1
	}, 2*time.Second, 10*time.Millisecond)

	item, err := client.InsertItem(ctx, libsl.Draft{Name: "Milk", Quantity: 1})
	require.NoError(t, err)

	ev := <-sub.Events()
	assert.Equal(t, libsl.EventInsert, ev.Type)
	assert.Equal(t, item.ID, ev.New.ID)

	_, err = client.UpdateItem(ctx, item.ID, libsl.Fields{Purchased: libsl.Bool(true)})
	require.NoError(t, err)

	ev = <-sub.Events()
	assert.Equal(t, libsl.EventUpdate, ev.Type)
	assert.True(t, ev.New.IsPurchased())

	require.NoError(t, client.DeleteItem(ctx, item.ID))

	ev = <-sub.Events()
	assert.Equal(t, libsl.EventDelete, ev.Type)
	assert.Equal(t, item.ID, ev.Old.ID)

	assert.NoError(t, sub.Close())
	assert.NoError(t, sub.Close())
	_, ok := <-sub.Events()
	assert.False(t, ok)
	assert.NoError(t, sub.Err())

	assert.Eventually(t, func() bool {
		return ctrl.Broker.Len() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFeedSubscribe_ServerShutdown(t *testing.T) {
	engine, ctrl, _, cleanup := setup()
	defer cleanup()

	ts := httptest.NewServer(engine)
	defer ts.Close()

	client, err := libsl.NewDefaultClient(ts.URL, server.CreateAPIKey(ctrl))
	require.NoError(t, err)

	sub, err := client.Subscribe(context.Background())
	require.NoError(t, err)
	defer sub.Close()

	assert.Eventually(t, func() bool {
		return ctrl.Broker.Len() == 1
	}, 2*time.Second, 10*time.Millisecond)

	ctrl.Broker.Close()

	_, ok := <-sub.Events()
	assert.False(t, ok)
	assert.Error(t, sub.Err())
}
