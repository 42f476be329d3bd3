package cache_test

import (
	"sync"
	"testing"

	"github.com/mdouchement/sharedlist/internal/cache"
	"github.com/mdouchement/sharedlist/pkg/libsl"
	"github.com/stretchr/testify/assert"
)

func ids(items []libsl.Item) []string {
	r := make([]string, len(items))
	for i, item := range items {
		r[i] = item.ID
	}
	return r
}

func TestCache_ReplaceAll(t *testing.T) {
	c := cache.New()
	c.Upsert(libsl.Item{ID: "stale"})

	c.ReplaceAll([]libsl.Item{{ID: "3"}, {ID: "2"}, {ID: "1"}, {ID: "2"}})
	assert.Equal(t, []string{"3", "2", "1"}, ids(c.Items()))
}

func TestCache_Upsert(t *testing.T) {
	c := cache.New()
	c.ReplaceAll([]libsl.Item{{ID: "2", Name: "Bread"}, {ID: "1", Name: "Milk"}})

	c.Upsert(libsl.Item{ID: "3", Name: "Eggs"})
	assert.Equal(t, []string{"3", "2", "1"}, ids(c.Items()), "new items are prepended")

	c.Upsert(libsl.Item{ID: "1", Name: "Oat milk"})
	assert.Equal(t, []string{"3", "2", "1"}, ids(c.Items()), "position is preserved")

	item, ok := c.Get("1")
	assert.True(t, ok)
	assert.Equal(t, "Oat milk", item.Name)
}

func TestCache_UpsertIdempotence(t *testing.T) {
	item := libsl.Item{ID: "1", Name: "Milk", Quantity: libsl.Int(2)}

	once := cache.New()
	once.Upsert(item)

	twice := cache.New()
	twice.Upsert(item)
	twice.Upsert(item)

	assert.Equal(t, once.Items(), twice.Items())
	assert.Equal(t, 1, twice.Len())
}

func TestCache_Patch(t *testing.T) {
	c := cache.New()
	c.ReplaceAll([]libsl.Item{{ID: "1", Name: "Milk", Quantity: libsl.Int(1)}})

	assert.NoError(t, c.Patch("1", libsl.Fields{Purchased: libsl.Bool(true), Quantity: libsl.Int(4)}))
	assert.NoError(t, c.Patch("1", libsl.Fields{Purchased: libsl.Bool(true), Quantity: libsl.Int(4)}))

	item, _ := c.Get("1")
	assert.Equal(t, "Milk", item.Name)
	assert.Equal(t, 4, item.Qty())
	assert.True(t, item.IsPurchased())

	assert.NoError(t, c.Patch("1", libsl.Fields{Name: libsl.String("Oat milk"), Price: libsl.NewPrice(2)}))
	item, _ = c.Get("1")
	assert.Equal(t, "Oat milk", item.Name)
	assert.Equal(t, 2.0, item.Amount())
}

func TestCache_MergeKeying(t *testing.T) {
	c := cache.New()
	c.ReplaceAll([]libsl.Item{{ID: "1", Name: "Milk"}})
	before := c.Items()

	var calls int
	c.OnChange(func() { calls++ })

	assert.NoError(t, c.Patch("unknown", libsl.Fields{Name: libsl.String("Bread")}))
	c.Remove("unknown")

	assert.Equal(t, before, c.Items())
	assert.Equal(t, 0, calls)
}

func TestCache_Remove(t *testing.T) {
	c := cache.New()
	c.ReplaceAll([]libsl.Item{{ID: "3"}, {ID: "2"}, {ID: "1"}})

	c.Remove("2")
	c.Remove("2")
	assert.Equal(t, []string{"3", "1"}, ids(c.Items()))
}

func TestCache_Snapshot(t *testing.T) {
	c := cache.New()
	c.Upsert(libsl.Item{ID: "1", Quantity: libsl.Int(1)})

	items := c.Items()
	*items[0].Quantity = 10

	item, _ := c.Get("1")
	assert.Equal(t, 1, item.Qty())
}

func TestCache_OnChange(t *testing.T) {
	c := cache.New()

	var calls int
	c.OnChange(func() {
		calls++
		c.Len() // observers can read the cache
	})

	item := libsl.Item{ID: "1", Name: "Milk"}
	c.Upsert(item)
	c.Upsert(item) // no change
	assert.NoError(t, c.Patch("1", libsl.Fields{Name: libsl.String("Milk")})) // no change
	c.Remove("1")

	assert.Equal(t, 2, calls)
}

func TestCache_Concurrency(t *testing.T) {
	c := cache.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Upsert(libsl.Item{ID: "1", Name: "Milk"})
		}()
		go func() {
			defer wg.Done()
			_ = c.Patch("1", libsl.Fields{Purchased: libsl.Bool(true)})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, c.Len())
}
