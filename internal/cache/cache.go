// Package cache holds the local mirror of the items table.
//
// The cache is an ordered list of items keyed by id. Every operation is
// idempotent so that an optimistic local write and its realtime echo can be
// applied in any order and converge to the same state.
package cache

import (
	"reflect"
	"sync"

	"github.com/mdouchement/sharedlist/pkg/libsl"
	"github.com/mdouchement/sharedlist/pkg/structs"
	"github.com/pkg/errors"
)

// An Observer is called after every mutation that changed the cache.
type Observer func()

// A Cache is the Local State Cache. It is safe for concurrent use.
type Cache struct {
	mu        sync.RWMutex
	items     []libsl.Item
	observers []Observer
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{
		items: make([]libsl.Item, 0),
	}
}

// OnChange registers an observer.
// Observers are called outside of the cache lock, in registration order.
func (c *Cache) OnChange(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// ReplaceAll replaces the whole content of the cache.
func (c *Cache) ReplaceAll(items []libsl.Item) {
	c.mu.Lock()
	c.items = make([]libsl.Item, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		c.items = append(c.items, item.Clone())
	}
	c.mu.Unlock()

	c.notify()
}

// Upsert replaces in place the item with the same id, or prepends it.
func (c *Cache) Upsert(item libsl.Item) {
	c.mu.Lock()
	changed := true
	if i := c.index(item.ID); i >= 0 {
		changed = !reflect.DeepEqual(c.items[i], item)
		c.items[i] = item.Clone()
	} else {
		c.items = append([]libsl.Item{item.Clone()}, c.items...)
	}
	c.mu.Unlock()

	if changed {
		c.notify()
	}
}

// Patch merges the given fields into the item with the given id.
// It is a no-op when the item is absent.
func (c *Cache) Patch(id string, fields libsl.Fields) error {
	c.mu.Lock()
	i := c.index(id)
	if i < 0 {
		c.mu.Unlock()
		return nil
	}

	item := c.items[i].Clone()
	if _, err := structs.Patch(&item, fields); err != nil {
		c.mu.Unlock()
		return errors.Wrapf(err, "could not patch item %s", id)
	}
	changed := !reflect.DeepEqual(c.items[i], item)
	c.items[i] = item
	c.mu.Unlock()

	if changed {
		c.notify()
	}
	return nil
}

// Remove removes the item with the given id.
// It is a no-op when the item is absent.
func (c *Cache) Remove(id string) {
	c.mu.Lock()
	i := c.index(id)
	if i < 0 {
		c.mu.Unlock()
		return
	}
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	c.mu.Unlock()

	c.notify()
}

// Items returns a snapshot of the cache content.
func (c *Cache) Items() []libsl.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]libsl.Item, len(c.items))
	for i, item := range c.items {
		items[i] = item.Clone()
	}
	return items
}

// Get returns the item with the given id.
func (c *Cache) Get(id string) (libsl.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.index(id); i >= 0 {
		return c.items[i].Clone(), true
	}
	return libsl.Item{}, false
}

// Len returns the number of items.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache) index(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cache) notify() {
	c.mu.RLock()
	observers := make([]Observer, len(c.observers))
	copy(observers, c.observers)
	c.mu.RUnlock()

	for _, o := range observers {
		o()
	}
}
