// Package shoplist binds the Remote Data Store to the local cache.
//
// A Session fetches the list, keeps it in sync with the realtime feed and
// exposes the commands that mutate the list.
package shoplist

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/mdouchement/sharedlist/internal/cache"
	"github.com/mdouchement/sharedlist/internal/viewmodel"
	"github.com/mdouchement/sharedlist/pkg/libsl"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type (
	// Options configures a Session.
	Options struct {
		// Logger defaults to the logrus standard logger.
		Logger logrus.FieldLogger
		// Offline skips the realtime subscription.
		Offline bool
	}

	// A Session is an opened shopping list.
	Session struct {
		client libsl.Client
		cache  *cache.Cache
		log    logrus.FieldLogger

		sub    libsl.Subscription
		events chan Event
		done   chan struct{}
		cancel context.CancelFunc
		wg     sync.WaitGroup
		once   sync.Once
		loaded atomic.Bool

		mu  sync.Mutex
		err error
	}
)

// Open subscribes to the realtime feed, loads the list and starts merging changes.
// The session lives until ctx is done or Close is called.
func Open(ctx context.Context, client libsl.Client, opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	s := &Session{
		client: client,
		cache:  cache.New(),
		log:    opts.Logger,
		events: make(chan Event),
		done:   make(chan struct{}),
	}

	ctx, s.cancel = context.WithCancel(ctx)

	// Subscribe before fetching so no change is missed in between.
	if !opts.Offline {
		sub, err := client.Subscribe(ctx)
		if err != nil {
			s.cancel()
			s.log.WithError(err).Error("Could not subscribe to realtime feed")
			return nil, errors.Wrap(err, "could not subscribe to realtime feed")
		}
		s.sub = sub
	}

	items, err := client.ListItems(ctx)
	if err != nil {
		s.release()
		s.log.WithError(err).Error("Could not fetch items")
		return nil, errors.Wrap(err, "could not fetch items")
	}
	s.cache.ReplaceAll(items)
	s.loaded.Store(true)
	s.log.WithField("count", len(items)).Debug("Items loaded")

	if s.sub != nil {
		s.wg.Add(2)
		go s.listen()
		go s.merge()
	}

	return s, nil
}

// Cache returns the local state cache.
func (s *Session) Cache() *cache.Cache {
	return s.cache
}

// OnChange registers a callback invoked after every change of the list.
func (s *Session) OnChange(o cache.Observer) {
	s.cache.OnChange(o)
}

// Loaded reports whether the initial fetch has completed.
func (s *Session) Loaded() bool {
	return s.loaded.Load()
}

// Items returns a snapshot of the list.
func (s *Session) Items() []libsl.Item {
	return s.cache.Items()
}

// View builds the view of the list for the given filter.
func (s *Session) View(f viewmodel.Filter) viewmodel.View {
	return viewmodel.Build(s.cache.Items(), f, s.Loaded())
}

// Err returns the error that interrupted the realtime feed, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Close stops the realtime feed and waits for pending merges.
// It is safe to call it several times.
func (s *Session) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.release()
		s.wg.Wait()
	})
	return err
}

func (s *Session) release() error {
	defer s.cancel()
	if s.sub == nil {
		return nil
	}
	return errors.Wrap(s.sub.Close(), "could not close realtime feed")
}
