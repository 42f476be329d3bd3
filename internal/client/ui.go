package client

import (
	"context"
	"fmt"
	"runtime"

	"github.com/mdouchement/sharedlist/internal/client/tui"
	"github.com/mdouchement/sharedlist/internal/shoplist"
	"github.com/pkg/errors"
)

// UI runs the text-based shopping list application.
func UI(ctx context.Context) error {
	defer func() {
		if r := recover(); r != nil {
			var err error
			switch r := r.(type) {
			case error:
				err = r
			default:
				err = fmt.Errorf("%v", r)
			}
			stack := make([]byte, 4<<10)
			length := runtime.Stack(stack, true)

			tui.NewLogger().Printf("[PANIC RECOVER] %s %s\n", err, stack[:length])
		}
	}()

	cfg, err := Load()
	if err != nil {
		return errors.Wrap(err, "could not load config")
	}

	client, err := NewClient(cfg)
	if err != nil {
		return err
	}

	//
	//

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ui, err := tui.New(ctx, cfg.Buyer())
	if err != nil {
		return err
	}
	defer ui.Cleanup()

	opened := make(chan *shoplist.Session, 1)
	go func() {
		s, err := shoplist.Open(ctx, client, shoplist.Options{Logger: ui.Logger})
		if err != nil {
			ui.DisplayError(err)
			opened <- nil
			return
		}

		ui.Attach(s)
		opened <- s
	}()

	ui.Run()

	cancel()
	if s := <-opened; s != nil {
		return s.Close()
	}
	return nil
}
