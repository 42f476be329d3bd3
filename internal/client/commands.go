package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/readline"
	"github.com/mdouchement/sharedlist/internal/shoplist"
	"github.com/mdouchement/sharedlist/internal/viewmodel"
	"github.com/mdouchement/sharedlist/pkg/libsl"
	"github.com/pkg/errors"
	"github.com/sanity-io/litter"
)

// A Runner executes one-shot commands against the Remote Data Store.
type Runner struct {
	Config Config
	Client libsl.Client
	Out    io.Writer
	// Confirm asks the user before a deletion.
	Confirm func(item libsl.Item) bool
}

// NewRunner returns a Runner using the configuration of the current folder.
func NewRunner() (*Runner, error) {
	cfg, err := Load()
	if err != nil {
		return nil, errors.Wrap(err, "could not load config")
	}

	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &Runner{
		Config:  cfg,
		Client:  client,
		Out:     os.Stdout,
		Confirm: confirm,
	}, nil
}

func (r *Runner) open(ctx context.Context) (*shoplist.Session, error) {
	return shoplist.Open(ctx, r.Client, shoplist.Options{Offline: true})
}

func (r *Runner) find(ctx context.Context, id string) (*shoplist.Session, libsl.Item, error) {
	s, err := r.open(ctx)
	if err != nil {
		return nil, libsl.Item{}, err
	}

	item, ok := s.Cache().Get(id)
	if !ok {
		s.Close()
		return nil, item, errors.Errorf("item %s not found", id)
	}
	return s, item, nil
}

// List prints the items matching the given filter.
func (r *Runner) List(ctx context.Context, filter string, debug bool) error {
	f, err := viewmodel.ParseFilter(filter)
	if err != nil {
		return err
	}

	s, err := r.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	view := s.View(f)
	if debug {
		fmt.Fprintln(r.Out, litter.Sdump(view))
		return nil
	}

	PrintView(r.Out, view)
	return nil
}

// Add inserts a new item signed with the configured buyer name.
func (r *Runner) Add(ctx context.Context, name, quantity, price string) error {
	s, err := r.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	item, err := s.Add(ctx, name, quantity, price, r.Config.Buyer())
	if err != nil {
		return err
	}
	if item == nil {
		return errors.New("name is required")
	}

	fmt.Fprintf(r.Out, "Added %s (%s)\n", item.Name, item.ID)
	return nil
}

// Toggle flips the purchased state of an item.
func (r *Runner) Toggle(ctx context.Context, id string) error {
	s, item, err := r.find(ctx, id)
	if err != nil {
		return err
	}
	defer s.Close()

	if err = s.TogglePurchased(ctx, item); err != nil {
		return err
	}

	item, _ = s.Cache().Get(id)
	fmt.Fprintln(r.Out, Line(item))
	return nil
}

// Adjust changes the quantity of an item by delta.
func (r *Runner) Adjust(ctx context.Context, id string, delta int) error {
	s, item, err := r.find(ctx, id)
	if err != nil {
		return err
	}
	defer s.Close()

	if err = s.AdjustQuantity(ctx, item, delta); err != nil {
		return err
	}

	item, _ = s.Cache().Get(id)
	fmt.Fprintln(r.Out, Line(item))
	return nil
}

// Edit changes the name and/or the price of an item.
func (r *Runner) Edit(ctx context.Context, id string, input shoplist.EditInput) error {
	s, item, err := r.find(ctx, id)
	if err != nil {
		return err
	}
	defer s.Close()

	if err = s.Edit(ctx, item, input); err != nil {
		return err
	}

	item, _ = s.Cache().Get(id)
	fmt.Fprintln(r.Out, Line(item))
	return nil
}

// Remove deletes an item, after confirmation unless yes is set.
func (r *Runner) Remove(ctx context.Context, id string, yes bool) error {
	s, item, err := r.find(ctx, id)
	if err != nil {
		return err
	}
	defer s.Close()

	confirm := r.Confirm
	if yes {
		confirm = func(libsl.Item) bool { return true }
	}

	ok, err := s.Remove(ctx, item, confirm)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(r.Out, "Removed %s\n", item.Name)
	}
	return nil
}

// PrintView writes the view as a table followed by the totals.
func PrintView(w io.Writer, view viewmodel.View) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, item := range view.Items {
		fmt.Fprintf(tw, "%s\t%s\tx%d\t%.2f\t%s\t%s\n",
			checkbox(item), item.Name, item.Qty(), item.Cost(), item.Buyer(), item.ID)
	}
	tw.Flush()

	if view.Empty() {
		fmt.Fprintf(w, "No %s items\n", view.Filter)
	}
	fmt.Fprintln(w, Totals(view))
}

// Line returns a one-line description of the item.
func Line(item libsl.Item) string {
	return fmt.Sprintf("%s %s x%d @ %.2f (%s)", checkbox(item), item.Name, item.Qty(), item.Amount(), item.Buyer())
}

// Totals returns the total cost and the share of each person.
func Totals(view viewmodel.View) string {
	return fmt.Sprintf("Total: %.2f - Per person (%d): %.2f", view.Total, viewmodel.GroupSize, view.PerPerson)
}

func checkbox(item libsl.Item) string {
	if item.IsPurchased() {
		return "[x]"
	}
	return "[ ]"
}

func confirm(item libsl.Item) bool {
	answer, err := readline.Line(fmt.Sprintf("Remove %s? [y/N] ", item.Name))
	if err != nil {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
