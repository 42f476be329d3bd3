package tui

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bep/debounce"
	"github.com/gcla/gowid"
	"github.com/gcla/gowid/widgets/columns"
	"github.com/gcla/gowid/widgets/framed"
	"github.com/gcla/gowid/widgets/pile"
	"github.com/gcla/gowid/widgets/styled"
	"github.com/gcla/gowid/widgets/text"
	"github.com/gdamore/tcell/v2"
	"github.com/mdouchement/sharedlist/internal/shoplist"
	"github.com/mdouchement/sharedlist/internal/viewmodel"
	"github.com/mdouchement/sharedlist/pkg/libsl"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const help = "a: add | e: edit | space: purchased | +/-: quantity | d: remove | f: filter | ctrl-q: quit"

// A TUI is a text-based interface.
type TUI struct {
	App    *gowid.App
	Buyer  string
	Logger *logrus.Logger

	ctx      context.Context
	session  atomic.Pointer[shoplist.Session]
	modal    viewmodel.EditModal
	debounce func(f func())

	mu     sync.Mutex
	filter viewmodel.Filter

	header *text.Widget
	list   *ItemList
	panes  *columns.Widget
	form   *framed.Widget
	status *text.Widget
}

// New returns a new TUI.
func New(ctx context.Context, buyer string) (*TUI, error) {
	ui := &TUI{
		Buyer:    buyer,
		Logger:   NewLogger(),
		ctx:      ctx,
		debounce: debounce.New(50 * time.Millisecond),
	}

	app, err := gowid.NewApp(layout(ui))
	if err != nil {
		return ui, errors.Wrap(err, "could not create application widgets")
	}

	ui.App = app
	return ui, nil
}

// Run starts the application and thus the event loop.
func (ui *TUI) Run() {
	ui.App.MainLoop(gowid.UnhandledInputFunc(ui.unhandled))
}

// Cleanup cleans the application properly (in case of panic).
func (ui *TUI) Cleanup() {
	ui.App.GetScreen().Fini() // Cleanup tcell screen's objects
}

// Attach binds the interface to an opened session.
func (ui *TUI) Attach(s *shoplist.Session) {
	ui.session.Store(s)
	s.OnChange(func() {
		ui.debounce(ui.Refresh)
	})
	ui.Refresh()
}

// Refresh redraws the list from the session content.
func (ui *TUI) Refresh() {
	ui.App.Run(gowid.RunFunction(func(app gowid.IApp) { // nolint:errcheck
		view := ui.view()
		ui.header.SetText(headline(view), app)
		ui.list.Update(view, app)
	}))
}

func (ui *TUI) view() viewmodel.View {
	ui.mu.Lock()
	f := ui.filter
	ui.mu.Unlock()

	s := ui.session.Load()
	if s == nil {
		return viewmodel.Build(nil, f, false)
	}
	return s.View(f)
}

// CycleFilter switches to the next filter.
func (ui *TUI) CycleFilter() {
	ui.mu.Lock()
	ui.filter = ui.filter.Next()
	ui.mu.Unlock()

	ui.Refresh()
}

// DisplayStatus displays a message in the status bar (aka notifications).
func (ui *TUI) DisplayStatus(message string) {
	ui.App.Run(gowid.RunFunction(func(app gowid.IApp) { // nolint:errcheck
		ui.status.SetText(message, ui.App)
	}))
	go func() {
		timer := time.NewTimer(3 * time.Second)
		<-timer.C
		ui.App.Run(gowid.RunFunction(func(app gowid.IApp) { // nolint:errcheck
			ui.status.SetText("", ui.App)
		}))
	}()
}

// DisplayError displays err in the status bar.
func (ui *TUI) DisplayError(err error) {
	if shoplist.IsValidationError(err) {
		ui.DisplayStatus(err.Error())
		return
	}
	ui.Logger.WithError(err).Error("Command failed")
	ui.DisplayStatus("Error: " + errors.Cause(err).Error())
}

// exec runs the command on the attached session outside of the UI goroutine.
func (ui *TUI) exec(name string, cmd func(ctx context.Context, s *shoplist.Session) error) {
	s := ui.session.Load()
	if s == nil {
		ui.DisplayStatus("Loading...")
		return
	}

	go func() {
		if err := cmd(ui.ctx, s); err != nil {
			ui.DisplayError(errors.Wrap(err, name))
		}
	}()
}

// Toggle flips the purchased state of the item.
func (ui *TUI) Toggle(item libsl.Item) {
	ui.exec("toggle", func(ctx context.Context, s *shoplist.Session) error {
		return s.TogglePurchased(ctx, item)
	})
}

// Adjust changes the quantity of the item.
func (ui *TUI) Adjust(item libsl.Item, delta int) {
	ui.exec("quantity", func(ctx context.Context, s *shoplist.Session) error {
		return s.AdjustQuantity(ctx, item, delta)
	})
}

// Remove deletes the item. The confirmation has been given by the user.
func (ui *TUI) Remove(item libsl.Item) {
	ui.exec("remove", func(ctx context.Context, s *shoplist.Session) error {
		_, err := s.Remove(ctx, item, func(libsl.Item) bool { return true })
		return err
	})
}

// OpenForm displays the form for the given item, or an empty one to add an item.
func (ui *TUI) OpenForm(item libsl.Item, app gowid.IApp) {
	if err := ui.modal.Open(item); err != nil {
		ui.DisplayStatus("Saving...")
		return
	}

	title := "Add item"
	if item.ID != "" {
		title = "Edit " + item.Name
	}
	ui.form.SetTitle(title, app)
	ui.form.SetSubWidget(NewItemForm(ui, item), app)
	ui.panes.SetFocus(app, 1)
}

// CloseForm dismisses the form unless it is being saved.
func (ui *TUI) CloseForm(app gowid.IApp) {
	if err := ui.modal.Close(); err != nil {
		ui.DisplayStatus("Saving...")
		return
	}
	ui.resetForm(app)
}

func (ui *TUI) resetForm(app gowid.IApp) {
	ui.form.SetTitle("", app)
	ui.form.SetSubWidget(text.New(help), app)
	ui.panes.SetFocus(app, 0)
}

// SaveForm submits the form values.
func (ui *TUI) SaveForm(values FormValues) {
	item, ok := ui.modal.Item()
	if !ok {
		return
	}
	s := ui.session.Load()
	if s == nil {
		ui.DisplayStatus("Loading...")
		return
	}
	if err := ui.modal.BeginSave(); err != nil {
		return
	}

	go func() {
		var err error
		if item.ID == "" {
			var added *libsl.Item
			added, err = s.Add(ui.ctx, values.Name, values.Quantity, values.Price, ui.Buyer)
			if err == nil && added == nil {
				err = &shoplist.ValidationError{Field: "name", Message: "Name is required."}
			}
		} else {
			err = s.Edit(ui.ctx, item, shoplist.EditInput{
				Name:  &values.Name,
				Price: &values.Price,
			})
		}

		ui.App.Run(gowid.RunFunction(func(app gowid.IApp) { // nolint:errcheck
			ui.modal.EndSave(err == nil)
			if err == nil {
				ui.resetForm(app)
			}
		}))
		if err != nil {
			ui.DisplayError(err)
		}
	}()
}

func headline(view viewmodel.View) string {
	if !view.Loaded {
		return "Loading..."
	}
	return fmt.Sprintf("Filter: %s | %d items | Total: %.2f | Per person (%d): %.2f",
		view.Filter, len(view.Items), view.Total, viewmodel.GroupSize, view.PerPerson)
}

////////////////////
//                //
// Layout         //
//                //
////////////////////

func layout(ui *TUI) gowid.AppArgs {
	ui.header = text.New(headline(viewmodel.View{}))
	ui.list = NewItemList(ui)
	ui.form = framed.NewUnicode(text.New(help))
	ui.status = text.New("")

	ui.panes = columns.New([]gowid.IContainerWidget{
		&gowid.ContainerWidget{
			IWidget: styled.New(framed.NewUnicode(ui.list), gowid.MakePaletteRef("mainpane")),
			D:       gowid.RenderWithWeight{W: 3},
		},
		&gowid.ContainerWidget{
			IWidget: styled.New(ui.form, gowid.MakePaletteRef("mainpane")),
			D:       gowid.RenderWithWeight{W: 2},
		},
	})

	main := pile.New([]gowid.IContainerWidget{
		&gowid.ContainerWidget{
			IWidget: styled.New(framed.NewUnicode(ui.header), gowid.MakePaletteRef("mainpane")),
			D:       gowid.RenderWithWeight{W: 2},
		},
		&gowid.ContainerWidget{IWidget: ui.panes, D: gowid.RenderWithWeight{W: 20}},
		&gowid.ContainerWidget{
			IWidget: styled.New(framed.NewUnicode(ui.status), gowid.MakePaletteRef("mainpane")),
			D:       gowid.RenderWithWeight{W: 2},
		},
	})

	return gowid.AppArgs{
		View: main,
		Palette: &gowid.Palette{
			"mainpane": gowid.MakePaletteEntry(gowid.ColorLightGray, gowid.ColorBlack),
			// List style
			"normal":    gowid.MakePaletteEntry(gowid.ColorLightGray, gowid.ColorBlack),
			"purchased": gowid.MakePaletteEntry(gowid.ColorDarkGray, gowid.ColorBlack),
			"focused":   gowid.MakePaletteEntry(gowid.ColorBlack, gowid.ColorRed),
		},
		Log: ui.Logger,
	}
}

////////////////////
//                //
// Events         //
//                //
////////////////////

func (ui *TUI) unhandled(app gowid.IApp, ev any) bool {
	evk, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}

	handled := false

	switch evk.Key() {
	case tcell.KeyCtrlQ:
		handled = true
		app.Quit()
	}

	return handled
}
