package tui

import (
	"strconv"

	"github.com/gcla/gowid"
	"github.com/gcla/gowid/widgets/edit"
	"github.com/gcla/gowid/widgets/pile"
	"github.com/gcla/gowid/widgets/text"
	"github.com/gdamore/tcell/v2"
	"github.com/mdouchement/sharedlist/pkg/libsl"
)

// FormValues are the raw values typed in an ItemForm.
type FormValues struct {
	Name     string
	Quantity string
	Price    string
}

// An ItemForm is the form used to add or edit an item.
// Ctrl-S submits the form and Esc dismisses it.
type ItemForm struct {
	*pile.Widget
	ui       *TUI
	name     *edit.Widget
	quantity *edit.Widget
	price    *edit.Widget
}

// NewItemForm returns the form for the given item. An item without id is a new one.
func NewItemForm(ui *TUI, item libsl.Item) *ItemForm {
	w := &ItemForm{
		ui:    ui,
		name:  edit.New(edit.Options{Caption: "Name:     ", Text: item.Name}),
		price: edit.New(edit.Options{Caption: "Price:    "}),
	}

	fields := []gowid.IContainerWidget{
		&gowid.ContainerWidget{IWidget: w.name, D: gowid.RenderFlow{}},
	}
	if item.ID == "" {
		w.quantity = edit.New(edit.Options{Caption: "Quantity: ", Text: "1"})
		fields = append(fields, &gowid.ContainerWidget{IWidget: w.quantity, D: gowid.RenderFlow{}})
	} else {
		w.price = edit.New(edit.Options{
			Caption: "Price:    ",
			Text:    strconv.FormatFloat(item.Amount(), 'f', -1, 64),
		})
	}
	fields = append(fields,
		&gowid.ContainerWidget{IWidget: w.price, D: gowid.RenderFlow{}},
		&gowid.ContainerWidget{IWidget: text.New("\nctrl-s: save | esc: close"), D: gowid.RenderFlow{}},
	)

	w.Widget = pile.New(fields)
	return w
}

// Values returns what has been typed.
func (w *ItemForm) Values() FormValues {
	v := FormValues{
		Name:  w.name.Text(),
		Price: w.price.Text(),
	}
	if w.quantity != nil {
		v.Quantity = w.quantity.Text()
	}
	return v
}

// UserInput implements gowid.IWidget
func (w *ItemForm) UserInput(ev any, size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) bool {
	if k, ok := ev.(*tcell.EventKey); ok {
		switch k.Key() {
		case tcell.KeyCtrlS:
			w.ui.SaveForm(w.Values())
			return true
		case tcell.KeyEscape:
			w.ui.CloseForm(app)
			return true
		}
	}

	return w.Widget.UserInput(ev, size, focus, app)
}
