package tui

import (
	"github.com/gcla/gowid"
	"github.com/gcla/gowid/widgets/list"
	"github.com/gdamore/tcell/v2"
	"github.com/mdouchement/sharedlist/internal/viewmodel"
	"github.com/mdouchement/sharedlist/pkg/libsl"
)

// An ItemList is a list of Items to interract with.
// It implements gowid.IWidget by delegating to its presentation.
type ItemList struct {
	ui           *TUI
	presentation list.IWidget
	abstraction  *itemListAbstraction
	removal      *libsl.Item
}

// NewItemList returns a new ItemList.
func NewItemList(ui *TUI) *ItemList {
	abs := newItemListAbstraction()

	return &ItemList{
		ui:           ui,
		presentation: list.New(abs),
		abstraction:  abs,
	}
}

// Update replaces the displayed items, the focus follows the focused item.
func (w *ItemList) Update(view viewmodel.View, app gowid.IApp) {
	w.abstraction.Replace(view.Items)
}

// Focused returns the focused item.
func (w *ItemList) Focused() (libsl.Item, bool) {
	if item, ok := w.abstraction.At(w.abstraction.Focus()).(*Item); ok {
		return item.abstraction, true
	}
	return libsl.Item{}, false
}

////////////////////
//                //
// Delegates      //
//                //
////////////////////

// Render implements gowid.IWidget
func (w *ItemList) Render(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.ICanvas {
	return w.presentation.Render(size, focus, app)
}

// RenderSize implements gowid.IWidget
func (w *ItemList) RenderSize(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.IRenderBox {
	return w.presentation.RenderSize(size, focus, app)
}

// UserInput implements gowid.IWidget
func (w *ItemList) UserInput(ev any, size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) bool {
	evk, ok := ev.(*tcell.EventKey)
	if !ok {
		return w.presentation.UserInput(ev, size, focus, app)
	}

	if w.removal != nil {
		// Any other key than `y' cancels the removal.
		item := *w.removal
		w.removal = nil
		if evk.Key() == tcell.KeyRune && (evk.Rune() == 'y' || evk.Rune() == 'Y') {
			w.ui.Remove(item)
			return true
		}
		w.ui.DisplayStatus("Removal cancelled")
		return true
	}

	item, focused := w.Focused()

	switch evk.Key() {
	case tcell.KeyEnter:
		if focused {
			w.ui.OpenForm(item, app)
		}
		return true
	case tcell.KeyRune:
		switch evk.Rune() {
		case 'a':
			w.ui.OpenForm(libsl.Item{}, app)
			return true
		case 'f':
			w.ui.CycleFilter()
			return true
		case 'e':
			if focused {
				w.ui.OpenForm(item, app)
			}
			return true
		case ' ':
			if focused {
				w.ui.Toggle(item)
			}
			return true
		case '+':
			if focused {
				w.ui.Adjust(item, 1)
			}
			return true
		case '-':
			if focused {
				w.ui.Adjust(item, -1)
			}
			return true
		case 'd':
			if focused {
				w.removal = &item
				w.ui.DisplayStatus("Remove " + item.Name + "? [y/N]")
			}
			return true
		}
	}

	return w.presentation.UserInput(ev, size, focus, app)
}

// Selectable implements gowid.IWidget
func (w *ItemList) Selectable() bool {
	return true
}

////////////////////
//                //
// Abstraction    //
//                //
////////////////////

// An itemListAbstraction is a list of Items to interract with.
// It implements list.IWalker interface.
type itemListAbstraction struct {
	widgets []*Item
	focus   list.ListPos
}

func newItemListAbstraction() *itemListAbstraction {
	return &itemListAbstraction{
		widgets: make([]*Item, 0),
		focus:   0,
	}
}

func (w *itemListAbstraction) Replace(items []libsl.Item) {
	var focused string
	if int(w.focus) < len(w.widgets) {
		focused = w.widgets[w.focus].ID
	}

	w.widgets = make([]*Item, 0, len(items))
	w.focus = 0
	for i, item := range items {
		w.widgets = append(w.widgets, NewItem(item))
		if item.ID == focused {
			w.focus = list.ListPos(i)
		}
	}
}

func (w *itemListAbstraction) First() list.IWalkerPosition {
	if len(w.widgets) == 0 {
		return nil
	}
	return list.ListPos(0)
}

func (w *itemListAbstraction) Last() list.IWalkerPosition {
	if len(w.widgets) == 0 {
		return nil
	}
	return list.ListPos(len(w.widgets) - 1)
}

func (w *itemListAbstraction) Length() int {
	return len(w.widgets)
}

func (w *itemListAbstraction) At(pos list.IWalkerPosition) gowid.IWidget {
	var res gowid.IWidget
	ipos := int(pos.(list.ListPos))
	if ipos >= 0 && ipos < w.Length() {
		res = w.widgets[ipos]
	}
	return res
}

func (w *itemListAbstraction) Focus() list.IWalkerPosition {
	return w.focus
}

func (w *itemListAbstraction) SetFocus(focus list.IWalkerPosition, app gowid.IApp) {
	w.focus = focus.(list.ListPos)
}

func (w *itemListAbstraction) Next(ipos list.IWalkerPosition) list.IWalkerPosition {
	pos := ipos.(list.ListPos)
	if int(pos) == w.Length()-1 {
		return list.ListPos(-1)
	}
	return pos + 1
}

func (w *itemListAbstraction) Previous(ipos list.IWalkerPosition) list.IWalkerPosition {
	pos := ipos.(list.ListPos)
	if pos-1 == -1 {
		return list.ListPos(-1)
	}
	return pos - 1
}
