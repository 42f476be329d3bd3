package tui

import (
	"fmt"

	"github.com/gcla/gowid"
	"github.com/gcla/gowid/widgets/selectable"
	"github.com/gcla/gowid/widgets/styled"
	"github.com/gcla/gowid/widgets/text"
	"github.com/mdouchement/sharedlist/pkg/libsl"
)

// An Item is the graphical representation of an libsl.Item.
type Item struct {
	ID           string
	presentation gowid.IWidget
	abstraction  libsl.Item
}

// NewItem returns a new Item.
func NewItem(item libsl.Item) *Item {
	style := "normal"
	if item.IsPurchased() {
		style = "purchased"
	}

	return &Item{
		ID: item.ID,
		presentation: selectable.New(
			styled.NewExt(
				text.New(Label(item)),
				gowid.MakePaletteRef(style), gowid.MakePaletteRef("focused"),
			),
		),
		abstraction: item,
	}
}

// Label returns the line displayed for the item.
func Label(item libsl.Item) string {
	check := "[ ]"
	if item.IsPurchased() {
		check = "[x]"
	}
	return fmt.Sprintf("%s %-24s x%-3d %8.2f  %s", check, item.Name, item.Qty(), item.Cost(), item.Buyer())
}

////////////////////
//                //
// Delegates      //
//                //
////////////////////

// Render implements gowid.IWidget
func (w *Item) Render(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.ICanvas {
	return w.presentation.Render(size, focus, app)
}

// RenderSize implements gowid.IWidget
func (w *Item) RenderSize(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.IRenderBox {
	return w.presentation.RenderSize(size, focus, app)
}

// UserInput implements gowid.IWidget
func (w *Item) UserInput(ev any, size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) bool {
	return w.presentation.UserInput(ev, size, focus, app)
}

// Selectable implements gowid.IWidget
func (w *Item) Selectable() bool {
	return w.presentation.Selectable()
}
