package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"shelf/internal/collection"
	"shelf/internal/ui"
)

// ItemFlags are the per-field flags shared by add, edit and scan. Only
// flags given on the command line are applied.
type ItemFlags struct {
	Name    *string `short:"n" help:"Item name"`
	Series  *string `short:"s" help:"Series or line the item belongs to"`
	Number  *string `help:"Number within the series"`
	Barcode *string `short:"b" help:"Barcode"`
	Price   *string `short:"p" help:"Purchase price, stored as entered"`
	Image   *string `help:"Path or URL of a photo"`
	Notes   *string `help:"Free-form notes"`
}

func (f ItemFlags) apply(item collection.Item) collection.Item {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&item.Name, f.Name)
	set(&item.Series, f.Series)
	set(&item.Number, f.Number)
	set(&item.Barcode, f.Barcode)
	set(&item.PurchasePrice, f.Price)
	set(&item.ImageRef, f.Image)
	set(&item.Notes, f.Notes)
	return item
}

func handleFormError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	return err
}

// addItem optionally runs the form over item, then validates and adds it.
func addItem(g *Globals, title string, item collection.Item, interactive bool) error {
	if interactive {
		if err := g.RunForm(title, &item); err != nil {
			return handleFormError(err)
		}
	}

	item = ui.TrimItem(item)
	if err := item.Validate(); err != nil {
		return err
	}

	if !g.Ctl.Add(g.Ctx, item) {
		return fmt.Errorf("failed to add %q: %w", item.Name, errNotSaved)
	}

	fmt.Fprint(g.Out, ui.RenderWizard(title, ui.ItemFields(item), -1))
	return nil
}
