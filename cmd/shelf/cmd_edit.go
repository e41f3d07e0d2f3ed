package main

import (
	"fmt"

	"shelf/internal/ui"
)

type EditCmd struct {
	ID          int64 `arg:"" help:"Item ID"`
	ItemFlags   `embed:""`
	Interactive bool `short:"i" help:"Edit the item with an interactive form"`
}

func (cmd *EditCmd) Run(g *Globals) error {
	item, err := g.Ctl.Get(g.Ctx, cmd.ID)
	if err != nil {
		return err
	}

	item = cmd.apply(item)
	if cmd.Interactive {
		if err := g.RunForm("Edit item", &item); err != nil {
			return handleFormError(err)
		}
	}

	item = ui.TrimItem(item)
	if err := item.Validate(); err != nil {
		return err
	}

	if !g.Ctl.Update(g.Ctx, cmd.ID, item) {
		return fmt.Errorf("failed to update item %d: %w", cmd.ID, errNotSaved)
	}

	fmt.Fprintf(g.Out, "Updated: %s\n", item.Name)
	return nil
}
