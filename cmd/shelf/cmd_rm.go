package main

import "fmt"

type RmCmd struct {
	ID int64 `arg:"" help:"Item ID"`
}

func (cmd *RmCmd) Run(g *Globals) error {
	item, err := g.Ctl.Get(g.Ctx, cmd.ID)
	if err != nil {
		return err
	}

	if !g.Ctl.Remove(g.Ctx, cmd.ID) {
		return fmt.Errorf("failed to remove %q: %w", item.Name, errNotSaved)
	}

	fmt.Fprintf(g.Out, "Removed: %s\n", item.Name)
	return nil
}
