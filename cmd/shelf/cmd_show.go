package main

import (
	"fmt"
)

type ShowCmd struct {
	ID int64 `arg:"" help:"Item ID"`
}

func (cmd *ShowCmd) Run(g *Globals) error {
	item, err := g.Ctl.Get(g.Ctx, cmd.ID)
	if err != nil {
		return err
	}
	fmt.Fprint(g.Out, g.Render.RenderItem(item))
	return nil
}
