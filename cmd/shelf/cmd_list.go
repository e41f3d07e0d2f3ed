package main

import (
	"fmt"

	"shelf/cmd/shelf/render"
	"shelf/internal/view"
)

type ListCmd struct {
	Query string `arg:"" optional:"" help:"Show only items whose name or number contains QUERY"`
	IDs   bool   `help:"Output only matching item IDs (one per line)"`
}

func (cmd *ListCmd) Run(g *Globals) error {
	items := g.Ctl.Items()
	p := g.Settings.Get()

	if cmd.IDs {
		for _, item := range view.Filter(items, cmd.Query) {
			fmt.Fprintln(g.Out, item.ID)
		}
		return nil
	}

	out := g.Render.RenderCollection(render.CollectionView{
		Projection: view.Project(items, cmd.Query, p),
		Compact:    p.CompactMode,
		Total:      len(items),
		Query:      cmd.Query,
	})
	fmt.Fprint(g.Out, out)
	return nil
}
