package main

import "shelf/internal/collection"

type AddCmd struct {
	ItemFlags   `embed:""`
	Interactive bool `short:"i" help:"Fill in the item with an interactive form"`
}

func (cmd *AddCmd) Run(g *Globals) error {
	item := cmd.apply(collection.Item{})
	return addItem(g, "Add to collection", item, cmd.Interactive)
}
