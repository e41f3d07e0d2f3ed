package main

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"shelf/internal/collection"
	"shelf/internal/lookup"
)

var errNameRequired = errors.New("no product name, pass --name or use -i")

type ScanCmd struct {
	Barcode     string `arg:"" help:"Barcode digits as read by the scanner"`
	ItemFlags   `embed:""`
	Interactive bool `short:"i" help:"Review the looked-up item in an interactive form"`
}

func (cmd *ScanCmd) Run(g *Globals) error {
	barcode := strings.TrimSpace(cmd.Barcode)
	item := collection.Item{Barcode: barcode}

	res, err := g.Lookup.Lookup(g.Ctx, barcode)
	switch {
	case err == nil:
		item = res.Item()
		fmt.Fprintf(g.Out, "Found: %s\n", res.Name)
	case errors.Is(err, lookup.ErrNotFound):
		fmt.Fprintf(g.Out, "No product found for barcode %s. Enter the details manually.\n", barcode)
	case errors.Is(err, lookup.ErrLookupFailed):
		g.Log.Warn("barcode lookup failed", zap.String("barcode", barcode), zap.Error(err))
		fmt.Fprintln(g.Out, "Could not reach the product database. Enter the details manually.")
	default:
		return err
	}

	item = cmd.apply(item)
	if !cmd.Interactive && strings.TrimSpace(item.Name) == "" {
		return errNameRequired
	}
	return addItem(g, "Add scanned item", item, cmd.Interactive)
}
