package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"shelf/internal/prefs"
)

type PrefsCmd struct {
	Show  PrefsShowCmd  `cmd:"" default:"1" help:"Show display preferences"`
	Set   PrefsSetCmd   `cmd:"" help:"Change display preferences"`
	Reset PrefsResetCmd `cmd:"" help:"Restore default display preferences"`
}

type PrefsShowCmd struct{}

func (cmd *PrefsShowCmd) Run(g *Globals) error {
	return writePrefs(g.Out, g.Settings.Get())
}

type PrefsSetCmd struct {
	Group   *bool  `negatable:"" help:"Group the list by series"`
	Compact *bool  `negatable:"" help:"Use one line per item"`
	Sort    string `help:"Sort order: name or number"`
}

func (cmd *PrefsSetCmd) Run(g *Globals) error {
	var order prefs.SortOrder
	if cmd.Sort != "" {
		var err error
		if order, err = prefs.ParseSortOrder(cmd.Sort); err != nil {
			return err
		}
	}

	err := g.Settings.Update(func(p *prefs.Preferences) {
		if cmd.Group != nil {
			p.GroupBySeries = *cmd.Group
		}
		if cmd.Compact != nil {
			p.CompactMode = *cmd.Compact
		}
		if order != "" {
			p.SortOrder = order
		}
	})
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return writePrefs(g.Out, g.Settings.Get())
}

type PrefsResetCmd struct{}

func (cmd *PrefsResetCmd) Run(g *Globals) error {
	if err := g.Settings.Reset(); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return writePrefs(g.Out, g.Settings.Get())
}

func writePrefs(out io.Writer, p prefs.Preferences) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Group by series:\t%s\n", onOff(p.GroupBySeries))
	fmt.Fprintf(w, "Compact mode:\t%s\n", onOff(p.CompactMode))
	fmt.Fprintf(w, "Sort order:\t%s\n", p.SortOrder)
	return w.Flush()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
