package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"shelf/internal/config"
	"shelf/internal/logging"
)

type CLI struct {
	Add   AddCmd   `cmd:"" aliases:"a" help:"Add an item to the collection"`
	List  ListCmd  `cmd:"" aliases:"ls" help:"List the collection"`
	Show  ShowCmd  `cmd:"" help:"Show item details"`
	Edit  EditCmd  `cmd:"" aliases:"e" help:"Edit an item"`
	Rm    RmCmd    `cmd:"" help:"Remove an item from the collection"`
	Scan  ScanCmd  `cmd:"" help:"Look up a barcode and add the product"`
	Prefs PrefsCmd `cmd:"" help:"Show or change display preferences"`

	ConfigPath string `name:"config" short:"c" help:"Path to config file"`
	DataDir    string `name:"data-dir" help:"Directory holding the collection and preferences"`
	Verbose    bool   `short:"v" help:"Log debug output to stderr"`

	ctx   context.Context
	close func() error
}

func (c *CLI) loadConfig() (config.Config, error) {
	path := c.ConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if c.DataDir != "" {
		if cfg.DataDir, err = config.ExpandPath(c.DataDir); err != nil {
			return config.Config{}, fmt.Errorf("invalid data dir: %w", err)
		}
	}
	if c.Verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func (c *CLI) AfterApply(ctx *kong.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	runCtx := c.ctx
	if runCtx == nil {
		runCtx = context.Background()
	}
	globals, closeFn, err := openGlobals(runCtx, cfg, log, os.Stdout)
	if err != nil {
		_ = log.Sync()
		return err
	}
	c.close = closeFn
	ctx.Bind(globals)
	return nil
}

func (c *CLI) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

func main() {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli := CLI{ctx: runCtx}
	ctx := kong.Parse(&cli,
		kong.Name("shelf"),
		kong.Description("Personal collectibles tracker"),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	if cerr := cli.Close(); err == nil {
		err = cerr
	}
	ctx.FatalIfErrorf(err)
}
