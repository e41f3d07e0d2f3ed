package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"shelf/cmd/shelf/render"
	"shelf/internal/collection"
	"shelf/internal/config"
	"shelf/internal/inventory"
	"shelf/internal/lookup"
	"shelf/internal/prefs"
	"shelf/internal/ui"
)

type Globals struct {
	Ctx      context.Context
	Ctl      *inventory.Controller
	Settings *prefs.Settings
	Lookup   lookup.Lookuper
	Out      io.Writer
	Render   render.Renderer
	Log      *zap.Logger
	RunForm  func(title string, item *collection.Item) error
}

func defaultRunForm(title string, item *collection.Item) error {
	return ui.NewItemForm(title, item).Run()
}

// openGlobals wires the store, controller, preferences and lookup client
// from cfg. The returned func closes the store and flushes the logger.
func openGlobals(ctx context.Context, cfg config.Config, log *zap.Logger, out io.Writer) (*Globals, func() error, error) {
	store, err := collection.NewSQLiteStore(cfg.DatabasePath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open collection: %w", err)
	}
	// Surface migration failures here; the controller only logs them.
	if err := store.Init(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to initialize collection: %w", err)
	}

	ctl := inventory.New(store, log)
	ctl.Initialize(ctx)

	prefsStore, err := prefs.NewStore(cfg.PrefsDir(), log)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to open preferences: %w", err)
	}

	client := lookup.NewClient(lookup.Config{
		Endpoint: cfg.Lookup.Endpoint,
		Timeout:  cfg.Lookup.Timeout,
	}, log)

	log.Debug("collection opened",
		zap.String("database", config.ShortenPath(cfg.DatabasePath())),
		zap.Int("items", len(ctl.Items())))

	g := &Globals{
		Ctx:      ctx,
		Ctl:      ctl,
		Settings: prefs.NewSettings(prefsStore, log),
		Lookup:   client,
		Out:      out,
		Render:   render.NewLipglossRendererAuto(out),
		Log:      log,
		RunForm:  defaultRunForm,
	}
	closeFn := func() error {
		err := store.Close()
		// Sync on stderr returns EINVAL on some platforms.
		_ = log.Sync()
		return err
	}
	return g, closeFn, nil
}

var errNotSaved = errors.New("change was not saved, see log for details")
