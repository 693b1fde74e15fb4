package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/todoview/internal/config"
	"github.com/standardbeagle/todoview/internal/debug"
	"github.com/standardbeagle/todoview/internal/display"
	"github.com/standardbeagle/todoview/internal/engine"
	tverrors "github.com/standardbeagle/todoview/internal/errors"
	"github.com/standardbeagle/todoview/internal/mcp"
)

func queryCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	store, err := config.NewStaticStore(cfg)
	if err != nil {
		return err
	}
	ws := newWorkspace(c, store)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	raw := c.Args().First()
	opts := display.Options{
		Format:        cfg.Output.Format,
		Roots:         ws.ProjectRoots(),
		RelativePaths: cfg.Output.RelativePaths,
	}

	rs, err := engine.New(store, ws).RunQuery(ctx, raw)
	if tverrors.IsParseError(err) {
		// Line-oriented reports go to stderr so they never mix with piped results;
		// json and html stay on stdout as complete documents.
		w := c.App.ErrWriter
		if opts.Format == "json" || opts.Format == "html" {
			w = c.App.Writer
		}
		if renderErr := display.RenderError(w, raw, err, opts); renderErr != nil {
			return renderErr
		}
		return &exitError{code: exitInvalidQuery, err: err}
	}
	if err != nil {
		return err
	}
	return display.Render(c.App.Writer, rs, opts)
}

func configCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

func mcpCommand(c *cli.Context) error {
	// stdio belongs to the protocol from here on
	debug.SetMCPMode(true)

	store, err := config.NewStore(func() (*config.Config, error) {
		return loadConfigWithOverrides(c)
	})
	if err != nil {
		return err
	}

	logger := mcp.NewDiagnosticLogger(true)
	server, err := mcp.NewServer(store, newWorkspace(c, store), logger)
	if err != nil {
		return err
	}
	defer server.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watcher := config.NewWatcher(store, config.DefaultDebounce)
	watcher.OnReload = func(changed bool, err error) {
		switch {
		case err != nil:
			logger.Errorf("configuration reload failed, keeping previous: %v", err)
		case changed:
			logger.Printf("configuration reloaded")
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(ctx)
	})
	g.Go(func() error {
		// The client closing stdio ends the session and stops the watcher
		defer cancel()
		return server.Run(ctx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
