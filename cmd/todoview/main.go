package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/standardbeagle/todoview/internal/config"
	"github.com/standardbeagle/todoview/internal/debug"
	"github.com/standardbeagle/todoview/internal/editor"
	"github.com/standardbeagle/todoview/internal/version"

	"github.com/urfave/cli/v2"
)

// Exit statuses
const (
	exitOK           = 0
	exitFailure      = 1
	exitInvalidQuery = 2
)

// exitError carries an exit status for an error already reported to the user
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// projectFlags are accepted by every command that loads a configuration
func projectFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "root",
			Aliases: []string{"r"},
			Usage:   "Project root to scan (repeatable, overrides config)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Exclude folders or files matching a glob pattern (e.g., --exclude vendor --exclude '*.min.js')",
		},
	}
}

// queryFlags describe editor state and output for one query
func queryFlags() []cli.Flag {
	return append(projectFlags(),
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Active file for the 'file' scope",
		},
		&cli.StringSliceFlag{
			Name:    "open",
			Aliases: []string{"o"},
			Usage:   "Open file for the 'open' scope (repeatable)",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Output format: text, locations, json or html (overrides config)",
		},
		&cli.BoolFlag{
			Name:  "no-truncate",
			Usage: "Show messages verbatim without the ' ...' suffix",
		},
	)
}

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	roots := c.StringSlice("root")
	rootDir := ""
	if len(roots) > 0 {
		rootDir = roots[0]
	}

	cfg, err := config.LoadWithRoot(c.String("config"), rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if len(roots) > 0 {
		cfg.Roots = cfg.Roots[:0]
		for _, r := range roots {
			// Absolute roots keep display and navigation paths consistent
			absRoot, err := filepath.Abs(r)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve root path %q: %w", r, err)
			}
			cfg.Roots = append(cfg.Roots, absRoot)
		}
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Exclude.FolderExclude = append(cfg.Exclude.FolderExclude, excludes...)
		cfg.Exclude.FileExclude = append(cfg.Exclude.FileExclude, excludes...)
	}
	if format := c.String("format"); format != "" {
		cfg.Output.Format = format
	}
	if c.Bool("no-truncate") {
		cfg.Output.TruncateMessages = false
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newWorkspace builds the editor state from flags. Roots follow the live
// configuration.
func newWorkspace(c *cli.Context, store *config.Store) *editor.Workspace {
	return editor.NewWorkspace(editor.WorkspaceOptions{
		Active: c.String("file"),
		Open:   c.StringSlice("open"),
		Roots: func() []string {
			return store.Current().Config.Roots
		},
	})
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:                   "todoview",
		Usage:                  "List TODO, FIXME and other annotations across a project",
		Version:                version.Info(),
		UseShortOptionHandling: true,
		Writer:                 stdout,
		ErrWriter:              stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default: .todoview.kdl, .toml or .yaml in the project root)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Write debug output to stderr",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				debug.Enable(c.App.ErrWriter)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "query",
				Aliases:   []string{"q"},
				Usage:     "Run a query: scope:categories:assignees[:sort]",
				ArgsUsage: "[query]",
				Description: "scope is file (f), open (o) or anything else for all project roots.\n" +
					"categories and assignees are comma-separated lists, '*' matches anything.\n" +
					"sort is file, category (type) or assignee.\n\n" +
					"Examples:\n" +
					"  todoview query 'all:TODO,FIXME:*'\n" +
					"  todoview query --file main.go 'file:*:alice'\n" +
					"  todoview query 'all:*:*:category' --format locations",
				Flags:  queryFlags(),
				Action: queryCommand,
			},
			{
				Name:   "config",
				Usage:  "Print the effective configuration as JSON",
				Flags:  projectFlags(),
				Action: configCommand,
			},
			{
				Name:   "mcp",
				Usage:  "Serve todo_query and todo_config over MCP stdio, reloading configuration on change",
				Flags:  queryFlags(),
				Action: mcpCommand,
			},
		},
	}
}

// exitCode maps an error returned by the app to a process exit status
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailure
}

func main() {
	err := newApp(os.Stdout, os.Stderr).Run(os.Args)
	if err != nil {
		var ee *exitError
		if !errors.As(err, &ee) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	os.Exit(exitCode(err))
}
