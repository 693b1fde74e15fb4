// Package mcp exposes the query engine as Model Context Protocol tools over stdio.
package mcp

import (
	"context"
	"errors"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/todoview/internal/debug"
	"github.com/standardbeagle/todoview/internal/editor"
	"github.com/standardbeagle/todoview/internal/engine"
	"github.com/standardbeagle/todoview/internal/version"
)

// Server serves todo_query and todo_config
type Server struct {
	settings engine.SettingsProvider
	host     editor.Host
	engine   *engine.Engine
	server   *mcp.Server
	logger   *DiagnosticLogger
}

// NewServer creates a server answering queries against host with the
// settings current at the time of each call. A nil logger discards output.
func NewServer(settings engine.SettingsProvider, host editor.Host, logger *DiagnosticLogger) (*Server, error) {
	if settings == nil || settings.Current() == nil {
		return nil, errors.New("mcp server requires a loaded configuration")
	}
	if host == nil {
		return nil, errors.New("mcp server requires an editor host")
	}
	if logger == nil {
		logger = NoOpLogger
	}

	s := &Server{
		settings: settings,
		host:     host,
		engine:   engine.New(settings, host),
		logger:   logger,
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "todoview",
		Version: version.Info(),
	}, nil)
	s.registerTools()

	logger.Printf("%s MCP server initialized with %d categories", version.FullInfo(), len(settings.Current().Config.Categories))
	return s, nil
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name: "todo_query",
		Description: "Find TODO-style annotations (TODO, FIXME, NOTE, ...) in the project. " +
			"Query syntax is scope:categories:assignees[:sort], e.g. 'all:TODO,FIXME:*:file' or 'file:*:alice'. " +
			"Scope is file, open or all; '*' matches anything; sort is file, category or assignee.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"query": {
					Type:        "string",
					Description: "Query string; empty runs the configured default query",
				},
				"active": {
					Type:        "string",
					Description: "Path of the file the 'file' scope refers to",
				},
				"buffers": {
					Type:        "array",
					Description: "Unsaved editor buffers, searched in place of the files on disk and included in the 'open' scope",
					Items: &jsonschema.Schema{
						Type: "object",
						Properties: map[string]*jsonschema.Schema{
							"path": {Type: "string"},
							"text": {Type: "string"},
						},
						Required: []string{"path", "text"},
					},
				},
				"format": {
					Type:        "string",
					Description: "json (default), text, locations or html",
					Enum:        []any{"json", "text", "locations", "html"},
				},
			},
		},
	}, s.handleQuery)

	s.server.AddTool(&mcp.Tool{
		Name:        "todo_config",
		Description: "Show the effective configuration: categories, project roots, exclusions and the files it was loaded from",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleConfig)
}

// Run serves over stdio until ctx is cancelled or the client disconnects
func (s *Server) Run(ctx context.Context) error {
	debug.SetMCPMode(true)
	s.logger.Printf("serving on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Close releases the diagnostic log
func (s *Server) Close() error {
	return s.logger.Close()
}
