package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/todoview/internal/config"
	"github.com/standardbeagle/todoview/internal/display"
	"github.com/standardbeagle/todoview/internal/engine"
	tverrors "github.com/standardbeagle/todoview/internal/errors"
)

// BufferParam is the unsaved text of one editor buffer
type BufferParam struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

// QueryParams are the arguments of todo_query
type QueryParams struct {
	Query   string        `json:"query"`
	Active  string        `json:"active,omitempty"`
	Buffers []BufferParam `json:"buffers,omitempty"`
	Format  string        `json:"format,omitempty"`
}

type queryResponse struct {
	Success bool `json:"success"`
	display.Report
}

type configResponse struct {
	Success     bool           `json:"success"`
	Config      *config.Config `json:"config"`
	Fingerprint string         `json:"fingerprint"`
}

// decodeArguments tolerates absent arguments
func decodeArguments(req *mcp.CallToolRequest, v interface{}) error {
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Params.Arguments, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

func (s *Server) handleQuery(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params QueryParams
	if err := decodeArguments(req, &params); err != nil {
		return createErrorResponse("todo_query", err)
	}

	format := params.Format
	if format == "" {
		format = "json"
	}
	if !config.IsOutputFormat(format) {
		return createErrorResponse("todo_query", fmt.Errorf("unknown format %q", params.Format))
	}

	e := s.engine
	host := s.host
	if params.Active != "" || len(params.Buffers) > 0 {
		overlay := newOverlayHost(s.host, params.Active, params.Buffers)
		host = overlay
		e = engine.New(s.settings, overlay)
	}

	rs, err := e.RunQuery(ctx, params.Query)
	if err != nil {
		if tverrors.IsParseError(err) {
			s.logger.Printf("rejected query %q: %v", params.Query, err)
			return createToolError(queryResponse{Report: display.NewErrorReport(params.Query, err)})
		}
		s.logger.Errorf("query %q failed: %v", params.Query, err)
		return createErrorResponse("todo_query", err)
	}
	s.logger.Printf("query %q: %s", params.Query, display.Status(rs))

	cfg := e.Settings().Config
	opts := display.Options{
		Format:        format,
		Roots:         host.ProjectRoots(),
		RelativePaths: cfg.Output.RelativePaths,
	}
	if format == "json" {
		return createJSONResponse(queryResponse{Success: true, Report: display.NewReport(rs, opts)})
	}

	var buf bytes.Buffer
	if err := display.Render(&buf, rs, opts); err != nil {
		return createErrorResponse("todo_query", err)
	}
	return createTextResponse(buf.String()), nil
}

func (s *Server) handleConfig(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := s.settings.Current().Config
	return createJSONResponse(configResponse{
		Success:     true,
		Config:      cfg,
		Fingerprint: strconv.FormatUint(cfg.Fingerprint, 16),
	})
}
