package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// createJSONResponse wraps data as a single text content item
func createJSONResponse(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response data: %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(content)},
		},
	}, nil
}

// createTextResponse returns preformatted text
func createTextResponse(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// createToolError marshals data and marks the result as a tool error. Tool
// failures belong in the result with IsError set, not in a protocol error,
// so the client can see them.
func createToolError(data interface{}) (*mcp.CallToolResult, error) {
	response, err := createJSONResponse(data)
	if err != nil {
		return nil, err
	}
	response.IsError = true
	return response, nil
}

// createErrorResponse reports err from operation as a tool error
func createErrorResponse(operation string, err error) (*mcp.CallToolResult, error) {
	return createToolError(map[string]interface{}{
		"success":   false,
		"error":     err.Error(),
		"operation": operation,
	})
}
