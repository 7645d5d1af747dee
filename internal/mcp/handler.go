package mcp

import (
	"fmt"
	"time"

	"webcompat/internal/errors"
)

// handleMessage processes an incoming MCP message and returns a response
func (s *MCPServer) handleMessage(msg *MCPMessage) *MCPMessage {
	if msg.IsRequest() {
		return s.handleRequest(msg)
	}

	// Notifications don't get a response
	if msg.IsNotification() {
		s.handleNotification(msg)
		return nil
	}

	// Client responses are not expected since the server sends no requests
	if msg.IsResponse() {
		s.logger.Debug("Ignoring client response", "id", msg.Id)
		return nil
	}

	return NewErrorMessage(msg.Id, InvalidRequest, "Invalid message: not a request or notification", nil)
}

// handleRequest handles a JSON-RPC request
func (s *MCPServer) handleRequest(msg *MCPMessage) *MCPMessage {
	s.logger.Debug("Handling request",
		"method", msg.Method,
		"id", msg.Id,
	)

	params, ok := msg.Params.(map[string]interface{})
	if !ok {
		if msg.Params != nil {
			return NewErrorMessage(msg.Id, InvalidParams, "Invalid params: expected object", nil)
		}
		params = make(map[string]interface{})
	}

	var (
		result interface{}
		err    error
	)
	switch msg.Method {
	case "initialize":
		result = s.handleInitialize(params)
	case "ping":
		result = map[string]interface{}{}
	case "tools/list":
		result, err = s.handleListTools(params)
	case "tools/call":
		result, err = s.handleCallTool(params)
	case "resources/list":
		result = s.handleListResources()
	case "resources/read":
		result, err = s.handleReadResource(params)
	default:
		return NewErrorMessage(msg.Id, MethodNotFound, fmt.Sprintf("Method not found: %s", msg.Method), nil)
	}

	if err != nil {
		return errorMessageFor(msg.Id, err)
	}
	return NewResultMessage(msg.Id, result)
}

// handleNotification handles a JSON-RPC notification
func (s *MCPServer) handleNotification(msg *MCPMessage) {
	switch msg.Method {
	case "notifications/initialized":
		s.logger.Info("Client initialized")
	default:
		s.logger.Debug("Ignoring notification", "method", msg.Method)
	}
}

// handleListTools returns one page of tool definitions.
func (s *MCPServer) handleListTools(params map[string]interface{}) (interface{}, error) {
	var cursor string
	if c, ok := params["cursor"].(string); ok {
		cursor = c
	}

	offset, err := DecodeToolsCursor(cursor, s.toolsetHash)
	if err != nil {
		return nil, err
	}

	pageTools, nextCursor := PaginateTools(s.toolDefs, offset, DefaultPageSize, s.toolsetHash)

	result := map[string]interface{}{
		"tools": pageTools,
	}
	if nextCursor != "" {
		result["nextCursor"] = nextCursor
	}
	return result, nil
}

// handleCallTool executes a tool and renders its result.
func (s *MCPServer) handleCallTool(params map[string]interface{}) (interface{}, error) {
	toolName, ok := params["name"].(string)
	if !ok || toolName == "" {
		return nil, errors.NewInvalidParameterError("name", "tool name is required")
	}

	var args map[string]interface{}
	switch a := params["arguments"].(type) {
	case map[string]interface{}:
		args = a
	case nil:
		args = make(map[string]interface{})
	default:
		return nil, errors.NewInvalidParameterError("arguments", "expected object")
	}

	handler, exists := s.tools[toolName]
	if !exists {
		return nil, errors.NewResourceNotFoundError("tool", toolName)
	}

	format, err := toolParams(args).responseFormat()
	if err != nil {
		return nil, err
	}

	s.logger.Info("Calling tool",
		"tool", toolName,
		"params", args,
	)

	start := time.Now()
	result, err := handler(args)
	if err != nil {
		if wcErr, ok := errors.AsWebCompatError(err); ok && wcErr.Code == errors.InvalidParameter {
			s.recordCall(toolName, nil, renderedResult{}, time.Since(start), true)
			return nil, err
		}
		s.logger.Error("Tool failed", "tool", toolName, "error", err.Error())
		result = failedResult(err)
	}

	rendered, err := s.render(result, format)
	if err != nil {
		return nil, err
	}
	s.recordCall(toolName, result, rendered, time.Since(start), result.isError)

	return rendered.result, nil
}

func (s *MCPServer) recordCall(tool string, r *ToolResult, rendered renderedResult, elapsed time.Duration, isError bool) {
	if s.metrics == nil {
		return
	}
	call := ToolCall{
		ToolName:      tool,
		Truncated:     rendered.truncated,
		ResponseChars: rendered.chars,
		ExecutionMs:   elapsed.Milliseconds(),
		IsError:       isError,
	}
	if r != nil {
		call.TotalResults = r.total
		call.ReturnedResults = r.returned
	}
	s.metrics.Record(call)
}

// handleListResources returns static resources and templates
func (s *MCPServer) handleListResources() interface{} {
	return map[string]interface{}{
		"resources":         Resources(),
		"resourceTemplates": ResourceTemplates(),
	}
}

// handleReadResource reads a resource by URI
func (s *MCPServer) handleReadResource(params map[string]interface{}) (interface{}, error) {
	uri, ok := params["uri"].(string)
	if !ok || uri == "" {
		return nil, errors.NewInvalidParameterError("uri", "resource uri is required")
	}

	s.logger.Debug("Reading resource", "uri", uri)

	text, err := s.readResource(uri)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"uri":      uri,
				"mimeType": "application/json",
				"text":     text,
			},
		},
	}, nil
}
