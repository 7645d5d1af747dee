package mcp

import (
	"bufio"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"sync"

	"webcompat/internal/output"
	"webcompat/internal/query"
)

var errMalformed = stderrors.New("malformed JSON-RPC message")

// Options tune a server. The zero value is usable.
type Options struct {
	// CharacterLimit caps the text of a tool response; 0 means the default.
	CharacterLimit int
	// Metrics receives one record per tool call; nil disables recording.
	Metrics *ToolMetrics
}

// MCPServer represents the MCP server
type MCPServer struct {
	stdin   io.Reader
	stdout  io.Writer
	scanner *bufio.Scanner
	writeMu sync.Mutex
	logger  *slog.Logger
	version string

	engine         *query.Engine
	characterLimit int
	metrics        *ToolMetrics

	tools       map[string]ToolHandler
	toolDefs    []Tool
	toolsetHash string
}

// NewMCPServer creates a server answering tool calls from engine.
func NewMCPServer(version string, engine *query.Engine, logger *slog.Logger, opts Options) *MCPServer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	limit := opts.CharacterLimit
	if limit <= 0 {
		limit = output.DefaultCharacterLimit
	}

	server := &MCPServer{
		stdin:          os.Stdin,
		stdout:         os.Stdout,
		logger:         logger,
		version:        version,
		engine:         engine,
		characterLimit: limit,
		metrics:        opts.Metrics,
		tools:          make(map[string]ToolHandler),
	}

	server.RegisterTools()
	server.toolDefs = server.GetToolDefinitions()
	server.toolsetHash = ComputeToolsetHash(server.toolDefs)

	return server
}

// NewMCPServerForCLI creates a server without an engine. It can describe its
// tools but not answer tool calls.
func NewMCPServerForCLI() *MCPServer {
	s := &MCPServer{logger: slog.New(slog.DiscardHandler), tools: make(map[string]ToolHandler)}
	s.toolDefs = s.GetToolDefinitions()
	s.toolsetHash = ComputeToolsetHash(s.toolDefs)
	return s
}

// Start starts the MCP server and processes messages until stdin closes.
func (s *MCPServer) Start() error {
	s.logger.Info("MCP server starting",
		"version", s.version,
		"tools", len(s.toolDefs),
	)

	for {
		msg, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				s.logger.Info("MCP server shutting down (EOF)")
				return nil
			}
			if stderrors.Is(err, errMalformed) {
				s.logger.Warn("Dropping malformed message", "error", err.Error())
				_ = s.writeError(nil, ParseError, "Parse error")
				continue
			}
			s.logger.Error("Error reading message", "error", err.Error())
			return err
		}

		response := s.handleMessage(msg)

		// Notifications don't generate responses
		if response != nil {
			if err := s.writeMessage(response); err != nil {
				s.logger.Error("Error writing response",
					"error", err.Error(),
				)
			}
		}
	}
}

// Serve runs Start until stdin closes or ctx is cancelled. On cancellation
// it returns without waiting for the pending read, which only ends with
// the process.
func (s *MCPServer) Serve(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		done <- s.Start()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		s.logger.Info("MCP server shutting down", "reason", context.Cause(ctx).Error())
		return nil
	}
}

// SetStdin sets the input stream (for testing)
func (s *MCPServer) SetStdin(r io.Reader) {
	s.stdin = r
	s.scanner = nil // Reset scanner so it will be recreated with new reader
}

// SetStdout sets the output stream (for testing)
func (s *MCPServer) SetStdout(w io.Writer) {
	s.stdout = w
}

// GetToolsetHash returns the hash that binds tools/list cursors.
func (s *MCPServer) GetToolsetHash() string {
	return s.toolsetHash
}

// Tools returns the tool definitions in listing order.
func (s *MCPServer) Tools() []Tool {
	return s.toolDefs
}
