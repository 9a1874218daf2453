// Package mcp serves the kitsplit operations as MCP (Model Context
// Protocol) tools over stdio, so coding agents can rewrite and lint
// library imports without shelling out to the CLI.
//
// Messages are newline-delimited JSON-RPC 2.0.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
)

// ToolHandler processes tool invocations and returns results.
type ToolHandler func(ctx context.Context, args map[string]any) (string, error)

// Tool represents a registered tool that can be invoked by MCP clients.
type Tool struct {
	Name        string
	Description string
	Handler     ToolHandler
	InputSchema map[string]any
}

// Config configures the MCP server.
type Config struct {
	// Name is the server name reported to clients.
	Name    string
	Version string
	// Instructions is returned from initialize as a usage hint for the
	// client model.
	Instructions string
	// Debug logs every message to Log.
	Debug bool
	// Log receives debug output. Defaults to stderr; stdout carries the
	// protocol.
	Log io.Writer
}

// Server implements the MCP protocol over stdio.
type Server struct {
	config Config
	tools  map[string]*Tool
	mu     sync.RWMutex

	reader io.Reader
	writer io.Writer
}

// NewServer creates a new MCP server reading stdin and writing stdout.
func NewServer(config Config) *Server {
	return NewServerIO(config, os.Stdin, os.Stdout)
}

// NewServerIO creates a server on the given streams.
func NewServerIO(config Config, r io.Reader, w io.Writer) *Server {
	if config.Log == nil {
		config.Log = os.Stderr
	}
	return &Server{
		config: config,
		tools:  make(map[string]*Tool),
		reader: r,
		writer: w,
	}
}

// RegisterTool adds a tool that MCP clients can invoke.
func (s *Server) RegisterTool(name, description string, handler ToolHandler) {
	s.RegisterToolWithSchema(name, description, handler, nil)
}

// RegisterToolWithSchema adds a tool with a JSON Schema for its arguments.
func (s *Server) RegisterToolWithSchema(name, description string, handler ToolHandler, inputSchema map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools[name] = &Tool{
		Name:        name,
		Description: description,
		Handler:     handler,
		InputSchema: inputSchema,
	}
	s.debugf("registered tool %s", name)
}

// Name returns the server name.
func (s *Server) Name() string {
	return s.config.Name
}

// Start serves requests until the input ends or ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	s.debugf("starting")

	scanner := bufio.NewScanner(s.reader)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		s.debugf("received %s", line)

		response := s.handleMessage(ctx, line)
		if response == nil {
			continue
		}
		data, err := json.Marshal(response)
		if err != nil {
			s.debugf("marshal response: %v", err)
			continue
		}
		if _, err := fmt.Fprintf(s.writer, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
		s.debugf("sent %s", data)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

func result(id, v any) *JSONRPCResponse {
	return &JSONRPCResponse{JSONRPC: "2.0", Result: v, ID: id}
}

func failure(id any, code int, msg string) *JSONRPCResponse {
	return &JSONRPCResponse{JSONRPC: "2.0", Error: &JSONRPCError{Code: code, Message: msg}, ID: id}
}

// handleMessage processes a single JSON-RPC message. Notifications yield
// no response.
func (s *Server) handleMessage(ctx context.Context, data []byte) *JSONRPCResponse {
	var req JSONRPCRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return failure(nil, ParseError, "Parse error")
	}

	switch req.Method {
	case "initialize":
		return result(req.ID, InitializeResult{
			ProtocolVersion: ProtocolVersion,
			ServerInfo:      ServerInfo{Name: s.config.Name, Version: s.config.Version},
			Capabilities:    ServerCapabilities{Tools: &ToolsCapability{}},
			Instructions:    s.config.Instructions,
		})
	case "ping":
		return result(req.ID, map[string]any{})
	case "tools/list":
		return result(req.ID, ToolsListResult{Tools: s.GetTools()})
	case "tools/call":
		return s.handleToolsCall(ctx, &req)
	}

	if req.ID == nil {
		return nil
	}
	return failure(req.ID, MethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
}

func (s *Server) handleToolsCall(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse {
	var params ToolCallParams
	if req.Params != nil {
		raw, err := json.Marshal(req.Params)
		if err != nil {
			return failure(req.ID, InvalidParams, "Invalid params")
		}
		if err := json.Unmarshal(raw, &params); err != nil {
			return failure(req.ID, InvalidParams, "Invalid params structure")
		}
	}

	s.mu.RLock()
	tool, ok := s.tools[params.Name]
	s.mu.RUnlock()
	if !ok {
		return failure(req.ID, InvalidParams, fmt.Sprintf("Tool not found: %s", params.Name))
	}

	// Tool failures are results, not protocol errors, so the model sees them.
	text, err := tool.Handler(ctx, params.Arguments)
	if err != nil {
		return result(req.ID, ToolCallResult{
			Content: []ContentBlock{{Type: "text", Text: fmt.Sprintf("Error: %v", err)}},
			IsError: true,
		})
	}
	return result(req.ID, ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
	})
}

// ExecuteTool runs a tool in process.
func (s *Server) ExecuteTool(ctx context.Context, name string, args map[string]any) (string, error) {
	s.mu.RLock()
	tool, ok := s.tools[name]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("tool not found: %s", name)
	}
	return tool.Handler(ctx, args)
}

// GetTools lists the registered tools sorted by name.
func (s *Server) GetTools() []ToolInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]ToolInfo, 0, len(s.tools))
	for _, tool := range s.tools {
		info := ToolInfo{Name: tool.Name, Description: tool.Description, InputSchema: tool.InputSchema}
		if info.InputSchema == nil {
			info.InputSchema = map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			}
		}
		tools = append(tools, info)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

func (s *Server) debugf(format string, args ...any) {
	if s.config.Debug || os.Getenv("KITSPLIT_MCP_DEBUG") != "" {
		fmt.Fprintf(s.config.Log, "[mcp:%s] "+format+"\n", append([]any{s.config.Name}, args...)...)
	}
}

// InstallInstructions returns the client configuration that launches
// binary as an MCP server.
func InstallInstructions(serverName, binary string) string {
	return fmt.Sprintf(`To use %s from an MCP client, add it to the client's server list:

{
  "mcpServers": {
    "%s": {
      "command": "%s",
      "args": ["mcp"]
    }
  }
}

Run it from the project directory so kitsplit.yaml is found.`, serverName, serverName, binary)
}
