package gateway

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// toolRegistry records the catalog exposed on the server, in catalog order.
// The server keeps its own copy sorted by name, so tools/list is answered
// from here.
type toolRegistry struct {
	server  *mcp.Server
	handler func(name string) mcp.ToolHandler
	logger  *zap.Logger
	tools   []*mcp.Tool
	exposed map[string]struct{}
}

func newToolRegistry(server *mcp.Server, handler func(name string) mcp.ToolHandler, logger *zap.Logger) *toolRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &toolRegistry{
		server:  server,
		handler: handler,
		logger:  logger.Named("tool_registry"),
		exposed: make(map[string]struct{}),
	}
}

// Register exposes a validated catalog.
func (r *toolRegistry) Register(tools []*mcp.Tool) {
	for _, tool := range tools {
		r.server.AddTool(tool, r.handler(tool.Name))
		r.exposed[tool.Name] = struct{}{}
		r.tools = append(r.tools, tool)
		r.logger.Debug("tool exposed", zap.String("tool", tool.Name))
	}
}

func (r *toolRegistry) Has(name string) bool {
	_, ok := r.exposed[name]
	return ok
}

// Tools returns the exposed descriptors in registration order.
func (r *toolRegistry) Tools() []*mcp.Tool {
	return append([]*mcp.Tool(nil), r.tools...)
}

// Names lists exposed tools in registration order.
func (r *toolRegistry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for _, tool := range r.tools {
		names = append(names, tool.Name)
	}
	return names
}
