package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"appship/internal/domain"
	"appship/internal/infra/catalog"
	"appship/internal/infra/router"
)

const serverName = "appship"

// Gateway exposes the tool catalog over MCP and forwards every call to the
// dispatcher.
type Gateway struct {
	dispatcher router.Dispatcher
	logger     *zap.Logger
	server     *mcp.Server
	registry   *toolRegistry
}

func NewGateway(dispatcher router.Dispatcher, tools []*mcp.Tool, version string, logger *zap.Logger) (*Gateway, error) {
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if err := catalog.Validate(tools); err != nil {
		return nil, fmt.Errorf("invalid tool catalog: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if version == "" {
		version = "dev"
	}

	g := &Gateway{
		dispatcher: dispatcher,
		logger:     logger.Named("gateway"),
	}
	g.server = mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version,
	}, &mcp.ServerOptions{
		HasTools: true,
	})
	g.registry = newToolRegistry(g.server, g.toolHandler, g.logger)
	g.registry.Register(tools)
	g.server.AddReceivingMiddleware(g.catalogMiddleware())
	return g, nil
}

// Server returns the underlying MCP server.
func (g *Gateway) Server() *mcp.Server {
	return g.server
}

// Run serves the catalog over stdio until ctx is done or the client disconnects.
func (g *Gateway) Run(ctx context.Context) error {
	return g.RunTransport(ctx, &mcp.StdioTransport{})
}

func (g *Gateway) RunTransport(ctx context.Context, transport mcp.Transport) error {
	g.logger.Info("gateway starting", zap.Strings("tools", g.registry.Names()))
	err := g.server.Run(ctx, transport)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (g *Gateway) toolHandler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args json.RawMessage
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}
		return toolResult(g.dispatcher.Handle(ctx, name, args)), nil
	}
}

// catalogMiddleware lists tools in catalog order and answers calls for tools
// outside the catalog in-band, so the client sees an error result instead of
// a protocol fault.
func (g *Gateway) catalogMiddleware() mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			switch method {
			case "tools/list":
				return &mcp.ListToolsResult{Tools: g.registry.Tools()}, nil
			case "tools/call":
				call, ok := req.(*mcp.CallToolRequest)
				if !ok || call.Params == nil || g.registry.Has(call.Params.Name) {
					return next(ctx, method, req)
				}
				g.logger.Debug("call for unknown tool", zap.String("tool", call.Params.Name))
				return toolResult(g.dispatcher.Handle(ctx, call.Params.Name, call.Params.Arguments)), nil
			default:
				return next(ctx, method, req)
			}
		}
	}
}

func toolResult(outcome domain.Outcome) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: outcome.Text}},
		IsError: outcome.IsError(),
	}
}
