package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/troymork/Unburden-America-sub000/internal/orchestrator"
	"github.com/troymork/Unburden-America-sub000/pkg/models"
)

// Server exposes the orchestrator as MCP tools so agent clients can route
// intents and poll workflows over the protocol.
type Server struct {
	mcpServer *server.MCPServer
	orch      *orchestrator.Orchestrator
}

// NewServer creates the MCP tool surface over an orchestrator.
func NewServer(orch *orchestrator.Orchestrator) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"Campaign Orchestrator",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		orch: orch,
	}

	s.registerTools()
	return s
}

// GetMCPServer returns the underlying MCP server for mounting.
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"route_intent",
			mcp.WithDescription("Route a free-text intent into a campaign workflow"),
			mcp.WithString("intent", mcp.Required(), mcp.Description("What the caller wants done")),
			mcp.WithString("priority", mcp.Description("Workflow priority: low, medium, high or critical")),
		),
		s.handleRouteIntent,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_workflow_status",
			mcp.WithDescription("Get the current status of a workflow"),
			mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The ID of the workflow")),
		),
		s.handleGetWorkflowStatus,
	)
}

func (s *Server) handleRouteIntent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	intent, ok := args["intent"].(string)
	if !ok || intent == "" {
		return mcp.NewToolResultError("Missing required parameter: intent"), nil
	}

	priority := models.PriorityMedium
	if p, ok := args["priority"].(string); ok {
		priority = models.ParsePriority(p)
	}

	var payload map[string]any
	if p, ok := args["payload"].(map[string]any); ok {
		payload = p
	}

	result, err := s.orch.RouteIntent(ctx, intent, payload, priority, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to route intent: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(result)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGetWorkflowStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	workflowID, ok := args["workflow_id"].(string)
	if !ok || workflowID == "" {
		return mcp.NewToolResultError("Missing required parameter: workflow_id"), nil
	}

	status, err := s.orch.WorkflowStatus(ctx, workflowID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get workflow status: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(status)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// MountHTTPHandlers wires the MCP SSE endpoints onto a mux.
func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	// Use SSE server for /mcp/sse and /mcp/message endpoints
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		// Direct POST for tool calls
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// SSE endpoints
	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
