// Package api contains the HTTP handlers for the orchestration service
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/troymork/Unburden-America-sub000/internal/orchestrator"
	"github.com/troymork/Unburden-America-sub000/pkg/models"
)

// Server holds the dependencies for the API server.
type Server struct {
	Orchestrator *orchestrator.Orchestrator
}

// NewServer creates a new Server.
func NewServer(orch *orchestrator.Orchestrator) *Server {
	return &Server{Orchestrator: orch}
}

// RegisterRoutes mounts the orchestration API on an echo group.
func (s *Server) RegisterRoutes(g *echo.Group) {
	g.POST("/intents", s.RouteIntent)
	g.GET("/workflows/:id", s.GetWorkflowStatus)
	g.GET("/workflows/:id/dag", s.GetWorkflowDAG)
}

// IntentRequest is the submission body for a new intent.
type IntentRequest struct {
	Intent   string         `json:"intent"`
	Payload  map[string]any `json:"payload"`
	Priority string         `json:"priority"`
	Deadline *time.Time     `json:"deadline,omitempty"`
}

// RouteIntent accepts a free-text intent and starts a workflow
// (POST /api/v1/intents)
func (s *Server) RouteIntent(c echo.Context) error {
	ctx := c.Request().Context()

	var req IntentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if req.Intent == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required field: intent")
	}

	result, err := s.Orchestrator.RouteIntent(ctx, req.Intent, req.Payload, models.ParsePriority(req.Priority), req.Deadline)
	if err != nil {
		switch {
		case errors.Is(err, orchestrator.ErrUnroutableIntent),
			errors.Is(err, orchestrator.ErrCyclicDependency),
			errors.Is(err, orchestrator.ErrUnknownCapability),
			errors.Is(err, orchestrator.ErrExpiredDeadline):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusAccepted, result)
}

// GetWorkflowStatus returns the polling status document for a workflow
// (GET /api/v1/workflows/:id)
func (s *Server) GetWorkflowStatus(c echo.Context) error {
	ctx := c.Request().Context()

	status, err := s.Orchestrator.WorkflowStatus(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, orchestrator.ErrWorkflowNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, status)
}

// GetWorkflowDAG returns the diagnostic DAG representation of a workflow
// (GET /api/v1/workflows/:id/dag)
func (s *Server) GetWorkflowDAG(c echo.Context) error {
	ctx := c.Request().Context()

	dag, err := s.Orchestrator.WorkflowDAG(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, orchestrator.ErrWorkflowNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dag)
}
