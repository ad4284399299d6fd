package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/troymork/Unburden-America-sub000/internal/agents"
	"github.com/troymork/Unburden-America-sub000/internal/logging"
	"github.com/troymork/Unburden-America-sub000/internal/orchestrator"
	"github.com/troymork/Unburden-America-sub000/pkg/models"
)

func newTestServer(t *testing.T) (*Server, *echo.Echo) {
	t.Helper()

	executors := make(map[models.Capability]agents.Executor)
	for _, c := range models.AllCapabilities() {
		executors[c] = agents.ExecutorFunc(func(ctx context.Context, inputs map[string]any) (*models.AgentResult, error) {
			return &models.AgentResult{
				AgentID:       "test",
				Status:        models.AgentStatusCompleted,
				PrimaryOutput: map[string]any{"ok": true},
				QualityScores: map[string]float64{"quality": 0.9},
				SourcesUsed: []models.Source{
					{URL: "https://a.example.gov"},
					{URL: "https://b.example.org"},
				},
				CreatedAt: time.Now().UTC(),
			}, nil
		})
	}

	orch, err := orchestrator.New(logging.NewLogger(),
		orchestrator.WithExecutors(executors),
		orchestrator.WithTaskTimeout(5*time.Second),
	)
	require.NoError(t, err)

	server := NewServer(orch)
	e := echo.New()
	server.RegisterRoutes(e.Group("/api/v1"))
	return server, e
}

func postIntent(t *testing.T, e *echo.Echo, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/intents", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouteIntentEndpoint(t *testing.T) {
	server, e := newTestServer(t)

	rec := postIntent(t, e, `{"intent": "write an article about the monetary flow tax", "priority": "high"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var result orchestrator.RouteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.WorkflowID)
	assert.Equal(t, "accepted", result.Status)
	require.NotNil(t, result.DAG)
	assert.Len(t, result.DAG.Nodes, 6)
	assert.NotEmpty(t, result.SuccessMetrics)

	// The accepted workflow is immediately queryable.
	require.NoError(t, server.Orchestrator.Wait(context.Background(), result.WorkflowID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workflows/"+result.WorkflowID, nil)
	statusRec := httptest.NewRecorder()
	e.ServeHTTP(statusRec, req)
	require.Equal(t, http.StatusOK, statusRec.Code)

	var status orchestrator.WorkflowStatus
	require.NoError(t, json.Unmarshal(statusRec.Body.Bytes(), &status))
	assert.Equal(t, result.WorkflowID, status.WorkflowID)
	assert.Equal(t, string(models.StatusCompleted), status.Status)
	assert.Equal(t, 100.0, status.Progress.CompletionPercentage)
}

func TestRouteIntentEndpointRejectsBadRequests(t *testing.T) {
	_, e := newTestServer(t)

	t.Run("malformed body", func(t *testing.T) {
		rec := postIntent(t, e, `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing intent", func(t *testing.T) {
		rec := postIntent(t, e, `{"payload": {"topic": "x"}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unroutable intent", func(t *testing.T) {
		rec := postIntent(t, e, `{"intent": "order a pizza"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("expired deadline", func(t *testing.T) {
		past := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
		rec := postIntent(t, e, `{"intent": "write an article", "deadline": "`+past+`"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestGetWorkflowStatusNotFound(t *testing.T) {
	_, e := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workflows/no-such-id", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetWorkflowDAG(t *testing.T) {
	server, e := newTestServer(t)

	rec := postIntent(t, e, `{"intent": "launch a social media campaign"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var result orchestrator.RouteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NoError(t, server.Orchestrator.Wait(context.Background(), result.WorkflowID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workflows/"+result.WorkflowID+"/dag", nil)
	dagRec := httptest.NewRecorder()
	e.ServeHTTP(dagRec, req)
	require.Equal(t, http.StatusOK, dagRec.Code)

	var dag models.DAG
	require.NoError(t, json.Unmarshal(dagRec.Body.Bytes(), &dag))
	// social_media_campaign is a four step chain
	assert.Len(t, dag.Nodes, 4)
	assert.Len(t, dag.Edges, 3)
	for _, node := range dag.Nodes {
		assert.Equal(t, string(models.StatusCompleted), node.Status)
	}

	t.Run("unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/workflows/nope/dag", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	HandleHealth(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "campaign-orchestrator", health.Service)
}
