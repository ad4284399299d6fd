package api

import (
	"net/http"
)

// SpecHandler serves the OpenAPI YAML spec for the orchestration API. The
// spec is embedded so the binary stays self-contained.
func SpecHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write([]byte(openAPISpec))
	}
}

// SwaggerHandler returns an HTTP handler that serves the Swagger UI. The
// page uses the official CDN-hosted assets so we don't need to check any
// static files into version control.
func SwaggerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	}
}

const swaggerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>Swagger UI</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
  <script>
  window.onload = function() {
    window.ui = SwaggerUIBundle({
      url: "/openapi.yaml",
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: "BaseLayout"
    });
  }
  </script>
</body>
</html>`

const openAPISpec = `openapi: 3.0.3
info:
  title: Campaign Orchestration API
  description: Routes free-text intents into agent workflows and reports their progress.
  version: 1.0.0
paths:
  /api/v1/intents:
    post:
      summary: Route an intent into a workflow
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required: [intent]
              properties:
                intent:
                  type: string
                payload:
                  type: object
                  additionalProperties: true
                priority:
                  type: string
                  enum: [low, medium, high, critical]
                deadline:
                  type: string
                  format: date-time
      responses:
        "202":
          description: Workflow accepted; execution proceeds in the background.
        "400":
          description: Malformed request body.
        "422":
          description: Unroutable intent or workflow failed validation.
  /api/v1/workflows/{id}:
    get:
      summary: Poll workflow status
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: Status document with progress, per-task detail and audit trail.
        "404":
          description: Unknown workflow id.
  /api/v1/workflows/{id}/dag:
    get:
      summary: Diagnostic DAG representation
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: Node and edge lists regenerated from current task state.
        "404":
          description: Unknown workflow id.
  /healthz:
    get:
      summary: Service health
      responses:
        "200":
          description: Always ok while the process is serving.
`
