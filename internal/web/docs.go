// Package web serves the API documentation: the embedded OpenAPI document
// plus hosted Swagger UI and ReDoc pages.
package web

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openapiYAML []byte

var (
	openapiOnce sync.Once
	openapiJSON []byte
	openapiErr  error
)

// OpenAPIJSON returns the embedded OpenAPI document converted to JSON.
// The conversion happens once and is cached for subsequent calls.
func OpenAPIJSON() ([]byte, error) {
	openapiOnce.Do(func() {
		var doc map[string]interface{}
		if err := yaml.Unmarshal(openapiYAML, &doc); err != nil {
			openapiErr = fmt.Errorf("parsing openapi document: %w", err)
			return
		}
		openapiJSON, openapiErr = json.Marshal(doc)
	})
	return openapiJSON, openapiErr
}

// RegisterDocsRoutes wires the documentation endpoints onto the router.
func RegisterDocsRoutes(e *echo.Echo) {
	e.GET("/openapi.json", func(c echo.Context) error {
		data, err := OpenAPIJSON()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSONBlob(http.StatusOK, data)
	})

	e.GET("/docs", func(c echo.Context) error {
		return c.HTML(http.StatusOK, swaggerHTML)
	})

	e.GET("/redoc", func(c echo.Context) error {
		return c.HTML(http.StatusOK, redocHTML)
	})
}

const swaggerHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Invoice Agent API - Swagger UI</title>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1"/>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css"/>
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
  window.onload = function() {
    SwaggerUIBundle({
      url: "/openapi.json",
      dom_id: "#swagger-ui",
      presets: [SwaggerUIBundle.presets.apis],
      layout: "BaseLayout",
      deepLinking: true
    });
  };
</script>
</body>
</html>`

const redocHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Invoice Agent API - ReDoc</title>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1"/>
  <style>body { margin: 0; padding: 0; }</style>
</head>
<body>
<redoc spec-url="/openapi.json"></redoc>
<script src="https://cdn.jsdelivr.net/npm/redoc@next/bundles/redoc.standalone.js"></script>
</body>
</html>`
