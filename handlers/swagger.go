package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerHTML))
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>ranw-site API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "ranw-site", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } }
  },
  "paths": {
    "/api/articles": { "get": { "summary": "Published articles, localized (?lang=he|en)", "responses": { "200": { "description": "article list" } } } },
    "/api/articles/{slug}": { "get": { "summary": "One published article by slug or id", "responses": { "200": { "description": "article" }, "404": { "description": "not found or draft" } } } },
    "/api/config": { "get": { "summary": "Social links and SEO for the visitor language", "responses": { "200": { "description": "config" } } } },
    "/api/i18n": { "get": { "summary": "UI message catalog", "responses": { "200": { "description": "messages" } } } },
    "/api/leads": {
      "post": {
        "summary": "Contact form submission",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["name","message"],"properties":{"name":{"type":"string"},"email":{"type":"string"},"phone":{"type":"string"},"company":{"type":"string"},"city":{"type":"string"},"serviceTypeKey":{"type":"string"},"serviceTypeOther":{"type":"string"},"message":{"type":"string"}}}}}},
        "responses": { "201": { "description": "lead stored" }, "400": { "description": "validation error" }, "429": { "description": "rate limited" } }
      }
    },
    "/articles/{slug}": { "get": { "summary": "Server-rendered article page", "responses": { "200": { "description": "text/html" }, "404": { "description": "not found page" } } } },
    "/sitemap.xml": { "get": { "summary": "Sitemap", "responses": { "200": { "description": "application/xml" } } } },
    "/robots.txt": { "get": { "summary": "Robots rules", "responses": { "200": { "description": "text/plain" } } } },
    "/auth/login": {
      "post": {
        "summary": "Admin login (password or auth_code)",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"mode":{"type":"string"},"username":{"type":"string"},"password":{"type":"string"},"code":{"type":"string"},"redirect_uri":{"type":"string"}}}}}},
        "responses": { "200": { "description": "tokens returned" }, "401": { "description": "bad credentials" }, "403": { "description": "not an admin" } }
      }
    },
    "/auth/refresh": {
      "post": { "summary": "Refresh access token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Logout and invalidate refresh token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "logged out" } } }
    },
    "/api/v1/me": { "get": { "summary": "Current account", "security": [{"bearer": []}], "responses": { "200": { "description": "user or claims" } } } },
    "/api/admin/leads": { "get": { "summary": "Leads, newest first (?q=, ?status=)", "security": [{"bearer": []}], "responses": { "200": { "description": "leads" } } } },
    "/api/admin/leads/suggestions": { "get": { "summary": "Search suggestions (?q=)", "security": [{"bearer": []}], "responses": { "200": { "description": "up to 6 values" } } } },
    "/api/admin/leads/{id}": {
      "patch": { "summary": "Set status / admin notes", "security": [{"bearer": []}], "responses": { "200": { "description": "updated lead" } } },
      "delete": { "summary": "Delete lead", "security": [{"bearer": []}], "responses": { "204": { "description": "deleted" } } }
    },
    "/api/admin/articles": {
      "get": { "summary": "All articles", "security": [{"bearer": []}], "responses": { "200": { "description": "articles" } } },
      "post": { "summary": "Create article", "security": [{"bearer": []}], "responses": { "201": { "description": "created" }, "409": { "description": "slug taken" } } }
    },
    "/api/admin/articles/{id}": {
      "get": { "summary": "One article", "security": [{"bearer": []}], "responses": { "200": { "description": "article" } } },
      "put": { "summary": "Update article", "security": [{"bearer": []}], "responses": { "200": { "description": "saved" } } },
      "delete": { "summary": "Delete article", "security": [{"bearer": []}], "responses": { "200": { "description": "deleted" } } }
    },
    "/api/admin/articles/{id}/markdown": { "get": { "summary": "Markdown export (?lang=)", "security": [{"bearer": []}], "responses": { "200": { "description": "text/markdown" } } } },
    "/api/admin/config/social": { "get": { "summary": "Social links", "security": [{"bearer": []}], "responses": { "200": { "description": "links" } } }, "put": { "summary": "Save social links", "security": [{"bearer": []}], "responses": { "200": { "description": "saved" } } } },
    "/api/admin/config/seo": { "get": { "summary": "SEO settings", "security": [{"bearer": []}], "responses": { "200": { "description": "seo" } } }, "put": { "summary": "Save SEO settings", "security": [{"bearer": []}], "responses": { "200": { "description": "saved" } } } },
    "/api/admin/prospects": { "get": { "summary": "Prospect list (?q=, ?priority=)", "security": [{"bearer": []}], "responses": { "200": { "description": "prospects" } } } },
    "/api/admin/prospects/import": { "post": { "summary": "CSV/JSON upload; replace=true persists", "security": [{"bearer": []}], "responses": { "200": { "description": "preview or job" }, "400": { "description": "unparseable or empty" } } } },
    "/api/admin/prospects/priority/next": { "get": { "summary": "Next priority filter (?current=)", "security": [{"bearer": []}], "responses": { "200": { "description": "status or null" } } } },
    "/api/admin/prospects/{id}/status": { "patch": { "summary": "Set call status", "security": [{"bearer": []}], "responses": { "200": { "description": "prospect" } } } },
    "/api/admin/prospects/{id}/comments": { "post": { "summary": "Add comment", "security": [{"bearer": []}], "responses": { "201": { "description": "prospect" } } } },
    "/api/admin/prospects/{id}/comments/{index}": {
      "put": { "summary": "Edit comment", "security": [{"bearer": []}], "responses": { "200": { "description": "prospect" } } },
      "delete": { "summary": "Delete comment", "security": [{"bearer": []}], "responses": { "200": { "description": "prospect" } } }
    },
    "/api/admin/prospects/{id}/insurance/{key}": { "patch": { "summary": "Merge insurance need", "security": [{"bearer": []}], "responses": { "200": { "description": "prospect" } } } },
    "/api/admin/imports/{jobId}": { "get": { "summary": "Import job status", "security": [{"bearer": []}], "responses": { "200": { "description": "job" }, "404": { "description": "unknown job" } } } },
    "/api/admin/media": { "post": { "summary": "Upload article image", "security": [{"bearer": []}], "responses": { "201": { "description": "object with presigned url" }, "503": { "description": "storage not configured" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
