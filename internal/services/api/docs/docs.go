// Package docs holds the OpenAPI document for the embedbatch API and registers it with swag
package docs

import "github.com/swaggo/swag/v2"

// paths are relative to the /api/v1 server except /embed, which overrides its server to the root
const docTemplate = `{
  "openapi": "3.0.3",
  "info": {
    "title": "{{.Title}}",
    "version": "{{.Version}}",
    "description": "{{escape .Description}}"
  },
  "paths": {
    "/embed": {
      "post": {
        "tags": ["Batcher"],
        "summary": "Embed inputs, bare array reply",
        "servers": [{"url": "/"}],
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/EmbedRequest"}}}},
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/EmbedResult"}}}}},
          "502": {"description": "Backend transport or parse failure", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}},
          "503": {"description": "Queue closed", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
        }
      }
    },
    "/batcher/embed": {
      "post": {
        "tags": ["Batcher"],
        "summary": "Embed inputs",
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/EmbedRequest"}}}},
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/EmbedResult"}}}}},
          "502": {"description": "Backend transport or parse failure", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}},
          "503": {"description": "Queue closed", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
        }
      }
    },
    "/batcher/stats": {
      "get": {
        "tags": ["Batcher"],
        "summary": "Aggregator counters",
        "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Stats"}}}}}
      }
    },
    "/ledger/recent": {
      "get": {
        "tags": ["Ledger"],
        "summary": "Most recent dispatched batches",
        "parameters": [{"name": "limit", "in": "query", "required": false, "schema": {"type": "integer", "minimum": 0}}],
        "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/LedgerRecord"}}}}}}
      }
    },
    "/meta/health": {
      "get": {"tags": ["Meta"], "summary": "Health check", "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"type": "object"}}}}}}
    },
    "/meta/ready": {
      "get": {"tags": ["Meta"], "summary": "Readiness probe with dependency checks", "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"type": "object"}}}}}}
    },
    "/meta/version": {
      "get": {"tags": ["Meta"], "summary": "Build and version info", "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"type": "object"}}}}}}
    },
    "/meta/service": {
      "get": {"tags": ["Meta"], "summary": "Service info and uptime", "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"type": "object"}}}}}}
    }
  },
  "components": {
    "schemas": {
      "EmbedRequest": {
        "type": "object",
        "required": ["inputs"],
        "properties": {"inputs": {"type": "array", "items": {"type": "string", "maxLength": 1048576}}}
      },
      "EmbedResult": {
        "type": "object",
        "properties": {"embedding": {"type": "array", "items": {"type": "number", "format": "float"}}}
      },
      "Stats": {
        "type": "object",
        "properties": {
          "state": {"type": "string", "example": "collecting"},
          "submitted": {"type": "integer"},
          "batches": {"type": "integer"},
          "delivered": {"type": "integer"},
          "failed": {"type": "integer"},
          "aborted": {"type": "integer"},
          "queue_closed": {"type": "boolean"}
        }
      },
      "LedgerRecord": {
        "type": "object",
        "properties": {
          "batch_id": {"type": "string", "format": "uuid"},
          "size": {"type": "integer"},
          "reason": {"type": "string", "enum": ["size", "timer", "drain"]},
          "window_ms": {"type": "number"},
          "backend_ms": {"type": "number"},
          "outcome": {"type": "string", "enum": ["ok", "failed", "short"]},
          "error": {"type": "string"},
          "dispatched_at": {"type": "string", "format": "date-time"}
        }
      }
    }
  }
}`

// SwaggerInfo holds exported document info so callers can adjust it before serving
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Title:            "embedbatch API",
	Description:      "Coalesces embedding requests into size and time bounded backend batches",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
