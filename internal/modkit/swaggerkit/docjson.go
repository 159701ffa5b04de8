package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strconv"

	"embedbatch/internal/platform/config"
	perr "embedbatch/internal/platform/errors"

	docs "embedbatch/internal/services/api/docs"
)

// SpecMutator adjusts the parsed document before it is served
type SpecMutator func(map[string]any)

// DropPath removes a path the running configuration does not mount
func DropPath(path string) SpecMutator {
	return func(doc map[string]any) {
		if paths, ok := doc["paths"].(map[string]any); ok {
			delete(paths, path)
		}
	}
}

// docReader is a seam so tests can inject invalid JSON
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

const sampleRequestID = "579f33bf50b1/abc-000001"

func serveDocJSON(muts []SpecMutator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var doc map[string]any
		if err := json.Unmarshal([]byte(docReader()), &doc); err != nil {
			http.Error(w, "doc parse error", http.StatusInternalServerError)
			return
		}

		ensureServers(doc, "/api/v1")
		if v := config.New().Prefix("CORE_API_").MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
			if info, ok := doc["info"].(map[string]any); ok {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + v
				}
			}
		}
		ensureErrorResponse(doc)
		addDefaultResponse(doc, http.StatusBadRequest, perr.ErrorCodeValidation, "inputs is required")
		addDefaultResponse(doc, http.StatusInternalServerError, perr.ErrorCodePanic, "panic recovered")

		for _, m := range muts {
			if m != nil {
				m(doc)
			}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(doc)
	}
}

// ensureServers pins the document to OAS 3.0.3, which the bundled UI renders, and sets a default server
func ensureServers(doc map[string]any, url string) {
	doc["openapi"] = "3.0.3"
	if _, ok := doc["servers"]; !ok {
		doc["servers"] = []any{map[string]any{"url": url}}
	}
}

// ensureErrorResponse adds the error envelope schema if missing
func ensureErrorResponse(doc map[string]any) {
	comps, _ := doc["components"].(map[string]any)
	if comps == nil {
		comps = map[string]any{}
		doc["components"] = comps
	}
	schemas, _ := comps["schemas"].(map[string]any)
	if schemas == nil {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Standard error envelope",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

// addDefaultResponse gives every operation a status response in the envelope shape unless it declares one
func addDefaultResponse(doc map[string]any, status int, code perr.ErrorCode, msg string) {
	paths, ok := doc["paths"].(map[string]any)
	if !ok {
		return
	}
	key := strconv.Itoa(status)
	resp := map[string]any{
		"description": http.StatusText(status),
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": status,
					"status":      http.StatusText(status),
					"code":        code,
					"error":       msg,
					"request_id":  sampleRequestID,
				},
			},
		},
	}
	for _, p := range paths {
		node, _ := p.(map[string]any)
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			resps, _ := op["responses"].(map[string]any)
			if resps == nil {
				resps = map[string]any{}
				op["responses"] = resps
			}
			if _, exists := resps[key]; !exists {
				resps[key] = resp
			}
		}
	}
}
