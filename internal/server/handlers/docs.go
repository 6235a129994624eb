// Serves the interactive documentation surface: an HTML index, the OpenAPI
// document, and reflected JSON Schemas of the response types.

package handlers

import (
	_ "embed"
	"encoding/json"
	"log/slog"
	"net/http"
	"reflect"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/mavendb/mavend/internal/server/dto"
)

//go:embed docs/docs.html
var docsHTML []byte

//go:embed docs/openapi.yaml
var openAPIYAML []byte

// DocsHandler serves the documentation endpoints. These are raw handlers:
// they return HTML and YAML, not the JSON envelope.
type DocsHandler struct {
	schemaOnce sync.Once
	schemaJSON []byte
	schemaErr  error
}

// NewDocsHandler creates a new docs handler.
func NewDocsHandler() *DocsHandler {
	return &DocsHandler{}
}

// ServeIndex serves the HTML documentation page.
func (h *DocsHandler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(docsHTML)
}

// ServeOpenAPI serves the OpenAPI 3 document.
func (h *DocsHandler) ServeOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(openAPIYAML)
}

// ServeSchema serves JSON Schemas of the response types, reflected from
// the dto structs so the document can never drift from the wire format.
func (h *DocsHandler) ServeSchema(w http.ResponseWriter, r *http.Request) {
	h.schemaOnce.Do(func() {
		h.schemaJSON, h.schemaErr = buildSchemas()
	})
	if h.schemaErr != nil {
		slog.ErrorContext(r.Context(), "Failed to build response schemas", "err", h.schemaErr)
		http.Error(w, "schema generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(h.schemaJSON)
}

// buildSchemas reflects the response types into a name → JSON Schema map.
func buildSchemas() ([]byte, error) {
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	types := map[string]any{
		"Artifact":      dto.Artifact{},
		"LastModified":  dto.LastModifiedResponse{},
		"VersionUpdate": dto.VersionUpdate{},
		"Message":       dto.MessageResponse{},
		"Health":        dto.HealthResponse{},
		"AdminStats":    dto.AdminStatsResponse{},
		"Error":         dto.ErrorResponse{},
	}
	schemas := make(map[string]*jsonschema.Schema, len(types))
	for name, v := range types {
		schemas[name] = r.ReflectFromType(reflect.TypeOf(v))
	}
	return json.MarshalIndent(schemas, "", "  ")
}
