// Package docs serves the OpenAPI description of the catalog API and a
// Swagger UI on top of it.
package docs

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

const (
	SpecPath = "/openapi.yaml"
	UIPath   = "/api/docs/"
)

//go:embed openapi.yaml
var openapiYAML []byte

// Load parses and validates the embedded OpenAPI document.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

// Register mounts the raw document and the Swagger UI on r. The document
// is validated first so a broken file fails at startup.
func Register(ctx context.Context, r chi.Router) error {
	if _, err := Load(ctx); err != nil {
		return err
	}

	r.Get(SpecPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(openapiYAML)
	})

	ui := v5emb.New("Gaia Mare catalog API", SpecPath, UIPath)
	r.Handle(UIPath+"*", ui)

	return nil
}
