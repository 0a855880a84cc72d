package routes

import (
	"github.com/danielgtaylor/huma/v2"

	statshandler "github.com/janisto/repo-summary/internal/http/v1/stats"
	statssvc "github.com/janisto/repo-summary/internal/service/stats"
)

// DocsPath serves the interactive API documentation.
const DocsPath = "/api-docs"

// Config returns the Huma configuration shared by every entry point.
func Config(version string) huma.Config {
	cfg := huma.DefaultConfig("Repository Summary API", version)
	cfg.Info.Description = "Aggregates a GitHub user's public repositories into counts, stars, average size and languages."
	cfg.DocsPath = DocsPath
	// Responses keep the exact field set of the summary, without a $schema link.
	cfg.CreateHooks = nil
	return cfg
}

// Register wires all HTTP routes into the provided API router.
func Register(api huma.API, summaries statssvc.Service) {
	advertiseCBOR(api.OpenAPI())
	statshandler.Register(api, summaries)
}

// advertiseCBOR documents application/cbor next to every JSON request and response.
func advertiseCBOR(oapi *huma.OpenAPI) {
	oapi.OnAddOperation = append(oapi.OnAddOperation, func(_ *huma.OpenAPI, op *huma.Operation) {
		if op.RequestBody != nil && op.RequestBody.Content != nil {
			if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
				op.RequestBody.Content["application/cbor"] = jsonContent
			}
		}
		for _, resp := range op.Responses {
			if resp.Content == nil {
				continue
			}
			if jsonContent, ok := resp.Content["application/json"]; ok {
				resp.Content["application/cbor"] = jsonContent
			}
		}
	})
}
