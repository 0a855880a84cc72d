// Package router assembles the HTTP handler served by the server binary and the Cloud Function.
package router

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/janisto/repo-summary/internal/http/health"
	"github.com/janisto/repo-summary/internal/http/v1/routes"
	applog "github.com/janisto/repo-summary/internal/platform/logging"
	appmiddleware "github.com/janisto/repo-summary/internal/platform/middleware"
	"github.com/janisto/repo-summary/internal/platform/respond"
	statssvc "github.com/janisto/repo-summary/internal/service/stats"
)

// MaxRequestBody caps request bodies. Every route is a GET, so anything larger is abuse.
const MaxRequestBody = 1 << 20

// New returns the fully wired router.
func New(version string, summaries statssvc.Service) chi.Router {
	respond.Install()

	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		appmiddleware.Security(routes.DocsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP trusts X-Forwarded-For; deploy only behind a trusted proxy such as Cloud Run.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(MaxRequestBody),
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	healthHandler := health.Handler(version)
	router.Get("/health", healthHandler)
	router.Head("/health", healthHandler)

	api := humachi.New(router, routes.Config(version))
	routes.Register(api, summaries)
	return router
}

// Handler is New typed as a plain http.Handler.
func Handler(version string, summaries statssvc.Service) http.Handler {
	return New(version, summaries)
}
