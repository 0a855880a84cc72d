// Package summary exposes the repository summary API as an HTTP Cloud Function.
package summary

import (
	"context"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/janisto/repo-summary/internal/http/router"
	"github.com/janisto/repo-summary/internal/platform/config"
	applog "github.com/janisto/repo-summary/internal/platform/logging"
	"github.com/janisto/repo-summary/internal/platform/respond"
	githubsvc "github.com/janisto/repo-summary/internal/service/github"
	statssvc "github.com/janisto/repo-summary/internal/service/stats"
)

// Version is reported by /health.
var Version = "function"

var (
	handlerOnce sync.Once
	handler     http.Handler
	handlerErr  error
)

func init() {
	functions.HTTP("RepoSummary", RepoSummary)
}

// RepoSummary serves the same routes as the server binary. Configuration is read on the first
// request so a cold start with a bad environment still answers with an error body.
func RepoSummary(w http.ResponseWriter, r *http.Request) {
	handlerOnce.Do(func() {
		handler, handlerErr = newHandler()
	})
	if handlerErr != nil {
		respond.WriteError(w, r, http.StatusInternalServerError, "function misconfigured", handlerErr)
		return
	}
	handler.ServeHTTP(w, r)
}

func newHandler() (http.Handler, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := applog.SetLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return newRouter(cfg), nil
}

func newRouter(cfg config.Config) http.Handler {
	httpClient := githubsvc.NewHTTPClient(context.Background(), cfg.GitHubToken, cfg.GitHubTimeout)
	client := githubsvc.NewClient(httpClient,
		githubsvc.WithBaseURL(cfg.GitHubBaseURL),
		githubsvc.WithMaxPages(cfg.MaxPages),
		githubsvc.WithUserAgent("repo-summary-function/"+Version),
	)
	return router.New(Version, statssvc.NewAggregator(client))
}
