// Package stats turns a user's GitHub repository listing into a summary.
package stats

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	applog "github.com/janisto/repo-summary/internal/platform/logging"
	"github.com/janisto/repo-summary/internal/service/github"
)

// Service produces repository summaries.
type Service interface {
	Summarize(ctx context.Context, username string, includeForks bool) (*Summary, error)
}

// Aggregator fetches every listing page for a user and reduces it. It keeps no state between
// calls.
type Aggregator struct {
	repos github.Service
}

// NewAggregator creates an Aggregator reading repositories from repos.
func NewAggregator(repos github.Service) *Aggregator {
	return &Aggregator{repos: repos}
}

// Summarize fetches all repositories of username and summarizes them.
func (a *Aggregator) Summarize(ctx context.Context, username string, includeForks bool) (*Summary, error) {
	start := time.Now()
	repos, err := a.repos.ListRepos(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("listing repositories of %s: %w", username, err)
	}

	summary := Reduce(repos, includeForks)
	applog.LogInfo(ctx, "repository summary computed",
		zap.String("username", username),
		zap.Bool("includeForks", includeForks),
		zap.Int("fetched", len(repos)),
		zap.Int("counted", summary.RepositoryCount),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &summary, nil
}

// Compile-time interface check
var _ Service = (*Aggregator)(nil)
