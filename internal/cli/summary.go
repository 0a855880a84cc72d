package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	applog "github.com/janisto/repo-summary/internal/platform/logging"
	githubsvc "github.com/janisto/repo-summary/internal/service/github"
	statssvc "github.com/janisto/repo-summary/internal/service/stats"
)

const defaultConcurrency = 4

// Result is one line item of the summary command output.
type Result struct {
	Username string            `json:"username"`
	Summary  *statssvc.Summary `json:"summary,omitempty"`
	Error    *ResultError      `json:"error,omitempty"`
}

// ResultError describes why a user could not be summarized. Status is GitHub's status code
// when GitHub answered.
type ResultError struct {
	Status  int    `json:"status,omitempty"`
	Message string `json:"message"`
}

func (a *App) newSummaryCommand() *cobra.Command {
	var (
		forked      string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "summary <username>...",
		Short: "Print repository summaries as JSON",
		Long: "Fetches every public repository of each user and prints a JSON array of summaries. " +
			"Repositories that have been forked are counted only when --forked is one of true, forked, t, fork or forks.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if concurrency < 1 {
				return fmt.Errorf("--concurrency must be at least 1, got %d", concurrency)
			}
			return a.runSummary(cmd, args, statssvc.IncludeForks(forked), concurrency)
		},
	}
	cmd.Flags().StringVar(&forked, "forked", "", "Fork inclusion token (true, forked, t, fork, forks)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", defaultConcurrency, "Users summarized in parallel")
	return cmd
}

func (a *App) runSummary(cmd *cobra.Command, usernames []string, includeForks bool, concurrency int) error {
	a.ensureService()
	ctx := commandContext(cmd)

	results := make([]Result, len(usernames))
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, username := range usernames {
		g.Go(func() error {
			results[i] = Result{Username: username}
			summary, err := a.Summaries.Summarize(ctx, username, includeForks)
			if err != nil {
				applog.LogWarn(ctx, "summary failed", zap.String("username", username), zap.Error(err))
				results[i].Error = toResultError(err)
				return nil
			}
			results[i].Summary = summary
			return nil
		})
	}
	_ = g.Wait()

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d summaries failed", failed, len(results))
	}
	return nil
}

func toResultError(err error) *ResultError {
	var upstreamErr *githubsvc.UpstreamError
	if errors.As(err, &upstreamErr) {
		return &ResultError{Status: upstreamErr.Status, Message: err.Error()}
	}
	return &ResultError{Message: err.Error()}
}
