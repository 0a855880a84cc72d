package stats

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/repo-summary/internal/platform/respond"
	githubsvc "github.com/janisto/repo-summary/internal/service/github"
	statssvc "github.com/janisto/repo-summary/internal/service/stats"
)

const (
	msgUpstream        = "GitHub API request failed, check username parameter"
	msgUnavailable     = "GitHub API unreachable"
	msgTimeout         = "GitHub API request timed out"
	msgPagination      = "GitHub API pagination failed"
	msgInvalidResponse = "GitHub API returned an invalid response"
)

// SummaryTimeout bounds one summary request, all listing pages included. It stays below the
// server's write timeout so a slow upstream answers with 504 instead of a dropped connection.
const SummaryTimeout = 90 * time.Second

var summaryTimeout = SummaryTimeout

// Register wires the summary routes into the provided API router.
func Register(api huma.API, svc statssvc.Service) {
	errorResponses := []int{http.StatusNotFound, http.StatusForbidden, http.StatusTooManyRequests, http.StatusBadGateway, http.StatusGatewayTimeout}

	huma.Register(api, huma.Operation{
		OperationID: "get-repository-summary",
		Method:      http.MethodGet,
		Path:        "/{username}",
		Summary:     "Summarize a user's repositories",
		Description: "Aggregates every public repository of the user. Repositories that have been forked are left out.",
		Tags:        []string{"Summary"},
		Errors:      errorResponses,
	}, func(ctx context.Context, input *SummaryGetInput) (*SummaryGetOutput, error) {
		return summarize(ctx, svc, input.Username, false)
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-repository-summary-forked",
		Method:      http.MethodGet,
		Path:        "/{username}/{forked}",
		Summary:     "Summarize a user's repositories with fork control",
		Description: "Aggregates every public repository of the user. Repositories that have been forked are included when forked is one of true, forked, t, fork or forks.",
		Tags:        []string{"Summary"},
		Errors:      errorResponses,
	}, func(ctx context.Context, input *ForkedSummaryGetInput) (*SummaryGetOutput, error) {
		return summarize(ctx, svc, input.Username, statssvc.IncludeForks(input.Forked))
	})
}

func summarize(ctx context.Context, svc statssvc.Service, username string, includeForks bool) (*SummaryGetOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, summaryTimeout)
	defer cancel()

	summary, err := svc.Summarize(ctx, username, includeForks)
	if err != nil {
		return nil, mapServiceError(ctx, err, "/"+username)
	}
	return &SummaryGetOutput{Body: toHTTPSummary(summary)}, nil
}

// mapServiceError reports upstream failures with GitHub's own status and every other failure
// as a gateway error.
func mapServiceError(ctx context.Context, err error, path string) error {
	var upstreamErr *githubsvc.UpstreamError
	switch {
	case errors.As(err, &upstreamErr):
		statusErr := respond.Error(ctx, upstreamErr.Status, path, msgUpstream, err)
		headers := make(http.Header)
		if upstreamErr.RetryAfter != "" {
			headers.Set("Retry-After", upstreamErr.RetryAfter)
		}
		if upstreamErr.RateLimitReset != "" {
			headers.Set("X-RateLimit-Reset", upstreamErr.RateLimitReset)
		}
		if len(headers) > 0 {
			return huma.ErrorWithHeaders(statusErr, headers)
		}
		return statusErr
	case isTimeout(err):
		return respond.Error(ctx, http.StatusGatewayTimeout, path, msgTimeout, err)
	case errors.Is(err, githubsvc.ErrPagination):
		return respond.Error(ctx, http.StatusBadGateway, path, msgPagination, err)
	case errors.Is(err, githubsvc.ErrUnavailable):
		return respond.Error(ctx, http.StatusBadGateway, path, msgUnavailable, err)
	default:
		return respond.Error(ctx, http.StatusBadGateway, path, msgInvalidResponse, err)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
