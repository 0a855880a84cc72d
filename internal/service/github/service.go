package github

import (
	"context"
	"errors"
	"fmt"
)

// PageSize is the number of repositories requested per listing page.
const PageSize = 100

// Service errors
var (
	ErrNotFound    = errors.New("github resource not found")
	ErrForbidden   = errors.New("github access forbidden")
	ErrRateLimited = errors.New("github rate limit exceeded")
	ErrUpstream    = errors.New("github upstream error")

	// ErrUnavailable wraps transport failures: DNS, refused connections, timeouts.
	ErrUnavailable = errors.New("github api unreachable")
	// ErrPagination reports a Link header chain that cannot be followed safely.
	ErrPagination = errors.New("github pagination aborted")
)

// UpstreamErrorKind classifies GitHub upstream failures.
type UpstreamErrorKind string

const (
	UpstreamErrorKindNotFound    UpstreamErrorKind = "not_found"
	UpstreamErrorKindForbidden   UpstreamErrorKind = "forbidden"
	UpstreamErrorKindRateLimited UpstreamErrorKind = "rate_limited"
	UpstreamErrorKindUpstream    UpstreamErrorKind = "upstream"
)

// UpstreamError is a non-2xx answer from GitHub. Status is the status of the failing page.
type UpstreamError struct {
	Kind           UpstreamErrorKind
	Status         int
	RetryAfter     string
	RateLimitReset string
	cause          error
}

// NewUpstreamError builds an UpstreamError whose cause is the sentinel matching kind.
func NewUpstreamError(kind UpstreamErrorKind, status int) *UpstreamError {
	return &UpstreamError{Kind: kind, Status: status, cause: sentinelFor(kind)}
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return "github upstream error"
	}
	if e.cause == nil {
		return fmt.Sprintf("github upstream error (kind=%s status=%d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("github upstream error (kind=%s status=%d): %v", e.Kind, e.Status, e.cause)
}

// Unwrap enables errors.Is/As against sentinel service errors.
func (e *UpstreamError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func sentinelFor(kind UpstreamErrorKind) error {
	switch kind {
	case UpstreamErrorKindNotFound:
		return ErrNotFound
	case UpstreamErrorKindForbidden:
		return ErrForbidden
	case UpstreamErrorKindRateLimited:
		return ErrRateLimited
	default:
		return ErrUpstream
	}
}

// Repo is one entry of a user's repository listing. Language is empty when GitHub reports null.
type Repo struct {
	Name     string
	FullName string
	Fork     bool
	Forks    int
	Stars    int
	Size     int
	Language string
}

// Service lists repositories from GitHub.
type Service interface {
	// ListRepos returns every repository of owner across all listing pages.
	ListRepos(ctx context.Context, owner string) ([]Repo, error)
}
