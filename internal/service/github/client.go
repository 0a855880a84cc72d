package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	applog "github.com/janisto/repo-summary/internal/platform/logging"
	"github.com/janisto/repo-summary/internal/platform/pagination"
)

const (
	DefaultBaseURL  = "https://api.github.com"
	DefaultMaxPages = 100

	defaultUserAgent = "repo-summary"
	apiVersion       = "2022-11-28"
	acceptHeader     = "application/vnd.github+json"
)

// Client implements Service using the GitHub REST API.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	maxPages   int
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (useful for testing). Invalid URLs are ignored.
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		u, err := url.Parse(strings.TrimRight(raw, "/"))
		if err != nil || u.Host == "" {
			return
		}
		c.baseURL = u
	}
}

// WithMaxPages bounds how many listing pages a single ListRepos call may fetch.
func WithMaxPages(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithUserAgent overrides the User-Agent sent to GitHub.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a new GitHub API client.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	base, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		httpClient: httpClient,
		baseURL:    base,
		maxPages:   DefaultMaxPages,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewHTTPClient returns the outbound client used for GitHub calls. A non-empty token is sent
// as a Bearer credential through an oauth2 transport.
func NewHTTPClient(ctx context.Context, token string, timeout time.Duration) *http.Client {
	if token == "" {
		return &http.Client{Timeout: timeout}
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	client.Timeout = timeout
	return client
}

type githubRepo struct {
	Name     string  `json:"name"`
	FullName string  `json:"full_name"`
	Fork     bool    `json:"fork"`
	Forks    int     `json:"forks_count"`
	Stars    int     `json:"stargazers_count"`
	Size     int     `json:"size"`
	Language *string `json:"language"`
}

func (r githubRepo) toRepo() Repo {
	lang := ""
	if r.Language != nil {
		lang = *r.Language
	}
	return Repo{
		Name:     r.Name,
		FullName: r.FullName,
		Fork:     r.Fork,
		Forks:    r.Forks,
		Stars:    r.Stars,
		Size:     r.Size,
		Language: lang,
	}
}

// ListRepos follows the Link header from the first listing page until no next page remains.
// Pages are fetched one after another; any failing page fails the whole listing.
func (c *Client) ListRepos(ctx context.Context, owner string) ([]Repo, error) {
	if owner == "" || owner == "." || owner == ".." {
		return nil, NewUpstreamError(UpstreamErrorKindNotFound, http.StatusNotFound)
	}
	first, err := url.Parse(strings.TrimRight(c.baseURL.String(), "/") + "/users/" + url.PathEscape(owner) + "/repos")
	if err != nil {
		return nil, fmt.Errorf("build repos url for %s: %w", owner, err)
	}
	first.RawQuery = url.Values{"per_page": {strconv.Itoa(PageSize)}}.Encode()

	repos := []Repo{}
	seen := make(map[string]struct{})
	next := first.String()
	for page := 1; next != ""; page++ {
		if page > c.maxPages {
			return nil, fmt.Errorf("%w: more than %d pages for %s", ErrPagination, c.maxPages, owner)
		}
		if _, dup := seen[next]; dup {
			return nil, fmt.Errorf("%w: next link %s repeats", ErrPagination, next)
		}
		seen[next] = struct{}{}

		batch, link, err := c.fetchPage(ctx, next)
		if err != nil {
			return nil, fmt.Errorf("fetching repos page %d: %w", page, err)
		}
		repos = append(repos, batch...)
		applog.LogDebug(ctx, "github repos page fetched",
			zap.String("owner", owner),
			zap.Int("page", page),
			zap.Int("count", len(batch)),
		)

		if next, err = c.resolveNext(next, link); err != nil {
			return nil, err
		}
	}
	return repos, nil
}

func (c *Client) fetchPage(ctx context.Context, pageURL string) ([]Repo, string, error) {
	resp, err := c.doRequest(ctx, pageURL)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	var gh []githubRepo
	if err := c.decodeResponse(ctx, resp, &gh); err != nil {
		return nil, "", err
	}
	repos := make([]Repo, len(gh))
	for i, r := range gh {
		repos[i] = r.toRepo()
	}
	return repos, resp.Header.Get("Link"), nil
}

func (c *Client) doRequest(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return resp, nil
}

func (c *Client) decodeResponse(ctx context.Context, resp *http.Response, target any) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("decoding github response: %w", err)
		}
		return nil
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return upstreamErrorFromResponse(resp, UpstreamErrorKindNotFound)
	case isGitHubRateLimitResponse(resp):
		logRateLimited(ctx, resp)
		return upstreamErrorFromResponse(resp, UpstreamErrorKindRateLimited)
	case resp.StatusCode == http.StatusForbidden:
		applog.LogWarn(ctx, "github api access denied",
			zap.Int("status", resp.StatusCode),
			zap.String("X-RateLimit-Remaining", strings.TrimSpace(resp.Header.Get("X-RateLimit-Remaining"))),
			zap.String("X-RateLimit-Reset", strings.TrimSpace(resp.Header.Get("X-RateLimit-Reset"))),
		)
		return upstreamErrorFromResponse(resp, UpstreamErrorKindForbidden)
	default:
		return upstreamErrorFromResponse(resp, UpstreamErrorKindUpstream)
	}
}

// resolveNext turns the next link of link (relative to current) into an absolute URL on the
// configured API origin. An empty result ends pagination.
func (c *Client) resolveNext(current, link string) (string, error) {
	raw := pagination.NextURL(link)
	if raw == "" {
		return "", nil
	}
	base, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("%w: parsing current page url: %w", ErrPagination, err)
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: parsing next link %q: %w", ErrPagination, raw, err)
	}
	next := base.ResolveReference(ref)
	if !strings.EqualFold(next.Scheme, c.baseURL.Scheme) || !strings.EqualFold(next.Host, c.baseURL.Host) {
		return "", fmt.Errorf("%w: next link %s leaves %s", ErrPagination, next.Redacted(), c.baseURL.Host)
	}
	return next.String(), nil
}

func upstreamErrorFromResponse(resp *http.Response, kind UpstreamErrorKind) *UpstreamError {
	e := NewUpstreamError(kind, resp.StatusCode)
	e.RetryAfter = strings.TrimSpace(resp.Header.Get("Retry-After"))
	e.RateLimitReset = strings.TrimSpace(resp.Header.Get("X-RateLimit-Reset"))
	return e
}

func isGitHubRateLimitResponse(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if resp.StatusCode != http.StatusForbidden {
		return false
	}
	if strings.TrimSpace(resp.Header.Get("X-RateLimit-Remaining")) == "0" {
		return true
	}
	return strings.TrimSpace(resp.Header.Get("Retry-After")) != ""
}

func logRateLimited(ctx context.Context, resp *http.Response) {
	fields := []zap.Field{
		zap.Int("status", resp.StatusCode),
		zap.String("X-RateLimit-Remaining", resp.Header.Get("X-RateLimit-Remaining")),
		zap.String("X-RateLimit-Reset", resp.Header.Get("X-RateLimit-Reset")),
	}
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		fields = append(fields, zap.String("Retry-After", retryAfter))
	}
	applog.LogWarn(ctx, "github api rate limit exceeded", fields...)
}

// Compile-time interface check
var _ Service = (*Client)(nil)
