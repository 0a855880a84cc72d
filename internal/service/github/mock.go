package github

import (
	"context"
	"net/http"
	"slices"
	"sync"
)

// MockGitHubService implements Service for unit tests. It starts with octocat demo data;
// unknown owners answer like GitHub does with a 404.
type MockGitHubService struct {
	mu    sync.Mutex
	repos map[string][]Repo
	errs  map[string]error
	calls map[string]int
}

// NewMockGitHubService creates a mock pre-populated with octocat demo data.
func NewMockGitHubService() *MockGitHubService {
	return &MockGitHubService{
		repos: map[string][]Repo{
			"octocat": {
				{Name: "Hello-World", FullName: "octocat/Hello-World", Forks: 2, Stars: 5, Size: 108, Language: "Go"},
				{Name: "Spoon-Knife", FullName: "octocat/Spoon-Knife", Forks: 0, Stars: 12, Size: 2000, Language: "HTML"},
				{Name: "linguist", FullName: "octocat/linguist", Fork: true, Forks: 0, Stars: 3, Size: 892, Language: "Go"},
				{Name: "octocat.github.io", FullName: "octocat/octocat.github.io", Forks: 0, Stars: 1, Size: 0},
			},
		},
		errs:  map[string]error{},
		calls: map[string]int{},
	}
}

// SetRepos replaces the listing returned for owner.
func (m *MockGitHubService) SetRepos(owner string, repos []Repo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.repos[owner] = slices.Clone(repos)
}

// SetError makes ListRepos fail for owner with err.
func (m *MockGitHubService) SetError(owner string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[owner] = err
}

// Calls reports how many times ListRepos was called for owner.
func (m *MockGitHubService) Calls(owner string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[owner]
}

func (m *MockGitHubService) ListRepos(ctx context.Context, owner string) ([]Repo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[owner]++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.errs[owner]; ok {
		return nil, err
	}
	repos, ok := m.repos[owner]
	if !ok {
		return nil, NewUpstreamError(UpstreamErrorKindNotFound, http.StatusNotFound)
	}
	return slices.Clone(repos), nil
}

// Compile-time interface check
var _ Service = (*MockGitHubService)(nil)
