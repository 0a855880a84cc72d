package summary

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/janisto/repo-summary/internal/platform/config"
)

func TestNewRouterServesSummary(t *testing.T) {
	github := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/alice/repos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"a","forks_count":1,"stargazers_count":4,"size":10,"language":"Go"}]`))
	}))
	defer github.Close()

	h := newRouter(config.Config{
		GitHubBaseURL: github.URL,
		GitHubTimeout: time.Second,
		MaxPages:      5,
	})

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/alice/true", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	want := `{"repository_count":1,"forks_count":1,"stargazer_count":4,"average_repository_size":"10.00 KB","languages":{"Go":1}}`
	if got := strings.TrimSpace(resp.Body.String()); got != want {
		t.Fatalf("unexpected body: %s", got)
	}
}

func TestRepoSummaryReportsConfigErrors(t *testing.T) {
	t.Setenv("GITHUB_MAX_PAGES", "0")

	resp := httptest.NewRecorder()
	RepoSummary(resp, httptest.NewRequest(http.MethodGet, "/alice", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var body struct {
		Code    int    `json:"code"`
		Path    string `json:"path"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.Code != http.StatusInternalServerError || body.Path != "/alice" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
