package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/gitgazer/internal/model"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// newProfileServer はalice用の固定レスポンスを返すテストサーバーを生成する。
func newProfileServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/users/alice", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"login":        "alice",
			"public_repos": 2,
			"followers":    10,
			"following":    5,
			"created_at":   "2020-01-15T08:00:00Z",
			"updated_at":   "2025-06-10T08:00:00Z",
		})
	})

	mux.HandleFunc("/users/alice/repos", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("per_page") != "100" {
			t.Errorf("per_page = %q, want %q", r.URL.Query().Get("per_page"), "100")
		}
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"name": "a", "stargazers_count": 5, "forks_count": 1},
			{"name": "b", "stargazers_count": 10, "forks_count": 2},
		})
	})

	mux.HandleFunc("/repos/alice/a/languages", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int{"Go": 100})
	})
	mux.HandleFunc("/repos/alice/b/languages", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int{"Go": 50, "Rust": 200})
	})

	mux.HandleFunc("/users/alice/events/public", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"created_at": "2025-06-09T10:00:00Z"},
			{"created_at": "2025-06-08T10:00:00Z"},
		})
	})

	return httptest.NewServer(mux)
}

func TestClient_FetchProfile_Success(t *testing.T) {
	server := newProfileServer(t)
	defer server.Close()

	var buf bytes.Buffer
	c := NewClient(server.Client(), newTestLogger(&buf), "")
	c.SetBaseURL(server.URL)

	info, repos, events, err := c.FetchProfile(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchProfile がエラーを返した: %v", err)
	}

	if info.Username != "alice" {
		t.Errorf("Username = %q, want %q", info.Username, "alice")
	}
	if info.RepoCount != 2 {
		t.Errorf("RepoCount = %d, want 2", info.RepoCount)
	}
	if info.Followers != 10 || info.Following != 5 {
		t.Errorf("Followers/Following = %d/%d, want 10/5", info.Followers, info.Following)
	}
	if !info.CreatedAt.Equal(time.Date(2020, 1, 15, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("CreatedAt = %v, want 2020-01-15T08:00:00Z", info.CreatedAt)
	}

	if len(repos) != 2 {
		t.Fatalf("len(repos) = %d, want 2", len(repos))
	}
	if repos[0].Name != "a" || repos[0].StarCount != 5 || repos[0].ForkCount != 1 {
		t.Errorf("repos[0] = %+v, want name=a stars=5 forks=1", repos[0])
	}
	if repos[1].LanguageBytes["Rust"] != 200 {
		t.Errorf("repos[1].LanguageBytes[Rust] = %d, want 200", repos[1].LanguageBytes["Rust"])
	}

	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if !events[0].Timestamp.Equal(time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("events[0].Timestamp = %v, want 2025-06-09T10:00:00Z", events[0].Timestamp)
	}
}

func TestClient_FetchProfile_SetsHeaders(t *testing.T) {
	var gotAuth, gotAccept, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		http.NotFound(w, r)
	}))
	defer server.Close()

	var buf bytes.Buffer
	c := NewClient(server.Client(), newTestLogger(&buf), "test-token")
	c.SetBaseURL(server.URL)

	c.FetchProfile(context.Background(), "alice")

	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer test-token")
	}
	if gotAccept != "application/vnd.github+json" {
		t.Errorf("Accept = %q, want %q", gotAccept, "application/vnd.github+json")
	}
	if gotUA != userAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, userAgent)
	}
}

func TestClient_FetchProfile_NoTokenOmitsAuthorization(t *testing.T) {
	headerSet := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			headerSet = true
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	var buf bytes.Buffer
	c := NewClient(server.Client(), newTestLogger(&buf), "")
	c.SetBaseURL(server.URL)

	c.FetchProfile(context.Background(), "alice")

	if headerSet {
		t.Error("Authorization ヘッダーはトークン未設定時には付与してはならない")
	}
}

func TestClient_FetchProfile_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	var buf bytes.Buffer
	c := NewClient(server.Client(), newTestLogger(&buf), "")
	c.SetBaseURL(server.URL)

	_, _, _, err := c.FetchProfile(context.Background(), "nobody")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeProfileNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeProfileNotFound)
	}
}

func TestClient_FetchProfile_RateLimited(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests} {
		t.Run(fmt.Sprintf("status_%d", status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer server.Close()

			var buf bytes.Buffer
			c := NewClient(server.Client(), newTestLogger(&buf), "")
			c.SetBaseURL(server.URL)

			_, _, _, err := c.FetchProfile(context.Background(), "alice")

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *model.APIError, got %T", err)
			}
			if apiErr.Code != model.ErrCodeRateLimited {
				t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeRateLimited)
			}
		})
	}
}

func TestClient_FetchProfile_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	var buf bytes.Buffer
	c := NewClient(server.Client(), newTestLogger(&buf), "")
	c.SetBaseURL(server.URL)

	_, _, _, err := c.FetchProfile(context.Background(), "alice")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeUpstreamError {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeUpstreamError)
	}
}

func TestClient_FetchRepos_FollowsPagination(t *testing.T) {
	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/users/alice", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"login": "alice", "public_repos": 2})
	})
	mux.HandleFunc("/users/alice/repos", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{"name": "second", "stargazers_count": 2},
			})
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/users/alice/repos?per_page=100&page=2>; rel="next"`, server.URL))
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"name": "first", "stargazers_count": 1},
		})
	})
	mux.HandleFunc("/repos/alice/first/languages", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int{})
	})
	mux.HandleFunc("/repos/alice/second/languages", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int{})
	})
	mux.HandleFunc("/users/alice/events/public", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{})
	})

	server = httptest.NewServer(mux)
	defer server.Close()

	var buf bytes.Buffer
	c := NewClient(server.Client(), newTestLogger(&buf), "")
	c.SetBaseURL(server.URL)

	_, repos, _, err := c.FetchProfile(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchProfile がエラーを返した: %v", err)
	}

	if len(repos) != 2 {
		t.Fatalf("len(repos) = %d, want 2 (pagination must be followed)", len(repos))
	}
	if repos[0].Name != "first" || repos[1].Name != "second" {
		t.Errorf("repos = [%s, %s], want [first, second]", repos[0].Name, repos[1].Name)
	}
}

func TestExtractNextLink(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{
			"nextあり",
			`<https://api.github.com/user/1/repos?page=2>; rel="next", <https://api.github.com/user/1/repos?page=5>; rel="last"`,
			"https://api.github.com/user/1/repos?page=2",
		},
		{
			"lastのみ",
			`<https://api.github.com/user/1/repos?page=5>; rel="last"`,
			"",
		},
		{"空ヘッダー", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractNextLink(tt.header); got != tt.want {
				t.Errorf("extractNextLink(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
