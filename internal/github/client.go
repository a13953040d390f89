// Package github はGitHub REST APIとの連携機能を提供する。
// プロフィール・リポジトリ・直近イベントの取得を行う。
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hitoshi/gitgazer/internal/model"
)

const (
	// defaultBaseURL はGitHub REST APIのエンドポイント。
	defaultBaseURL = "https://api.github.com"
	// perPage は一覧系APIの1ページあたりの取得件数。
	perPage = 100
	// userAgent はGitHub APIが要求するUser-Agentヘッダーの値。
	userAgent = "GitGazer/1.0 Profile Analyzer"
)

// Client はGitHub REST APIのクライアント。
// tokenが空の場合は認証なしで呼び出す（低クォータ）。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string // テスト用にエンドポイントを差し替え可能
	token      string
}

// NewClient はClientの新しいインスタンスを生成する。
func NewClient(httpClient *http.Client, logger *slog.Logger, token string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    defaultBaseURL,
		token:      token,
	}
}

// SetBaseURL はAPIエンドポイントを差し替える。テストとローカルモック用。
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// githubUser はユーザーAPIのレスポンス。
type githubUser struct {
	Login       string    `json:"login"`
	PublicRepos int       `json:"public_repos"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// githubRepo はリポジトリ一覧APIのレスポンス要素。
type githubRepo struct {
	Name            string `json:"name"`
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
}

// githubEvent はイベントAPIのレスポンス要素。
type githubEvent struct {
	CreatedAt time.Time `json:"created_at"`
}

// FetchProfile はユーザーの基本情報・全リポジトリ（言語内訳込み）・
// 直近公開イベントを取得する。
// upstreamが404を返した場合はPROFILE_NOT_FOUND、401/403/429の場合は
// RATE_LIMITED、その他の失敗はUPSTREAM_ERRORを返す。
func (c *Client) FetchProfile(ctx context.Context, username string) (model.BasicInfo, []model.Repository, []model.Event, error) {
	user, err := c.fetchUser(ctx, username)
	if err != nil {
		return model.BasicInfo{}, nil, nil, err
	}

	repos, err := c.fetchRepos(ctx, username)
	if err != nil {
		return model.BasicInfo{}, nil, nil, err
	}

	events, err := c.fetchEvents(ctx, username)
	if err != nil {
		return model.BasicInfo{}, nil, nil, err
	}

	info := model.BasicInfo{
		Username:   user.Login,
		RepoCount:  user.PublicRepos,
		Followers:  user.Followers,
		Following:  user.Following,
		CreatedAt:  user.CreatedAt,
		LastActive: user.UpdatedAt,
	}

	return info, repos, events, nil
}

// fetchUser はユーザーの基本属性を取得する。
func (c *Client) fetchUser(ctx context.Context, username string) (*githubUser, error) {
	endpoint := fmt.Sprintf("%s/users/%s", c.baseURL, url.PathEscape(username))

	var user githubUser
	if err := c.getJSON(ctx, endpoint, username, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// fetchRepos はユーザーの全リポジトリを取得する。
// per_page=100でLinkヘッダーのページネーションを辿り、
// 各リポジトリの言語別バイト数も取得する。
func (c *Client) fetchRepos(ctx context.Context, username string) ([]model.Repository, error) {
	var repos []model.Repository
	nextURL := fmt.Sprintf("%s/users/%s/repos?per_page=%d", c.baseURL, url.PathEscape(username), perPage)

	for nextURL != "" {
		var page []githubRepo
		next, err := c.getJSONPage(ctx, nextURL, username, &page)
		if err != nil {
			return nil, err
		}

		for _, r := range page {
			langBytes, err := c.fetchLanguages(ctx, username, r.Name)
			if err != nil {
				return nil, err
			}
			repos = append(repos, model.Repository{
				Name:          r.Name,
				StarCount:     r.StargazersCount,
				ForkCount:     r.ForksCount,
				LanguageBytes: langBytes,
			})
		}

		nextURL = next
	}

	return repos, nil
}

// fetchLanguages はリポジトリの言語名→バイト数のマッピングを取得する。
func (c *Client) fetchLanguages(ctx context.Context, username, repo string) (map[string]int, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/languages",
		c.baseURL, url.PathEscape(username), url.PathEscape(repo))

	var langs map[string]int
	if err := c.getJSON(ctx, endpoint, username, &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

// fetchEvents はユーザーの直近公開イベントを取得する。
// イベントAPIは最大300件（直近90日）までしか返さないため、1ページで十分。
func (c *Client) fetchEvents(ctx context.Context, username string) ([]model.Event, error) {
	endpoint := fmt.Sprintf("%s/users/%s/events/public?per_page=%d",
		c.baseURL, url.PathEscape(username), perPage)

	var raw []githubEvent
	if err := c.getJSON(ctx, endpoint, username, &raw); err != nil {
		return nil, err
	}

	events := make([]model.Event, len(raw))
	for i, ev := range raw {
		events[i] = model.Event{Timestamp: ev.CreatedAt}
	}
	return events, nil
}

// getJSON は単一ページのGETリクエストを実行してJSONをデコードする。
func (c *Client) getJSON(ctx context.Context, endpoint, username string, out interface{}) error {
	_, err := c.getJSONPage(ctx, endpoint, username, out)
	return err
}

// getJSONPage はGETリクエストを実行してJSONをデコードし、
// Linkヘッダーから次ページのURLを返す（次ページがなければ空文字）。
func (c *Client) getJSONPage(ctx context.Context, endpoint, username string, out interface{}) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", model.NewUpstreamError(fmt.Sprintf("HTTPリクエストの作成に失敗しました: %v", err))
	}
	c.applyHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("GitHub APIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
			slog.String("endpoint", endpoint),
		)
		return "", model.NewUpstreamError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("GitHub APIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
			slog.String("endpoint", endpoint),
		)
		return "", classifyStatus(resp.StatusCode, username)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("GitHub APIのレスポンスのパースに失敗しました",
			slog.String("error", err.Error()),
			slog.String("endpoint", endpoint),
		)
		return "", model.NewUpstreamError(fmt.Sprintf("レスポンスJSONのパースに失敗しました: %v", err))
	}

	return extractNextLink(resp.Header.Get("Link")), nil
}

// applyHeaders はGitHub API共通のリクエストヘッダーを設定する。
func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// classifyStatus はGitHub APIのエラーステータスを型付きエラーに変換する。
// 401/403はクォータ超過時にも返されるためRATE_LIMITEDとして扱う。
func classifyStatus(status int, username string) *model.APIError {
	switch status {
	case http.StatusNotFound:
		return model.NewProfileNotFoundError(username)
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		return model.NewRateLimitedError()
	default:
		return model.NewUpstreamError(fmt.Sprintf("ステータス %d が返されました", status))
	}
}

// extractNextLink はLinkヘッダーからrel="next"のURLを抽出する。
// 例: <https://api.github.com/user/1/repos?page=2>; rel="next", <...>; rel="last"
func extractNextLink(linkHeader string) string {
	if linkHeader == "" {
		return ""
	}
	for _, part := range strings.Split(linkHeader, ",") {
		section := strings.Split(part, ";")
		if len(section) < 2 {
			continue
		}
		if strings.TrimSpace(section[1]) != `rel="next"` {
			continue
		}
		u := strings.TrimSpace(section[0])
		u = strings.TrimPrefix(u, "<")
		u = strings.TrimSuffix(u, ">")
		return u
	}
	return ""
}
