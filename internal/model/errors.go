package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, upstream, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeEmptyInput      = "EMPTY_INPUT"
	ErrCodeMalformedURL    = "MALFORMED_URL"
	ErrCodeProfileNotFound = "PROFILE_NOT_FOUND"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeUpstreamError   = "UPSTREAM_ERROR"
)

// NewEmptyInputError は入力URL未指定エラーを生成する。
func NewEmptyInputError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyInput,
		Message:  "GitHubプロフィールのURLが入力されていません。",
		Category: "validation",
		Action:   "https://github.com/username 形式のURLを入力してください。",
	}
}

// NewMalformedURLError は無効なプロフィールURLエラーを生成する。
func NewMalformedURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeMalformedURL,
		Message:  fmt.Sprintf("無効なGitHubプロフィールURLです: %s", reason),
		Category: "validation",
		Action:   "https://github.com/username 形式のURLを入力してください。",
	}
}

// NewProfileNotFoundError はプロフィール未検出エラーを生成する。
func NewProfileNotFoundError(username string) *APIError {
	return &APIError{
		Code:     ErrCodeProfileNotFound,
		Message:  fmt.Sprintf("GitHubプロフィールが見つかりません: %s", username),
		Category: "upstream",
		Action:   "ユーザー名のつづりを確認してください。",
	}
}

// NewRateLimitedError はGitHub APIのクォータ超過・認証失敗エラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "GitHub APIのレート制限に達したか、認証に失敗しました。",
		Category: "upstream",
		Action:   "しばらく待ってから再度お試しください。GITHUB_TOKENの設定で制限を緩和できます。",
	}
}

// NewUpstreamError はGitHub APIのその他の失敗エラーを生成する。
// 診断のため元のメッセージを保持する。
func NewUpstreamError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeUpstreamError,
		Message:  fmt.Sprintf("GitHub APIの呼び出しに失敗しました: %s", reason),
		Category: "upstream",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
