// Package profile はプロフィール分析のドメインロジックを提供する。
// URL検証、統計集計、キャッシュを組み合わせたオーケストレーションを含む。
package profile

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/hitoshi/gitgazer/internal/model"
)

// usernamePattern はGitHubユーザー名として許可する文字種。
// 英数字・ハイフン・アンダースコアのみ。
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ParseProfileURL はGitHubプロフィールURLを検証し、ユーザー名を抽出する。
// httpとhttpsの両方、wwwプレフィックスの有無、末尾スラッシュの有無を受け付ける。
// 追加のパスセグメントやクエリ文字列は、先頭セグメントが有効な識別子で
// ある限り許容する。
//
// 空入力はEMPTY_INPUT、github.com以外のホストや先頭セグメントが取れない
// URLはMALFORMED_URLを返す。
func ParseProfileURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", model.NewEmptyInputError()
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", model.NewMalformedURLError("URLとして解析できません")
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", model.NewMalformedURLError("http または https のURLを指定してください")
	}

	host := strings.ToLower(parsed.Hostname())
	if host != "github.com" && host != "www.github.com" {
		return "", model.NewMalformedURLError("github.com のURLではありません")
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return "", model.NewMalformedURLError("ユーザー名がURLに含まれていません")
	}

	username := strings.TrimSpace(segments[0])
	if !usernamePattern.MatchString(username) {
		return "", model.NewMalformedURLError("ユーザー名に使用できない文字が含まれています")
	}

	return username, nil
}

// CacheKey は検証済みユーザー名からキャッシュキーを導出する。
// GitHubのユーザー名は大文字小文字を区別しないため、小文字に正規化して
// URL表記ゆれによるキャッシュの重複を防ぐ。
func CacheKey(username string) string {
	return strings.ToLower(username)
}
