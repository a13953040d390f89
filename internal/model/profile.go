// Package model はドメインモデルを定義する。
package model

import "time"

// BasicInfo はGitHubユーザーの基本属性を表す。
// フェッチャーがユーザーAPIのレスポンスから組み立てる。
type BasicInfo struct {
	Username   string    // ログイン名（upstream APIが返した表記のまま）
	RepoCount  int       // 公開リポジトリ数
	Followers  int       // フォロワー数
	Following  int       // フォロー数
	CreatedAt  time.Time // アカウント作成日時
	LastActive time.Time // 最終更新日時（upstreamのupdated_at）
}

// Repository は集計対象のリポジトリを表す。
type Repository struct {
	Name          string         // リポジトリ名
	StarCount     int            // スター数
	ForkCount     int            // フォーク数
	LanguageBytes map[string]int // 言語名 → バイト数
}

// Event はプロフィールの直近アクティビティイベントを表す。
// 集計に必要なのはタイムスタンプのみ。
type Event struct {
	Timestamp time.Time
}

// LanguageCount は言語とその言語を含むリポジトリ数のペアを表す。
// Countはバイト数ではなく、その言語を含む個別リポジトリの数。
type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// ProfileSummary はプロフィール分析の結果レコードを表す。
// 一度生成されたらイミュータブルとして扱う。
type ProfileSummary struct {
	Username        string          `json:"username"`
	RepoCount       int             `json:"repo_count"`
	Followers       int             `json:"followers"`
	Following       int             `json:"following"`
	CreatedAt       string          `json:"created_at"`  // YYYY-MM-DD
	LastActive      string          `json:"last_active"` // YYYY-MM-DD
	TotalStars      int             `json:"total_stars"`
	AvgStarsPerRepo float64         `json:"avg_stars_per_repo"`
	MostStarredRepo string          `json:"most_starred_repo,omitempty"`
	TopLanguages    []string        `json:"top_languages"`
	RepoLanguages   []LanguageCount `json:"repo_languages"`
	ActivityDates   []string        `json:"activity_dates"`  // ISO日付昇順
	ActivityCounts  []int           `json:"activity_counts"` // ActivityDatesと位置対応
}
