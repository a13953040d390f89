package profile

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hitoshi/gitgazer/internal/metrics"
	"github.com/hitoshi/gitgazer/internal/model"
)

// Fetcher はGitHub APIからプロフィールデータを取得するインターフェース。
// github.Clientを抽象化してテスタビリティを向上させる。
type Fetcher interface {
	FetchProfile(ctx context.Context, username string) (model.BasicInfo, []model.Repository, []model.Event, error)
}

// SummaryCache は分析結果キャッシュのインターフェース。
type SummaryCache interface {
	Get(username string, now time.Time) (model.ProfileSummary, bool)
	Put(username string, summary model.ProfileSummary, now time.Time)
}

// Service はプロフィール分析のサービス層。
// URL検証 → キャッシュ参照 → フェッチ → 集計 → キャッシュ格納の
// オーケストレーションを提供する。
type Service struct {
	fetcher  Fetcher
	cache    SummaryCache
	recorder metrics.AnalysisRecorder
	logger   *slog.Logger

	// clock は鮮度判定の基準時刻を返す。テストで差し替える。
	clock func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(fetcher Fetcher, cache SummaryCache, recorder metrics.AnalysisRecorder, logger *slog.Logger) *Service {
	return &Service{
		fetcher:  fetcher,
		cache:    cache,
		recorder: recorder,
		logger:   logger,
		clock:    time.Now,
	}
}

// Analyze はプロフィールURLを検証し、分析結果を返す。
// キャッシュが新鮮な場合はupstreamを呼ばずにキャッシュを返す。
// 型付きエラー（EMPTY_INPUT、MALFORMED_URL、PROFILE_NOT_FOUND、
// RATE_LIMITED、UPSTREAM_ERROR）はそのまま呼び出し元に伝播する。
func (s *Service) Analyze(ctx context.Context, rawURL string) (*model.ProfileSummary, error) {
	username, err := ParseProfileURL(rawURL)
	if err != nil {
		return nil, err
	}

	key := CacheKey(username)
	now := s.clock()

	if summary, ok := s.cache.Get(key, now); ok {
		if s.recorder != nil {
			s.recorder.RecordCacheHit()
		}
		s.logger.Info("キャッシュから分析結果を返します",
			slog.String("username", username),
		)
		return &summary, nil
	}

	if s.recorder != nil {
		s.recorder.RecordCacheMiss()
	}

	fetchStart := now
	info, repos, events, err := s.fetcher.FetchProfile(ctx, username)
	if err != nil {
		if s.recorder != nil {
			var apiErr *model.APIError
			if errors.As(err, &apiErr) {
				s.recorder.RecordUpstreamFailure(apiErr.Code)
			} else {
				s.recorder.RecordUpstreamFailure(model.ErrCodeUpstreamError)
			}
		}
		return nil, err
	}
	if s.recorder != nil {
		s.recorder.RecordFetchLatency(time.Since(fetchStart))
	}

	summary := Aggregate(info, repos, events, now)
	s.cache.Put(key, summary, now)

	if s.recorder != nil {
		s.recorder.RecordAnalyzeSuccess()
	}
	s.logger.Info("プロフィール分析が完了しました",
		slog.String("username", username),
		slog.Int("repo_count", summary.RepoCount),
		slog.Int("total_stars", summary.TotalStars),
	)

	return &summary, nil
}
