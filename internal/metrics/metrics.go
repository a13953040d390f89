// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AnalysisRecorder は分析処理のメトリクス収集インターフェース。
// サービス層から利用する。
type AnalysisRecorder interface {
	RecordAnalyzeSuccess()
	RecordCacheHit()
	RecordCacheMiss()
	RecordUpstreamFailure(code string)
	RecordFetchLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	analyzeSuccess prometheus.Counter
	cacheHit       prometheus.Counter
	cacheMiss      prometheus.Counter
	upstreamFail   *prometheus.CounterVec
	fetchLatency   prometheus.Histogram
	httpStatus     *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		analyzeSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gitgazer_analyze_success_total",
			Help: "プロフィール分析成功の合計数",
		}),
		cacheHit: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gitgazer_cache_hit_total",
			Help: "結果キャッシュヒットの合計数",
		}),
		cacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gitgazer_cache_miss_total",
			Help: "結果キャッシュミスの合計数",
		}),
		upstreamFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gitgazer_upstream_fail_total",
			Help: "GitHub API失敗のエラーコード別合計数",
		}, []string{"code"}),
		fetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gitgazer_fetch_latency_seconds",
			Help:    "GitHub APIフェッチのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gitgazer_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.analyzeSuccess,
		c.cacheHit,
		c.cacheMiss,
		c.upstreamFail,
		c.fetchLatency,
		c.httpStatus,
	)

	return c
}

// RecordAnalyzeSuccess は分析成功を記録する。
func (c *Collector) RecordAnalyzeSuccess() {
	c.analyzeSuccess.Inc()
}

// RecordCacheHit はキャッシュヒットを記録する。
func (c *Collector) RecordCacheHit() {
	c.cacheHit.Inc()
}

// RecordCacheMiss はキャッシュミスを記録する。
func (c *Collector) RecordCacheMiss() {
	c.cacheMiss.Inc()
}

// RecordUpstreamFailure はGitHub API失敗をエラーコード別に記録する。
func (c *Collector) RecordUpstreamFailure(code string) {
	c.upstreamFail.WithLabelValues(code).Inc()
}

// RecordFetchLatency はフェッチのレイテンシを記録する。
func (c *Collector) RecordFetchLatency(duration time.Duration) {
	c.fetchLatency.Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
