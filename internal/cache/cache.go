// Package cache は分析結果の時限付きインメモリキャッシュを提供する。
package cache

import (
	"sync"
	"time"

	"github.com/hitoshi/gitgazer/internal/model"
)

// entry はキャッシュされた分析結果と計算時刻を保持する。
type entry struct {
	summary    model.ProfileSummary
	computedAt time.Time
}

// ResultCache はユーザー名をキーとするProfileSummaryのキャッシュ。
// 読み取り時にTTLで鮮度を判定する（バックグラウンドの掃除は行わない）。
// 複数リクエストからの同時アクセスを許容する。同一キーへの同時書き込みは
// 後勝ちで上書きされる（in-flightの重複フェッチは排除しない）。
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

// New は指定TTLのResultCacheを生成する。
func New(ttl time.Duration) *ResultCache {
	return &ResultCache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// Get はキャッシュされたProfileSummaryを返す。
// エントリが存在しないか、now - computedAt >= TTL の場合はミスを返す。
// 期限切れエントリはこのタイミングで削除する。
func (c *ResultCache) Get(username string, now time.Time) (model.ProfileSummary, bool) {
	c.mu.RLock()
	e, ok := c.entries[username]
	c.mu.RUnlock()

	if !ok {
		return model.ProfileSummary{}, false
	}

	if now.Sub(e.computedAt) >= c.ttl {
		c.mu.Lock()
		// 再確認: 他のgoroutineが新しい値を書いた可能性がある
		if cur, ok := c.entries[username]; ok && now.Sub(cur.computedAt) >= c.ttl {
			delete(c.entries, username)
		}
		c.mu.Unlock()
		return model.ProfileSummary{}, false
	}

	return e.summary, true
}

// Put はProfileSummaryを無条件に格納・上書きする。
func (c *ResultCache) Put(username string, summary model.ProfileSummary, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[username] = entry{
		summary:    summary,
		computedAt: now,
	}
}

// Len は現在保持しているエントリ数を返す。
// テストおよびメトリクス用。
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
