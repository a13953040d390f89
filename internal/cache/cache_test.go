package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hitoshi/gitgazer/internal/model"
)

func testSummary(username string, stars int) model.ProfileSummary {
	return model.ProfileSummary{
		Username:   username,
		TotalStars: stars,
	}
}

func TestResultCache_Get_MissWhenEmpty(t *testing.T) {
	c := New(1 * time.Hour)

	_, ok := c.Get("alice", time.Now())
	if ok {
		t.Error("expected miss on empty cache")
	}
}

func TestResultCache_PutThenGet_HitWithinTTL(t *testing.T) {
	c := New(1 * time.Hour)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	c.Put("alice", testSummary("alice", 42), t0)

	// TTL境界直前まではヒットする
	queryTimes := []time.Duration{0, 1 * time.Second, 30 * time.Minute, 59*time.Minute + 59*time.Second}
	for _, d := range queryTimes {
		got, ok := c.Get("alice", t0.Add(d))
		if !ok {
			t.Errorf("Get at t0+%v: expected hit", d)
			continue
		}
		if got.TotalStars != 42 {
			t.Errorf("Get at t0+%v: TotalStars = %d, want 42", d, got.TotalStars)
		}
	}
}

func TestResultCache_Get_MissAtOrAfterTTL(t *testing.T) {
	c := New(1 * time.Hour)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	c.Put("alice", testSummary("alice", 42), t0)

	// ちょうどTTL経過時点でミスになる（now - computedAt >= TTL）
	if _, ok := c.Get("alice", t0.Add(1*time.Hour)); ok {
		t.Error("expected miss exactly at TTL boundary")
	}
	if _, ok := c.Get("alice", t0.Add(2*time.Hour)); ok {
		t.Error("expected miss after TTL")
	}
}

func TestResultCache_Put_OverwritesExistingEntry(t *testing.T) {
	c := New(1 * time.Hour)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	c.Put("alice", testSummary("alice", 1), t0)
	c.Put("alice", testSummary("alice", 2), t0.Add(10*time.Minute))

	got, ok := c.Get("alice", t0.Add(20*time.Minute))
	if !ok {
		t.Fatal("expected hit")
	}
	if got.TotalStars != 2 {
		t.Errorf("TotalStars = %d, want 2 (last write wins)", got.TotalStars)
	}
}

func TestResultCache_Put_RefreshesComputedAt(t *testing.T) {
	c := New(1 * time.Hour)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	c.Put("alice", testSummary("alice", 1), t0)
	// 50分後に再計算 → そこから1時間有効
	c.Put("alice", testSummary("alice", 2), t0.Add(50*time.Minute))

	if _, ok := c.Get("alice", t0.Add(90*time.Minute)); !ok {
		t.Error("expected hit: entry was recomputed at t0+50m")
	}
	if _, ok := c.Get("alice", t0.Add(110*time.Minute)); ok {
		t.Error("expected miss: 60 minutes elapsed since recomputation")
	}
}

func TestResultCache_IndependentKeys(t *testing.T) {
	c := New(1 * time.Hour)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	c.Put("alice", testSummary("alice", 1), t0)
	c.Put("bob", testSummary("bob", 2), t0)

	a, ok := c.Get("alice", t0)
	if !ok || a.Username != "alice" {
		t.Errorf("alice entry = (%v, %v), want hit for alice", a.Username, ok)
	}
	b, ok := c.Get("bob", t0)
	if !ok || b.Username != "bob" {
		t.Errorf("bob entry = (%v, %v), want hit for bob", b.Username, ok)
	}
}

func TestResultCache_ExpiredEntryIsRemoved(t *testing.T) {
	c := New(1 * time.Hour)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	c.Put("alice", testSummary("alice", 1), t0)
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}

	c.Get("alice", t0.Add(2*time.Hour))
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0 after lazy eviction", c.Len())
	}
}

func TestResultCache_ConcurrentAccess(t *testing.T) {
	c := New(1 * time.Hour)
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		key := fmt.Sprintf("user-%d", i%10)
		go func(k string, n int) {
			defer wg.Done()
			c.Put(k, testSummary(k, n), now)
		}(key, i)
		go func(k string) {
			defer wg.Done()
			c.Get(k, now)
		}(key)
	}
	wg.Wait()

	if c.Len() != 10 {
		t.Errorf("Len = %d, want 10", c.Len())
	}
}
