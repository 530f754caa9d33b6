package ratelimit

import (
	"sync"
	"time"
)

const (
	// 滑動視窗長度
	WindowMinute = time.Minute
	WindowHour   = time.Hour
	// 超過此閒置時間的 client key 由背景 sweep 移除
	DefaultIdleCutoff = 2 * time.Hour
)

// Result 單次計數結果
type Result struct {
	Allowed     bool
	MinuteCount int
	HourCount   int
	// 被擋下時建議的重試間隔（向上取整到秒）
	RetryAfter time.Duration
}

// entry 單一 client key 的時間戳佇列；每個 key 各自持鎖，互不序列化
type entry struct {
	mu       sync.Mutex
	times    []time.Time
	lastSeen time.Time
}

// Limiter 行程內滑動視窗計數器。
// map 本身用 RWMutex 保護，計數操作只持有單一 key 的鎖。
type Limiter struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func NewLimiter() *Limiter {
	return &Limiter{entries: make(map[string]*entry)}
}

// Take 記錄一次請求並檢查雙視窗門檻。
// 先記錄再檢查：視窗內第 N+1 個請求一定被擋，當下這筆也計入自身的額度。
func (l *Limiter) Take(key string, now time.Time, perMinute, perHour int) Result {
	e := l.get(key)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.prune(now)
	e.times = append(e.times, now)
	e.lastSeen = now

	minuteCount := e.countSince(now.Add(-WindowMinute))
	hourCount := len(e.times)

	res := Result{
		Allowed:     true,
		MinuteCount: minuteCount,
		HourCount:   hourCount,
	}

	var retry time.Duration
	if perMinute > 0 && minuteCount > perMinute {
		res.Allowed = false
		retry = e.retryAfter(now, WindowMinute)
	}
	if perHour > 0 && hourCount > perHour {
		res.Allowed = false
		if r := e.retryAfter(now, WindowHour); r > retry {
			retry = r
		}
	}
	if !res.Allowed {
		if retry < time.Second {
			retry = time.Second
		}
		res.RetryAfter = retry.Round(time.Second)
	}
	return res
}

// Peek 回傳目前視窗計數，不記錄請求（管理端查詢用）
func (l *Limiter) Peek(key string, now time.Time) (minuteCount, hourCount int) {
	l.mu.RLock()
	e, ok := l.entries[key]
	l.mu.RUnlock()
	if !ok {
		return 0, 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prune(now)
	return e.countSince(now.Add(-WindowMinute)), len(e.times)
}

// SweepIdle 移除閒置超過 idleFor 的 key，回傳移除數；cron 週期呼叫以避免 map 無界成長
func (l *Limiter) SweepIdle(now time.Time, idleFor time.Duration) int {
	cutoff := now.Add(-idleFor)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, e := range l.entries {
		e.mu.Lock()
		idle := e.lastSeen.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Len 目前追蹤中的 client key 數
func (l *Limiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *Limiter) get(key string) *entry {
	l.mu.RLock()
	e, ok := l.entries[key]
	l.mu.RUnlock()
	if ok {
		return e
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok = l.entries[key]; ok {
		return e
	}
	e = &entry{}
	l.entries[key] = e
	return e
}

// prune 丟棄最長視窗（1 小時）以外的時間戳；呼叫端須持有 e.mu
func (e *entry) prune(now time.Time) {
	cutoff := now.Add(-WindowHour)
	idx := 0
	for idx < len(e.times) && !e.times[idx].After(cutoff) {
		idx++
	}
	if idx > 0 {
		e.times = append(e.times[:0], e.times[idx:]...)
	}
}

func (e *entry) countSince(cutoff time.Time) int {
	count := 0
	for i := len(e.times) - 1; i >= 0; i-- {
		if !e.times[i].After(cutoff) {
			break
		}
		count++
	}
	return count
}

// retryAfter 視窗內最舊一筆離開視窗所需時間；呼叫端須持有 e.mu
func (e *entry) retryAfter(now time.Time, window time.Duration) time.Duration {
	cutoff := now.Add(-window)
	for _, t := range e.times {
		if t.After(cutoff) {
			return t.Sub(cutoff)
		}
	}
	return 0
}
