package store

import (
	"sort"
	"sync"
	"time"

	"crystalos/internal/core/domain"
)

// throttle coalesces refetch requests so a burst of change events causes one
// read per table. An empty table requests a full refetch.
type throttle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[domain.Table]struct{}
	full    bool
	stopped bool
	delay   time.Duration
	flush   func(full bool, tables []domain.Table)
}

func newThrottle(delay time.Duration, flush func(full bool, tables []domain.Table)) *throttle {
	return &throttle{
		delay:   delay,
		pending: make(map[domain.Table]struct{}),
		flush:   flush,
	}
}

func (t *throttle) Enqueue(table domain.Table) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	if table == "" {
		t.full = true
	} else {
		t.pending[table] = struct{}{}
	}

	if t.delay <= 0 {
		t.mu.Unlock()
		t.fire()
		return
	}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, t.fire)
	}
	t.mu.Unlock()
}

func (t *throttle) fire() {
	t.mu.Lock()
	full := t.full
	tables := make([]domain.Table, 0, len(t.pending))
	for table := range t.pending {
		tables = append(tables, table)
	}
	t.pending = make(map[domain.Table]struct{})
	t.full = false
	t.timer = nil
	stopped := t.stopped
	t.mu.Unlock()

	if stopped || (!full && len(tables) == 0) {
		return
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i] < tables[j] })
	t.flush(full, tables)
}

func (t *throttle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
