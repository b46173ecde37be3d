package model

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator hands out millisecond-timestamp ids. When the clock has not
// moved past the previous id the counter is bumped instead, so ids stay
// unique and increasing under bursts of ingests.
type IDGenerator struct {
	now   func() time.Time
	last  int64
	mutex sync.Mutex
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns a fresh id together with the instant it was derived from.
func (g *IDGenerator) Next() (string, time.Time) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	t := g.now()
	ms := t.UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10), t
}
