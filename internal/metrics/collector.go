// Package metrics provides in-memory timing statistics for chat
// operations.
package metrics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// Operation names for the collector.
const (
	OpSendMessage        = "send_message"
	OpExecuteAction      = "execute_action"
	OpRejectAction       = "reject_action"
	OpListConversations  = "list_conversations"
	OpLoadConversation   = "load_conversation"
	OpDeleteConversation = "delete_conversation"
)

// OperationMetrics holds aggregated raw metrics for one operation type.
type OperationMetrics struct {
	Count     int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64
	TotalTimeMs int64
	AvgTimeMs   float64
	MinTimeMs   int64
	MaxTimeMs   int64
}

// Snapshot represents all statistics at a point in time.
type Snapshot struct {
	UptimeSeconds float64
	Operations    map[string]OperationSnapshot
}

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
	}
}

// RecordTiming records the duration of one operation.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}

	m.Count++
	m.TotalTime += duration
	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// Snapshot returns the current statistics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		Operations:    make(map[string]OperationSnapshot, len(c.ops)),
	}

	for op, m := range c.ops {
		s := OperationSnapshot{
			Count:       m.Count,
			TotalTimeMs: m.TotalTime.Milliseconds(),
			MinTimeMs:   m.MinTime.Milliseconds(),
			MaxTimeMs:   m.MaxTime.Milliseconds(),
		}
		if m.Count > 0 {
			s.AvgTimeMs = float64(m.TotalTime.Milliseconds()) / float64(m.Count)
		}
		snap.Operations[op] = s
	}

	return snap
}

// Summary renders the snapshot as a short human-readable block, used by
// verbose CLI output on exit.
func (s Snapshot) Summary() string {
	if len(s.Operations) == 0 {
		return "no operations recorded"
	}

	names := make([]string, 0, len(s.Operations))
	for op := range s.Operations {
		names = append(names, op)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "session stats (uptime %.0fs):\n", s.UptimeSeconds)
	for _, op := range names {
		m := s.Operations[op]
		fmt.Fprintf(&b, "  %-22s count=%d avg=%.0fms min=%dms max=%dms\n",
			op, m.Count, m.AvgTimeMs, m.MinTimeMs, m.MaxTimeMs)
	}
	return strings.TrimRight(b.String(), "\n")
}
