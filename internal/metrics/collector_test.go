package metrics

import (
	"strings"
	"testing"
	"time"
)

func TestRecordTimingAggregates(t *testing.T) {
	c := NewCollector()
	c.RecordTiming(OpSendMessage, 100*time.Millisecond)
	c.RecordTiming(OpSendMessage, 300*time.Millisecond)
	c.RecordTiming(OpExecuteAction, 50*time.Millisecond)

	snap := c.Snapshot()

	send, ok := snap.Operations[OpSendMessage]
	if !ok {
		t.Fatal("send_message missing from snapshot")
	}
	if send.Count != 2 {
		t.Errorf("count = %d, want 2", send.Count)
	}
	if send.MinTimeMs != 100 || send.MaxTimeMs != 300 {
		t.Errorf("min/max = %d/%d, want 100/300", send.MinTimeMs, send.MaxTimeMs)
	}
	if send.AvgTimeMs != 200 {
		t.Errorf("avg = %v, want 200", send.AvgTimeMs)
	}

	if snap.Operations[OpExecuteAction].Count != 1 {
		t.Error("execute_action not recorded")
	}
}

func TestSummary(t *testing.T) {
	c := NewCollector()
	if got := c.Snapshot().Summary(); got != "no operations recorded" {
		t.Errorf("empty summary = %q", got)
	}

	c.RecordTiming(OpRejectAction, 20*time.Millisecond)
	summary := c.Snapshot().Summary()
	if !strings.Contains(summary, OpRejectAction) || !strings.Contains(summary, "count=1") {
		t.Errorf("summary missing operation line: %q", summary)
	}
}
