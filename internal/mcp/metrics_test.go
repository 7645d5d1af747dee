package mcp

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"webcompat/internal/storage"
)

func TestToolMetricsRecord(t *testing.T) {
	m := NewToolMetrics(nil, nil)

	m.Record(ToolCall{ToolName: "compat_search", TotalResults: 40, ReturnedResults: 20, ResponseChars: 1000, ExecutionMs: 10})
	m.Record(ToolCall{ToolName: "compat_search", TotalResults: 2, ReturnedResults: 2, ResponseChars: 500, ExecutionMs: 30, Truncated: true})
	m.Record(ToolCall{ToolName: "compat_check", IsError: true, ExecutionMs: 4})

	summaries := m.Summary()
	if len(summaries) != 2 {
		t.Fatalf("len(Summary()) = %d, want 2", len(summaries))
	}
	if summaries[0].ToolName != "compat_check" || summaries[1].ToolName != "compat_search" {
		t.Errorf("Summary() order = %s, %s", summaries[0].ToolName, summaries[1].ToolName)
	}

	search := summaries[1]
	if search.CallCount != 2 || search.TotalResults != 42 || search.TotalReturned != 22 {
		t.Errorf("search counts = %+v", search)
	}
	if search.TruncatedCount != 1 {
		t.Errorf("TruncatedCount = %d, want 1", search.TruncatedCount)
	}
	if search.AvgLatency != 20 {
		t.Errorf("AvgLatency = %v, want 20", search.AvgLatency)
	}
	if search.AvgChars() != 750 {
		t.Errorf("AvgChars() = %v, want 750", search.AvgChars())
	}
	if summaries[0].ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", summaries[0].ErrorCount)
	}
}

func TestToolMetricsSummaryZero(t *testing.T) {
	var s ToolMetricsSummary
	if s.AvgLatencyMs() != 0 || s.AvgChars() != 0 {
		t.Error("averages of an empty summary should be zero")
	}
}

func TestToolMetricsSessionID(t *testing.T) {
	a := NewToolMetrics(nil, nil)
	b := NewToolMetrics(nil, nil)
	if len(a.SessionID()) != 36 {
		t.Errorf("SessionID() = %q, want a UUID", a.SessionID())
	}
	if a.SessionID() == b.SessionID() {
		t.Error("each aggregator should get its own session")
	}
}

func TestToolMetricsPersist(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "metrics.db"), nil)
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	defer db.Close()

	m := NewToolMetrics(db, nil)
	m.Record(ToolCall{ToolName: "compat_check", TotalResults: 1, ReturnedResults: 1, ResponseChars: 300, ExecutionMs: 2})
	m.Record(ToolCall{ToolName: "compat_check", IsError: true})
	m.Flush()

	records, err := db.GetToolCallRecords(10, "compat_check")
	if err != nil {
		t.Fatalf("GetToolCallRecords() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	for _, r := range records {
		if r.SessionID != m.SessionID() {
			t.Errorf("SessionID = %q, want %q", r.SessionID, m.SessionID())
		}
	}

	aggregates, err := db.GetToolAggregates(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("GetToolAggregates() error = %v", err)
	}
	if agg := aggregates["compat_check"]; agg == nil || agg.CallCount != 2 || agg.ErrorCount != 1 {
		t.Errorf("aggregate = %+v", agg)
	}

	if n, err := m.Cleanup(0); err != nil || n != 0 {
		t.Errorf("Cleanup(0) = (%d, %v), want no-op", n, err)
	}
}

func TestFormatMetrics(t *testing.T) {
	empty := formatMetrics("sess", nil)
	if !strings.Contains(empty, "No tool calls recorded yet.") {
		t.Errorf("empty output = %q", empty)
	}

	out := formatMetrics("sess", []ToolMetricsSummary{
		{ToolName: "compat_check", CallCount: 4, ErrorCount: 1, TotalChars: 400, TotalMs: 10, AvgLatency: 2.5},
	})
	for _, want := range []string{"Session: `sess`", "| compat_check | 4 | 1 | 0 | 100 | 2.5 |"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
