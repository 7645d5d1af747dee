package mcp

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"webcompat/internal/storage"
)

// ToolCall captures one tools/call invocation for metrics.
type ToolCall struct {
	ToolName        string
	TotalResults    int
	ReturnedResults int
	Truncated       bool
	ResponseChars   int
	ExecutionMs     int64
	IsError         bool
}

// ToolMetricsSummary holds aggregated stats for a single tool
type ToolMetricsSummary struct {
	ToolName       string  `json:"toolName"`
	CallCount      int64   `json:"callCount"`
	ErrorCount     int64   `json:"errorCount"`
	TotalResults   int64   `json:"totalResults"`
	TotalReturned  int64   `json:"totalReturned"`
	TruncatedCount int64   `json:"truncatedCount"`
	TotalChars     int64   `json:"totalChars"`
	TotalMs        int64   `json:"totalMs"`
	AvgLatency     float64 `json:"avgLatencyMs"` // computed on read
}

// AvgLatencyMs returns the average latency in milliseconds
func (s *ToolMetricsSummary) AvgLatencyMs() float64 {
	if s.CallCount == 0 {
		return 0
	}
	return float64(s.TotalMs) / float64(s.CallCount)
}

// AvgChars returns the average response size per call
func (s *ToolMetricsSummary) AvgChars() float64 {
	if s.CallCount == 0 {
		return 0
	}
	return float64(s.TotalChars) / float64(s.CallCount)
}

// ToolMetrics aggregates tool calls for one server session and optionally
// persists each call to the metrics database.
type ToolMetrics struct {
	mu        sync.Mutex
	sessionID string
	tools     map[string]*ToolMetricsSummary
	db        *storage.DB // optional SQLite persistence
	logger    *slog.Logger
	wg        sync.WaitGroup
}

// NewToolMetrics creates an aggregator with a fresh session id. db may be nil.
func NewToolMetrics(db *storage.DB, logger *slog.Logger) *ToolMetrics {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ToolMetrics{
		sessionID: uuid.NewString(),
		tools:     make(map[string]*ToolMetricsSummary),
		db:        db,
		logger:    logger,
	}
}

// SessionID returns the id stamped on every persisted call.
func (m *ToolMetrics) SessionID() string {
	return m.sessionID
}

// Record adds a call to the in-memory summary and persists it in the background.
func (m *ToolMetrics) Record(call ToolCall) {
	m.mu.Lock()
	summary, ok := m.tools[call.ToolName]
	if !ok {
		summary = &ToolMetricsSummary{ToolName: call.ToolName}
		m.tools[call.ToolName] = summary
	}
	summary.CallCount++
	if call.IsError {
		summary.ErrorCount++
	}
	summary.TotalResults += int64(call.TotalResults)
	summary.TotalReturned += int64(call.ReturnedResults)
	if call.Truncated {
		summary.TruncatedCount++
	}
	summary.TotalChars += int64(call.ResponseChars)
	summary.TotalMs += call.ExecutionMs
	m.mu.Unlock()

	if m.db == nil {
		return
	}

	record := storage.ToolCallRecord{
		ToolName:        call.ToolName,
		SessionID:       m.sessionID,
		TotalResults:    call.TotalResults,
		ReturnedResults: call.ReturnedResults,
		Truncated:       call.Truncated,
		ResponseChars:   call.ResponseChars,
		ExecutionMs:     call.ExecutionMs,
		IsError:         call.IsError,
		RecordedAt:      time.Now(),
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.db.RecordToolCall(record); err != nil {
			m.logger.Warn("Failed to persist tool metrics", "tool", record.ToolName, "error", err.Error())
		}
	}()
}

// Summary returns a copy of the per-tool stats sorted by tool name.
func (m *ToolMetrics) Summary() []ToolMetricsSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ToolMetricsSummary, 0, len(m.tools))
	for _, s := range m.tools {
		c := *s
		c.AvgLatency = s.AvgLatencyMs()
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ToolName < out[j].ToolName })
	return out
}

// Cleanup removes persisted calls older than retention.
func (m *ToolMetrics) Cleanup(retention time.Duration) (int64, error) {
	if m.db == nil || retention <= 0 {
		return 0, nil
	}
	return m.db.CleanupOldMetrics(retention)
}

// Flush waits for pending writes to finish.
func (m *ToolMetrics) Flush() {
	m.wg.Wait()
}

func formatMetrics(sessionID string, summaries []ToolMetricsSummary) string {
	var b strings.Builder
	b.WriteString("# Tool Metrics\n\n")
	fmt.Fprintf(&b, "Session: `%s`\n\n", sessionID)
	if len(summaries) == 0 {
		b.WriteString("No tool calls recorded yet.")
		return b.String()
	}

	b.WriteString("| Tool | Calls | Errors | Truncated | Avg chars | Avg ms |\n")
	b.WriteString("|------|-------|--------|-----------|-----------|--------|\n")
	for _, s := range summaries {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %.0f | %.1f |\n",
			s.ToolName, s.CallCount, s.ErrorCount, s.TruncatedCount, s.AvgChars(), s.AvgLatency)
	}
	return strings.TrimRight(b.String(), "\n")
}
