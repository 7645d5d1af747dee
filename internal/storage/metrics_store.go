package storage

import (
	"database/sql"
	"time"
)

// ToolCallRecord represents a single tool invocation
type ToolCallRecord struct {
	ID              int64
	ToolName        string
	SessionID       string
	TotalResults    int
	ReturnedResults int
	Truncated       bool
	ResponseChars   int
	ExecutionMs     int64
	IsError         bool
	RecordedAt      time.Time
}

// ToolAggregate represents aggregated stats for a tool
type ToolAggregate struct {
	ToolName       string  `json:"toolName"`
	CallCount      int64   `json:"callCount"`
	ErrorCount     int64   `json:"errorCount"`
	TotalResults   int64   `json:"totalResults"`
	TotalReturned  int64   `json:"totalReturned"`
	TruncatedCount int64   `json:"truncatedCount"`
	TotalChars     int64   `json:"totalChars"`
	TotalMs        int64   `json:"totalMs"`
	AvgLatency     float64 `json:"avgLatencyMs"`
}

// AvgLatencyMs returns the average latency in milliseconds
func (a *ToolAggregate) AvgLatencyMs() float64 {
	if a.CallCount == 0 {
		return 0
	}
	return float64(a.TotalMs) / float64(a.CallCount)
}

// RecordToolCall persists a tool invocation. A zero RecordedAt means now.
func (db *DB) RecordToolCall(r ToolCallRecord) error {
	at := r.RecordedAt
	if at.IsZero() {
		at = time.Now()
	}
	_, err := db.Exec(`
		INSERT INTO tool_metrics (
			tool_name, session_id, total_results, returned_results, truncated,
			response_chars, execution_ms, is_error, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ToolName, r.SessionID, r.TotalResults, r.ReturnedResults, boolInt(r.Truncated),
		r.ResponseChars, r.ExecutionMs, boolInt(r.IsError), at.UTC().Format(time.RFC3339))
	return err
}

// GetToolAggregates returns aggregated metrics for all tools recorded at or
// after since
func (db *DB) GetToolAggregates(since time.Time) (map[string]*ToolAggregate, error) {
	rows, err := db.Query(`
		SELECT
			tool_name,
			COUNT(*) as call_count,
			SUM(is_error) as error_count,
			SUM(total_results) as total_results,
			SUM(returned_results) as total_returned,
			SUM(truncated) as truncated_count,
			SUM(response_chars) as total_chars,
			SUM(execution_ms) as total_ms
		FROM tool_metrics
		WHERE recorded_at >= ?
		GROUP BY tool_name
		ORDER BY call_count DESC
	`, since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]*ToolAggregate)
	for rows.Next() {
		var agg ToolAggregate
		if err := rows.Scan(
			&agg.ToolName,
			&agg.CallCount,
			&agg.ErrorCount,
			&agg.TotalResults,
			&agg.TotalReturned,
			&agg.TruncatedCount,
			&agg.TotalChars,
			&agg.TotalMs,
		); err != nil {
			return nil, err
		}
		agg.AvgLatency = agg.AvgLatencyMs()
		result[agg.ToolName] = &agg
	}

	return result, rows.Err()
}

// GetToolCallRecords returns recent records, newest first, optionally
// filtered by tool
func (db *DB) GetToolCallRecords(limit int, toolFilter string) ([]ToolCallRecord, error) {
	var rows *sql.Rows
	var err error

	if toolFilter != "" {
		rows, err = db.Query(`
			SELECT id, tool_name, session_id, total_results, returned_results, truncated,
			       response_chars, execution_ms, is_error, recorded_at
			FROM tool_metrics
			WHERE tool_name = ?
			ORDER BY recorded_at DESC, id DESC
			LIMIT ?
		`, toolFilter, limit)
	} else {
		rows, err = db.Query(`
			SELECT id, tool_name, session_id, total_results, returned_results, truncated,
			       response_chars, execution_ms, is_error, recorded_at
			FROM tool_metrics
			ORDER BY recorded_at DESC, id DESC
			LIMIT ?
		`, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ToolCallRecord
	for rows.Next() {
		var r ToolCallRecord
		var truncated, isError int
		var recordedAt string
		if err := rows.Scan(
			&r.ID, &r.ToolName, &r.SessionID, &r.TotalResults, &r.ReturnedResults, &truncated,
			&r.ResponseChars, &r.ExecutionMs, &isError, &recordedAt,
		); err != nil {
			return nil, err
		}
		r.Truncated = truncated != 0
		r.IsError = isError != 0
		r.RecordedAt, _ = time.Parse(time.RFC3339, recordedAt)
		records = append(records, r)
	}

	return records, rows.Err()
}

// CleanupOldMetrics removes metrics older than the retention period
func (db *DB) CleanupOldMetrics(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).UTC().Format(time.RFC3339)
	result, err := db.Exec(`
		DELETE FROM tool_metrics WHERE recorded_at < ?
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// GetMetricsStats returns summary statistics for the metrics table
func (db *DB) GetMetricsStats() (totalRecords int64, oldestRecord, newestRecord *time.Time, err error) {
	var oldestStr, newestStr sql.NullString
	err = db.QueryRow(`
		SELECT
			COUNT(*),
			MIN(recorded_at),
			MAX(recorded_at)
		FROM tool_metrics
	`).Scan(&totalRecords, &oldestStr, &newestStr)
	if err == sql.ErrNoRows {
		return 0, nil, nil, nil
	}
	if err != nil {
		return 0, nil, nil, err
	}

	if oldestStr.Valid {
		if t, parseErr := time.Parse(time.RFC3339, oldestStr.String); parseErr == nil {
			oldestRecord = &t
		}
	}
	if newestStr.Valid {
		if t, parseErr := time.Parse(time.RFC3339, newestStr.String); parseErr == nil {
			newestRecord = &t
		}
	}
	return
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
