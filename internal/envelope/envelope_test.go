package envelope

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"webcompat/internal/errors"
)

func TestScoreToTier(t *testing.T) {
	tests := []struct {
		score float64
		want  ConfidenceTier
	}{
		{1.0, TierHigh},
		{0.95, TierHigh},
		{0.94, TierMedium},
		{0.70, TierMedium},
		{0.69, TierLow},
		{0.30, TierLow},
		{0.29, TierSpeculative},
		{0.0, TierSpeculative},
	}

	for _, tt := range tests {
		got := ScoreToTier(tt.score)
		if got != tt.want {
			t.Errorf("ScoreToTier(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestTierFromSources(t *testing.T) {
	tests := []struct {
		name        string
		hasCompat   bool
		hasBaseline bool
		want        ConfidenceTier
	}{
		{"both datasets is high", true, true, TierHigh},
		{"bcd only is medium", true, false, TierMedium},
		{"baseline only is medium", false, true, TierMedium},
		{"nothing is speculative", false, false, TierSpeculative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TierFromSources(tt.hasCompat, tt.hasBaseline)
			if got != tt.want {
				t.Errorf("TierFromSources(%v, %v) = %q, want %q", tt.hasCompat, tt.hasBaseline, got, tt.want)
			}
		})
	}
}

func TestBuilder_WithSources(t *testing.T) {
	resp := New().Data("x").WithSources(true, false).Build()

	if resp.Meta == nil || resp.Meta.Confidence == nil {
		t.Fatal("expected confidence metadata")
	}
	c := resp.Meta.Confidence
	if c.Tier != TierMedium {
		t.Errorf("Tier = %q, want %q", c.Tier, TierMedium)
	}
	if c.Score != 0.75 {
		t.Errorf("Score = %v, want 0.75", c.Score)
	}
	if len(c.Factors) != 2 {
		t.Fatalf("len(Factors) = %d, want 2", len(c.Factors))
	}
	if c.Factors[1].Factor != "web_features" || c.Factors[1].Status != "missing" {
		t.Errorf("Factors[1] = %+v, want missing web_features", c.Factors[1])
	}
	if len(c.Reasons) != 1 || c.Reasons[0] != "no-web-feature-mapping" {
		t.Errorf("Reasons = %v", c.Reasons)
	}
}

func TestBuilder_WithPagination(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		count    int
		offset   int
		hasMore  bool
		wantNext *int
	}{
		{"more remaining", 30, 10, 10, true, intPtr(20)},
		{"last page", 30, 10, 20, false, nil},
		{"empty", 0, 0, 0, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := New().WithPagination(tt.total, tt.count, tt.offset, tt.hasMore).Build()
			p := resp.Meta.Pagination
			if p.Total != tt.total || p.Count != tt.count || p.Offset != tt.offset || p.HasMore != tt.hasMore {
				t.Errorf("Pagination = %+v", p)
			}
			if (p.NextOffset == nil) != (tt.wantNext == nil) {
				t.Fatalf("NextOffset = %v, want %v", p.NextOffset, tt.wantNext)
			}
			if tt.wantNext != nil && *p.NextOffset != *tt.wantNext {
				t.Errorf("NextOffset = %d, want %d", *p.NextOffset, *tt.wantNext)
			}
		})
	}
}

func TestBuilder_WithTruncation(t *testing.T) {
	resp := New().WithTruncation(false, 10, 10, "").Build()
	if resp.Meta != nil {
		t.Error("untruncated response should not carry meta")
	}

	resp = New().WithTruncation(true, 25000, 40000, "character-limit").Build()
	if resp.Meta.Truncation == nil || !resp.Meta.Truncation.IsTruncated {
		t.Fatal("expected truncation metadata")
	}
	if resp.Meta.Truncation.Reason != "character-limit" {
		t.Errorf("Reason = %q, want character-limit", resp.Meta.Truncation.Reason)
	}
}

func TestBuilder_FromDatasets(t *testing.T) {
	resp := New().
		FromDatasets(DatasetRef{Name: "bcd", Version: "6.0.0"}).
		FromDatasets(DatasetRef{Name: "web-features"}).
		Build()

	if resp.Meta.Provenance == nil {
		t.Fatal("expected provenance")
	}
	if got := len(resp.Meta.Provenance.Datasets); got != 2 {
		t.Errorf("len(Datasets) = %d, want 2", got)
	}

	empty := New().FromDatasets().Build()
	if empty.Meta != nil {
		t.Error("no datasets should leave meta unset")
	}
}

func TestBuilder_Error(t *testing.T) {
	t.Run("plain error", func(t *testing.T) {
		resp := New().Error(fmt.Errorf("boom")).Build()
		if resp.Error == nil || *resp.Error != "boom" {
			t.Errorf("Error = %v, want boom", resp.Error)
		}
		if len(resp.SuggestedNextCalls) != 0 {
			t.Errorf("plain errors should not suggest calls")
		}
	})

	t.Run("web feature not found", func(t *testing.T) {
		resp := New().Data(nil).Error(errors.NewWebFeatureNotFoundError("containerQueries")).Build()
		if resp.Error == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(*resp.Error, "Suggestions:") {
			t.Errorf("Error = %q, want suggestions", *resp.Error)
		}
		if len(resp.SuggestedNextCalls) != 1 {
			t.Fatalf("len(SuggestedNextCalls) = %d, want 1", len(resp.SuggestedNextCalls))
		}
		call := resp.SuggestedNextCalls[0]
		if call.Tool != "compat_search_baseline" || call.Params["query"] != "containerQueries" {
			t.Errorf("SuggestedCall = %+v", call)
		}
	})

	t.Run("nil error", func(t *testing.T) {
		resp := New().Error(nil).Build()
		if resp.Error != nil {
			t.Errorf("Error = %v, want nil", *resp.Error)
		}
	})
}

func TestParseDrilldown(t *testing.T) {
	tests := []struct {
		name       string
		drilldown  errors.Drilldown
		wantTool   string
		wantParams map[string]interface{}
	}{
		{
			name:       "positional feature",
			drilldown:  errors.Drilldown{Label: "Check", Query: "compat_check api.fetch"},
			wantTool:   "compat_check",
			wantParams: map[string]interface{}{"feature": "api.fetch"},
		},
		{
			name:       "two positionals",
			drilldown:  errors.Drilldown{Label: "Support", Query: "compat_check_support chrome 120"},
			wantTool:   "compat_check_support",
			wantParams: map[string]interface{}{"browser": "chrome", "version": "120"},
		},
		{
			name:       "flags",
			drilldown:  errors.Drilldown{Label: "List", Query: "compat_list_baseline --status=low --group=css"},
			wantTool:   "compat_list_baseline",
			wantParams: map[string]interface{}{"status": "low", "group": "css"},
		},
		{
			name:       "unknown tool falls back",
			drilldown:  errors.Drilldown{Label: "X", Query: "other thing"},
			wantTool:   "other",
			wantParams: map[string]interface{}{"arg": "thing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := ParseDrilldown(tt.drilldown)
			if call == nil {
				t.Fatal("ParseDrilldown returned nil")
			}
			if call.Tool != tt.wantTool {
				t.Errorf("Tool = %q, want %q", call.Tool, tt.wantTool)
			}
			if call.Reason != tt.drilldown.Label {
				t.Errorf("Reason = %q, want %q", call.Reason, tt.drilldown.Label)
			}
			for k, v := range tt.wantParams {
				if call.Params[k] != v {
					t.Errorf("Params[%q] = %v, want %v", k, call.Params[k], v)
				}
			}
			if len(call.Params) != len(tt.wantParams) {
				t.Errorf("len(Params) = %d, want %d", len(call.Params), len(tt.wantParams))
			}
		})
	}

	if ParseDrilldown(errors.Drilldown{Query: "   "}) != nil {
		t.Error("empty query should return nil")
	}
}

func TestOperational(t *testing.T) {
	resp := Operational(map[string]int{"tools": 10})

	if resp.SchemaVersion != CurrentSchemaVersion {
		t.Errorf("SchemaVersion = %q, want %q", resp.SchemaVersion, CurrentSchemaVersion)
	}
	if resp.Meta.Confidence.Tier != TierHigh {
		t.Errorf("Tier = %q, want high", resp.Meta.Confidence.Tier)
	}
}

func TestResponseJSON(t *testing.T) {
	resp := New().Data(map[string]string{"id": "api.fetch"}).WithPagination(3, 1, 0, true).Build()

	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"schemaVersion":"1.0"`, `"has_more":true`, `"next_offset":1`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s missing %s", s, want)
		}
	}
	if strings.Contains(s, `"error"`) {
		t.Errorf("JSON %s should omit error", s)
	}
}

func intPtr(v int) *int { return &v }
