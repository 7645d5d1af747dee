// Package webfeatures models the W3C WebDX web-features dataset: features
// with their Baseline status, the BCD paths they cover, and feature groups.
package webfeatures

import (
	"bytes"
	"encoding/json"
	"fmt"

	"webcompat/internal/jsonutil"
)

// Level is a Baseline status.
type Level uint8

const (
	// NotBaseline is encoded as false.
	NotBaseline Level = iota
	// Low is "newly available".
	Low
	// High is "widely available".
	High
)

// ParseLevel accepts "high", "low" and "false".
func ParseLevel(s string) (Level, error) {
	switch s {
	case "high":
		return High, nil
	case "low":
		return Low, nil
	case "false":
		return NotBaseline, nil
	default:
		return NotBaseline, fmt.Errorf("invalid baseline status %q (valid: high, low, false)", s)
	}
}

// String returns "high", "low" or "false".
func (l Level) String() string {
	switch l {
	case High:
		return "high"
	case Low:
		return "low"
	default:
		return "false"
	}
}

// Ptr returns a pointer to l, for use as a filter.
func (l Level) Ptr() *Level {
	return &l
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Level) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("false")), bytes.Equal(trimmed, []byte("null")):
		*l = NotBaseline
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return fmt.Errorf("baseline status: %w", err)
	}
	parsed, err := ParseLevel(s)
	if err != nil || s == "false" {
		return fmt.Errorf("baseline status: unexpected value %q", s)
	}
	*l = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (l Level) MarshalJSON() ([]byte, error) {
	switch l {
	case High, Low:
		return json.Marshal(l.String())
	default:
		return []byte("false"), nil
	}
}

// MarshalYAML keeps the false encoding in YAML output.
func (l Level) MarshalYAML() (interface{}, error) {
	if l == NotBaseline {
		return false, nil
	}
	return l.String(), nil
}

// Kind values of a features entry.
const (
	KindFeature = "feature"
	KindMoved   = "moved"
	KindSplit   = "split"
)

// Status is the Baseline status of a feature.
type Status struct {
	Baseline         Level             `json:"baseline"`
	BaselineLowDate  string            `json:"baseline_low_date,omitempty"`
	BaselineHighDate string            `json:"baseline_high_date,omitempty"`
	Support          map[string]string `json:"support,omitempty"`
}

// Discouraged marks features that should not be used in new code.
type Discouraged struct {
	AccordingTo  []string `json:"according_to,omitempty"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// Feature is one entry of the features map.
type Feature struct {
	ID              string              `json:"id"`
	Kind            string              `json:"kind,omitempty"`
	Name            string              `json:"name"`
	Description     string              `json:"description,omitempty"`
	DescriptionHTML string              `json:"description_html,omitempty"`
	Spec            jsonutil.StringList `json:"spec,omitzero"`
	Group           jsonutil.StringList `json:"group,omitzero"`
	Snapshot        jsonutil.StringList `json:"snapshot,omitzero"`
	Caniuse         jsonutil.StringList `json:"caniuse,omitzero"`
	CompatFeatures  []string            `json:"compat_features,omitempty"`
	Status          Status              `json:"status"`
	Discouraged     *Discouraged        `json:"discouraged,omitempty"`
	RedirectTarget  string              `json:"redirect_target,omitempty"`
	RedirectTargets []string            `json:"redirect_targets,omitempty"`
}

// IsFeature reports whether the entry is a real feature rather than a
// moved or split redirect. Older releases of the dataset omit kind.
func (f *Feature) IsFeature() bool {
	return f.Kind == "" || f.Kind == KindFeature
}

// InGroup reports whether the feature belongs to group.
func (f *Feature) InGroup(group string) bool {
	return f.Group.Contains(group)
}

// Group is an entry of the groups map.
type Group struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

// Snapshot is an entry of the snapshots map.
type Snapshot struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Spec string `json:"spec,omitempty"`
}
