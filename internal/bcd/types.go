// Package bcd models MDN's Browser Compat Data document: the nested feature
// tree, per-browser support statements, and the browser release catalogue.
//
// A Data value is immutable once decoded. Derived indices are built lazily on
// first use and kept for the life of the process.
package bcd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"webcompat/internal/jsonutil"
)

// VersionKind distinguishes the three shapes a version field can take.
type VersionKind uint8

const (
	// VersionUnknown is null or an absent field.
	VersionUnknown VersionKind = iota
	// VersionBool is true (supported, version unknown) or false (unsupported).
	VersionBool
	// VersionString is a concrete version such as "120", "≤37" or "preview".
	VersionString
)

// VersionValue is the value of version_added or version_removed.
type VersionValue struct {
	Kind    VersionKind
	Bool    bool
	Version string
}

// Version returns a VersionValue holding a concrete version string.
func Version(v string) VersionValue {
	return VersionValue{Kind: VersionString, Version: v}
}

// Supported returns a boolean VersionValue.
func Supported(b bool) VersionValue {
	return VersionValue{Kind: VersionBool, Bool: b}
}

// IsVersion reports whether v is a concrete version string.
func (v VersionValue) IsVersion() bool {
	return v.Kind == VersionString
}

// IsSupported reports whether the value signals support (true or a version).
func (v VersionValue) IsSupported() bool {
	switch v.Kind {
	case VersionString:
		return true
	case VersionBool:
		return v.Bool
	default:
		return false
	}
}

// Equals reports whether v is exactly the version string s.
func (v VersionValue) Equals(s string) bool {
	return v.Kind == VersionString && v.Version == s
}

// String renders the value the way it appears in the source document.
func (v VersionValue) String() string {
	switch v.Kind {
	case VersionString:
		return v.Version
	case VersionBool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return "null"
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *VersionValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*v = VersionValue{}
	case bytes.Equal(trimmed, []byte("true")):
		*v = Supported(true)
	case bytes.Equal(trimmed, []byte("false")):
		*v = Supported(false)
	default:
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("version value: %w", err)
		}
		*v = Version(s)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (v VersionValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case VersionString:
		return json.Marshal(v.Version)
	case VersionBool:
		return json.Marshal(v.Bool)
	default:
		return []byte("null"), nil
	}
}

// Flag is a configuration switch a browser needs to expose a feature.
type Flag struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	ValueToSet string `json:"value_to_set,omitempty"`
}

// Statement describes support for a feature in one browser under one set of
// conditions.
type Statement struct {
	VersionAdded          VersionValue        `json:"version_added"`
	VersionRemoved        *VersionValue       `json:"version_removed,omitempty"`
	Prefix                string              `json:"prefix,omitempty"`
	AlternativeName       string              `json:"alternative_name,omitempty"`
	Flags                 []Flag              `json:"flags,omitempty"`
	PartialImplementation bool                `json:"partial_implementation,omitempty"`
	Notes                 jsonutil.StringList `json:"notes,omitzero"`
	ImplURL               jsonutil.StringList `json:"impl_url,omitzero"`
}

// HasFlags reports whether the statement requires a flag.
func (s Statement) HasFlags() bool {
	return len(s.Flags) > 0
}

// SupportEntry is the per-browser support value: either a single statement
// or an ordered list of alternative statements.
type SupportEntry struct {
	statements []Statement
	multiple   bool
}

// Single wraps one statement.
func Single(s Statement) SupportEntry {
	return SupportEntry{statements: []Statement{s}}
}

// Multiple wraps an ordered list of statements.
func Multiple(ss ...Statement) SupportEntry {
	return SupportEntry{statements: ss, multiple: true}
}

// Statements returns the statements in document order.
func (e SupportEntry) Statements() []Statement {
	return e.statements
}

// IsMultiple reports whether the entry was a list.
func (e SupportEntry) IsMultiple() bool {
	return e.multiple
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *SupportEntry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var ss []Statement
		if err := json.Unmarshal(trimmed, &ss); err != nil {
			return err
		}
		*e = Multiple(ss...)
		return nil
	}

	var s Statement
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return err
	}
	*e = Single(s)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (e SupportEntry) MarshalJSON() ([]byte, error) {
	if e.multiple {
		if e.statements == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(e.statements)
	}
	if len(e.statements) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(e.statements[0])
}

// Status is the standardisation status of a feature.
type Status struct {
	Experimental  bool `json:"experimental"`
	StandardTrack bool `json:"standard_track"`
	Deprecated    bool `json:"deprecated"`
}

// CompatRecord is the __compat payload of a leaf feature.
type CompatRecord struct {
	Description string                  `json:"description,omitempty"`
	MDNURL      string                  `json:"mdn_url,omitempty"`
	SpecURL     jsonutil.StringList     `json:"spec_url,omitzero"`
	SourceFile  string                  `json:"source_file,omitempty"`
	Tags        []string                `json:"tags,omitempty"`
	Support     map[string]SupportEntry `json:"support"`
	Status      *Status                 `json:"status,omitempty"`
}

// Meta is the __meta header of the document.
type Meta struct {
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}
