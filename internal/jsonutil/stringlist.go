package jsonutil

import (
	"bytes"
	"encoding/json"
	"strings"
)

// StringList decodes a value that may be a single string or a list of
// strings. It marshals back to the shape it was decoded from.
type StringList struct {
	Values []string
	list   bool
}

// Strings builds a StringList that marshals as a JSON array.
func Strings(values ...string) StringList {
	return StringList{Values: values, list: true}
}

// String builds a StringList that marshals as a single JSON string.
func String(value string) StringList {
	return StringList{Values: []string{value}}
}

// First returns the first value, or "" when empty.
func (l StringList) First() string {
	if len(l.Values) == 0 {
		return ""
	}
	return l.Values[0]
}

// Contains reports whether v is one of the values.
func (l StringList) Contains(v string) bool {
	for _, s := range l.Values {
		if s == v {
			return true
		}
	}
	return false
}

// Join concatenates the values with sep.
func (l StringList) Join(sep string) string {
	return strings.Join(l.Values, sep)
}

// IsZero lets encoders with omitzero skip empty lists.
func (l StringList) IsZero() bool {
	return len(l.Values) == 0
}

// IsList reports whether the value was a JSON array.
func (l StringList) IsList() bool {
	return l.list
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*l = StringList{}
		return nil
	case len(trimmed) > 0 && trimmed[0] == '[':
		var values []string
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return err
		}
		*l = StringList{Values: values, list: true}
		return nil
	default:
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*l = StringList{Values: []string{s}}
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
func (l StringList) MarshalJSON() ([]byte, error) {
	if len(l.Values) == 0 {
		return []byte("null"), nil
	}
	if !l.list && len(l.Values) == 1 {
		return json.Marshal(l.Values[0])
	}
	return json.Marshal(l.Values)
}
