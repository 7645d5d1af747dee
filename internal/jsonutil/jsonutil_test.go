package jsonutil

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkObjectPreservesOrder(t *testing.T) {
	dec := json.NewDecoder(strings.NewReader(`{"zeta": 1, "alpha": {"x": [1, {"y": 2}]}, "mid": "s"}`))

	var keys []string
	err := WalkObject(dec, func(key string) error {
		keys = append(keys, key)
		return Skip(dec)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)
}

func TestWalkObjectNested(t *testing.T) {
	dec := json.NewDecoder(strings.NewReader(`{"a": {"b": 1, "c": 2}, "d": 3}`))

	var seen []string
	err := WalkObject(dec, func(key string) error {
		if key != "a" {
			seen = append(seen, key)
			return Skip(dec)
		}
		return WalkObject(dec, func(inner string) error {
			seen = append(seen, key+"."+inner)
			var v int
			return dec.Decode(&v)
		})
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.b", "a.c", "d"}, seen)
}

func TestWalkObjectRejectsArray(t *testing.T) {
	dec := json.NewDecoder(strings.NewReader(`[1, 2]`))
	err := WalkObject(dec, func(string) error { return nil })
	assert.Error(t, err)
}

func TestStringList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     []string
		wantList bool
		output   string
	}{
		{name: "single", input: `"https://a"`, want: []string{"https://a"}, output: `"https://a"`},
		{name: "list", input: `["a", "b"]`, want: []string{"a", "b"}, wantList: true, output: `["a","b"]`},
		{name: "single element list", input: `["a"]`, want: []string{"a"}, wantList: true, output: `["a"]`},
		{name: "null", input: `null`, want: nil, output: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l StringList
			require.NoError(t, json.Unmarshal([]byte(tt.input), &l))
			assert.Equal(t, tt.want, l.Values)
			assert.Equal(t, tt.wantList, l.IsList())

			out, err := json.Marshal(l)
			require.NoError(t, err)
			assert.JSONEq(t, tt.output, string(out))
		})
	}
}

func TestStringListHelpers(t *testing.T) {
	l := Strings("css", "grid")
	assert.Equal(t, "css", l.First())
	assert.True(t, l.Contains("grid"))
	assert.False(t, l.Contains("flex"))
	assert.Equal(t, "css; grid", l.Join("; "))
	assert.Equal(t, "", StringList{}.First())
	assert.True(t, StringList{}.IsZero())
	assert.Equal(t, "x", String("x").First())
}
