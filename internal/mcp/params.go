package mcp

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"webcompat/internal/errors"
)

// toolParams wraps the decoded arguments of a tools/call request. Numbers
// arrive as float64.
type toolParams map[string]interface{}

// allowOnly rejects arguments the tool does not declare.
func (p toolParams) allowOnly(names ...string) error {
	allowed := make(map[string]bool, len(names)+1)
	for _, n := range names {
		allowed[n] = true
	}
	allowed["response_format"] = true

	var unknown []string
	for k := range p {
		if !allowed[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return errors.NewInvalidParameterError(unknown[0], "unrecognized parameter")
}

// requiredString returns a string argument of at most maxLen characters
// (0 means unbounded) that is not blank.
func (p toolParams) requiredString(name string, maxLen int) (string, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return "", errors.NewInvalidParameterError(name, "is required")
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.NewInvalidParameterError(name, "must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return "", errors.NewInvalidParameterError(name, "must not be empty")
	}
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		return "", errors.NewInvalidParameterError(name, fmt.Sprintf("must not exceed %d characters", maxLen))
	}
	return s, nil
}

// optionalString returns "" when the argument is absent.
func (p toolParams) optionalString(name string) (string, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.NewInvalidParameterError(name, "must be a string")
	}
	return s, nil
}

// enum returns an optional string argument restricted to allowed values.
func (p toolParams) enum(name string, allowed []string) (string, error) {
	s, err := p.optionalString(name)
	if err != nil || s == "" {
		return s, err
	}
	for _, a := range allowed {
		if s == a {
			return s, nil
		}
	}
	return "", errors.NewInvalidParameterError(name, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
}

// stringSlice returns an optional array of non-empty strings whose length
// lies in [minItems, maxItems]; a zero bound is not checked.
func (p toolParams) stringSlice(name string, minItems, maxItems int) ([]string, error) {
	v, ok := p[name]
	if !ok || v == nil {
		if minItems > 0 {
			return nil, errors.NewInvalidParameterError(name, "is required")
		}
		return nil, nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, errors.NewInvalidParameterError(name, "must be an array of strings")
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok || s == "" {
			return nil, errors.NewInvalidParameterError(name, "must contain only non-empty strings")
		}
		out = append(out, s)
	}

	if minItems > 0 && len(out) < minItems {
		return nil, errors.NewInvalidParameterError(name, fmt.Sprintf("at least %d items required", minItems))
	}
	if maxItems > 0 && len(out) > maxItems {
		return nil, errors.NewInvalidParameterError(name, fmt.Sprintf("at most %d items allowed", maxItems))
	}
	return out, nil
}

// integer returns an optional integer argument in [lo, hi]; hi < 0 means
// unbounded.
func (p toolParams) integer(name string, def, lo, hi int) (int, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return def, nil
	}
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, errors.NewInvalidParameterError(name, "must be an integer")
	}
	if f < float64(lo) || (hi >= 0 && f > float64(hi)) {
		if hi < 0 {
			return 0, errors.NewInvalidParameterError(name, fmt.Sprintf("must be at least %d", lo))
		}
		return 0, errors.NewInvalidParameterError(name, fmt.Sprintf("must be between %d and %d", lo, hi))
	}
	return int(f), nil
}

// window returns the limit and offset arguments, bounded by the engine's
// page sizes.
func (s *MCPServer) window(p toolParams) (limit, offset int, err error) {
	defaultLimit, maxLimit := s.engine.Limits()
	if limit, err = p.integer("limit", defaultLimit, 1, maxLimit); err != nil {
		return 0, 0, err
	}
	if offset, err = p.integer("offset", 0, 0, -1); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

// responseFormat returns the response_format argument, markdown by default.
func (p toolParams) responseFormat() (string, error) {
	f, err := p.enum("response_format", []string{FormatMarkdown, FormatJSON})
	if err != nil {
		return "", err
	}
	if f == "" {
		return FormatMarkdown, nil
	}
	return f, nil
}
