// Package jsonutil holds small JSON helpers shared by the dataset decoders:
// order-preserving object traversal and the string-or-list value shape used
// throughout BCD and web-features.
package jsonutil

import (
	"encoding/json"
	"fmt"
)

// WalkObject consumes a JSON object from dec, calling fn once per member in
// document order. fn must consume exactly one value from dec.
func WalkObject(dec *json.Decoder, fn func(key string) error) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	return WalkMembers(dec, fn)
}

// WalkMembers is WalkObject for a decoder positioned just after the opening
// brace. It consumes the closing brace.
func WalkMembers(dec *json.Decoder, fn func(key string) error) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		if err := fn(key); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	// closing '}'
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// Skip consumes the next value from dec without decoding it.
func Skip(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	return SkipAfter(dec, tok)
}

// SkipAfter consumes the remainder of a value whose first token was tok.
func SkipAfter(dec *json.Decoder, tok json.Token) error {
	d, ok := tok.(json.Delim)
	if !ok || d == '}' || d == ']' {
		return nil
	}

	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
