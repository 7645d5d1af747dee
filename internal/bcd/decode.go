package bcd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"webcompat/internal/jsonutil"
)

// Data is a decoded Browser Compat Data document.
type Data struct {
	Meta Meta

	root      *Node
	browsers  []Browser
	browserIx map[string]int

	indexOnce sync.Once
	index     map[string][]string
}

// Decode reads a complete BCD document (the published data.json) from r.
// Object key order is preserved for the feature tree and browser releases.
func Decode(r io.Reader) (*Data, error) {
	dec := json.NewDecoder(r)
	data := &Data{
		root:      NewNode(nil),
		browserIx: make(map[string]int),
	}

	err := jsonutil.WalkObject(dec, func(key string) error {
		switch key {
		case "__meta":
			return dec.Decode(&data.Meta)
		case "browsers":
			return data.decodeBrowsers(dec)
		}

		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '{' {
			return jsonutil.SkipAfter(dec, tok)
		}
		node, err := decodeNode(dec)
		if err != nil {
			return err
		}
		data.root.AddChild(key, node)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("decode browser compat data: %w", err)
	}

	return data, nil
}

// decodeNode reads the members of an object whose opening brace has already
// been consumed.
func decodeNode(dec *json.Decoder) (*Node, error) {
	node := NewNode(nil)

	err := jsonutil.WalkMembers(dec, func(key string) error {
		if key == "__compat" {
			var rec CompatRecord
			if err := dec.Decode(&rec); err != nil {
				return err
			}
			node.Compat = &rec
			return nil
		}
		if strings.HasPrefix(key, "__") {
			return jsonutil.Skip(dec)
		}

		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if delim, ok := tok.(json.Delim); ok && delim == '{' {
			child, err := decodeNode(dec)
			if err != nil {
				return err
			}
			node.AddChild(key, child)
			return nil
		}
		return jsonutil.SkipAfter(dec, tok)
	})
	if err != nil {
		return nil, err
	}

	return node, nil
}

func (d *Data) decodeBrowsers(dec *json.Decoder) error {
	return jsonutil.WalkObject(dec, func(id string) error {
		b := Browser{ID: id}
		err := jsonutil.WalkObject(dec, func(field string) error {
			switch field {
			case "name":
				return dec.Decode(&b.Name)
			case "type":
				return dec.Decode(&b.Type)
			case "preview_name":
				return dec.Decode(&b.PreviewName)
			case "upstream":
				return dec.Decode(&b.Upstream)
			case "releases":
				return jsonutil.WalkObject(dec, func(version string) error {
					var rel Release
					if err := dec.Decode(&rel); err != nil {
						return err
					}
					rel.Version = version
					b.Releases = append(b.Releases, rel)
					return nil
				})
			default:
				return jsonutil.Skip(dec)
			}
		})
		if err != nil {
			return err
		}

		d.browserIx[id] = len(d.browsers)
		d.browsers = append(d.browsers, b)
		return nil
	})
}
