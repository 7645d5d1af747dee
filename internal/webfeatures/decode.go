package webfeatures

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"webcompat/internal/jsonutil"
)

// Data is a decoded web-features document. Entries keep document order.
type Data struct {
	features  []*Feature
	byID      map[string]*Feature
	groups    []Group
	snapshots []Snapshot

	reverseOnce sync.Once
	reverse     map[string]string
}

// Decode reads a complete web-features data.json from r.
func Decode(r io.Reader) (*Data, error) {
	dec := json.NewDecoder(r)
	data := &Data{byID: make(map[string]*Feature)}

	err := jsonutil.WalkObject(dec, func(key string) error {
		switch key {
		case "features":
			return jsonutil.WalkObject(dec, func(id string) error {
				f := &Feature{}
				if err := dec.Decode(f); err != nil {
					return err
				}
				f.ID = id
				data.add(f)
				return nil
			})
		case "groups":
			return jsonutil.WalkObject(dec, func(id string) error {
				g := Group{}
				if err := dec.Decode(&g); err != nil {
					return err
				}
				g.ID = id
				data.groups = append(data.groups, g)
				return nil
			})
		case "snapshots":
			return jsonutil.WalkObject(dec, func(id string) error {
				s := Snapshot{}
				if err := dec.Decode(&s); err != nil {
					return err
				}
				s.ID = id
				data.snapshots = append(data.snapshots, s)
				return nil
			})
		default:
			return jsonutil.Skip(dec)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("decode web-features data: %w", err)
	}

	return data, nil
}

// New builds a Data value from features already in document order.
func New(features []*Feature, groups []Group) *Data {
	data := &Data{byID: make(map[string]*Feature), groups: groups}
	for _, f := range features {
		data.add(f)
	}
	return data
}

func (d *Data) add(f *Feature) {
	if _, exists := d.byID[f.ID]; exists {
		return
	}
	d.byID[f.ID] = f
	d.features = append(d.features, f)
}

// Feature returns the entry for id, which may be a redirect.
func (d *Data) Feature(id string) (*Feature, bool) {
	f, ok := d.byID[id]
	return f, ok
}

// Resolve returns the feature for id, following a "moved" redirect once.
// Split entries and unknown ids are not found.
func (d *Data) Resolve(id string) (*Feature, bool) {
	f, ok := d.byID[id]
	if !ok {
		return nil, false
	}
	if f.Kind == KindMoved && f.RedirectTarget != "" {
		f, ok = d.byID[f.RedirectTarget]
		if !ok {
			return nil, false
		}
	}
	if !f.IsFeature() {
		return nil, false
	}
	return f, true
}

// Features returns every real feature in document order, skipping
// redirect entries.
func (d *Data) Features() []*Feature {
	out := make([]*Feature, 0, len(d.features))
	for _, f := range d.features {
		if f.IsFeature() {
			out = append(out, f)
		}
	}
	return out
}

// Len returns the number of entries including redirects.
func (d *Data) Len() int {
	return len(d.features)
}

// Groups returns the groups in document order.
func (d *Data) Groups() []Group {
	return d.groups
}

// Snapshots returns the snapshots in document order.
func (d *Data) Snapshots() []Snapshot {
	return d.snapshots
}
