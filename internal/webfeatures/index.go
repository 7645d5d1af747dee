package webfeatures

// FindByCompatPath returns the id of the web feature that lists path among
// its compat_features. When several features list the same path, the one
// that comes first in document order wins.
func (d *Data) FindByCompatPath(path string) (string, bool) {
	d.reverseOnce.Do(d.buildReverse)
	id, ok := d.reverse[path]
	return id, ok
}

// ReverseIndexSize returns the number of distinct BCD paths indexed.
func (d *Data) ReverseIndexSize() int {
	d.reverseOnce.Do(d.buildReverse)
	return len(d.reverse)
}

func (d *Data) buildReverse() {
	reverse := make(map[string]string)
	for _, f := range d.features {
		for _, path := range f.CompatFeatures {
			if _, taken := reverse[path]; taken {
				continue
			}
			reverse[path] = f.ID
		}
	}
	d.reverse = reverse
}
