// Package codetable holds the catalogue of LDPC code parameter sets a
// block executor can be asked to run. Codes are identified by name; the
// slot order mirrors the parameter table order in the decoder, which is
// why new codes are inserted ahead of existing entries rather than
// appended.
package codetable

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Descriptor is one precomputed LDPC code parameter set.
type Descriptor struct {
	// Name identifies the code in run configurations, e.g. "docsis_short".
	Name string `yaml:"name" json:"name"`
	// N is the codeword length in bits.
	N int `yaml:"n" json:"n"`
	// K is the information length in bits.
	K int `yaml:"k" json:"k"`
	// P is the sub-matrix (lifting) size.
	P int `yaml:"p" json:"p"`
}

// Rate returns the code rate K/N.
func (d Descriptor) Rate() float64 {
	if d.N == 0 {
		return 0
	}
	return float64(d.K) / float64(d.N)
}

func (d Descriptor) validate() error {
	if d.Name == "" {
		return fmt.Errorf("code descriptor missing name")
	}
	if d.N <= 0 || d.K <= 0 || d.K >= d.N {
		return fmt.Errorf("code %q: need 0 < k < n, got n=%d k=%d", d.Name, d.N, d.K)
	}
	if d.P <= 0 {
		return fmt.Errorf("code %q: sub-matrix size must be positive, got %d", d.Name, d.P)
	}
	return nil
}

// Registry is an ordered code table. The zero value is empty and usable.
type Registry struct {
	entries []Descriptor
}

// Load reads a YAML code table file of the form:
//
//	codes:
//	  - name: docsis_short
//	    n: 1120
//	    k: 840
//	    p: 56
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading code table: %w", err)
	}

	var file struct {
		Codes []Descriptor `yaml:"codes"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing code table %s: %w", path, err)
	}
	if len(file.Codes) == 0 {
		return nil, fmt.Errorf("code table %s defines no codes", path)
	}

	reg := &Registry{}
	for _, d := range file.Codes {
		if err := reg.Insert(len(reg.entries), d); err != nil {
			return nil, fmt.Errorf("code table %s: %w", path, err)
		}
	}
	return reg, nil
}

// Insert places d at the given slot, shifting existing entries back. Slots
// beyond the current end are clamped, so Insert(0, d) always prepends and
// a large slot appends. Duplicate names are rejected.
func (r *Registry) Insert(slot int, d Descriptor) error {
	if err := d.validate(); err != nil {
		return err
	}
	if _, ok := r.Lookup(d.Name); ok {
		return fmt.Errorf("code %q already registered", d.Name)
	}
	if slot < 0 {
		slot = 0
	}
	if slot > len(r.entries) {
		slot = len(r.entries)
	}
	r.entries = append(r.entries, Descriptor{})
	copy(r.entries[slot+1:], r.entries[slot:])
	r.entries[slot] = d
	return nil
}

// Lookup finds a code by name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	for _, d := range r.entries {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// List returns the descriptors in slot order. The returned slice is a copy.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len reports the number of registered codes.
func (r *Registry) Len() int {
	return len(r.entries)
}
