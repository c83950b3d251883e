package result

// Row is an immutable, ordered mapping from field name to scalar value.
// Each row is produced by exactly one executor call and carries both the
// measured statistics and the configuration that produced them, so rows
// stay self-describing once they leave the sweep.
type Row struct {
	names  []string
	values map[string]Value
}

// NewRow returns an empty row.
func NewRow() Row {
	return Row{}
}

// With returns a copy of the row with the named field set. Setting an
// existing field replaces its value but keeps its position; new fields
// append. The receiver is never modified.
func (r Row) With(name string, v Value) Row {
	out := Row{
		names:  make([]string, len(r.names), len(r.names)+1),
		values: make(map[string]Value, len(r.values)+1),
	}
	copy(out.names, r.names)
	for k, val := range r.values {
		out.values[k] = val
	}
	if _, exists := out.values[name]; !exists {
		out.names = append(out.names, name)
	}
	out.values[name] = v
	return out
}

// Get looks up a field by name.
func (r Row) Get(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Names returns the field names in insertion order. The returned slice is
// a copy.
func (r Row) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len reports the number of fields.
func (r Row) Len() int {
	return len(r.names)
}
