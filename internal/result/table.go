package result

// Table is an ordered, append-only sequence of rows. Insertion order is
// execution order; rows are never mutated or removed once appended. A
// sweep creates its table empty and grows it one row per completed
// combination, so a partially failed sweep still leaves every finished
// row inspectable.
type Table struct {
	rows []Row
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Append adds a row at the end of the table.
func (t *Table) Append(r Row) {
	t.rows = append(t.rows, r)
}

// Len reports the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the i-th row in insertion order.
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// Rows returns a copy of the row slice in insertion order.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Filter returns a new table containing the rows satisfying pred, keeping
// their relative order. The source table is left untouched. Typical use is
// discarding statistically insignificant samples, e.g. rows with too few
// observed bit errors.
func (t *Table) Filter(pred func(Row) bool) *Table {
	out := NewTable()
	for _, r := range t.rows {
		if pred(r) {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// Columns pivots the table into a mapping from field name to the ordered
// values observed in that column. Rows missing a field contribute nothing
// to that column, so columns from ragged tables may differ in length.
func (t *Table) Columns() map[string][]Value {
	out := make(map[string][]Value)
	for _, r := range t.rows {
		for _, name := range r.names {
			out[name] = append(out[name], r.values[name])
		}
	}
	return out
}

// FieldNames returns the union of field names across all rows, in first
// appearance order.
func (t *Table) FieldNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range t.rows {
		for _, name := range r.names {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
