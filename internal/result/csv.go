package result

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the table as CSV: a header built from the union of field
// names in first-appearance order, then one record per row. Cells for
// fields a row does not carry are left empty.
func (t *Table) WriteCSV(w io.Writer) error {
	names := t.FieldNames()

	cw := csv.NewWriter(w)
	if err := cw.Write(names); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	record := make([]string, len(names))
	for _, r := range t.rows {
		for i, name := range names {
			if v, ok := r.values[name]; ok {
				record[i] = v.String()
			} else {
				record[i] = ""
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
