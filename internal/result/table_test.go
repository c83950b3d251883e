package result

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRow(snr float64, errs int64) Row {
	return NewRow().
		With("snr_db", Float(snr)).
		With("bit_errors_post", Int(errs)).
		With("code", Str("docsis_short"))
}

func TestRowWith(t *testing.T) {
	t.Parallel()

	t.Run("does not mutate the receiver", func(t *testing.T) {
		t.Parallel()

		base := NewRow().With("a", Int(1))
		derived := base.With("b", Int(2))

		assert.Equal(t, 1, base.Len())
		assert.Equal(t, 2, derived.Len())
		_, ok := base.Get("b")
		assert.False(t, ok)
	})

	t.Run("replacing a field keeps its position", func(t *testing.T) {
		t.Parallel()

		r := NewRow().With("a", Int(1)).With("b", Int(2)).With("a", Int(9))

		assert.Equal(t, []string{"a", "b"}, r.Names())
		v, ok := r.Get("a")
		require.True(t, ok)
		i, _ := v.Int64()
		assert.Equal(t, int64(9), i)
	})
}

func TestTableAppendOrder(t *testing.T) {
	t.Parallel()

	tbl := NewTable()
	for _, snr := range []float64{3.0, 3.25, 3.5} {
		tbl.Append(sampleRow(snr, 10))
	}

	require.Equal(t, 3, tbl.Len())
	for i, want := range []float64{3.0, 3.25, 3.5} {
		v, ok := tbl.Row(i).Get("snr_db")
		require.True(t, ok)
		f, _ := v.Float64()
		assert.Equal(t, want, f)
	}
}

func TestTableFilter(t *testing.T) {
	t.Parallel()

	tbl := NewTable()
	tbl.Append(sampleRow(3.0, 12))
	tbl.Append(sampleRow(3.25, 3))
	tbl.Append(sampleRow(3.5, 7))

	// Keep rows with more than 5 observed bit errors.
	kept := tbl.Filter(func(r Row) bool {
		v, _ := r.Get("bit_errors_post")
		n, _ := v.Int64()
		return n > 5
	})

	// Source table untouched, survivors keep relative order.
	assert.Equal(t, 3, tbl.Len())
	require.Equal(t, 2, kept.Len())
	first, _ := kept.Row(0).Get("snr_db")
	second, _ := kept.Row(1).Get("snr_db")
	f0, _ := first.Float64()
	f1, _ := second.Float64()
	assert.Equal(t, 3.0, f0)
	assert.Equal(t, 3.5, f1)

	t.Run("never grows", func(t *testing.T) {
		all := tbl.Filter(func(Row) bool { return true })
		assert.Equal(t, tbl.Len(), all.Len())
	})
}

func TestTableColumns(t *testing.T) {
	t.Parallel()

	tbl := NewTable()
	tbl.Append(sampleRow(3.0, 1))
	tbl.Append(sampleRow(3.25, 2))

	cols := tbl.Columns()
	require.Len(t, cols["snr_db"], 2)
	require.Len(t, cols["code"], 2)
	s, _ := cols["code"][0].Str()
	assert.Equal(t, "docsis_short", s)
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	tbl := NewTable()
	tbl.Append(NewRow().With("snr_db", Float(3.0)).With("post_ber", Float(0.001)))
	tbl.Append(NewRow().With("snr_db", Float(3.25)).With("pass", Bool(true)))

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))

	want := "snr_db,post_ber,pass\n" +
		"3,0.001,\n" +
		"3.25,,true\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVDeterministic(t *testing.T) {
	t.Parallel()

	build := func() *Table {
		tbl := NewTable()
		tbl.Append(sampleRow(3.0, 12))
		tbl.Append(sampleRow(3.25, 3))
		return tbl
	}

	var a, b bytes.Buffer
	require.NoError(t, build().WriteCSV(&a))
	require.NoError(t, build().WriteCSV(&b))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	tbl := NewTable()
	for _, f := range []float64{1, 2, 3, 4} {
		tbl.Append(NewRow().With("x", Float(f)).With("label", Str("run")))
	}

	s, err := tbl.Summarize("x")
	require.NoError(t, err)
	assert.Equal(t, 4, s.N)
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	assert.InDelta(t, 1.2909944487358056, s.StdDev, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)

	_, err = tbl.Summarize("label")
	assert.ErrorContains(t, err, "non-numeric")

	_, err = tbl.Summarize("missing")
	assert.ErrorContains(t, err, "no values")
}
