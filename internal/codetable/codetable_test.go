package codetable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()

		yml := `
codes:
  - name: docsis_short
    n: 1120
    k: 840
    p: 56
  - name: wifi_648
    n: 648
    k: 324
    p: 27
`
		path := filepath.Join(t.TempDir(), "codes.yaml")
		require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

		reg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, 2, reg.Len())

		d, ok := reg.Lookup("docsis_short")
		require.True(t, ok)
		assert.Equal(t, 1120, d.N)
		assert.InDelta(t, 0.75, d.Rate(), 1e-12)

		// File order is slot order.
		assert.Equal(t, "docsis_short", reg.List()[0].Name)
		assert.Equal(t, "wifi_648", reg.List()[1].Name)
	})

	t.Run("rejects invalid descriptors", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			name    string
			yml     string
			wantErr string
		}{
			{"empty table", "codes: []", "defines no codes"},
			{"k >= n", "codes:\n  - {name: bad, n: 100, k: 100, p: 4}", "0 < k < n"},
			{"missing name", "codes:\n  - {n: 100, k: 50, p: 4}", "missing name"},
			{"bad yaml", "codes: [", "parsing code table"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "codes.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tc.yml), 0o600))

				_, err := Load(path)
				assert.ErrorContains(t, err, tc.wantErr)
			})
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "reading code table")
	})
}

func TestInsert(t *testing.T) {
	t.Parallel()

	a := Descriptor{Name: "a", N: 648, K: 324, P: 27}
	b := Descriptor{Name: "b", N: 1296, K: 648, P: 54}
	c := Descriptor{Name: "c", N: 1944, K: 972, P: 81}

	t.Run("insert ahead shifts existing entries", func(t *testing.T) {
		t.Parallel()

		reg := &Registry{}
		require.NoError(t, reg.Insert(0, a))
		require.NoError(t, reg.Insert(0, b))
		require.NoError(t, reg.Insert(1, c))

		names := []string{}
		for _, d := range reg.List() {
			names = append(names, d.Name)
		}
		assert.Equal(t, []string{"b", "c", "a"}, names)
	})

	t.Run("out of range slots clamp", func(t *testing.T) {
		t.Parallel()

		reg := &Registry{}
		require.NoError(t, reg.Insert(99, a))
		require.NoError(t, reg.Insert(-5, b))
		assert.Equal(t, "b", reg.List()[0].Name)
		assert.Equal(t, "a", reg.List()[1].Name)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		t.Parallel()

		reg := &Registry{}
		require.NoError(t, reg.Insert(0, a))
		err := reg.Insert(0, a)
		assert.ErrorContains(t, err, "already registered")
	})
}
