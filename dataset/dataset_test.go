package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = "n\telapsed\tt_ins\tt_ins_min\tt_ins_max\n" +
	"10\t0.5\t0.01\t0.005\t0.02\n" +
	"100\t1.5\t0.1\t0.05\t0.2\n" +
	"1000\t3\t1e+00\t0.5\t2\n"

func TestRead(t *testing.T) {
	tbl, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	require.Equal(t, 3, tbl.Len())
	require.Equal(t,
		[]string{"n", "elapsed", "t_ins", "t_ins_min", "t_ins_max"},
		tbl.Columns())

	n, err := tbl.Column("n")
	require.NoError(t, err)
	require.Equal(t, []float64{10, 100, 1000}, n)

	tins, err := tbl.Column("t_ins")
	require.NoError(t, err)
	require.Equal(t, []float64{0.01, 0.1, 1}, tins)

	m, err := tbl.Max("t_ins_max")
	require.NoError(t, err)
	require.Equal(t, 2.0, m)

	row := tbl.Row(1)
	require.Equal(t, 1.5, row["elapsed"])
}

func TestColumnIsCopy(t *testing.T) {
	tbl, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	n, err := tbl.Column("n")
	require.NoError(t, err)
	n[0] = -1

	again, err := tbl.Column("n")
	require.NoError(t, err)
	require.Equal(t, 10.0, again[0])
}

func TestMissingColumn(t *testing.T) {
	tbl, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	require.False(t, tbl.Has("q_dirs"))

	_, err = tbl.Column("q_dirs")
	require.ErrorIs(t, err, ErrMissingColumn)
	require.ErrorContains(t, err, "q_dirs")

	_, err = tbl.Max("q_dirs")
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not a number", "n\tt_ins\n10\tfast\n"},
		{"short row", "n\tt_ins\n10\n"},
		{"duplicate column", "n\tn\n1\t2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestHeaderOnly(t *testing.T) {
	tbl, err := Read(strings.NewReader("n\tt_ins\n"))
	require.NoError(t, err)
	require.Equal(t, 0, tbl.Len())

	m, err := tbl.Max("n")
	require.NoError(t, err)
	require.Zero(t, m)
}

func TestWriterOutputIsReadable(t *testing.T) {
	var buf bytes.Buffer

	w, err := NewWriter(&buf, []string{"n", "t_ins"})
	require.NoError(t, err)
	require.NoError(t, w.WriteRow(100, 0.000125))
	require.NoError(t, w.WriteRow(200, 1e-9))
	require.NoError(t, w.Flush())

	require.Equal(t, "n\tt_ins\n100\t0.000125\n200\t1e-09\n", buf.String())

	tbl, err := Read(&buf)
	require.NoError(t, err)
	tins, err := tbl.Column("t_ins")
	require.NoError(t, err)
	require.Equal(t, []float64{0.000125, 1e-9}, tins)
}

func TestWriterRejectsWrongWidth(t *testing.T) {
	w, err := NewWriter(&bytes.Buffer{}, []string{"n", "t_ins"})
	require.NoError(t, err)
	require.ErrorIs(t, w.WriteRow(1), ErrMalformed)

	_, err = NewWriter(&bytes.Buffer{}, nil)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestLoadAndUsable(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "spaix_insert_linear_split_linear.tsv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	empty := filepath.Join(dir, "empty.tsv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	require.True(t, Usable(path))
	require.False(t, Usable(empty))
	require.False(t, Usable(filepath.Join(dir, "absent.tsv")))
	require.False(t, Usable(dir))

	src, err := Load(path, "spaix linear")
	require.NoError(t, err)
	require.Equal(t, path, src.Path)
	require.Equal(t, "spaix linear", src.Label)
	require.Equal(t, 3, src.Table.Len())

	_, err = Load(empty, "empty")
	require.ErrorIs(t, err, ErrMalformed)
}
