package dbconn

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewFileReaderReadsHeaderAsColnames(t *testing.T) {
	path := writeTempCSV(t, "id,name\n1,alice\n2,bob\n")
	r, err := NewFileReader(path)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, []string{"id", "name"}, r.Colnames())
	require.False(t, r.EOF())
}

func TestFileReaderNextLineIteratesAllRows(t *testing.T) {
	path := writeTempCSV(t, "id,name\n1,alice\n2,bob\n")
	r, err := NewFileReader(path)
	require.NoError(t, err)
	defer r.Close()

	var rows [][]string
	for !r.EOF() {
		line, err := r.NextLine()
		require.NoError(t, err)
		rows = append(rows, line)
	}

	require.Equal(t, [][]string{{"1", "alice"}, {"2", "bob"}}, rows)

	_, err = r.NextLine()
	require.ErrorIs(t, err, io.EOF)
}

func TestFileReaderDefaultsToCommaAndDoubleQuote(t *testing.T) {
	path := writeTempCSV(t, "id,name\n1,alice\n")
	r, err := NewFileReader(path)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, ',', r.Sep())
	require.Equal(t, '"', r.Quotechar())
}

func TestFileReaderWithFileDelimiterAndQuotechar(t *testing.T) {
	path := writeTempCSV(t, "id;name\n1;alice\n")
	r, err := NewFileReader(path, WithFileDelimiter(';'), WithFileQuotechar('\''))
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, []string{"id", "name"}, r.Colnames())
	require.Equal(t, ';', r.Sep())
	require.Equal(t, '\'', r.Quotechar())

	line, err := r.NextLine()
	require.NoError(t, err)
	require.Equal(t, []string{"1", "alice"}, line)
}

func TestNewFileReaderErrorsOnMissingFile(t *testing.T) {
	_, err := NewFileReader(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestFileReaderEmptyBodyIsImmediatelyEOF(t *testing.T) {
	path := writeTempCSV(t, "id,name\n")
	r, err := NewFileReader(path)
	require.NoError(t, err)
	defer r.Close()

	require.True(t, r.EOF())
	_, err = r.NextLine()
	require.ErrorIs(t, err, io.EOF)
}
