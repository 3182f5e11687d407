package tracker

import (
	"testing"

	"github.com/relauto/engine/fingerprint"
	"github.com/stretchr/testify/require"
)

func TestIdempotentAdd(t *testing.T) {
	tr := New[string](16)
	fp := fingerprint.OrdinaryDataFrame("population", "v1")

	tr.Add(fp, "first")
	tr.Add(fp, "second") // first-writer-wins

	got, ok := tr.Retrieve(fp)
	require.True(t, ok)
	require.Equal(t, "first", got)
	require.Equal(t, 1, tr.Len())
}

func TestRetrieveMiss(t *testing.T) {
	tr := New[int](4)
	_, ok := tr.Retrieve(fingerprint.OrdinaryDataFrame("x", "1"))
	require.False(t, ok)
}

func TestEvictsOldestOnCapacity(t *testing.T) {
	tr := New[int](2)
	fp0 := fingerprint.OrdinaryDataFrame("a", "0")
	fp1 := fingerprint.OrdinaryDataFrame("b", "0")
	fp2 := fingerprint.OrdinaryDataFrame("c", "0")

	tr.Add(fp0, 0)
	tr.Add(fp1, 1)
	tr.Add(fp2, 2) // evicts fp0

	_, ok := tr.Retrieve(fp0)
	require.False(t, ok)

	v1, ok := tr.Retrieve(fp1)
	require.True(t, ok)
	require.Equal(t, 1, v1)

	v2, ok := tr.Retrieve(fp2)
	require.True(t, ok)
	require.Equal(t, 2, v2)
}

func TestClear(t *testing.T) {
	tr := New[int](8)
	tr.Add(fingerprint.OrdinaryDataFrame("a", "0"), 1)
	tr.Clear()
	require.Equal(t, 0, tr.Len())
}
