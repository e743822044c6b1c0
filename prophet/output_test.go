package prophet

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFileName(t *testing.T) {
	tests := []struct {
		name   string
		fields []FieldWeight
		want   string
	}{
		{
			"Defaults",
			[]FieldWeight{{Name: "Branche", Weight: 100}, {Name: "Website", Weight: 100}},
			"output-Branche=100-Website=100-DBSCAN.csv",
		},
		{
			"Fractions",
			[]FieldWeight{{Name: "Mitarbeiter", Weight: 12.5}, {Name: "Branche", Weight: 0}},
			"output-Mitarbeiter=12.5-Branche=0-DBSCAN.csv",
		},
		{
			"Separators",
			[]FieldWeight{{Name: "Umsatz/Jahr", Weight: 50}},
			"output-Umsatz-Jahr=50-DBSCAN.csv",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputFileName(tt.fields))
		})
	}
}

func TestCreateOutputFileVersions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	base := "output-Branche=100-DBSCAN.csv"

	var names []string
	for i := 0; i < 3; i++ {
		f, err := CreateOutputFile(dir, base)
		require.NoError(t, err)
		names = append(names, filepath.Base(f.Name()))
		require.NoError(t, f.Close())
	}

	assert.Equal(t, []string{
		"output-Branche=100-DBSCAN.csv",
		"output-Branche=100-DBSCAN-v1.csv",
		"output-Branche=100-DBSCAN-v2.csv",
	}, names)
}

func TestCreateOutputFileConcurrent(t *testing.T) {
	dir := t.TempDir()
	base := "output-Branche=100-DBSCAN.csv"

	const n = 8
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		names = make(map[string]struct{})
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, err := CreateOutputFile(dir, base)
			if !assert.NoError(t, err) {
				return
			}
			f.Close()
			mu.Lock()
			names[f.Name()] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, names, n)
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()
	fields := []FieldWeight{{Name: "Branche", Weight: 100}}
	tbl := NewTable([]string{"Accountname", "Branche"}, [][]string{{"Müller", "Tech"}})

	path, err := WriteOutput(dir, fields, tbl)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "output-Branche=100-DBSCAN.csv"), path)

	got, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, tbl, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "only the output file is left in the directory")
	assert.Equal(t, filepath.Base(path), entries[0].Name())
}

func TestOutputLockPath(t *testing.T) {
	dir := t.TempDir()

	a, err := outputLockPath(dir)
	require.NoError(t, err)
	b, err := outputLockPath(filepath.Join(dir, "."))
	require.NoError(t, err)
	other, err := outputLockPath(filepath.Join(dir, "sub"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
	assert.Equal(t, os.TempDir(), filepath.Dir(a))
}

func TestWriteOutputRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	fields := []FieldWeight{{Name: "Accountname", Weight: 100}}
	tbl := NewTable([]string{"Accountname"}, [][]string{{"東京"}})

	_, err := WriteOutput(dir, fields, tbl)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "output-Accountname=100-DBSCAN.csv"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}
