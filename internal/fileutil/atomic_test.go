package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are cleaned up")
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	t.Parallel()

	err := WriteFileAtomic(filepath.Join(t.TempDir(), "missing", "report.txt"), []byte("x"), 0o644)
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "equity.json")
	report := struct {
		Equities []float64 `json:"equities"`
		Samples  int       `json:"samples"`
	}{[]float64{0.25, 0.75}, 400}

	require.NoError(t, WriteJSON(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"equities": [0.25, 0.75], "samples": 400}`, string(data))
	assert.Equal(t, byte('\n'), data[len(data)-1])

	require.NoError(t, WriteJSON(path, map[string][]string{"turn": {"Qh", "7h", "2c", "9d"}, "flop": {"Qh", "7h", "2c"}}))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"flop": ["Qh", "7h", "2c"], "turn": ["Qh", "7h", "2c", "9d"]}`, string(data))

	err = WriteJSON(path, map[string]interface{}{"bad": make(chan int)})
	assert.Error(t, err)
}
