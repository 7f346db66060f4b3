package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	want := &Config{
		Equity: &EquityConfig{
			Samples:        DefaultSamples,
			OpponentRange:  "any",
			RangeCacheSize: DefaultRangeCacheSize,
		},
		History: &HistoryConfig{Dir: "db"},
		Log:     &LogConfig{Level: "info", Format: "console"},
	}
	if diff := cmp.Diff(want, Default()); diff != "" {
		t.Errorf("Default() mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, Default().Validate())
	assert.True(t, Default().Equity.RandomOpponents())
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poker.hcl")
	src := `
equity {
  samples        = 5000
  workers        = 4
  seed           = 42
  opponent_range = "22+,A2s+"
}

history {
  path = "/var/lib/poker/game_history_1.sqlite3"
}

log {
  level  = "DEBUG"
  format = "json"
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, c.Equity.Samples)
	assert.Equal(t, 4, c.Equity.Workers)
	assert.Equal(t, int64(42), c.Equity.Seed)
	assert.False(t, c.Equity.RandomOpponents())
	assert.Equal(t, DefaultRangeCacheSize, c.Equity.RangeCacheSize)
	assert.Equal(t, "/var/lib/poker/game_history_1.sqlite3", c.History.Path)
	assert.Empty(t, c.History.Dir, "explicit path disables directory lookup")
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
}

func TestLoadBytesPartial(t *testing.T) {
	c, err := LoadBytes([]byte(`log { level = "warn" }`), "inline.hcl")
	require.NoError(t, err)
	assert.Equal(t, "warn", c.Log.Level)
	assert.Equal(t, DefaultSamples, c.Equity.Samples)
	assert.Equal(t, "db", c.History.Dir)
}

func TestLoadBytesErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `equity {`},
		{"unknown attribute", `equity { sample = 3 }`},
		{"wrong type", `equity { samples = "many" }`},
		{"negative samples", `equity { samples = -1 }`},
		{"negative workers", `equity { workers = -2 }`},
		{"bad level", `log { level = "loud" }`},
		{"bad format", `log { format = "xml" }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.src), "test.hcl")
			assert.Error(t, err)
		})
	}
}
