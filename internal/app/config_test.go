package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "optionalize.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadConfigFile(t *testing.T) {
	t.Run("all keys", func(t *testing.T) {
		path := writeConfig(t, `
wrapper: generic
optional_package: github.com/acme/opt
optional_type: Maybe
types: [Widget, Order]
all: true
parallel: 3
no_color: true
json: true
pretty: true
timestamp: true
show_position: true
csv: out.csv
db: out.db
`)

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)

		assert.Equal(t, FileConfig{
			Wrapper:         "generic",
			OptionalPackage: "github.com/acme/opt",
			OptionalType:    "Maybe",
			Types:           []string{"Widget", "Order"},
			All:             true,
			Parallel:        3,
			NoColor:         true,
			JSON:            true,
			Pretty:          true,
			Timestamp:       true,
			ShowPosition:    true,
			CSV:             "out.csv",
			DB:              "out.db",
		}, cfg)
	})

	t.Run("empty file", func(t *testing.T) {
		cfg, err := LoadConfigFile(writeConfig(t, ""))
		require.NoError(t, err)
		assert.Equal(t, FileConfig{}, cfg)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadConfigFile(writeConfig(t, "wraper: pointer\n"))
		assert.ErrorContains(t, err, "parse config")
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("default file may be missing", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := LoadConfigFile("")
		require.NoError(t, err)
		assert.Equal(t, FileConfig{}, cfg)
	})
}

func TestFileConfig_Apply(t *testing.T) {
	cfg := FileConfig{Wrapper: "pointer", All: true, DB: "out.db", Parallel: 2}

	f := flags{wrapper: "generic", saveToDB: "cli.db"}
	cfg.apply(&f, func(name string) bool { return name == "db" })

	assert.Equal(t, "pointer", f.wrapper)
	assert.True(t, f.all)
	assert.Equal(t, "cli.db", f.saveToDB)
	assert.Equal(t, 2, f.parallel)
}
