package submit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_RoundTrip(t *testing.T) {
	root := t.TempDir()

	want := &Config{Owner: "acme", Repo: "widgets", Remote: "origin"}
	require.NoError(t, SaveConfig(root, want))

	got, err := LoadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadConfig_MissingFileIsEmpty(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".jj", "jj-stack")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0644))

	_, err := LoadConfig(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}
