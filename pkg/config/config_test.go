package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"src.mcfn.dev/pkg/parse"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mcfn.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
default_version = "1.20"
cache_capacity = 10
comment_prefix = "//"

[schemas]
"1.20" = "schemas/1.20.json"
"1.19" = "/abs/1.19.json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1.20", cfg.DefaultVersion)
	assert.Equal(t, 10, cfg.CacheCapacity)
	assert.Equal(t, "//", cfg.CommentPrefix)
	assert.Equal(t, []string{"1.19", "1.20"}, cfg.Versions())

	p, err := cfg.SchemaPath("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "schemas", "1.20.json"), p)

	p, err = cfg.SchemaPath("1.19")
	require.NoError(t, err)
	assert.Equal(t, "/abs/1.19.json", p)

	_, err = cfg.SchemaPath("1.8")
	assert.ErrorIs(t, err, ErrNoSchema)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[schemas]\nonly = \"x.json\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "only", cfg.DefaultVersion)
	assert.Equal(t, parse.DefaultCacheCapacity, cfg.CacheCapacity)
	assert.Equal(t, "#", cfg.CommentPrefix)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "default_version = ", "load config"},
		{"unknown key", "cache_size = 3", "unknown keys cache_size"},
		{"negative capacity", "cache_capacity = -1", "negative cache_capacity"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, test.content))
			assert.ErrorContains(t, err, test.want)
		})
	}
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	_, err := cfg.SchemaPath("")
	assert.ErrorIs(t, err, ErrNoSchema)
	assert.Empty(t, cfg.Versions())
}
