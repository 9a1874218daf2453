package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/lex00/kitsplit/errors"
	"github.com/lex00/kitsplit/modules"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFilename)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	t.Run("loads valid YAML", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), `lib: kit
submoduleDir: lib/fp
extension: .mjs
root: ./app
paths: [src, test]
exclude: [dist]
output: out
report: report.json
lint:
  disabled: [KIT004]
  minSeverity: info
`)
		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)

		assert.Equal(t, "kit", cfg.Lib)
		assert.Equal(t, "lib/fp", cfg.SubmoduleDir)
		assert.Equal(t, ".mjs", cfg.Extension)
		assert.Equal(t, "./app", cfg.Root)
		assert.Equal(t, []string{"src", "test"}, cfg.Paths)
		assert.Equal(t, []string{"dist"}, cfg.Exclude)
		assert.Equal(t, "out", cfg.Output)
		assert.Equal(t, "report.json", cfg.Report)
		require.NotNil(t, cfg.Lint)
		assert.Equal(t, []string{"KIT004"}, cfg.Lint.Disabled)
		assert.Equal(t, "info", cfg.Lint.MinSeverity)
		assert.Equal(t, filepath.Dir(path), cfg.Dir())
	})

	t.Run("fills layout defaults", func(t *testing.T) {
		cfg, err := LoadConfigFile(writeConfig(t, t.TempDir(), "lib: kit\n"))
		require.NoError(t, err)
		assert.Equal(t, modules.DefaultSubmoduleDir, cfg.SubmoduleDir)
		assert.Equal(t, modules.DefaultExtension, cfg.Extension)
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		_, err := LoadConfigFile("/nonexistent/path/kitsplit.yaml")
		assert.Error(t, err)
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		_, err := LoadConfigFile(writeConfig(t, t.TempDir(), "lib: kit\n  invalid: yaml: structure"))
		assert.ErrorContains(t, err, "failed to parse config YAML")
	})
}

func TestLoadConfigFrom(t *testing.T) {
	t.Run("walks up to find the file", func(t *testing.T) {
		root := t.TempDir()
		want := writeConfig(t, root, "lib: kit\n")
		nested := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(nested, 0755))

		cfg, path, err := LoadConfigFrom(nested)
		require.NoError(t, err)
		assert.Equal(t, want, path)
		assert.Equal(t, "kit", cfg.Lib)
	})

	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, path, err := LoadConfigFrom(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Empty(t, cfg.Lib)
		assert.Equal(t, modules.DefaultSubmoduleDir, cfg.SubmoduleDir)
	})

	t.Run("propagates parse errors", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "lib: [")
		_, _, err := LoadConfigFrom(dir)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	err := Default().Validate()
	assert.True(t, kerrors.HasCode(err, kerrors.ErrConfiguration))

	cfg := Default()
	cfg.Lib = "kit"
	assert.NoError(t, cfg.Validate())
}

func TestRootDir(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfigFile(writeConfig(t, dir, "lib: kit\nroot: app\n"))
	require.NoError(t, err)

	root, err := cfg.RootDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Dir(), "app"), root)

	cfg.Root = "/abs/root"
	root, err = cfg.RootDir()
	require.NoError(t, err)
	assert.Equal(t, "/abs/root", root)

	unsaved := Default()
	root, err = unsaved.RootDir()
	require.NoError(t, err)
	cwd, _ := os.Getwd()
	assert.Equal(t, cwd, root)
}

func TestResolver(t *testing.T) {
	dir := t.TempDir()
	member := filepath.Join(dir, "node_modules", "kit", "es", "src", "map.js")
	require.NoError(t, os.MkdirAll(filepath.Dir(member), 0755))
	require.NoError(t, os.WriteFile(member, nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node_modules", "kit", "package.json"), []byte(`{"name":"kit"}`), 0644))

	cfg, err := LoadConfigFile(writeConfig(t, dir, "lib: kit\n"))
	require.NoError(t, err)

	resolver, err := cfg.Resolver()
	require.NoError(t, err)
	path, err := resolver.Resolve("kit", "map")
	require.NoError(t, err)
	assert.Equal(t, "kit/es/src/map", path)
}

func TestSaveConfigTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFilename)
	cfg := Default()
	cfg.Lib = "kit"
	cfg.Exclude = []string{"dist"}
	require.NoError(t, SaveConfigTo(cfg, path))

	loaded, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "kit", loaded.Lib)
	assert.Equal(t, []string{"dist"}, loaded.Exclude)
	assert.Equal(t, modules.DefaultSubmoduleDir, loaded.SubmoduleDir)
}
