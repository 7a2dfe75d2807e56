package claudecode_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ruminaider/ccmate/internal/claudecode"
	ccerrors "github.com/ruminaider/ccmate/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSON(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file is empty object", func(t *testing.T) {
		raw, err := claudecode.ReadJSON(filepath.Join(dir, "missing.json"))
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(raw))
	})

	t.Run("invalid JSON is malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"a":`), 0644))
		_, err := claudecode.ReadJSON(path)
		assert.ErrorIs(t, err, ccerrors.ErrMalformedInput)
	})

	t.Run("arrays are returned as is", func(t *testing.T) {
		path := filepath.Join(dir, "array.json")
		require.NoError(t, os.WriteFile(path, []byte(`[1,2]`), 0644))
		raw, err := claudecode.ReadJSON(path)
		require.NoError(t, err)
		assert.JSONEq(t, `[1,2]`, string(raw))
	})
}

func TestReadObject_RejectsNonObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "array.json")
	require.NoError(t, os.WriteFile(path, []byte(`["x"]`), 0644))

	_, err := claudecode.ReadObject(path)
	assert.ErrorIs(t, err, ccerrors.ErrMalformedInput)
}

func TestWriteJSON_CreatesParentAndIndents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.json")

	require.NoError(t, claudecode.WriteJSON(path, map[string]any{"a": 1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", string(data))
}

func TestStringArray(t *testing.T) {
	obj := map[string]json.RawMessage{
		"names":  json.RawMessage(`["a", 3, "b"]`),
		"scalar": json.RawMessage(`"a"`),
	}
	assert.Equal(t, []string{"a", "b"}, claudecode.StringArray(obj, "names"))
	assert.Nil(t, claudecode.StringArray(obj, "scalar"))
	assert.Nil(t, claudecode.StringArray(obj, "missing"))
}

func TestReadServers(t *testing.T) {
	dir := t.TempDir()

	servers, err := claudecode.ReadServers(filepath.Join(dir, "none.json"))
	require.NoError(t, err)
	assert.Empty(t, servers)

	path := filepath.Join(dir, ".mcp.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mcpServers":{"fs":{"command":"npx"}}}`), 0644))
	servers, err = claudecode.ReadServers(path)
	require.NoError(t, err)
	require.Contains(t, servers, "fs")
	assert.JSONEq(t, `{"command":"npx"}`, string(servers["fs"]))

	require.NoError(t, os.WriteFile(path, []byte(`{"mcpServers":["fs"]}`), 0644))
	servers, err = claudecode.ReadServers(path)
	require.NoError(t, err)
	assert.Empty(t, servers)
}

func TestReadInstalledPlugins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "installed_plugins.json")

	plugins, err := claudecode.ReadInstalledPlugins(path)
	require.NoError(t, err)
	assert.Empty(t, plugins.Plugins)

	data := `{
		"version": 2,
		"plugins": {
			"context7@claude-plugins-official": [{"scope":"user","installPath":"/p","version":"1.0.0","installedAt":"2026-01-05T00:00:00.000Z","lastUpdated":"2026-01-05T00:00:00.000Z"}],
			"beads@beads-marketplace": [{"scope":"local","installPath":"/q","projectPath":"/work","version":"0.44.0","installedAt":"2026-01-05T00:00:00.000Z","lastUpdated":"2026-01-05T00:00:00.000Z"}]
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	plugins, err = claudecode.ReadInstalledPlugins(path)
	require.NoError(t, err)
	assert.Len(t, plugins.Plugins, 2)
	assert.Equal(t, "/work", plugins.Plugins["beads@beads-marketplace"][0].ProjectPath)

	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0644))
	_, err = claudecode.ReadInstalledPlugins(path)
	assert.ErrorIs(t, err, ccerrors.ErrMalformedInput)
}

func TestUnlockExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".claude", "config.json")

	require.NoError(t, claudecode.UnlockExtension(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"primaryApiKey":"xxx"}`, string(data))

	require.NoError(t, os.WriteFile(path, []byte(`{"primaryApiKey":"real","other":true}`), 0644))
	require.NoError(t, claudecode.UnlockExtension(path))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"primaryApiKey":"real","other":true}`, string(data))
}
