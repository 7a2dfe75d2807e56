package mcp_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ruminaider/ccmate/internal/logging"
	"github.com/ruminaider/ccmate/internal/mcp"
	"github.com/ruminaider/ccmate/internal/paths"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// newManager returns a manager over an empty temp home.
func newManager(t *testing.T) *mcp.Manager {
	t.Helper()
	return mcp.NewManager(paths.At(t.TempDir()), logging.Discard())
}

// registerProject records dir as a project in ~/.claude.json with the given
// project entry body.
func registerProject(t *testing.T, l paths.Layout, dir, entry string) {
	t.Helper()
	writeFile(t, l.DirectFile(), `{"projects":{"`+dir+`":`+entry+`}}`)
}
