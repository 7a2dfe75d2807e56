package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ruminaider/ccmate/internal/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command against home and returns stdout and
// stderr. Flag variables are reset afterwards.
func runCLI(t *testing.T, home string, args ...string) (string, string, int) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--home", home}, args...))
	t.Cleanup(func() {
		flagHome, flagVerbose, flagDebug = "", false, false
		mcpCwd, mcpGlobal, mcpJSON, mcpConfig = "", false, false, ""
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	code := execute()
	return out.String(), errOut.String(), code
}

func writeHomeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readHomeFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestMCPDisableGlobal_WritesRootList(t *testing.T) {
	home := t.TempDir()
	l := paths.At(home)
	writeHomeFile(t, l.DirectFile(), `{"mcpServers":{"gh":{"command":"gh"}}}`)

	out, _, code := runCLI(t, home, "mcp", "--global", "disable", "gh")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "gh")

	assert.JSONEq(t, `{
		"mcpServers": {"gh": {"command": "gh"}},
		"disabledMcpServers": ["gh"]
	}`, readHomeFile(t, l.DirectFile()))
}

func TestMCPListGlobal_IncludesLocalPluginInstalls(t *testing.T) {
	home := t.TempDir()
	l := paths.At(home)
	install := filepath.Join(home, "plugins", "tools")
	writeHomeFile(t, filepath.Join(install, ".mcp.json"), `{"mcpServers":{"search":{"command":"s"}}}`)
	writeHomeFile(t, l.InstalledPluginsFile(), `{"version":2,"plugins":{"tools@market":[
		{"scope":"local","installPath":"`+install+`","projectPath":"/elsewhere","version":"1.0.0"}
	]}}`)

	out, _, code := runCLI(t, home, "mcp", "--global", "list", "--json")
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"name": "search"`)
	assert.Contains(t, out, `"scope": "plugin-local"`)
}

func TestMCPGlobalRejectsCwd(t *testing.T) {
	_, errOut, code := runCLI(t, t.TempDir(), "mcp", "--global", "--cwd", "/work", "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "cannot be combined")
}

func TestMCPAdd_ReportsReplacement(t *testing.T) {
	home := t.TempDir()

	out, _, code := runCLI(t, home, "mcp", "add", "fs", "--config", `{"command":"npx"}`)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Registered fs")

	out, _, code = runCLI(t, home, "mcp", "add", "fs", "--config", `{"command":"uvx"}`)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Replaced fs")

	assert.JSONEq(t, `{"mcpServers":{"fs":{"command":"uvx"}}}`, readHomeFile(t, paths.At(home).UserMCPFile()))
}

func TestMCPRemove_PointsAtDirectFile(t *testing.T) {
	home := t.TempDir()
	l := paths.At(home)
	writeHomeFile(t, l.DirectFile(), `{"mcpServers":{"gh":{"command":"gh"}}}`)

	_, errOut, code := runCLI(t, home, "mcp", "remove", "gh")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, l.DirectFile())
}

func TestID_IsStable(t *testing.T) {
	home := t.TempDir()

	first, _, code := runCLI(t, home, "id")
	require.Equal(t, 0, code)
	second, _, code := runCLI(t, home, "id")
	require.Equal(t, 0, code)

	assert.NotEmpty(t, strings.TrimSpace(first))
	assert.Equal(t, first, second)
}

func TestExecute_LogsErrors(t *testing.T) {
	_, errOut, code := runCLI(t, t.TempDir(), "profile", "use", "missing")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "[error]")
	assert.Contains(t, errOut, "missing")
}
