package plugins_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ruminaider/ccmate/internal/claudecode"
	ccerrors "github.com/ruminaider/ccmate/internal/errors"
	"github.com/ruminaider/ccmate/internal/paths"
	"github.com/ruminaider/ccmate/internal/plugins"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDetectPackages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "agents"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "commands"), 0755))
	writeFile(t, filepath.Join(dir, ".mcp.json"), `{}`)
	// a file named skills is not a skills package
	writeFile(t, filepath.Join(dir, "skills"), `x`)

	assert.Equal(t, plugins.Packages{HasAgents: true, HasCommands: true, HasMCP: true}, plugins.DetectPackages(dir))
	assert.Equal(t, plugins.Packages{}, plugins.DetectPackages(filepath.Join(dir, "missing")))
}

func TestShouldInclude(t *testing.T) {
	user := claudecode.PluginInstallation{Scope: "user"}
	local := claudecode.PluginInstallation{Scope: "local", ProjectPath: "/work/app"}
	project := claudecode.PluginInstallation{Scope: "project", ProjectPath: "/work/app"}

	assert.True(t, plugins.ShouldInclude(user, "/work/app"))
	assert.True(t, plugins.ShouldInclude(local, "/work/app"))
	assert.False(t, plugins.ShouldInclude(local, "/work/other"))
	assert.False(t, plugins.ShouldInclude(project, "/work/app"))

	for _, install := range []claudecode.PluginInstallation{user, local, project} {
		assert.True(t, plugins.ShouldInclude(install, ""), "global view includes %s", install.Scope)
	}
}

func TestEnabledResolver(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	l := paths.At(home)

	writeFile(t, l.UserSettings(), `{"enabledPlugins":{"off@mk":false,"on@mk":true}}`)
	writeFile(t, paths.ProjectLocalSettings(project), `{"enabledPlugins":{"on@mk":false}}`)

	r := plugins.NewEnabledResolver(l)
	user := claudecode.PluginInstallation{Scope: "user"}
	local := claudecode.PluginInstallation{Scope: "local", ProjectPath: project}

	assert.False(t, r.Enabled("off@mk", user))
	assert.True(t, r.Enabled("on@mk", user))
	assert.True(t, r.Enabled("unlisted@mk", user))
	assert.False(t, r.Enabled("on@mk", local))
	assert.True(t, r.Enabled("on@mk", claudecode.PluginInstallation{Scope: "local"}))
}

func TestList_OrdersByNameThenNewestVersion(t *testing.T) {
	home := t.TempDir()
	l := paths.At(home)
	pluginDir := filepath.Join(home, "cache", "beads")
	require.NoError(t, os.MkdirAll(filepath.Join(pluginDir, "agents"), 0755))

	writeFile(t, l.InstalledPluginsFile(), `{
		"version": 2,
		"plugins": {
			"zeta@mk": [{"scope":"user","installPath":"/nope","version":"1.0.0"}],
			"beads@mk": [
				{"scope":"user","installPath":"`+pluginDir+`","version":"0.9.0"},
				{"scope":"user","installPath":"`+pluginDir+`","version":"latest"},
				{"scope":"user","installPath":"`+pluginDir+`","version":"0.44.0"}
			]
		}
	}`)
	writeFile(t, l.UserSettings(), `{"enabledPlugins":{"zeta@mk":false}}`)

	infos, err := plugins.List(l)
	require.NoError(t, err)
	require.Len(t, infos, 4)

	assert.Equal(t, "beads@mk", infos[0].Name)
	assert.Equal(t, []string{"0.44.0", "0.9.0", "latest"}, []string{infos[0].Version, infos[1].Version, infos[2].Version})
	assert.True(t, infos[0].Packages.HasAgents)
	assert.True(t, infos[0].Enabled)

	assert.Equal(t, "zeta@mk", infos[3].Name)
	assert.False(t, infos[3].Enabled)
}

func TestSetEnabled(t *testing.T) {
	home := t.TempDir()
	l := paths.At(home)
	writeFile(t, l.UserSettings(), `{"model":"opus","enabledPlugins":{"a@mk":true}}`)

	require.NoError(t, plugins.SetEnabled(l, "b@mk", false, "user", ""))

	data, err := os.ReadFile(l.UserSettings())
	require.NoError(t, err)
	assert.JSONEq(t, `{"model":"opus","enabledPlugins":{"a@mk":true,"b@mk":false}}`, string(data))

	project := t.TempDir()
	require.NoError(t, plugins.SetEnabled(l, "a@mk", false, "local", project))
	data, err = os.ReadFile(paths.ProjectLocalSettings(project))
	require.NoError(t, err)
	assert.JSONEq(t, `{"enabledPlugins":{"a@mk":false}}`, string(data))

	err = plugins.SetEnabled(l, "a@mk", true, "local", "")
	assert.ErrorIs(t, err, ccerrors.ErrMalformedInput)
}

func TestMarketplace(t *testing.T) {
	assert.Equal(t, "claude-plugins-official", plugins.Marketplace("context7@claude-plugins-official"))
	assert.Equal(t, "", plugins.Marketplace("bare"))
}
