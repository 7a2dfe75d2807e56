package paths

import (
	"os"
	"path/filepath"
)

// AppDirName is the directory under home that holds ccmate's own state.
const AppDirName = ".ccconfig"

func home() string {
	h, _ := os.UserHomeDir()
	return h
}

// Layout resolves every file location the engine touches relative to a home
// directory. Tests root it in a temp dir.
type Layout struct {
	Home string
}

// Default returns a Layout rooted at the current user's home directory.
func Default() Layout {
	return Layout{Home: home()}
}

// At returns a Layout rooted at dir. An empty dir falls back to Default.
func At(dir string) Layout {
	if dir == "" {
		return Default()
	}
	return Layout{Home: dir}
}

// ClaudeDir returns ~/.claude.
func (l Layout) ClaudeDir() string {
	return filepath.Join(l.Home, ".claude")
}

// AppDir returns ~/.ccconfig.
func (l Layout) AppDir() string {
	return filepath.Join(l.Home, AppDirName)
}

// ConfigFile returns ~/.ccconfig/config.yaml.
func (l Layout) ConfigFile() string {
	return filepath.Join(l.AppDir(), "config.yaml")
}

// StoresFile returns ~/.ccconfig/stores.json.
func (l Layout) StoresFile() string {
	return filepath.Join(l.AppDir(), "stores.json")
}

// ManifestFile returns ~/.ccconfig/security_packs/installed.json.
func (l Layout) ManifestFile() string {
	return filepath.Join(l.AppDir(), "security_packs", "installed.json")
}

// UserSettings returns ~/.claude/settings.json, the live settings file.
func (l Layout) UserSettings() string {
	return filepath.Join(l.ClaudeDir(), "settings.json")
}

// CredentialFile returns ~/.claude/config.json.
func (l Layout) CredentialFile() string {
	return filepath.Join(l.ClaudeDir(), "config.json")
}

// InstalledPluginsFile returns ~/.claude/plugins/installed_plugins.json.
func (l Layout) InstalledPluginsFile() string {
	return filepath.Join(l.ClaudeDir(), "plugins", "installed_plugins.json")
}

// UserMCPFile returns ~/.mcp.json.
func (l Layout) UserMCPFile() string {
	return filepath.Join(l.Home, ".mcp.json")
}

// DirectFile returns ~/.claude.json.
func (l Layout) DirectFile() string {
	return filepath.Join(l.Home, ".claude.json")
}

// TemplateDir returns ~/.claude/<kind> (agents, commands, skills).
func (l Layout) TemplateDir(kind string) string {
	return filepath.Join(l.ClaudeDir(), kind)
}

// ProjectSettings returns <project>/.claude/settings.json.
func ProjectSettings(projectDir string) string {
	return filepath.Join(projectDir, ".claude", "settings.json")
}

// ProjectLocalSettings returns <project>/.claude/settings.local.json.
func ProjectLocalSettings(projectDir string) string {
	return filepath.Join(projectDir, ".claude", "settings.local.json")
}

// ProjectMCPFile returns <project>/.mcp.json.
func ProjectMCPFile(projectDir string) string {
	return filepath.Join(projectDir, ".mcp.json")
}
