package plugins

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/ruminaider/ccmate/internal/claudecode"
	ccerrors "github.com/ruminaider/ccmate/internal/errors"
	"github.com/ruminaider/ccmate/internal/paths"
)

// Install scopes as recorded in installed_plugins.json.
const (
	ScopeUser  = "user"
	ScopeLocal = "local"
)

// Packages describes which kinds of content a plugin install ships.
type Packages struct {
	HasAgents   bool `json:"hasAgents"`
	HasSkills   bool `json:"hasSkills"`
	HasCommands bool `json:"hasCommands"`
	HasMCP      bool `json:"hasMcp"`
}

// Info is one plugin install as shown by `ccmate plugin list`.
type Info struct {
	Name        string   `json:"name"`
	Scope       string   `json:"scope"`
	ProjectPath string   `json:"projectPath,omitempty"`
	InstallPath string   `json:"installPath"`
	Version     string   `json:"version"`
	Enabled     bool     `json:"enabled"`
	Packages    Packages `json:"packages"`
}

// DetectPackages inspects installPath for agents/, skills/, commands/ and
// .mcp.json. A missing install path has no packages.
func DetectPackages(installPath string) Packages {
	isDir := func(name string) bool {
		fi, err := os.Stat(filepath.Join(installPath, name))
		return err == nil && fi.IsDir()
	}
	isFile := func(name string) bool {
		fi, err := os.Stat(filepath.Join(installPath, name))
		return err == nil && fi.Mode().IsRegular()
	}
	return Packages{
		HasAgents:   isDir("agents"),
		HasSkills:   isDir("skills"),
		HasCommands: isDir("commands"),
		HasMCP:      isFile(".mcp.json"),
	}
}

// ShouldInclude reports whether an install is visible from cwd: user installs
// always are, local installs only for their own project. An empty cwd is the
// global view and includes everything.
func ShouldInclude(install claudecode.PluginInstallation, cwd string) bool {
	if cwd == "" {
		return true
	}
	return install.Scope == ScopeUser ||
		(install.Scope == ScopeLocal && install.ProjectPath == cwd)
}

// SettingsPath returns the settings file holding enabledPlugins for an
// install scope. Local installs without a project path have none.
func SettingsPath(l paths.Layout, scope, projectPath string) (string, bool) {
	if scope == ScopeLocal {
		if projectPath == "" {
			return "", false
		}
		return paths.ProjectLocalSettings(projectPath), true
	}
	return l.UserSettings(), true
}

// EnabledResolver answers "is this plugin install enabled", reading each
// settings file at most once.
type EnabledResolver struct {
	layout paths.Layout
	cache  map[string]map[string]bool
}

func NewEnabledResolver(l paths.Layout) *EnabledResolver {
	return &EnabledResolver{layout: l, cache: map[string]map[string]bool{}}
}

// Enabled reports the enabledPlugins flag for name in the settings file of the
// install's scope. Missing entries, files and unreadable files default to true.
func (r *EnabledResolver) Enabled(name string, install claudecode.PluginInstallation) bool {
	path, ok := SettingsPath(r.layout, install.Scope, install.ProjectPath)
	if !ok {
		return true
	}
	flags, cached := r.cache[path]
	if !cached {
		flags = readEnabledPlugins(path)
		r.cache[path] = flags
	}
	enabled, ok := flags[name]
	if !ok {
		return true
	}
	return enabled
}

func readEnabledPlugins(path string) map[string]bool {
	out := map[string]bool{}
	obj, err := claudecode.ReadObject(path)
	if err != nil {
		return out
	}
	for name, raw := range claudecode.ObjectField(obj, "enabledPlugins") {
		var b bool
		if json.Unmarshal(raw, &b) == nil {
			out[name] = b
		}
	}
	return out
}

// List returns every recorded install, sorted by plugin name with the newest
// version of a plugin first.
func List(l paths.Layout) ([]Info, error) {
	installed, err := claudecode.ReadInstalledPlugins(l.InstalledPluginsFile())
	if err != nil {
		return nil, err
	}

	resolver := NewEnabledResolver(l)
	var out []Info
	for name, installs := range installed.Plugins {
		for _, install := range installs {
			out = append(out, Info{
				Name:        name,
				Scope:       install.Scope,
				ProjectPath: install.ProjectPath,
				InstallPath: install.InstallPath,
				Version:     install.Version,
				Enabled:     resolver.Enabled(name, install),
				Packages:    DetectPackages(install.InstallPath),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return newerFirst(out[i].Version, out[j].Version)
	})
	return out, nil
}

// newerFirst orders versions descending. Versions that do not parse as
// semver sort after those that do, then lexically.
func newerFirst(a, b string) bool {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	switch {
	case errA == nil && errB == nil:
		return va.GreaterThan(vb)
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a > b
	}
}

// SetEnabled writes enabledPlugins[name] into the settings file for scope.
// Local scope requires the project path.
func SetEnabled(l paths.Layout, name string, enabled bool, scope, projectPath string) error {
	path, ok := SettingsPath(l, scope, projectPath)
	if !ok {
		return fmt.Errorf("%w: project path required for local scope", ccerrors.ErrMalformedInput)
	}

	settings, err := claudecode.ReadObject(path)
	if err != nil {
		return err
	}

	flags := map[string]json.RawMessage{}
	if raw, ok := settings["enabledPlugins"]; ok {
		existing, isObj := claudecode.AsObject(raw)
		if !isObj {
			return fmt.Errorf("%w: enabledPlugins in %s is not an object", ccerrors.ErrMalformedInput, path)
		}
		flags = existing
	}
	flags[name] = json.RawMessage(fmt.Sprintf("%t", enabled))

	data, err := json.Marshal(flags)
	if err != nil {
		return fmt.Errorf("encoding enabledPlugins: %w", err)
	}
	settings["enabledPlugins"] = data
	return claudecode.WriteJSON(path, settings)
}

// Marketplace returns the marketplace part of a "name@marketplace" key.
func Marketplace(key string) string {
	if i := strings.LastIndex(key, "@"); i >= 0 {
		return key[i+1:]
	}
	return ""
}
