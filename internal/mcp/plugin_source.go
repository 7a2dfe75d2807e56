package mcp

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/ruminaider/ccmate/internal/claudecode"
	"github.com/ruminaider/ccmate/internal/paths"
	"github.com/ruminaider/ccmate/internal/plugins"
)

// PluginServer is a server contributed by an installed plugin.
type PluginServer struct {
	Name         string
	Config       json.RawMessage
	Plugin       string
	InstallScope string
}

type namedConfig struct {
	name   string
	config json.RawMessage
}

// pluginMCPFile is the shape a plugin's .mcp.json was written in.
type pluginMCPFile interface {
	servers(plugin string) []namedConfig
}

// objectForm is {"mcpServers": {"name": {...}}}.
type objectForm map[string]json.RawMessage

// arrayForm is {"mcpServers": [{"name": "...", ...}]}.
type arrayForm []json.RawMessage

// bareForm is a file holding a single server config with no wrapper.
type bareForm json.RawMessage

// emptyForm is an mcpServers key that is neither object nor array.
type emptyForm struct{}

func (f objectForm) servers(string) []namedConfig {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []namedConfig
	for _, name := range names {
		if _, ok := claudecode.AsObject(f[name]); ok {
			out = append(out, namedConfig{name: name, config: f[name]})
		}
	}
	return out
}

func (f arrayForm) servers(plugin string) []namedConfig {
	var out []namedConfig
	for i, item := range f {
		obj, ok := claudecode.AsObject(item)
		if !ok {
			continue
		}
		name := fmt.Sprintf("%s-%d", plugin, i)
		var v any
		if raw, ok := obj["name"]; ok && json.Unmarshal(raw, &v) == nil {
			if s, ok := v.(string); ok {
				name = s
			}
		}
		out = append(out, namedConfig{name: name, config: item})
	}
	return out
}

func (f bareForm) servers(plugin string) []namedConfig {
	return []namedConfig{{name: plugin, config: json.RawMessage(f)}}
}

func (emptyForm) servers(string) []namedConfig { return nil }

// parsePluginMCP classifies a plugin .mcp.json document. A document that is
// not an object contributes nothing.
func parsePluginMCP(raw json.RawMessage) pluginMCPFile {
	doc, ok := claudecode.AsObject(raw)
	if !ok {
		return emptyForm{}
	}
	list, ok := doc["mcpServers"]
	if !ok {
		return bareForm(raw)
	}
	if obj, ok := claudecode.AsObject(list); ok {
		return objectForm(obj)
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(list, &arr); err == nil {
		return arrayForm(arr)
	}
	return emptyForm{}
}

// ReadPluginServers returns the servers of every enabled plugin install
// visible from cwd that ships a .mcp.json.
func ReadPluginServers(l paths.Layout, cwd string) ([]PluginServer, error) {
	installed, err := claudecode.ReadInstalledPlugins(l.InstalledPluginsFile())
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(installed.Plugins))
	for name := range installed.Plugins {
		names = append(names, name)
	}
	sort.Strings(names)

	resolver := plugins.NewEnabledResolver(l)
	var out []PluginServer
	for _, name := range names {
		for _, install := range installed.Plugins[name] {
			if !plugins.ShouldInclude(install, cwd) {
				continue
			}
			if !resolver.Enabled(name, install) {
				continue
			}
			if !plugins.DetectPackages(install.InstallPath).HasMCP {
				continue
			}

			path := filepath.Join(install.InstallPath, ".mcp.json")
			raw, err := claudecode.ReadJSON(path)
			if err != nil {
				return nil, fmt.Errorf("plugin %s: %w", name, err)
			}
			for _, s := range parsePluginMCP(raw).servers(name) {
				out = append(out, PluginServer{
					Name:         s.name,
					Config:       s.config,
					Plugin:       name,
					InstallScope: install.Scope,
				})
			}
		}
	}
	return out, nil
}
