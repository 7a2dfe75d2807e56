package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/ruminaider/ccmate/internal/paths"
)

// Layers holds the raw output of each source reader. Project and Local are
// empty when no project is selected.
type Layers struct {
	Layout paths.Layout
	Cwd    string
	// ProjectDir is set when Cwd is a recorded project.
	ProjectDir string

	UserMCPJSON map[string]json.RawMessage
	UserDirect  map[string]json.RawMessage
	Plugin      []PluginServer
	Project     map[string]json.RawMessage
	Local       map[string]json.RawMessage
}

// MergeScopes combines the layers in ascending precedence
// user-mcpjson < user-direct < plugin < project < local. Plugin servers only
// fill names no user source defines; every other layer overwrites.
func MergeScopes(in Layers) map[string]Server {
	out := make(map[string]Server)
	put := func(s Server) { out[s.Name] = s }

	for name, cfg := range in.UserMCPJSON {
		put(Server{Name: name, Config: cfg, SourceType: SourceMCPJSON, Scope: ScopeUser,
			DefinedIn: in.Layout.UserMCPFile(), Controllable: true})
	}
	for name, cfg := range in.UserDirect {
		put(Server{Name: name, Config: cfg, SourceType: SourceDirect, Scope: ScopeUser,
			DefinedIn: in.Layout.DirectFile()})
	}
	for _, ps := range in.Plugin {
		if _, taken := out[ps.Name]; taken {
			continue
		}
		put(Server{Name: ps.Name, Config: ps.Config, SourceType: SourcePlugin,
			Scope:        Scope("plugin-" + ps.InstallScope),
			DefinedIn:    fmt.Sprintf("Plugin: %s (%s)", ps.Plugin, ps.InstallScope),
			Controllable: true})
	}
	for name, cfg := range in.Project {
		put(Server{Name: name, Config: cfg, SourceType: SourceDirect, Scope: ScopeProject,
			DefinedIn: fmt.Sprintf("~/.claude.json .projects[%s]", in.Cwd)})
	}
	if in.ProjectDir != "" {
		for name, cfg := range in.Local {
			put(Server{Name: name, Config: cfg, SourceType: SourceMCPJSON, Scope: ScopeLocal,
				DefinedIn: paths.ProjectMCPFile(in.ProjectDir), Controllable: true})
		}
	}
	return out
}

// Resolve reads every source fresh and merges them. A source that cannot be
// read is logged and treated as empty.
func (m *Manager) Resolve(cwd string) map[string]Server {
	in := Layers{Layout: m.Layout, Cwd: cwd}

	in.UserMCPJSON = m.readSource("user .mcp.json", func() (map[string]json.RawMessage, error) {
		return ReadUserMCPJSON(m.Layout)
	})
	in.UserDirect = m.readSource("user .claude.json", func() (map[string]json.RawMessage, error) {
		return ReadUserDirect(m.Layout)
	})

	if ps, err := ReadPluginServers(m.Layout, cwd); err != nil {
		m.Log.Warnf("skipping plugin servers: %v", err)
	} else {
		in.Plugin = ps
	}

	if cwd != "" {
		in.Project = m.readSource("project entry", func() (map[string]json.RawMessage, error) {
			return ReadProject(m.Layout, cwd)
		})
		dir, ok, err := ProjectDir(m.Layout, cwd)
		if err != nil {
			m.Log.Warnf("resolving project %s: %v", cwd, err)
		} else if ok {
			in.ProjectDir = dir
			in.Local = m.readSource("local .mcp.json", func() (map[string]json.RawMessage, error) {
				return ReadLocal(dir)
			})
		}
	}

	m.Log.Debugf("resolved sources: mcpjson=%d direct=%d plugin=%d project=%d local=%d",
		len(in.UserMCPJSON), len(in.UserDirect), len(in.Plugin), len(in.Project), len(in.Local))
	return MergeScopes(in)
}

func (m *Manager) readSource(label string, read func() (map[string]json.RawMessage, error)) map[string]json.RawMessage {
	servers, err := read()
	if err != nil {
		m.Log.Warnf("skipping %s: %v", label, err)
		return nil
	}
	return servers
}
