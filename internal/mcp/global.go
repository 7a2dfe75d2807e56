package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/ruminaider/ccmate/internal/claudecode"
	ccerrors "github.com/ruminaider/ccmate/internal/errors"
)

// GlobalServers returns the user-level servers. ~/.mcp.json entries win over
// same-named ~/.claude.json entries.
func (m *Manager) GlobalServers() map[string]Server {
	out := make(map[string]Server)
	for name, cfg := range m.readSource("user .mcp.json", func() (map[string]json.RawMessage, error) {
		return ReadUserMCPJSON(m.Layout)
	}) {
		out[name] = Server{Name: name, Config: cfg, SourceType: SourceMCPJSON, Scope: ScopeUser,
			DefinedIn: m.Layout.UserMCPFile(), Controllable: true}
	}
	for name, cfg := range m.readSource("user .claude.json", func() (map[string]json.RawMessage, error) {
		return ReadUserDirect(m.Layout)
	}) {
		if _, ok := out[name]; ok {
			continue
		}
		out[name] = Server{Name: name, Config: cfg, SourceType: SourceDirect, Scope: ScopeUser,
			DefinedIn: m.Layout.DirectFile()}
	}
	return out
}

// ServerExists reports whether name is registered at user level.
func (m *Manager) ServerExists(name string) bool {
	_, ok := m.GlobalServers()[name]
	return ok
}

// UpsertGlobal adds or replaces a server in ~/.mcp.json.
func (m *Manager) UpsertGlobal(name string, config json.RawMessage) error {
	if name == "" {
		return fmt.Errorf("%w: server name is empty", ccerrors.ErrMalformedInput)
	}
	if _, ok := claudecode.AsObject(config); !ok {
		return fmt.Errorf("%w: config for %q is not a JSON object", ccerrors.ErrMalformedInput, name)
	}

	path := m.Layout.UserMCPFile()
	doc, err := claudecode.ReadObject(path)
	if err != nil {
		return err
	}
	servers, err := objectOrNew(doc, "mcpServers")
	if err != nil {
		return err
	}
	servers[name] = config
	if err := setField(doc, "mcpServers", servers); err != nil {
		return err
	}

	m.Log.Infof("registered mcp server %s in %s", name, path)
	return claudecode.WriteJSON(path, doc)
}

// DeleteGlobal removes a server from ~/.mcp.json and drops it from the user
// overlays. An emptied mcpServers key is removed.
func (m *Manager) DeleteGlobal(name string) error {
	path := m.Layout.UserMCPFile()
	if !claudecode.Exists(path) {
		return fmt.Errorf("%w: %s does not exist", ccerrors.ErrNotFound, path)
	}
	doc, err := claudecode.ReadObject(path)
	if err != nil {
		return err
	}
	servers := claudecode.ObjectField(doc, "mcpServers")
	if servers == nil {
		return fmt.Errorf("%w: no mcpServers in %s", ccerrors.ErrNotFound, path)
	}
	if _, ok := servers[name]; !ok {
		return fmt.Errorf("%w: mcp server %q", ccerrors.ErrNotFound, name)
	}

	delete(servers, name)
	if len(servers) == 0 {
		delete(doc, "mcpServers")
	} else if err := setField(doc, "mcpServers", servers); err != nil {
		return err
	}
	if err := claudecode.WriteJSON(path, doc); err != nil {
		return err
	}
	m.Log.Infof("removed mcp server %s from %s", name, path)

	return m.dropFromUserOverlays(name)
}

func (m *Manager) dropFromUserOverlays(name string) error {
	path := m.Layout.UserSettings()
	if !claudecode.Exists(path) {
		return nil
	}
	settings, err := claudecode.ReadObject(path)
	if err != nil {
		return err
	}
	for _, key := range []string{EnabledKey, DisabledKey} {
		if _, ok := settings[key]; !ok {
			continue
		}
		if err := toggleMember(settings, key, name, false); err != nil {
			return err
		}
	}
	return claudecode.WriteJSON(path, settings)
}
