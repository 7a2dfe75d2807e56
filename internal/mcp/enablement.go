package mcp

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"

	"github.com/ruminaider/ccmate/internal/claudecode"
	ccerrors "github.com/ruminaider/ccmate/internal/errors"
	"github.com/ruminaider/ccmate/internal/merge"
	"github.com/ruminaider/ccmate/internal/paths"
)

// Overlay keys.
const (
	EnabledKey        = "enabledMcpjsonServers"
	DisabledKey       = "disabledMcpjsonServers"
	DisabledDirectKey = "disabledMcpServers"
)

// Overlays are the name lists that decide enablement.
type Overlays struct {
	Enabled        []string
	Disabled       []string
	DisabledDirect []string
}

// SettingsPath picks the settings file that carries the overlays for cwd.
// Writes (preferLocal) always target <project>/.claude/settings.local.json;
// reads use it when present, then <project>/.claude/settings.json. Anything
// else falls back to ~/.claude/settings.json.
func SettingsPath(l paths.Layout, cwd string, preferLocal bool) (string, error) {
	dir, ok, err := ProjectDir(l, cwd)
	if err != nil {
		return "", err
	}
	if ok {
		local := paths.ProjectLocalSettings(dir)
		if preferLocal || claudecode.Exists(local) {
			return local, nil
		}
		if project := paths.ProjectSettings(dir); claudecode.Exists(project) {
			return project, nil
		}
	}
	return l.UserSettings(), nil
}

// ReadOverlays loads the overlays that apply to cwd. The direct overlay comes
// from the project entry in ~/.claude.json when it has its own list.
func ReadOverlays(l paths.Layout, cwd string) (Overlays, error) {
	path, err := SettingsPath(l, cwd, false)
	if err != nil {
		return Overlays{}, err
	}
	settings, err := claudecode.ReadObject(path)
	if err != nil {
		return Overlays{}, err
	}

	direct, err := claudecode.ReadObject(l.DirectFile())
	if err != nil {
		return Overlays{}, err
	}
	disabledDirect := claudecode.StringArray(direct, DisabledDirectKey)
	if cwd != "" {
		project := claudecode.ObjectField(claudecode.ObjectField(direct, "projects"), cwd)
		if _, ok := project[DisabledDirectKey]; ok {
			disabledDirect = claudecode.StringArray(project, DisabledDirectKey)
		}
	}

	return Overlays{
		Enabled:        claudecode.StringArray(settings, EnabledKey),
		Disabled:       claudecode.StringArray(settings, DisabledKey),
		DisabledDirect: disabledDirect,
	}, nil
}

// ComputeState derives a server's enablement. Direct servers are only ever
// enabled or disabled; the others can also be runtime-disabled when listed in
// both overlays.
func ComputeState(s Server, o Overlays) State {
	if s.SourceType == SourceDirect {
		if slices.Contains(o.DisabledDirect, s.Name) {
			return StateDisabled
		}
		return StateEnabled
	}
	inEnabled := slices.Contains(o.Enabled, s.Name)
	inDisabled := slices.Contains(o.Disabled, s.Name)
	switch {
	case inDisabled && !inEnabled:
		return StateDisabled
	case inDisabled && inEnabled:
		return StateRuntimeDisabled
	default:
		return StateEnabled
	}
}

// List returns the merged servers for cwd with their state, sorted by name.
func (m *Manager) List(cwd string) ([]ServerState, error) {
	servers := m.Resolve(cwd)
	overlays, err := ReadOverlays(m.Layout, cwd)
	if err != nil {
		return nil, fmt.Errorf("reading enablement overlays: %w", err)
	}

	out := make([]ServerState, 0, len(servers))
	for _, s := range servers {
		out = append(out, ServerState{
			Server:          s,
			State:           ComputeState(s, overlays),
			InEnabledArray:  slices.Contains(overlays.Enabled, s.Name),
			InDisabledArray: slices.Contains(overlays.Disabled, s.Name),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// SetEnabled toggles a server by name, writing to the file that governs its
// source type.
func (m *Manager) SetEnabled(name string, enabled bool, cwd string) error {
	s, ok := m.Resolve(cwd)[name]
	if !ok {
		return fmt.Errorf("%w: mcp server %q", ccerrors.ErrNotFound, name)
	}
	if s.SourceType == SourceDirect {
		return m.ToggleDirect(name, enabled, cwd)
	}
	return m.ToggleRegistered(name, enabled, cwd)
}

// ToggleRegistered moves name into exactly one of the enabled and disabled
// overlays of the writable settings file for cwd.
func (m *Manager) ToggleRegistered(name string, enabled bool, cwd string) error {
	path, err := SettingsPath(m.Layout, cwd, true)
	if err != nil {
		return err
	}
	settings, err := claudecode.ReadObject(path)
	if err != nil {
		return err
	}

	if err := toggleMember(settings, EnabledKey, name, enabled); err != nil {
		return err
	}
	if err := toggleMember(settings, DisabledKey, name, !enabled); err != nil {
		return err
	}

	m.Log.Infof("mcp server %s %s in %s", name, enabledWord(enabled), path)
	return claudecode.WriteJSON(path, settings)
}

// ToggleDirect rewrites disabledMcpServers in ~/.claude.json, at the root or
// under projects[cwd] when cwd is set.
func (m *Manager) ToggleDirect(name string, enabled bool, cwd string) error {
	path := m.Layout.DirectFile()
	doc, err := claudecode.ReadObject(path)
	if err != nil {
		return err
	}

	target := doc
	var projects map[string]json.RawMessage
	if cwd != "" {
		projects, err = objectOrNew(doc, "projects")
		if err != nil {
			return err
		}
		target, err = objectOrNew(projects, cwd)
		if err != nil {
			return err
		}
	}

	if err := toggleMember(target, DisabledDirectKey, name, !enabled); err != nil {
		return err
	}

	if cwd != "" {
		if err := setField(projects, cwd, target); err != nil {
			return err
		}
		if err := setField(doc, "projects", projects); err != nil {
			return err
		}
	}

	m.Log.Infof("direct mcp server %s %s in %s", name, enabledWord(enabled), path)
	return claudecode.WriteJSON(path, doc)
}

// objectOrNew returns obj[key] as an object, an empty one when absent, and an
// error when it holds something else.
func objectOrNew(obj map[string]json.RawMessage, key string) (map[string]json.RawMessage, error) {
	raw, ok := obj[key]
	if !ok {
		return map[string]json.RawMessage{}, nil
	}
	field, ok := claudecode.AsObject(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an object", ccerrors.ErrMalformedInput, key)
	}
	return field, nil
}

func setField(obj map[string]json.RawMessage, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	obj[key] = data
	return nil
}

// toggleMember rewrites the array obj[key] so that name is listed once when
// include is set and not at all otherwise. Elements that are not strings are
// kept. A value that is not an array is malformed.
func toggleMember(obj map[string]json.RawMessage, key, name string, include bool) error {
	var items []json.RawMessage
	if raw, ok := obj[key]; ok {
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("%w: %s is not an array", ccerrors.ErrMalformedInput, key)
		}
	}
	return setField(obj, key, merge.SetMembership(items, name, include))
}

func enabledWord(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
