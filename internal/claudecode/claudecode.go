package claudecode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	ccerrors "github.com/ruminaider/ccmate/internal/errors"
)

// InstalledPlugins represents ~/.claude/plugins/installed_plugins.json.
type InstalledPlugins struct {
	Version int                             `json:"version"`
	Plugins map[string][]PluginInstallation `json:"plugins"`
}

// PluginInstallation represents a single plugin installation entry.
type PluginInstallation struct {
	Scope        string `json:"scope"`
	InstallPath  string `json:"installPath"`
	ProjectPath  string `json:"projectPath,omitempty"`
	Version      string `json:"version"`
	InstalledAt  string `json:"installedAt"`
	LastUpdated  string `json:"lastUpdated"`
	GitCommitSha string `json:"gitCommitSha,omitempty"`
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates path and any missing parents.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("%w: creating directory %s: %w", ccerrors.ErrIO, path, err)
	}
	return nil
}

// ReadJSON reads any JSON document. A missing file reads as an empty object.
func ReadJSON(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return json.RawMessage("{}"), nil
		}
		return nil, fmt.Errorf("%w: reading %s: %w", ccerrors.ErrIO, path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 || !json.Valid(data) {
		return nil, fmt.Errorf("%w: parsing %s: invalid JSON", ccerrors.ErrMalformedInput, path)
	}
	return json.RawMessage(data), nil
}

// ReadObject reads a JSON object as a map of raw values. A missing file reads
// as an empty map; a document that is not an object is malformed.
func ReadObject(path string) (map[string]json.RawMessage, error) {
	raw, err := ReadJSON(path)
	if err != nil {
		return nil, err
	}
	obj, ok := AsObject(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a JSON object", ccerrors.ErrMalformedInput, path)
	}
	return obj, nil
}

// AsObject decodes raw as a JSON object. ok is false for arrays, scalars and null.
func AsObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, false
	}
	if obj == nil {
		obj = map[string]json.RawMessage{}
	}
	return obj, true
}

// WriteJSON writes v as indented JSON, creating the parent directory.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshaling %s: %w", ccerrors.ErrMalformedInput, path, err)
	}
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ccerrors.ErrIO, path, err)
	}
	return nil
}

// StringArray returns the string elements of obj[key]. Missing keys, non-array
// values and non-string elements are ignored.
func StringArray(obj map[string]json.RawMessage, key string) []string {
	raw, ok := obj[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var out []string
	for _, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil {
			out = append(out, s)
		}
	}
	return out
}

// ObjectField returns obj[key] decoded as an object, or nil when absent or
// not an object.
func ObjectField(obj map[string]json.RawMessage, key string) map[string]json.RawMessage {
	raw, ok := obj[key]
	if !ok {
		return nil
	}
	field, ok := AsObject(raw)
	if !ok {
		return nil
	}
	return field
}

// ReadServers reads the mcpServers object of a registration file. Missing
// files and missing keys read as an empty map.
func ReadServers(path string) (map[string]json.RawMessage, error) {
	obj, err := ReadObject(path)
	if err != nil {
		return nil, err
	}
	servers := ObjectField(obj, "mcpServers")
	if servers == nil {
		return map[string]json.RawMessage{}, nil
	}
	return servers, nil
}

// ReadInstalledPlugins reads the installed-plugins descriptor. A missing file
// reads as no plugins.
func ReadInstalledPlugins(path string) (*InstalledPlugins, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &InstalledPlugins{Plugins: map[string][]PluginInstallation{}}, nil
		}
		return nil, fmt.Errorf("%w: reading installed plugins: %w", ccerrors.ErrIO, err)
	}
	var plugins InstalledPlugins
	if err := json.Unmarshal(data, &plugins); err != nil {
		return nil, fmt.Errorf("%w: parsing installed plugins: %w", ccerrors.ErrMalformedInput, err)
	}
	if plugins.Plugins == nil {
		plugins.Plugins = map[string][]PluginInstallation{}
	}
	return &plugins, nil
}

// PlaceholderAPIKey is written by UnlockExtension when no key is configured.
const PlaceholderAPIKey = "xxx"

// UnlockExtension makes sure the credential file at path carries a
// primaryApiKey so the editor extension starts without a login prompt.
// Existing keys are left alone.
func UnlockExtension(path string) error {
	obj, err := ReadObject(path)
	if err != nil {
		return err
	}
	if _, ok := obj["primaryApiKey"]; ok {
		return nil
	}
	obj["primaryApiKey"] = json.RawMessage(`"` + PlaceholderAPIKey + `"`)
	return WriteJSON(path, obj)
}
