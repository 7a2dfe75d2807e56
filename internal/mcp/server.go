// Package mcp resolves MCP server registrations across the user, plugin,
// project and local scopes, computes their enablement, and writes toggles
// back to the file that governs each server.
//
// Nothing is cached: every call re-reads the files it needs.
package mcp

import (
	"encoding/json"

	"github.com/ruminaider/ccmate/internal/logging"
	"github.com/ruminaider/ccmate/internal/paths"
)

// SourceType is the kind of file a server definition came from.
type SourceType string

const (
	SourceMCPJSON SourceType = "mcpjson"
	SourceDirect  SourceType = "direct"
	SourcePlugin  SourceType = "plugin"
)

// Scope is the authority level of a definition.
type Scope string

const (
	ScopeUser        Scope = "user"
	ScopeProject     Scope = "project"
	ScopeLocal       Scope = "local"
	ScopePluginUser  Scope = "plugin-user"
	ScopePluginLocal Scope = "plugin-local"
)

// State is the derived enablement of a server.
type State string

const (
	StateEnabled         State = "enabled"
	StateDisabled        State = "disabled"
	StateRuntimeDisabled State = "runtime-disabled"
)

// Server is one entry of the merged view.
type Server struct {
	Name       string          `json:"name"`
	Config     json.RawMessage `json:"config"`
	SourceType SourceType      `json:"sourceType"`
	Scope      Scope           `json:"scope"`
	DefinedIn  string          `json:"definedIn"`
	// Controllable is set when enablement is written to the settings overlays
	// rather than to ~/.claude.json.
	Controllable bool `json:"controllable"`
}

// ServerState is a Server with its computed enablement.
type ServerState struct {
	Server
	State           State `json:"state"`
	InEnabledArray  bool  `json:"inEnabledArray"`
	InDisabledArray bool  `json:"inDisabledArray"`
}

// Manager runs the read and write operations against one home layout.
type Manager struct {
	Layout paths.Layout
	Log    logging.Logger
}

func NewManager(l paths.Layout, log logging.Logger) *Manager {
	return &Manager{Layout: l, Log: log}
}
