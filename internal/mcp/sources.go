package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/ruminaider/ccmate/internal/claudecode"
	"github.com/ruminaider/ccmate/internal/paths"
)

// ReadUserMCPJSON returns the mcpServers of ~/.mcp.json.
func ReadUserMCPJSON(l paths.Layout) (map[string]json.RawMessage, error) {
	return claudecode.ReadServers(l.UserMCPFile())
}

// ReadUserDirect returns the top-level mcpServers of ~/.claude.json.
func ReadUserDirect(l paths.Layout) (map[string]json.RawMessage, error) {
	return claudecode.ReadServers(l.DirectFile())
}

// projectEntry returns ~/.claude.json projects[cwd], or nil when the project
// is not recorded.
func projectEntry(l paths.Layout, cwd string) (map[string]json.RawMessage, error) {
	direct, err := claudecode.ReadObject(l.DirectFile())
	if err != nil {
		return nil, fmt.Errorf("reading project entry: %w", err)
	}
	projects := claudecode.ObjectField(direct, "projects")
	if projects == nil {
		return nil, nil
	}
	return claudecode.ObjectField(projects, cwd), nil
}

// ReadProject returns ~/.claude.json projects[cwd].mcpServers.
func ReadProject(l paths.Layout, cwd string) (map[string]json.RawMessage, error) {
	entry, err := projectEntry(l, cwd)
	if err != nil {
		return nil, err
	}
	servers := claudecode.ObjectField(entry, "mcpServers")
	if servers == nil {
		return map[string]json.RawMessage{}, nil
	}
	return servers, nil
}

// ReadLocal returns the mcpServers of <projectDir>/.mcp.json.
func ReadLocal(projectDir string) (map[string]json.RawMessage, error) {
	return claudecode.ReadServers(paths.ProjectMCPFile(projectDir))
}

// ProjectDir reports whether cwd is a project recorded in ~/.claude.json and
// returns its directory.
func ProjectDir(l paths.Layout, cwd string) (string, bool, error) {
	if cwd == "" {
		return "", false, nil
	}
	direct, err := claudecode.ReadObject(l.DirectFile())
	if err != nil {
		return "", false, err
	}
	projects := claudecode.ObjectField(direct, "projects")
	if _, ok := projects[cwd]; !ok {
		return "", false, nil
	}
	return cwd, true, nil
}
