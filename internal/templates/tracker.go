// Package templates installs ready-made agents, commands, skills and MCP
// servers into ~/.claude and records each install in a manifest so it can be
// reversed exactly.
//
// Installs are two-phase: the filesystem (or registry) effect happens first
// and the manifest is appended only after it succeeds. A crash in between
// leaves an artifact the manifest does not know about.
package templates

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ruminaider/ccmate/internal/claudecode"
	ccerrors "github.com/ruminaider/ccmate/internal/errors"
	"github.com/ruminaider/ccmate/internal/logging"
	"github.com/ruminaider/ccmate/internal/paths"
)

// Template types.
const (
	TypeAgent   = "agent"
	TypeCommand = "command"
	TypeSkill   = "skill"
	TypeMCP     = "mcp"
)

// ManifestVersion is written to new manifests.
const ManifestVersion = 1

// mcpTarget is the targetPath recorded for MCP installs.
const mcpTarget = "mcp"

// Item is one manifest entry.
type Item struct {
	Type        string `json:"type"`
	ID          string `json:"id"`
	TargetPath  string `json:"targetPath"`
	InstalledAt string `json:"installedAt"`
}

// Manifest is the on-disk shape of installed.json.
type Manifest struct {
	Version int    `json:"version"`
	Items   []Item `json:"items"`
}

// SkillFile is one file of a skill directory.
type SkillFile struct {
	RelativePath string `json:"relativePath" yaml:"relativePath"`
	Content      string `json:"content" yaml:"content"`
}

// Payload describes what to install. Content is used by agents and
// commands, SkillFiles by skills, ServerName and ServerConfig by mcp.
type Payload struct {
	Type         string          `json:"type"`
	ID           string          `json:"id"`
	Content      string          `json:"content,omitempty"`
	SkillFiles   []SkillFile     `json:"skillFiles,omitempty"`
	ServerName   string          `json:"serverName,omitempty"`
	ServerConfig json.RawMessage `json:"serverConfig,omitempty"`
}

// ServerRegistry writes MCP servers into the user-level registration file.
type ServerRegistry interface {
	UpsertGlobal(name string, config json.RawMessage) error
	DeleteGlobal(name string) error
}

// Tracker installs and uninstalls templates.
type Tracker struct {
	Layout   paths.Layout
	Registry ServerRegistry
	Log      logging.Logger

	now func() time.Time
}

func NewTracker(l paths.Layout, registry ServerRegistry, log logging.Logger) *Tracker {
	return &Tracker{Layout: l, Registry: registry, Log: log, now: time.Now}
}

func (t *Tracker) load() (*Manifest, error) {
	raw, err := claudecode.ReadJSON(t.Layout.ManifestFile())
	if err != nil {
		return nil, fmt.Errorf("reading install manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: parsing install manifest: %w", ccerrors.ErrMalformedInput, err)
	}
	if m.Version == 0 {
		m.Version = ManifestVersion
	}
	if m.Items == nil {
		m.Items = []Item{}
	}
	return &m, nil
}

func (t *Tracker) save(m *Manifest) error {
	if err := claudecode.WriteJSON(t.Layout.ManifestFile(), m); err != nil {
		return fmt.Errorf("writing install manifest: %w", err)
	}
	return nil
}

// Installed returns the manifest items in install order.
func (t *Tracker) Installed() ([]Item, error) {
	m, err := t.load()
	if err != nil {
		return nil, err
	}
	return m.Items, nil
}

// Install performs the payload's filesystem or registry effect and records
// it. Existing files and skill directories are never overwritten.
func (t *Tracker) Install(p Payload) error {
	m, err := t.load()
	if err != nil {
		return err
	}

	var item Item
	switch p.Type {
	case TypeAgent, TypeCommand:
		item, err = t.installFile(p)
	case TypeSkill:
		item, err = t.installSkill(p)
	case TypeMCP:
		item, err = t.installServer(p)
	default:
		return fmt.Errorf("%w: unsupported template type %q", ccerrors.ErrMalformedInput, p.Type)
	}
	if err != nil {
		return err
	}

	item.InstalledAt = t.now().UTC().Format(time.RFC3339)
	m.Items = append(m.Items, item)
	if err := t.save(m); err != nil {
		return err
	}
	t.Log.Infof("installed %s %s at %s", item.Type, item.ID, item.TargetPath)
	return nil
}

func subdir(kind string) string {
	return kind + "s"
}

// validateID rejects ids that would escape their template directory.
func validateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: invalid template id %q", ccerrors.ErrMalformedInput, id)
	}
	return nil
}

// validateRelativePath rejects absolute paths and any ".." segment.
func validateRelativePath(rel string) error {
	if rel == "" || filepath.IsAbs(rel) || strings.HasPrefix(rel, "/") {
		return fmt.Errorf("%w: invalid skill file path %q", ccerrors.ErrMalformedInput, rel)
	}
	for _, part := range strings.FieldsFunc(rel, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return fmt.Errorf("%w: skill file path %q leaves the skill directory", ccerrors.ErrMalformedInput, rel)
		}
	}
	return nil
}

func (t *Tracker) installFile(p Payload) (Item, error) {
	if err := validateID(p.ID); err != nil {
		return Item{}, err
	}
	if p.Content == "" {
		return Item{}, fmt.Errorf("%w: %s payload missing content", ccerrors.ErrMalformedInput, p.Type)
	}

	dir := t.Layout.TemplateDir(subdir(p.Type))
	if err := claudecode.EnsureDir(dir); err != nil {
		return Item{}, err
	}
	target := filepath.Join(dir, p.ID+".md")
	if claudecode.Exists(target) {
		return Item{}, fmt.Errorf("%w: %s file %s", ccerrors.ErrAlreadyExists, p.Type, target)
	}
	if err := os.WriteFile(target, []byte(p.Content), 0644); err != nil {
		return Item{}, fmt.Errorf("%w: writing %s: %w", ccerrors.ErrIO, target, err)
	}
	return Item{Type: p.Type, ID: p.ID, TargetPath: target}, nil
}

func (t *Tracker) installSkill(p Payload) (Item, error) {
	if err := validateID(p.ID); err != nil {
		return Item{}, err
	}
	if p.SkillFiles == nil {
		return Item{}, fmt.Errorf("%w: skill payload missing skillFiles", ccerrors.ErrMalformedInput)
	}
	for _, f := range p.SkillFiles {
		if err := validateRelativePath(f.RelativePath); err != nil {
			return Item{}, err
		}
	}

	root := t.Layout.TemplateDir(subdir(TypeSkill))
	if err := claudecode.EnsureDir(root); err != nil {
		return Item{}, err
	}
	target := filepath.Join(root, p.ID)
	if claudecode.Exists(target) {
		return Item{}, fmt.Errorf("%w: skill directory %s", ccerrors.ErrAlreadyExists, target)
	}
	if err := claudecode.EnsureDir(target); err != nil {
		return Item{}, err
	}

	for _, f := range p.SkillFiles {
		full := filepath.Join(target, filepath.FromSlash(f.RelativePath))
		if err := claudecode.EnsureDir(filepath.Dir(full)); err != nil {
			os.RemoveAll(target)
			return Item{}, err
		}
		if err := os.WriteFile(full, []byte(f.Content), 0644); err != nil {
			os.RemoveAll(target)
			return Item{}, fmt.Errorf("%w: writing skill file %s: %w", ccerrors.ErrIO, full, err)
		}
	}
	return Item{Type: TypeSkill, ID: p.ID, TargetPath: target}, nil
}

func (t *Tracker) installServer(p Payload) (Item, error) {
	if p.ServerName == "" {
		return Item{}, fmt.Errorf("%w: mcp payload missing serverName", ccerrors.ErrMalformedInput)
	}
	if len(p.ServerConfig) == 0 {
		return Item{}, fmt.Errorf("%w: mcp payload missing serverConfig", ccerrors.ErrMalformedInput)
	}
	if err := t.Registry.UpsertGlobal(p.ServerName, p.ServerConfig); err != nil {
		return Item{}, err
	}
	return Item{Type: TypeMCP, ID: p.ServerName, TargetPath: mcpTarget}, nil
}

// Uninstall removes every manifest item matching (kind, id) together with its
// artifact. Removal errors abort before the manifest is rewritten. Items of
// unknown types are dropped without touching the filesystem.
func (t *Tracker) Uninstall(kind, id string) error {
	m, err := t.load()
	if err != nil {
		return err
	}

	remaining := make([]Item, 0, len(m.Items))
	found := false
	for _, item := range m.Items {
		if item.Type != kind || item.ID != id {
			remaining = append(remaining, item)
			continue
		}
		found = true
		if err := t.removeArtifact(item); err != nil {
			return err
		}
	}
	if !found {
		return fmt.Errorf("%w: installed %s %q", ccerrors.ErrNotFound, kind, id)
	}

	m.Items = remaining
	if err := t.save(m); err != nil {
		return err
	}
	t.Log.Infof("uninstalled %s %s", kind, id)
	return nil
}

func (t *Tracker) removeArtifact(item Item) error {
	switch item.Type {
	case TypeAgent, TypeCommand:
		if err := os.Remove(item.TargetPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: removing %s: %w", ccerrors.ErrIO, item.TargetPath, err)
		}
	case TypeSkill:
		if err := os.RemoveAll(item.TargetPath); err != nil {
			return fmt.Errorf("%w: removing skill directory %s: %w", ccerrors.ErrIO, item.TargetPath, err)
		}
	case TypeMCP:
		err := t.Registry.DeleteGlobal(item.ID)
		if errors.Is(err, ccerrors.ErrNotFound) {
			t.Log.Warnf("mcp server %s was already removed", item.ID)
			return nil
		}
		return err
	}
	return nil
}
