package templates

import (
	_ "embed"
	"encoding/json"
	"fmt"

	ccerrors "github.com/ruminaider/ccmate/internal/errors"
	"go.yaml.in/yaml/v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Template is one installable catalog entry.
type Template struct {
	Type         string         `yaml:"-"`
	ID           string         `yaml:"id"`
	Title        string         `yaml:"title"`
	Description  string         `yaml:"description"`
	Content      string         `yaml:"content"`
	Files        []SkillFile    `yaml:"files"`
	ServerName   string         `yaml:"serverName"`
	ServerConfig map[string]any `yaml:"serverConfig"`
}

// Catalog groups templates by type.
type Catalog struct {
	Agents   []Template `yaml:"agents"`
	Commands []Template `yaml:"commands"`
	Skills   []Template `yaml:"skills"`
	MCP      []Template `yaml:"mcp"`
}

// LoadCatalog parses the embedded catalog. Titles and descriptions missing
// from an entry are taken from its markdown frontmatter.
func LoadCatalog() (*Catalog, error) {
	return parseCatalog(catalogYAML)
}

func parseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: parsing template catalog: %w", ccerrors.ErrMalformedInput, err)
	}
	groups := []struct {
		kind  string
		items []Template
	}{
		{TypeAgent, c.Agents},
		{TypeCommand, c.Commands},
		{TypeSkill, c.Skills},
		{TypeMCP, c.MCP},
	}
	for _, g := range groups {
		for i := range g.items {
			t := &g.items[i]
			t.Type = g.kind
			t.fillFromFrontmatter()
		}
	}
	return &c, nil
}

func (t *Template) fillFromFrontmatter() {
	content := t.Content
	for _, f := range t.Files {
		if f.RelativePath == "SKILL.md" {
			content = f.Content
		}
	}
	name, desc := parseFrontmatter(content)
	if t.Title == "" {
		t.Title = name
	}
	if t.Title == "" {
		t.Title = t.ID
	}
	if t.Description == "" {
		t.Description = desc
	}
}

// All returns every template in catalog order: agents, commands, skills, mcp.
func (c *Catalog) All() []Template {
	var out []Template
	out = append(out, c.Agents...)
	out = append(out, c.Commands...)
	out = append(out, c.Skills...)
	out = append(out, c.MCP...)
	return out
}

// Find returns the template of the given type and id.
func (c *Catalog) Find(kind, id string) (Template, error) {
	for _, t := range c.All() {
		if t.Type == kind && t.ID == id {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: template %s %q", ccerrors.ErrNotFound, kind, id)
}

// PayloadFor builds the install payload for a catalog template.
func (c *Catalog) PayloadFor(kind, id string) (Payload, error) {
	t, err := c.Find(kind, id)
	if err != nil {
		return Payload{}, err
	}
	p := Payload{Type: t.Type, ID: t.ID}
	switch t.Type {
	case TypeAgent, TypeCommand:
		p.Content = t.Content
	case TypeSkill:
		p.SkillFiles = t.Files
	case TypeMCP:
		cfg, err := json.Marshal(t.ServerConfig)
		if err != nil {
			return Payload{}, fmt.Errorf("encoding server config for %s: %w", t.ID, err)
		}
		p.ServerName = t.ServerName
		p.ServerConfig = cfg
	}
	return p, nil
}
