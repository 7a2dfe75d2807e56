package templates

import (
	"strings"

	"go.yaml.in/yaml/v3"
)

// frontmatter is the subset of markdown frontmatter shown in the catalog.
type frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// parseFrontmatter extracts name and description from YAML frontmatter
// delimited by --- lines at the start of content. Missing or invalid
// frontmatter yields empty strings.
func parseFrontmatter(content string) (name, desc string) {
	if !strings.HasPrefix(content, "---") {
		return "", ""
	}
	rest := content[3:]
	idx := strings.IndexByte(rest, '\n')
	if idx < 0 {
		return "", ""
	}
	rest = rest[idx+1:]

	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", ""
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return "", ""
	}
	return fm.Name, fm.Description
}
