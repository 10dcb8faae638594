// Package skills provides parsing and validation for skill documents:
// SKILL.md files carrying a YAML frontmatter block followed by free-text
// Markdown instructions. Everything else in skillsmith (catalog, search,
// workflow composition) is built on top of this package.
package skills

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// SkillFileName is the canonical file name that marks a directory as a skill.
const SkillFileName = "SKILL.md"

// Metadata is the typed view of a skill document's frontmatter. Unknown
// keys are preserved in Extra so catalog consumers never lose fields.
type Metadata struct {
	Name        string         `mapstructure:"name"`
	Description string         `mapstructure:"description"`
	Version     string         `mapstructure:"version"`
	Category    string         `mapstructure:"category"`
	Tags        []string       `mapstructure:"tags"`
	Globs       []string       `mapstructure:"globs"`
	Extra       map[string]any `mapstructure:",remain"`
}

// Document is a parsed skill document: frontmatter plus body.
// Fields is the raw frontmatter mapping (nil when the YAML block parsed to
// an empty or non-mapping result); Meta is its typed decoding.
type Document struct {
	Meta   Metadata
	Fields map[string]any
	Body   string
}

// HasMetadata reports whether the document carried a usable frontmatter mapping.
func (d *Document) HasMetadata() bool {
	return d.Fields != nil
}

// ToMap flattens the metadata back into a single mapping, typed fields
// merged over the preserved unknown keys. Used for catalog serialization.
func (m Metadata) ToMap() map[string]any {
	out := make(map[string]any, len(m.Extra)+6)
	for k, v := range m.Extra {
		out[k] = v
	}
	out["name"] = m.Name
	out["description"] = m.Description
	out["version"] = m.Version
	if m.Category != "" {
		out["category"] = m.Category
	}
	if len(m.Tags) > 0 {
		out["tags"] = m.Tags
	}
	if len(m.Globs) > 0 {
		out["globs"] = m.Globs
	}
	return out
}

// DecodeMetadata decodes a raw frontmatter mapping into Metadata.
// Weak typing tolerates the messiness of hand-written frontmatter:
// a bare string where a sequence is expected, a numeric version, etc.
func DecodeMetadata(fields map[string]any) (Metadata, error) {
	var meta Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &meta,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return meta, errors.Wrap(err, "failed to build metadata decoder")
	}
	if err := decoder.Decode(fields); err != nil {
		return meta, errors.Wrap(err, "failed to decode metadata")
	}
	return meta, nil
}
