package skills

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ErrMalformedDocument indicates a document whose frontmatter is structurally
// broken: missing start delimiter, missing closing delimiter, or invalid YAML.
// Always recoverable; callers skip the document or convert to a diagnostic.
var ErrMalformedDocument = errors.New("malformed skill document")

// Parse splits a skill document into frontmatter and body and decodes the
// frontmatter. It is a pure function of the input text.
//
// The document must begin with a delimiter line. Splitting on the delimiter
// must yield at least three segments: an empty prefix, the YAML block, and
// the body remainder. Any further delimiter occurrences belong to the body
// and are kept intact. A YAML block that parses to an empty or non-mapping
// result yields a document with no metadata, which is not an error.
func Parse(content string) (*Document, error) {
	s := strings.TrimPrefix(content, "\ufeff")

	if !strings.HasPrefix(s, delimiter) {
		return nil, errors.Wrap(ErrMalformedDocument, "missing frontmatter start delimiter")
	}

	parts := strings.SplitN(s, delimiter, 3)
	if len(parts) < 3 {
		return nil, errors.Wrap(ErrMalformedDocument, "missing frontmatter closing delimiter")
	}

	body := strings.TrimPrefix(parts[2], "\n")

	var raw any
	if err := yaml.Unmarshal([]byte(parts[1]), &raw); err != nil {
		return nil, errors.Wrapf(ErrMalformedDocument, "invalid frontmatter YAML: %v", err)
	}

	fields, ok := raw.(map[string]any)
	if !ok || len(fields) == 0 {
		// Empty or non-mapping frontmatter: a document with no metadata.
		return &Document{Body: body}, nil
	}

	meta, err := DecodeMetadata(fields)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedDocument, "frontmatter is not a usable mapping: %v", err)
	}

	return &Document{
		Meta:   meta,
		Fields: fields,
		Body:   body,
	}, nil
}

// IsMalformed reports whether err originates from a structurally broken document.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedDocument)
}
