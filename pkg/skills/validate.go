package skills

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

var requiredFields = []string{"name", "description", "version"}

const (
	minDescriptionLen = 10
	maxDescriptionLen = 200
	minBodyLen        = 50
)

// Result is the outcome of validating one skill document. Validity is
// determined by errors alone; warnings are advisory and never fail a skill.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Messages returns all diagnostics, errors first, preserving check order.
func (r Result) Messages() []string {
	out := make([]string, 0, len(r.Errors)+len(r.Warnings))
	out = append(out, r.Errors...)
	out = append(out, r.Warnings...)
	return out
}

// ValidateBasic checks that the required frontmatter keys are present.
// It never returns an unhandled fault for any input text.
func ValidateBasic(content string) Result {
	doc, err := Parse(content)
	if err != nil {
		return Result{Errors: []string{err.Error()}}
	}
	if !doc.HasMetadata() {
		return Result{Errors: []string{"empty or invalid YAML frontmatter"}}
	}

	var missing []string
	for _, field := range requiredFields {
		if _, ok := doc.Fields[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return Result{Errors: []string{fmt.Sprintf("missing required keys: %s", strings.Join(missing, ", "))}}
	}

	return Result{Valid: true}
}

// Validate applies the full standard to a skill document: every check runs
// and its diagnostics accumulate, so a single pass reports everything wrong
// with a document. A document that fails frontmatter parsing entirely
// reports one top-level error and is invalid.
func Validate(content string) Result {
	doc, err := Parse(content)
	if err != nil {
		return Result{Errors: []string{err.Error()}}
	}
	if !doc.HasMetadata() {
		return Result{Errors: []string{"empty or invalid YAML frontmatter"}}
	}

	var res Result

	for _, field := range requiredFields {
		if _, ok := doc.Fields[field]; !ok {
			res.Errors = append(res.Errors, fmt.Sprintf("missing '%s'", field))
		}
	}

	if desc := doc.Meta.Description; desc != "" {
		if len(desc) < minDescriptionLen {
			res.Errors = append(res.Errors, fmt.Sprintf("description too short (<%d chars)", minDescriptionLen))
		} else if len(desc) > maxDescriptionLen {
			res.Warnings = append(res.Warnings, fmt.Sprintf("description >%d chars (trim for context efficiency)", maxDescriptionLen))
		}
	}

	if ver := doc.Meta.Version; ver != "" && !semverPattern.MatchString(ver) {
		res.Errors = append(res.Errors, fmt.Sprintf("version '%s' not semver (e.g. 1.0.0)", ver))
	}

	if _, ok := doc.Fields["tags"]; !ok {
		res.Warnings = append(res.Warnings, "missing 'tags' (recommended for discovery)")
	}
	if _, ok := doc.Fields["globs"]; !ok {
		res.Warnings = append(res.Warnings, "missing 'globs' (recommended for file-scoped rules)")
	} else {
		for _, pattern := range doc.Meta.Globs {
			if !doublestar.ValidatePattern(pattern) {
				res.Warnings = append(res.Warnings, fmt.Sprintf("glob pattern '%s' is invalid", pattern))
			}
		}
	}

	if len(strings.TrimSpace(doc.Body)) < minBodyLen {
		res.Errors = append(res.Errors, fmt.Sprintf("body too short (<%d chars)", minBodyLen))
	} else if !hasHeading(content) {
		res.Warnings = append(res.Warnings, "body has no headings (recommended for structure)")
	}

	res.Valid = len(res.Errors) == 0
	return res
}

// hasHeading parses the full document as Markdown, frontmatter consumed by
// the meta extension, and reports whether the body contains any heading.
func hasHeading(content string) bool {
	md := goldmark.New(goldmark.WithExtensions(meta.Meta))
	pctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader([]byte(content)), parser.WithContext(pctx))

	found := false
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if _, ok := n.(*ast.Heading); ok {
			found = true
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return found
}
