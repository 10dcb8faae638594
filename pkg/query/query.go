// Package query exposes the read-only operation set over a live skills
// directory: list, get, search, and compose. Every operation performs a
// fresh directory scan and holds no cross-call state, so concurrent and
// repeated invocations are safe by construction.
package query

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/skillsmith/skillsmith/pkg/catalog"
	"github.com/skillsmith/skillsmith/pkg/relevance"
	"github.com/skillsmith/skillsmith/pkg/telemetry"
	"github.com/skillsmith/skillsmith/pkg/workflow"
)

// DefaultMaxResults caps search hits unless the caller asks otherwise.
const DefaultMaxResults = 10

// Service answers list/get/search/compose operations over a skills root.
// It reflects the on-disk state at call time; nothing is cached.
type Service struct {
	root string
}

// NewService creates a query service over the given skills root.
func NewService(root string) *Service {
	return &Service{root: root}
}

// Root returns the skills root the service reads from.
func (s *Service) Root() string {
	return s.root
}

// SkillSummary is one row of a list_skills result.
type SkillSummary struct {
	Name        string   `json:"name"`
	Folder      string   `json:"folder"`
	Description string   `json:"description"`
	Version     string   `json:"version"`
	Tags        []string `json:"tags"`
}

// SearchHit is one ranked search result.
type SearchHit struct {
	Name           string   `json:"name"`
	Folder         string   `json:"folder"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
	RelevanceScore int      `json:"relevance_score"`
}

// NotFoundError reports a skill that could not be resolved by any
// matching strategy.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Skill '%s' not found. Use list_skills() to see available skills.", e.Name)
}

// AmbiguousError reports a partial name that matched several skills;
// it carries the full candidate list rather than guessing.
type AmbiguousError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("Ambiguous skill name '%s'. Did you mean one of: %s?", e.Name, strings.Join(e.Candidates, ", "))
}

// ListSkills enumerates every skill under the root. A missing or empty
// root yields an empty slice, never an error.
func (s *Service) ListSkills(ctx context.Context) ([]SkillSummary, error) {
	summaries := []SkillSummary{}
	err := telemetry.WithSpan(ctx, "query.list_skills", func(ctx context.Context) error {
		c, err := catalog.Build(ctx, s.root)
		if err != nil {
			return err
		}
		for _, r := range c.Records {
			tags := r.Meta.Tags
			if tags == nil {
				tags = []string{}
			}
			summaries = append(summaries, SkillSummary{
				Name:        r.Meta.Name,
				Folder:      r.Folder,
				Description: r.Meta.Description,
				Version:     r.Meta.Version,
				Tags:        tags,
			})
		}
		return nil
	})
	return summaries, err
}

var separatorPattern = regexp.MustCompile(`[-\s]+`)

// GetSkill returns the full raw document for one skill. Resolution tries an
// exact folder match, then a case/separator-normalized match, then a unique
// substring match. Several substring matches yield an AmbiguousError with
// the full candidate list; no match yields a NotFoundError.
func (s *Service) GetSkill(ctx context.Context, name string) (string, error) {
	var content string
	err := telemetry.WithSpan(ctx, "query.get_skill", func(ctx context.Context) error {
		entries, err := catalog.Discover(s.root)
		if err != nil {
			return err
		}

		// Exact folder match.
		for _, e := range entries {
			if e.Folder == name {
				return s.read(e.Path, &content)
			}
		}

		// Case/separator-normalized match: "fastapi-best-practices"
		// resolves to folder fastapi_best_practices.
		normalized := separatorPattern.ReplaceAllString(strings.ToLower(name), "_")
		for _, e := range entries {
			if strings.ToLower(e.Folder) == normalized {
				return s.read(e.Path, &content)
			}
		}

		// Unique substring match.
		var matches []catalog.Entry
		lower := strings.ToLower(name)
		for _, e := range entries {
			if strings.Contains(strings.ToLower(e.Folder), lower) {
				matches = append(matches, e)
			}
		}

		switch len(matches) {
		case 1:
			return s.read(matches[0].Path, &content)
		case 0:
			return &NotFoundError{Name: name}
		default:
			candidates := make([]string, 0, len(matches))
			for _, m := range matches {
				candidates = append(candidates, m.Folder)
			}
			return &AmbiguousError{Name: name, Candidates: candidates}
		}
	}, attribute.String("skill.name", name))
	return content, err
}

func (s *Service) read(path string, out *string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	*out = string(data)
	return nil
}

// SearchSkills returns ranked hits for a keyword query, capped at
// maxResults. Zero-score skills never appear; ties keep discovery order.
func (s *Service) SearchSkills(ctx context.Context, query string, maxResults int) ([]SearchHit, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	hits := []SearchHit{}
	err := telemetry.WithSpan(ctx, "query.search_skills", func(ctx context.Context) error {
		c, err := catalog.Build(ctx, s.root)
		if err != nil {
			return err
		}

		for _, r := range c.Records {
			searchable := relevance.SearchText(r.Meta.Name, r.Meta.Description, r.Meta.Tags, r.Body)
			score := relevance.Score(query, searchable)
			if score == 0 {
				continue
			}
			tags := r.Meta.Tags
			if tags == nil {
				tags = []string{}
			}
			hits = append(hits, SearchHit{
				Name:           r.Meta.Name,
				Folder:         r.Folder,
				Description:    r.Meta.Description,
				Tags:           tags,
				RelevanceScore: score,
			})
		}

		sort.SliceStable(hits, func(i, j int) bool {
			return hits[i].RelevanceScore > hits[j].RelevanceScore
		})
		if len(hits) > maxResults {
			hits = hits[:maxResults]
		}
		return nil
	}, attribute.String("search.query", query))
	return hits, err
}

// ComposeWorkflow renders a workflow document for the goal. A missing
// skills directory or a goal that matches nothing both produce descriptive
// text, never an error.
func (s *Service) ComposeWorkflow(ctx context.Context, goal string, maxSkills int) (string, error) {
	var rendered string
	err := telemetry.WithSpan(ctx, "query.compose_workflow", func(ctx context.Context) error {
		if info, err := os.Stat(s.root); err != nil || !info.IsDir() {
			rendered = "Error: Skills directory not found. Run: skillsmith init"
			return nil
		}

		c, err := catalog.Build(ctx, s.root)
		if err != nil {
			return err
		}

		rendered = workflow.Render(workflow.Compose(goal, maxSkills, c.Records))
		return nil
	}, attribute.String("workflow.goal", goal))
	return rendered, err
}
