// Package workflow composes goal-specific workflows from the skill catalog:
// skills are ranked against a free-text goal and rendered into a numbered
// Markdown document, one step per selected skill.
package workflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/skillsmith/skillsmith/pkg/catalog"
	"github.com/skillsmith/skillsmith/pkg/relevance"
)

// DefaultMaxSkills is the number of steps a workflow is capped at unless
// the caller asks for a different limit.
const DefaultMaxSkills = 7

// Step is one selected skill in a composed workflow.
type Step struct {
	Folder      string
	Name        string
	Description string
	Score       int
}

// Composition is the outcome of composing a workflow for a goal.
// Matched counts every skill that scored above zero; Steps holds the
// selected top slice in rank order.
type Composition struct {
	Goal    string
	Steps   []Step
	Matched int
}

// Empty reports whether no skill scored above zero for the goal.
// This is a normal, user-visible outcome, not a fault.
func (c Composition) Empty() bool {
	return len(c.Steps) == 0
}

// Compose scores every record against the goal, orders by descending score
// with ties broken by discovery order, and selects at most maxSkills steps.
// Zero-score skills are never selected.
func Compose(goal string, maxSkills int, records []catalog.Record) Composition {
	if maxSkills <= 0 {
		maxSkills = DefaultMaxSkills
	}

	var steps []Step
	for _, r := range records {
		searchable := relevance.SearchText(r.Meta.Name, r.Meta.Description, r.Meta.Tags, r.Body)
		score := relevance.Score(goal, searchable)
		if score == 0 {
			continue
		}
		steps = append(steps, Step{
			Folder:      r.Folder,
			Name:        r.Meta.Name,
			Description: r.Meta.Description,
			Score:       score,
		})
	}

	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Score > steps[j].Score
	})

	matched := len(steps)
	if len(steps) > maxSkills {
		steps = steps[:maxSkills]
	}

	return Composition{Goal: goal, Steps: steps, Matched: matched}
}

// NoMatchMessage is what callers surface when a goal matched nothing.
func NoMatchMessage(goal string) string {
	return fmt.Sprintf("No skills matched the goal: '%s'. Try broader keywords.", goal)
}

// Render produces the workflow document. Output is fully deterministic
// given the same composition.
func Render(c Composition) string {
	if c.Empty() {
		return NoMatchMessage(c.Goal)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "# Workflow: %s\n\n", titleCase(c.Goal))
	fmt.Fprintf(&b, "> Generated by skillsmith from %d skills.\n", len(c.Steps))
	b.WriteString("> Edit steps as needed for your project.\n\n---\n\n")

	for i, step := range c.Steps {
		n := i + 1
		fmt.Fprintf(&b, "## Step %d: %s\n\n", n, titleCase(strings.ReplaceAll(step.Name, "-", " ")))
		fmt.Fprintf(&b, "**Skill:** `%s`\n\n", step.Folder)
		fmt.Fprintf(&b, "**Purpose:** %s\n\n", step.Description)
		fmt.Fprintf(&b, "**Instructions:** Use get_skill('%s') to read full instructions.\n\n", step.Folder)
		b.WriteString("### Acceptance Criteria\n")
		fmt.Fprintf(&b, "- [ ] Step %d complete\n\n---\n\n", n)
	}

	b.WriteString("## Notes\n\n")
	fmt.Fprintf(&b, "- Generated for goal: **%s**\n", c.Goal)
	fmt.Fprintf(&b, "- %d skills matched, top %d selected by relevance\n", c.Matched, len(c.Steps))

	return b.String()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
