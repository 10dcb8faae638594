// Package watcher monitors a project for context drift: skills appearing or
// disappearing under .agent/skills/, git branch switches, and a STATE.md
// that has gone stale.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/skillsmith/skillsmith/pkg/logger"
)

// EventType classifies a drift event.
type EventType string

const (
	// EventSkillAdded fires when a new skill folder appears.
	EventSkillAdded EventType = "skill_added"
	// EventSkillRemoved fires when a skill folder disappears.
	EventSkillRemoved EventType = "skill_removed"
	// EventStaleState fires when STATE.md is older than the threshold.
	EventStaleState EventType = "stale_state"
	// EventBranchSwitched fires when the git branch changes.
	EventBranchSwitched EventType = "branch_switched"
)

// Event is one observed drift.
type Event struct {
	Type   EventType
	Detail string
}

// Config controls watch behavior.
type Config struct {
	Interval       time.Duration
	StaleThreshold time.Duration
	StateFile      string
}

// NewConfig returns the default watch configuration.
func NewConfig() Config {
	return Config{
		Interval:       30 * time.Second,
		StaleThreshold: 4 * time.Hour,
		StateFile:      filepath.Join(".agent", "STATE.md"),
	}
}

// Watcher observes one project root for drift.
type Watcher struct {
	root   string
	config Config

	lastBranch string
	lastSkills map[string]struct{}
	wasStale   bool
}

// New creates a Watcher over the project root.
func New(root string, config Config) *Watcher {
	return &Watcher{root: root, config: config}
}

func (w *Watcher) skillsDir() string {
	return filepath.Join(w.root, ".agent", "skills")
}

// Run blocks emitting drift events until the context is cancelled. The
// events channel is closed on return.
func (w *Watcher) Run(ctx context.Context, events chan<- Event) error {
	defer close(events)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer fsw.Close()

	if _, err := os.Stat(w.skillsDir()); err == nil {
		if err := fsw.Add(w.skillsDir()); err != nil {
			logger.G(ctx).WithError(err).Warn("could not watch skills directory")
		}
	}

	w.lastBranch = w.currentBranch()
	w.lastSkills = w.skillSet()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.emitSkillDiff(ctx, events)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.G(ctx).WithError(err).Warn("file watcher error")
		case <-ticker.C:
			w.emitSkillDiff(ctx, events)
			w.emitBranchSwitch(ctx, events)
			w.emitStaleness(ctx, events)
		}
	}
}

func (w *Watcher) emitSkillDiff(ctx context.Context, events chan<- Event) {
	current := w.skillSet()
	for name := range current {
		if _, ok := w.lastSkills[name]; !ok {
			send(ctx, events, Event{Type: EventSkillAdded, Detail: name})
		}
	}
	for name := range w.lastSkills {
		if _, ok := current[name]; !ok {
			send(ctx, events, Event{Type: EventSkillRemoved, Detail: name})
		}
	}
	w.lastSkills = current
}

func (w *Watcher) emitBranchSwitch(ctx context.Context, events chan<- Event) {
	branch := w.currentBranch()
	if branch != "" && w.lastBranch != "" && branch != w.lastBranch {
		send(ctx, events, Event{Type: EventBranchSwitched, Detail: w.lastBranch + " -> " + branch})
	}
	if branch != "" {
		w.lastBranch = branch
	}
}

// emitStaleness fires once per staleness episode: touching STATE.md rearms it.
func (w *Watcher) emitStaleness(ctx context.Context, events chan<- Event) {
	age, ok := w.stateAge()
	stale := !ok || age > w.config.StaleThreshold
	if stale && !w.wasStale {
		detail := w.config.StateFile + " is missing"
		if ok {
			detail = w.config.StateFile + " is " + age.Truncate(time.Minute).String() + " old"
		}
		send(ctx, events, Event{Type: EventStaleState, Detail: detail})
	}
	w.wasStale = stale
}

func (w *Watcher) stateAge() (time.Duration, bool) {
	fi, err := os.Stat(filepath.Join(w.root, w.config.StateFile))
	if err != nil {
		return 0, false
	}
	return time.Since(fi.ModTime()), true
}

func (w *Watcher) skillSet() map[string]struct{} {
	set := map[string]struct{}{}
	entries, err := os.ReadDir(w.skillsDir())
	if err != nil {
		return set
	}
	for _, e := range entries {
		if e.IsDir() {
			set[e.Name()] = struct{}{}
		}
	}
	return set
}

// currentBranch reads .git/HEAD directly so the watcher never shells out.
func (w *Watcher) currentBranch() string {
	data, err := os.ReadFile(filepath.Join(w.root, ".git", "HEAD"))
	if err != nil {
		return ""
	}
	head := strings.TrimSpace(string(data))
	if ref, ok := strings.CutPrefix(head, "ref: refs/heads/"); ok {
		return ref
	}
	return ""
}

func send(ctx context.Context, events chan<- Event, ev Event) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}
