package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".agent", "skills", "debugging"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".agent", "STATE.md"), []byte("# STATE\n"), 0o644))
	return root
}

func testConfig() Config {
	c := NewConfig()
	c.Interval = 20 * time.Millisecond
	return c
}

func collectUntil(t *testing.T, events <-chan Event, want EventType, timeout time.Duration) Event {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatalf("events channel closed before %s event", want)
			}
			if ev.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", want)
		}
	}
}

func runWatcher(t *testing.T, w *Watcher) (<-chan Event, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan Event, 16)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, events) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("watcher did not stop")
		}
	})
	return events, cancel
}

func TestWatcherDetectsSkillAdded(t *testing.T) {
	root := seedProject(t)
	w := New(root, testConfig())
	events, _ := runWatcher(t, w)

	// Give the watcher a moment to record the initial skill set.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".agent", "skills", "git_workflow"), 0o755))

	ev := collectUntil(t, events, EventSkillAdded, 3*time.Second)
	assert.Equal(t, "git_workflow", ev.Detail)
}

func TestWatcherDetectsSkillRemoved(t *testing.T) {
	root := seedProject(t)
	w := New(root, testConfig())
	events, _ := runWatcher(t, w)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.RemoveAll(filepath.Join(root, ".agent", "skills", "debugging")))

	ev := collectUntil(t, events, EventSkillRemoved, 3*time.Second)
	assert.Equal(t, "debugging", ev.Detail)
}

func TestWatcherDetectsStaleState(t *testing.T) {
	root := seedProject(t)
	old := time.Now().Add(-10 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(root, ".agent", "STATE.md"), old, old))

	w := New(root, testConfig())
	events, _ := runWatcher(t, w)

	ev := collectUntil(t, events, EventStaleState, 3*time.Second)
	assert.Contains(t, ev.Detail, "STATE.md")
}

func TestWatcherDetectsBranchSwitch(t *testing.T) {
	root := seedProject(t)
	gitDir := filepath.Join(root, ".git")
	require.NoError(t, os.MkdirAll(gitDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/main\n"), 0o644))

	w := New(root, testConfig())
	events, _ := runWatcher(t, w)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/feature\n"), 0o644))

	ev := collectUntil(t, events, EventBranchSwitched, 3*time.Second)
	assert.Equal(t, "main -> feature", ev.Detail)
}

func TestWatcherStaleFiresOncePerEpisode(t *testing.T) {
	root := seedProject(t)
	old := time.Now().Add(-10 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(root, ".agent", "STATE.md"), old, old))

	w := New(root, testConfig())
	events, cancel := runWatcher(t, w)

	collectUntil(t, events, EventStaleState, 3*time.Second)

	// No second stale event while the episode persists.
	extra := 0
	timeout := time.After(200 * time.Millisecond)
loop:
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				break loop
			}
			if ev.Type == EventStaleState {
				extra++
			}
		case <-timeout:
			break loop
		}
	}
	cancel()
	assert.Zero(t, extra)
}

func TestWatcherStopsOnCancel(t *testing.T) {
	root := seedProject(t)
	w := New(root, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan Event, 1)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, events) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}
