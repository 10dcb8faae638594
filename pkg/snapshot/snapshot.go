// Package snapshot archives and restores the .agent/ context directory.
// Snapshots are plain zip files under .agent/snapshots/, named with a
// timestamp plus a short random suffix so rapid snapshots never collide.
package snapshot

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DirName is the snapshot directory under .agent/.
const DirName = "snapshots"

// Info describes one stored snapshot.
type Info struct {
	Name      string
	SizeBytes int64
	Note      string
}

// Manager creates, lists, and restores snapshots of one .agent/ directory.
type Manager struct {
	agentDir string
}

// NewManager creates a Manager over the given .agent/ directory.
func NewManager(agentDir string) *Manager {
	return &Manager{agentDir: agentDir}
}

func (m *Manager) snapshotDir() string {
	return filepath.Join(m.agentDir, DirName)
}

// Create archives the .agent/ tree (excluding snapshots themselves) and
// returns the snapshot file name. A non-empty note is stored alongside.
func (m *Manager) Create(note string) (string, error) {
	if _, err := os.Stat(m.agentDir); err != nil {
		return "", errors.Wrap(err, ".agent directory not found")
	}
	if err := os.MkdirAll(m.snapshotDir(), 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create snapshot directory")
	}

	name := fmt.Sprintf("snap_%s_%s.zip",
		time.Now().Format("2006-01-02_15-04-05"),
		uuid.NewString()[:8])
	path := filepath.Join(m.snapshotDir(), name)

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "failed to create snapshot file")
	}
	defer f.Close()

	w := zip.NewWriter(f)
	err = filepath.WalkDir(m.agentDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == m.snapshotDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(m.agentDir, p)
		if err != nil {
			return err
		}
		entry, err := w.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(p)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(entry, src)
		return err
	})
	if err != nil {
		w.Close()
		return "", errors.Wrap(err, "failed to archive .agent directory")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "failed to finalize snapshot")
	}

	if note != "" {
		notePath := filepath.Join(m.snapshotDir(), name+".note.txt")
		if err := os.WriteFile(notePath, []byte(note), 0o644); err != nil {
			return "", errors.Wrap(err, "failed to write snapshot note")
		}
	}
	return name, nil
}

// List returns stored snapshots, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.snapshotDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read snapshot directory")
	}

	var infos []Info
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".zip") {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		info := Info{Name: e.Name(), SizeBytes: fi.Size()}
		if note, err := os.ReadFile(filepath.Join(m.snapshotDir(), e.Name()+".note.txt")); err == nil {
			info.Note = strings.TrimSpace(string(note))
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name > infos[j].Name })
	return infos, nil
}

// Restore extracts a snapshot back over the .agent/ directory. Existing
// files are overwritten; files added since the snapshot are left in place.
func (m *Manager) Restore(name string) error {
	path := filepath.Join(m.snapshotDir(), name)
	r, err := zip.OpenReader(path)
	if err != nil {
		return errors.Wrapf(err, "snapshot %s not found", name)
	}
	defer r.Close()

	for _, f := range r.File {
		if err := m.extract(f); err != nil {
			return errors.Wrapf(err, "failed to restore %s", f.Name)
		}
	}
	return nil
}

func (m *Manager) extract(f *zip.File) error {
	dest := filepath.Join(m.agentDir, filepath.FromSlash(f.Name))
	// Reject entries that would escape the .agent directory.
	if !strings.HasPrefix(dest, filepath.Clean(m.agentDir)+string(os.PathSeparator)) {
		return errors.Errorf("illegal archive path: %s", f.Name)
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(dest, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
