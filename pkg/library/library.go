// Package library reads the local skill template library: a directory tree
// holding the canonical copies of skills that init, add, and update install
// into a project. The library mirrors the project layout, with skills under
// .agent/skills/ and the prebuilt catalog next to them.
package library

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/skillsmith/skillsmith/pkg/catalog"
	"github.com/skillsmith/skillsmith/pkg/skills"
)

// EnvLibraryDir overrides the library location when set.
const EnvLibraryDir = "SKILLSMITH_LIBRARY"

// Library is a read-only view over the template library root.
type Library struct {
	root string
}

// New creates a Library rooted at the given directory.
func New(root string) *Library {
	return &Library{root: root}
}

// DefaultRoot resolves the library location: the SKILLSMITH_LIBRARY
// environment variable when set, otherwise ~/.skillsmith/library.
func DefaultRoot() string {
	if dir := os.Getenv(EnvLibraryDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".skillsmith", "library")
	}
	return filepath.Join(home, ".skillsmith", "library")
}

// Root returns the library root directory.
func (l *Library) Root() string {
	return l.root
}

// SkillsRoot returns the directory holding the library's skill folders.
func (l *Library) SkillsRoot() string {
	return filepath.Join(l.root, ".agent", "skills")
}

// CatalogPath returns where the library's prebuilt catalog lives.
func (l *Library) CatalogPath() string {
	return filepath.Join(l.root, ".agent", catalog.DefaultFileName)
}

// Entries discovers every skill folder in the library.
func (l *Library) Entries() ([]catalog.Entry, error) {
	return catalog.Discover(l.SkillsRoot())
}

// FindSkillDir locates a skill folder by its base name. A folder directly
// under the skills root wins; otherwise the name must match exactly one
// nested folder.
func (l *Library) FindSkillDir(name string) (string, error) {
	exact := filepath.Join(l.SkillsRoot(), name)
	if _, err := os.Stat(filepath.Join(exact, skills.SkillFileName)); err == nil {
		return exact, nil
	}

	entries, err := l.Entries()
	if err != nil {
		return "", err
	}

	var matches []string
	for _, e := range entries {
		if filepath.Base(e.Dir) == name {
			matches = append(matches, e.Dir)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", errors.Errorf("skill '%s' not found in library", name)
	default:
		return "", errors.Errorf("skill '%s' matches %d library folders", name, len(matches))
	}
}

// InstallSkill copies one skill folder from the library into destRoot,
// preserving its path relative to the library skills root. Returns the
// destination directory.
func (l *Library) InstallSkill(name, destRoot string) (string, error) {
	src, err := l.FindSkillDir(name)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(l.SkillsRoot(), src)
	if err != nil {
		rel = name
	}
	dest := filepath.Join(destRoot, rel)

	if err := CopyTree(src, dest); err != nil {
		return "", errors.Wrapf(err, "failed to install skill '%s'", name)
	}
	return dest, nil
}

// CopyTree recursively copies a directory. Existing destination files are
// overwritten.
func CopyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// IsSkillURL reports whether the argument to add names a remote skill
// rather than a library skill.
func IsSkillURL(arg string) bool {
	return strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://")
}
