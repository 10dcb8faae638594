// Package catalog discovers skill documents under a directory tree and
// assembles them into a rebuildable, JSON-serialized index.
package catalog

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/skillsmith/skillsmith/pkg/skills"
)

// Entry is one discovered skill directory: a directory that directly
// contains a SKILL.md file.
type Entry struct {
	Dir    string // full path to the skill directory
	Path   string // full path to the SKILL.md file
	Folder string // folder identity (base name of Dir)
}

// Discover walks root and returns every skill directory in lexicographic
// order of full path, so repeated scans yield a stable ordering. Discovery
// does not descend into a matched skill directory's own subtree, but nested
// skill collections elsewhere in the tree are all found. A missing root
// yields an empty result, not an error.
func Discover(root string) ([]Entry, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, nil
	}

	var dirs []string
	if err := collectSkillDirs(root, &dirs); err != nil {
		return nil, err
	}
	sort.Strings(dirs)

	entries := make([]Entry, 0, len(dirs))
	for _, dir := range dirs {
		entries = append(entries, Entry{
			Dir:    dir,
			Path:   filepath.Join(dir, skills.SkillFileName),
			Folder: filepath.Base(dir),
		})
	}
	return entries, nil
}

func collectSkillDirs(dir string, out *[]string) error {
	if hasSkillFile(dir) {
		*out = append(*out, dir)
		// A matched skill owns its whole subtree; no sibling skills inside.
		return nil
	}

	children, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, child := range children {
		childPath := filepath.Join(dir, child.Name())
		if !child.IsDir() {
			// Follow symlinked skill directories.
			info, err := os.Stat(childPath)
			if err != nil || !info.IsDir() {
				continue
			}
		}
		if err := collectSkillDirs(childPath, out); err != nil {
			return err
		}
	}
	return nil
}

func hasSkillFile(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, skills.SkillFileName))
	return err == nil && info.Mode().IsRegular()
}
