// Package updater refreshes installed skills from the library when the
// library holds a newer version.
package updater

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/pkg/errors"

	"github.com/skillsmith/skillsmith/pkg/catalog"
	"github.com/skillsmith/skillsmith/pkg/library"
	"github.com/skillsmith/skillsmith/pkg/logger"
	"github.com/skillsmith/skillsmith/pkg/skills"
)

// Status classifies what happened to one installed skill.
type Status string

const (
	// StatusUpdated means the library version was newer and the skill was
	// replaced.
	StatusUpdated Status = "updated"
	// StatusUpToDate means the installed version is current.
	StatusUpToDate Status = "up-to-date"
	// StatusGone means the skill no longer exists in the library.
	StatusGone Status = "gone"
)

// Result is the outcome for one installed skill.
type Result struct {
	Folder         string
	LocalVersion   string
	LibraryVersion string
	Status         Status
	Diff           string
}

// Options control update behavior.
type Options struct {
	// Diff records a unified diff of SKILL.md for every updated skill.
	Diff bool
	// DryRun reports what would change without touching files.
	DryRun bool
}

// Update walks the installed skills and refreshes any whose library version
// is strictly newer. Version comparison is numeric per semver component,
// so 0.10.0 is newer than 0.9.0.
func Update(ctx context.Context, skillsDir string, lib *library.Library, opts Options) ([]Result, error) {
	if _, err := os.Stat(skillsDir); err != nil {
		return nil, errors.Wrap(err, "skills directory not found, run: skillsmith init")
	}

	entries, err := catalog.Discover(skillsDir)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, e := range entries {
		folder := filepath.Base(e.Dir)
		result := Result{Folder: folder}

		libDir, err := lib.FindSkillDir(folder)
		if err != nil {
			result.Status = StatusGone
			results = append(results, result)
			continue
		}

		result.LocalVersion = readVersion(e.Dir)
		result.LibraryVersion = readVersion(libDir)

		if compareVersions(result.LibraryVersion, result.LocalVersion) <= 0 {
			result.Status = StatusUpToDate
			results = append(results, result)
			continue
		}

		if opts.Diff {
			result.Diff = skillDiff(e.Dir, libDir, folder)
		}

		if !opts.DryRun {
			if err := os.RemoveAll(e.Dir); err != nil {
				return results, errors.Wrapf(err, "failed to remove outdated skill '%s'", folder)
			}
			if err := library.CopyTree(libDir, e.Dir); err != nil {
				return results, errors.Wrapf(err, "failed to update skill '%s'", folder)
			}
		}

		logger.G(ctx).WithField("skill", folder).
			WithField("from", result.LocalVersion).
			WithField("to", result.LibraryVersion).
			Info("updated skill")
		result.Status = StatusUpdated
		results = append(results, result)
	}
	return results, nil
}

func readVersion(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, skills.SkillFileName))
	if err != nil {
		return "0.0.0"
	}
	doc, err := skills.Parse(string(data))
	if err != nil || doc.Meta.Version == "" {
		return "0.0.0"
	}
	return doc.Meta.Version
}

func skillDiff(localDir, libDir, folder string) string {
	local, err := os.ReadFile(filepath.Join(localDir, skills.SkillFileName))
	if err != nil {
		local = nil
	}
	lib, err := os.ReadFile(filepath.Join(libDir, skills.SkillFileName))
	if err != nil {
		lib = nil
	}
	name := filepath.ToSlash(filepath.Join(folder, skills.SkillFileName))
	return udiff.Unified("local/"+name, "library/"+name, string(local), string(lib))
}

// compareVersions orders two x.y.z strings numerically. Malformed
// components compare as zero.
func compareVersions(a, b string) int {
	as := strings.SplitN(a, ".", 3)
	bs := strings.SplitN(b, ".", 3)
	for i := 0; i < 3; i++ {
		av, bv := 0, 0
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}
		if av != bv {
			if av > bv {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Summary renders a one-line outcome for presentation.
func (r Result) Summary() string {
	switch r.Status {
	case StatusUpdated:
		return fmt.Sprintf("%s -> %s", r.LocalVersion, r.LibraryVersion)
	case StatusUpToDate:
		return fmt.Sprintf("up to date (%s)", r.LocalVersion)
	default:
		return "not in library"
	}
}
