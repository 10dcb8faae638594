package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/skillsmith/skillsmith/pkg/logger"
	"github.com/skillsmith/skillsmith/pkg/skills"
)

// DefaultFileName is the catalog file written next to the skills tree.
const DefaultFileName = "skill_catalog.json"

// Record is one normalized catalog entry for a discovered skill document.
type Record struct {
	Folder string
	Dir    string
	Meta   skills.Metadata
	Body   string
}

// Catalog is the ordered, rebuildable index of all discovered skill
// documents. It is always rebuilt wholesale from a directory scan.
type Catalog struct {
	Records []Record
	skipped *multierror.Error
}

// Skipped returns the aggregated per-document failures from the last build,
// or nil when every discovered document parsed cleanly. Skipped documents
// never abort a build.
func (c *Catalog) Skipped() error {
	return c.skipped.ErrorOrNil()
}

// Build scans root and assembles a catalog. Per-document parse failures are
// logged and collected, and the document is skipped; the scan continues.
// Normalization: a missing name defaults to the folder identity, a missing
// category defaults to the parent directory name unless that parent is the
// skills root itself. Folder identities are unique within one catalog; on a
// collision the first document in discovery order wins.
func Build(ctx context.Context, root string) (*Catalog, error) {
	entries, err := Discover(root)
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan skills directory")
	}

	c := &Catalog{}
	seen := make(map[string]bool, len(entries))

	for _, entry := range entries {
		record, err := loadRecord(root, entry)
		if err != nil {
			logger.G(ctx).WithError(err).WithField("path", entry.Path).Warn("skipping skill document")
			c.skipped = multierror.Append(c.skipped, errors.Wrapf(err, "%s", entry.Path))
			continue
		}

		if seen[record.Folder] {
			logger.G(ctx).WithField("folder", record.Folder).Warn("duplicate folder identity, keeping first")
			c.skipped = multierror.Append(c.skipped, errors.Errorf("%s: duplicate folder identity '%s'", entry.Path, record.Folder))
			continue
		}
		seen[record.Folder] = true

		c.Records = append(c.Records, *record)
	}

	return c, nil
}

func loadRecord(root string, entry Entry) (*Record, error) {
	content, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}

	doc, err := skills.Parse(string(content))
	if err != nil {
		return nil, err
	}
	if !doc.HasMetadata() {
		return nil, errors.New("document has no metadata")
	}

	meta := doc.Meta
	if meta.Name == "" {
		meta.Name = entry.Folder
	}
	if meta.Category == "" && entry.Dir != root {
		if parent := filepath.Dir(entry.Dir); parent != root {
			meta.Category = filepath.Base(parent)
		}
	}

	return &Record{
		Folder: entry.Folder,
		Dir:    entry.Dir,
		Meta:   meta,
		Body:   doc.Body,
	}, nil
}

// Save serializes the catalog as an indented JSON array of metadata
// mappings, overwriting any prior file. This is a full rebuild, never a
// merge; consumers must tolerate unknown keys in each mapping.
func (c *Catalog) Save(path string) error {
	records := make([]map[string]any, 0, len(c.Records))
	for _, r := range c.Records {
		records = append(records, r.Meta.ToMap())
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to serialize catalog")
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create catalog directory")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write catalog")
	}
	return nil
}

// Load reads a previously saved catalog file into metadata records.
// A missing file returns an error the caller reports as "run rebuild first".
func Load(path string) ([]skills.Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read catalog")
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse catalog")
	}

	records := make([]skills.Metadata, 0, len(raw))
	for _, fields := range raw {
		meta, err := skills.DecodeMetadata(fields)
		if err != nil {
			return nil, errors.Wrap(err, "failed to decode catalog record")
		}
		records = append(records, meta)
	}
	return records, nil
}
