package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"finlab-mcp/internal/protocol"
)

// URIPrefix is the resource URI scheme for documentation files.
const URIPrefix = "finlab://docs/"

// catalogEntry pairs a documentation filename with its description.
// Declaration order is the listing order.
type catalogEntry struct {
	filename    string
	description string
}

var catalogEntries = []catalogEntry{
	{"data-reference.md", "FinLab Data Catalog - Complete reference of 900+ data columns"},
	{"backtesting-reference.md", "Backtesting API Reference - sim() function parameters"},
	{"dataframe-reference.md", "FinLabDataFrame Methods - All DataFrame operations"},
	{"factor-examples.md", "Factor Examples - 60+ complete strategy examples"},
	{"factor-analysis-reference.md", "Factor Analysis Tools - IC, Shapley, centrality"},
	{"best-practices.md", "Best Practices - Coding patterns and anti-patterns"},
	{"machine-learning-reference.md", "Machine Learning Reference - Feature engineering"},
	{"SKILL.md", "Quick Start Guide - Overview and workflow"},
}

// Catalog lists and reads the FinLab documentation resources under a
// fixed root directory. It holds no mutable state; every call re-checks
// the disk so listings never go stale.
type Catalog struct {
	root   string
	logger zerolog.Logger
}

// NewCatalog creates a Catalog rooted at the given directory.
func NewCatalog(root string, logger zerolog.Logger) *Catalog {
	return &Catalog{root: root, logger: logger}
}

// Root returns the documentation root directory.
func (c *Catalog) Root() string {
	return c.root
}

// List returns descriptors for the catalog files that exist on disk, in
// declaration order. Entries whose file is missing are omitted rather
// than listed as dangling links.
func (c *Catalog) List() []protocol.Resource {
	resources := make([]protocol.Resource, 0, len(catalogEntries))
	for _, entry := range catalogEntries {
		path := filepath.Join(c.root, entry.filename)
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			c.logger.Debug().Str("file", entry.filename).Msg("catalog entry missing, skipped")
			continue
		}
		resources = append(resources, protocol.Resource{
			URI:         URIPrefix + entry.filename,
			Name:        displayName(entry.filename),
			Description: entry.description,
			MIMEType:    "text/markdown",
		})
	}
	return resources
}

// Read returns the full UTF-8 text of the documentation file named by the
// URI. The URI must use the finlab://docs/ prefix; the bare filename is
// resolved through the path guard before reading.
func (c *Catalog) Read(uri string) (string, error) {
	c.logger.Debug().Str("uri", uri).Msg("read_resource")

	if !strings.HasPrefix(uri, URIPrefix) {
		return "", fmt.Errorf("%w: %s", ErrUnknownScheme, uri)
	}
	name := strings.TrimPrefix(uri, URIPrefix)

	path, err := Resolve(c.root, name)
	if err != nil {
		c.logger.Warn().Str("file", name).Err(err).Msg("resource resolution failed")
		return "", err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrIOFailure, name, err)
	}
	c.logger.Debug().Str("file", name).Int("bytes", len(content)).Msg("resource read")
	return string(content), nil
}

// displayName turns "data-reference.md" into "FinLab: Data Reference".
func displayName(filename string) string {
	base := strings.TrimSuffix(filename, ".md")
	words := strings.Split(strings.ReplaceAll(base, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return "FinLab: " + strings.Join(words, " ")
}
