// Package catalog lists document templates found in a directory.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// templatePrefix is dropped from file names when templates are displayed.
const templatePrefix = "[Template]_"

// ErrNoTemplates is returned when a directory holds no matching template.
var ErrNoTemplates = errors.New("no templates found")

// Entry is one template file.
type Entry struct {
	Path string
	Name string // display name
}

// List returns the *.docx templates in dir sorted by file name. A non-empty
// pattern is a glob matched against the file name. Word lock files (~$x.docx)
// are skipped.
func List(dir, pattern string) ([]Entry, error) {
	var matcher glob.Glob
	if pattern != "" {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("template pattern %q: %w", pattern, err)
		}
		matcher = g
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.EqualFold(filepath.Ext(name), ".docx") {
			continue
		}
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if matcher != nil && !matcher.Match(name) {
			continue
		}
		entries = append(entries, Entry{
			Path: filepath.Join(dir, name),
			Name: DisplayName(name),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTemplates, dir)
	}
	return entries, nil
}

// DisplayName turns "[Template]_Software_Engineer.docx" into
// "Software Engineer".
func DisplayName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, templatePrefix, "")
	return strings.ReplaceAll(name, "_", " ")
}
