package expense

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Archive keeps a copy of every generated report so a request can be
// re-downloaded after the browser session is gone.
type Archive interface {
	// Save stores a report and returns the name it was stored under
	Save(name string, data []byte) (string, error)

	// Get retrieves an archived report by name
	Get(name string) ([]byte, error)

	// List returns archived report names, newest last
	List() ([]string, error)
}

// LocalArchive implements the Archive interface on the local filesystem
type LocalArchive struct {
	basePath string
}

// NewLocalArchive creates a new LocalArchive instance
func NewLocalArchive(basePath string) (*LocalArchive, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}
	return &LocalArchive{basePath: basePath}, nil
}

// Save stores a report on disk
func (l *LocalArchive) Save(name string, data []byte) (string, error) {
	name = filepath.Base(name)
	if err := os.WriteFile(filepath.Join(l.basePath, name), data, 0644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return name, nil
}

// Get retrieves an archived report. The name is reduced to its base so a
// crafted request cannot escape the archive directory.
func (l *LocalArchive) Get(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.basePath, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	return data, nil
}

// List returns the archived report names in lexical order
func (l *LocalArchive) List() ([]string, error) {
	entries, err := os.ReadDir(l.basePath)
	if err != nil {
		return nil, fmt.Errorf("reading archive directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".pdf") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
