package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ImageSource lists the image identifiers that make up a batch
type ImageSource interface {
	List() ([]string, error)
}

// DirectorySource enumerates image files in a single directory
type DirectorySource struct {
	dir        string
	extensions map[string]struct{}
	exclude    string
}

// NewDirectorySource creates a source over dir keeping files whose
// extension matches one of extensions (case-insensitive) and skipping the
// file named exclude.
func NewDirectorySource(dir string, extensions []string, exclude string) ImageSource {
	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = struct{}{}
	}
	return &DirectorySource{
		dir:        dir,
		extensions: exts,
		exclude:    exclude,
	}
}

// List returns matching paths sorted by name. Subdirectories are not
// descended into.
func (s *DirectorySource) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory %s: %w", s.dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == s.exclude {
			continue
		}
		if _, ok := s.extensions[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
