package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kamal-hamza/ivc/internal/core/domain"
	"github.com/kamal-hamza/ivc/internal/core/ports"
)

// FileSource reads measurement files from disk.
// Directories are expanded to the .csv/.txt files they contain.
type FileSource struct{}

// NewFileSource creates a new disk-backed file source
func NewFileSource() *FileSource {
	return &FileSource{}
}

// Ensure it implements the interface
var _ ports.FileSource = (*FileSource)(nil)

// Load reads every path in argument order
func (s *FileSource) Load(ctx context.Context, paths []string) ([]domain.UploadedFile, error) {
	expanded, err := ExpandPaths(paths)
	if err != nil {
		return nil, err
	}

	names := displayNames(expanded)

	files := make([]domain.UploadedFile, 0, len(expanded))
	for i, path := range expanded {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		files = append(files, domain.UploadedFile{
			Name:    names[i],
			Content: content,
		})
	}

	return files, nil
}

// ExpandPaths validates file paths and expands directories (non-recursive, sorted)
func ExpandPaths(paths []string) ([]string, error) {
	var out []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access %s: %w", path, err)
		}

		if !info.IsDir() {
			if err := domain.ValidateFileName(path); err != nil {
				return nil, err
			}
			out = append(out, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
		}

		var inDir []string
		for _, entry := range entries {
			if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || !domain.HasAllowedExtension(entry.Name()) {
				continue
			}
			inDir = append(inDir, filepath.Join(path, entry.Name()))
		}
		sort.Strings(inDir)
		out = append(out, inDir...)
	}
	return out, nil
}

// displayNames uses the base name unless two files share it
func displayNames(paths []string) []string {
	counts := make(map[string]int, len(paths))
	for _, p := range paths {
		counts[filepath.Base(p)]++
	}

	names := make([]string, len(paths))
	for i, p := range paths {
		if counts[filepath.Base(p)] > 1 {
			names[i] = filepath.ToSlash(filepath.Clean(p))
			continue
		}
		names[i] = filepath.Base(p)
	}
	return names
}
