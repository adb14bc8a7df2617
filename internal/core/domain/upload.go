package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// AllowedExtensions lists the file extensions accepted for upload
var AllowedExtensions = []string{".csv", ".txt"}

// UploadedFile represents one file handed to the viewer
// It only lives for the duration of a single render pass
type UploadedFile struct {
	Name    string // Display name, e.g. "A.csv"
	Content []byte // Raw file bytes
}

// NewUploadedFile creates an uploaded file after validating its name
func NewUploadedFile(name string, content []byte) (*UploadedFile, error) {
	if err := ValidateFileName(name); err != nil {
		return nil, err
	}

	return &UploadedFile{
		Name:    filepath.Base(name),
		Content: content,
	}, nil
}

// ValidateFileName checks the name is non-empty and carries an accepted extension
func ValidateFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("file name cannot be empty")
	}

	if !HasAllowedExtension(name) {
		return fmt.Errorf("unsupported file type %q (expected %s)",
			filepath.Ext(name), strings.Join(AllowedExtensions, ", "))
	}

	return nil
}

// HasAllowedExtension reports whether name ends in .csv or .txt (any case)
func HasAllowedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
