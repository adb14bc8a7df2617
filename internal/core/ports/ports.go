package ports

import (
	"context"
	"io"

	"github.com/kamal-hamza/ivc/internal/core/domain"
)

// TableParser defines the port for turning an uploaded file into a table
type TableParser interface {
	// Parse reads the file content using its first row as headers
	// Returns a *domain.ParseError when the content is not a table
	Parse(ctx context.Context, file domain.UploadedFile) (*domain.Table, error)
}

// ChartRenderer defines the port for writing a chart in some output format
type ChartRenderer interface {
	// Render writes the chart to w
	Render(ctx context.Context, w io.Writer, chart *domain.Chart) error

	// Extension returns the output file extension, e.g. ".html"
	Extension() string
}

// FileSource defines the port for collecting uploaded files
type FileSource interface {
	// Load reads the given paths into uploaded files
	Load(ctx context.Context, paths []string) ([]domain.UploadedFile, error)
}

// FileOpener defines the port for opening files with default applications
type FileOpener interface {
	// Open opens a file with the system's default application
	Open(ctx context.Context, filepath string) error
}
