package mocks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/kamal-hamza/ivc/internal/core/domain"
)

// MockParser is a mock implementation of the TableParser interface for testing
type MockParser struct {
	mu     sync.RWMutex
	tables map[string]*domain.Table
	errors map[string]error
	calls  []string
}

// NewMockParser creates a new mock parser
func NewMockParser() *MockParser {
	return &MockParser{
		tables: make(map[string]*domain.Table),
		errors: make(map[string]error),
	}
}

// AddTable registers the table returned for a file name
func (m *MockParser) AddTable(table *domain.Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table.Name] = table
}

// FailOn makes Parse fail for the given file name
func (m *MockParser) FailOn(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[name] = err
}

// Parse returns the registered table or error
func (m *MockParser) Parse(ctx context.Context, file domain.UploadedFile) (*domain.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, file.Name)

	if err, ok := m.errors[file.Name]; ok {
		return nil, &domain.ParseError{File: file.Name, Err: err}
	}
	table, ok := m.tables[file.Name]
	if !ok {
		return nil, &domain.ParseError{File: file.Name, Err: fmt.Errorf("no table registered")}
	}
	return table, nil
}

// Calls returns the file names Parse was called with, in order
func (m *MockParser) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// MockRenderer records the charts it is asked to render
type MockRenderer struct {
	mu       sync.Mutex
	Rendered []*domain.Chart
	Err      error
}

// NewMockRenderer creates a new mock renderer
func NewMockRenderer() *MockRenderer {
	return &MockRenderer{}
}

// Render records the chart and writes its title
func (m *MockRenderer) Render(ctx context.Context, w io.Writer, chart *domain.Chart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Rendered = append(m.Rendered, chart)
	_, err := fmt.Fprint(w, chart.Title)
	return err
}

// Extension returns a fake extension
func (m *MockRenderer) Extension() string {
	return ".mock"
}
