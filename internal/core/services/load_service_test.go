package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kamal-hamza/ivc/internal/core/domain"
	"github.com/kamal-hamza/ivc/internal/core/ports/mocks"
)

func mustTable(t *testing.T, name string, headers []string, records ...[]string) *domain.Table {
	t.Helper()
	table, err := domain.NewTable(name, headers, records)
	if err != nil {
		t.Fatalf("failed to build table %s: %v", name, err)
	}
	return table
}

func files(names ...string) []domain.UploadedFile {
	out := make([]domain.UploadedFile, len(names))
	for i, n := range names {
		out[i] = domain.UploadedFile{Name: n}
	}
	return out
}

func TestLoadService_ColumnUniverse(t *testing.T) {
	parser := mocks.NewMockParser()
	parser.AddTable(mustTable(t, "A.csv", []string{"V", "I"}))
	parser.AddTable(mustTable(t, "C.csv", []string{"V", "Current"}))

	svc := NewLoadService(parser, false)
	resp, err := svc.Execute(context.Background(), LoadRequest{Files: files("A.csv", "C.csv")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(resp.Tables))
	}
	if want := (domain.ColumnUniverse{"Current", "I", "V"}); !reflect.DeepEqual(resp.Columns, want) {
		t.Errorf("Columns = %v, want %v", resp.Columns, want)
	}
	if !reflect.DeepEqual(parser.Calls(), []string{"A.csv", "C.csv"}) {
		t.Errorf("files parsed out of order: %v", parser.Calls())
	}
}

func TestLoadService_IsolatesParseErrors(t *testing.T) {
	parser := mocks.NewMockParser()
	parser.AddTable(mustTable(t, "A.csv", []string{"V", "I"}))
	parser.FailOn("bad.csv", errors.New("expected 2 fields in line 3, saw 4"))
	parser.AddTable(mustTable(t, "B.csv", []string{"V", "I"}))

	svc := NewLoadService(parser, false)
	resp, err := svc.Execute(context.Background(), LoadRequest{Files: files("A.csv", "bad.csv", "B.csv")})
	if err != nil {
		t.Fatalf("isolate mode should not fail the batch: %v", err)
	}

	if len(resp.Tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(resp.Tables))
	}
	if !reflect.DeepEqual(resp.Positions, []int{0, 2}) {
		t.Errorf("Positions = %v, want [0 2]", resp.Positions)
	}
	if resp.Diagnostics.Count(domain.LevelError) != 1 {
		t.Fatalf("expected one error diagnostic, got %v", resp.Diagnostics)
	}
	if d := resp.Diagnostics[0]; d.File != "bad.csv" {
		t.Errorf("diagnostic should name bad.csv, got %q", d.File)
	}
}

func TestLoadService_AbortsOnParseError(t *testing.T) {
	parser := mocks.NewMockParser()
	parser.AddTable(mustTable(t, "A.csv", []string{"V", "I"}))
	parser.FailOn("bad.csv", errors.New("unreadable encoding"))

	svc := NewLoadService(parser, true)
	_, err := svc.Execute(context.Background(), LoadRequest{Files: files("A.csv", "bad.csv")})
	if err == nil {
		t.Fatal("expected batch failure in abort mode")
	}

	var loadErr *domain.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *domain.LoadError, got %T", err)
	}
	if loadErr.Cause.File != "bad.csv" {
		t.Errorf("expected cause to name bad.csv, got %q", loadErr.Cause.File)
	}
}

func TestLoadService_CancelledContext(t *testing.T) {
	parser := mocks.NewMockParser()
	parser.AddTable(mustTable(t, "A.csv", []string{"V"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewLoadService(parser, false)
	if _, err := svc.Execute(ctx, LoadRequest{Files: files("A.csv")}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
