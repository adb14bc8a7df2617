package services

import (
	"context"
	"errors"

	"github.com/kamal-hamza/ivc/internal/core/domain"
	"github.com/kamal-hamza/ivc/internal/core/ports"
)

// LoadService parses uploaded files into tables
type LoadService struct {
	parser      ports.TableParser
	abortOnFail bool
}

// NewLoadService creates a new load service.
// When abortOnFail is set, one unparseable file fails the whole batch.
func NewLoadService(parser ports.TableParser, abortOnFail bool) *LoadService {
	return &LoadService{
		parser:      parser,
		abortOnFail: abortOnFail,
	}
}

// LoadRequest represents a request to load files
type LoadRequest struct {
	Files []domain.UploadedFile
}

// LoadResponse holds the loaded tables in upload order.
// Positions[i] is the upload index of Tables[i]; skipped files leave holes.
type LoadResponse struct {
	Tables      []*domain.Table
	Positions   []int
	Columns     domain.ColumnUniverse
	Diagnostics domain.Diagnostics
}

// Execute parses every file and collects the column universe
func (s *LoadService) Execute(ctx context.Context, req LoadRequest) (*LoadResponse, error) {
	resp := &LoadResponse{
		Tables: make([]*domain.Table, 0, len(req.Files)),
	}

	for i, file := range req.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		table, err := s.parser.Parse(ctx, file)
		if err != nil {
			perr := asParseError(file.Name, err)
			if s.abortOnFail {
				return nil, &domain.LoadError{Cause: perr}
			}
			resp.Diagnostics = append(resp.Diagnostics, domain.ErrorFor(file.Name, perr.Err))
			continue
		}

		resp.Tables = append(resp.Tables, table)
		resp.Positions = append(resp.Positions, i)
	}

	resp.Columns = domain.NewColumnUniverse(resp.Tables)

	return resp, nil
}

func asParseError(name string, err error) *domain.ParseError {
	var perr *domain.ParseError
	if errors.As(err, &perr) {
		return perr
	}
	return &domain.ParseError{File: name, Err: err}
}
