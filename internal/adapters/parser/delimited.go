package parser

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/kamal-hamza/ivc/internal/core/domain"
)

var (
	ErrNoColumns          = errors.New("no columns to parse from file")
	ErrUnreadableEncoding = errors.New("unreadable encoding (expected UTF-8 or UTF-16 with BOM)")
)

const (
	whitespaceDelimiter = ' '
	unnamedColumnPrefix = "Unnamed: "
	maxLineBytes        = 1024 * 1024
)

var candidateDelimiters = []rune{',', '\t', ';', '|'}

// DelimitedParser implements the TableParser port for comma, tab,
// semicolon, pipe and whitespace separated text with a header row
type DelimitedParser struct{}

// NewDelimitedParser creates a new delimited text parser
func NewDelimitedParser() *DelimitedParser {
	return &DelimitedParser{}
}

// Parse reads the file into a table using its first row as headers
func (p *DelimitedParser) Parse(ctx context.Context, file domain.UploadedFile) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table, err := parse(file)
	if err != nil {
		return nil, &domain.ParseError{File: file.Name, Err: err}
	}
	return table, nil
}

func parse(file domain.UploadedFile) (*domain.Table, error) {
	text, err := decode(file.Content)
	if err != nil {
		return nil, err
	}

	delim := SniffDelimiter(text)
	if delim == whitespaceDelimiter && !whitespaceSeparated(file.Name) {
		delim = ','
	}

	var rows [][]string
	if delim == whitespaceDelimiter {
		rows, err = readWhitespace(text)
	} else {
		rows, err = readDelimited(text, delim)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, ErrNoColumns
	}

	headers := NormalizeHeaders(rows[0])
	records := rows[1:]
	for i, record := range records {
		if len(record) > len(headers) {
			// +2: one for the header row, one for 1-based line numbers
			return nil, fmt.Errorf("expected %d fields in line %d, saw %d", len(headers), i+2, len(record))
		}
	}

	return domain.NewTable(file.Name, headers, records)
}

// decode strips a UTF-8 BOM, converts UTF-16 (with BOM) to UTF-8 and
// rejects anything that is not valid UTF-8 afterwards
func decode(content []byte) (string, error) {
	decoded, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableEncoding, err)
	}
	if !utf8.Valid(decoded) {
		return "", ErrUnreadableEncoding
	}
	return string(decoded), nil
}

// SniffDelimiter picks the delimiter from the first non-blank line.
// The most frequent candidate outside quotes wins; with none present the
// line is treated as whitespace separated.
func SniffDelimiter(text string) rune {
	line := firstLine(text)

	best, bestCount := rune(whitespaceDelimiter), 0
	for _, d := range candidateDelimiters {
		if n := countOutsideQuotes(line, d); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// whitespaceSeparated reports whether a file may fall back to splitting on
// runs of whitespace. Only plain .txt exports do; a .csv header without a
// delimiter is a single column.
func whitespaceSeparated(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".txt")
}

func firstLine(text string) string {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if line := scanner.Text(); strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

func countOutsideQuotes(line string, d rune) int {
	inQuotes := false
	n := 0
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == d && !inQuotes:
			n++
		}
	}
	return n
}

func readDelimited(text string, delim rune) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delim
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed %s: %w", delimiterName(delim), err)
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func readWhitespace(text string) ([][]string, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var rows [][]string
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		rows = append(rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read text: %w", err)
	}
	return rows, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// NormalizeHeaders trims header names, names blank ones "Unnamed: <i>"
// and renames repeats to "name.1", "name.2", ...
func NormalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))

	for i, h := range raw {
		name := strings.TrimSpace(h)
		if name == "" {
			name = unnamedColumnPrefix + strconv.Itoa(i)
		}

		candidate := name
		for n := 1; seen[candidate]; n++ {
			candidate = fmt.Sprintf("%s.%d", name, n)
		}
		seen[candidate] = true
		headers[i] = candidate
	}

	return headers
}

func delimiterName(d rune) string {
	switch d {
	case ',':
		return "comma-separated text"
	case '\t':
		return "tab-separated text"
	case ';':
		return "semicolon-separated text"
	case '|':
		return "pipe-separated text"
	default:
		return "delimited text"
	}
}
