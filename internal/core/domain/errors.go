package domain

import (
	"fmt"
	"strings"
)

// ParseError reports that a single file could not be read as a table
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadError aborts a whole render pass because a file failed to parse
type LoadError struct {
	Cause *ParseError
}

func (e *LoadError) Error() string {
	return e.Cause.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// MissingColumnError reports that a table lacks one or both chosen columns
type MissingColumnError struct {
	File    string
	Missing []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("file %s is %s", e.File, e.Reason())
}

// Reason describes the missing columns without the file name.
// Diagnostics carry the file separately.
func (e *MissingColumnError) Reason() string {
	quoted := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		quoted[i] = fmt.Sprintf("%q", m)
	}
	return fmt.Sprintf("missing column %s, skipped", strings.Join(quoted, " and "))
}
