package domain

import "fmt"

// Level is the severity of a diagnostic
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Diagnostic is a user-facing message produced during a render pass
type Diagnostic struct {
	Level   Level  `json:"level"`
	File    string `json:"file,omitempty"`
	Message string `json:"message"`
}

// Info creates an informational diagnostic
func Info(msg string) Diagnostic {
	return Diagnostic{Level: LevelInfo, Message: msg}
}

// Warning creates a warning about a specific file
func Warning(file, msg string) Diagnostic {
	return Diagnostic{Level: LevelWarning, File: file, Message: msg}
}

// ErrorFor creates an error diagnostic for a specific file
func ErrorFor(file string, err error) Diagnostic {
	return Diagnostic{Level: LevelError, File: file, Message: err.Error()}
}

func (d Diagnostic) String() string {
	if d.File == "" {
		return d.Message
	}
	return fmt.Sprintf("%s: %s", d.File, d.Message)
}

// Diagnostics is an ordered list of diagnostics
type Diagnostics []Diagnostic

// Count returns how many diagnostics have the given level
func (ds Diagnostics) Count(level Level) int {
	n := 0
	for _, d := range ds {
		if d.Level == level {
			n++
		}
	}
	return n
}

// ForFile returns the diagnostics that name file
func (ds Diagnostics) ForFile(file string) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.File == file {
			out = append(out, d)
		}
	}
	return out
}
