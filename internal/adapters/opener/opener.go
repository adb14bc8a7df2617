package opener

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/kamal-hamza/ivc/internal/core/ports"
)

// SystemOpener opens rendered charts with a configured viewer or the OS default
type SystemOpener struct {
	viewer string
	goos   string
}

// NewSystemOpener creates an opener. An empty viewer uses the OS default application.
func NewSystemOpener(viewer string) *SystemOpener {
	return &SystemOpener{
		viewer: viewer,
		goos:   runtime.GOOS,
	}
}

// Ensure it implements the interface
var _ ports.FileOpener = (*SystemOpener)(nil)

// Open starts the viewer detached so ivc can exit while it stays open
func (o *SystemOpener) Open(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, args := o.command(path)
	cmd := exec.Command(name, args...)

	if err := cmd.Start(); err != nil {
		if o.viewer != "" {
			return fmt.Errorf("failed to open '%s' with '%s': %w", path, o.viewer, err)
		}
		return fmt.Errorf("failed to open '%s': %w", path, err)
	}

	// Reap the child in the background
	go func() { _ = cmd.Wait() }()

	return nil
}

func (o *SystemOpener) command(path string) (string, []string) {
	if o.viewer != "" {
		return o.viewer, []string{path}
	}

	switch o.goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "cmd", []string{"/c", "start", "", path}
	default:
		return "xdg-open", []string{path}
	}
}
