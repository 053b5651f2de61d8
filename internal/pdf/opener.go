package pdf

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Opener launches a captured source in a local viewer. URLs go to the
// default browser, files to the configured document viewer.
type Opener struct {
	viewer string
}

// NewOpener creates an opener. An empty viewer uses the system handler.
func NewOpener(viewer string) *Opener {
	if viewer == "" {
		viewer = "system"
	}
	return &Opener{viewer: viewer}
}

// OpenURL opens a web source in the default browser.
func (o *Opener) OpenURL(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "linux":
		return exec.Command("xdg-open", url).Start()
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// OpenFile opens a local document in the configured viewer.
func (o *Opener) OpenFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", path)
		}
		return fmt.Errorf("checking file: %w", err)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		if o.viewer == "system" {
			cmd = exec.Command("open", path)
		} else {
			cmd = exec.Command("open", "-a", o.viewer, path)
		}
	case "linux":
		if o.viewer == "system" {
			cmd = exec.Command("xdg-open", path)
		} else {
			cmd = exec.Command(o.viewer, path)
		}
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
