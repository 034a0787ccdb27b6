package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// Browser opens profile URLs in an external browser
type Browser struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments placed before the URL
	logger  *slog.Logger

	// start runs the command without waiting; replaced in tests
	start func(name string, args ...string) error
}

// NewBrowser creates a Browser. command may carry arguments ("firefox --new-tab").
func NewBrowser(command string, logger *slog.Logger) *Browser {
	if logger == nil {
		logger = slog.Default()
	}

	fields := strings.Fields(command)
	b := &Browser{logger: logger, start: startCommand}
	if len(fields) > 0 {
		b.command = fields[0]
		b.args = fields[1:]
	}
	return b
}

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start() // Start async, don't wait
}

// Open opens url in the configured browser or the system default
func (b *Browser) Open(url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("refusing to open non-http URL %q", url)
	}

	if b.command != "" {
		args := append(append([]string{}, b.args...), url)
		b.logger.Info("opening profile", "command", b.command, "args", args)
		return b.start(b.command, args...)
	}

	name, args := defaultOpener(runtime.GOOS, url)
	b.logger.Info("opening profile with system default", "os", runtime.GOOS, "url", url)
	return b.start(name, args...)
}

// defaultOpener returns the system URL handler for goos
func defaultOpener(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "cmd", []string{"/c", "start", "", url}
	default:
		// Linux and other Unix-like systems
		return "xdg-open", []string{url}
	}
}
