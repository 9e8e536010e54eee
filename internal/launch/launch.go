// Package launch opens URLs in the system browser and copies them to the
// clipboard.
package launch

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
)

// ErrUnsupportedPlatform indicates no known opener for this OS.
var ErrUnsupportedPlatform = errors.New("no URL opener for this platform")

// ErrInvalidURL indicates a URL without a scheme.
var ErrInvalidURL = errors.New("invalid URL")

// Opener starts a browser for a URL.
type Opener interface {
	Open(rawURL string) error
}

// Browser opens URLs with the platform's default handler.
type Browser struct{}

// Open starts the default browser without waiting for it.
func (Browser) Open(rawURL string) error {
	if err := Validate(rawURL); err != nil {
		return err
	}
	cmd := Command(runtime.GOOS, rawURL)
	if cmd == nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedPlatform, runtime.GOOS)
	}
	return cmd.Start()
}

// Command returns the command that opens rawURL on goos, or nil.
func Command(goos, rawURL string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", rawURL)
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", rawURL)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	}
	return nil
}

// Validate checks that rawURL parses and has a scheme.
func Validate(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	return nil
}

// Copy writes text to the system clipboard.
func Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("%w: clipboard", ErrUnsupportedPlatform)
	}
	return clipboard.WriteAll(text)
}

// Recorder is an Opener that remembers URLs instead of opening them.
type Recorder struct {
	URLs []string
}

// Open records rawURL.
func (r *Recorder) Open(rawURL string) error {
	if err := Validate(rawURL); err != nil {
		return err
	}
	r.URLs = append(r.URLs, rawURL)
	return nil
}
