package launch_test

import (
	"errors"
	"testing"

	"github.com/nikbrunner/nt/internal/launch"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "open"},
		{"linux", "xdg-open"},
		{"windows", "rundll32"},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			cmd := launch.Command(tt.goos, "https://example.com")
			if cmd == nil {
				t.Fatal("expected a command")
			}
			if cmd.Args[0] != tt.want {
				t.Errorf("expected %q, got %q", tt.want, cmd.Args[0])
			}
			if last := cmd.Args[len(cmd.Args)-1]; last != "https://example.com" {
				t.Errorf("expected URL as last argument, got %q", last)
			}
		})
	}

	if launch.Command("plan9", "https://example.com") != nil {
		t.Error("expected nil for unknown platform")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com", false},
		{"mailto:me@example.com", false},
		{"example.com", true},
		{"", true},
		{"://broken", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := launch.Validate(tt.url)
			if tt.wantErr && !errors.Is(err, launch.ErrInvalidURL) {
				t.Errorf("expected ErrInvalidURL, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRecorder(t *testing.T) {
	var r launch.Recorder

	if err := r.Open("https://a.example"); err != nil {
		t.Fatal(err)
	}
	if err := r.Open("nope"); err == nil {
		t.Error("expected invalid URL to be rejected")
	}

	if len(r.URLs) != 1 || r.URLs[0] != "https://a.example" {
		t.Errorf("expected one recorded URL, got %v", r.URLs)
	}
}
