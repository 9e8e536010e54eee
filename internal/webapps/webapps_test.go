package webapps_test

import (
	"errors"
	"testing"

	"github.com/nikbrunner/nt/internal/webapps"
)

func TestNew_FallsBackToDefaults(t *testing.T) {
	c := webapps.New(nil)

	if got := len(c.All()); got != 14 {
		t.Errorf("expected 14 default apps, got %d", got)
	}
	if c.All()[0].Name != "GitHub" {
		t.Errorf("expected GitHub first, got %q", c.All()[0].Name)
	}
}

func TestNew_SkipsIncompleteEntries(t *testing.T) {
	c := webapps.New([]webapps.App{
		{Name: "Docs", URL: "https://go.dev/doc"},
		{Name: "", URL: "https://nameless.example"},
		{Name: "No URL"},
	})

	if got := len(c.All()); got != 1 {
		t.Errorf("expected 1 app, got %d", got)
	}
}

func TestLookup(t *testing.T) {
	c := webapps.New(nil)

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"GitHub", "https://github.com", false},
		{"github", "https://github.com", false},
		{"  claude ai ", "https://claude.ai", false},
		{"myspace", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := c.Lookup(tt.name)
			if tt.wantErr {
				if !errors.Is(err, webapps.ErrUnknownApp) {
					t.Errorf("expected ErrUnknownApp, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if app.URL != tt.want {
				t.Errorf("expected %q, got %q", tt.want, app.URL)
			}
		})
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	c := webapps.New(nil)
	apps := c.All()
	apps[0].Name = "changed"

	if c.All()[0].Name != "GitHub" {
		t.Error("All should not expose internal state")
	}
}
