package identity_test

import (
	"testing"

	"github.com/nikbrunner/nt/internal/identity"
)

func TestProfile_Key(t *testing.T) {
	tests := []struct {
		name    string
		profile identity.Profile
		want    string
	}{
		{"email wins", identity.Profile{Email: "a@b.c", ID: "42"}, "a@b.c"},
		{"id fallback", identity.Profile{ID: "42"}, "id:42"},
		{"empty", identity.Profile{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	if _, ok := identity.FromConfig("", "").(identity.None); !ok {
		t.Error("expected None without email or id")
	}
	if got := identity.FromConfig("", "7").Key(); got != "id:7" {
		t.Errorf("expected id:7, got %q", got)
	}
}
