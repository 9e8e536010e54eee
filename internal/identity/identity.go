// Package identity supplies the key the notes service uses to scope data
// to one user.
package identity

// Provider returns the current user's key, or "" when signed out.
type Provider interface {
	Key() string
}

// Profile is a user profile configured locally.
type Profile struct {
	Email string
	ID    string
}

// Key returns the email, falling back to "id:<ID>".
func (p Profile) Key() string {
	if p.Email != "" {
		return p.Email
	}
	if p.ID != "" {
		return "id:" + p.ID
	}
	return ""
}

// None is the provider used when no identity is available.
type None struct{}

// Key always returns "".
func (None) Key() string {
	return ""
}

// FromConfig returns a Profile when either field is set, otherwise None.
func FromConfig(email, id string) Provider {
	if email == "" && id == "" {
		return None{}
	}
	return Profile{Email: email, ID: id}
}
