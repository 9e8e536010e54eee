// Package webapps holds the dashboard's web-app shortcuts.
package webapps

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownApp indicates no shortcut matches a name.
var ErrUnknownApp = errors.New("unknown web app")

// App is a named shortcut to a web application.
type App struct {
	Name string `toml:"name" json:"name"`
	URL  string `toml:"url" json:"url"`
}

// Defaults returns the built-in catalogue.
func Defaults() []App {
	return []App{
		{Name: "GitHub", URL: "https://github.com"},
		{Name: "Twitter", URL: "https://twitter.com"},
		{Name: "YouTube", URL: "https://youtube.com"},
		{Name: "Twitch", URL: "https://twitch.tv"},
		{Name: "Spotify", URL: "https://spotify.com"},
		{Name: "Gmail", URL: "https://mail.google.com"},
		{Name: "Amazon", URL: "https://amazon.com"},
		{Name: "Google", URL: "https://google.com"},
		{Name: "Whatsapp", URL: "https://web.whatsapp.com"},
		{Name: "ChatGPT", URL: "https://chat.openai.com"},
		{Name: "Claude AI", URL: "https://claude.ai"},
		{Name: "LinkedIn", URL: "https://linkedin.com"},
		{Name: "LeetCode", URL: "https://leetcode.com"},
		{Name: "Codeforces", URL: "https://codeforces.com"},
	}
}

// Catalogue is an ordered set of shortcuts.
type Catalogue struct {
	apps []App
}

// New creates a catalogue. An empty list falls back to Defaults.
// Entries without a name or URL are skipped.
func New(apps []App) *Catalogue {
	if len(apps) == 0 {
		apps = Defaults()
	}
	c := &Catalogue{}
	for _, a := range apps {
		a.Name = strings.TrimSpace(a.Name)
		a.URL = strings.TrimSpace(a.URL)
		if a.Name == "" || a.URL == "" {
			continue
		}
		c.apps = append(c.apps, a)
	}
	return c
}

// All returns the shortcuts in catalogue order.
func (c *Catalogue) All() []App {
	return append([]App(nil), c.apps...)
}

// Lookup finds a shortcut by name, ignoring case and surrounding space.
func (c *Catalogue) Lookup(name string) (App, error) {
	name = strings.TrimSpace(name)
	for _, a := range c.apps {
		if strings.EqualFold(a.Name, name) {
			return a, nil
		}
	}
	return App{}, fmt.Errorf("%w: %s", ErrUnknownApp, name)
}
