// Package feeds fetches the developer feeds shown on the dashboard:
// upcoming hackathons, coding contests and news.
package feeds

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// NoPrize is shown when a hackathon lists no prize.
const NoPrize = "Not specified"

// Hackathon is an upcoming hackathon.
type Hackathon struct {
	ID                   string   `json:"id"`
	Title                string   `json:"title"`
	Location             string   `json:"location"`
	TimeLeftToSubmission string   `json:"timeLeftToSubmission"`
	Dates                string   `json:"dates"`
	URL                  string   `json:"url"`
	Prize                string   `json:"prize"`
	Organization         string   `json:"organization"`
	Themes               []string `json:"themes"`
}

// Contest is a competitive programming contest.
type Contest struct {
	Name      string        `json:"name"`
	URL       string        `json:"url"`
	Platform  string        `json:"platform"`
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime"`
	Duration  time.Duration `json:"duration"`
}

// NewsItem is a developer news headline.
type NewsItem struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitempty"`
}

// rawHackathon is the server's hackathon shape.
type rawHackathon struct {
	ID                   flexID   `json:"id"`
	Title                string   `json:"title"`
	Location             string   `json:"location"`
	TimeLeftToSubmission string   `json:"time_left_to_submission"`
	Dates                string   `json:"dates"`
	URL                  string   `json:"url"`
	PrizeAmount          string   `json:"prize_amount"`
	Organization         string   `json:"organization"`
	Themes               []string `json:"themes"`
}

var stripPolicy = bluemonday.StrictPolicy()

// stripHTML removes markup and decodes entities.
func stripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

func (r rawHackathon) hackathon() Hackathon {
	prize := stripHTML(r.PrizeAmount)
	if prize == "" {
		prize = NoPrize
	}
	themes := r.Themes
	if themes == nil {
		themes = []string{}
	}
	return Hackathon{
		ID:                   string(r.ID),
		Title:                r.Title,
		Location:             r.Location,
		TimeLeftToSubmission: r.TimeLeftToSubmission,
		Dates:                r.Dates,
		URL:                  r.URL,
		Prize:                prize,
		Organization:         r.Organization,
		Themes:               themes,
	}
}

// rawContest is the server's contest shape. Times are unix millis or
// RFC 3339 strings; duration is in milliseconds.
type rawContest struct {
	Title     string    `json:"title"`
	Site      string    `json:"site"`
	URL       string    `json:"url"`
	StartTime flexTime  `json:"startTime"`
	EndTime   flexTime  `json:"endTime"`
	Duration  flexMilli `json:"duration"`
}

func (r rawContest) contest() Contest {
	c := Contest{
		Name:      r.Title,
		URL:       r.URL,
		Platform:  r.Site,
		StartTime: time.Time(r.StartTime),
		EndTime:   time.Time(r.EndTime),
		Duration:  time.Duration(r.Duration),
	}
	switch {
	case c.EndTime.IsZero() && c.Duration > 0:
		c.EndTime = c.StartTime.Add(c.Duration)
	case c.Duration == 0 && !c.EndTime.IsZero():
		c.Duration = c.EndTime.Sub(c.StartTime)
	}
	return c
}

// rawNewsItem is the news endpoint's item shape.
type rawNewsItem struct {
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	URL         string   `json:"url"`
	Desc        string   `json:"desc"`
	Source      string   `json:"source"`
	PublishedAt flexTime `json:"publishedAt"`
}

func (r rawNewsItem) item() NewsItem {
	link := r.Link
	if link == "" {
		link = r.URL
	}
	return NewsItem{
		Title:       r.Title,
		URL:         link,
		Description: stripHTML(r.Desc),
		Source:      r.Source,
		PublishedAt: time.Time(r.PublishedAt),
	}
}

// flexID decodes a string or numeric identifier.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = flexID(n.String())
	return nil
}

// flexTime decodes unix millis or an RFC 3339 string.
type flexTime time.Time

func (t *flexTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*t = flexTime(time.UnixMilli(ms).UTC())
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	*t = flexTime(parsed.UTC())
	return nil
}

// flexMilli decodes a millisecond count given as a number or numeric string.
type flexMilli time.Duration

func (d *flexMilli) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	ms, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*d = flexMilli(time.Duration(ms) * time.Millisecond)
	return nil
}
