// Package notes talks to the remote notes service and keeps the ordered,
// paginated note list shown on the dashboard.
package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nikbrunner/nt/internal/identity"
	"github.com/nikbrunner/nt/internal/logger"
	"github.com/nikbrunner/nt/internal/model"
)

const (
	// IdentityHeader scopes every request to one user.
	IdentityHeader = "X-User-Email"

	// DefaultPageSize is the number of notes requested per page.
	DefaultPageSize = 10
)

// Page is one page of notes.
type Page struct {
	Notes   []model.Note
	HasMore bool
	// NextPage is nil when there are no more pages.
	NextPage *int
}

// Client handles communication with the notes service.
type Client struct {
	baseURL    string
	identity   identity.Provider
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, id identity.Provider) *Client {
	if id == nil {
		id = identity.None{}
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		identity: id,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: logger.L(),
	}
}

// SignedIn reports whether requests carry an identity.
func (c *Client) SignedIn() bool {
	return c.identity.Key() != ""
}

type pageResponse struct {
	Notes    []model.Note `json:"notes"`
	HasMore  bool         `json:"hasMore"`
	NextPage *int         `json:"nextPage"`
}

// List fetches one page of notes. Signed out, it returns an empty page.
func (c *Client) List(ctx context.Context, page, limit int) (Page, error) {
	if !c.SignedIn() {
		return Page{}, nil
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	body, err := c.do(ctx, http.MethodGet, "/notes?"+q.Encode(), nil)
	if err != nil {
		return Page{}, err
	}

	result, err := decodePage(body)
	if err != nil {
		return Page{}, fmt.Errorf("%w: decode page %d: %w", ErrNetwork, page, err)
	}
	if result.NextPage == nil && result.HasMore {
		next := page + 1
		result.NextPage = &next
	}
	if !result.HasMore {
		result.NextPage = nil
	}
	return result, nil
}

// decodePage accepts either a page object or a bare array of notes.
func decodePage(body []byte) (Page, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []model.Note
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return Page{}, err
		}
		return Page{Notes: list}, nil
	}

	var resp pageResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return Page{}, err
	}
	return Page{Notes: resp.Notes, HasMore: resp.HasMore, NextPage: resp.NextPage}, nil
}

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Create adds a note. The title is trimmed and must not be empty.
func (c *Client) Create(ctx context.Context, title, content string) (model.Note, error) {
	req, err := c.noteRequest(title, content)
	if err != nil {
		return model.Note{}, err
	}

	body, err := c.do(ctx, http.MethodPost, "/notes", req)
	if err != nil {
		return model.Note{}, err
	}
	return decodeNote(body)
}

// Update replaces the title and content of note id.
func (c *Client) Update(ctx context.Context, id, title, content string) (model.Note, error) {
	req, err := c.noteRequest(title, content)
	if err != nil {
		return model.Note{}, err
	}

	body, err := c.do(ctx, http.MethodPut, "/notes/"+url.PathEscape(id), req)
	if err != nil {
		return model.Note{}, err
	}
	return decodeNote(body)
}

// Delete removes note id.
func (c *Client) Delete(ctx context.Context, id string) error {
	if !c.SignedIn() {
		return ErrSignedOut
	}
	_, err := c.do(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), nil)
	return err
}

type reorderRequest struct {
	NoteID   string  `json:"noteId"`
	NewOrder float64 `json:"newOrder"`
}

// Reorder persists a new order value for note id.
func (c *Client) Reorder(ctx context.Context, id string, newOrder float64) error {
	if !c.SignedIn() {
		return ErrSignedOut
	}
	_, err := c.do(ctx, http.MethodPut, "/notes/reorder", reorderRequest{NoteID: id, NewOrder: newOrder})
	return err
}

func (c *Client) noteRequest(title, content string) (noteRequest, error) {
	if !c.SignedIn() {
		return noteRequest{}, ErrSignedOut
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return noteRequest{}, ErrEmptyTitle
	}
	return noteRequest{Title: title, Content: content}, nil
}

func decodeNote(body []byte) (model.Note, error) {
	var note model.Note
	if err := json.Unmarshal(body, &note); err != nil {
		return model.Note{}, fmt.Errorf("%w: decode note: %w", ErrNetwork, err)
	}
	return note, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

// do sends a JSON request and returns the response body of a 2xx reply.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdentityHeader, c.identity.Key())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("notes request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er errorResponse
		_ = json.Unmarshal(body, &er)

		statusErr := &StatusError{Status: resp.StatusCode, Message: er.Error, kind: ErrNetwork}
		if resp.StatusCode == http.StatusTooManyRequests {
			statusErr.kind = ErrRateLimited
			if statusErr.Message == "" {
				statusErr.Message = DefaultRateLimitMessage
			}
		}
		c.log.Warn("notes request rejected", "method", method, "path", path, "status", resp.StatusCode)
		return nil, statusErr
	}

	return body, nil
}
