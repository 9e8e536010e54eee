// Package culler checks bookmark URLs and reports dead links.
package culler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nikbrunner/nt/internal/model"
)

// Status represents the health status of a URL.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response
	Dead                      // 404 or 410 Gone
	Unreachable               // timeout, DNS failure, connection refused, etc.
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Dead:
		return "dead"
	default:
		return "unreachable"
	}
}

// Result holds the check result for a single bookmark.
type Result struct {
	Bookmark   *model.Node
	Status     Status
	StatusCode int    // 0 if the connection failed
	Error      string // reason for unreachable URLs
}

// Options tune a check run.
type Options struct {
	Concurrency int
	Timeout     time.Duration
	// ExcludeDomains treat 404s as "possibly private" instead of dead.
	ExcludeDomains []string
}

// DefaultOptions returns the defaults used by `nt cull`.
func DefaultOptions() Options {
	return Options{
		Concurrency: 10,
		Timeout:     10 * time.Second,
	}
}

// ProgressFunc is called after each URL is checked.
type ProgressFunc func(completed, total int)

// Check checks every bookmark below root concurrently. Results keep the
// tree's depth-first order.
func Check(ctx context.Context, root *model.Node, opts Options, onProgress ProgressFunc) []Result {
	return CheckBookmarks(ctx, root.Bookmarks(), opts, onProgress)
}

// CheckBookmarks checks the given bookmark nodes concurrently.
func CheckBookmarks(ctx context.Context, bookmarks []*model.Node, opts Options, onProgress ProgressFunc) []Result {
	if len(bookmarks) == 0 {
		return nil
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	exclude := make(map[string]bool)
	for _, domain := range opts.ExcludeDomains {
		exclude[strings.ToLower(domain)] = true
	}

	client := &http.Client{
		Timeout: opts.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Follow at most 10 redirects
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	results := make([]Result, len(bookmarks))
	jobs := make(chan int)
	var wg sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0

	// Start workers
	for w := 0; w < opts.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = checkURL(ctx, client, bookmarks[idx], exclude)

				if onProgress != nil {
					progressMu.Lock()
					completed++
					onProgress(completed, len(bookmarks))
					progressMu.Unlock()
				}
			}
		}()
	}

	// Send jobs until done or cancelled
	for i := range bookmarks {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(bookmarks); j++ {
				results[j] = Result{Bookmark: bookmarks[j], Status: Unreachable, Error: "Cancelled"}
			}
			close(jobs)
			wg.Wait()
			return results
		}
	}
	close(jobs)

	wg.Wait()
	return results
}

// DeadOnly returns the results with status Dead.
func DeadOnly(results []Result) []Result {
	var dead []Result
	for _, r := range results {
		if r.Status == Dead {
			dead = append(dead, r)
		}
	}
	return dead
}

// checkURL checks a single URL.
func checkURL(ctx context.Context, client *http.Client, bookmark *model.Node, exclude map[string]bool) Result {
	result := Result{Bookmark: bookmark}

	// HEAD first, GET for servers that reject HEAD
	resp, err := do(ctx, client, http.MethodHead, bookmark.URL)
	if err != nil || resp.StatusCode == http.StatusMethodNotAllowed {
		if resp != nil {
			resp.Body.Close()
		}
		resp, err = do(ctx, client, http.MethodGet, bookmark.URL)
		if err != nil {
			result.Status = Unreachable
			result.Error = normalizeError(err.Error())
			return result
		}
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Healthy
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		if isExcludedDomain(bookmark.URL, exclude) {
			result.Status = Unreachable
			result.Error = "Possibly private (auth required)"
		} else {
			result.Status = Dead
		}
	default:
		// 5xx, 403 and friends may be temporary or auth-gated
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}

	return result
}

func do(ctx context.Context, client *http.Client, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

// isExcludedDomain checks the URL's host and its parent domains.
func isExcludedDomain(rawURL string, exclude map[string]bool) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for host != "" {
		if exclude[host] {
			return true
		}
		i := strings.IndexByte(host, '.')
		if i < 0 {
			break
		}
		host = host[i+1:]
	}
	return false
}

// normalizeError maps transport errors to short categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context canceled"):
		return "Cancelled"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	default:
		return errStr
	}
}
