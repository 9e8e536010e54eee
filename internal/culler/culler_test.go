package culler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nikbrunner/nt/internal/culler"
	"github.com/nikbrunner/nt/internal/model"
)

func linkServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/get-only", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func tree(base string) *model.Node {
	root := model.NewFolder("root", model.RootName)
	work := model.NewFolder("f1", "Work")
	root.AddChild(work)
	work.AddChild(model.NewBookmark("b1", "OK", base+"/ok"))
	work.AddChild(model.NewBookmark("b2", "Gone", base+"/gone"))
	root.AddChild(model.NewBookmark("b3", "Broken", base+"/broken"))
	root.AddChild(model.NewBookmark("b4", "Missing", base+"/missing"))
	root.AddChild(model.NewBookmark("b5", "Get only", base+"/get-only"))
	return root
}

func TestCheck(t *testing.T) {
	srv := linkServer(t)

	var mu sync.Mutex
	var calls []int
	results := culler.Check(context.Background(), tree(srv.URL), culler.DefaultOptions(), func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, done)
		if total != 5 {
			t.Errorf("expected total 5, got %d", total)
		}
	})

	want := []struct {
		id     string
		status culler.Status
		code   int
	}{
		{"b1", culler.Healthy, 200},
		{"b2", culler.Dead, 410},
		{"b3", culler.Unreachable, 500},
		{"b4", culler.Dead, 404},
		{"b5", culler.Healthy, 200},
	}

	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for i, w := range want {
		r := results[i]
		if r.Bookmark.ID != w.id || r.Status != w.status || r.StatusCode != w.code {
			t.Errorf("result %d: expected %s %v %d, got %s %v %d",
				i, w.id, w.status, w.code, r.Bookmark.ID, r.Status, r.StatusCode)
		}
	}
	if len(calls) != 5 || calls[4] != 5 {
		t.Errorf("expected progress 1..5, got %v", calls)
	}

	dead := culler.DeadOnly(results)
	if len(dead) != 2 {
		t.Errorf("expected 2 dead links, got %d", len(dead))
	}
}

func TestCheck_ExcludedDomainIsPossiblyPrivate(t *testing.T) {
	srv := linkServer(t)
	root := model.NewFolder("root", model.RootName)
	root.AddChild(model.NewBookmark("b1", "Private", srv.URL+"/missing"))

	opts := culler.DefaultOptions()
	opts.ExcludeDomains = []string{"127.0.0.1"}
	results := culler.Check(context.Background(), root, opts, nil)

	if results[0].Status != culler.Unreachable {
		t.Errorf("expected unreachable, got %v", results[0].Status)
	}
	if !strings.Contains(results[0].Error, "private") {
		t.Errorf("expected private hint, got %q", results[0].Error)
	}
}

func TestCheck_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	root := model.NewFolder("root", model.RootName)
	root.AddChild(model.NewBookmark("b1", "Down", url))

	opts := culler.DefaultOptions()
	opts.Timeout = time.Second
	results := culler.Check(context.Background(), root, opts, nil)

	if results[0].Status != culler.Unreachable {
		t.Errorf("expected unreachable, got %v", results[0].Status)
	}
	if results[0].StatusCode != 0 {
		t.Errorf("expected no status code, got %d", results[0].StatusCode)
	}
}

func TestCheck_Empty(t *testing.T) {
	if got := culler.Check(context.Background(), model.NewFolder("root", model.RootName), culler.DefaultOptions(), nil); got != nil {
		t.Errorf("expected nil for empty tree, got %v", got)
	}
}

func TestCheck_Cancelled(t *testing.T) {
	srv := linkServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := culler.Check(ctx, tree(srv.URL), culler.DefaultOptions(), nil)

	for _, r := range results {
		if r.Status != culler.Unreachable {
			t.Errorf("%s: expected unreachable after cancel, got %v", r.Bookmark.ID, r.Status)
		}
	}
}
