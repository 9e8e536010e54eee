// Package importer reads Netscape bookmark HTML and merges it into a
// bookmark store.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/nikbrunner/nt/internal/bookmarks"
	"github.com/nikbrunner/nt/internal/model"
)

// ErrUnknownFolder indicates the import target does not exist.
var ErrUnknownFolder = errors.New("import folder not found")

// ErrEmptyStore indicates the store returned no root.
var ErrEmptyStore = errors.New("store has no root")

// item is a parsed entry before conversion.
type item struct {
	title    string
	url      string
	added    int64 // unix millis
	children []*item
}

func (it *item) node() model.BrowserNode {
	n := model.BrowserNode{Title: it.title, URL: it.url, DateAdded: it.added}
	for i, c := range it.children {
		child := c.node()
		child.Index = i
		n.Children = append(n.Children, child)
	}
	return n
}

// ParseHTML parses Netscape bookmark HTML into top-level entries. Folders
// carry their contents as Children; IDs are left empty.
func ParseHTML(r io.Reader) ([]model.BrowserNode, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	root := &item{}
	stack := []*item{root}
	var pending *item // folder waiting for its DL

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			top := stack[len(stack)-1]

			switch strings.ToLower(n.Data) {
			case "h3":
				name := getTextContent(n)
				if name != "" {
					folder := &item{title: name, added: addDate(n)}
					top.children = append(top.children, folder)
					pending = folder
				}
				return

			case "a":
				href := getAttr(n, "href")
				if href == "" {
					return
				}
				title := getTextContent(n)
				if title == "" {
					title = href
				}
				top.children = append(top.children, &item{title: title, url: href, added: addDate(n)})
				return

			case "dl":
				pushed := false
				if pending != nil {
					stack = append(stack, pending)
					pending = nil
					pushed = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushed {
					stack = stack[:len(stack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return root.node().Children, nil
}

// Stats counts what an import created.
type Stats struct {
	Folders   int
	Bookmarks int
	Skipped   int // bookmarks whose URL already existed in the target folder
}

// Import merges entries into the folder parentID of store. An empty
// parentID targets the top level. Folders with an existing title are
// reused; bookmarks whose URL already exists in the same folder are skipped.
func Import(ctx context.Context, store bookmarks.Store, parentID string, entries []model.BrowserNode) (Stats, error) {
	roots, err := store.GetTree(ctx)
	if err != nil {
		return Stats{}, err
	}
	if len(roots) == 0 {
		return Stats{}, ErrEmptyStore
	}

	parent := &roots[0]
	if parentID != "" && parentID != model.RootKey {
		parent = find(roots, parentID)
		if parent == nil || !parent.IsFolder() {
			return Stats{}, fmt.Errorf("%w: %s", ErrUnknownFolder, parentID)
		}
	}

	var st Stats
	err = merge(ctx, store, parent.ID, parent.Children, entries, &st)
	return st, err
}

func merge(ctx context.Context, store bookmarks.Store, parentID string, existing, entries []model.BrowserNode, st *Stats) error {
	folders := make(map[string]model.BrowserNode)
	urls := make(map[string]bool)
	for _, e := range existing {
		if e.IsFolder() {
			if _, ok := folders[e.Title]; !ok {
				folders[e.Title] = e
			}
		} else {
			urls[e.URL] = true
		}
	}

	for _, e := range entries {
		if !e.IsFolder() {
			if urls[e.URL] {
				st.Skipped++
				continue
			}
			if _, err := store.Create(ctx, bookmarks.CreateParams{ParentID: parentID, Title: e.Title, URL: e.URL, DateAdded: e.DateAdded}); err != nil {
				return fmt.Errorf("import %q: %w", e.Title, err)
			}
			urls[e.URL] = true
			st.Bookmarks++
			continue
		}

		dst, ok := folders[e.Title]
		if !ok {
			created, err := store.Create(ctx, bookmarks.CreateParams{ParentID: parentID, Title: e.Title, DateAdded: e.DateAdded})
			if err != nil {
				return fmt.Errorf("import folder %q: %w", e.Title, err)
			}
			dst = created
			folders[e.Title] = created
			st.Folders++
		}
		if err := merge(ctx, store, dst.ID, dst.Children, e.Children, st); err != nil {
			return err
		}
	}
	return nil
}

func find(nodes []model.BrowserNode, id string) *model.BrowserNode {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i]
		}
		if n := find(nodes[i].Children, id); n != nil {
			return n
		}
	}
	return nil
}

// addDate reads ADD_DATE (unix seconds) as unix millis, or 0.
func addDate(n *html.Node) int64 {
	ts, err := strconv.ParseInt(getAttr(n, "add_date"), 10, 64)
	if err != nil {
		return 0
	}
	return ts * 1000
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}
