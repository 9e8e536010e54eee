package storage

import (
	"fmt"
	"net/url"
	"time"

	"github.com/nikbrunner/nt/internal/bookmarks"
	"github.com/nikbrunner/nt/internal/model"
)

// IDs of the permanent nodes every store is seeded with.
const (
	RootID  = "0"
	BarID   = "1"
	OtherID = "2"
)

// entry is a node of the flat in-memory representation shared by the stores.
type entry struct {
	id        string
	parentID  string
	title     string
	url       string
	dateAdded int64
	children  []string
}

func (e *entry) isFolder() bool {
	return e.url == ""
}

// forest holds a vendor tree as a flat id map with ordered child lists.
// It implements the mutation rules of every Store; the stores only differ
// in how they persist it.
type forest struct {
	root  string
	nodes map[string]*entry
}

// newForest returns the default tree: a root with "Bookmarks bar" and
// "Other bookmarks".
func newForest() *forest {
	now := time.Now().UnixMilli()
	f := &forest{root: RootID, nodes: make(map[string]*entry)}
	f.nodes[RootID] = &entry{id: RootID, dateAdded: now, children: []string{BarID, OtherID}}
	f.nodes[BarID] = &entry{id: BarID, parentID: RootID, title: "Bookmarks bar", dateAdded: now}
	f.nodes[OtherID] = &entry{id: OtherID, parentID: RootID, title: "Other bookmarks", dateAdded: now}
	return f
}

// forestFrom rebuilds a forest from vendor roots. Only the first root is
// kept. An empty input yields the default tree.
func forestFrom(roots []model.BrowserNode) *forest {
	if len(roots) == 0 {
		return newForest()
	}
	root := roots[0]
	if root.ID == "" {
		root.ID = RootID
	}
	f := &forest{root: root.ID, nodes: make(map[string]*entry)}
	f.add(root, "")
	return f
}

func (f *forest) add(n model.BrowserNode, parentID string) {
	e := &entry{
		id:        n.ID,
		parentID:  parentID,
		title:     n.Title,
		url:       n.URL,
		dateAdded: n.DateAdded,
	}
	f.nodes[n.ID] = e
	for _, c := range n.Children {
		if c.ID == "" {
			c.ID = model.GenerateUUID()
		}
		e.children = append(e.children, c.ID)
		f.add(c, n.ID)
	}
}

// tree returns the vendor roots.
func (f *forest) tree() []model.BrowserNode {
	return []model.BrowserNode{f.node(f.root, 0)}
}

// node returns id with its subtree. index is its position in the parent.
func (f *forest) node(id string, index int) model.BrowserNode {
	e := f.nodes[id]
	n := model.BrowserNode{
		ID:        e.id,
		ParentID:  e.parentID,
		Index:     index,
		Title:     e.title,
		URL:       e.url,
		DateAdded: e.dateAdded,
	}
	for i, childID := range e.children {
		n.Children = append(n.Children, f.node(childID, i))
	}
	return n
}

// leaf returns id without children, as returned by create and move.
func (f *forest) leaf(id string) model.BrowserNode {
	e := f.nodes[id]
	return model.BrowserNode{
		ID:        e.id,
		ParentID:  e.parentID,
		Index:     f.indexOf(id),
		Title:     e.title,
		URL:       e.url,
		DateAdded: e.dateAdded,
	}
}

func (f *forest) indexOf(id string) int {
	e := f.nodes[id]
	parent, ok := f.nodes[e.parentID]
	if !ok {
		return 0
	}
	for i, c := range parent.children {
		if c == id {
			return i
		}
	}
	return 0
}

func (f *forest) folder(id string) (*entry, error) {
	e, ok := f.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !e.isFolder() {
		return nil, fmt.Errorf("%w: %s is a bookmark", ErrNotFolder, id)
	}
	return e, nil
}

func (f *forest) create(p bookmarks.CreateParams, id string, now time.Time) (model.BrowserNode, error) {
	parent, err := f.folder(p.ParentID)
	if err != nil {
		return model.BrowserNode{}, err
	}
	if p.URL != "" {
		if err := validateURL(p.URL); err != nil {
			return model.BrowserNode{}, err
		}
	}

	added := p.DateAdded
	if added == 0 {
		added = now.UnixMilli()
	}
	f.nodes[id] = &entry{
		id:        id,
		parentID:  parent.id,
		title:     p.Title,
		url:       p.URL,
		dateAdded: added,
	}
	parent.children = insertAt(parent.children, id, p.Index)
	return f.leaf(id), nil
}

func (f *forest) move(id string, dest bookmarks.Destination) (model.BrowserNode, error) {
	e, ok := f.nodes[id]
	if !ok {
		return model.BrowserNode{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if id == f.root {
		return model.BrowserNode{}, fmt.Errorf("%w: %s", ErrRootNode, id)
	}
	target, err := f.folder(dest.ParentID)
	if err != nil {
		return model.BrowserNode{}, err
	}
	for p := target; p != nil; p = f.nodes[p.parentID] {
		if p.id == id {
			return model.BrowserNode{}, fmt.Errorf("%w: %s into %s", ErrInvalidMove, id, dest.ParentID)
		}
	}

	old := f.nodes[e.parentID]
	old.children = without(old.children, id)
	e.parentID = target.id
	target.children = insertAt(target.children, id, dest.Index)
	return f.leaf(id), nil
}

func (f *forest) remove(id string) error {
	e, err := f.removable(id)
	if err != nil {
		return err
	}
	if e.isFolder() && len(e.children) > 0 {
		return fmt.Errorf("%w: %s", ErrFolderNotEmpty, id)
	}
	f.detach(e)
	return nil
}

func (f *forest) removeTree(id string) error {
	e, err := f.removable(id)
	if err != nil {
		return err
	}
	if !e.isFolder() {
		return fmt.Errorf("%w: %s is a bookmark", ErrNotFolder, id)
	}
	f.detach(e)
	return nil
}

func (f *forest) removable(id string) (*entry, error) {
	e, ok := f.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if id == f.root {
		return nil, fmt.Errorf("%w: %s", ErrRootNode, id)
	}
	return e, nil
}

// detach unlinks e from its parent and drops its subtree.
func (f *forest) detach(e *entry) {
	parent := f.nodes[e.parentID]
	parent.children = without(parent.children, e.id)

	var drop func(id string)
	drop = func(id string) {
		for _, c := range f.nodes[id].children {
			drop(c)
		}
		delete(f.nodes, id)
	}
	drop(e.id)
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return nil
}

func insertAt(ids []string, id string, index *int) []string {
	if index == nil || *index < 0 || *index >= len(ids) {
		return append(ids, id)
	}
	ids = append(ids, "")
	copy(ids[*index+1:], ids[*index:])
	ids[*index] = id
	return ids
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, c := range ids {
		if c != id {
			out = append(out, c)
		}
	}
	return out
}
