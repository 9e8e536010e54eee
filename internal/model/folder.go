package model

import "fmt"

const (
	// RootKey is the navigation key of the synthetic root folder.
	RootKey = "root"
	// RootName is the display name of the synthetic root folder.
	RootName = "Bookmarks"
)

// Kind distinguishes folders from bookmarks.
type Kind int

const (
	KindFolder Kind = iota
	KindBookmark
)

func (k Kind) String() string {
	if k == KindBookmark {
		return "bookmark"
	}
	return "folder"
}

// Node is an entry of the normalized bookmark tree.
// Children keep the vendor order and are indexed by ID and by Key.
type Node struct {
	ID   string
	Key  string // navigation key, unique among siblings
	Name string // display title
	Kind Kind
	URL  string // empty for folders

	children []*Node
	byKey    map[string]int
	byID     map[string]int
}

// NewFolder creates an empty folder node.
func NewFolder(id, name string) *Node {
	return &Node{
		ID:    id,
		Key:   name,
		Name:  name,
		Kind:  KindFolder,
		byKey: make(map[string]int),
		byID:  make(map[string]int),
	}
}

// NewBookmark creates a bookmark leaf.
func NewBookmark(id, name, url string) *Node {
	return &Node{
		ID:   id,
		Key:  name,
		Name: name,
		Kind: KindBookmark,
		URL:  url,
	}
}

// IsFolder returns true if this node is a folder.
func (n *Node) IsFolder() bool {
	return n.Kind == KindFolder
}

// AddChild appends child and returns the key it was stored under.
// Siblings sharing a name get suffixed keys: "Docs", "Docs (2)", "Docs (3)".
// Bookmarks cannot hold children; the call is ignored and returns "".
func (n *Node) AddChild(child *Node) string {
	if !n.IsFolder() {
		return ""
	}
	if n.byKey == nil {
		n.byKey = make(map[string]int)
		n.byID = make(map[string]int)
	}

	key := child.Name
	for i := 2; ; i++ {
		if _, taken := n.byKey[key]; !taken {
			break
		}
		key = fmt.Sprintf("%s (%d)", child.Name, i)
	}
	child.Key = key

	n.byKey[key] = len(n.children)
	n.byID[child.ID] = len(n.children)
	n.children = append(n.children, child)
	return key
}

// Children returns the children in vendor order.
func (n *Node) Children() []*Node {
	return n.children
}

// Len returns the number of direct children.
func (n *Node) Len() int {
	return len(n.children)
}

// Child returns the direct child stored under key, or nil.
func (n *Node) Child(key string) *Node {
	i, ok := n.byKey[key]
	if !ok {
		return nil
	}
	return n.children[i]
}

// ChildByID returns the direct child with the given ID, or nil.
func (n *Node) ChildByID(id string) *Node {
	i, ok := n.byID[id]
	if !ok {
		return nil
	}
	return n.children[i]
}

// ChildFolderNamed returns the first child folder whose display name is name.
func (n *Node) ChildFolderNamed(name string) *Node {
	for _, c := range n.children {
		if c.IsFolder() && c.Name == name {
			return c
		}
	}
	return nil
}
