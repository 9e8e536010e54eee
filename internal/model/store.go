package model

// Walk visits n and all its descendants depth-first, parents before
// children. Returning false from fn skips the node's subtree.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		walk(c, depth+1, fn)
	}
}

// Find returns the node with the given ID in n's subtree (n included), or nil.
func (n *Node) Find(id string) *Node {
	if n.ID == id {
		return n
	}
	if c := n.ChildByID(id); c != nil {
		return c
	}
	for _, c := range n.children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Contains returns true if a node with the given ID is in n's subtree,
// n itself included.
func (n *Node) Contains(id string) bool {
	return n.Find(id) != nil
}

// Bookmarks returns every bookmark in n's subtree in depth-first order.
func (n *Node) Bookmarks() []*Node {
	var result []*Node
	n.Walk(func(node *Node, _ int) bool {
		if !node.IsFolder() {
			result = append(result, node)
		}
		return true
	})
	return result
}

// Count returns the number of folders and bookmarks below n.
func (n *Node) Count() (folders, bookmarks int) {
	n.Walk(func(node *Node, depth int) bool {
		if depth == 0 {
			return true
		}
		if node.IsFolder() {
			folders++
		} else {
			bookmarks++
		}
		return true
	})
	return folders, bookmarks
}
