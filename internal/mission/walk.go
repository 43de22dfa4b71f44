package mission

import "github.com/alexanderramin/missionctl/internal/domain"

// Row is one visible line of a hierarchical rendering.
type Row struct {
	Node        *Node
	Depth       int
	IsLast      bool // last among its siblings
	HasChildren bool
	Expanded    bool
}

// Walk visits every node reachable from the roots depth-first, in root order
// and then child order. fn returning false skips that node's subtree. Each
// node is visited at most once, so malformed parent links cannot recurse
// forever.
func Walk(t Tree, fn func(n *Node, depth int) bool) {
	visited := make(map[string]bool, len(t.ItemMap))
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		if n == nil || visited[n.ID] {
			return
		}
		visited[n.ID] = true
		if !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	for _, r := range t.RootItems {
		visit(t.ItemMap[r.ID], 0)
	}
}

// Flatten returns the visible rows of t. A node's children are included only
// when expanded[node.ID] is true; a nil expanded map expands everything.
func Flatten(t Tree, expanded map[string]bool) []Row {
	var rows []Row
	visited := make(map[string]bool, len(t.ItemMap))

	var visit func(n *Node, depth int, last bool)
	visit = func(n *Node, depth int, last bool) {
		if n == nil || visited[n.ID] {
			return
		}
		visited[n.ID] = true

		open := expanded == nil || expanded[n.ID]
		rows = append(rows, Row{
			Node:        n,
			Depth:       depth,
			IsLast:      last,
			HasChildren: len(n.Children) > 0,
			Expanded:    open,
		})
		if !open {
			return
		}
		for i, c := range n.Children {
			visit(c, depth+1, i == len(n.Children)-1)
		}
	}

	for i, r := range t.RootItems {
		visit(t.ItemMap[r.ID], 0, i == len(t.RootItems)-1)
	}
	return rows
}

// Orphans returns the items of the snapshot that no root reaches, in
// snapshot order. These are typically the descendants of a deleted parent.
func Orphans(items []domain.Item, t Tree) []domain.Item {
	reachable := make(map[string]bool, len(items))
	Walk(t, func(n *Node, _ int) bool {
		reachable[n.ID] = true
		return true
	})
	var out []domain.Item
	for _, item := range items {
		if !reachable[item.ID] {
			out = append(out, item)
		}
	}
	return out
}

// Subtree returns the ids of rootID and everything reachable below it in
// the flat snapshot, root first. Unlike Walk it follows ParentID links
// directly, so it also covers subtrees that are already orphaned.
func Subtree(rootID string, items []domain.Item) []string {
	byParent := make(map[string][]string)
	for _, item := range items {
		if item.ParentID != "" {
			byParent[item.ParentID] = append(byParent[item.ParentID], item.ID)
		}
	}

	seen := map[string]bool{rootID: true}
	out := []string{rootID}
	for i := 0; i < len(out); i++ {
		for _, child := range byParent[out[i]] {
			if seen[child] {
				continue
			}
			seen[child] = true
			out = append(out, child)
		}
	}
	return out
}
