// Package mission derives the hierarchy, lock state and progress of a mission
// collection from a flat snapshot of items. Everything here is pure: callers
// pass in the snapshot and any session state (such as the override flag) and
// get derived values back.
package mission

import (
	"sort"

	"github.com/alexanderramin/missionctl/internal/domain"
)

// Node is an item plus its attached children. A node never points back at
// its parent; parent lookups go through the flat snapshot by ParentID.
type Node struct {
	domain.Item
	Children []*Node
}

// Tree is the derived hierarchy for one snapshot.
type Tree struct {
	// ItemMap holds a node for every item in the snapshot, attached or not.
	ItemMap map[string]*Node
	// RootItems are the items without a parent, oldest first.
	RootItems []domain.Item
}

// BuildTree turns an unordered snapshot into an id-indexed tree.
//
// Pass 1 creates a node for every item. Pass 2 attaches each item whose
// ParentID resolves to a known node onto that node's children, in input
// order. Items with an unknown parent stay in ItemMap but are nobody's child.
// When an id repeats, its last occurrence wins and the earlier ones are
// ignored, so every id is one node attached at most once.
func BuildTree(items []domain.Item) Tree {
	itemMap := make(map[string]*Node, len(items))
	last := make(map[string]int, len(items))
	for i, item := range items {
		itemMap[item.ID] = &Node{Item: item}
		last[item.ID] = i
	}

	var roots []domain.Item
	for i, item := range items {
		if last[item.ID] != i {
			continue
		}
		if item.IsRoot() {
			roots = append(roots, item)
			continue
		}
		parent, ok := itemMap[item.ParentID]
		if !ok {
			continue
		}
		parent.Children = append(parent.Children, itemMap[item.ID])
	}
	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].CreatedAt.Before(roots[j].CreatedAt)
	})

	return Tree{ItemMap: itemMap, RootItems: roots}
}

// Root returns the node for the i-th root item.
func (t Tree) Root(i int) *Node {
	if i < 0 || i >= len(t.RootItems) {
		return nil
	}
	return t.ItemMap[t.RootItems[i].ID]
}

// Get returns the node for id, or nil.
func (t Tree) Get(id string) *Node {
	return t.ItemMap[id]
}

// Find returns the flat snapshot entry for id.
func Find(items []domain.Item, id string) (domain.Item, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.Item{}, false
}

// Children returns the direct children of parentID from the flat snapshot.
func Children(parentID string, items []domain.Item) []domain.Item {
	var out []domain.Item
	for _, item := range items {
		if item.ParentID == parentID && parentID != "" {
			out = append(out, item)
		}
	}
	return out
}
