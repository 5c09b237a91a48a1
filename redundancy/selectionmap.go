// Package redundancy implements the skip_redundant_nodes engine (spec.md
// §4.7): a persistent per-scope map from selection identity to an optional
// child map, used to detect and drop selections an ancestor along the same
// guaranteed-fetch path already produces.
package redundancy

import "github.com/viant/queryc/identity"

// hamtDepth*nibbleBits must cover a 64-bit hash exactly.
const (
	nibbleBits = 4
	nibbleMask = 0xF
	hamtDepth  = 64 / nibbleBits
)

// SelectionMap is a persistent hash map from identity.NodeIdentifier to an
// optional child SelectionMap (nil = a scalar/spread leaf; non-nil = the
// child selection map of a composite). Every mutating operation returns a
// new SelectionMap that shares all untouched structure with its parent —
// callers never see interior mutation, which is what lets a Condition or
// InlineFragment branch "fork" the map for free: forking is just handing
// the branch the same *SelectionMap value to build on top of.
//
// Internally this is a 16-way trie keyed by successive nibbles of the
// identifier's hash, fixed at 16 levels (64 bits / 4 bits per level) so
// insert/lookup cost is a constant number of pointer hops, independent of
// how many entries the map holds, while still path-copying only the nodes
// on the route to the changed key.
type SelectionMap struct {
	root *trieNode
}

type trieNode struct {
	children [1 << nibbleBits]*trieNode
	leaves   []leaf // populated only at depth == hamtDepth
}

type leaf struct {
	key   identity.NodeIdentifier
	child *SelectionMap
}

// NewSelectionMap returns an empty map.
func NewSelectionMap() *SelectionMap {
	return &SelectionMap{}
}

// IsEmpty reports whether this map has no entries — the condition
// skip_redundant_nodes uses to decide whether a LinkedField/InlineFragment
// recursion is memoization-eligible (spec.md §4.7 "Memoization").
func (m *SelectionMap) IsEmpty() bool {
	return m == nil || m.root == nil
}

// Get looks up key, returning the stored child map (nil for a
// scalar/spread leaf) and whether the key is present at all.
func (m *SelectionMap) Get(key identity.NodeIdentifier) (*SelectionMap, bool) {
	if m == nil {
		return nil, false
	}
	return getNode(m.root, key, key.Hash(), 0)
}

func getNode(n *trieNode, key identity.NodeIdentifier, hash uint64, depth int) (*SelectionMap, bool) {
	if n == nil {
		return nil, false
	}
	if depth == hamtDepth {
		for _, l := range n.leaves {
			if l.key.Equal(key) {
				return l.child, true
			}
		}
		return nil, false
	}
	return getNode(n.children[nibble(hash, depth)], key, hash, depth+1)
}

func nibble(hash uint64, depth int) uint64 {
	return (hash >> uint(depth*nibbleBits)) & nibbleMask
}

// Insert returns a new SelectionMap with key bound to child, sharing every
// node not on the path from the root to key's leaf with the receiver. m
// itself is never mutated, so any branch still holding m sees the
// unmodified map (spec.md §4.7 "Determinism").
func (m *SelectionMap) Insert(key identity.NodeIdentifier, child *SelectionMap) *SelectionMap {
	var root *trieNode
	if m != nil {
		root = m.root
	}
	return &SelectionMap{root: insertNode(root, key, child, key.Hash(), 0)}
}

func insertNode(n *trieNode, key identity.NodeIdentifier, child *SelectionMap, hash uint64, depth int) *trieNode {
	var copied trieNode
	if n != nil {
		copied = *n
	}
	if depth == hamtDepth {
		leaves := make([]leaf, 0, len(copied.leaves)+1)
		replaced := false
		for _, l := range copied.leaves {
			if l.key.Equal(key) {
				leaves = append(leaves, leaf{key: key, child: child})
				replaced = true
				continue
			}
			leaves = append(leaves, l)
		}
		if !replaced {
			leaves = append(leaves, leaf{key: key, child: child})
		}
		copied.leaves = leaves
		return &copied
	}
	idx := nibble(hash, depth)
	copied.children[idx] = insertNode(copied.children[idx], key, child, hash, depth+1)
	return &copied
}
