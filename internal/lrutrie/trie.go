// Package lrutrie implements the character-keyed LRU trie: insertion,
// point lookup, depth-first iteration, and windup, all addressed
// exclusively through block indices. There is no in-memory node graph.
package lrutrie

import (
	"errors"
	"fmt"

	"github.com/webcrawl/traph/internal/block"
	"github.com/webcrawl/traph/internal/trienode"
)

// RootIndex is the fixed block index of the trie's root node. Block 0 is
// the NULL sentinel; the root is written once, at construction, and
// always occupies block 1.
const RootIndex uint32 = 1

// ErrZeroPointer traps a logic bug: code following a pointer field as if
// it were non-zero found zero instead.
var ErrZeroPointer = errors.New("lrutrie: followed a zero pointer as non-zero")

// ErrEmptyLRU is returned by AddLRU/AddPage/Lookup when given a
// zero-length LRU. An empty LRU carries no path to walk, so it is
// rejected outright rather than silently mapped to the root.
var ErrEmptyLRU = errors.New("lrutrie: LRU must not be empty")

// Trie is the LRU trie, backed by a block.Store whose block size is
// trienode.Size.
type Trie struct {
	store block.Store
}

// Open wraps an existing block.Store as a Trie, allocating the block-0
// NULL sentinel and the root node if the store is empty.
func Open(store block.Store) (*Trie, error) {
	if store.BlockSize() != trienode.Size {
		return nil, fmt.Errorf("lrutrie: store block size %d does not match trienode.Size %d", store.BlockSize(), trienode.Size)
	}

	t := &Trie{store: store}

	_, ok, err := store.Read(RootIndex)
	if err != nil {
		return nil, err
	}
	if !ok {
		nullIndex, err := store.Append(trienode.Record{}.Bytes())
		if err != nil {
			return nil, err
		}
		if nullIndex != 0 {
			return nil, fmt.Errorf("lrutrie: expected null sentinel at block 0, got %d", nullIndex)
		}

		root := trienode.New(0, 0)
		index, err := store.Append(root.Bytes())
		if err != nil {
			return nil, err
		}
		if index != RootIndex {
			return nil, fmt.Errorf("lrutrie: expected root at block %d, got %d", RootIndex, index)
		}
	}

	return t, nil
}

// Node identifies a single trie node by its block index: two Nodes are
// equal iff their indices are equal.
type Node struct {
	Index uint32
}

// Root returns the trie's root node.
func (t *Trie) Root() Node {
	return Node{RootIndex}
}

func (t *Trie) read(index uint32) (trienode.Record, error) {
	data, ok, err := t.store.Read(index)
	if err != nil {
		return trienode.Record{}, err
	}
	if !ok {
		return trienode.Record{}, fmt.Errorf("lrutrie: no such block %d", index)
	}
	return trienode.Decode(data), nil
}

func (t *Trie) write(index uint32, r trienode.Record) error {
	return t.store.Write(r.Bytes(), index)
}

// WalkHistory accumulates state observed along a single insertion walk:
// the nearest ancestor webentity, if any, and every creation rule passed
// on the way down.
type WalkHistory struct {
	// HasWebEntity is true iff a webentity mark was seen along the walk.
	HasWebEntity bool
	// WebEntityID is the nearest-ancestor webentity id, valid iff
	// HasWebEntity.
	WebEntityID uint32
	// WebEntityLRUPrefix is the LRU prefix at which WebEntityID was found.
	WebEntityLRUPrefix []byte
	// WebEntityPosition is len(WebEntityLRUPrefix).
	WebEntityPosition int
	// RulesToApply holds each is_webentity_creation_rule prefix observed
	// along the walk, in root-to-leaf order.
	RulesToApply [][]byte
	// PageWasCreated is true iff AddPage newly flipped FlagIsPage.
	PageWasCreated bool
}

func (h *WalkHistory) observe(node trienode.Record, prefix []byte) {
	if node.HasFlag(trienode.FlagHasWebEntity) {
		h.HasWebEntity = true
		h.WebEntityID = node.WebEntityID()
		cp := make([]byte, len(prefix))
		copy(cp, prefix)
		h.WebEntityLRUPrefix = cp
		h.WebEntityPosition = len(prefix)
	}

	if node.HasFlag(trienode.FlagIsCreationRule) {
		cp := make([]byte, len(prefix))
		copy(cp, prefix)
		h.RulesToApply = append(h.RulesToApply, cp)
	}
}

// findSibling scans the sibling list starting at head for a node whose
// char equals c. It returns the matching node's index, its record, and
// whether it was found.
func (t *Trie) findSibling(head uint32, c byte) (uint32, trienode.Record, bool, error) {
	index := head
	for index != 0 {
		rec, err := t.read(index)
		if err != nil {
			return 0, trienode.Record{}, false, err
		}
		if rec.Char() == c {
			return index, rec, true, nil
		}
		index = rec.Next()
	}
	return 0, trienode.Record{}, false, nil
}

// appendChild allocates a new node with char c as a child of parentIndex,
// appending it at the tail of parent's sibling list (or attaching it as
// the first child if the list is empty), and returns the new node's
// index.
func (t *Trie) appendChild(parentIndex uint32, c byte) (uint32, error) {
	parent, err := t.read(parentIndex)
	if err != nil {
		return 0, err
	}

	newRec := trienode.New(c, parentIndex)
	newIndex, err := t.store.Append(newRec.Bytes())
	if err != nil {
		return 0, err
	}

	head := parent.Child()
	if head == 0 {
		parent.SetChild(newIndex)
		if err := t.write(parentIndex, parent); err != nil {
			return 0, err
		}
		return newIndex, nil
	}

	last := head
	lastRec, err := t.read(last)
	if err != nil {
		return 0, err
	}
	for lastRec.Next() != 0 {
		last = lastRec.Next()
		lastRec, err = t.read(last)
		if err != nil {
			return 0, err
		}
	}

	lastRec.SetNext(newIndex)
	if err := t.write(last, lastRec); err != nil {
		return 0, err
	}

	return newIndex, nil
}

// AddLRU inserts the LRU byte string s into the trie, returning its
// terminal node and the accumulated walk history.
func (t *Trie) AddLRU(s []byte) (Node, WalkHistory, error) {
	if len(s) == 0 {
		return Node{}, WalkHistory{}, ErrEmptyLRU
	}

	var history WalkHistory

	parent := RootIndex
	var current uint32
	prefix := make([]byte, 0, len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		parentRec, err := t.read(parent)
		if err != nil {
			return Node{}, WalkHistory{}, err
		}

		matched, matchedRec, found, err := t.findSibling(parentRec.Child(), c)
		if err != nil {
			return Node{}, WalkHistory{}, err
		}

		if !found {
			matched, err = t.appendChild(parent, c)
			if err != nil {
				return Node{}, WalkHistory{}, err
			}
			matchedRec, err = t.read(matched)
			if err != nil {
				return Node{}, WalkHistory{}, err
			}
		}

		prefix = append(prefix, c)
		history.observe(matchedRec, prefix)

		current = matched
		parent = matched
	}

	return Node{current}, history, nil
}

// AddPage inserts s (via AddLRU) and flags the terminal node is_page if
// not already set.
func (t *Trie) AddPage(s []byte) (Node, WalkHistory, error) {
	node, history, err := t.AddLRU(s)
	if err != nil {
		return Node{}, WalkHistory{}, err
	}

	rec, err := t.read(node.Index)
	if err != nil {
		return Node{}, WalkHistory{}, err
	}

	if !rec.HasFlag(trienode.FlagIsPage) {
		rec.SetFlag(trienode.FlagIsPage)
		if err := t.write(node.Index, rec); err != nil {
			return Node{}, WalkHistory{}, err
		}
		history.PageWasCreated = true
	}

	return node, history, nil
}

// Lookup performs a point lookup of s, returning the terminal node and
// true if found.
func (t *Trie) Lookup(s []byte) (Node, bool, error) {
	if len(s) == 0 {
		return Node{}, false, ErrEmptyLRU
	}

	parent := RootIndex
	var current uint32

	for i := 0; i < len(s); i++ {
		parentRec, err := t.read(parent)
		if err != nil {
			return Node{}, false, err
		}

		matched, _, found, err := t.findSibling(parentRec.Child(), s[i])
		if err != nil {
			return Node{}, false, err
		}
		if !found {
			return Node{}, false, nil
		}

		current = matched
		parent = matched
	}

	return Node{current}, true, nil
}

// Record returns the raw packed record for a node.
func (t *Trie) Record(n Node) (trienode.Record, error) {
	return t.read(n.Index)
}

// SetRecord overwrites the packed record for a node in place.
func (t *Trie) SetRecord(n Node, r trienode.Record) error {
	return t.write(n.Index, r)
}

// Windup reconstructs n's LRU by walking parent pointers to the root and
// reversing the accumulated characters.
func (t *Trie) Windup(n Node) ([]byte, error) {
	var reversed []byte

	index := n.Index
	for index != RootIndex {
		rec, err := t.read(index)
		if err != nil {
			return nil, err
		}

		reversed = append(reversed, rec.Char())
		parent := rec.Parent()
		if parent == 0 && index != RootIndex {
			return nil, fmt.Errorf("%w: node %d has no parent", ErrZeroPointer, index)
		}
		index = parent
	}

	out := make([]byte, len(reversed))
	for i, b := range reversed {
		out[len(out)-1-i] = b
	}
	return out, nil
}
