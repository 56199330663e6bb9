package lrutrie

import "github.com/webcrawl/traph/internal/trienode"

// Visit is called once per node during a DFS, in pre-order, with the node
// and the LRU accumulated so far.
type Visit func(n Node, lru []byte, rec trienode.Record) error

// Walk performs a pre-order depth-first walk of the whole trie, starting
// from the root (the root itself is not visited, since it carries no
// character and is not part of any LRU).
func (t *Trie) Walk(visit Visit) error {
	root, err := t.read(RootIndex)
	if err != nil {
		return err
	}
	return t.walkChildren(RootIndex, root, nil, visit)
}

// WalkFrom performs a bounded pre-order DFS starting at the subtree rooted
// at n, whose own LRU is prefix. Unlike Walk, n itself is visited first.
func (t *Trie) WalkFrom(n Node, prefix []byte, visit Visit) error {
	rec, err := t.read(n.Index)
	if err != nil {
		return err
	}

	if err := visit(n, prefix, rec); err != nil {
		return err
	}

	return t.walkChildren(n.Index, rec, prefix, visit)
}

func (t *Trie) walkChildren(parentIndex uint32, parent trienode.Record, prefix []byte, visit Visit) error {
	child := parent.Child()
	for child != 0 {
		rec, err := t.read(child)
		if err != nil {
			return err
		}

		childPrefix := append(append([]byte(nil), prefix...), rec.Char())

		if err := visit(Node{child}, childPrefix, rec); err != nil {
			return err
		}

		if err := t.walkChildren(child, rec, childPrefix, visit); err != nil {
			return err
		}

		child = rec.Next()
	}

	return nil
}

// PagesIter walks the trie, calling visit once for every node flagged
// is_page.
func (t *Trie) PagesIter(visit func(n Node, lru []byte) error) error {
	return t.Walk(func(n Node, lru []byte, rec trienode.Record) error {
		if !rec.HasFlag(trienode.FlagIsPage) {
			return nil
		}
		return visit(n, lru)
	})
}

// WebEntityPrefixIter walks the trie, calling visit once for every node
// flagged has_webentity, with its id and LRU prefix.
func (t *Trie) WebEntityPrefixIter(visit func(webEntityID uint32, lruPrefix []byte) error) error {
	return t.Walk(func(n Node, lru []byte, rec trienode.Record) error {
		if !rec.HasFlag(trienode.FlagHasWebEntity) {
			return nil
		}
		return visit(rec.WebEntityID(), lru)
	})
}
