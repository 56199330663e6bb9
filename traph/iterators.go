package traph

import (
	"github.com/webcrawl/traph/internal/linkstore"
	"github.com/webcrawl/traph/internal/lrutrie"
)

// PagesIter calls visit once for every page's LRU.
func (t *Traph) PagesIter(visit func(lru []byte) error) error {
	return t.trie.PagesIter(func(_ lrutrie.Node, lru []byte) error {
		return visit(lru)
	})
}

// WebEntityPrefixIter calls visit once for every (webentity id, LRU
// prefix) pair marked in the trie.
func (t *Traph) WebEntityPrefixIter(visit func(webEntityID uint32, lruPrefix []byte) error) error {
	return t.trie.WebEntityPrefixIter(visit)
}

// Link is one resolved (source, target) edge yielded by LinksIter.
type Link struct {
	Source []byte
	Target []byte
	Weight uint32
}

// LinksIter calls visit once for every outlink edge in the graph,
// resolving both endpoints back to their LRUs.
func (t *Traph) LinksIter(visit func(Link) error) error {
	return t.trie.PagesIter(func(n lrutrie.Node, lru []byte) error {
		rec, err := t.trie.Record(n)
		if err != nil {
			return err
		}

		return t.links.LinkNodesIter(rec.OutlinksHead(), func(entry linkstore.LinkEntry) error {
			targetLRU, err := t.trie.Windup(lrutrie.Node{Index: entry.Target})
			if err != nil {
				return err
			}
			return visit(Link{Source: lru, Target: targetLRU, Weight: entry.Weight})
		})
	})
}
