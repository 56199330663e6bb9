package traph

import (
	"errors"
	"fmt"

	"github.com/webcrawl/traph/internal/lrutrie"
)

// AddPage inserts lru into the trie, then runs webentity-creation-rule
// resolution against the resulting walk history.
func (t *Traph) AddPage(lru []byte) (WriteReport, error) {
	report := WriteReport{}

	if len(lru) == 0 {
		return report, ErrEmptyLRU
	}

	_, history, err := t.trie.AddPage(lru)
	if err != nil {
		if errors.Is(err, lrutrie.ErrEmptyLRU) {
			return report, ErrEmptyLRU
		}
		return report, err
	}

	if history.PageWasCreated {
		report.PagesCreated = 1
	}
	t.metrics.ObservePages(report.PagesCreated)

	if err := t.links.IncrementPageCount(uint64(report.PagesCreated)); err != nil {
		return report, err
	}

	ruleReport, err := t.resolveCreationRules(lru, history)
	if err != nil {
		return report, err
	}
	report.Merge(ruleReport)

	t.recordBlockCounts()
	t.logger.Debug().Str("lru", string(lru)).Bool("created", history.PageWasCreated).Msg("indexed page")

	return report, nil
}

// LinkPair is one (source, target) edge submitted to AddLinks.
type LinkPair struct {
	Source []byte
	Target []byte
}

// AddLinks ingests a batch of (source, target) LRU pairs. Each distinct
// LRU in the batch has AddPage invoked at most once; outlinks and inlinks
// are built as per-endpoint multimaps and flushed to the link store one
// call per endpoint, coalescing duplicate edges within the batch into a
// single weighted record each.
func (t *Traph) AddLinks(pairs []LinkPair) (WriteReport, error) {
	report := WriteReport{}

	pageCache := make(map[string]lrutrie.Node, len(pairs)*2)

	outTargets := make(map[uint32][]uint32)
	inSources := make(map[uint32][]uint32)
	var sourceOrder, targetOrder []uint32

	for _, pair := range pairs {
		source, err := t.addPageCached(pair.Source, pageCache, &report)
		if err != nil {
			return report, err
		}
		target, err := t.addPageCached(pair.Target, pageCache, &report)
		if err != nil {
			return report, err
		}

		if _, seen := outTargets[source.Index]; !seen {
			sourceOrder = append(sourceOrder, source.Index)
		}
		outTargets[source.Index] = append(outTargets[source.Index], target.Index)

		if _, seen := inSources[target.Index]; !seen {
			targetOrder = append(targetOrder, target.Index)
		}
		inSources[target.Index] = append(inSources[target.Index], source.Index)
	}

	for _, sourceIndex := range sourceOrder {
		created, err := t.flushOutlinks(sourceIndex, outTargets[sourceIndex])
		if err != nil {
			return report, err
		}
		report.LinkRecordsCreated += created
	}

	for _, targetIndex := range targetOrder {
		created, err := t.flushInlinks(targetIndex, inSources[targetIndex])
		if err != nil {
			return report, err
		}
		report.LinkRecordsCreated += created
	}

	t.metrics.ObserveLinkRecords(report.LinkRecordsCreated)
	t.recordBlockCounts()

	return report, nil
}

// addPageCached runs AddPage for lru at most once per call to AddLinks,
// merging its report into report and returning the resulting trie node.
func (t *Traph) addPageCached(lru []byte, cache map[string]lrutrie.Node, report *WriteReport) (lrutrie.Node, error) {
	key := string(lru)
	if node, ok := cache[key]; ok {
		return node, nil
	}

	pageReport, err := t.AddPage(lru)
	if err != nil {
		return lrutrie.Node{}, err
	}
	report.Merge(pageReport)

	node, found, err := t.trie.Lookup(lru)
	if err != nil {
		return lrutrie.Node{}, err
	}
	if !found {
		return lrutrie.Node{}, fmt.Errorf("traph: page %q not found immediately after insertion", lru)
	}

	cache[key] = node
	return node, nil
}

func (t *Traph) flushOutlinks(sourceIndex uint32, targets []uint32) (int, error) {
	node := lrutrie.Node{Index: sourceIndex}
	rec, err := t.trie.Record(node)
	if err != nil {
		return 0, err
	}

	newHead, created, err := t.links.AddOutlinks(rec.OutlinksHead(), targets)
	if err != nil {
		return 0, err
	}

	rec.SetOutlinksHead(newHead)
	if err := t.trie.SetRecord(node, rec); err != nil {
		return 0, err
	}

	return created, nil
}

func (t *Traph) flushInlinks(targetIndex uint32, sources []uint32) (int, error) {
	node := lrutrie.Node{Index: targetIndex}
	rec, err := t.trie.Record(node)
	if err != nil {
		return 0, err
	}

	newHead, created, err := t.links.AddInlinks(rec.InlinksHead(), sources)
	if err != nil {
		return 0, err
	}

	rec.SetInlinksHead(newHead)
	if err := t.trie.SetRecord(node, rec); err != nil {
		return 0, err
	}

	return created, nil
}
