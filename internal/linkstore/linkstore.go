// Package linkstore implements the append-only, block-addressed
// adjacency-list store: per-page outlink and inlink lists rooted at trie
// nodes, plus a header block carrying the format version, a monotonic
// webentity-id counter, and running page/link counts.
package linkstore

import (
	"fmt"

	"github.com/webcrawl/traph/internal/block"
	"github.com/webcrawl/traph/internal/linknode"
)

// HeaderIndex is the fixed block index of the link-store header.
const HeaderIndex uint32 = 0

// LinkStore owns a block.Store whose block size is linknode.Size.
type LinkStore struct {
	store block.Store
}

// Open wraps an existing block.Store as a LinkStore, writing a fresh
// header if the store is brand new. If the store already has a header, its
// format version must match linknode.FormatVersion.
func Open(store block.Store) (*LinkStore, error) {
	if store.BlockSize() != linknode.Size {
		return nil, fmt.Errorf("linkstore: store block size %d does not match linknode.Size %d", store.BlockSize(), linknode.Size)
	}

	ls := &LinkStore{store: store}

	data, ok, err := store.Read(HeaderIndex)
	if err != nil {
		return nil, err
	}

	if !ok {
		header := linknode.NewHeader()
		index, err := store.Append(header.Bytes())
		if err != nil {
			return nil, err
		}
		if index != HeaderIndex {
			return nil, fmt.Errorf("linkstore: expected header at block %d, got %d", HeaderIndex, index)
		}
		return ls, nil
	}

	header := linknode.DecodeHeader(data)
	if header.FormatVersion() != linknode.FormatVersion {
		return nil, fmt.Errorf("linkstore: %w: file format version %d, expected %d", ErrFormatMismatch, header.FormatVersion(), linknode.FormatVersion)
	}

	return ls, nil
}

func (ls *LinkStore) header() (linknode.Header, error) {
	data, ok, err := ls.store.Read(HeaderIndex)
	if err != nil {
		return linknode.Header{}, err
	}
	if !ok {
		return linknode.Header{}, fmt.Errorf("linkstore: missing header block")
	}
	return linknode.DecodeHeader(data), nil
}

func (ls *LinkStore) writeHeader(h linknode.Header) error {
	return ls.store.Write(h.Bytes(), HeaderIndex)
}

// AllocateWebEntityID returns the next monotonic webentity id, persisting
// the new counter value immediately.
func (ls *LinkStore) AllocateWebEntityID() (uint32, error) {
	h, err := ls.header()
	if err != nil {
		return 0, err
	}

	id := h.LastWebEntityID() + 1
	h.SetLastWebEntityID(id)
	if err := ls.writeHeader(h); err != nil {
		return 0, err
	}

	return id, nil
}

// PageCount returns the running count of pages created, as tracked in the
// header.
func (ls *LinkStore) PageCount() (uint64, error) {
	h, err := ls.header()
	if err != nil {
		return 0, err
	}
	return h.PageCount(), nil
}

// IncrementPageCount bumps the header's page counter by delta.
func (ls *LinkStore) IncrementPageCount(delta uint64) error {
	h, err := ls.header()
	if err != nil {
		return err
	}
	h.SetPageCount(h.PageCount() + delta)
	return ls.writeHeader(h)
}

// LinkRecordCount returns the running count of link records created.
func (ls *LinkStore) LinkRecordCount() (uint64, error) {
	h, err := ls.header()
	if err != nil {
		return 0, err
	}
	return h.LinkRecordCount(), nil
}

func (ls *LinkStore) incrementLinkRecordCount(delta uint64) error {
	h, err := ls.header()
	if err != nil {
		return err
	}
	h.SetLinkRecordCount(h.LinkRecordCount() + delta)
	return ls.writeHeader(h)
}

func (ls *LinkStore) read(index uint32) (linknode.Record, error) {
	data, ok, err := ls.store.Read(index)
	if err != nil {
		return linknode.Record{}, err
	}
	if !ok {
		return linknode.Record{}, fmt.Errorf("linkstore: no such block %d", index)
	}
	return linknode.Decode(data), nil
}

// addLinks coalesces duplicate targets within this call into a single
// weighted record each, appends one link-store record per distinct
// target, and links them into the list rooted at head, returning the new
// head and the number of new records created.
func (ls *LinkStore) addLinks(head uint32, targets []uint32) (uint32, int, error) {
	if len(targets) == 0 {
		return head, 0, nil
	}

	weights := make(map[uint32]uint32, len(targets))
	order := make([]uint32, 0, len(targets))
	for _, target := range targets {
		if _, seen := weights[target]; !seen {
			order = append(order, target)
		}
		weights[target]++
	}

	created := 0
	for _, target := range order {
		rec := linknode.New(target)
		rec.SetWeight(weights[target])
		rec.SetNext(head)

		index, err := ls.store.Append(rec.Bytes())
		if err != nil {
			return 0, 0, err
		}

		head = index
		created++
	}

	if err := ls.incrementLinkRecordCount(uint64(created)); err != nil {
		return 0, 0, err
	}

	return head, created, nil
}

// AddOutlinks appends outlink records for each target in targets onto the
// list rooted at sourceHead, returning the new list head and the count of
// new records created.
func (ls *LinkStore) AddOutlinks(sourceHead uint32, targets []uint32) (newHead uint32, created int, err error) {
	return ls.addLinks(sourceHead, targets)
}

// AddInlinks appends inlink records for each source in sources onto the
// list rooted at targetHead, returning the new list head and the count of
// new records created.
func (ls *LinkStore) AddInlinks(targetHead uint32, sources []uint32) (newHead uint32, created int, err error) {
	return ls.addLinks(targetHead, sources)
}

// LinkEntry is one resolved entry yielded by LinkNodesIter.
type LinkEntry struct {
	Target uint32
	Weight uint32
}

// LinkNodesIter walks the list of link-store blocks rooted at head,
// calling visit for each until next == 0.
func (ls *LinkStore) LinkNodesIter(head uint32, visit func(LinkEntry) error) error {
	index := head
	for index != 0 {
		rec, err := ls.read(index)
		if err != nil {
			return err
		}

		if err := visit(LinkEntry{Target: rec.Target(), Weight: rec.Weight()}); err != nil {
			return err
		}

		index = rec.Next()
	}
	return nil
}
