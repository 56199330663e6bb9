// Package linknode defines the packed, fixed-width on-disk records used by
// the link store: the per-edge node record and the store's header record.
// Both are exactly Size bytes so they can share one block size; the
// webentity-id counter lives in this header rather than the trie store's,
// since link-store writes are already on the hot path for every edge.
package linknode

import "encoding/binary"

// Size is the fixed size, in bytes, of both a packed Record and the
// packed Header.
const Size = 24

// FormatVersion is the current link-store on-disk format version. Opening
// a store whose header carries a different version is a format mismatch.
const FormatVersion = 1

// Record is a packed link-store node: a single outlink or inlink entry.
type Record [Size]byte

// Decode unpacks a Size-byte block into a Record.
func Decode(b []byte) Record {
	if len(b) != Size {
		panic("linknode: block is not Size bytes long")
	}

	var r Record
	copy(r[:], b)
	return r
}

func (r Record) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, r[:])
	return out
}

func (r Record) Target() uint32 { return binary.LittleEndian.Uint32(r[0:4]) }

func (r *Record) SetTarget(index uint32) { binary.LittleEndian.PutUint32(r[0:4], index) }

func (r Record) Next() uint32 { return binary.LittleEndian.Uint32(r[4:8]) }

func (r *Record) SetNext(index uint32) { binary.LittleEndian.PutUint32(r[4:8], index) }

func (r Record) Weight() uint32 { return binary.LittleEndian.Uint32(r[8:12]) }

func (r *Record) SetWeight(w uint32) { binary.LittleEndian.PutUint32(r[8:12], w) }

func (r Record) Flags() byte { return r[12] }

func (r *Record) SetFlags(flags byte) { r[12] = flags }

// New returns a fresh link Record pointing at target with weight 1 and no
// successor.
func New(target uint32) Record {
	var r Record
	r.SetTarget(target)
	r.SetWeight(1)
	return r
}

// Header is the packed link-store header occupying block 0.
type Header [Size]byte

// DecodeHeader unpacks a Size-byte block into a Header.
func DecodeHeader(b []byte) Header {
	if len(b) != Size {
		panic("linknode: block is not Size bytes long")
	}

	var h Header
	copy(h[:], b)
	return h
}

func (h Header) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, h[:])
	return out
}

func (h Header) FormatVersion() byte { return h[0] }

func (h *Header) SetFormatVersion(v byte) { h[0] = v }

func (h Header) LastWebEntityID() uint32 { return binary.LittleEndian.Uint32(h[4:8]) }

func (h *Header) SetLastWebEntityID(id uint32) { binary.LittleEndian.PutUint32(h[4:8], id) }

func (h Header) PageCount() uint64 { return binary.LittleEndian.Uint64(h[8:16]) }

func (h *Header) SetPageCount(n uint64) { binary.LittleEndian.PutUint64(h[8:16], n) }

func (h Header) LinkRecordCount() uint64 { return binary.LittleEndian.Uint64(h[16:24]) }

func (h *Header) SetLinkRecordCount(n uint64) { binary.LittleEndian.PutUint64(h[16:24], n) }

// NewHeader returns a freshly initialized Header at the current format
// version, zero counters, zero last-allocated webentity id.
func NewHeader() Header {
	var h Header
	h.SetFormatVersion(FormatVersion)
	return h
}
