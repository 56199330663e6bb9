// Package block implements the fixed-block, random-access storage
// primitive shared by the LRU trie and the link store. A Store never
// interprets the bytes it holds; callers address it exclusively by block
// index.
package block

import "errors"

// ErrCorrupt is returned when a file-backed Store is opened against a file
// whose size is not a whole multiple of its block size.
var ErrCorrupt = errors.New("block: store size is not a multiple of the block size")

// ErrBlockSize is returned when a caller passes a buffer whose length does
// not equal the Store's block size.
var ErrBlockSize = errors.New("block: buffer length does not match block size")

// ErrNoSuchBlock is returned by Write when asked to overwrite an index that
// has never been appended.
var ErrNoSuchBlock = errors.New("block: no such block")

// Sized is implemented by Store implementations that can report their
// current block count cheaply, for metrics purposes.
type Sized interface {
	Blocks() uint32
}

// Store is a fixed-size, block-addressed byte store. Block 0 is reserved by
// convention (see the trie and link-store packages for what each store
// keeps there); every other index is assigned by Append and never reused.
type Store interface {
	// Read returns the block at index, or ok == false if index is past the
	// end of the store.
	Read(index uint32) (data []byte, ok bool, err error)

	// Write overwrites the block at index in place. index must already
	// have been assigned by a prior Append.
	Write(data []byte, index uint32) error

	// Append adds data as a new block at the end of the store and returns
	// its index.
	Append(data []byte) (index uint32, err error)

	// BlockSize returns the fixed size, in bytes, of every block in the
	// store.
	BlockSize() int

	// Close releases any underlying resources.
	Close() error
}
