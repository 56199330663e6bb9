// Package traph wires an LRU trie and a link store together, evaluating
// webentity-creation rules as pages are indexed and reporting what each
// mutating operation did.
package traph

import "errors"

// ErrEmptyLRU is returned when an operation is given a zero-length LRU.
// An empty LRU has no path to walk, so it is rejected outright rather
// than silently mapped to the root.
var ErrEmptyLRU = errors.New("traph: LRU must not be empty")

// ErrStorageInconsistency is returned by New when exactly one of
// lru_trie.dat/link_store.dat exists in the given folder, whether or not
// WithOverwrite is set.
var ErrStorageInconsistency = errors.New("traph: exactly one of lru_trie.dat/link_store.dat exists")

// ErrFormatMismatch is returned by New when an existing link store's
// header format version does not match the version this build writes.
var ErrFormatMismatch = errors.New("traph: on-disk format version mismatch")

// ErrRuleNotFound is returned by RemoveWebEntityCreationRule when asked to
// remove a rule that was never installed.
var ErrRuleNotFound = errors.New("traph: no such webentity creation rule")

// ErrRuleRequiresTriePresence is returned by AddWebEntityCreationRule when
// writeInTrie is false and the rule's prefix is not already present in the
// trie.
var ErrRuleRequiresTriePresence = errors.New("traph: rule prefix is not present in the trie")

// ErrNotImplemented is returned by the declared-but-unimplemented
// crawler-facing query stubs; see DESIGN.md for the rationale.
var ErrNotImplemented = errors.New("traph: not implemented")
