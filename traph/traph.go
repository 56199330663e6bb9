package traph

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/webcrawl/traph/internal/block"
	"github.com/webcrawl/traph/internal/linknode"
	"github.com/webcrawl/traph/internal/linkstore"
	"github.com/webcrawl/traph/internal/lrutrie"
	"github.com/webcrawl/traph/internal/metrics"
	"github.com/webcrawl/traph/internal/trienode"
)

const (
	trieFileName = "lru_trie.dat"
	linkFileName = "link_store.dat"
)

// Traph is the coordinator wiring an LRU trie and a link store together,
// evaluating webentity-creation rules as pages are indexed.
type Traph struct {
	trieStore block.Store
	linkStore block.Store

	trie  *lrutrie.Trie
	links *linkstore.LinkStore

	defaultRule *regexp.Regexp
	rules       map[string]*regexp.Regexp // keyed by string(prefix)

	expand  ExpandPrefixFunc
	logger  zerolog.Logger
	metrics *metrics.Recorder
}

// New constructs a Traph from the options given. Without
// WithFolder both stores are memory-backed; with it, lru_trie.dat and
// link_store.dat are opened (and created if missing) under the folder,
// which is itself created if missing. Exactly one of the two files
// existing is a storage-inconsistency error.
func New(opts ...Option) (*Traph, error) {
	cfg := config{
		fs:     afero.NewOsFs(),
		expand: ExpandPrefixFunc(DefaultLRUVariations),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	trieStore, linkStore, err := openStores(cfg)
	if err != nil {
		return nil, err
	}

	trie, err := lrutrie.Open(trieStore)
	if err != nil {
		trieStore.Close()
		linkStore.Close()
		return nil, err
	}

	links, err := linkstore.Open(linkStore)
	if err != nil {
		trieStore.Close()
		linkStore.Close()
		if errors.Is(err, linkstore.ErrFormatMismatch) {
			return nil, fmt.Errorf("%w: %v", ErrFormatMismatch, err)
		}
		return nil, err
	}

	t := &Traph{
		trieStore: trieStore,
		linkStore: linkStore,
		trie:      trie,
		links:     links,
		rules:     make(map[string]*regexp.Regexp),
		expand:    cfg.expand,
		logger:    cfg.logger,
		metrics:   cfg.metrics,
	}

	if cfg.defaultRulePattern != "" {
		re, err := compileRule(cfg.defaultRulePattern)
		if err != nil {
			return nil, fmt.Errorf("traph: default creation rule: %w", err)
		}
		t.defaultRule = re
	}

	for prefix, pattern := range cfg.rules {
		if _, err := t.AddWebEntityCreationRule([]byte(prefix), pattern, true); err != nil {
			return nil, fmt.Errorf("traph: installing initial rule %q: %w", prefix, err)
		}
	}

	return t, nil
}

func openStores(cfg config) (trieStore, linkStore block.Store, err error) {
	if cfg.folder == "" {
		return block.NewMemStore(trienode.Size), block.NewMemStore(linknode.Size), nil
	}

	if err := cfg.fs.MkdirAll(cfg.folder, 0o755); err != nil {
		return nil, nil, fmt.Errorf("traph: creating folder %s: %w", cfg.folder, err)
	}

	trieExists, err := afero.Exists(cfg.fs, filepath.Join(cfg.folder, trieFileName))
	if err != nil {
		return nil, nil, err
	}
	linkExists, err := afero.Exists(cfg.fs, filepath.Join(cfg.folder, linkFileName))
	if err != nil {
		return nil, nil, err
	}

	if trieExists != linkExists {
		return nil, nil, ErrStorageInconsistency
	}

	ts, err := block.OpenFileStore(cfg.fs, filepath.Join(cfg.folder, trieFileName), trienode.Size, cfg.overwrite)
	if err != nil {
		return nil, nil, err
	}

	ls, err := block.OpenFileStore(cfg.fs, filepath.Join(cfg.folder, linkFileName), linknode.Size, cfg.overwrite)
	if err != nil {
		ts.Close()
		return nil, nil, err
	}

	return ts, ls, nil
}

// Close flushes and releases both underlying block stores.
func (t *Traph) Close() error {
	trieErr := t.trieStore.Close()
	linkErr := t.linkStore.Close()
	if trieErr != nil {
		return trieErr
	}
	return linkErr
}

func (t *Traph) recordBlockCounts() {
	if t.metrics == nil {
		return
	}

	var trieBlocks, linkBlocks uint32
	if sized, ok := t.trieStore.(block.Sized); ok {
		trieBlocks = sized.Blocks()
	}
	if sized, ok := t.linkStore.(block.Sized); ok {
		linkBlocks = sized.Blocks()
	}
	t.metrics.SetBlockCounts(int(trieBlocks), int(linkBlocks))
}
