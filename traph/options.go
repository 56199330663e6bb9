package traph

import (
	"regexp"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/webcrawl/traph/internal/metrics"
)

type config struct {
	folder            string
	overwrite         bool
	fs                afero.Fs
	defaultRulePattern string
	rules             map[string]string
	expand            ExpandPrefixFunc
	logger            zerolog.Logger
	metrics           *metrics.Recorder
}

// Option configures a Traph at construction time.
type Option func(*config)

// WithFolder points the Traph at a folder holding (or to hold)
// lru_trie.dat and link_store.dat. Without this option both stores are
// memory-backed.
func WithFolder(folder string) Option {
	return func(c *config) { c.folder = folder }
}

// WithOverwrite truncates both on-disk files at open, if present. It has
// no effect without WithFolder.
func WithOverwrite(overwrite bool) Option {
	return func(c *config) { c.overwrite = overwrite }
}

// WithFilesystem overrides the afero.Fs used for the file-backed stores.
// It defaults to afero.NewOsFs(); tests use afero.NewMemMapFs() to
// exercise the file-backed code path without touching disk.
func WithFilesystem(fs afero.Fs) Option {
	return func(c *config) { c.fs = fs }
}

// WithDefaultCreationRule sets the default webentity-creation rule
// pattern, applied to the full LRU when no installed rule matched.
func WithDefaultCreationRule(pattern string) Option {
	return func(c *config) { c.defaultRulePattern = pattern }
}

// WithCreationRules installs an initial set of rules, keyed by LRU prefix
// with a regular expression pattern value.
func WithCreationRules(rules map[string]string) Option {
	return func(c *config) {
		c.rules = make(map[string]string, len(rules))
		for prefix, pattern := range rules {
			c.rules[prefix] = pattern
		}
	}
}

// ExpandPrefixFunc computes the set of LRU variations that must all share
// a webentity id for a given candidate prefix. See DefaultLRUVariations.
type ExpandPrefixFunc func(prefix []byte) [][]byte

// WithExpandPrefixFunc overrides the LRU-variation policy. The default,
// DefaultLRUVariations, is a minimal stand-in for the real
// URL-normalization policy, which is left external to the core.
func WithExpandPrefixFunc(fn ExpandPrefixFunc) Option {
	return func(c *config) { c.expand = fn }
}

// WithLogger sets the zerolog.Logger the Traph logs structural writes and
// webentity creation through. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithMetrics attaches a Prometheus recorder. Nil-safe: without this
// option no metrics are recorded.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(c *config) { c.metrics = recorder }
}

// DefaultLRUVariations is the default ExpandPrefixFunc. It is a minimal,
// documented stand-in for the real URL-normalization variation policy: it
// returns prefix unchanged, plus — when prefix does not already end on a
// component boundary (a trailing '|') — a second variation with a
// trailing '|' appended, so that "…|h:example" and "…|h:example|" are
// treated as the same webentity prefix set.
func DefaultLRUVariations(prefix []byte) [][]byte {
	variations := [][]byte{append([]byte(nil), prefix...)}

	if len(prefix) == 0 || prefix[len(prefix)-1] != '|' {
		withSlash := make([]byte, len(prefix)+1)
		copy(withSlash, prefix)
		withSlash[len(prefix)] = '|'
		variations = append(variations, withSlash)
	}

	return variations
}

func compileRule(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(pattern)
}
