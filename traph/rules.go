package traph

import (
	"fmt"

	"github.com/webcrawl/traph/internal/lrutrie"
	"github.com/webcrawl/traph/internal/trienode"
)

// AddWebEntityCreationRule installs a webentity-creation rule at
// rulePrefix with the given regular-expression pattern.
//
// If writeInTrie is true, rulePrefix is inserted into the trie if absent,
// flagged is_webentity_creation_rule, and every is_page descendant of the
// rule's subtree has add_page replayed on it (via its full LRU, from the
// root) so that any webentity the new rule now creates is synthesized
// immediately.
//
// If writeInTrie is false, rulePrefix must already be present in the trie
// (ErrRuleRequiresTriePresence otherwise); the node is flagged but no
// retroactive replay runs, so the rule only takes effect for pages
// inserted from this point on.
func (t *Traph) AddWebEntityCreationRule(rulePrefix []byte, pattern string, writeInTrie bool) (WriteReport, error) {
	report := WriteReport{}

	re, err := compileRule(pattern)
	if err != nil {
		return report, fmt.Errorf("traph: compiling rule pattern %q: %w", pattern, err)
	}

	var node lrutrie.Node

	if writeInTrie {
		n, _, err := t.trie.AddLRU(rulePrefix)
		if err != nil {
			return report, err
		}
		node = n
	} else {
		n, found, err := t.trie.Lookup(rulePrefix)
		if err != nil {
			return report, err
		}
		if !found {
			return report, ErrRuleRequiresTriePresence
		}
		node = n
	}

	rec, err := t.trie.Record(node)
	if err != nil {
		return report, err
	}

	alreadyFlagged := rec.HasFlag(trienode.FlagIsCreationRule)
	if !alreadyFlagged {
		rec.SetFlag(trienode.FlagIsCreationRule)
		if err := t.trie.SetRecord(node, rec); err != nil {
			return report, err
		}
	}

	t.rules[string(rulePrefix)] = re

	if writeInTrie {
		var pages [][]byte
		err := t.trie.WalkFrom(node, rulePrefix, func(n lrutrie.Node, lru []byte, r trienode.Record) error {
			if r.HasFlag(trienode.FlagIsPage) {
				pages = append(pages, append([]byte(nil), lru...))
			}
			return nil
		})
		if err != nil {
			return report, err
		}

		for _, lru := range pages {
			pageReport, err := t.AddPage(lru)
			if err != nil {
				return report, err
			}
			report.Merge(pageReport)
		}
	}

	t.logger.Info().Str("prefix", string(rulePrefix)).Bool("write_in_trie", writeInTrie).Msg("installed webentity creation rule")

	return report, nil
}

// RemoveWebEntityCreationRule unflags the rule node. It does not
// retroactively destroy webentities the rule previously created.
func (t *Traph) RemoveWebEntityCreationRule(rulePrefix []byte) error {
	key := string(rulePrefix)
	if _, ok := t.rules[key]; !ok {
		return ErrRuleNotFound
	}

	node, found, err := t.trie.Lookup(rulePrefix)
	if err != nil {
		return err
	}
	if !found {
		return ErrRuleNotFound
	}

	rec, err := t.trie.Record(node)
	if err != nil {
		return err
	}

	rec.ClearFlag(trienode.FlagIsCreationRule)
	if err := t.trie.SetRecord(node, rec); err != nil {
		return err
	}

	delete(t.rules, key)

	t.logger.Info().Str("prefix", key).Msg("removed webentity creation rule")

	return nil
}

// ExpandPrefix delegates to the configured ExpandPrefixFunc.
func (t *Traph) ExpandPrefix(prefix []byte) [][]byte {
	return t.expand(prefix)
}

// resolveCreationRules selects the longest candidate prefix among the
// rules observed on the walk (falling back to the default rule), and
// synthesizes a new webentity unless an existing ancestor webentity
// already covers it.
func (t *Traph) resolveCreationRules(lru []byte, history lrutrie.WalkHistory) (WriteReport, error) {
	report := WriteReport{}

	candidate := t.selectCandidate(lru, history.RulesToApply)
	if candidate == nil {
		return report, nil
	}

	existingPosition := -1
	if history.HasWebEntity {
		existingPosition = history.WebEntityPosition
	}

	if len(candidate) <= existingPosition+1 {
		return report, nil
	}

	variations := t.ExpandPrefix(candidate)
	if len(variations) == 0 {
		return report, nil
	}

	id, err := t.links.AllocateWebEntityID()
	if err != nil {
		return report, err
	}

	created := make([][]byte, 0, len(variations))
	for _, variation := range variations {
		node, _, err := t.trie.AddLRU(variation)
		if err != nil {
			return report, err
		}

		rec, err := t.trie.Record(node)
		if err != nil {
			return report, err
		}

		rec.SetFlag(trienode.FlagHasWebEntity)
		rec.SetWebEntityID(id)
		if err := t.trie.SetRecord(node, rec); err != nil {
			return report, err
		}

		created = append(created, append([]byte(nil), variation...))
	}

	report.addWebEntity(id, created)
	t.metrics.ObserveWebEntities(1)
	t.logger.Info().Uint32("webentity_id", id).Int("prefixes", len(created)).Msg("created webentity")

	return report, nil
}

// selectCandidate applies every rule observed along the walk (in
// root-to-leaf order) to the full lru, plus the default rule if none
// matched, and returns the longest resulting match, or nil if nothing
// matched.
func (t *Traph) selectCandidate(lru []byte, rulePrefixes [][]byte) []byte {
	var best []byte

	for _, prefix := range rulePrefixes {
		re, ok := t.rules[string(prefix)]
		if !ok {
			continue
		}

		loc := re.FindIndex(lru)
		if loc == nil {
			continue
		}

		candidate := lru[loc[0]:loc[1]]
		if len(candidate) > len(best) {
			best = candidate
		}
	}

	if best != nil {
		return best
	}

	if t.defaultRule == nil {
		return nil
	}

	loc := t.defaultRule.FindIndex(lru)
	if loc == nil {
		return nil
	}

	return lru[loc[0]:loc[1]]
}
