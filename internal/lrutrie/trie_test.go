package lrutrie

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webcrawl/traph/internal/block"
	"github.com/webcrawl/traph/internal/trienode"
)

func newTestTrie(t *testing.T) *Trie {
	t.Helper()
	store := block.NewMemStore(trienode.Size)
	trie, err := Open(store)
	require.NoError(t, err)
	return trie
}

func TestOpen_RootAlwaysAtBlockOne(t *testing.T) {
	trie := newTestTrie(t)
	require.EqualValues(t, RootIndex, trie.Root().Index)
	require.EqualValues(t, 1, RootIndex)
}

func TestAddLRU_RejectsEmpty(t *testing.T) {
	trie := newTestTrie(t)

	_, _, err := trie.AddLRU(nil)
	require.ErrorIs(t, err, ErrEmptyLRU)
}

func TestAddLRU_WindupRoundTrip(t *testing.T) {
	trie := newTestTrie(t)

	lru := []byte("h:com.example|h:www|p:/path")
	node, _, err := trie.AddLRU(lru)
	require.NoError(t, err)

	got, err := trie.Windup(node)
	require.NoError(t, err)
	require.Equal(t, lru, got)
}

func TestAddLRU_SingleByteLRU(t *testing.T) {
	trie := newTestTrie(t)

	node, _, err := trie.AddLRU([]byte("x"))
	require.NoError(t, err)

	got, err := trie.Windup(node)
	require.NoError(t, err)
	require.Equal(t, []byte("x"), got)
}

func TestAddLRU_SharesPathForCommonPrefix(t *testing.T) {
	trie := newTestTrie(t)

	nodeA, _, err := trie.AddLRU([]byte("h:com.example|h:www|p:/a"))
	require.NoError(t, err)
	nodeB, _, err := trie.AddLRU([]byte("h:com.example|h:www|p:/b"))
	require.NoError(t, err)

	require.NotEqual(t, nodeA.Index, nodeB.Index)

	recA, err := trie.Record(nodeA)
	require.NoError(t, err)
	recB, err := trie.Record(nodeB)
	require.NoError(t, err)
	require.Equal(t, recA.Parent(), recB.Parent(), "siblings under the shared prefix share a parent")
}

func TestAddLRU_IsIdempotentOnIdenticalInsertion(t *testing.T) {
	trie := newTestTrie(t)

	lru := []byte("h:com.example|p:/")
	first, _, err := trie.AddLRU(lru)
	require.NoError(t, err)
	second, _, err := trie.AddLRU(lru)
	require.NoError(t, err)

	require.Equal(t, first.Index, second.Index)
}

func TestAddLRU_StrictPrefixGetsItsOwnNode(t *testing.T) {
	trie := newTestTrie(t)

	shorter, _, err := trie.AddLRU([]byte("h:com.example"))
	require.NoError(t, err)
	longer, _, err := trie.AddLRU([]byte("h:com.example|h:www"))
	require.NoError(t, err)

	require.NotEqual(t, shorter.Index, longer.Index)

	next, found, err := trie.Lookup([]byte("h:com.example|"))
	require.NoError(t, err)
	require.True(t, found)
	nextRec, err := trie.Record(next)
	require.NoError(t, err)
	require.Equal(t, shorter.Index, nextRec.Parent())
}

func TestAddLRU_SiblingScanFindsManyDistinctChildren(t *testing.T) {
	trie := newTestTrie(t)

	var nodes []Node
	for _, c := range []byte("abcxyz") {
		n, _, err := trie.AddLRU([]byte{'p', c})
		require.NoError(t, err)
		nodes = append(nodes, n)
	}

	for i, c := range []byte("abcxyz") {
		got, err := trie.Windup(nodes[i])
		require.NoError(t, err)
		require.Equal(t, []byte{'p', c}, got)
	}
}

func TestAddPage_FlagsIsPageOnceAndReportsCreationOnlyFirstTime(t *testing.T) {
	trie := newTestTrie(t)

	lru := []byte("h:com.example|p:/")

	_, history1, err := trie.AddPage(lru)
	require.NoError(t, err)
	require.True(t, history1.PageWasCreated)

	_, history2, err := trie.AddPage(lru)
	require.NoError(t, err)
	require.False(t, history2.PageWasCreated)
}

func TestWalkHistory_ObservesNearestAncestorWebEntity(t *testing.T) {
	trie := newTestTrie(t)

	ancestor, _, err := trie.AddLRU([]byte("h:com.example"))
	require.NoError(t, err)
	rec, err := trie.Record(ancestor)
	require.NoError(t, err)
	rec.SetFlag(trienode.FlagHasWebEntity)
	rec.SetWebEntityID(7)
	require.NoError(t, trie.SetRecord(ancestor, rec))

	_, history, err := trie.AddLRU([]byte("h:com.example|h:www|p:/deep"))
	require.NoError(t, err)

	require.True(t, history.HasWebEntity)
	require.EqualValues(t, 7, history.WebEntityID)
	require.Equal(t, []byte("h:com.example"), history.WebEntityLRUPrefix)
}

func TestWalkHistory_DeeperWebEntityWinsOverShallower(t *testing.T) {
	trie := newTestTrie(t)

	shallow, _, err := trie.AddLRU([]byte("h:com.example"))
	require.NoError(t, err)
	rec, err := trie.Record(shallow)
	require.NoError(t, err)
	rec.SetFlag(trienode.FlagHasWebEntity)
	rec.SetWebEntityID(1)
	require.NoError(t, trie.SetRecord(shallow, rec))

	deep, _, err := trie.AddLRU([]byte("h:com.example|h:www"))
	require.NoError(t, err)
	rec, err = trie.Record(deep)
	require.NoError(t, err)
	rec.SetFlag(trienode.FlagHasWebEntity)
	rec.SetWebEntityID(2)
	require.NoError(t, trie.SetRecord(deep, rec))

	_, history, err := trie.AddLRU([]byte("h:com.example|h:www|p:/x"))
	require.NoError(t, err)

	require.EqualValues(t, 2, history.WebEntityID)
}

func TestWalkHistory_RulesAccumulateInRootToLeafOrder(t *testing.T) {
	trie := newTestTrie(t)

	outer, _, err := trie.AddLRU([]byte("h:com.example"))
	require.NoError(t, err)
	rec, err := trie.Record(outer)
	require.NoError(t, err)
	rec.SetFlag(trienode.FlagIsCreationRule)
	require.NoError(t, trie.SetRecord(outer, rec))

	inner, _, err := trie.AddLRU([]byte("h:com.example|h:www"))
	require.NoError(t, err)
	rec, err = trie.Record(inner)
	require.NoError(t, err)
	rec.SetFlag(trienode.FlagIsCreationRule)
	require.NoError(t, trie.SetRecord(inner, rec))

	_, history, err := trie.AddLRU([]byte("h:com.example|h:www|p:/x"))
	require.NoError(t, err)

	require.Len(t, history.RulesToApply, 2)
	require.Equal(t, []byte("h:com.example"), history.RulesToApply[0])
	require.Equal(t, []byte("h:com.example|h:www"), history.RulesToApply[1])
}

func TestLookup_MissingPathReturnsFalse(t *testing.T) {
	trie := newTestTrie(t)
	_, _, err := trie.AddLRU([]byte("h:com.example"))
	require.NoError(t, err)

	_, found, err := trie.Lookup([]byte("h:com.other"))
	require.NoError(t, err)
	require.False(t, found)
}

func TestLookup_RejectsEmpty(t *testing.T) {
	trie := newTestTrie(t)
	_, _, err := trie.Lookup(nil)
	require.ErrorIs(t, err, ErrEmptyLRU)
}

func TestOpen_RejectsMismatchedBlockSize(t *testing.T) {
	store := block.NewMemStore(trienode.Size + 1)
	_, err := Open(store)
	require.Error(t, err)
}
