package trienode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecord_FieldRoundTrip(t *testing.T) {
	r := New('h', 7)
	r.SetNext(11)
	r.SetChild(22)
	r.SetOutlinksHead(33)
	r.SetInlinksHead(44)
	r.SetFlag(FlagIsPage)
	r.SetWebEntityID(99)

	decoded := Decode(r.Bytes())

	require.Equal(t, byte('h'), decoded.Char())
	require.EqualValues(t, 7, decoded.Parent())
	require.EqualValues(t, 11, decoded.Next())
	require.EqualValues(t, 22, decoded.Child())
	require.EqualValues(t, 33, decoded.OutlinksHead())
	require.EqualValues(t, 44, decoded.InlinksHead())
	require.True(t, decoded.HasFlag(FlagIsPage))
	require.False(t, decoded.HasFlag(FlagHasWebEntity))
	require.EqualValues(t, 99, decoded.WebEntityID())
}

func TestRecord_ClearFlagLeavesOthersIntact(t *testing.T) {
	var r Record
	r.SetFlag(FlagIsPage)
	r.SetFlag(FlagHasWebEntity)

	r.ClearFlag(FlagIsPage)

	require.False(t, r.HasFlag(FlagIsPage))
	require.True(t, r.HasFlag(FlagHasWebEntity))
}

func TestRecord_ZeroValueIsEmpty(t *testing.T) {
	var r Record
	require.True(t, r.IsEmpty())

	r.SetChar('a')
	require.False(t, r.IsEmpty())
}

func TestDecode_PanicsOnWrongSize(t *testing.T) {
	require.Panics(t, func() {
		Decode([]byte{1, 2, 3})
	})
}
