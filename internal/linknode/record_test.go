package linknode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecord_FieldRoundTrip(t *testing.T) {
	r := New(5)
	r.SetNext(9)
	r.SetWeight(3)
	r.SetFlags(0x2)

	decoded := Decode(r.Bytes())

	require.EqualValues(t, 5, decoded.Target())
	require.EqualValues(t, 9, decoded.Next())
	require.EqualValues(t, 3, decoded.Weight())
	require.EqualValues(t, 0x2, decoded.Flags())
}

func TestNew_DefaultsToWeightOne(t *testing.T) {
	r := New(5)
	require.EqualValues(t, 1, r.Weight())
	require.EqualValues(t, 0, r.Next())
}

func TestHeader_RoundTrip(t *testing.T) {
	h := NewHeader()
	h.SetLastWebEntityID(42)
	h.SetPageCount(100)
	h.SetLinkRecordCount(250)

	decoded := DecodeHeader(h.Bytes())

	require.Equal(t, byte(FormatVersion), decoded.FormatVersion())
	require.EqualValues(t, 42, decoded.LastWebEntityID())
	require.EqualValues(t, 100, decoded.PageCount())
	require.EqualValues(t, 250, decoded.LinkRecordCount())
}
