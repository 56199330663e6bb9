package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObservePagesIncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.ObservePages(3)
	r.ObservePages(0) // no-op

	require.InDelta(t, 3, testutil.ToFloat64(r.pagesCreated), 0)
}

func TestRecorder_SetBlockCountsUpdatesGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.SetBlockCounts(10, 20)

	require.InDelta(t, 10, testutil.ToFloat64(r.trieBlocks), 0)
	require.InDelta(t, 20, testutil.ToFloat64(r.linkBlocks), 0)
}

func TestRecorder_NilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.ObservePages(5)
	r.ObserveLinkRecords(5)
	r.ObserveWebEntities(5)
	r.SetBlockCounts(1, 1)
}
