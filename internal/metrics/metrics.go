// Package metrics wires the Traph coordinator's write reports into
// Prometheus counters, in the idiom the retrieval pack's vector-store and
// orchestrator examples use for storage-engine instrumentation.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder holds the Prometheus counters for one Traph instance. A nil
// *Recorder is valid and every method on it is a no-op, so callers that
// do not pass traph.WithMetrics pay nothing.
type Recorder struct {
	pagesCreated       prometheus.Counter
	linkRecordsCreated prometheus.Counter
	webEntitiesCreated prometheus.Counter
	trieBlocks         prometheus.Gauge
	linkBlocks         prometheus.Gauge
}

// New registers and returns a Recorder on reg. Pass prometheus.NewRegistry()
// for an isolated registry (as in tests) or prometheus.DefaultRegisterer
// for a process-wide one.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		pagesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "traph",
			Name:      "pages_created_total",
			Help:      "Number of pages newly flagged is_page.",
		}),
		linkRecordsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "traph",
			Name:      "link_records_created_total",
			Help:      "Number of link-store records appended.",
		}),
		webEntitiesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "traph",
			Name:      "webentities_created_total",
			Help:      "Number of webentities synthesized by creation-rule resolution.",
		}),
		trieBlocks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "traph",
			Name:      "trie_blocks",
			Help:      "Number of blocks currently allocated in the LRU trie store.",
		}),
		linkBlocks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "traph",
			Name:      "link_store_blocks",
			Help:      "Number of blocks currently allocated in the link store.",
		}),
	}

	reg.MustRegister(r.pagesCreated, r.linkRecordsCreated, r.webEntitiesCreated, r.trieBlocks, r.linkBlocks)

	return r
}

func (r *Recorder) ObservePages(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.pagesCreated.Add(float64(n))
}

func (r *Recorder) ObserveLinkRecords(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.linkRecordsCreated.Add(float64(n))
}

func (r *Recorder) ObserveWebEntities(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.webEntitiesCreated.Add(float64(n))
}

// SetBlockCounts updates the store-size gauges; called after each
// mutating operation with the current block counts of each store.
func (r *Recorder) SetBlockCounts(trieBlocks, linkBlocks int) {
	if r == nil {
		return
	}
	r.trieBlocks.Set(float64(trieBlocks))
	r.linkBlocks.Set(float64(linkBlocks))
}
