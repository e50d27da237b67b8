package observability

import "sync/atomic"

// Metrics tracks pipeline counters for a single run. All methods are
// safe for concurrent use.
type Metrics struct {
	chunksProcessed atomic.Int64
	chunksFailed    atomic.Int64
	retries         atomic.Int64
	filteredFiles   atomic.Int64
	clientCalls     atomic.Int64
}

// NewMetrics creates a zeroed metrics set.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ChunkProcessed records a successfully summarized chunk.
func (m *Metrics) ChunkProcessed() { m.chunksProcessed.Add(1) }

// ChunkFailed records a chunk whose retries were exhausted.
func (m *Metrics) ChunkFailed() { m.chunksFailed.Add(1) }

// Retry records one retry attempt.
func (m *Metrics) Retry() { m.retries.Add(1) }

// FilesFiltered records files removed by the smart filter.
func (m *Metrics) FilesFiltered(n int) { m.filteredFiles.Add(int64(n)) }

// ClientCall records one text-generation call.
func (m *Metrics) ClientCall() { m.clientCalls.Add(1) }

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"chunks_processed": m.chunksProcessed.Load(),
		"chunks_failed":    m.chunksFailed.Load(),
		"retries":          m.retries.Load(),
		"filtered_files":   m.filteredFiles.Load(),
		"client_calls":     m.clientCalls.Load(),
	}
}
