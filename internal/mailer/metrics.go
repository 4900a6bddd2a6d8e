package mailer

import "sync/atomic"

// Metrics is the process-wide counter set for the delivery queue. Counters
// only grow; a fresh process starts at zero.
type Metrics struct {
	queued     atomic.Int64
	sent       atomic.Int64
	failed     atomic.Int64
	retries    atomic.Int64
	deadLetter atomic.Int64
}

func NewMetrics() *Metrics { return &Metrics{} }

// MetricsSnapshot is the read-only view exposed at the boundary.
type MetricsSnapshot struct {
	Queued     int64 `json:"queued"`
	Sent       int64 `json:"sent"`
	Failed     int64 `json:"failed"`
	Retries    int64 `json:"retries"`
	DeadLetter int64 `json:"deadLetter"`
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Queued:     m.queued.Load(),
		Sent:       m.sent.Load(),
		Failed:     m.failed.Load(),
		Retries:    m.retries.Load(),
		DeadLetter: m.deadLetter.Load(),
	}
}
