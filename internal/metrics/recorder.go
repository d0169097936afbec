// Package metrics provides operation counters published to StatsD.
package metrics

import "time"

// Recorder receives operational events. Implementations must be safe for
// concurrent use.
type Recorder interface {
	RecordCacheHit(tier string, latency time.Duration)
	RecordCacheMiss(tier string, latency time.Duration)
	RecordPublish(exchange string)
	RecordWorkerOutcome(queue, outcome string)
}

// Noop discards all events.
type Noop struct{}

func (Noop) RecordCacheHit(string, time.Duration)  {}
func (Noop) RecordCacheMiss(string, time.Duration) {}
func (Noop) RecordPublish(string)                  {}
func (Noop) RecordWorkerOutcome(string, string)    {}

var _ Recorder = Noop{}
