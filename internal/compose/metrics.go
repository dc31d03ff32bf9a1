package compose

import (
	"io"
	"time"

	"github.com/rcrowley/go-metrics"
)

// stats holds the coordinator's instruments.
type stats struct {
	registry  metrics.Registry
	resolved  metrics.Counter
	cacheHits metrics.Counter
	released  metrics.Counter
	revived   metrics.Counter
	rejected  metrics.Counter
	resolve   metrics.Timer
}

func newStats(r metrics.Registry) *stats {
	if r == nil {
		r = metrics.NewRegistry()
	}
	return &stats{
		registry:  r,
		resolved:  metrics.GetOrRegisterCounter("compose.graphs.resolved", r),
		cacheHits: metrics.GetOrRegisterCounter("compose.cache.hits", r),
		released:  metrics.GetOrRegisterCounter("compose.cache.released", r),
		revived:   metrics.GetOrRegisterCounter("compose.cache.revived", r),
		rejected:  metrics.GetOrRegisterCounter("compose.dynamic.rejected", r),
		resolve:   metrics.GetOrRegisterTimer("compose.graphs.resolve_time", r),
	}
}

// Registry returns the registry the coordinator reports to.
func (c *Coordinator) Registry() metrics.Registry {
	return c.stats.registry
}

// WriteMetrics writes a one-shot snapshot of every metric.
func (c *Coordinator) WriteMetrics(w io.Writer) {
	metrics.WriteOnce(c.stats.registry, w)
}

func (s *stats) time(start time.Time) {
	s.resolve.UpdateSince(start)
}
