package metrics

import "github.com/prometheus/client_golang/prometheus"

// SequenceMetrics counts sequential ID allocations per entity.
type SequenceMetrics struct {
	allocations *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
}

// NewSequenceMetrics registers the allocator metrics on the provided registerer.
func NewSequenceMetrics(reg prometheus.Registerer) *SequenceMetrics {
	if reg == nil {
		return &SequenceMetrics{}
	}
	allocations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bakery_id_allocations_total",
		Help: "Sequential identifiers handed out.",
	}, []string{"entity"})
	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bakery_id_allocation_fallbacks_total",
		Help: "Identifiers issued from the timestamp fallback after a counter failure.",
	}, []string{"entity"})
	reg.MustRegister(allocations, fallbacks)
	return &SequenceMetrics{allocations: allocations, fallbacks: fallbacks}
}

func (s *SequenceMetrics) IncAllocation(entity string) {
	if s == nil || s.allocations == nil {
		return
	}
	s.allocations.WithLabelValues(normalizeLabel(entity)).Inc()
}

func (s *SequenceMetrics) IncFallback(entity string) {
	if s == nil || s.fallbacks == nil {
		return
	}
	s.fallbacks.WithLabelValues(normalizeLabel(entity)).Inc()
}
