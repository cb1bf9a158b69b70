package sequence

import (
	"context"
	"strings"
	"time"

	"github.com/crumbhouse/bakery-backend/pkg/logger"
	"github.com/crumbhouse/bakery-backend/pkg/metrics"
)

// Counter hands out the next value of a per-entity sequence. Implementations
// must be atomic across concurrent callers.
type Counter interface {
	Next(ctx context.Context, f Format) (int64, error)
}

// Allocator assigns sequential identifiers and never fails: a counter error
// degrades to the timestamp fallback.
type Allocator struct {
	counter Counter
	logg    *logger.Logger
	metrics *metrics.SequenceMetrics
	now     func() time.Time
}

func NewAllocator(counter Counter, logg *logger.Logger, m *metrics.SequenceMetrics) *Allocator {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Allocator{
		counter: counter,
		logg:    logg,
		metrics: m,
		now:     time.Now,
	}
}

// Next returns a fresh identifier for f.
func (a *Allocator) Next(ctx context.Context, f Format) string {
	a.metrics.IncAllocation(f.Entity)

	n, err := a.counter.Next(ctx, f)
	if err == nil && n > 0 {
		return f.Render(n)
	}

	id := f.Fallback(a.now())
	a.metrics.IncFallback(f.Entity)
	fields := map[string]any{"entity": f.Entity, "fallback_id": id}
	if err == nil {
		fields["counter_value"] = n
	}
	a.logg.WarnErr(a.logg.WithFields(ctx, fields), "sequence.counter_failed", err)
	return id
}

// Assign sets *target when it is still empty. Existing identifiers are kept.
func (a *Allocator) Assign(ctx context.Context, f Format, target *string) {
	if target == nil || strings.TrimSpace(*target) != "" {
		return
	}
	*target = a.Next(ctx, f)
}
