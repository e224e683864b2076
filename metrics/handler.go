package metrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type (
	// Handler records measurements for the materials providers and the
	// record cipher. Implementations must be safe for concurrent use.
	Handler interface {
		Counter(name string) Counter
		Timer(name string) Timer
	}

	Counter interface {
		Inc(delta int64)
	}

	Timer interface {
		Record(duration time.Duration)
	}

	// HandlerOptions configures an OpenTelemetry-backed Handler.
	HandlerOptions struct {
		// InitialAttributes are attached to every measurement.
		InitialAttributes attribute.Set
	}

	otelHandler struct {
		meter metric.Meter
		attrs attribute.Set

		mu       sync.Mutex
		counters map[string]metric.Int64Counter
		timers   map[string]metric.Float64Histogram
	}

	otelCounter struct {
		handler *otelHandler
		counter metric.Int64Counter
	}

	otelTimer struct {
		handler   *otelHandler
		histogram metric.Float64Histogram
	}
)

// NewHandler creates a Handler that records to the global OpenTelemetry meter
// provider.
func NewHandler(options HandlerOptions) Handler {
	return &otelHandler{
		meter:    otel.Meter("record-encryption"),
		attrs:    options.InitialAttributes,
		counters: make(map[string]metric.Int64Counter),
		timers:   make(map[string]metric.Float64Histogram),
	}
}

func (h *otelHandler) Counter(name string) Counter {
	h.mu.Lock()
	defer h.mu.Unlock()

	counter, ok := h.counters[name]
	if !ok {
		var err error
		counter, err = h.meter.Int64Counter(name)
		if err != nil {
			return nopInstrument{}
		}
		h.counters[name] = counter
	}

	return otelCounter{handler: h, counter: counter}
}

func (h *otelHandler) Timer(name string) Timer {
	h.mu.Lock()
	defer h.mu.Unlock()

	histogram, ok := h.timers[name]
	if !ok {
		var err error
		histogram, err = h.meter.Float64Histogram(name, metric.WithUnit("s"))
		if err != nil {
			return nopInstrument{}
		}
		h.timers[name] = histogram
	}

	return otelTimer{handler: h, histogram: histogram}
}

func (c otelCounter) Inc(delta int64) {
	c.counter.Add(context.Background(), delta, metric.WithAttributeSet(c.handler.attrs))
}

func (t otelTimer) Record(duration time.Duration) {
	t.histogram.Record(context.Background(), duration.Seconds(), metric.WithAttributeSet(t.handler.attrs))
}

// NopHandler discards every measurement.
var NopHandler Handler = nopHandler{}

type (
	nopHandler    struct{}
	nopInstrument struct{}
)

func (nopHandler) Counter(name string) Counter      { return nopInstrument{} }
func (nopHandler) Timer(name string) Timer          { return nopInstrument{} }
func (nopInstrument) Inc(delta int64)               {}
func (nopInstrument) Record(duration time.Duration) {}
