package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Quote sources.
const (
	SourceRemote   = "remote"
	SourceFallback = "fallback"
)

// QuoteMetrics counts served quotes by source so an outage of the generator
// shows up on /-/metrics even though callers never see it.
type QuoteMetrics struct {
	served   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewQuoteMetrics registers the quote collectors with reg.
func NewQuoteMetrics(reg prometheus.Registerer) (*QuoteMetrics, error) {
	m := &QuoteMetrics{
		served: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zenquote",
			Name:      "quotes_served_total",
			Help:      "Quotes returned to callers, by source and category.",
		}, []string{"source", "category"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "zenquote",
			Name:      "quote_fetch_duration_seconds",
			Help:      "Time spent producing a quote, by source.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"source"}),
	}

	for _, c := range []prometheus.Collector{m.served, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ObserveQuote records one served quote.
func (m *QuoteMetrics) ObserveQuote(source, category string, elapsed time.Duration) {
	m.served.WithLabelValues(source, category).Inc()
	m.duration.WithLabelValues(source).Observe(elapsed.Seconds())
}
