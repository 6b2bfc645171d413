package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// ExchangeRateMetrics exposes the last recorded rate and when it was fetched.
type ExchangeRateMetrics struct {
	rate      *prometheus.GaugeVec
	fetchedAt prometheus.Gauge
}

func NewExchangeRateMetrics(reg prometheus.Registerer) *ExchangeRateMetrics {
	if reg == nil {
		return &ExchangeRateMetrics{}
	}
	rate := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "exchange_rate",
		Name:      "local_per_usd",
		Help:      "Most recent local currency units per USD.",
	}, []string{"source"})
	fetchedAt := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "exchange_rate",
		Name:      "fetched_timestamp_seconds",
		Help:      "Unix time of the most recent rate observation.",
	})
	reg.MustRegister(rate, fetchedAt)
	return &ExchangeRateMetrics{rate: rate, fetchedAt: fetchedAt}
}

func (e *ExchangeRateMetrics) SetRate(source string, value decimal.Decimal, fetchedAt time.Time) {
	if e == nil || e.rate == nil {
		return
	}
	e.rate.Reset()
	e.rate.WithLabelValues(normalizeLabel(source)).Set(value.InexactFloat64())
	e.fetchedAt.Set(float64(fetchedAt.Unix()))
}
