package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/loyafu/storefront-backend/pkg/enums"
)

// CheckoutMetrics counts generated checkout links.
type CheckoutMetrics struct {
	links *prometheus.CounterVec
	items prometheus.Histogram
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	links := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "links_total",
		Help:      "Checkout links generated, by delivery and payment method.",
	}, []string{"delivery", "payment"})
	items := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "cart_items",
		Help:      "Units in the cart at checkout.",
		Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
	})
	reg.MustRegister(links, items)
	return &CheckoutMetrics{links: links, items: items}
}

// RecordCheckout counts one link and observes how many units it carried.
func (c *CheckoutMetrics) RecordCheckout(delivery enums.DeliveryMethod, payment enums.PaymentMethod, units int) {
	if c == nil || c.links == nil {
		return
	}
	c.links.WithLabelValues(normalizeLabel(delivery.String()), normalizeLabel(payment.String())).Inc()
	c.items.Observe(float64(units))
}
