package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for ProductSaves.
const (
	// OutcomeSaved counts products accepted and written to the store.
	OutcomeSaved = "saved"
	// OutcomeRejected counts products that failed validation.
	OutcomeRejected = "rejected"
	// OutcomeFailed counts valid products the store could not write.
	OutcomeFailed = "failed"
)

// Product collectors, registered by RegisterCollectors.
var (
	ProductSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "katalog", Name: "product_saves_total", Help: "Product save attempts by outcome."},
		[]string{"outcome"},
	)
	ProductViolations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "katalog", Name: "product_violations_total", Help: "Validation violations by field and constraint kind."},
		[]string{"field", "kind"},
	)
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "katalog", Name: "product_events_published_total", Help: "Product events handed to the broker, by routing key and result."},
		[]string{"routing_key", "result"},
	)
)

// RegisterCollectors registers every product collector with reg.
func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(ProductSaves)
	reg.MustRegister(ProductViolations)
	reg.MustRegister(EventsPublished)
}
