package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var operations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "marketplace",
	Name:      "operations_total",
	Help:      "Marketplace entry point calls by operation and outcome.",
}, []string{"operation", "outcome"})

// Observe counts one call of operation with the given outcome.
func Observe(operation, outcome string) {
	operations.WithLabelValues(operation, outcome).Inc()
}

// Handler serves the default registry for GET /metrics.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
