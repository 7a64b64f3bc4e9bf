package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve_IncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(operations.WithLabelValues("purchase_energy", OutcomeOK))
	Observe("purchase_energy", OutcomeOK)
	Observe("purchase_energy", OutcomeOK)
	after := testutil.ToFloat64(operations.WithLabelValues("purchase_energy", OutcomeOK))
	assert.Equal(t, before+2, after)
}

func TestHandler_ExposesMarketplaceMetrics(t *testing.T) {
	Observe("create_listing", OutcomeRejected)
	app := fiber.New()
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "marketplace_operations_total")
}
