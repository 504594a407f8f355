package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cdapos/internal/metrics"
)

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.TillOpened()
	m.TillClosed(decimal.NewFromInt(-5652))
	m.EgressRejected()
	m.TreasuryMovement("egress")
	m.TreasuryMovement("egress")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, "cdapos_tills_opened_total 1")
	assert.Contains(t, out, "cdapos_tills_closed_total 1")
	assert.Contains(t, out, "cdapos_till_close_difference_sum 5652")
	assert.Contains(t, out, "cdapos_treasury_egress_rejected_total 1")
	assert.Contains(t, out, `cdapos_treasury_movements_total{type="egress"} 2`)
}
