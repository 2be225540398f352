package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNamespace(t *testing.T) {
	assert.Equal(t, "smc_scheduling_service", Namespace("SMC-Scheduling-Service"))
}

func TestMetrics_Recorders(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegisterer("scheduling", reg)

	m.RecordReservation(OutcomeReserved)
	m.RecordReservation(OutcomeReserved)
	m.RecordReservation(OutcomeSlotFull)
	m.RecordWizardTransition("zone_check", "ok")
	m.ObserveHTTPRequest("GET", "/api/v1/tenants/{tenantId}/availability", 200, 10*time.Millisecond)
	m.ObserveDBQuery("query_row", errors.New("boom"), time.Millisecond)
	m.RecordTxRetry()
	m.ObserveAvailability("month", 2*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReservationsTotal.WithLabelValues(OutcomeReserved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReservationsTotal.WithLabelValues(OutcomeSlotFull)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WizardTransitionsTotal.WithLabelValues("zone_check", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/tenants/{tenantId}/availability", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TxRetriesTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(m.AvailabilityDuration))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordReservation(OutcomeReserved)
		m.RecordWizardTransition("slot_select", "error")
		m.ObserveTourSize(3)
		m.ObserveAvailability("day", time.Millisecond)
		m.SetDBPoolStats(1, 1, 0, 0)
		m.RecordTxRetry()
	})
}
