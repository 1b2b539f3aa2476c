package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/airport-cli/internal/config"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

var checkTime = time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)

func hoursAgo(h int) *time.Time {
	t := checkTime.Add(-time.Duration(h) * time.Hour)
	return &t
}

func newTestAlerter(cfg config.MonitoringConfig) *Alerter {
	return NewAlerter(cfg, clockwork.NewFakeClockAt(checkTime))
}

func TestAlerter_Evaluate_NoAlerts(t *testing.T) {
	a := newTestAlerter(config.MonitoringConfig{FailureRateThreshold: 0.5, StaleAfterHours: 840})

	alerts := a.Evaluate(&Snapshot{
		Total: 6, Complete: 5, Failed: 1, FailRate: 1.0 / 6,
		LastSuccess: hoursAgo(24), LastAdmitted: 5123, LookbackHours: 168,
	})
	assert.Empty(t, alerts)
}

func TestAlerter_Evaluate_FailureRate(t *testing.T) {
	a := newTestAlerter(config.MonitoringConfig{FailureRateThreshold: 0.5})

	alerts := a.Evaluate(&Snapshot{
		Total: 4, Complete: 1, Failed: 3, FailRate: 0.75,
		LastSuccess: hoursAgo(2), LastAdmitted: 5123, LookbackHours: 168,
	})
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertFailureRate, alerts[0].Type)
	assert.Equal(t, "high", alerts[0].Severity)
	assert.Contains(t, alerts[0].Message, "75.0%")
	assert.Equal(t, checkTime, alerts[0].Timestamp)
}

func TestAlerter_Evaluate_MinimumRunsRequired(t *testing.T) {
	a := newTestAlerter(config.MonitoringConfig{FailureRateThreshold: 0.1})

	alerts := a.Evaluate(&Snapshot{
		Total: 2, Complete: 1, Failed: 1, FailRate: 0.5,
		LastSuccess: hoursAgo(2), LastAdmitted: 10,
	})
	assert.Empty(t, alerts)
}

func TestAlerter_Evaluate_Stale(t *testing.T) {
	a := newTestAlerter(config.MonitoringConfig{FailureRateThreshold: 1, StaleAfterHours: 24})

	alerts := a.Evaluate(&Snapshot{LastSuccess: hoursAgo(48), LastAdmitted: 10})
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertStaleData, alerts[0].Type)
	assert.Contains(t, alerts[0].Message, "48h ago")
}

func TestAlerter_Evaluate_NeverLoaded(t *testing.T) {
	a := newTestAlerter(config.MonitoringConfig{FailureRateThreshold: 1, StaleAfterHours: 24})

	alerts := a.Evaluate(&Snapshot{})
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertStaleData, alerts[0].Type)
	assert.Equal(t, "No successful NASR load recorded", alerts[0].Message)
}

func TestAlerter_Evaluate_NoAirportsAdmitted(t *testing.T) {
	a := newTestAlerter(config.MonitoringConfig{FailureRateThreshold: 1})

	alerts := a.Evaluate(&Snapshot{LastSuccess: hoursAgo(1), LastAdmitted: 0})
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertNoAirports, alerts[0].Type)
}

func TestAlerter_SendAlerts_Webhook(t *testing.T) {
	var received atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var alert Alert
		if err := json.NewDecoder(r.Body).Decode(&alert); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.NotEmpty(t, alert.Type)
		received.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	a := newTestAlerter(config.MonitoringConfig{WebhookURL: ts.URL})

	sent := a.SendAlerts(context.Background(), []Alert{
		{Type: AlertFailureRate, Severity: "high", Message: "test alert 1"},
		{Type: AlertStaleData, Severity: "medium", Message: "test alert 2"},
	})
	assert.Equal(t, 2, sent)
	assert.Equal(t, int32(2), received.Load())
}

func TestAlerter_SendAlerts_EmptyURL(t *testing.T) {
	a := newTestAlerter(config.MonitoringConfig{})

	sent := a.SendAlerts(context.Background(), []Alert{{Type: AlertFailureRate, Message: "test"}})
	assert.Equal(t, 0, sent)
}

func TestAlerter_SendAlerts_WebhookError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	a := newTestAlerter(config.MonitoringConfig{WebhookURL: ts.URL})

	sent := a.SendAlerts(context.Background(), []Alert{{Type: AlertFailureRate, Message: "test"}})
	assert.Equal(t, 0, sent)
}
