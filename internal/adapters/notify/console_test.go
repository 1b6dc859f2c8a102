package notify_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phxauto/phoenixbid/internal/adapters/notify"
	"github.com/phxauto/phoenixbid/internal/domain"
)

func makeResult() domain.ScanResult {
	return domain.ScanResult{
		VIN:       "1HGCV2F9XJA000000",
		Vehicle:   domain.Vehicle{Year: "2018", Make: "HONDA", Model: "Accord", EngineDisplacementL: 3.5, EngineCylinders: "6"},
		ScannedAt: time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC),
		Order:     []string{"engine", "transmission"},
		Parts: map[string]domain.TierEstimate{
			"engine": {
				Low: 900, Average: 1200, High: 1600,
				ItemsAnalyzed: 47, ItemsFilteredOut: 5,
				Confidence: domain.ConfidenceDarkGreen,
				Reasoning:  "tight sample of comparable listings",
			},
			"transmission": {
				Low: 400, Average: 600, High: 850,
				ItemsAnalyzed: 18,
				Confidence:    domain.ConfidenceOrange,
			},
		},
		Totals: domain.BidTotals{Low: 1300, Average: 1800, High: 2450},
		Bids:   domain.BidRecommendation{Low: 300, Average: 300, High: 300},
	}
}

func TestConsole_Notify(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	require.NoError(t, n.Notify(context.Background(), makeResult()))

	out := buf.String()
	assert.Contains(t, out, "1HGCV2F9XJA000000")
	assert.Contains(t, out, "2018 HONDA Accord")
	assert.Contains(t, out, "3.5L (6 cyl)")
	assert.Contains(t, out, "engine")
	assert.Contains(t, out, "$1200")
	assert.Contains(t, out, "$1800") // total standard
	assert.Contains(t, out, "RECOMMENDED BIDS")
	assert.Contains(t, out, "$300")
	// transmission es orange → warning de baja confianza
	assert.Contains(t, out, "low confidence: transmission")
	// El reasoning solo sale en verbose
	assert.NotContains(t, out, "tight sample")
}

func TestConsole_Notify_Verbose(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	require.NoError(t, n.Notify(context.Background(), makeResult()))

	assert.Contains(t, buf.String(), "tight sample of comparable listings")
}

func TestConsole_Notify_FailedParts(t *testing.T) {
	result := makeResult()
	result.Parts["transmission"] = domain.TierEstimate{Confidence: domain.ConfidenceYellow}

	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)
	require.NoError(t, n.Notify(context.Background(), result))

	out := buf.String()
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "no price data: transmission")
	assert.Contains(t, out, "1 FAILED")
}
