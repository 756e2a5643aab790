package domain

import (
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	trackingNumberPattern = regexp.MustCompile(`^EX\d{2}[A-Z]{2}\d{7}[A-Z]$`)
	shipmentIDPattern     = regexp.MustCompile(`^EXS-\d{6}-[0-9A-F]{6}$`)
)

func TestNewTrackingNumber_Format(t *testing.T) {
	for i := 0; i < 200; i++ {
		tn, err := NewTrackingNumber("US")
		require.NoError(t, err)
		assert.Regexp(t, trackingNumberPattern, tn)
		assert.Len(t, tn, 14)

		digits, err := strconv.Atoi(tn[6:13])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, digits, 0)
		assert.Less(t, digits, 10_000_000)
	}
}

func TestNewTrackingNumber_CountryCode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		country string
	}{
		{"valid uppercase", "US", "US"},
		{"valid lowercase", "de", "DE"},
		{"surrounded by whitespace", " fr ", "FR"},
		{"empty defaults", "", "XX"},
		{"too long is truncated", "USA", "US"},
		{"single char is padded", "U", "UX"},
		{"digits default", "12", "XX"},
		{"mixed alnum defaults", "U1", "XX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tn, err := NewTrackingNumber(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.country, tn[4:6])
		})
	}
}

func TestNewTrackingNumber_YearSegment(t *testing.T) {
	tn, err := NewTrackingNumber("US")
	require.NoError(t, err)
	assert.Equal(t, time.Now().UTC().Format("06"), tn[2:4])
}

func TestNewShipmentID_Format(t *testing.T) {
	for i := 0; i < 200; i++ {
		id, err := NewShipmentID()
		require.NoError(t, err)
		assert.Regexp(t, shipmentIDPattern, id)
	}
}

func TestNewShipmentID_DateSegment(t *testing.T) {
	id, err := NewShipmentID()
	require.NoError(t, err)
	assert.Equal(t, time.Now().UTC().Format("060102"), id[4:10])
}

func TestIdentifiers_NoImmediateCollisions(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		tn, err := NewTrackingNumber("US")
		require.NoError(t, err)
		assert.False(t, seen[tn], "tracking number repeated: %s", tn)
		seen[tn] = true
	}
}
