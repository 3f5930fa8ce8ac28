package services

import (
	"testing"

	"homeserve-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeSplit(t *testing.T) {
	tests := []struct {
		name           string
		gross          float64
		pct            float64
		wantCommission float64
		wantNet        float64
	}{
		{"platform rate on 800", 800.00, 15.00, 120.00, 680.00},
		{"earnings rate on 800", 800.00, 10.00, 80.00, 720.00},
		{"zero commission", 500.00, 0.00, 0.00, 500.00},
		{"full commission", 500.00, 100.00, 500.00, 0.00},
		{"rounds to smallest currency unit", 333.33, 15.00, 50.00, 283.33},
		{"uneven split rounds", 99.99, 10.00, 10.00, 89.99},
		{"zero gross", 0.00, 15.00, 0.00, 0.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commission, net := ComputeSplit(tt.gross, tt.pct)
			assert.InDelta(t, tt.wantCommission, commission, 0.009)
			assert.InDelta(t, tt.wantNet, net, 0.009)
			// the two shares always reassemble the gross
			assert.InDelta(t, tt.gross, commission+net, 0.009)
		})
	}
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 10.57, RoundMoney(10.565))
	assert.Equal(t, 10.56, RoundMoney(10.5649))
	assert.Equal(t, 0.0, RoundMoney(0))
}

func TestNextStatus(t *testing.T) {
	tests := []struct {
		action BookingAction
		from   string
		want   string
		legal  bool
	}{
		{ActionConfirm, "pending", "confirmed", true},
		{ActionConfirm, "confirmed", "", false},
		{ActionConfirm, "completed", "", false},
		{ActionStart, "confirmed", "in_progress", true},
		{ActionComplete, "confirmed", "completed", true},
		{ActionComplete, "in_progress", "completed", true},
		{ActionComplete, "pending", "", false},
		{ActionCancel, "pending", "cancelled", true},
		{ActionCancel, "confirmed", "cancelled", true},
		{ActionCancel, "completed", "", false},
		{ActionCancel, "cancelled", "", false},
	}

	for _, tt := range tests {
		next, ok := NextStatus(tt.action, models.BookingStatus(tt.from))
		assert.Equal(t, tt.legal, ok, "%s from %s", tt.action, tt.from)
		if tt.legal {
			assert.Equal(t, tt.want, string(next))
		}
	}
}
