package config

import (
	"os"
	"strconv"
)

// The platform runs two independently configured commission rates: the one
// recorded on a payment at capture time and the one applied when provider
// earnings are derived. They are tracked separately on purpose; do not
// collapse them without a product decision.
const (
	DefaultPlatformCommissionPct = 15.00
	DefaultEarningsCommissionPct = 10.00
)

func pctFromEnv(key string, fallback float64) float64 {
	if env := os.Getenv(key); env != "" {
		if v, err := strconv.ParseFloat(env, 64); err == nil && v >= 0 && v <= 100 {
			return v
		}
	}
	return fallback
}

// PlatformCommissionPct is the percentage recorded on payments at capture.
func PlatformCommissionPct() float64 {
	return pctFromEnv("PLATFORM_COMMISSION_PCT", DefaultPlatformCommissionPct)
}

// EarningsCommissionPct is the percentage applied when deriving earnings.
func EarningsCommissionPct() float64 {
	return pctFromEnv("EARNINGS_COMMISSION_PCT", DefaultEarningsCommissionPct)
}
