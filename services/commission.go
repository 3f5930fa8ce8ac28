// services/commission.go
package services

import "math"

// RoundMoney rounds to the smallest currency unit (two decimal places).
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeSplit splits a gross amount into the platform's commission and the
// provider's net share for a given commission percentage. Every commission
// calculation in the system goes through here.
func ComputeSplit(gross, commissionPct float64) (commissionAmt, netAmt float64) {
	commissionAmt = RoundMoney(gross * commissionPct / 100)
	netAmt = RoundMoney(gross - commissionAmt)
	return
}
