// Package compounding applies daily yield accrual to the global share
// value, net of the management fee, and records each pass as an immutable
// event.
package compounding

const daysPerYear = 365.0

// DailyFactor converts an annual percentage yield and an annual management
// fee rate into the multiplicative factor applied to the share value for
// one compounding pass.
//
// dailyRate = apy / 365 / 100, feeDrag = managementFee / 365, and the
// factor is (1 + dailyRate) * (1 - feeDrag). For 12% APY and a 0.5% fee
// the factor is about 1.000315.
func DailyFactor(apy, managementFee float64) float64 {
	dailyRate := apy / daysPerYear / 100.0
	feeDrag := managementFee / daysPerYear
	return (1 + dailyRate) * (1 - feeDrag)
}

// Accrued is the QX value created by a share value move across the whole
// supply
func Accrued(previousValue, newValue, totalSupply float64) float64 {
	return (newValue - previousValue) * totalSupply
}
