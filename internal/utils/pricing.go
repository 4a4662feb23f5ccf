package utils

import "fmt"

// ComputeBaseCost returns the base rental cost in cents for the inclusive
// date range [start, end] at the given daily rate.
func ComputeBaseCost(dailyRateCents int64, start, end Date) (int64, error) {
	days, err := DaysBetween(start, end)
	if err != nil {
		return 0, err
	}
	return dailyRateCents * int64(days), nil
}

// ComputeTotalCost returns base cost plus the sum of all charge amounts.
// Calling it again with the same inputs yields the same result.
func ComputeTotalCost(baseCostCents int64, chargeAmountsCents []int64) int64 {
	total := baseCostCents
	for _, amount := range chargeAmountsCents {
		total += amount
	}
	return total
}

// FormatCents renders a cent amount as a decimal string, e.g. 2500000 -> "25000.00"
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
