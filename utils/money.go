package utils

import "math"

// Round2 normalizes a monetary amount to cents. Payment amounts are
// persisted as NUMERIC(12,2), so anything finer is rounded before it
// hits the database.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
