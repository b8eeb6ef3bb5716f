package mathutil

import "math"

// LogZero represents log(0), used as negative infinity in log-domain arithmetic.
const LogZero = -1e30

// LogRatio returns log(num/den), or LogZero when the ratio is zero or undefined.
func LogRatio(num, den int) float64 {
	if num <= 0 || den <= 0 {
		return LogZero
	}
	return math.Log(float64(num)) - math.Log(float64(den))
}
