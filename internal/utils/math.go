package utils

func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func Clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampFloat bounds value to [min, max]. NaN maps to min.
func ClampFloat(value, min, max float64) float64 {
	if value != value || value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
