package metadata

// MaxPriority is the display window for plugin priorities. Raw values at or
// beyond it in magnitude are global priorities.
const MaxPriority int64 = 1000000

// NormalizePriority folds raw into [0, max).
func NormalizePriority(raw, max int64) int64 {
	return ((raw % max) + max) % max
}

// IsGlobalPriority reports whether abs(raw) >= max without overflowing on
// the minimum int64.
func IsGlobalPriority(raw, max int64) bool {
	return raw >= max || raw <= -max
}
