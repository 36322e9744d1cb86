package common

// FilterEmpty returns a new slice containing only the non-zero values from the input.
// It filters out zero values (e.g., "", 0, nil for pointers/interfaces).
func FilterEmpty[T comparable](items ...T) []T {
	result := make([]T, 0, len(items))
	var zero T
	for _, item := range items {
		if item != zero {
			result = append(result, item)
		}
	}
	return result
}

// Unique removes duplicates while keeping the first occurrence order.
func Unique[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	result := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}
	return result
}
