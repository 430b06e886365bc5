package listings

import "strconv"

// Step moves a carousel index by dir, wrapping around count images.
// The result is always in [0, count) for count > 0.
func Step(index, dir, count int) int {
	if count <= 0 {
		return 0
	}
	return ((index+dir)%count + count) % count
}

// IndexLabel is the "current/total" indicator text for a zero-based index
func IndexLabel(index, count int) string {
	return strconv.Itoa(index+1) + "/" + strconv.Itoa(count)
}
