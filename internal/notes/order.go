package notes

// Epsilon is subtracted when both neighbours share an order.
const Epsilon = 0.0001

// OrderBetween returns an order value that sorts between prev and next.
// A nil neighbour means the note is dropped at that end of the list.
func OrderBetween(prev, next *float64) float64 {
	switch {
	case prev == nil && next == nil:
		return -1
	case prev == nil:
		return *next - 1
	case next == nil:
		return *prev + 1
	case *prev == *next:
		return *prev - Epsilon
	default:
		return (*prev + *next) / 2
	}
}

// strictlyBetween reports whether order sorts strictly between its
// neighbours; either bound may be missing.
func strictlyBetween(prev *float64, order float64, next *float64) bool {
	if prev != nil && !(order > *prev) {
		return false
	}
	if next != nil && !(order < *next) {
		return false
	}
	return true
}
