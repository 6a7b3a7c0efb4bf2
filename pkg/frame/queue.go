package frame

// Offer delivers h on ch without blocking. When ch is full the handle is
// released and Offer reports false.
func Offer(ch chan<- Handle, h Handle) bool {
	select {
	case ch <- h:
		return true
	default:
		h.Release()
		return false
	}
}
