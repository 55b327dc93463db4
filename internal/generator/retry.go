package generator

// retry calls draw up to attempts times and returns the first result accept
// approves. The second return is false when every attempt was rejected, in which
// case the last rejected result is returned.
func retry(attempts int, draw func() []int, accept func([]int) bool) ([]int, bool) {
	var last []int
	for i := 0; i < attempts; i++ {
		last = draw()
		if accept(last) {
			return last, true
		}
	}
	return last, false
}
