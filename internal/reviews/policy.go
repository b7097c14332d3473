package reviews

// DefaultLookAhead is the number of viewports of remaining content below
// which the next page is requested.
const DefaultLookAhead = 2.5

// ShouldLoadMore reports whether the remaining scrollable distance has
// dropped to factor viewports or less.
func ShouldLoadMore(viewport, content, offset int, factor float64) bool {
	if viewport < 0 || content < 0 {
		return false
	}
	remaining := content - viewport - offset
	return float64(remaining) <= float64(viewport)*factor
}
