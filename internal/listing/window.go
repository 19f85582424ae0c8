package listing

// DefaultMaxPagesToShow is the default width of the pager window.
const DefaultMaxPagesToShow = 5

// PageNumbers returns the page numbers a pager should display around
// current. The result has min(totalPages, maxToShow) contiguous entries
// within [1, totalPages], and is empty when there are no pages.
func PageNumbers(current, totalPages, maxToShow int) []int {
	if maxToShow < 1 {
		maxToShow = DefaultMaxPagesToShow
	}
	if totalPages <= 0 {
		return []int{}
	}

	start, end := 1, totalPages
	if totalPages > maxToShow {
		start = max(1, current-maxToShow/2)
		end = min(totalPages, start+maxToShow-1)

		// Near the last page the window is short; slide it back.
		if end-start+1 < maxToShow {
			start = max(1, end-maxToShow+1)
		}
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
