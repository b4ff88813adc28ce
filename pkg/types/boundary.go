package types

// DocumentBoundary is a contiguous page range identifying one logical
// sub-document within a PDF file. StartPage and EndPage are 0-based and
// inclusive.
type DocumentBoundary struct {
	StartPage int
	EndPage   int

	// Matched is a caller-owned flag. Nothing in the matching core sets
	// it: accepted pairings are reported only through the returned
	// DocumentMatch list.
	Matched bool
}

// PageCount returns the number of pages spanned by the boundary.
func (b DocumentBoundary) PageCount() int {
	if b.EndPage < b.StartPage {
		return 0
	}
	return b.EndPage - b.StartPage + 1
}

// Pages returns the 0-based page indices spanned by the boundary, in
// order.
func (b DocumentBoundary) Pages() []int {
	n := b.PageCount()
	if n == 0 {
		return nil
	}
	pages := make([]int, n)
	for i := range pages {
		pages[i] = b.StartPage + i
	}
	return pages
}
