package aggpager

// Pagination is a single page of aggregated data with navigation metadata.
// Field names follow the common "length-aware paginator" JSON layout so the
// value can be written to an HTTP response as-is.
type Pagination[D any] struct {
	// Data page elements, never longer than PerPage.
	Data []D `json:"data" bson:"data"`
	// FirstPageURL link to page 1.
	FirstPageURL string `json:"first_page_url" bson:"first_page_url"`
	// LastPageURL link to LastPage.
	LastPageURL string `json:"last_page_url" bson:"last_page_url"`
	// NextPageURL link to CurrentPage+1, nil on the last page.
	NextPageURL *string `json:"next_page_url" bson:"next_page_url"`
	// PrevPageURL link to CurrentPage-1, nil on the first page.
	PrevPageURL *string `json:"prev_page_url" bson:"prev_page_url"`
	// Path base URL the links were built from.
	Path string `json:"path" bson:"path"`
	// PerPage effective limit used for the query.
	PerPage int `json:"per_page" bson:"per_page"`
	// From 1-based index of the first element on the page, 0 when empty.
	From int `json:"from" bson:"from"`
	// To nominal 1-based index of the last element on the page.
	To int `json:"to" bson:"to"`
	// Total number of elements matched by the pipeline.
	Total int `json:"total" bson:"total"`
	// CurrentPage requested page number.
	CurrentPage int `json:"current_page" bson:"current_page"`
	// LastPage number of pages, at least 1.
	LastPage int `json:"last_page" bson:"last_page"`
}

// HasNext reports whether a page after CurrentPage exists.
func (p *Pagination[D]) HasNext() bool {
	return p != nil && p.NextPageURL != nil
}

// HasPrev reports whether a page before CurrentPage exists.
func (p *Pagination[D]) HasPrev() bool {
	return p != nil && p.PrevPageURL != nil
}

// pageBounds holds the derived page arithmetic.
type pageBounds struct {
	lastPage int
	from     int
	to       int
}

// computeBounds derives last page and from/to indices:
//
//	lastPage = total > 0 ? ceil(total/limit) : 1
//	from     = total > 0 ? (page == 1 ? 1 : (page-1)*limit+1) : 0
//	to       = page == lastPage ? total : page*limit
//
// "to" is intentionally not clamped to total on pages other than the last.
// A zero limit cannot be divided by, in that case every non-empty result is
// reported as a single page.
func computeBounds(total, page, limit int) pageBounds {
	var b pageBounds

	switch {
	case total <= 0:
		b.lastPage = 1
	case limit == 0:
		b.lastPage = 1
	default:
		b.lastPage = ceilDiv(total, limit)
	}

	if total > 0 {
		if page == 1 {
			b.from = 1
		} else {
			b.from = (page-1)*limit + 1
		}
	}

	if page == b.lastPage {
		b.to = total
	} else {
		b.to = page * limit
	}

	return b
}

// ceilDiv rounds a/b towards positive infinity. b must not be zero.
func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	}

	return q
}
