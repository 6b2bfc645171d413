package pagination

const (
	// DefaultPageSize is the catalog grid size.
	DefaultPageSize = 12
	// MaxPageSize caps page-numbered listings.
	MaxPageSize = 48
	// Ellipsis marks a gap in a page window.
	Ellipsis = 0

	windowSpan = 5
)

// PageParams holds 1-based page inputs.
type PageParams struct {
	Page     int
	PageSize int
}

// Normalize clamps the page to at least 1 and the size to the allowed range.
func (p PageParams) Normalize() PageParams {
	out := p
	if out.Page < 1 {
		out.Page = 1
	}
	if out.PageSize <= 0 {
		out.PageSize = DefaultPageSize
	}
	if out.PageSize > MaxPageSize {
		out.PageSize = MaxPageSize
	}
	return out
}

// Offset returns the row offset for the normalized params.
func (p PageParams) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// PageInfo describes a page of results.
type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
	Window     []int `json:"window"`
}

// NewPageInfo computes totals and the page-button window for params.
func NewPageInfo(params PageParams, total int64) PageInfo {
	n := params.Normalize()
	pages := int((total + int64(n.PageSize) - 1) / int64(n.PageSize))
	return PageInfo{
		Page:       n.Page,
		PageSize:   n.PageSize,
		TotalItems: total,
		TotalPages: pages,
		HasNext:    n.Page < pages,
		HasPrev:    n.Page > 1 && pages > 0,
		Window:     Window(n.Page, pages),
	}
}

// Window lists the page buttons to render for current out of total pages.
// Gaps are reported as Ellipsis. Up to five pages are listed in full.
func Window(current, total int) []int {
	if total <= 0 {
		return []int{}
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}
	if total <= windowSpan {
		out := make([]int, 0, total)
		for i := 1; i <= total; i++ {
			out = append(out, i)
		}
		return out
	}
	switch {
	case current <= 3:
		return []int{1, 2, 3, 4, Ellipsis, total}
	case current >= total-2:
		return []int{1, Ellipsis, total - 3, total - 2, total - 1, total}
	default:
		return []int{1, Ellipsis, current - 1, current, current + 1, Ellipsis, total}
	}
}
