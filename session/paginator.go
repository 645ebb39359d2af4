package session

// Paginator tracks the current page over a fixed-size record set. It is
// plain index arithmetic; rendering stays with the caller.
type Paginator struct {
	PageSize int
	Total    int
	Index    int
}

func NewPaginator(total, pageSize int) *Paginator {
	return &Paginator{PageSize: pageSize, Total: total}
}

// TotalPages is ceil(Total / PageSize).
func (p *Paginator) TotalPages() int {
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// AtFirst reports whether the previous affordance should be disabled.
func (p *Paginator) AtFirst() bool {
	return p.Index == 0
}

// AtLast reports whether the next affordance should be disabled.
func (p *Paginator) AtLast() bool {
	return p.Index >= p.TotalPages()-1
}

// Prev moves one page back. No-op at the first page.
func (p *Paginator) Prev() bool {
	if p.AtFirst() {
		return false
	}
	p.Index--
	return true
}

// Next moves one page forward. No-op at the last page.
func (p *Paginator) Next() bool {
	if p.AtLast() {
		return false
	}
	p.Index++
	return true
}

// Bounds returns the [start, end) slice indexes of the current page.
func (p *Paginator) Bounds() (int, int) {
	start := p.Index * p.PageSize
	end := start + p.PageSize
	if end > p.Total {
		end = p.Total
	}
	return start, end
}
