package repository

// DefaultPerPage is the blog listing page size.
const DefaultPerPage = 6

// PageInfo describes one page of a listing. PrevNum and NextNum are zero when
// there is no such page.
type PageInfo struct {
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasPrev bool `json:"has_prev"`
	HasNext bool `json:"has_next"`
	PrevNum int  `json:"prev_num,omitempty"`
	NextNum int  `json:"next_num,omitempty"`
}

// paginate slices items for the 1-indexed page. Pages below 1 are clamped and
// pages past the end yield an empty slice.
func paginate[T any](items []T, page, perPage int) ([]T, PageInfo) {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}

	total := len(items)
	info := PageInfo{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   (total + perPage - 1) / perPage,
	}
	info.HasPrev = page > 1
	info.HasNext = page < info.Pages
	if info.HasPrev {
		info.PrevNum = page - 1
	}
	if info.HasNext {
		info.NextNum = page + 1
	}

	start := (page - 1) * perPage
	if start >= total {
		return []T{}, info
	}
	end := min(start+perPage, total)
	return items[start:end], info
}
