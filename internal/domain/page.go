package domain

// Page is one page of a paginated listing, in server order.
// Page is zero-based here, exactly as the server reports it.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
}

// PageCount returns the number of pages needed for Total items
func (p Page[T]) PageCount() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.Total + p.Size - 1) / p.Size
}
