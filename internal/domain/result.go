package domain

import "time"

// PageSize is the fixed number of movies requested per page
const PageSize = 20

// QueryResult is one page of list results
type QueryResult struct {
	Items      []MovieSummary // Provider order, never re-sorted
	TotalCount int
	TotalPages int
	Page       int
	FetchedAt  time.Time
}

// TotalPages returns ceil(count/limit), using PageSize when limit is not positive
func TotalPages(count, limit int) int {
	if limit <= 0 {
		limit = PageSize
	}
	if count <= 0 {
		return 0
	}
	return (count + limit - 1) / limit
}

// IsEmpty reports whether the page holds no movies
func (r QueryResult) IsEmpty() bool {
	return len(r.Items) == 0
}
