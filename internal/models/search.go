package models

// AllLocations is the sentinel location value meaning "do not filter by
// location". It matches the default choice offered by the shell.
const AllLocations = "All Locations"

// PageSizes lists the accepted values for SearchCriteria.Limit.
var PageSizes = []int{10, 25, 50, 100}

// SearchCriteria captures the normalized search inputs for one page fetch.
type SearchCriteria struct {
	// DaysBack bounds the posting age in days (1-30).
	DaysBack int
	// Location filters postings by location. Empty or AllLocations
	// disables the filter.
	Location string
	// RemoteOnly restricts results to remote postings when true.
	// False applies no filter at all.
	RemoteOnly bool
	// Limit is the page size, one of PageSizes.
	Limit int
	// Offset is the zero-based index of the first result.
	Offset int
}

// ValidPageSize reports whether n is an accepted page size.
func ValidPageSize(n int) bool {
	for _, size := range PageSizes {
		if n == size {
			return true
		}
	}
	return false
}

// SearchResult is one page of normalized postings.
type SearchResult struct {
	Jobs []Job `json:"jobs"`
	// Total counts every raw item the upstream page contained, including
	// items the normalizer skipped, so it can exceed len(Jobs).
	Total int `json:"total"`
}
