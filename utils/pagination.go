package utils

const (
	// DefaultPerPage is used when the client sends no per_page
	DefaultPerPage = 20
	// MaxPerPage caps per_page to keep admin listings bounded
	MaxPerPage = 100
)

// Calculate normalizes page/perPage and returns the row offset.
func Calculate(page, perPage int) (normalizedPage, limit, offset int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage, (page - 1) * perPage
}

// TotalPages is ceil(total / perPage).
func TotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
