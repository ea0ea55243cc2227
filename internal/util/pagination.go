package util

const DefaultPageSize = 10

// Calculate clamps page/limit to sane values and returns the query offset.
func Calculate(page, limit int) (offset, size int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = DefaultPageSize
	}
	return (page - 1) * limit, limit
}

func TotalPages(totalItems int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (totalItems + int64(limit) - 1) / int64(limit)
}
