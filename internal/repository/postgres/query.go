package postgres

import "fmt"

const defaultPageSize int32 = 20

// orderClause maps the caller supplied sort key through a whitelist so
// user input never reaches the SQL text directly.
func orderClause(sortBy string, desc bool, allowed map[string]string) string {
	col, ok := allowed[sortBy]
	if !ok {
		col = "created_on"
		desc = true
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", col, dir)
}

func pageLimit(pageSize int32) int32 {
	if pageSize <= 0 || pageSize > 100 {
		return defaultPageSize
	}
	return pageSize
}

func pageOffset(page, pageSize int32) int32 {
	if page <= 1 {
		return 0
	}
	return (page - 1) * pageLimit(pageSize)
}
