package services

import (
	"strings"

	"github.com/kendall-kelly/petnic-studio-api/utils"
	"gorm.io/gorm"
)

// PageRequest carries the pagination and search parameters of admin listings
type PageRequest struct {
	Page    int
	PerPage int
	Search  string
}

// Page is one slice of a paginated listing
type Page[T any] struct {
	Items       []T
	Total       int64
	Pages       int
	CurrentPage int
	PerPage     int
}

// paginate counts the filtered query and loads the requested page into dest.
func paginate[T any](query *gorm.DB, req PageRequest, order string) (Page[T], error) {
	page, limit, offset := utils.Calculate(req.Page, req.PerPage)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Page[T]{}, err
	}

	items := make([]T, 0)
	if err := query.Session(&gorm.Session{}).Order(order).Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return Page[T]{}, err
	}

	return Page[T]{
		Items:       items,
		Total:       total,
		Pages:       utils.TotalPages(total, limit),
		CurrentPage: page,
		PerPage:     limit,
	}, nil
}

// containsPattern builds a case-insensitive LIKE pattern for a substring
// search, escaping LIKE metacharacters. Use with `LOWER(col) LIKE ? ESCAPE '\'`.
func containsPattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(search)) + "%"
}

const likeClause = `LOWER(%s) LIKE ? ESCAPE '\'`
