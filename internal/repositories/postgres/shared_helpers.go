package postgres

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// applyPagination clamps limit/offset to sane bounds and applies them.
func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}

// applySort applies a whitelisted sort column and direction.
func applySort(query *gorm.DB, sortBy, sortOrder string, allowed map[string]bool) *gorm.DB {
	if sortBy == "" || !allowed[sortBy] {
		sortBy = "created_at"
	}
	order := "desc"
	if strings.EqualFold(sortOrder, "asc") {
		order = "asc"
	}
	return query.Order(fmt.Sprintf("%s %s", sortBy, order))
}
