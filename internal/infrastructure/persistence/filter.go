package persistence

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/shopdesk/backend/internal/domain/shared"
)

// applyFilter applies pagination, equality filters and ordering to a query.
// Only columns present in allowedOrder can be ordered by; anything else
// falls back to created_at to keep user input out of the SQL.
func applyFilter(db *gorm.DB, filter shared.Filter, allowedOrder map[string]bool) *gorm.DB {
	for key, value := range filter.Filters {
		if allowedOrder[key] {
			db = db.Where(fmt.Sprintf("%s = ?", key), value)
		}
	}

	orderBy := strings.ToLower(filter.OrderBy)
	if !allowedOrder[orderBy] {
		orderBy = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		direction = "ASC"
	}
	db = db.Order(fmt.Sprintf("%s %s", orderBy, direction))

	if filter.PageSize > 0 {
		db = db.Limit(filter.PageSize).Offset(filter.Offset())
	}
	return db
}
