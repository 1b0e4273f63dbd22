package database

import (
	"math"

	"gorm.io/gorm"
)

// Paginate applies 1-based page/size pagination to a GORM query. Non-positive
// values leave the query unbounded. Pages past the addressable range are
// clamped to the last one.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page <= 0 || pageSize <= 0 {
			return db
		}
		if maxPage := math.MaxInt/pageSize + 1; page > maxPage {
			page = maxPage
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}
