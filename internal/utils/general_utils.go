package utils

import (
	"strconv"

	"gorm.io/gorm"
)

// MaxPageSize caps offset pagination across all list endpoints.
const MaxPageSize = 50

// Paginate is a gorm scope applying offset pagination with the global
// page size ceiling.
func Paginate(page, size int) func(db *gorm.DB) *gorm.DB {
	page, size = ClampPage(page, size)
	return func(db *gorm.DB) *gorm.DB {
		offset := (page - 1) * size
		return db.Offset(offset).Limit(size)
	}
}

func ClampPage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// StringifyID renders a numeric id the way push data maps expect.
func StringifyID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
