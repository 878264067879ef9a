package pagination

import (
	"strconv"

	"gorm.io/gorm"
)

// PageSize is fixed for every listing in the service.
const PageSize = 30

type Page struct {
	Number     int   `json:"page"`
	Size       int   `json:"page_size"`
	TotalRows  int64 `json:"total_rows"`
	TotalPages int   `json:"total_pages"`
}

// ParsePage clamps a raw ?page= value to 1 when it is missing, non-numeric
// or below one. Clamping past the last page happens in Paginate once the row
// count is known.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Paginate counts the rows the query matches, clamps the page number into
// range and loads one fixed-size page into dest.
func Paginate(query *gorm.DB, page int, dest interface{}) (Page, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Page{}, err
	}

	totalPages := int((total + PageSize - 1) / PageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	err := query.
		Offset((page - 1) * PageSize).
		Limit(PageSize).
		Find(dest).Error
	if err != nil {
		return Page{}, err
	}

	return Page{
		Number:     page,
		Size:       PageSize,
		TotalRows:  total,
		TotalPages: totalPages,
	}, nil
}
