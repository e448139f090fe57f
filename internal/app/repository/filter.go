package repository

import (
	"strings"

	"gorm.io/gorm"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"

	DefaultPageNumber = 1
	DefaultPageSize   = 10
)

// PageRequest carries the pagination and sorting parameters shared by
// every filtered listing. Zero values fall back to the defaults, so an
// empty request is always valid.
type PageRequest struct {
	PageNumber    int
	PageSize      int
	SortBy        string
	SortDirection SortDirection
}

// Normalize clamps the request to usable values. Page numbers and
// sizes below 1 reset to the defaults rather than erroring.
func (p PageRequest) Normalize() PageRequest {
	if p.PageNumber < 1 {
		p.PageNumber = DefaultPageNumber
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	switch SortDirection(strings.ToLower(string(p.SortDirection))) {
	case SortAsc:
		p.SortDirection = SortAsc
	default:
		p.SortDirection = SortDesc
	}
	return p
}

func (p PageRequest) offset() int {
	return (p.PageNumber - 1) * p.PageSize
}

// applySort orders the query by the requested column when it appears in
// the whitelist, falling back to created_at DESC for unknown columns.
// A secondary id ASC keeps page boundaries stable when the sort column
// has duplicate values.
func applySort(query *gorm.DB, table string, req PageRequest, sortable map[string]string) *gorm.DB {
	column, ok := sortable[strings.ToLower(req.SortBy)]
	if !ok {
		return query.Order(table + ".created_at DESC").Order(table + ".id ASC")
	}

	direction := "DESC"
	if req.SortDirection == SortAsc {
		direction = "ASC"
	}
	return query.Order(table + "." + column + " " + direction).Order(table + ".id ASC")
}

// paginate counts the filtered rows, then fetches the requested page.
// The count runs before LIMIT/OFFSET are applied so TotalRecords
// reflects the whole filtered set.
func paginate(query *gorm.DB, req PageRequest, dest interface{}) (int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}

	if err := query.Limit(req.PageSize).Offset(req.offset()).Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}
