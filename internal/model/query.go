package model

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage       = 1
	DefaultUserLimit  = 10
	DefaultAdminLimit = 20
	MaxLimit          = 100
)

// SortField names a report attribute that listings may be ordered by
type SortField string

const (
	SortByCreatedAt  SortField = "createdAt"
	SortByUpdatedAt  SortField = "updatedAt"
	SortByTitle      SortField = "title"
	SortByLocation   SortField = "location"
	SortByStatus     SortField = "status"
	SortByCrowdLevel SortField = "crowdLevel"
	SortByCrowdCount SortField = "crowdCount"
	SortByID         SortField = "id"
)

var sortFields = map[SortField]bool{
	SortByCreatedAt:  true,
	SortByUpdatedAt:  true,
	SortByTitle:      true,
	SortByLocation:   true,
	SortByStatus:     true,
	SortByCrowdLevel: true,
	SortByCrowdCount: true,
	SortByID:         true,
}

var (
	ErrInvalidSortField = errors.New("sortBy must be one of: createdAt, updatedAt, title, location, status, crowdLevel, crowdCount, id")
	ErrInvalidSortOrder = errors.New("sortOrder must be asc or desc")
	ErrInvalidPage      = errors.New("page must be a positive integer")
	ErrInvalidLimit     = errors.New("limit must be a positive integer")
)

// ParseSortField returns the default sort field for an empty string
func ParseSortField(s string) (SortField, error) {
	if s == "" {
		return SortByCreatedAt, nil
	}
	f := SortField(s)
	if !sortFields[f] {
		return "", ErrInvalidSortField
	}
	return f, nil
}

// ParseSortDesc reports whether the order is descending; empty means descending
func ParseSortDesc(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "desc":
		return true, nil
	case "asc":
		return false, nil
	}
	return false, ErrInvalidSortOrder
}

// ReportFilters holds the caller-supplied restrictions of a listing
type ReportFilters struct {
	Status     *ReportStatus
	CrowdLevel *CrowdLevel
	Search     string
	SortBy     SortField
	SortDesc   bool
	Page       int
	Limit      int
}

// ReportQuery is what the report store executes: caller filters combined
// with the visibility predicate. A nil OwnerID means every report is visible.
type ReportQuery struct {
	ReportFilters
	OwnerID *int64
}

func (q ReportQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Pagination describes one page of a listing
type Pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

func NewPagination(page, limit int, totalCount int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(totalCount) / float64(limit)))
	}
	return Pagination{
		Page:        page,
		Limit:       limit,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// ReportPage is a page of reports with its pagination info
type ReportPage struct {
	Reports    []Report
	Pagination Pagination
}

// ListParams is the raw query string of a listing request
type ListParams struct {
	Status     string `form:"status"`
	CrowdLevel string `form:"crowdLevel"`
	Search     string `form:"search"`
	SortBy     string `form:"sortBy"`
	SortOrder  string `form:"sortOrder"`
	Page       string `form:"page"`
	Limit      string `form:"limit"`
}

// Filters validates the raw parameters. Empty or "all" status and crowd level
// mean no filter; page and limit fall back to DefaultPage and defaultLimit.
func (p ListParams) Filters(defaultLimit int) (ReportFilters, error) {
	f := ReportFilters{Search: strings.TrimSpace(p.Search)}

	if s := strings.TrimSpace(p.Status); s != "" && !strings.EqualFold(s, "all") {
		st, err := ParseStatus(s)
		if err != nil {
			return f, err
		}
		f.Status = &st
	}
	if s := strings.TrimSpace(p.CrowdLevel); s != "" && !strings.EqualFold(s, "all") {
		lvl, err := ParseCrowdLevel(s)
		if err != nil {
			return f, err
		}
		f.CrowdLevel = &lvl
	}

	var err error
	if f.SortBy, err = ParseSortField(strings.TrimSpace(p.SortBy)); err != nil {
		return f, err
	}
	if f.SortDesc, err = ParseSortDesc(strings.TrimSpace(p.SortOrder)); err != nil {
		return f, err
	}
	if f.Page, err = parsePositive(p.Page, DefaultPage, ErrInvalidPage); err != nil {
		return f, err
	}
	if f.Limit, err = parsePositive(p.Limit, defaultLimit, ErrInvalidLimit); err != nil {
		return f, err
	}
	if f.Page > MaxPage(min(f.Limit, MaxLimit)) {
		return f, ErrInvalidPage
	}
	return f.Normalize(defaultLimit), nil
}

// MaxPage is the last page whose offset fits in an int
func MaxPage(limit int) int {
	if limit < 1 {
		limit = 1
	}
	return math.MaxInt/limit + 1
}

// Normalize fills zero page and limit with defaults and caps the limit at MaxLimit
func (f ReportFilters) Normalize(defaultLimit int) ReportFilters {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Page > MaxPage(f.Limit) {
		f.Page = MaxPage(f.Limit)
	}
	if f.SortBy == "" {
		f.SortBy = SortByCreatedAt
	}
	return f
}

func parsePositive(s string, def int, errInvalid error) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, errInvalid
	}
	return n, nil
}
