package documents

import (
	"math"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/catalog"
	"doctrack/backend/internal/models"
	"doctrack/backend/internal/timezone"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// SearchParams is the raw search request.
type SearchParams struct {
	Keyword       string `form:"keyword"`
	DocumentTitle string `form:"documentTitle"`
	Category      string `form:"category"`
	DocumentType  string `form:"documentType"`
	StartDate     string `form:"startDate"`
	EndDate       string `form:"endDate"`
	Page          int    `form:"page"`
	Limit         int    `form:"limit"`
}

// Query is a validated search. Empty string fields and nil bounds do not
// filter.
type Query struct {
	Keyword      string
	Title        string
	Category     string
	DocumentType string
	From         *time.Time
	To           *time.Time
	Page         int64
	Limit        int64
}

// BuildQuery normalises params. The "All ..." sentinels disable their
// filter; any other unknown category or type is rejected.
func BuildQuery(p SearchParams) (Query, error) {
	q := Query{
		Keyword: strings.TrimSpace(p.Keyword),
		Title:   strings.TrimSpace(p.DocumentTitle),
		Page:    int64(p.Page),
		Limit:   int64(p.Limit),
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	if q.Page-1 > math.MaxInt64/q.Limit {
		return Query{}, apperr.Validation("Invalid page", "page")
	}

	if c := strings.TrimSpace(p.Category); c != "" && c != catalog.AllCategories {
		if !catalog.IsKnownCategory(c) {
			return Query{}, apperr.Validation("Invalid category", "category")
		}
		q.Category = c
	}
	if dt := strings.TrimSpace(p.DocumentType); dt != "" && dt != catalog.AllDocumentTypes {
		if !catalog.IsKnownDocumentType(dt) {
			return Query{}, apperr.Validation("Invalid document type", "documentType")
		}
		q.DocumentType = dt
	}

	if s := strings.TrimSpace(p.StartDate); s != "" {
		t, err := timezone.Parse(s)
		if err != nil {
			return Query{}, apperr.Validation("Invalid start date", "startDate")
		}
		from := timezone.StartOfDay(t)
		q.From = &from
	}
	if s := strings.TrimSpace(p.EndDate); s != "" {
		t, err := timezone.Parse(s)
		if err != nil {
			return Query{}, apperr.Validation("Invalid end date", "endDate")
		}
		to := timezone.EndOfDay(t)
		q.To = &to
	}
	return q, nil
}

func (q Query) Skip() int64 { return (q.Page - 1) * q.Limit }

// BSON renders the filter for the files collection.
func (q Query) BSON() bson.M {
	filter := bson.M{}
	if q.Keyword != "" {
		pattern := regexp.QuoteMeta(q.Keyword)
		filter["$or"] = bson.A{
			bson.M{"originalName": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"extractedText": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	if q.Title != "" {
		filter["documentTitle"] = bson.M{"$regex": regexp.QuoteMeta(q.Title), "$options": "i"}
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.DocumentType != "" {
		filter["documentType"] = q.DocumentType
	}
	if q.From != nil || q.To != nil {
		bounds := bson.M{}
		if q.From != nil {
			bounds["$gte"] = *q.From
		}
		if q.To != nil {
			bounds["$lte"] = *q.To
		}
		filter["uploadDate"] = bounds
	}
	return filter
}

// Page is one page of search results, newest upload first.
type Page struct {
	Items       []models.Document `json:"items"`
	TotalCount  int64             `json:"totalCount"`
	TotalPages  int64             `json:"totalPages"`
	CurrentPage int64             `json:"currentPage"`
	PageSize    int64             `json:"pageSize"`
}

func NewPage(items []models.Document, total int64, q Query) Page {
	if items == nil {
		items = make([]models.Document, 0)
	}
	pages := total / q.Limit
	if total%q.Limit != 0 {
		pages++
	}
	return Page{
		Items:       items,
		TotalCount:  total,
		TotalPages:  pages,
		CurrentPage: q.Page,
		PageSize:    q.Limit,
	}
}
