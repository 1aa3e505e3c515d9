package handler

import (
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"foodgram/internal/repository"
)

const maxPageSize = 100

// PageResponse is the envelope of paginated listings.
type PageResponse struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// Paginator reads page/limit query parameters.
type Paginator struct {
	DefaultSize int
}

// NewPaginator creates a paginator with the given default page size.
func NewPaginator(defaultSize int) Paginator {
	if defaultSize <= 0 {
		defaultSize = 6
	}
	if defaultSize > maxPageSize {
		defaultSize = maxPageSize
	}
	return Paginator{DefaultSize: defaultSize}
}

type pageRequest struct {
	number int
	size   int
}

func (p Paginator) parse(c echo.Context) pageRequest {
	number := queryInt(c, "page", 1)
	if number < 1 {
		number = 1
	}
	size := queryInt(c, "limit", p.DefaultSize)
	if size < 1 {
		size = p.DefaultSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return pageRequest{number: number, size: size}
}

func (r pageRequest) repo() repository.Page {
	return repository.Page{Offset: (r.number - 1) * r.size, Limit: r.size}
}

func (r pageRequest) response(c echo.Context, total int64, results interface{}) PageResponse {
	resp := PageResponse{Count: total, Results: results}
	if int64(r.number*r.size) < total {
		next := pageURL(c, r.number+1)
		resp.Next = &next
	}
	if r.number > 1 {
		prev := pageURL(c, r.number-1)
		resp.Previous = &prev
	}
	return resp
}

func pageURL(c echo.Context, number int) string {
	u := *c.Request().URL
	q := u.Query()
	if number <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(number))
	}
	u.RawQuery = q.Encode()
	abs := url.URL{Scheme: c.Scheme(), Host: c.Request().Host, Path: u.Path, RawQuery: u.RawQuery}
	return abs.String()
}
