// Package pagination maps 1-based page numbers onto offset/limit windows and
// builds the ?page= links for the trips pager.
package pagination

import (
	"math"
	"net/url"
	"strconv"
)

const (
	Param       = "page"
	DefaultPage = 1
	// MaxPage bounds ?page= so page*size can never overflow an offset.
	MaxPage     = 1_000_000
)

type Window struct {
	Offset int
	Limit  int
}

// For returns the fetch window for page. Pages below 1 read as 1, and an
// offset that would overflow saturates at math.MaxInt.
func For(page, pageSize int) Window {
	if page < 1 {
		page = 1
	}
	if pageSize > 0 && page-1 > math.MaxInt/pageSize {
		return Window{Offset: math.MaxInt, Limit: pageSize}
	}
	return Window{Offset: (page - 1) * pageSize, Limit: pageSize}
}

// PageFromQuery reads ?page=, falling back to DefaultPage when missing,
// non-numeric or below 1, and capping it at MaxPage.
func PageFromQuery(q url.Values) int {
	n, err := strconv.Atoi(q.Get(Param))
	if err != nil || n < 1 {
		return DefaultPage
	}
	if n > MaxPage {
		return MaxPage
	}
	return n
}

// TotalPages is ceil(total/pageSize), and at least 1.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// PageURL returns u with ?page=page set, keeping the other query params.
func PageURL(u *url.URL, page int) string {
	q := u.Query()
	q.Set(Param, strconv.Itoa(page))
	return u.Path + "?" + q.Encode()
}

type Link struct {
	Number  int
	URL     string
	Current bool
}

// Pager is the view state of the pager component.
type Pager struct {
	CurrentPage  int
	TotalPages   int
	TotalRecords int
	PageSize     int
	PrevURL      string
	NextURL      string
	Pages        []Link
}

func NewPager(u *url.URL, current, pageSize, total int) Pager {
	p := Pager{
		CurrentPage:  current,
		TotalPages:   TotalPages(total, pageSize),
		TotalRecords: total,
		PageSize:     pageSize,
	}
	// Past the last page, "previous" leads back to the last real page.
	if prev := min(current-1, p.TotalPages); prev >= 1 {
		p.PrevURL = PageURL(u, prev)
	}
	if current < p.TotalPages {
		p.NextURL = PageURL(u, current+1)
	}
	p.Pages = make([]Link, 0, p.TotalPages)
	for i := 1; i <= p.TotalPages; i++ {
		p.Pages = append(p.Pages, Link{Number: i, URL: PageURL(u, i), Current: i == current})
	}
	return p
}
