package utils

import (
	"net/url"
	"strconv"
)

// Page is a page of results in the shape the front-end paginator consumes.
type Page struct {
	CurrentPage  int         `json:"current_page"`
	Data         interface{} `json:"data"`
	FirstPageURL string      `json:"first_page_url"`
	From         *int        `json:"from"`
	LastPage     int         `json:"last_page"`
	LastPageURL  string      `json:"last_page_url"`
	Links        []PageLink  `json:"links"`
	NextPageURL  *string     `json:"next_page_url"`
	Path         string      `json:"path"`
	PerPage      int         `json:"per_page"`
	PrevPageURL  *string     `json:"prev_page_url"`
	To           *int        `json:"to"`
	Total        int         `json:"total"`
}

type PageLink struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

const (
	prevLabel = "&laquo; Previous"
	nextLabel = "Next &raquo;"
	// pages shown on each side of the current one before collapsing into "..."
	linkWindow = 3
)

// NewPage builds the paginator for data, the rows of page `page` out of total.
// base is the request URL; its query string is preserved on every link.
func NewPage(base *url.URL, data interface{}, total, page, perPage int) Page {
	if perPage <= 0 {
		perPage = 15
	}
	if page <= 0 {
		page = 1
	}
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	path := base.Scheme + "://" + base.Host + base.Path
	if base.Host == "" {
		path = base.Path
	}
	pageURL := func(n int) string {
		q := base.Query()
		q.Set("page", strconv.Itoa(n))
		return path + "?" + q.Encode()
	}

	p := Page{
		CurrentPage:  page,
		Data:         data,
		FirstPageURL: pageURL(1),
		LastPage:     lastPage,
		LastPageURL:  pageURL(lastPage),
		Path:         path,
		PerPage:      perPage,
		Total:        total,
	}

	from := (page-1)*perPage + 1
	if total > 0 && from <= total {
		to := from + perPage - 1
		if to > total {
			to = total
		}
		p.From = &from
		p.To = &to
	}

	if page > 1 {
		u := pageURL(page - 1)
		p.PrevPageURL = &u
	}
	if page < lastPage {
		u := pageURL(page + 1)
		p.NextPageURL = &u
	}

	p.Links = append(p.Links, PageLink{URL: p.PrevPageURL, Label: prevLabel})
	for _, n := range pageNumbers(page, lastPage) {
		if n == 0 {
			p.Links = append(p.Links, PageLink{Label: "..."})
			continue
		}
		u := pageURL(n)
		p.Links = append(p.Links, PageLink{URL: &u, Label: strconv.Itoa(n), Active: n == page})
	}
	p.Links = append(p.Links, PageLink{URL: p.NextPageURL, Label: nextLabel})
	return p
}

// pageNumbers lists the page numbers to link, with 0 standing for a gap.
func pageNumbers(current, last int) []int {
	if last <= linkWindow*2+5 {
		out := make([]int, 0, last)
		for i := 1; i <= last; i++ {
			out = append(out, i)
		}
		return out
	}

	start := current - linkWindow
	end := current + linkWindow
	if start <= 3 {
		start = 1
		if end < linkWindow*2+2 {
			end = linkWindow*2 + 2
		}
	}
	if end >= last-2 {
		end = last
		if start > last-linkWindow*2-1 {
			start = last - linkWindow*2 - 1
		}
	}

	var out []int
	if start > 1 {
		out = append(out, 1, 2, 0)
	}
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	if end < last {
		out = append(out, 0, last-1, last)
	}
	return out
}

// Offset converts a 1-based page number into a SQL offset.
func Offset(page, perPage int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * perPage
}
