package ui

import (
	"strings"
)

// Page identifies which screen a route shows
type Page int

const (
	PageNotFound Page = iota
	PageLogin
	PageRegister
	PageBoards
	PageBoard
)

// Route is a parsed location
type Route struct {
	Page    Page
	BoardID string
	Path    string
}

// RequiresAuth reports whether the page is only reachable while signed in
func (r Route) RequiresAuth() bool {
	return r.Page == PageBoards || r.Page == PageBoard
}

// ParseRoute maps a path to a page. "/" is the boards list.
func ParseRoute(path string) Route {
	clean := "/" + strings.Trim(strings.TrimSpace(path), "/")
	segments := strings.Split(strings.Trim(clean, "/"), "/")

	r := Route{Page: PageNotFound, Path: clean}
	switch {
	case clean == "/" || clean == "/boards":
		r.Page = PageBoards
	case clean == "/login":
		r.Page = PageLogin
	case clean == "/register":
		r.Page = PageRegister
	case len(segments) == 2 && segments[0] == "boards" && segments[1] != "":
		r.Page = PageBoard
		r.BoardID = segments[1]
	}
	return r
}

// Guard redirects signed-out visitors of protected pages to the login page
func Guard(r Route, authenticated bool) Route {
	if r.RequiresAuth() && !authenticated {
		return ParseRoute("/login")
	}
	return r
}
