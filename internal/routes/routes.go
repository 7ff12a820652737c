// Package routes is the dashboard's route table and guard.
package routes

import (
	"fmt"
	"strings"
)

// Page names the view a route renders.
type Page string

const (
	PageLogin           Page = "login"
	PageRegister        Page = "register"
	PageDashboard       Page = "dashboard"
	PageMarketData      Page = "market-data"
	PagePortfolio       Page = "portfolio"
	PagePortfolioDetail Page = "portfolio-detail"
	PageOptimization    Page = "optimization"
	PageBacktesting     Page = "backtesting"
	PageMachineLearning Page = "machine-learning"
	PageNotFound        Page = "not-found"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// Route is one entry of the table. Pattern segments starting with ':' bind a parameter.
type Route struct {
	Pattern  string
	Page     Page
	Public   bool
	Redirect string // unconditional redirect target
}

// Table is the route table, matched in order.
var Table = []Route{
	{Pattern: "/login", Page: PageLogin, Public: true},
	{Pattern: "/register", Page: PageRegister, Public: true},
	{Pattern: "/", Redirect: DashboardPath},
	{Pattern: "/dashboard", Page: PageDashboard},
	{Pattern: "/market-data", Page: PageMarketData},
	{Pattern: "/portfolio", Page: PagePortfolio},
	{Pattern: "/portfolio/:id", Page: PagePortfolioDetail},
	{Pattern: "/optimization", Page: PageOptimization},
	{Pattern: "/backtesting", Page: PageBacktesting},
	{Pattern: "/machine-learning", Page: PageMachineLearning},
}

// Resolution is the outcome of resolving a path.
type Resolution struct {
	Path     string
	Page     Page
	Params   map[string]string
	Redirect string // non-empty when the caller should navigate elsewhere
}

// NotFound reports whether no route matched.
func (r Resolution) NotFound() bool {
	return r.Page == PageNotFound
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func match(pattern, path string) (map[string]string, bool) {
	ps, xs := split(pattern), split(path)
	if len(ps) != len(xs) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range ps {
		if strings.HasPrefix(seg, ":") {
			if xs[i] == "" {
				return nil, false
			}
			params[seg[1:]] = xs[i]
			continue
		}
		if seg != xs[i] {
			return nil, false
		}
	}
	return params, true
}

// normalize strips any query string or fragment and ensures a leading slash.
func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// Resolve matches path against the table and applies the guard: guarded
// routes without a session redirect to /login, and /login with a session
// redirects to /dashboard. Unknown paths resolve to the not-found page.
func Resolve(path string, authenticated bool) Resolution {
	path = normalize(path)
	for _, r := range Table {
		params, ok := match(r.Pattern, path)
		if !ok {
			continue
		}
		res := Resolution{Path: path, Page: r.Page, Params: params}
		switch {
		case r.Redirect != "":
			res.Redirect = r.Redirect
		case !r.Public && !authenticated:
			res.Redirect = LoginPath
		case r.Page == PageLogin && authenticated:
			res.Redirect = DashboardPath
		}
		return res
	}
	return Resolution{Path: path, Page: PageNotFound}
}

// maxRedirects bounds Follow.
const maxRedirects = 5

// Follow resolves path and follows redirects to the final page.
func Follow(path string, authenticated bool) (Resolution, error) {
	res := Resolve(path, authenticated)
	for i := 0; res.Redirect != ""; i++ {
		if i >= maxRedirects {
			return res, fmt.Errorf("too many redirects resolving %s", path)
		}
		res = Resolve(res.Redirect, authenticated)
	}
	return res, nil
}
