package proxy

import "net/url"

const (
	shopParam     = "shop"
	customerParam = "logged_in_customer_id"
	sessionParam  = "wishlist_session"
)

// Context carries the tenant and caller identity the intermediary
// attached to a verified request.
type Context struct {
	Shop      string
	CallerRef string
	LoggedIn  bool
}

// Extract pulls the proxy context from the request URL. A missing shop
// yields an empty string, not an error; downstream treats the empty shop
// as a degenerate tenant bucket. Anonymous visitors are keyed by the
// client-held wishlist_session parameter when present so they do not
// collapse into one shared identity per shop.
func Extract(rawURL string) Context {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Context{}
	}
	q := u.Query()

	pctx := Context{Shop: q.Get(shopParam)}
	if customer := q.Get(customerParam); customer != "" {
		pctx.CallerRef = customer
		pctx.LoggedIn = true
		return pctx
	}
	pctx.CallerRef = q.Get(sessionParam)
	return pctx
}
