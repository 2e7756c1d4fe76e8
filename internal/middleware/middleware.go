package middleware

import "net/http"

type Middleware func(http.Handler) http.Handler

// Wrap applies mws to h in order, so the last one runs first on every
// request.
func Wrap(h http.Handler, mws ...Middleware) http.Handler {
	for _, mw := range mws {
		if mw != nil {
			h = mw(h)
		}
	}
	return h
}
