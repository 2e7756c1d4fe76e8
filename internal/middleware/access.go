package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// AccessLog writes one line per request and one per response to log.
// A nil log disables the middleware.
func AccessLog(log *logrus.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		if log == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.WithFields(logrus.Fields{
				"remoteAddr": r.RemoteAddr,
			}).Infof("--> %s %s", r.Method, r.URL.RequestURI())

			wrapped := newStatusWriter(w)
			next.ServeHTTP(wrapped, r)

			code := wrapped.statusCode
			log.Infof("<-- %d %s", code, http.StatusText(code))
		})
	}
}
