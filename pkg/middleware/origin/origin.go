// Package origin rejects cross-site browser requests to cookie-authenticated
// routes.
package origin

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/vigor_shop/pkg/logging"
)

// Check lets safe methods through. For anything else, an Origin (or, failing
// that, Referer) header must name one of allowed or the request's own host.
// Requests carrying neither header come from non-browser clients and pass.
func Check(allowed []string) echo.MiddlewareFunc {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if u, err := url.Parse(strings.TrimSpace(o)); err == nil && u.Host != "" {
			set[strings.ToLower(u.Scheme+"://"+u.Host)] = struct{}{}
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			src := req.Header.Get(echo.HeaderOrigin)
			if src == "" {
				src = req.Header.Get("Referer")
			}
			if src == "" {
				return next(c)
			}

			if !allowedSource(src, set, req) {
				logging.FromContext(req.Context()).Warn("origin_rejected",
					"origin", src, "path", req.URL.Path, "status", http.StatusForbidden)
				return echo.NewHTTPError(http.StatusForbidden, "invalid origin")
			}
			return next(c)
		}
	}
}

func allowedSource(src string, set map[string]struct{}, r *http.Request) bool {
	u, err := url.Parse(src)
	if err != nil || u.Host == "" {
		return false
	}
	if _, ok := set[strings.ToLower(u.Scheme+"://"+u.Host)]; ok {
		return true
	}
	return strings.EqualFold(u.Scheme, schemeOf(r)) && strings.EqualFold(u.Host, r.Host)
}

func schemeOf(r *http.Request) string {
	if p := r.Header.Get(echo.HeaderXForwardedProto); p != "" {
		return p
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
