package cookie

import (
	"net/http"
	"time"
)

const RefreshName = "refreshToken"

// Options hold the per-deployment cookie attributes. Secure is off only for
// local development over plain http.
type Options struct {
	Path   string
	Secure bool
}

func CreateCookie(name, value string, opts Options, expTime time.Time) *http.Cookie {
	maxAge := int(time.Until(expTime).Seconds())
	if maxAge < 1 {
		maxAge = -1
	}

	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     opts.Path,
		Expires:  expTime,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func DeleteCookie(name string, opts Options) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     opts.Path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
