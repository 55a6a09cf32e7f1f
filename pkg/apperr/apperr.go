package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("upstream unavailable")
)

// Public pairs a sentinel with the short message shown to the caller. The
// wrapped detail of the error stays in logs only.
type Public struct {
	Kind error
	Msg  string
}

func (e *Public) Error() string { return e.Kind.Error() + ": " + e.Msg }

func (e *Public) Unwrap() error { return e.Kind }

func New(kind error, msg string) error {
	return &Public{Kind: kind, Msg: msg}
}

func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func Message(err error) string {
	var p *Public
	if errors.As(err, &p) && p.Msg != "" {
		return p.Msg
	}
	switch Status(err) {
	case http.StatusBadRequest:
		return "bad request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusBadGateway:
		return "payment provider unavailable"
	default:
		return "internal error"
	}
}
