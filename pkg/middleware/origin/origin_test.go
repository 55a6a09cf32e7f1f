package origin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	e := echo.New()
	mw := Check([]string{"http://localhost:5173", "https://vigorayurveda.com/"})
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	tests := []struct {
		name    string
		method  string
		headers map[string]string
		want    int
	}{
		{"get is never checked", http.MethodGet, map[string]string{"Origin": "https://evil.example"}, http.StatusNoContent},
		{"no headers", http.MethodPost, nil, http.StatusNoContent},
		{"allowed origin", http.MethodPost, map[string]string{"Origin": "http://localhost:5173"}, http.StatusNoContent},
		{"allowed origin with trailing slash in config", http.MethodPost, map[string]string{"Origin": "https://vigorayurveda.com"}, http.StatusNoContent},
		{"same host", http.MethodPost, map[string]string{"Origin": "http://api.local"}, http.StatusNoContent},
		{"referer fallback", http.MethodPost, map[string]string{"Referer": "http://localhost:5173/checkout"}, http.StatusNoContent},
		{"foreign origin", http.MethodPost, map[string]string{"Origin": "https://evil.example"}, http.StatusForbidden},
		{"scheme mismatch", http.MethodPost, map[string]string{"Origin": "https://localhost:5173"}, http.StatusForbidden},
		{"garbage origin", http.MethodPost, map[string]string{"Origin": "null"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "http://api.local/api/v1/auth/refresh", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()

			err := h(e.NewContext(req, rec))
			if tt.want == http.StatusNoContent {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, rec.Code)
				return
			}
			var he *echo.HTTPError
			if assert.ErrorAs(t, err, &he) {
				assert.Equal(t, tt.want, he.Code)
			}
		})
	}
}
