package loggingmw

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/vigor_shop/pkg/logging"
)

func TestRequestLogger_CarriesLoggerInContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "info")))
	e.GET("/orders/:id", func(c echo.Context) error {
		logging.FromContext(c.Request().Context()).Info("handler_ran")
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/7", nil)
	req.Header.Set(echo.HeaderXRequestID, "rid-42")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "rid-42", rec.Header().Get(echo.HeaderXRequestID))
	out := buf.String()
	assert.Contains(t, out, `"msg":"handler_ran"`)
	assert.Contains(t, out, `"request_id":"rid-42"`)
	assert.Contains(t, out, `"path":"/orders/:id"`)
}

func TestRequestLogger_HandlesErrorsOnce(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "info")))
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusConflict, "conflict")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, rec.Body.String(), "conflict")
}

func TestRequestLogger_QuietPathsAndUser(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e := echo.New()
	e.Use(WithConfig(Config{
		Logger:     logging.NewWithWriter(&buf, "info"),
		QuietPaths: []string{"/health/live"},
		UserKey:    "user_id",
	}))
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/me", func(c echo.Context) error {
		c.Set("user_id", "u-1")
		return c.String(http.StatusOK, "hi")
	})

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Empty(t, buf.String(), "probe is logged at debug")

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/me", nil))
	out := buf.String()
	assert.Contains(t, out, `"msg":"request_completed"`)
	assert.Contains(t, out, `"user_id":"u-1"`)
	assert.Contains(t, out, `"bytes_out":2`)
}
