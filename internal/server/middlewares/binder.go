package middlewares

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type binder struct {
	echo.DefaultBinder
	methodsWithBody map[string]bool
}

// NewBinder returns a wrapp of the default binder implementation with extra checks.
// Requests that carry a body must be non-empty JSON documents.
func NewBinder() echo.Binder {
	return &binder{
		methodsWithBody: map[string]bool{
			http.MethodPost:  true,
			http.MethodPatch: true,
			http.MethodPut:   true,
		},
	}
}

// Bind implements the echo.Bind interface.
func (b *binder) Bind(i any, c echo.Context) (err error) {
	req := c.Request()
	if b.methodsWithBody[req.Method] {
		if req.ContentLength == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Request body can't be empty")
		}
		if !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
			return echo.NewHTTPError(http.StatusUnsupportedMediaType, "Request body must be JSON")
		}
	}
	return b.DefaultBinder.Bind(i, c)
}
