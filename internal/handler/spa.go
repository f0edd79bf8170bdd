package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// SPA serves the built client: real files as-is, anything else falls back to
// the entry document so client-side routing keeps working on deep links.
func (h *Handler) SPA(c echo.Context) error {
	name := filepath.Join(h.static.ClientDir, path.Clean("/"+c.Request().URL.Path))
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return c.File(name)
	}
	index := filepath.Join(h.static.ClientDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "client application is not built")
	}
	return c.File(index)
}
