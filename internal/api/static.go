package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const bundleMissingMessage = "React app not built. Run \"npm run build\" in the client directory, or use the development server."

// serverOwned reports whether path belongs to a route the server answers
// itself rather than the browser bundle.
func serverOwned(path string) bool {
	for _, prefix := range []string{"/api", "/metrics", "/swagger"} {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// bundleBuilt reports whether dir holds a compiled bundle.
func bundleBuilt(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, "index.html"))
	return err == nil && !info.IsDir()
}

// staticBundle serves files from dir and answers unknown paths with
// index.html so client-side routing works.
func staticBundle(dir string) echo.MiddlewareFunc {
	return echomiddleware.StaticWithConfig(echomiddleware.StaticConfig{
		Root:  dir,
		HTML5: true,
		Skipper: func(c echo.Context) bool {
			return serverOwned(c.Request().URL.Path) || !bundleBuilt(dir)
		},
	})
}

// apiNotFound answers /api paths no route matched.
func apiNotFound(c echo.Context) error {
	return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("API endpoint not found: %s", c.Request().URL.Path))
}

// bundleNotFound answers non-API paths when no bundle is present.
func bundleNotFound(dir string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if bundleBuilt(dir) {
			return c.File(filepath.Join(dir, "index.html"))
		}
		return echo.NewHTTPError(http.StatusNotFound, bundleMissingMessage).
			SetInternal(errors.New("missing " + filepath.Join(dir, "index.html")))
	}
}
