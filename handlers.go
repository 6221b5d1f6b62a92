package pubstatic

import (
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
)

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/style.css", embeddedHandler(stylesheetPath, "text/css; charset=utf-8"))
	e.GET("/math.js", embeddedHandler(mathScriptPath, "text/javascript; charset=utf-8"))
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/rss.xml", a.handleFeed)
	e.GET("/static/:dir/:name", a.handleStatic)
	e.POST("/__rebuild", a.handleRebuild)
	e.GET("/*", a.handlePage)
}

func (a *App) handlePage(c echo.Context) error {
	res, err := a.Cache.Get(c.Request().Context())
	if err != nil {
		return err
	}
	page, ok := res.Page(c.Request().URL.Path)
	if !ok {
		return echo.ErrNotFound
	}
	cmp, err := a.PageComponent(res, page)
	if err != nil {
		return err
	}
	return Render(c, cmp)
}

func (a *App) handleStatic(c echo.Context) error {
	res, err := a.Cache.Get(c.Request().Context())
	if err != nil {
		return err
	}
	f, ok := StaticFiles(res)[c.Request().URL.Path]
	if !ok {
		return echo.ErrNotFound
	}
	data, err := os.ReadFile(f.AbsolutePath)
	if err != nil {
		return err
	}
	if out, _, _, err := ProcessImage(data, a.Config.ImageMaxWidth); err == nil {
		data = out
	} else {
		c.Logger().Warnf("serving %s unprocessed: %v", f.AbsolutePath, err)
	}
	return c.Blob(http.StatusOK, http.DetectContentType(data), data)
}

func embeddedHandler(name, contentType string) echo.HandlerFunc {
	return func(c echo.Context) error {
		data, err := fs.ReadFile(EmbeddedAssets, name)
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, contentType, data)
	}
}

type rebuildResponse struct {
	Posts     int    `json:"posts"`
	Notebooks int    `json:"notebooks"`
	Pages     int    `json:"pages"`
	BuiltAt   string `json:"builtAt"`
}

func (a *App) handleRebuild(c echo.Context) error {
	a.Cache.Invalidate()
	res, err := a.Cache.Get(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rebuildResponse{
		Posts:     len(res.Posts),
		Notebooks: len(res.Notebooks),
		Pages:     len(res.Pages),
		BuiltAt:   res.BuiltAt.UTC().Format(time.RFC3339),
	})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.SiteView(nil)))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
