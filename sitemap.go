package pubstatic

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// WriteSitemap encodes a sitemap of every generated page to w. Detail pages
// carry their entity's date as lastmod.
func (a *App) WriteSitemap(w io.Writer, res *BuildResult) error {
	base := a.Config.URL
	urls := make([]sitemapURL, 0, len(res.Pages))
	for _, p := range res.Pages {
		u := sitemapURL{Loc: BuildURL(base, p.Path)}
		if post, ok := res.Graph.Post(p.Context.ID); ok {
			u.LastMod = formatDate(post.Date)
		} else if nb, ok := res.Graph.Notebook(p.Context.ID); ok {
			u.LastMod = formatDate(nb.Date)
		}
		urls = append(urls, u)
	}
	sort.Slice(urls, func(i, j int) bool { return urls[i].Loc < urls[j].Loc })
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(sitemap)
}

// WriteRobots writes a robots.txt allowing every crawler and pointing at the
// sitemap.
func (a *App) WriteRobots(w io.Writer) error {
	_, err := fmt.Fprintf(w, "User-agent: *\nAllow: /\n\nSitemap: %s\n", a.Config.URL+"/sitemap.xml")
	return err
}

func (a *App) handleSitemap(c echo.Context) error {
	res, err := a.Cache.Get(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return a.WriteSitemap(c.Response(), res)
}

func (a *App) handleRobots(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextPlainCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return a.WriteRobots(c.Response())
}
