package pubstatic

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/pubstatic/views"
)

const (
	displayDate  = "January 2, 2006"
	relatedLimit = 3
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// SiteView converts the configuration to the view-layer site settings. res
// supplies the author image and may be nil.
func (a *App) SiteView(res *BuildResult) views.SiteConfig {
	cfg := a.Config
	site := views.SiteConfig{
		Name:        cfg.Name,
		Title:       cfg.Title,
		URL:         cfg.URL,
		Description: cfg.Description,
		Author:      cfg.Author,
		Hero:        views.Hero{Heading: cfg.Hero.Heading, Subheading: cfg.Hero.Subheading},
	}
	if res != nil && res.Author != nil {
		site.AuthorImage = &views.Image{
			Src:    ImageURL(res.Author),
			Alt:    cfg.Author,
			Width:  res.Author.Width,
			Height: res.Author.Height,
		}
	}
	for _, s := range cfg.Social {
		site.Social = append(site.Social, views.Link{Title: s.Name, URL: s.URL})
	}
	for _, s := range cfg.Sections {
		site.Nav = append(site.Nav, views.Link{Title: s.Title, URL: ListingPath(s.Path, 1)})
	}
	site.Nav = append(site.Nav,
		views.Link{Title: "Notebooks", URL: ListingPath(cfg.BaseNotebooksPath, 1)},
		views.Link{Title: "Projects", URL: ListingPath(cfg.BaseProjectsPath, 1)},
	)
	return site
}

// PageComponent returns the component that renders page from res, using
// the App's view functions.
func (a *App) PageComponent(res *BuildResult, page Page) (templ.Component, error) {
	site := a.SiteView(res)
	switch page.Template {
	case TemplatePost:
		p, ok := res.Graph.Post(page.Context.ID)
		if !ok {
			return nil, fmt.Errorf("pubstatic: post %s: %w", page.Context.ID, ErrNotFound)
		}
		return a.Views.Post(site, a.postView(res, p, page.Context)), nil
	case TemplateNotebook:
		n, ok := res.Graph.Notebook(page.Context.ID)
		if !ok {
			return nil, fmt.Errorf("pubstatic: notebook %s: %w", page.Context.ID, ErrNotFound)
		}
		return a.Views.Notebook(site, a.notebookView(res, n, page.Context)), nil
	case TemplatePosts, TemplateNotebooks:
		if page.Context.Listing == nil {
			return nil, fmt.Errorf("pubstatic: page %s has no listing", page.Path)
		}
		return a.Views.Listing(site, a.listingView(res, page.Context.Listing)), nil
	case TemplateProjects:
		return a.Views.Projects(site, a.projectsView(res, page)), nil
	default:
		return nil, fmt.Errorf("pubstatic: unknown template %q for %s", page.Template, page.Path)
	}
}

func (a *App) postView(res *BuildResult, p *BlogPost, ctx PageContext) views.BlogPost {
	v := views.BlogPost{
		Title:       p.Title,
		URL:         p.Slug,
		Date:        displayTime(p.Date),
		DateISO:     isoTime(p.DateForSEO),
		Tags:        p.Tags,
		ReadingTime: p.ReadingTime,
		Excerpt:     p.Excerpt,
		Body:        p.Body,
		Photograph:  p.Photograph,
		SocialImage: ImageURL(p.SocialImage),
	}
	if p.Image != nil {
		w, h := fitWidth(p.Image.Width, p.Image.Height, ctx.MaxWidth)
		v.Image = &views.Image{Src: ImageURL(p.Image), Alt: p.ImageAlt, Width: w, Height: h}
	}
	if prev, ok := res.Graph.Post(ctx.PreviousID); ok {
		v.Previous = &views.Link{Title: prev.Title, URL: prev.Slug}
	}
	if next, ok := res.Graph.Post(ctx.NextID); ok {
		v.Next = &views.Link{Title: next.Title, URL: next.Slug}
	}
	all := make([]views.Entry, 0, len(res.Posts))
	for _, other := range res.Posts {
		all = append(all, postEntryView(other))
	}
	v.Related = views.FilterRelated(p.Slug, p.Tags, all, relatedLimit)
	return v
}

func (a *App) notebookView(res *BuildResult, n *Notebook, ctx PageContext) views.Notebook {
	v := views.Notebook{
		Title:   n.Title,
		URL:     n.Slug,
		Date:    displayTime(n.Date),
		DateISO: isoTime(n.DateForSEO),
		Tags:    n.Tags,
		Excerpt: n.Excerpt,
		Body:    n.Body,
		Colab:   n.Links.Colab,
		Github:  n.Links.Github,
	}
	if prev, ok := res.Graph.Notebook(ctx.PreviousID); ok {
		v.Previous = &views.Link{Title: prev.Title, URL: prev.Slug}
	}
	if next, ok := res.Graph.Notebook(ctx.NextID); ok {
		v.Next = &views.Link{Title: next.Title, URL: next.Slug}
	}
	return v
}

func (a *App) listingView(res *BuildResult, l *Listing) views.Listing {
	v := views.Listing{
		Title:   l.Title,
		AllTags: l.AllTags,
		Pager: views.Pager{
			Index:      l.Index,
			PageCount:  l.PageCount,
			PathPrefix: l.PathPrefix,
			First:      l.First,
			Last:       l.Last,
		},
	}
	for _, e := range l.Group {
		if p, ok := res.Graph.Post(e.ID); ok {
			v.Entries = append(v.Entries, postEntryView(p))
			continue
		}
		if n, ok := res.Graph.Notebook(e.ID); ok {
			v.Entries = append(v.Entries, views.Entry{
				Title:   n.Title,
				URL:     n.Slug,
				Date:    displayTime(n.Date),
				Tags:    n.Tags,
				Excerpt: n.Excerpt,
			})
		}
	}
	return v
}

func (a *App) projectsView(res *BuildResult, page Page) views.Projects {
	v := views.Projects{Title: "Projects", URL: page.Path}
	entries := make([]Entry, 0, len(res.Projects))
	for _, p := range res.Projects {
		entries = append(entries, Entry{ID: p.ID, Slug: p.Slug, Title: p.Title, Date: p.Date, Tags: p.Tags})
		_, anchor, _ := strings.Cut(p.Slug, "#")
		v.Projects = append(v.Projects, views.Project{
			Title:    p.Title,
			Anchor:   anchor,
			Tags:     p.Tags,
			Type:     p.Type,
			Excerpt:  p.Excerpt,
			Github:   p.Links.Github,
			Examples: p.Links.Examples,
			Website:  p.Links.Website,
		})
	}
	v.Tags = dedupTags(entries)
	return v
}

func postEntryView(p *BlogPost) views.Entry {
	return views.Entry{
		Title:       p.Title,
		URL:         p.Slug,
		Date:        displayTime(p.Date),
		Tags:        p.Tags,
		Excerpt:     p.Excerpt,
		ReadingTime: p.ReadingTime,
	}
}

// fitWidth scales intrinsic dimensions down to maxWidth, keeping the ratio.
func fitWidth(w, h, maxWidth int) (int, int) {
	if maxWidth <= 0 || w <= maxWidth || w == 0 {
		return w, h
	}
	return maxWidth, h * maxWidth / w
}

func displayTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(displayDate)
}

func isoTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
