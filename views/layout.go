// Package views holds the templ components the generator renders pages with.
package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// KaTeX is loaded from a CDN on pages that contain math; math.js
// typesets every .math element once the document is parsed.
const (
	katexCSS = "https://cdn.jsdelivr.net/npm/katex@0.16.9/dist/katex.min.css"
	katexJS  = "https://cdn.jsdelivr.net/npm/katex@0.16.9/dist/katex.min.js"
)

// htmlWriter writes markup and remembers the first error so components can
// be written as straight-line code.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

func (h *htmlWriter) meta(key, name, content string) {
	if content == "" {
		return
	}
	h.raw("<meta")
	h.attr(key, name)
	h.attr("content", content)
	h.raw(">")
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func (h *htmlWriter) image(img *Image, class string) {
	if img == nil {
		return
	}
	h.raw("<img")
	if class != "" {
		h.attr("class", class)
	}
	h.attr("src", img.Src)
	h.attr("alt", img.Alt)
	if img.Width > 0 && img.Height > 0 {
		h.attr("width", strconv.Itoa(img.Width))
		h.attr("height", strconv.Itoa(img.Height))
	}
	h.raw(">")
}

func (h *htmlWriter) tags(tags []string) {
	if len(tags) == 0 {
		return
	}
	h.raw(`<ul class="tags">`)
	for _, t := range tags {
		h.raw(`<li class="tag">`)
		h.text(t)
		h.raw("</li>")
	}
	h.raw("</ul>")
}

// Layout wraps body in the document shell with the SEO head. jsonLD is
// emitted verbatim inside a ld+json script when non-empty.
func Layout(cfg SiteConfig, meta PageMeta, jsonLD string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		title := cfg.Title
		if meta.Title != "" && meta.Title != cfg.Title {
			title = meta.Title + " | " + cfg.Title
		}
		description := meta.Description
		if description == "" {
			description = cfg.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw("<title>")
		h.text(title)
		h.raw("</title>")
		h.meta("name", "description", description)
		if meta.URL != "" {
			h.raw(`<link rel="canonical"`)
			h.attr("href", meta.URL)
			h.raw(">")
		}
		h.meta("property", "og:title", meta.Title)
		h.meta("property", "og:description", description)
		h.meta("property", "og:url", meta.URL)
		h.meta("property", "og:type", ogType)
		h.meta("property", "og:site_name", cfg.Name)
		h.meta("property", "og:image", meta.Image)
		if meta.Image != "" {
			h.meta("name", "twitter:card", "summary_large_image")
		} else {
			h.meta("name", "twitter:card", "summary")
		}
		h.meta("name", "twitter:creator", cfg.Author)
		h.meta("name", "twitter:title", meta.Title)
		h.meta("name", "twitter:description", description)
		h.meta("name", "twitter:image", meta.Image)
		if ogType == "article" {
			h.meta("property", "article:published_time", meta.Published)
			h.meta("property", "article:modified_time", meta.Modified)
			for _, t := range meta.Tags {
				h.meta("property", "article:tag", t)
			}
		}
		h.meta("name", "keywords", JoinTags(meta.Tags))
		h.raw(`<link rel="alternate" type="application/rss+xml"`)
		h.attr("title", cfg.Title)
		h.raw(` href="/rss.xml"><link rel="stylesheet" href="/style.css">`)
		if meta.Math {
			h.raw(`<link rel="stylesheet" crossorigin="anonymous"`)
			h.attr("href", katexCSS)
			h.raw(`><script defer crossorigin="anonymous"`)
			h.attr("src", katexJS)
			h.raw(`></script><script defer src="/math.js"></script>`)
		}
		if jsonLD != "" {
			h.raw(`<script type="application/ld+json">`, jsonLD, "</script>")
		}
		h.raw("</head><body>")

		h.raw(`<header class="site-header"><a class="site-name" href="/">`)
		h.text(cfg.Name)
		h.raw(`</a><nav><a href="/">Blog</a>`)
		for _, l := range cfg.Nav {
			h.raw("<a")
			h.attr("href", l.URL)
			h.raw(">")
			h.text(l.Title)
			h.raw("</a>")
		}
		h.raw("</nav></header><main>")
		h.component(ctx, body)
		h.raw(`</main><footer class="site-footer">`)
		for _, s := range cfg.Social {
			if safeLink(s.URL) == "" {
				continue
			}
			h.raw(`<a rel="me noopener"`)
			h.attr("href", s.URL)
			h.raw(">")
			h.text(s.Title)
			h.raw("</a>")
		}
		if cfg.Author != "" {
			h.raw("<p>")
			h.text("© " + cfg.Author)
			h.raw("</p>")
		}
		h.raw("</footer></body></html>")
		return h.err
	})
}

// Pagination renders Prev, numbered pages and Next. Nothing is rendered
// for a single page.
func Pagination(p Pager) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if p.PageCount <= 1 {
			return nil
		}
		h := &htmlWriter{w: w}
		h.raw(`<nav class="pagination" aria-label="Pagination">`)
		if !p.First {
			h.raw(`<a rel="prev"`)
			h.attr("href", PageURL(p.PathPrefix, p.Index-1))
			h.raw(">Prev</a>")
		}
		for n := 1; n <= p.PageCount; n++ {
			if n == p.Index {
				h.raw(`<span aria-current="page">`, strconv.Itoa(n), "</span>")
				continue
			}
			h.raw("<a")
			h.attr("href", PageURL(p.PathPrefix, n))
			h.raw(">", strconv.Itoa(n), "</a>")
		}
		if !p.Last {
			h.raw(`<a rel="next"`)
			h.attr("href", PageURL(p.PathPrefix, p.Index+1))
			h.raw(">Next</a>")
		}
		h.raw("</nav>")
		return h.err
	})
}
