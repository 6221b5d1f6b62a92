package views

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/pubstatic/markdown"
)

const (
	heroWidth   = 200
	avatarWidth = 40
)

// PostPage renders a blog post detail page.
func PostPage(cfg SiteConfig, post BlogPost) templ.Component {
	meta := PageMeta{
		Title:       post.Title,
		Description: post.Excerpt,
		URL:         AbsoluteURL(cfg.URL, post.URL),
		OGType:      "article",
		Published:   post.DateISO,
		Modified:    post.DateISO,
		Tags:        post.Tags,
		Math:        markdown.HasMath(post.Body),
	}
	if post.SocialImage != "" {
		meta.Image = AbsoluteURL(cfg.URL, post.SocialImage)
	} else if post.Image != nil {
		meta.Image = AbsoluteURL(cfg.URL, post.Image.Src)
	}
	return Layout(cfg, meta, NewsArticleJsonLD(cfg, post), postBody(cfg, post))
}

func postBody(cfg SiteConfig, post BlogPost) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<article class="post"><header><h1>`)
		h.text(post.Title)
		h.raw(`</h1><p class="byline">`)
		if cfg.Author != "" {
			h.image(fitImage(cfg.AuthorImage, avatarWidth), "avatar")
			h.raw(`<span class="author">`)
			h.text(cfg.Author)
			h.raw("</span> · ")
		}
		h.raw("<time")
		h.attr("datetime", post.DateISO)
		h.raw(">")
		h.text(post.Date)
		h.raw("</time>")
		if post.ReadingTime != "" {
			h.raw(` · <span class="reading-time">`)
			h.text(post.ReadingTime)
			h.raw("</span>")
		}
		h.raw("</p>")
		h.tags(post.Tags)
		h.raw("</header>")
		if post.Image != nil {
			h.raw("<figure><img")
			h.attr("src", post.Image.Src)
			h.attr("alt", post.Image.Alt)
			if post.Image.Width > 0 && post.Image.Height > 0 {
				h.attr("width", strconv.Itoa(post.Image.Width))
				h.attr("height", strconv.Itoa(post.Image.Height))
			}
			h.raw(` fetchpriority="high" decoding="async">`)
			if post.Photograph != "" {
				h.raw("<figcaption>")
				h.text(post.Photograph)
				h.raw("</figcaption>")
			}
			h.raw("</figure>")
		}
		h.raw(`<div class="prose">`)
		h.component(ctx, markdown.Markdown(post.Body))
		h.raw("</div>")
		h.neighbours(post.Previous, post.Next)
		if len(post.Related) > 0 {
			h.raw(`<aside class="related"><h2>Related</h2>`)
			h.entries(post.Related)
			h.raw("</aside>")
		}
		h.raw("</article>")
		return h.err
	})
}

// NotebookPage renders a notebook detail page with its Colab and GitHub badges.
func NotebookPage(cfg SiteConfig, nb Notebook) templ.Component {
	meta := PageMeta{
		Title:       nb.Title,
		Description: nb.Excerpt,
		URL:         AbsoluteURL(cfg.URL, nb.URL),
		OGType:      "article",
		Published:   nb.DateISO,
		Modified:    nb.DateISO,
		Tags:        nb.Tags,
		Math:        markdown.HasMath(nb.Body),
	}
	colab, github := safeLink(nb.Colab), safeLink(nb.Github)
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<article class="notebook"><header><h1>`)
		h.text(nb.Title)
		h.raw(`</h1><p class="byline"><time`)
		h.attr("datetime", nb.DateISO)
		h.raw(">")
		h.text(nb.Date)
		h.raw("</time></p>")
		h.tags(nb.Tags)
		if colab != "" || github != "" {
			h.raw(`<p class="badges">`)
			if colab != "" {
				h.raw(`<a class="badge badge-colab" rel="noopener noreferrer" target="_blank"`)
				h.attr("href", colab)
				h.raw(">Open in Colab</a>")
			}
			if github != "" {
				h.raw(`<a class="badge badge-github" rel="noopener noreferrer" target="_blank"`)
				h.attr("href", github)
				h.raw(">View on GitHub</a>")
			}
			h.raw("</p>")
		}
		h.raw(`</header><div class="prose">`)
		h.component(ctx, markdown.Markdown(nb.Body))
		h.raw("</div>")
		h.neighbours(nb.Previous, nb.Next)
		h.raw("</article>")
		return h.err
	})
	return Layout(cfg, meta, "", body)
}

// ListingPage renders one page of a paginated section.
func ListingPage(cfg SiteConfig, l Listing) templ.Component {
	meta := PageMeta{
		Title: l.Title,
		URL:   AbsoluteURL(cfg.URL, PageURL(l.Pager.PathPrefix, l.Pager.Index)),
	}
	if l.Pager.Index > 1 {
		meta.Title = l.Title + " - Page " + strconv.Itoa(l.Pager.Index)
	}
	jsonLD := ""
	if l.Pager.PathPrefix == "/" && l.Pager.First {
		jsonLD = WebsiteJsonLD(cfg)
	}
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		if jsonLD != "" {
			h.hero(cfg)
		}
		h.raw(`<section class="listing"><h1>`)
		h.text(Heading(l.Title))
		h.raw("</h1>")
		h.tags(l.AllTags)
		if len(l.Entries) == 0 {
			h.raw(`<p class="empty">Nothing here yet.</p>`)
		}
		h.entries(l.Entries)
		h.component(ctx, Pagination(l.Pager))
		h.raw("</section>")
		return h.err
	})
	return Layout(cfg, meta, jsonLD, body)
}

// ProjectsPage renders the projects overview.
func ProjectsPage(cfg SiteConfig, p Projects) templ.Component {
	meta := PageMeta{
		Title:       p.Title,
		Description: "Project overview",
		URL:         AbsoluteURL(cfg.URL, p.URL),
		Tags:        p.Tags,
	}
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="projects"><h1>`)
		h.text(p.Title)
		h.raw("</h1>")
		h.tags(p.Tags)
		if len(p.Projects) == 0 {
			h.raw(`<p class="empty">Nothing here yet.</p>`)
		}
		for _, pr := range p.Projects {
			h.project(pr)
		}
		h.raw("</section>")
		return h.err
	})
	return Layout(cfg, meta, "", body)
}

// NotFound renders the 404 page.
func NotFound(cfg SiteConfig) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="not-found"><h1>Page not found</h1><p>The page you were looking for does not exist. <a href="/">Back to the blog</a>.</p></section>`)
		return h.err
	})
	return Layout(cfg, PageMeta{Title: "Not found"}, "", body)
}

func (h *htmlWriter) entries(entries []Entry) {
	if len(entries) == 0 {
		return
	}
	h.raw(`<ul class="entries">`)
	for _, e := range entries {
		h.raw(`<li class="entry"><h2><a`)
		h.attr("href", e.URL)
		h.raw(">")
		h.text(e.Title)
		h.raw("</a></h2><p class=\"byline\">")
		h.text(e.Date)
		if e.ReadingTime != "" {
			h.raw(" · ")
			h.text(e.ReadingTime)
		}
		h.raw("</p>")
		if e.Excerpt != "" {
			h.raw("<p>")
			h.text(e.Excerpt)
			h.raw("</p>")
		}
		h.tags(e.Tags)
		h.raw("</li>")
	}
	h.raw("</ul>")
}

func (h *htmlWriter) neighbours(prev, next *Link) {
	if prev == nil && next == nil {
		return
	}
	h.raw(`<nav class="neighbours">`)
	if prev != nil {
		h.raw(`<a rel="prev"`)
		h.attr("href", prev.URL)
		h.raw(">← ")
		h.text(prev.Title)
		h.raw("</a>")
	}
	if next != nil {
		h.raw(`<a rel="next"`)
		h.attr("href", next.URL)
		h.raw(">")
		h.text(next.Title)
		h.raw(" →</a>")
	}
	h.raw("</nav>")
}

func (h *htmlWriter) hero(cfg SiteConfig) {
	if cfg.Hero.Heading == "" && cfg.AuthorImage == nil {
		return
	}
	h.raw(`<header class="hero">`)
	h.image(fitImage(cfg.AuthorImage, heroWidth), "avatar avatar-lg")
	if cfg.Hero.Heading != "" {
		h.raw("<h2>")
		h.text(cfg.Hero.Heading)
		h.raw("</h2>")
	}
	if cfg.Hero.Subheading != "" {
		h.raw(`<p class="subheading">`)
		h.text(cfg.Hero.Subheading)
		h.raw("</p>")
	}
	h.raw("</header>")
}

func (h *htmlWriter) project(p Project) {
	h.raw(`<article class="project"`)
	if p.Anchor != "" {
		h.attr("id", p.Anchor)
	}
	h.raw("><header><h2>")
	if website := safeLink(p.Website); website != "" {
		h.raw(`<a rel="noopener" target="_blank"`)
		h.attr("href", website)
		h.raw(">")
		h.text(p.Title)
		h.raw("</a>")
	} else {
		h.text(p.Title)
	}
	h.raw("</h2>")
	h.tags(p.Tags)
	if len(p.Type) > 0 {
		h.raw(`<p class="project-type">`)
		h.text(strings.Join(p.Type, "; "))
		h.raw("</p>")
	}
	h.raw("</header>")
	if p.Excerpt != "" {
		h.raw("<p>")
		h.text(p.Excerpt)
		h.raw("</p>")
	}
	github, examples := safeLink(p.Github), safeLink(p.Examples)
	if github != "" || examples != "" {
		h.raw(`<p class="badges">`)
		if github != "" {
			h.raw(`<a class="badge badge-github" rel="noopener noreferrer" target="_blank"`)
			h.attr("href", github)
			h.raw(">GitHub</a>")
		}
		if examples != "" {
			h.raw(`<a class="badge badge-examples" rel="noopener noreferrer" target="_blank"`)
			h.attr("href", examples)
			h.raw(">Examples</a>")
		}
		h.raw("</p>")
	}
	h.raw("</article>")
}

// fitImage returns img scaled down to width, keeping its ratio.
func fitImage(img *Image, width int) *Image {
	if img == nil || img.Width <= width || img.Width == 0 {
		return img
	}
	out := *img
	out.Width = width
	out.Height = max(1, img.Height*width/img.Width)
	return &out
}

// safeLink drops links whose scheme is not safe to put in an href.
func safeLink(raw string) string {
	if markdown.SafeURL(raw) == "" {
		return ""
	}
	return raw
}
