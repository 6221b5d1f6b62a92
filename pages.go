package pubstatic

import (
	"strconv"
	"strings"
	"time"
)

// entryLess orders by date then title, both descending. The id breaks
// remaining ties so the order is stable across builds.
func entryLess(di time.Time, ti, idi string, dj time.Time, tj, idj string) bool {
	if !di.Equal(dj) {
		return di.After(dj)
	}
	if ti != tj {
		return ti > tj
	}
	return idi < idj
}

// PostEntries projects sorted posts to entries.
func PostEntries(posts []*BlogPost) []Entry {
	out := make([]Entry, 0, len(posts))
	for _, p := range posts {
		out = append(out, Entry{ID: p.ID, Slug: p.Slug, Title: p.Title, Date: p.Date, Tags: p.Tags})
	}
	return out
}

// NotebookEntries projects sorted notebooks to entries.
func NotebookEntries(nbs []*Notebook) []Entry {
	out := make([]Entry, 0, len(nbs))
	for _, n := range nbs {
		out = append(out, Entry{ID: n.ID, Slug: n.Slug, Title: n.Title, Date: n.Date, Tags: n.Tags})
	}
	return out
}

// DetailPages creates one page per entry at its slug. Entries are newest
// first, so the previous page is the next element and the next page the one
// before it.
func DetailPages(entries []Entry, template string, maxWidth int) []Page {
	pages := make([]Page, 0, len(entries))
	for i, e := range entries {
		ctx := PageContext{ID: e.ID, MaxWidth: maxWidth}
		if i+1 < len(entries) {
			ctx.PreviousID = entries[i+1].ID
		}
		if i > 0 {
			ctx.NextID = entries[i-1].ID
		}
		pages = append(pages, Page{Path: e.Slug, Template: template, Context: ctx})
	}
	return pages
}

// ListingPath returns the URL of the index-th (1-based) listing page under
// prefix: the prefix itself for the first page, "<prefix>page/<n>/" after.
func ListingPath(prefix string, index int) string {
	prefix = NormalizeTrailingSlash(URLResolve(prefix))
	if index <= 1 {
		return prefix
	}
	return prefix + "page/" + strconv.Itoa(index) + "/"
}

// Paginate splits entries into listing pages of size. An empty list still
// yields one page so every section has an index.
func Paginate(section, title string, entries []Entry, size int, prefix, template string) []Page {
	if size <= 0 {
		size = len(entries)
		if size == 0 {
			size = 1
		}
	}
	pageCount := (len(entries) + size - 1) / size
	if pageCount == 0 {
		pageCount = 1
	}
	prefix = NormalizeTrailingSlash(URLResolve(prefix))

	pages := make([]Page, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		start := i * size
		end := min(start+size, len(entries))
		group := entries[start:end:end]
		pages = append(pages, Page{
			Path:     ListingPath(prefix, i+1),
			Template: template,
			Context: PageContext{
				Listing: &Listing{
					Section:    section,
					Title:      title,
					Group:      group,
					Index:      i + 1,
					First:      i == 0,
					Last:       i == pageCount-1,
					PageCount:  pageCount,
					Total:      len(entries),
					PathPrefix: prefix,
					AllTags:    dedupTags(group),
				},
			},
		})
	}
	return pages
}

// FilterByTags keeps entries carrying at least one of tags. Matching is exact.
func FilterByTags(entries []Entry, tags []string) []Entry {
	want := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		want[t] = struct{}{}
	}
	var out []Entry
	for _, e := range entries {
		for _, t := range e.Tags {
			if _, ok := want[t]; ok {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// dedupTags collects the tags of entries in first-seen order.
func dedupTags(entries []Entry) []string {
	seen := make(map[string]struct{})
	tags := []string{}
	for _, e := range entries {
		for _, t := range e.Tags {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	return tags
}

// CreatePages generates detail pages for every post and notebook, the
// paginated blog, section and notebook listings, and the projects page.
// When two pages claim the same path the one created later replaces the
// earlier one and a warning is logged.
func (a *App) CreatePages(g *Graph) []Page {
	cfg := a.Config
	posts := PostEntries(g.Posts(cfg.QueryLimit))
	notebooks := NotebookEntries(g.Notebooks(cfg.QueryLimit))

	var pages []Page
	pages = append(pages, DetailPages(posts, TemplatePost, cfg.ImageMaxWidth)...)
	pages = append(pages, Paginate("blog", cfg.Title, posts, cfg.BlogPostPageLength, cfg.BasePath, TemplatePosts)...)
	for _, s := range cfg.Sections {
		pages = append(pages, Paginate(s.Name, s.Title, FilterByTags(posts, s.Tags), s.PageSize, s.Path, TemplatePosts)...)
	}
	pages = append(pages, DetailPages(notebooks, TemplateNotebook, cfg.ImageMaxWidth)...)
	pages = append(pages, Paginate("notebooks", "Notebooks", notebooks, cfg.NotebooksPageLength, cfg.BaseNotebooksPath, TemplateNotebooks)...)
	pages = append(pages, Page{Path: ListingPath(cfg.BaseProjectsPath, 1), Template: TemplateProjects})

	return a.replaceDuplicatePages(pages)
}

// replaceDuplicatePages keeps one page per path. A later page takes the
// slot of the earlier page it replaces, so the order stays stable.
func (a *App) replaceDuplicatePages(pages []Page) []Page {
	out := make([]Page, 0, len(pages))
	index := make(map[string]int, len(pages))
	for _, p := range pages {
		if i, ok := index[p.Path]; ok {
			a.Logger.Warnf("%s claimed by both %s and %s, keeping %s",
				p.Path, describePage(out[i]), describePage(p), describePage(p))
			out[i] = p
			continue
		}
		index[p.Path] = len(out)
		out = append(out, p)
	}
	return out
}

func describePage(p Page) string {
	if p.Context.Listing != nil {
		return p.Template + " listing " + p.Context.Listing.Section
	}
	if p.Context.ID == "" {
		return p.Template + " page"
	}
	return p.Template + " " + p.Context.ID
}
