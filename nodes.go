package pubstatic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/eringen/pubstatic/markdown"
)

// MaterializeNodes derives a BlogPost for every document under the posts
// root, a Notebook for every document under the notebooks root and a
// Project for every document under the projects root. Documents from other
// roots stay plain files.
func (a *App) MaterializeNodes(ctx context.Context, g *Graph) error {
	for _, doc := range g.Documents() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := LintFrontmatter(doc.Frontmatter); err != nil {
			a.Logger.Warnf("%s/%s: %v", doc.Source, doc.RelativePath, err)
		}
		switch doc.Source {
		case a.Config.ContentPath:
			p, err := a.createBlogPost(ctx, g, doc)
			if err != nil {
				return err
			}
			g.AddPost(p)
		case a.Config.NotebookPath:
			n, err := a.createNotebook(g, doc)
			if err != nil {
				return err
			}
			g.AddNotebook(n)
		case a.Config.ProjectsPath:
			p, err := a.createProject(g, doc)
			if err != nil {
				return err
			}
			g.AddProject(p)
		}
	}
	return nil
}

func (a *App) createBlogPost(ctx context.Context, g *Graph, doc *Document) (*BlogPost, error) {
	fm := doc.Frontmatter
	body, err := a.renderer.Render(doc.Body)
	if err != nil {
		return nil, fmt.Errorf("pubstatic: %s: %w", doc.RelativePath, err)
	}
	body, files, err := a.linkBodyFiles(g, doc, body)
	if err != nil {
		return nil, err
	}
	text, err := markdown.PlainText(body)
	if err != nil {
		return nil, fmt.Errorf("pubstatic: %s: %w", doc.RelativePath, err)
	}

	p := &BlogPost{
		ID:          CreateNodeID(doc.ID + " >>> MdxBlogPost"),
		Parent:      doc.ID,
		Title:       fm.Title,
		Slug:        ResolveSlug(fm.Slug, doc.RelativePath, a.Config.BasePath),
		Date:        a.parseDate(doc, fm.Date),
		Tags:        FilterEmpty(fm.Tags),
		Links:       fm.Links,
		Photograph:  fm.Photograph,
		ReadingTime: fm.ReadingTime,
		Excerpt:     markdown.Prune(text, a.Config.ExcerptLength),
		Body:        body,
		ImageAlt:    fm.ImageAlt,
		Files:       files,
	}
	p.DateForSEO = p.Date
	if fm.DateForSEO != "" {
		p.DateForSEO = a.parseDate(doc, fm.DateForSEO)
	}
	if p.ReadingTime == "" {
		p.ReadingTime = ReadingTime(text)
	}
	p.Image = a.materializeImage(ctx, g, doc, fm.Image)
	p.SocialImage = a.materializeImage(ctx, g, doc, fm.SocialImage)
	p.Digest = ContentDigest(p)
	return p, nil
}

func (a *App) createNotebook(g *Graph, doc *Document) (*Notebook, error) {
	fm := doc.Frontmatter
	body, err := a.renderer.Render(doc.Body)
	if err != nil {
		return nil, fmt.Errorf("pubstatic: %s: %w", doc.RelativePath, err)
	}
	body, files, err := a.linkBodyFiles(g, doc, body)
	if err != nil {
		return nil, err
	}
	n := &Notebook{
		ID:      CreateNodeID(doc.ID + " >>> MdxNotebook"),
		Parent:  doc.ID,
		Title:   fm.Title,
		Slug:    ResolveSlug(fm.Slug, doc.RelativePath, a.Config.BaseNotebooksPath),
		Date:    a.parseDate(doc, fm.Date),
		Tags:    FilterEmpty(fm.Tags),
		Links:   fm.Links,
		Excerpt: markdown.Excerpt(body, a.Config.ExcerptLength),
		Body:    body,
		Files:   files,
	}
	n.DateForSEO = n.Date
	if fm.DateForSEO != "" {
		n.DateForSEO = a.parseDate(doc, fm.DateForSEO)
	}
	n.Digest = ContentDigest(n)
	return n, nil
}

func (a *App) createProject(g *Graph, doc *Document) (*Project, error) {
	fm := doc.Frontmatter
	body, err := a.renderer.Render(doc.Body)
	if err != nil {
		return nil, fmt.Errorf("pubstatic: %s: %w", doc.RelativePath, err)
	}
	body, files, err := a.linkBodyFiles(g, doc, body)
	if err != nil {
		return nil, err
	}
	p := &Project{
		ID:      CreateNodeID(doc.ID + " >>> MdxProject"),
		Parent:  doc.ID,
		Title:   fm.Title,
		Slug:    ListingPath(a.Config.BaseProjectsPath, 1) + "#" + Slugify(fm.Title),
		Date:    a.parseDate(doc, fm.Date),
		Tags:    FilterEmpty(fm.Tags),
		Type:    FilterEmpty(fm.Type),
		Links:   fm.Links,
		Excerpt: markdown.Excerpt(body, a.Config.ExcerptLength),
		Body:    body,
		Files:   files,
	}
	p.Digest = ContentDigest(p)
	return p, nil
}

// parseDate accepts any common date layout. Unparseable values become the
// zero time, which sorts last.
func (a *App) parseDate(doc *Document, s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		a.Logger.Warnf("%s: unparseable date %q", doc.RelativePath, s)
		return time.Time{}
	}
	return t
}
