// Package pubstatic is a static blog generator built with Go, Echo, and templ.
// It sources Markdown/MDX posts and notebooks, resolves slugs and images,
// paginates listings, and writes a static site with RSS and a sitemap.
//
// The same build can be previewed through an Echo server that rebuilds
// on a short TTL.
package pubstatic

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/pubstatic/markdown"
	"github.com/eringen/pubstatic/views"
)

// BuildResult is the outcome of one build: the content graph, the sorted
// derived nodes, and the generated pages.
type BuildResult struct {
	Graph     *Graph
	Posts     []*BlogPost
	Notebooks []*Notebook
	Projects  []*Project
	Author    *FileNode // hero image, nil when the author root has none
	Pages     []Page
	BuiltAt   time.Time

	byPath map[string]int
}

// Page returns the page generated at path.
func (r *BuildResult) Page(path string) (Page, bool) {
	i, ok := r.byPath[path]
	if !ok {
		return Page{}, false
	}
	return r.Pages[i], true
}

// ViewFuncs holds the templ components pages are rendered with. Site owners
// pass their own to New to take over any template; nil fields fall back to
// the views package.
type ViewFuncs struct {
	Post     func(site views.SiteConfig, post views.BlogPost) templ.Component
	Notebook func(site views.SiteConfig, nb views.Notebook) templ.Component
	Listing  func(site views.SiteConfig, l views.Listing) templ.Component
	Projects func(site views.SiteConfig, p views.Projects) templ.Component
	NotFound func(site views.SiteConfig) templ.Component
}

func (v *ViewFuncs) setDefaults() {
	if v.Post == nil {
		v.Post = views.PostPage
	}
	if v.Notebook == nil {
		v.Notebook = views.NotebookPage
	}
	if v.Listing == nil {
		v.Listing = views.ListingPage
	}
	if v.Projects == nil {
		v.Projects = views.ProjectsPage
	}
	if v.NotFound == nil {
		v.NotFound = views.NotFound
	}
}

// App is the central pubstatic application. It wires together the store,
// fetcher, renderer, cache, templates and the preview server.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *SiteCache
	Logger *log.Logger
	Views  ViewFuncs

	root     string
	fetcher  *RemoteFetcher
	renderer *markdown.Renderer
}

// New creates a new pubstatic App with the given configuration and view
// functions.
func New(cfg SiteConfig, v ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()
	v.setDefaults()

	a := &App{
		Config:   cfg,
		Echo:     echo.New(),
		Views:    v,
		root:     ".",
		renderer: markdown.NewRenderer(),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.Logger == nil {
		a.Logger = log.New("pubstatic")
		a.Logger.SetHeader("${time_rfc3339} ${level} ${prefix}")
		a.Logger.SetLevel(parseLevel(a.Config.LogLevel))
	}
	a.Echo.HideBanner = true
	a.Echo.Logger = a.Logger
	return a
}

// path resolves p against the project root unless it is absolute.
func (a *App) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.root, p)
}

// Open initializes the build store and remote fetcher if they are not set
// yet. Build and Serve call it themselves.
func (a *App) Open() error {
	if a.Store == nil {
		store, err := NewStore(a.path(a.Config.DatabasePath))
		if err != nil {
			return fmt.Errorf("pubstatic: init store: %w", err)
		}
		a.Store = store
	}
	if a.fetcher == nil {
		client := &http.Client{Timeout: a.Config.FetchTimeout}
		a.fetcher = NewRemoteFetcher(client, a.path(a.Config.CacheDir), a.Store)
	}
	return nil
}

// Build sources every content root, materializes posts, notebooks and
// projects, creates pages and records the result in the build store.
func (a *App) Build(ctx context.Context) (*BuildResult, error) {
	start := time.Now()
	if err := a.Open(); err != nil {
		return nil, err
	}
	if err := EnsureContentDirs(a.root, a.Config); err != nil {
		return nil, err
	}

	g := NewGraph()
	for _, source := range a.Config.ContentRoots() {
		if err := a.SourceFilesystem(g, source); err != nil {
			return nil, err
		}
	}
	if err := a.MaterializeNodes(ctx, g); err != nil {
		return nil, err
	}
	pages := a.CreatePages(g)

	res := &BuildResult{
		Graph:     g,
		Posts:     g.Posts(a.Config.QueryLimit),
		Notebooks: g.Notebooks(a.Config.QueryLimit),
		Projects:  g.Projects(),
		Pages:     pages,
		BuiltAt:   time.Now(),
		byPath:    make(map[string]int, len(pages)),
	}
	for i, p := range pages {
		res.byPath[p.Path] = i
	}
	if f, ok := g.AuthorImage(a.Config.AuthorPath, a.Config.Hero.Image); ok {
		res.Author = f
	}

	if err := a.persist(res, time.Since(start)); err != nil {
		return nil, err
	}
	remote := 0
	for _, f := range g.Files() {
		if f.Source == remoteSource {
			remote++
		}
	}
	a.Logger.Infof("built %d posts, %d notebooks, %d pages (%d remote files) in %s",
		len(res.Posts), len(res.Notebooks), len(res.Pages), remote, time.Since(start).Round(time.Millisecond))
	return res, nil
}

func (a *App) persist(res *BuildResult, took time.Duration) error {
	posts := make([]StoredNode, 0, len(res.Posts))
	for _, p := range res.Posts {
		posts = append(posts, StoredNode{
			ID: p.ID, Kind: KindPost, Slug: p.Slug, Title: p.Title, Date: formatDate(p.Date),
			Tags: p.Tags, Excerpt: p.Excerpt, ReadingTime: p.ReadingTime, Digest: p.Digest,
		})
	}
	if err := a.Store.ReplaceNodes(KindPost, posts); err != nil {
		return fmt.Errorf("pubstatic: persist posts: %w", err)
	}
	notebooks := make([]StoredNode, 0, len(res.Notebooks))
	for _, n := range res.Notebooks {
		notebooks = append(notebooks, StoredNode{
			ID: n.ID, Kind: KindNotebook, Slug: n.Slug, Title: n.Title, Date: formatDate(n.Date),
			Tags: n.Tags, Excerpt: n.Excerpt, Digest: n.Digest,
		})
	}
	if err := a.Store.ReplaceNodes(KindNotebook, notebooks); err != nil {
		return fmt.Errorf("pubstatic: persist notebooks: %w", err)
	}
	projects := make([]StoredNode, 0, len(res.Projects))
	for _, p := range res.Projects {
		projects = append(projects, StoredNode{
			ID: p.ID, Kind: KindProject, Slug: p.Slug, Title: p.Title, Date: formatDate(p.Date),
			Tags: p.Tags, Excerpt: p.Excerpt, Digest: p.Digest,
		})
	}
	if err := a.Store.ReplaceNodes(KindProject, projects); err != nil {
		return fmt.Errorf("pubstatic: persist projects: %w", err)
	}
	return a.Store.RecordBuild(BuildRecord{
		FinishedAt: res.BuiltAt.UTC().Format(time.RFC3339),
		Posts:      len(res.Posts),
		Notebooks:  len(res.Notebooks),
		Pages:      len(res.Pages),
		DurationMS: took.Milliseconds(),
	})
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// Serve builds the site once and starts the preview server. It returns when
// ctx is cancelled or the server fails.
func (a *App) Serve(ctx context.Context) error {
	if err := a.Open(); err != nil {
		return err
	}
	a.Cache = NewSiteCache(a.Build, a.Config.CacheTTL, a.Logger)
	if _, err := a.Cache.Get(ctx); err != nil {
		return err
	}

	a.setupMiddleware()
	a.setupRoutes()

	errCh := make(chan error, 1)
	go func() {
		if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.Echo.Shutdown(shutdownCtx)
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
