package pubstatic

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"gopkg.in/yaml.v3"
)

// Social is a profile link rendered in the site footer.
type Social struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Section is a tag-filtered listing of blog posts, e.g. "/machine-learning/".
type Section struct {
	Name     string   `yaml:"name"`
	Title    string   `yaml:"title"`
	Path     string   `yaml:"path"`
	Tags     []string `yaml:"tags"`
	PageSize int      `yaml:"pageSize"`
}

// Hero is the introduction above the first page of the blog listing. Image
// names a file under the author root; it is also shown next to the byline
// of every post.
type Hero struct {
	Heading    string `yaml:"heading"`
	Subheading string `yaml:"subheading"`
	Image      string `yaml:"image"` // default "author.png"
}

// SiteConfig holds all configuration for a pubstatic site.
type SiteConfig struct {
	Name        string   `yaml:"name"`        // Short site name (default "Blog")
	Title       string   `yaml:"title"`       // Full title used in <title> and RSS
	URL         string   `yaml:"siteUrl"`     // Canonical URL (default "http://localhost:3000")
	Description string   `yaml:"description"` // Site description for RSS and meta tags
	Author      string   `yaml:"author"`      // Author name for JSON-LD
	Social      []Social `yaml:"social"`
	Hero        Hero     `yaml:"hero"`

	ContentPath  string `yaml:"contentPath"`  // default "content/posts"
	NotebookPath string `yaml:"notebookPath"` // default "content/notebooks"
	AssetPath    string `yaml:"assetPath"`    // default "content/assets"
	AuthorPath   string `yaml:"authorPath"`   // default "content/author"
	ProjectsPath string `yaml:"projectsPath"` // default "content/projects"

	BasePath          string `yaml:"basePath"`          // default "/"
	BaseNotebooksPath string `yaml:"baseNotebooksPath"` // default "/notebooks"
	BaseProjectsPath  string `yaml:"baseProjectsPath"`  // default "/projects"

	BlogPostPageLength  int `yaml:"blogPostPageLength"`  // default 8
	NotebooksPageLength int `yaml:"notebooksPageLength"` // default 15
	ImageMaxWidth       int `yaml:"imageMaxWidth"`       // default 1380
	ExcerptLength       int `yaml:"excerptLength"`       // default 140
	QueryLimit          int `yaml:"queryLimit"`          // default 1000

	Sections []Section `yaml:"sections"`

	OutputDir    string        `yaml:"outputDir"`    // default "public"
	CacheDir     string        `yaml:"cacheDir"`     // default ".cache"
	DatabasePath string        `yaml:"databasePath"` // default ".cache/build.db"
	FetchTimeout time.Duration `yaml:"fetchTimeout"` // default 30s

	Addr     string        `yaml:"addr"`     // Preview listen address (default ":3000")
	CacheTTL time.Duration `yaml:"cacheTTL"` // Preview rebuild interval (default 5s)
	LogLevel string        `yaml:"logLevel"` // debug, info, warn, error (default info)
}

// DefaultSections are the tag-filtered blog listings.
func DefaultSections() []Section {
	return []Section{
		{
			Name:  "machine-learning",
			Title: "Machine Learning",
			Path:  "/machine-learning",
			Tags: []string{
				"NLP", "ML", "Machine Learning", "AI", "Bert", "GPT2",
				"Pytorch", "HuggingFace", "Computer Vision", "BERT",
			},
		},
		{
			Name:  "cloud",
			Title: "Cloud",
			Path:  "/cloud",
			Tags:  []string{"Cloud", "AWS", "GCP", "Azure", "Serverless", "Docker"},
		},
	}
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.Title == "" {
		c.Title = c.Name
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.ContentPath == "" {
		c.ContentPath = "content/posts"
	}
	if c.NotebookPath == "" {
		c.NotebookPath = "content/notebooks"
	}
	if c.AssetPath == "" {
		c.AssetPath = "content/assets"
	}
	if c.AuthorPath == "" {
		c.AuthorPath = "content/author"
	}
	if c.ProjectsPath == "" {
		c.ProjectsPath = "content/projects"
	}
	if c.BasePath == "" {
		c.BasePath = "/"
	}
	if c.BaseNotebooksPath == "" {
		c.BaseNotebooksPath = "/notebooks"
	}
	if c.BaseProjectsPath == "" {
		c.BaseProjectsPath = "/projects"
	}
	if c.Hero.Image == "" {
		c.Hero.Image = "author.png"
	}
	if c.BlogPostPageLength <= 0 {
		c.BlogPostPageLength = 8
	}
	if c.NotebooksPageLength <= 0 {
		c.NotebooksPageLength = 15
	}
	if c.ImageMaxWidth <= 0 {
		c.ImageMaxWidth = 1380
	}
	if c.ExcerptLength <= 0 {
		c.ExcerptLength = 140
	}
	if c.QueryLimit <= 0 {
		c.QueryLimit = 1000
	}
	if c.Sections == nil {
		c.Sections = DefaultSections()
	}
	for i := range c.Sections {
		if c.Sections[i].PageSize <= 0 {
			c.Sections[i].PageSize = c.BlogPostPageLength
		}
		if c.Sections[i].Path == "" {
			c.Sections[i].Path = "/" + c.Sections[i].Name
		}
	}
	if c.OutputDir == "" {
		c.OutputDir = "public"
	}
	if c.CacheDir == "" {
		c.CacheDir = ".cache"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = c.CacheDir + "/build.db"
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 30 * time.Second
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Second
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// ContentRoots returns every directory sourced into the content graph.
func (c SiteConfig) ContentRoots() []string {
	return []string{c.ContentPath, c.NotebookPath, c.AssetPath, c.AuthorPath, c.ProjectsPath}
}

// LoadConfig reads a YAML config file and applies PUBSTATIC_* environment
// overrides. A missing file is not an error; defaults are used instead.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return SiteConfig{}, fmt.Errorf("pubstatic: parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return SiteConfig{}, fmt.Errorf("pubstatic: read config %s: %w", path, err)
	}

	cfg.Name = EnvOr("PUBSTATIC_SITE_NAME", cfg.Name)
	cfg.URL = EnvOr("PUBSTATIC_SITE_URL", cfg.URL)
	cfg.OutputDir = EnvOr("PUBSTATIC_OUTPUT_DIR", cfg.OutputDir)
	cfg.DatabasePath = EnvOr("PUBSTATIC_DATABASE_PATH", cfg.DatabasePath)
	cfg.Addr = EnvOr("PUBSTATIC_ADDR", cfg.Addr)
	cfg.LogLevel = EnvOr("PUBSTATIC_LOG_LEVEL", cfg.LogLevel)
	if v := os.Getenv("PUBSTATIC_BLOG_PAGE_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return SiteConfig{}, fmt.Errorf("pubstatic: PUBSTATIC_BLOG_PAGE_LENGTH: %w", err)
		}
		cfg.BlogPostPageLength = n
	}

	cfg.setDefaults()
	return cfg, nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithLogger replaces the default logger.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithFetcher replaces the remote image fetcher (tests use an httptest client).
func WithFetcher(f *RemoteFetcher) Option {
	return func(a *App) {
		a.fetcher = f
	}
}

// WithStore sets an already opened build store.
func WithStore(s *Store) Option {
	return func(a *App) {
		a.Store = s
	}
}

// WithRoot sets the project directory content and cache paths are
// resolved against (default ".").
func WithRoot(dir string) Option {
	return func(a *App) {
		a.root = dir
	}
}
