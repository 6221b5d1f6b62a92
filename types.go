package pubstatic

import "time"

// Links holds the optional external links a post, notebook or project can
// carry.
type Links struct {
	Colab    string `yaml:"colab" json:"colab,omitempty"`
	Github   string `yaml:"github" json:"github,omitempty"`
	Examples string `yaml:"examples" json:"examples,omitempty"`
	Website  string `yaml:"website" json:"website,omitempty"`
}

// Frontmatter is the YAML block at the top of a content file.
type Frontmatter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	DateForSEO  string   `yaml:"dateForSEO"`
	Tags        []string `yaml:"tags"`
	Slug        string   `yaml:"slug"`
	Image       string   `yaml:"image"`
	ImageAlt    string   `yaml:"imageAlt"`
	SocialImage string   `yaml:"socialImage"`
	Links       Links    `yaml:"links"`
	Photograph  string   `yaml:"photograph"`
	ReadingTime string   `yaml:"readingTime"`
	Type        []string `yaml:"type"` // project kinds, e.g. "library"
}

// FileNode is a file known to the content graph: either found under a
// content root or fetched from a remote URL during the build.
type FileNode struct {
	ID           string
	Parent       string // owning node for remote files
	Source       string // content root the file was found under
	AbsolutePath string
	RelativePath string
	Dir          string
	Ext          string
	Size         int64
	URL          string // set for remote files
	Width        int
	Height       int
}

// Document is a Markdown/MDX source file with its parsed frontmatter.
type Document struct {
	ID           string
	FileID       string
	Source       string
	RelativePath string
	Dir          string
	Frontmatter  Frontmatter
	Body         []byte
}

// BlogPost is the derived node built from a document under the posts root.
type BlogPost struct {
	ID          string
	Parent      string
	Title       string
	Slug        string
	Date        time.Time
	DateForSEO  time.Time
	Tags        []string
	Links       Links
	Photograph  string
	ReadingTime string
	Excerpt     string
	Body        string // rendered HTML
	Image       *FileNode
	ImageAlt    string
	SocialImage *FileNode
	Files       []*FileNode // files the body links or embeds
	Digest      string
}

// Notebook is the derived node built from a document under the notebooks root.
type Notebook struct {
	ID         string
	Parent     string
	Title      string
	Slug       string
	Date       time.Time
	DateForSEO time.Time
	Tags       []string
	Links      Links
	Excerpt    string
	Body       string
	Files      []*FileNode
	Digest     string
}

// Project is the derived node built from a document under the projects root.
type Project struct {
	ID      string
	Parent  string
	Title   string
	Slug    string // page path plus the project's anchor
	Date    time.Time
	Tags    []string
	Type    []string
	Links   Links
	Excerpt string
	Body    string
	Files   []*FileNode
	Digest  string
}

// Entry is the sortable projection shared by posts and notebooks when
// creating pages.
type Entry struct {
	ID    string
	Slug  string
	Title string
	Date  time.Time
	Tags  []string
}

// Page templates.
const (
	TemplatePost      = "post"
	TemplatePosts     = "posts"
	TemplateNotebook  = "notebook"
	TemplateNotebooks = "notebooks"
	TemplateProjects  = "projects"
)

// Page is a generated route. Pages are immutable once created.
type Page struct {
	Path     string
	Template string
	Context  PageContext
}

// PageContext is the data bag threaded into a page's template.
type PageContext struct {
	ID         string
	PreviousID string
	NextID     string
	MaxWidth   int
	Listing    *Listing
}

// Listing carries pagination metadata for one chunk of a listing section.
type Listing struct {
	Section    string
	Title      string
	Group      []Entry
	Index      int // 1-based
	First      bool
	Last       bool
	PageCount  int
	Total      int
	PathPrefix string
	AllTags    []string
}
