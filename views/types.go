package views

// SiteConfig holds the site-wide settings every page template needs.
type SiteConfig struct {
	Name        string
	Title       string
	URL         string
	Description string
	Author      string
	Social      []Link
	Nav         []Link // section listings shown in the header
	Hero        Hero
	AuthorImage *Image // nil when the site has no author image
}

// Hero is the introduction on the first page of the blog listing.
type Hero struct {
	Heading    string
	Subheading string
}

// Link is a titled URL.
type Link struct {
	Title string
	URL   string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // absolute og:image URL
	Published   string // RFC3339
	Modified    string // RFC3339
	Tags        []string
	Math        bool // load KaTeX to typeset TeX in the body
}

// Image is a published image with its intrinsic size.
type Image struct {
	Src    string
	Alt    string
	Width  int
	Height int
}

// BlogPost is a rendered post as the post template sees it.
type BlogPost struct {
	Title       string
	URL         string
	Date        string // display date
	DateISO     string
	Tags        []string
	ReadingTime string
	Excerpt     string
	Body        string // rendered HTML
	Image       *Image
	SocialImage string
	Photograph  string
	Previous    *Link
	Next        *Link
	Related     []Entry
}

// Notebook is a rendered notebook as the notebook template sees it.
type Notebook struct {
	Title    string
	URL      string
	Date     string
	DateISO  string
	Tags     []string
	Excerpt  string
	Body     string
	Colab    string
	Github   string
	Previous *Link
	Next     *Link
}

// Entry is one row of a listing page.
type Entry struct {
	Title       string
	URL         string
	Date        string
	Tags        []string
	Excerpt     string
	ReadingTime string
}

// Listing is one page of a paginated section.
type Listing struct {
	Title   string
	Entries []Entry
	AllTags []string
	Pager   Pager
}

// Pager is the pagination state of a listing page.
type Pager struct {
	Index      int // 1-based
	PageCount  int
	PathPrefix string
	First      bool
	Last       bool
}

// Project is one entry of the projects page.
type Project struct {
	Title    string
	Anchor   string
	Tags     []string
	Type     []string
	Excerpt  string
	Github   string
	Examples string
	Website  string
}

// Projects is the projects page.
type Projects struct {
	Title    string
	URL      string
	Tags     []string
	Projects []Project
}
