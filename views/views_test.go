package views

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String()
}

var testSite = SiteConfig{
	Name:   "Notes",
	Title:  "Notes Blog",
	URL:    "https://blog.test",
	Author: "Jo",
	Nav:    []Link{{Title: "Cloud", URL: "/cloud/"}},
}

func TestPagination(t *testing.T) {
	if got := render(t, Pagination(Pager{Index: 1, PageCount: 1, PathPrefix: "/", First: true, Last: true})); got != "" {
		t.Errorf("single page pagination = %q, want empty", got)
	}

	got := render(t, Pagination(Pager{Index: 2, PageCount: 3, PathPrefix: "/notebooks/"}))
	for _, want := range []string{
		`<a rel="prev" href="/notebooks/">Prev</a>`,
		`<span aria-current="page">2</span>`,
		`<a href="/notebooks/page/3/">3</a>`,
		`<a rel="next" href="/notebooks/page/3/">Next</a>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("pagination missing %q in %s", want, got)
		}
	}

	first := render(t, Pagination(Pager{Index: 1, PageCount: 2, PathPrefix: "/", First: true}))
	if strings.Contains(first, "Prev") {
		t.Error("first page should not link to Prev")
	}
}

func TestLayoutEscapesAndTitles(t *testing.T) {
	got := render(t, Layout(testSite, PageMeta{Title: `Tom & "Jerry"`, Description: "<b>x</b>"}, "", nil))
	if !strings.Contains(got, "<title>Tom &amp; &#34;Jerry&#34; | Notes Blog</title>") {
		t.Errorf("title not escaped: %s", got)
	}
	if strings.Contains(got, "<b>x</b>") {
		t.Error("description should be escaped")
	}
	if !strings.Contains(got, `<a href="/cloud/">Cloud</a>`) {
		t.Error("nav link missing")
	}
	if !strings.Contains(got, `<meta name="twitter:card" content="summary">`) {
		t.Error("twitter card should fall back to summary without an image")
	}

	home := render(t, Layout(testSite, PageMeta{}, "", nil))
	if !strings.Contains(home, "<title>Notes Blog</title>") {
		t.Errorf("empty meta title should use the site title: %s", home)
	}
}

func TestPostPage(t *testing.T) {
	post := BlogPost{
		Title:       "Hello",
		URL:         "/hello/",
		Date:        "March 5, 2021",
		DateISO:     "2021-03-05T00:00:00Z",
		Tags:        []string{"ML"},
		ReadingTime: "3 min read",
		Excerpt:     "An excerpt",
		Body:        "<p>Body</p>",
		Image:       &Image{Src: "/static/abc/cover.png", Alt: "Cover", Width: 1380, Height: 690},
		Previous:    &Link{Title: "Older", URL: "/older/"},
	}
	got := render(t, PostPage(testSite, post))
	for _, want := range []string{
		`<link rel="canonical" href="https://blog.test/hello/">`,
		`<meta property="og:type" content="article">`,
		`<meta property="og:image" content="https://blog.test/static/abc/cover.png">`,
		`<meta property="article:tag" content="ML">`,
		`"@type":"NewsArticle"`,
		`<p>Body</p>`,
		`width="1380"`,
		`<a rel="prev" href="/older/">`,
		"3 min read",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("post page missing %q", want)
		}
	}
}

func TestNotebookPageBadges(t *testing.T) {
	got := render(t, NotebookPage(testSite, Notebook{Title: "NB", URL: "/notebooks/nb/", Github: "https://github.com/x/y"}))
	if !strings.Contains(got, "View on GitHub") {
		t.Error("github badge missing")
	}
	if strings.Contains(got, "Open in Colab") {
		t.Error("colab badge should be hidden without a link")
	}
}

func TestListingPageEmpty(t *testing.T) {
	got := render(t, ListingPage(testSite, Listing{Title: "machine-learning", Pager: Pager{Index: 1, PageCount: 1, PathPrefix: "/machine-learning/", First: true, Last: true}}))
	if !strings.Contains(got, "<h1>Machine Learning</h1>") {
		t.Errorf("heading not title-cased: %s", got)
	}
	if !strings.Contains(got, "Nothing here yet.") {
		t.Error("empty listing message missing")
	}
	if strings.Contains(got, `class="pagination"`) {
		t.Error("single page listing should not paginate")
	}
}

func TestNewsArticleJsonLD(t *testing.T) {
	raw := NewsArticleJsonLD(testSite, BlogPost{Title: "T", URL: "/t/", DateISO: "2021-01-01T00:00:00Z", SocialImage: "/static/x/s.png", Tags: []string{"a", "b"}})
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	if data["@type"] != "NewsArticle" || data["url"] != "https://blog.test/t/" || data["keywords"] != "a, b" {
		t.Errorf("JSON-LD = %v", data)
	}
	imgs, _ := data["image"].([]any)
	if len(imgs) != 1 || imgs[0] != "https://blog.test/static/x/s.png" {
		t.Errorf("image = %v", data["image"])
	}
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		name, got, expected string
	}{
		{"PageURL first", PageURL("/cloud", 1), "/cloud/"},
		{"PageURL n", PageURL("/", 4), "/page/4/"},
		{"AbsoluteURL dir", AbsoluteURL("https://blog.test", "/a/b/"), "https://blog.test/a/b/"},
		{"AbsoluteURL file", AbsoluteURL("https://blog.test", "/static/x/c.png"), "https://blog.test/static/x/c.png"},
		{"AbsoluteURL absolute", AbsoluteURL("https://blog.test", "https://cdn.test/c.png"), "https://cdn.test/c.png"},
		{"Heading", Heading("cloud-native"), "Cloud Native"},
	}
	for _, tt := range tests {
		if tt.got != tt.expected {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.expected)
		}
	}
}

func TestFilterRelated(t *testing.T) {
	entries := []Entry{
		{URL: "/self/", Tags: []string{"Go"}},
		{URL: "/a/", Tags: []string{"go"}},
		{URL: "/b/", Tags: []string{"Rust"}},
		{URL: "/c/", Tags: []string{"Go", "Web"}},
		{URL: "/d/", Tags: []string{"web"}},
	}
	got := FilterRelated("/self/", []string{"Go", "web"}, entries, 2)
	if len(got) != 2 || got[0].URL != "/a/" || got[1].URL != "/c/" {
		t.Errorf("FilterRelated() = %+v, want /a/ and /c/", got)
	}
}

func TestUnsafeLinksDropped(t *testing.T) {
	got := render(t, NotebookPage(testSite, Notebook{Title: "NB", Colab: "javascript:alert(1)"}))
	if strings.Contains(got, "javascript:") {
		t.Error("javascript: link should not be rendered")
	}
}

func TestProjectsPage(t *testing.T) {
	got := render(t, ProjectsPage(testSite, Projects{
		Title: "Projects",
		URL:   "/projects/",
		Tags:  []string{"Go"},
		Projects: []Project{
			{Title: "Tool", Anchor: "tool", Tags: []string{"Go"}, Type: []string{"library", "cli"}, Excerpt: "Does <one> thing", Github: "https://github.com/x/tool", Website: "javascript:alert(1)"},
		},
	}))
	for _, want := range []string{
		`<link rel="canonical" href="https://blog.test/projects/">`,
		`<article class="project" id="tool">`,
		"<h2>Tool</h2>",
		"library; cli",
		"Does &lt;one&gt; thing",
		`class="badge badge-github"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("projects page missing %q", want)
		}
	}
	if strings.Contains(got, "javascript:") || strings.Contains(got, "badge-examples") {
		t.Error("unsafe website and empty examples link should not render")
	}
}

func TestHero(t *testing.T) {
	site := testSite
	site.Hero = Hero{Heading: "Hello", Subheading: "Notes on ML"}
	site.AuthorImage = &Image{Src: "/static/a/author.png", Alt: "Jo", Width: 600, Height: 400}
	home := Pager{Index: 1, PageCount: 1, PathPrefix: "/", First: true, Last: true}

	got := render(t, ListingPage(site, Listing{Title: "Blog", Pager: home}))
	for _, want := range []string{`<header class="hero">`, `<h2>Hello</h2>`, "Notes on ML", `width="200" height="133"`} {
		if !strings.Contains(got, want) {
			t.Errorf("home listing missing %q", want)
		}
	}
	other := render(t, ListingPage(site, Listing{Title: "cloud", Pager: Pager{Index: 1, PageCount: 1, PathPrefix: "/cloud/", First: true, Last: true}}))
	if strings.Contains(other, `class="hero"`) {
		t.Error("hero should only render on the home page")
	}

	post := render(t, PostPage(site, BlogPost{Title: "P", URL: "/p/"}))
	if !strings.Contains(post, `class="avatar" src="/static/a/author.png" alt="Jo" width="40" height="26"`) {
		t.Errorf("byline avatar missing: %s", post)
	}
}

func TestMathLoadsKaTeX(t *testing.T) {
	plain := render(t, PostPage(testSite, BlogPost{Title: "P", URL: "/p/", Body: "<p>no math</p>"}))
	if strings.Contains(plain, "katex") {
		t.Error("pages without math should not load KaTeX")
	}
	got := render(t, PostPage(testSite, BlogPost{Title: "P", URL: "/p/", Body: `<p><span class="math math-inline">x^2</span></p>`}))
	for _, want := range []string{katexCSS, katexJS, `<script defer src="/math.js"></script>`} {
		if !strings.Contains(got, want) {
			t.Errorf("math page missing %q", want)
		}
	}
}

func TestFitImage(t *testing.T) {
	tests := []struct {
		name  string
		img   *Image
		width int
		w, h  int
		isNil bool
	}{
		{"nil", nil, 40, 0, 0, true},
		{"smaller", &Image{Width: 30, Height: 30}, 40, 30, 30, false},
		{"scaled", &Image{Width: 400, Height: 300}, 40, 40, 30, false},
		{"thin", &Image{Width: 4000, Height: 1}, 40, 40, 1, false},
	}
	for _, tt := range tests {
		got := fitImage(tt.img, tt.width)
		if tt.isNil {
			if got != nil {
				t.Errorf("%s: fitImage() = %+v, want nil", tt.name, got)
			}
			continue
		}
		if got.Width != tt.w || got.Height != tt.h {
			t.Errorf("%s: fitImage() = %dx%d, want %dx%d", tt.name, got.Width, got.Height, tt.w, tt.h)
		}
	}
}
