package pubstatic

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/gommon/log"
)

func TestSetDefaults(t *testing.T) {
	var cfg SiteConfig
	cfg.setDefaults()

	if cfg.BlogPostPageLength != 8 || cfg.NotebooksPageLength != 15 {
		t.Errorf("page lengths = %d/%d, want 8/15", cfg.BlogPostPageLength, cfg.NotebooksPageLength)
	}
	if cfg.ImageMaxWidth != 1380 || cfg.ExcerptLength != 140 || cfg.QueryLimit != 1000 {
		t.Errorf("limits = %d/%d/%d", cfg.ImageMaxWidth, cfg.ExcerptLength, cfg.QueryLimit)
	}
	if cfg.ContentPath != "content/posts" || cfg.NotebookPath != "content/notebooks" || cfg.AssetPath != "content/assets" {
		t.Errorf("content paths = %q %q %q", cfg.ContentPath, cfg.NotebookPath, cfg.AssetPath)
	}
	if cfg.BasePath != "/" || cfg.BaseNotebooksPath != "/notebooks" {
		t.Errorf("base paths = %q %q", cfg.BasePath, cfg.BaseNotebooksPath)
	}
	if len(cfg.Sections) != 2 || cfg.Sections[0].PageSize != 8 || cfg.Sections[1].Path != "/cloud" {
		t.Errorf("sections = %+v", cfg.Sections)
	}
	if cfg.AuthorPath != "content/author" || cfg.ProjectsPath != "content/projects" || cfg.BaseProjectsPath != "/projects" {
		t.Errorf("author/projects paths = %q %q %q", cfg.AuthorPath, cfg.ProjectsPath, cfg.BaseProjectsPath)
	}
	if cfg.Hero.Image != "author.png" {
		t.Errorf("Hero.Image = %q, want author.png", cfg.Hero.Image)
	}
	if cfg.Title != "Blog" {
		t.Errorf("Title = %q, want it to fall back to Name", cfg.Title)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `name: ml-notes
siteUrl: https://notes.test/
blogPostPageLength: 5
fetchTimeout: 10s
sections:
  - name: go
    title: Go
    tags: [Go]
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PUBSTATIC_OUTPUT_DIR", "dist")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "ml-notes" || cfg.URL != "https://notes.test" {
		t.Errorf("name/url = %q %q", cfg.Name, cfg.URL)
	}
	if cfg.BlogPostPageLength != 5 {
		t.Errorf("BlogPostPageLength = %d, want 5", cfg.BlogPostPageLength)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout = %s, want 10s", cfg.FetchTimeout)
	}
	if cfg.OutputDir != "dist" {
		t.Errorf("OutputDir = %q, want env override %q", cfg.OutputDir, "dist")
	}
	if len(cfg.Sections) != 1 || cfg.Sections[0].Path != "/go" || cfg.Sections[0].PageSize != 5 {
		t.Errorf("sections = %+v", cfg.Sections)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig on a missing file = %v, want defaults", err)
	}
	if cfg.Name != "Blog" {
		t.Errorf("Name = %q, want default", cfg.Name)
	}
}

func TestLoadConfigBadEnv(t *testing.T) {
	t.Setenv("PUBSTATIC_BLOG_PAGE_LENGTH", "eight")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("non-numeric page length should fail")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected log.Lvl
	}{
		{"debug", log.DEBUG},
		{"WARN", log.WARN},
		{"error", log.ERROR},
		{"", log.INFO},
		{"verbose", log.INFO},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
