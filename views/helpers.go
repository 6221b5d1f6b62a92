package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// AbsoluteURL resolves a site path against the site URL. Paths that
// already carry a scheme are returned unchanged.
func AbsoluteURL(base, p string) string {
	if p == "" {
		return ""
	}
	if u, err := url.Parse(p); err == nil && u.IsAbs() {
		return p
	}
	if strings.HasSuffix(p, "/") {
		return buildURL(base, p)
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(p, "/")
}

// Heading title-cases a section or tag name for display.
func Heading(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "-", " "))
}

// PageURL returns the path of page n under prefix.
func PageURL(prefix string, n int) string {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if n <= 1 {
		return prefix
	}
	return prefix + "page/" + strconv.Itoa(n) + "/"
}

// FilterRelated returns up to limit entries that share at least one tag
// with tags, skipping the entry at self.
func FilterRelated(self string, tags []string, entries []Entry, limit int) []Entry {
	tagSet := make(map[string]struct{})
	for _, t := range tags {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []Entry
	for _, e := range entries {
		if e.URL == self {
			continue
		}
		for _, t := range e.Tags {
			tag := strings.ToLower(strings.TrimSpace(t))
			if _, ok := tagSet[tag]; ok {
				related = append(related, e)
				break
			}
		}
		if limit > 0 && len(related) == limit {
			break
		}
	}
	return related
}

// JoinTags formats a tag slice as a comma-separated string for meta tags.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      buildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// NewsArticleJsonLD produces a Schema.org NewsArticle JSON-LD block for a post.
func NewsArticleJsonLD(cfg SiteConfig, post BlogPost) string {
	postURL := AbsoluteURL(cfg.URL, post.URL)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "NewsArticle",
		"headline":      post.Title,
		"description":   post.Excerpt,
		"datePublished": post.DateISO,
		"dateModified":  post.DateISO,
		"url":           postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if post.SocialImage != "" {
		data["image"] = []string{AbsoluteURL(cfg.URL, post.SocialImage)}
	} else if post.Image != nil {
		data["image"] = []string{AbsoluteURL(cfg.URL, post.Image.Src)}
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
