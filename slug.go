package pubstatic

import (
	"path"
	"regexp"
	"strings"

	"github.com/goliatone/go-slug"
)

var reSlashes = regexp.MustCompile(`/{2,}`)

// ResolveSlug derives the URL path of a document. An absolute frontmatter
// slug is used verbatim, a relative one is resolved against basePath, and a
// missing one is derived from the file path under its content root. The
// result always begins and ends with a single "/". No validation happens.
func ResolveSlug(frontmatterSlug, relPath, basePath string) string {
	var s string
	switch {
	case frontmatterSlug != "" && strings.HasPrefix(frontmatterSlug, "/"):
		s = frontmatterSlug
	case frontmatterSlug != "":
		s = URLResolve(basePath, frontmatterSlug)
	default:
		s = URLResolve(basePath, CreateFilePath(relPath))
	}
	return NormalizeTrailingSlash(s)
}

// URLResolve joins URL path segments, collapsing duplicate slashes and
// anchoring the result at "/". A trailing slash on the last segment is kept.
func URLResolve(segments ...string) string {
	var parts []string
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	joined := reSlashes.ReplaceAllString(strings.Join(parts, "/"), "/")
	if !strings.HasPrefix(joined, "/") {
		joined = "/" + joined
	}
	return joined
}

// CreateFilePath turns a path relative to a content root into a URL path:
// the extension is dropped, "index" files map to their directory, and the
// result is wrapped in slashes ("my-post/index.md" -> "/my-post/").
func CreateFilePath(relPath string) string {
	p := path.Clean("/" + strings.ReplaceAll(relPath, "\\", "/"))
	p = strings.TrimSuffix(p, path.Ext(p))
	if path.Base(p) == "index" {
		p = path.Dir(p)
	}
	if p == "/" || p == "." {
		return "/"
	}
	return p + "/"
}

// NormalizeTrailingSlash replaces any run of trailing slashes with exactly one.
func NormalizeTrailingSlash(s string) string {
	return strings.TrimRight(s, "/") + "/"
}

// Slugify converts a title or tag to a URL-safe slug.
func Slugify(s string) string {
	if v, err := slug.Normalize(s); err == nil && v != "" {
		return v
	}
	return asciiSlug(s)
}

func asciiSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
