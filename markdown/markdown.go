// Package markdown renders Markdown/MDX bodies to HTML and derives plain
// text excerpts from the rendered output.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Ellipsis is appended to pruned excerpts.
const Ellipsis = "…"

// Renderer converts Markdown to HTML. It holds no per-call state and can be
// shared across goroutines.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer builds a renderer with GFM tables and strikethrough, footnotes,
// smart punctuation, heading anchors and $-delimited TeX.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
				extension.Typographer,
				mathExtension{},
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithUnsafe(),
			),
		),
	}
}

// Render converts src to HTML. MDX module lines are dropped first.
func (r *Renderer) Render(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(StripMDX(src), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return buf.String(), nil
}

// StripMDX removes top-level MDX import/export statements. Lines inside
// fenced code blocks are left alone. Lines have no length limit.
func StripMDX(src []byte) []byte {
	out := make([]byte, 0, len(src))
	inFence := false
	for _, line := range bytes.Split(src, []byte("\n")) {
		trimmed := bytes.TrimSpace(line)
		if bytes.HasPrefix(trimmed, []byte("```")) || bytes.HasPrefix(trimmed, []byte("~~~")) {
			inFence = !inFence
		}
		if !inFence && (bytes.HasPrefix(line, []byte("import ")) || bytes.HasPrefix(line, []byte("export "))) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// PlainText extracts readable text from rendered HTML. Code blocks and the
// footnote list are left out.
func PlainText(htmlSrc string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("pre, script, style, .math, .footnotes, .footnote-ref").Remove()
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

// Asset is what a relative reference in a rendered body resolves to.
type Asset struct {
	URL    string
	Width  int
	Height int
}

// RewriteAssets passes the src of every img and the href of every link in
// rendered HTML to resolve. References resolve returns true for are
// replaced; images also get their size and lazy loading. The HTML is only
// re-serialized when something was replaced.
func RewriteAssets(htmlSrc string, resolve func(ref string) (Asset, bool)) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	changed := false
	doc.Find("img[src], a[href]").Each(func(_ int, s *goquery.Selection) {
		attr := "href"
		isImg := goquery.NodeName(s) == "img"
		if isImg {
			attr = "src"
		}
		ref, _ := s.Attr(attr)
		asset, ok := resolve(ref)
		if !ok {
			return
		}
		changed = true
		s.SetAttr(attr, asset.URL)
		if isImg && asset.Width > 0 && asset.Height > 0 {
			s.SetAttr("width", strconv.Itoa(asset.Width))
			s.SetAttr("height", strconv.Itoa(asset.Height))
			s.SetAttr("loading", "lazy")
		}
	})
	if !changed {
		return htmlSrc, nil
	}
	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return out, nil
}

// Prune shortens text to at most length runes, cutting on a word boundary
// and appending Ellipsis when anything was dropped.
func Prune(text string, length int) string {
	if length <= 0 || utf8.RuneCountInString(text) <= length {
		return text
	}
	runes := []rune(text)
	cut := runes[:length]
	if !unicode.IsSpace(runes[length]) {
		if i := lastSpace(cut); i > 0 {
			cut = cut[:i]
		}
	}
	out := strings.TrimRightFunc(string(cut), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	return out + Ellipsis
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if unicode.IsSpace(rs[i]) {
			return i
		}
	}
	return -1
}

// Excerpt returns the pruned plain text of rendered HTML.
func Excerpt(htmlSrc string, pruneLength int) string {
	text, err := PlainText(htmlSrc)
	if err != nil {
		return ""
	}
	return Prune(text, pruneLength)
}

// Markdown returns a templ.Component that writes already rendered HTML.
func Markdown(rendered string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, rendered)
		return err
	})
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
