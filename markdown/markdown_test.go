package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"unicode/utf8"
)

func render(t *testing.T, src string) string {
	t.Helper()
	got, err := NewRenderer().Render([]byte(src))
	if err != nil {
		t.Fatalf("Render(%q) failed: %v", src, err)
	}
	return got
}

func TestRenderHeadingsHaveIDs(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading One", `<h1 id="heading-one">Heading One</h1>`},
		{"## Setup", `<h2 id="setup">Setup</h2>`},
		{"### Deploy it", `<h3 id="deploy-it">Deploy it</h3>`},
	}
	for _, tt := range tests {
		got := render(t, tt.input)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("Render(%q) = %q, want it to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderCodeBlockWithLanguage(t *testing.T) {
	got := render(t, "```go\nfmt.Println(\"hello\")\n```")
	if !strings.Contains(got, `class="language-go"`) {
		t.Errorf("code block should have language-go class: %q", got)
	}
	if !strings.Contains(got, "<pre>") {
		t.Errorf("code block should be wrapped in pre: %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	got := render(t, "| a | b |\n|---|---|\n| 1 | 2 |")
	for _, want := range []string{"<table>", "<th>a</th>", "<td>2</td>"} {
		if !strings.Contains(got, want) {
			t.Errorf("table output missing %q: %q", want, got)
		}
	}
}

func TestRenderFootnote(t *testing.T) {
	got := render(t, "Claim[^1].\n\n[^1]: Source.")
	if !strings.Contains(got, "footnote") {
		t.Errorf("expected footnote markup: %q", got)
	}
}

func TestRenderTypographer(t *testing.T) {
	got := render(t, `He said "hi" -- twice...`)
	if !strings.Contains(got, "&ldquo;") || !strings.Contains(got, "&hellip;") {
		t.Errorf("expected smart punctuation: %q", got)
	}
}

func TestRenderMath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"inline", `Euler: $e^{i\pi} + 1 = 0$.`, `<span class="math math-inline">e^{i\pi} + 1 = 0</span>`},
		{"inline display", `See $$\sum_i x_i$$ here`, `<span class="math math-display">\sum_i x_i</span>`},
		{"escaped", `$a < b$`, `<span class="math math-inline">a &lt; b</span>`},
		{"underscores stay raw", `$x_1 + y_2$`, `<span class="math math-inline">x_1 + y_2</span>`},
		{"block", "Before\n\n$$\nf(x) = x^2\n$$\n\nAfter", "<div class=\"math math-display\">f(x) = x^2\n</div>"},
	}
	for _, tt := range tests {
		got := render(t, tt.input)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("%s: Render(%q) = %q, want it to contain %q", tt.name, tt.input, got, tt.expected)
		}
		if !HasMath(got) {
			t.Errorf("%s: HasMath(%q) = false", tt.name, got)
		}
	}
}

func TestRenderDollarAmountsAreText(t *testing.T) {
	for _, input := range []string{"It costs $5 and $10.", "Pay $ 5 now $", "Just one $ sign"} {
		got := render(t, input)
		if HasMath(got) {
			t.Errorf("Render(%q) = %q, want no math", input, got)
		}
	}
}

func TestPlainTextSkipsMath(t *testing.T) {
	got, err := PlainText(`<p>Area is <span class="math math-inline">\pi r^2</span> here.</p>`)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Area is here." {
		t.Errorf("PlainText = %q, want %q", got, "Area is here.")
	}
}

func TestRewriteAssets(t *testing.T) {
	src := `<p><img src="./diagram.png" alt="diagram"> <a href="data.csv">data</a> <a href="https://go.dev">go</a></p>`
	got, err := RewriteAssets(src, func(ref string) (Asset, bool) {
		switch ref {
		case "./diagram.png":
			return Asset{URL: "/static/abcd1234/diagram.png", Width: 1380, Height: 690}, true
		case "data.csv":
			return Asset{URL: "/static/ef567890/data.csv"}, true
		}
		return Asset{}, false
	})
	if err != nil {
		t.Fatalf("RewriteAssets failed: %v", err)
	}
	for _, want := range []string{
		`src="/static/abcd1234/diagram.png"`,
		`width="1380"`,
		`loading="lazy"`,
		`href="/static/ef567890/data.csv"`,
		`href="https://go.dev"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RewriteAssets() = %q, missing %q", got, want)
		}
	}

	untouched := `<p>Tom &amp; Jerry</p>`
	got, err = RewriteAssets(untouched, func(string) (Asset, bool) { return Asset{}, false })
	if err != nil || got != untouched {
		t.Errorf("RewriteAssets() without matches = %q, %v, want input unchanged", got, err)
	}
}

func TestStripMDX(t *testing.T) {
	input := "import Chart from './chart'\nexport const meta = {}\n\n# Title\n\n```js\nimport x from 'y'\n```\n"
	got := string(StripMDX([]byte(input)))
	if strings.Contains(got, "import Chart") {
		t.Errorf("top-level import should be stripped: %q", got)
	}
	if strings.Contains(got, "export const") {
		t.Errorf("top-level export should be stripped: %q", got)
	}
	if !strings.Contains(got, "import x from 'y'") {
		t.Errorf("import inside a code fence should be kept: %q", got)
	}
	if !strings.Contains(got, "# Title") {
		t.Errorf("content should be kept: %q", got)
	}
}

func TestStripMDXKeepsContentAfterLongLines(t *testing.T) {
	long := "![plot](data:image/png;base64," + strings.Repeat("A", 5<<20) + ")"
	input := "intro\n\n" + long + "\n\nConclusion paragraph.\n"
	got := string(StripMDX([]byte(input)))
	if !strings.Contains(got, long) {
		t.Error("long line was dropped")
	}
	if !strings.Contains(got, "Conclusion paragraph.") {
		t.Error("content after a long line was dropped")
	}
}

func TestPlainTextSkipsCode(t *testing.T) {
	got, err := PlainText("<h1>Title</h1>\n<p>Some <strong>bold</strong> text.</p>\n<pre><code>secret()</code></pre>\n")
	if err != nil {
		t.Fatalf("PlainText failed: %v", err)
	}
	if got != "Title Some bold text." {
		t.Errorf("PlainText = %q, want %q", got, "Title Some bold text.")
	}
}

func TestPrune(t *testing.T) {
	tests := []struct {
		input    string
		length   int
		expected string
	}{
		{"short text", 140, "short text"},
		{"hello world again", 11, "hello world…"},
		{"hello world again", 8, "hello…"},
		{"hello, world", 6, "hello…"},
		{"abcdefghij", 4, "abcd…"},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		got := Prune(tt.input, tt.length)
		if got != tt.expected {
			t.Errorf("Prune(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.expected)
		}
	}
}

func TestExcerptLength(t *testing.T) {
	body := strings.Repeat("word ", 100)
	html := render(t, body)
	got := Excerpt(html, 140)
	if n := utf8.RuneCountInString(strings.TrimSuffix(got, Ellipsis)); n > 140 {
		t.Errorf("excerpt has %d runes, want <= 140", n)
	}
	if !strings.HasSuffix(got, Ellipsis) {
		t.Errorf("excerpt should end with ellipsis: %q", got)
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("<p>x</p>").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if buf.String() != "<p>x</p>" {
		t.Errorf("component wrote %q", buf.String())
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://colab.research.google.com/x", "https://colab.research.google.com/x"},
		{"/local/path", "/local/path"},
		{"#anchor", "#anchor"},
		{"javascript:alert(1)", ""},
		{"relative/path", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
