package pipeline

import (
	"strings"
	"testing"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

const collapsibleNotes = `<div class="article-collapsible">
    <div class="collapsible-header">
        <h3>Notes</h3>
        <span class="collapsible-icon"></span>
    </div>
    <div class="collapsible-content">
        <div class="collapsible-content-inner">
            <p>Hello <strong>world</strong></p>
        </div>
    </div>
</div>`

func TestEngine_Convert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		articleID string
		expected  string
	}{
		{
			name:     "plain text wrapped in one paragraph",
			input:    "Hello world",
			expected: "<p>Hello world</p>",
		},
		{
			name:     "lines joined, blank line splits paragraphs",
			input:    "first line\nsecond line\n\nthird",
			expected: "<p>first line second line</p>\n<p>third</p>",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "CRLF line endings",
			input:    "a\r\nb\r\n\r\nc",
			expected: "<p>a b</p>\n<p>c</p>",
		},
		{
			name:     "headings one to three",
			input:    "# One\n## Two\n### Three",
			expected: "<h1>One</h1>\n<h2>Two</h2>\n<h3>Three</h3>",
		},
		{
			name:     "fourth level heading stays literal",
			input:    "#### Four",
			expected: "<p>#### Four</p>",
		},
		{
			name:     "heading needs a space",
			input:    "#tag",
			expected: "<p>#tag</p>",
		},
		{
			name:     "bold matched before italic",
			input:    "**bold *and italic* text**",
			expected: "<p><strong>bold <em>and italic</em> text</strong></p>",
		},
		{
			name:     "italic",
			input:    "an *emphasized* word",
			expected: "<p>an <em>emphasized</em> word</p>",
		},
		{
			name:     "link opens in new context",
			input:    "see [the docs](https://example.com/docs)",
			expected: `<p>see <a href="https://example.com/docs" target="_blank" rel="noopener noreferrer">the docs</a></p>`,
		},
		{
			name:     "inline code is escaped",
			input:    "use `a < b` here",
			expected: "<p>use <code>a &lt; b</code> here</p>",
		},
		{
			name:     "asterisks inside inline code survive",
			input:    "`**not bold**`",
			expected: "<p><code>**not bold**</code></p>",
		},
		{
			name:     "fenced code escaped, language tag dropped",
			input:    "```js\nif (a < b && c > d) { s = \"x\" + 'y' }\n```",
			expected: "<pre><code>if (a &lt; b &amp;&amp; c &gt; d) { s = &quot;x&quot; + &#039;y&#039; }</code></pre>",
		},
		{
			name:     "fenced entity escaped exactly once",
			input:    "```\n&amp; <b>\n```",
			expected: "<pre><code>&amp;amp; &lt;b&gt;</code></pre>",
		},
		{
			name:     "fenced code is not reinterpreted",
			input:    "```\n# not a heading\n**not bold**\n- not a list\n```",
			expected: "<pre><code># not a heading\n**not bold**\n- not a list</code></pre>",
		},
		{
			name:     "fenced example of a collapsible stays literal",
			input:    "```\n>>> Title\nbody\n<<<\n```",
			expected: "<pre><code>&gt;&gt;&gt; Title\nbody\n&lt;&lt;&lt;</code></pre>",
		},
		{
			name:     "text around fenced code",
			input:    "before\n```\ncode\n```\nafter",
			expected: "<p>before</p>\n<pre><code>code</code></pre>\n<p>after</p>",
		},
		{
			name:     "unterminated fence stays literal",
			input:    "```go\nfunc main() {}",
			expected: "<p>```go func main() {}</p>",
		},
		{
			name:     "block quote per line",
			input:    "> one\n> two",
			expected: "<blockquote>one</blockquote>\n<blockquote>two</blockquote>",
		},
		{
			name:     "unordered list grouped",
			input:    "- a\n- b\n- c",
			expected: "<ul><li>a</li>\n<li>b</li>\n<li>c</li></ul>",
		},
		{
			name:     "ordered list ignores source numbers",
			input:    "1. first\n7. second",
			expected: "<ol><li>first</li>\n<li>second</li></ol>",
		},
		{
			name:     "star bullets with italic content",
			input:    "* item with *emph*\n* plain",
			expected: "<ul><li>item with <em>emph</em></li>\n<li>plain</li></ul>",
		},
		{
			name:     "list then paragraph",
			input:    "- a\n- b\nafter",
			expected: "<ul><li>a</li>\n<li>b</li></ul>\n<p>after</p>",
		},
		{
			name:     "two lists split by a blank line",
			input:    "- a\n\n- b",
			expected: "<ul><li>a</li></ul>\n<ul><li>b</li></ul>",
		},
		{
			name:      "bracket image with article id",
			input:     "[IMAGE:diagram.webp]",
			articleID: "my-post",
			expected: "<figure class=\"article-image\">\n" +
				"    <img src=\"../../blog/images/my-post/diagram.webp\" alt=\"diagram.webp\" loading=\"lazy\">\n" +
				"</figure>",
		},
		{
			name:      "bracket image with alt",
			input:     "[IMAGE: chart.png | Sales chart ]",
			articleID: "q3",
			expected: "<figure class=\"article-image\">\n" +
				"    <img src=\"../../blog/images/q3/chart.png\" alt=\"Sales chart\" loading=\"lazy\">\n" +
				"</figure>",
		},
		{
			name:      "markdown image with absolute path",
			input:     "![Logo](/assets/x.png)",
			articleID: "my-post",
			expected: "<figure class=\"article-image\">\n" +
				"    <img src=\"/assets/x.png\" alt=\"Logo\" loading=\"lazy\">\n" +
				"</figure>",
		},
		{
			name:  "markdown image empty alt falls back to path",
			input: "![](pics/a.png)",
			expected: "<figure class=\"article-image\">\n" +
				"    <img src=\"../../blog/images/pics/a.png\" alt=\"pics/a.png\" loading=\"lazy\">\n" +
				"</figure>",
		},
		{
			name:  "image is not turned into a link",
			input: "![alt](https://cdn.example.com/a.png) and [link](https://example.com)",
			expected: "<figure class=\"article-image\">\n" +
				"    <img src=\"https://cdn.example.com/a.png\" alt=\"alt\" loading=\"lazy\">\n" +
				"</figure>\n<p>and <a href=\"https://example.com\" target=\"_blank\" rel=\"noopener noreferrer\">link</a></p>",
		},
		{
			name:  "image mid-line splits the paragraph",
			input: "Intro [IMAGE:https://cdn.example.com/a.png] outro",
			expected: "<p>Intro</p>\n<figure class=\"article-image\">\n" +
				"    <img src=\"https://cdn.example.com/a.png\" alt=\"https://cdn.example.com/a.png\" loading=\"lazy\">\n" +
				"</figure>\n<p>outro</p>",
		},
		{
			name:     "collapsible with converted body",
			input:    ">>> Notes\nHello **world**\n<<<",
			expected: collapsibleNotes,
		},
		{
			name:     "unterminated collapsible stays literal",
			input:    ">>> Title\nsome text",
			expected: "<p>>>> Title some text</p>",
		},
		{
			name:     "reserved placeholder runes are stripped",
			input:    "a\uE0000\uE001b",
			expected: "<p>a0b</p>",
		},
	}

	e := newTestEngine(t, Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := e.Convert(tt.input, tt.articleID)
			if got != tt.expected {
				t.Errorf("Convert(%q, %q) =\n%s\nwant\n%s", tt.input, tt.articleID, got, tt.expected)
			}
		})
	}
}

func TestEngine_Convert_Collapsibles(t *testing.T) {
	t.Parallel()

	t.Run("nested image inherits article id", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine(t, Config{})
		got := e.Convert(">>> Pictures\n[IMAGE:a.png]\n<<<", "post")
		if !strings.Contains(got, `src="../../blog/images/post/a.png"`) {
			t.Errorf("nested image not resolved against article, got:\n%s", got)
		}
	})

	t.Run("detached collapsibles drop article id", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine(t, Config{DetachedCollapsibles: true})
		got := e.Convert(">>> Pictures\n[IMAGE:a.png]\n<<<", "post")
		if !strings.Contains(got, `src="../../blog/images/a.png"`) {
			t.Errorf("detached image should resolve without article id, got:\n%s", got)
		}
	})

	t.Run("sections nest", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine(t, Config{})
		got := e.Convert(">>> Outer\n>>> Inner\ntext\n<<<\n<<<", "")
		if strings.Count(got, `<div class="article-collapsible">`) != 2 {
			t.Errorf("want two collapsible containers, got:\n%s", got)
		}
		if strings.Index(got, "<h3>Outer</h3>") > strings.Index(got, "<h3>Inner</h3>") {
			t.Errorf("inner section should render inside outer, got:\n%s", got)
		}
	})

	t.Run("unbalanced start pairs with next end", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine(t, Config{})
		got := e.Convert(">>> Notes\n>>> print(1)\n<<<", "")
		if strings.Count(got, `<div class="article-collapsible">`) != 1 {
			t.Errorf("want one collapsible container, got:\n%s", got)
		}
		if !strings.Contains(got, "<h3>Notes</h3>") {
			t.Errorf("outer section should render, got:\n%s", got)
		}
		if !strings.Contains(got, "<p>>>> print(1)</p>") {
			t.Errorf("stray start line should stay body text, got:\n%s", got)
		}
		if strings.Contains(got, "<h3>print(1)</h3>") {
			t.Errorf("stray start line became a section, got:\n%s", got)
		}
	})

	t.Run("title gets inline formatting", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine(t, Config{})
		got := e.Convert(">>> **Bold** title\nbody\n<<<", "")
		if !strings.Contains(got, "<h3><strong>Bold</strong> title</h3>") {
			t.Errorf("title not formatted, got:\n%s", got)
		}
	})

	t.Run("fenced code inside body", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine(t, Config{})
		got := e.Convert(">>> Code\n```\na < b\n```\n<<<", "")
		if !strings.Contains(got, "<pre><code>a &lt; b</code></pre>") {
			t.Errorf("nested code not rendered, got:\n%s", got)
		}
		if strings.ContainsAny(got, tokenStart+tokenEnd) {
			t.Errorf("unexpanded placeholder in output:\n%q", got)
		}
	})

	t.Run("custom template", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine(t, Config{CollapsibleTemplate: `<details><summary>{{.Title}}</summary>{{.Body}}</details>`})
		got := e.Convert(">>> Notes\nHi\n<<<", "")
		want := "<details><summary>Notes</summary><p>Hi</p></details>"
		if got != want {
			t.Errorf("Convert() = %q, want %q", got, want)
		}
	})
}

func TestNewEngine_InvalidTemplate(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(Config{CollapsibleTemplate: "{{.Title"})
	if err == nil {
		t.Fatal("expected error for unparsable template")
	}
}

func TestEngine_Convert_NeverPanics(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"```",
		"``````",
		"[IMAGE:]",
		"[IMAGE:|]",
		"![](",
		"![]()",
		">>>",
		">>> \n<<<",
		"<<<",
		"**",
		"***",
		"* ",
		"1.",
		"[a](",
		"`",
		"\uE000\uE001",
		"\uE0009\uE001",
		strings.Repeat(">>> x\n", 50),
		strings.Repeat("<<<\n", 50),
	}

	e := newTestEngine(t, Config{})
	for _, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Convert(%q) panicked: %v", in, r)
				}
			}()
			out := e.Convert(in, "id")
			if strings.ContainsAny(out, tokenStart+tokenEnd) {
				t.Errorf("Convert(%q) leaked a placeholder: %q", in, out)
			}
		}()
	}
}

func TestEngine_PassNames(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Config{})
	got := strings.Join(e.PassNames(), ",")
	want := "normalize,fences,collapsibles,images,inline-code,headings,emphasis,links,blockquotes,ordered-lists,unordered-lists,paragraphs"
	if got != want {
		t.Errorf("PassNames() = %s, want %s", got, want)
	}
}

func TestResolveImagePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		articleID string
		expected  string
	}{
		{"https URL", "https://cdn.example.com/a.png", "post", "https://cdn.example.com/a.png"},
		{"protocol relative", "//cdn.example.com/a.png", "post", "//cdn.example.com/a.png"},
		{"data URI", "data:image/png;base64,AAAA", "post", "data:image/png;base64,AAAA"},
		{"site absolute", "/assets/x.png", "my-post", "/assets/x.png"},
		{"already in images dir", "blog/images/other/a.png", "post", "blog/images/other/a.png"},
		{"relative into images dir", "../../blog/images/post/a.png", "post", "../../blog/images/post/a.png"},
		{"bare name with article", "diagram.webp", "my-post", "../../blog/images/my-post/diagram.webp"},
		{"bare name without article", "diagram.webp", "", "../../blog/images/diagram.webp"},
		{"subdirectory", "shared/logo.svg", "post", "../../blog/images/shared/logo.svg"},
		{"backslashes normalized", `shared\logo.svg`, "post", "../../blog/images/shared/logo.svg"},
		{"backslashes in images dir path", `blog\images\a.png`, "post", "blog/images/a.png"},
		{"drive letter is not a scheme", `C:\pics\a.png`, "post", "../../blog/images/C:/pics/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ResolveImagePath(tt.path, tt.articleID, DefaultImageBase, DefaultImagesDir)
			if got != tt.expected {
				t.Errorf("ResolveImagePath(%q, %q) = %q, want %q", tt.path, tt.articleID, got, tt.expected)
			}
		})
	}
}

func TestNewEngine_ImageBase(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Config{ImageBase: "/static/img", ImagesDir: "/static/img/"})

	got := e.Convert("[IMAGE:a.png]", "post")
	if !strings.Contains(got, `src="/static/img/post/a.png"`) {
		t.Errorf("custom base not applied, got:\n%s", got)
	}
}
