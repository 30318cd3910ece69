package pipeline

import (
	"strings"
	"testing"
)

func TestChromaHighlighter_Highlight(t *testing.T) {
	t.Parallel()

	h := NewChromaHighlighter("")

	got, ok := h.Highlight("package main", "go")
	if !ok {
		t.Fatal("Highlight(go) reported unknown language")
	}
	if !strings.Contains(got, `class="chroma"`) {
		t.Errorf("expected chroma classes, got %q", got)
	}

	if _, ok := h.Highlight("x", "definitely-not-a-language"); ok {
		t.Error("unknown language should not be highlighted")
	}
}

func TestChromaHighlighter_CSS(t *testing.T) {
	t.Parallel()

	css := NewChromaHighlighter("monokai").CSS()
	if !strings.Contains(css, ".chroma") {
		t.Errorf("CSS() missing .chroma rules: %q", css)
	}
}

func TestEngine_Convert_Highlighting(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Config{Highlighter: NewChromaHighlighter(DefaultHighlightStyle)})

	t.Run("tagged fence highlighted", func(t *testing.T) {
		t.Parallel()

		got := e.Convert("```go\nfmt.Println(1)\n```", "")
		if !strings.Contains(got, `class="chroma"`) {
			t.Errorf("expected highlighted block, got %q", got)
		}
	})

	t.Run("untagged fence plain", func(t *testing.T) {
		t.Parallel()

		got := e.Convert("```\na < b\n```", "")
		if got != "<pre><code>a &lt; b</code></pre>" {
			t.Errorf("Convert() = %q", got)
		}
	})

	t.Run("unknown language plain", func(t *testing.T) {
		t.Parallel()

		got := e.Convert("```definitelynotalanguage\nx\n```", "")
		if got != "<pre><code>x</code></pre>" {
			t.Errorf("Convert() = %q", got)
		}
	})
}
