package pipeline

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Reading speed used for read time estimates.
const WordsPerMinute = 200

// MaxExcerptLength caps the excerpt suggestion, in runes.
const MaxExcerptLength = 200

// Stats summarizes an article's Markdown source.
type Stats struct {
	Words       int    `json:"words"`
	ReadMinutes int    `json:"readMinutes"`
	Title       string `json:"title,omitempty"`   // first level-1 heading
	Excerpt     string `json:"excerpt,omitempty"` // first top-level paragraph, plain text
}

// Analyzer parses Markdown with goldmark to collect article statistics.
// The blog's custom tokens are plain text to goldmark, which is all the
// statistics need.
type Analyzer struct {
	md goldmark.Markdown
}

// NewAnalyzer creates an Analyzer with GFM parsing.
func NewAnalyzer() *Analyzer {
	return &Analyzer{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// Analyze returns word count, read time, title and excerpt for source.
// Fenced code is not counted as prose.
func (a *Analyzer) Analyze(source string) Stats {
	src := []byte(source)
	doc := a.md.Parser().Parse(text.NewReader(src))

	var stats Stats
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Heading:
			if node.Level == 1 && stats.Title == "" {
				stats.Title = plainText(node, src)
			}
		case *ast.Paragraph:
			if stats.Excerpt == "" && node.Parent() == doc {
				stats.Excerpt = truncateRunes(plainText(node, src), MaxExcerptLength)
			}
		case *ast.Text:
			stats.Words += len(strings.Fields(string(node.Segment.Value(src))))
		}
		return ast.WalkContinue, nil
	})

	stats.ReadMinutes = EstimateReadMinutes(stats.Words)
	return stats
}

// EstimateReadMinutes converts a word count to whole minutes, at least 1.
func EstimateReadMinutes(words int) int {
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// plainText concatenates the text segments below n.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max])) + "…"
}
