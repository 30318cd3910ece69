package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// runConvert renders a Markdown file, or stdin, to an HTML fragment.
func runConvert(_ context.Context, args []string, env *Environment) error {
	f := &convertFlags{}
	rest, err := parseArgs(newConvertFlagSet("convert", f), args, env, printConvertUsage)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("%w: convert takes one input file ('-' for stdin)", ErrUsage)
	}

	a, err := newApp(f.common, env)
	if err != nil {
		return err
	}
	conv, err := a.converter(f.highlight)
	if err != nil {
		return err
	}

	markdown, err := readInput(rest[0], env)
	if err != nil {
		return err
	}

	id := f.id
	if id == "" && rest[0] != "-" {
		id = idFromPath(rest[0])
	}

	html := conv.Convert(markdown, id)
	if css := conv.HighlightCSS(); css != "" {
		html = "<style>\n" + css + "</style>\n" + html
	}
	a.log.Debug().Str("input", rest[0]).Str("article", id).Int("bytes", len(html)).Msg("converted")
	return writeOutput(f.output, html+"\n", env)
}

// runToMarkdown maps an HTML fragment back to the Markdown dialect.
func runToMarkdown(_ context.Context, args []string, env *Environment) error {
	f := &convertFlags{}
	rest, err := parseArgs(newConvertFlagSet("tomd", f), args, env, printToMarkdownUsage)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("%w: tomd takes one input file ('-' for stdin)", ErrUsage)
	}

	a, err := newApp(f.common, env)
	if err != nil {
		return err
	}
	conv, err := a.converter(false)
	if err != nil {
		return err
	}

	fragment, err := readInput(rest[0], env)
	if err != nil {
		return err
	}
	return writeOutput(f.output, conv.ToMarkdown(fragment)+"\n", env)
}

// idFromPath derives an article id from a source file name: content/foo.md -> foo.
func idFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
