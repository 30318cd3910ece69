package main

import (
	"context"
	"fmt"

	"github.com/yourmoontg/go-md2blog/internal/articles"
	"github.com/yourmoontg/go-md2blog/internal/importer"
)

// runImport recovers Markdown sources from built post pages.
func runImport(_ context.Context, args []string, env *Environment) error {
	f := &importFlags{}
	pages, err := parseArgs(newImportFlagSet(f), args, env, printImportUsage)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("%w: import takes at least one page", ErrUsage)
	}

	a, err := newApp(f.common, env)
	if err != nil {
		return err
	}
	conv, err := a.converter(false)
	if err != nil {
		return err
	}

	failed := 0
	for _, page := range pages {
		res, added, err := importer.ImportFile(page, a.cfg.Site.BlogDir, conv, f.overwrite)
		if err != nil {
			if len(pages) == 1 {
				return err
			}
			a.log.Warn().Str("page", page).Err(err).Msg("import failed")
			failed++
			continue
		}
		a.log.Info().Str("article", res.Article.ID).Bool("catalog_added", added).Msg("imported")
		fmt.Fprintf(env.Stdout, "%s -> %s\n", page, a.localPath(articles.MarkdownPath(res.Article.ID)))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d imports failed", failed, len(pages))
	}
	return nil
}
