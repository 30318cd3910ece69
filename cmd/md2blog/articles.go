package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/yourmoontg/go-md2blog/internal/articles"
	"github.com/yourmoontg/go-md2blog/internal/assets"
	"github.com/yourmoontg/go-md2blog/internal/fileutil"
	"github.com/yourmoontg/go-md2blog/internal/importer"
)

// runNew adds an article to the local catalog and writes its Markdown scaffold.
func runNew(_ context.Context, args []string, env *Environment) error {
	f := &newFlags{}
	rest, err := parseArgs(newNewFlagSet(f), args, env, printNewUsage)
	if err != nil {
		return err
	}
	title := strings.TrimSpace(strings.Join(rest, " "))
	if title == "" {
		return fmt.Errorf("%w: new needs a title", ErrUsage)
	}

	a, err := newApp(f.common, env)
	if err != nil {
		return err
	}

	article, err := articles.NewArticle(articles.Draft{
		Title:    title,
		ID:       f.id,
		Date:     f.date,
		Tags:     f.tags,
		Excerpt:  f.excerpt,
		ReadTime: f.readTime,
		Status:   f.status,
		Icon:     f.icon,
	}, env.Now())
	if err != nil {
		return err
	}

	catalogPath := a.localPath(articles.CatalogFile)
	catalog, err := articles.Load(catalogPath)
	if err != nil {
		return err
	}
	if err := catalog.Add(article); err != nil {
		return err
	}

	source := a.localPath(articles.MarkdownPath(article.ID))
	if fileutil.FileExists(source) && !f.force {
		return fmt.Errorf("%w: %s (use --force to replace it)", importer.ErrSourceExists, source)
	}

	resolver, err := assets.NewAssetResolver(a.cfg.Site.AssetPath)
	if err != nil {
		return err
	}
	scaffold, err := resolver.LoadScaffold(assets.ArticleScaffoldName)
	if err != nil {
		return err
	}
	markdown, err := articles.RenderScaffold(scaffold, article)
	if err != nil {
		return err
	}

	if err := fileutil.WriteFileAtomic(source, []byte(markdown), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if err := catalog.Save(catalogPath); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	a.log.Info().Str("article", article.ID).Str("source", source).Msg("created")
	fmt.Fprintln(env.Stdout, source)
	return nil
}

// runList prints the local or remote catalog.
func runList(ctx context.Context, args []string, env *Environment) error {
	f := &listFlags{}
	if _, err := parseArgs(newListFlagSet(f), args, env, printListUsage); err != nil {
		return err
	}
	status := articles.Status(f.status)
	if status != "" && status != articles.StatusDraft && status != articles.StatusPublished {
		return fmt.Errorf("%w: --status must be %q or %q", ErrUsage, articles.StatusDraft, articles.StatusPublished)
	}

	a, err := newApp(f.common, env)
	if err != nil {
		return err
	}

	var catalog *articles.Catalog
	if f.remote {
		st, err := a.remote()
		if err != nil {
			return err
		}
		if catalog, err = st.Catalog(ctx); err != nil {
			return err
		}
	} else if catalog, err = articles.Load(a.localPath(articles.CatalogFile)); err != nil {
		return err
	}

	list := catalog.Filter(status)

	if f.json {
		data, err := (&articles.Catalog{Articles: list}).Marshal()
		if err != nil {
			return err
		}
		_, err = env.Stdout.Write(data)
		return err
	}

	tw := tabwriter.NewWriter(env.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSTATUS\tID\tTITLE")
	for _, art := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", art.Date, art.Status, art.ID, art.Title)
	}
	return tw.Flush()
}
