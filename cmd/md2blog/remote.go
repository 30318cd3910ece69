package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/yourmoontg/go-md2blog/internal/articles"
	"github.com/yourmoontg/go-md2blog/internal/fileutil"
	"github.com/yourmoontg/go-md2blog/internal/github"
)

// runPull downloads the remote catalog and article sources into the blog directory.
func runPull(ctx context.Context, args []string, env *Environment) error {
	f := &remoteFlags{}
	ids, err := parseArgs(newRemoteFlagSet("pull", f), args, env, printPullUsage)
	if err != nil {
		return err
	}

	a, err := newApp(f.common, env)
	if err != nil {
		return err
	}
	st, err := a.remote()
	if err != nil {
		return err
	}

	catalog, err := st.Catalog(ctx)
	if err != nil {
		return err
	}
	if err := catalog.Save(a.localPath(articles.CatalogFile)); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	a.log.Info().Int("articles", len(catalog.Articles)).Msg("catalog pulled")
	if f.catalogOnly {
		return nil
	}

	if len(ids) == 0 {
		for _, art := range catalog.Articles {
			ids = append(ids, art.ID)
		}
	}

	pulled := 0
	for _, id := range ids {
		if _, ok := catalog.Find(id); !ok {
			return fmt.Errorf("%w: %q", articles.ErrArticleNotFound, id)
		}
		markdown, err := st.Markdown(ctx, id)
		if errors.Is(err, github.ErrNotFound) {
			a.log.Warn().Str("article", id).Msg("no remote markdown, skipped")
			continue
		}
		if err != nil {
			return err
		}
		source := a.localPath(articles.MarkdownPath(id))
		if err := fileutil.WriteFileAtomic(source, []byte(markdown), filePermissions); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		a.log.Debug().Str("article", id).Str("source", source).Msg("pulled")
		pulled++
	}

	fmt.Fprintf(env.Stdout, "%d articles, %d sources pulled\n", len(catalog.Articles), pulled)
	return nil
}

// runPublish pushes local articles, catalog entry and Markdown, to GitHub.
// Articles missing remotely are created; others are updated.
func runPublish(ctx context.Context, args []string, env *Environment) error {
	f := &remoteFlags{}
	ids, err := parseArgs(newRemoteFlagSet("publish", f), args, env, printPublishUsage)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: publish takes at least one article id", ErrUsage)
	}

	a, err := newApp(f.common, env)
	if err != nil {
		return err
	}
	st, err := a.remote()
	if err != nil {
		return err
	}

	local, err := articles.Load(a.localPath(articles.CatalogFile))
	if err != nil {
		return err
	}

	for _, id := range ids {
		art, ok := local.Find(id)
		if !ok {
			return fmt.Errorf("%w: %q in the local catalog", articles.ErrArticleNotFound, id)
		}
		data, err := os.ReadFile(a.localPath(articles.MarkdownPath(id))) // #nosec G304 -- inside the blog directory
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReadInput, err)
		}

		remote, err := st.Catalog(ctx)
		if err != nil {
			return err
		}
		if _, exists := remote.Find(id); exists {
			_, err = st.Update(ctx, id, art, string(data))
		} else {
			_, err = st.Create(ctx, art, string(data))
		}
		if err != nil {
			return fmt.Errorf("publishing %s: %w", id, err)
		}
		a.log.Info().Str("article", id).Msg("published")
		fmt.Fprintf(env.Stdout, "published %s\n", id)
	}
	return nil
}

// runDelete removes an article from GitHub, and optionally from the blog directory.
func runDelete(ctx context.Context, args []string, env *Environment) error {
	f := &remoteFlags{}
	ids, err := parseArgs(newRemoteFlagSet("delete", f), args, env, printDeleteUsage)
	if err != nil {
		return err
	}
	if len(ids) != 1 {
		return fmt.Errorf("%w: delete takes one article id", ErrUsage)
	}
	id := ids[0]

	a, err := newApp(f.common, env)
	if err != nil {
		return err
	}
	st, err := a.remote()
	if err != nil {
		return err
	}

	removed, err := st.Delete(ctx, id)
	if err != nil {
		return err
	}
	a.log.Info().Str("article", id).Msg("deleted remotely")

	if f.local {
		if err := deleteLocal(a, removed); err != nil {
			return err
		}
	}
	fmt.Fprintf(env.Stdout, "deleted %s\n", id)
	return nil
}

// deleteLocal removes an article's catalog entry, source and page.
func deleteLocal(a *app, art articles.Article) error {
	catalogPath := a.localPath(articles.CatalogFile)
	catalog, err := articles.Load(catalogPath)
	if err != nil {
		return err
	}
	if _, err := catalog.Remove(art.ID); err == nil {
		if err := catalog.Save(catalogPath); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}

	page := art.ContentFile
	if page == "" {
		page = articles.ContentFile(art.Date, art.ID)
	}
	for _, p := range []string{
		a.localPath(articles.MarkdownPath(art.ID)),
		a.localPath(path.Join(articles.PostsDir, path.Base(page))),
	} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// runUploadImage commits an image for an article and prints its Markdown reference.
// A local copy is kept so builds resolve the same path.
func runUploadImage(ctx context.Context, args []string, env *Environment) error {
	f := &remoteFlags{}
	rest, err := parseArgs(newRemoteFlagSet("upload-image", f), args, env, printUploadImageUsage)
	if err != nil {
		return err
	}
	if len(rest) != 2 {
		return fmt.Errorf("%w: upload-image takes an article id and a file", ErrUsage)
	}
	id, file := rest[0], rest[1]

	name := f.name
	if name == "" {
		name = filepath.Base(file)
	}

	a, err := newApp(f.common, env)
	if err != nil {
		return err
	}
	st, err := a.remote()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(file) // #nosec G304 -- user-selected image
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	img, err := st.UploadImage(ctx, id, name, data)
	if err != nil {
		return err
	}

	localCopy := a.localPath(path.Join(articles.ImagesDir, id, name))
	if err := fileutil.WriteFileAtomic(localCopy, data, filePermissions); err != nil {
		a.log.Warn().Err(err).Str("path", localCopy).Msg("local image copy not written")
	}

	a.log.Info().Str("article", id).Str("path", img.Path).Msg("image uploaded")
	fmt.Fprintf(env.Stdout, "![%s](%s)\n", name, img.URL)
	return nil
}
