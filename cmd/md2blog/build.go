package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourmoontg/go-md2blog/internal/site"
)

// runBuild writes the static pages of the given articles, or of all of them.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	f := &buildFlags{}
	ids, err := parseArgs(newBuildFlagSet(f), args, env, printBuildUsage)
	if err != nil {
		return err
	}
	if err := validateWorkers(f.workers); err != nil {
		return err
	}
	if f.all == (len(ids) > 0) {
		return fmt.Errorf("%w: build takes article ids or --all", ErrUsage)
	}

	a, err := newApp(f.common, env)
	if err != nil {
		return err
	}
	if _, err := a.blogDir(); err != nil {
		return err
	}
	conv, err := a.converter(false)
	if err != nil {
		return err
	}
	b, err := a.builder(conv, f.workers)
	if err != nil {
		return err
	}

	if f.all {
		summary, err := b.BuildAll(ctx)
		printBuildSummary(env, f.common.quiet, summary)
		return err
	}

	var summary site.Summary
	for _, id := range ids {
		res, err := b.Build(ctx, id)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			a.log.Warn().Str("article", id).Err(err).Msg("build failed")
			summary.Failed = append(summary.Failed, site.Failure{ID: id, Err: err})
			continue
		}
		summary.Built = append(summary.Built, res)
	}
	printBuildSummary(env, f.common.quiet, summary)

	switch {
	case len(summary.Failed) == 1 && len(ids) == 1:
		return summary.Failed[0].Err
	case len(summary.Failed) > 0:
		return fmt.Errorf("%w: %d of %d", site.ErrBuildFailed, len(summary.Failed), len(ids))
	}
	return nil
}

// printBuildSummary lists written pages and failures.
func printBuildSummary(env *Environment, quiet bool, s site.Summary) {
	if !quiet {
		for _, r := range s.Built {
			fmt.Fprintf(env.Stdout, "%s -> %s\n", r.ID, r.Output)
		}
	}
	for _, f := range s.Failed {
		fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", f.ID, f.Err)
	}
	if !quiet || len(s.Failed) > 0 {
		fmt.Fprintf(env.Stdout, "%d built, %d failed\n", len(s.Built), len(s.Failed))
	}
}
