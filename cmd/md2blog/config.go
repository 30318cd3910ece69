package main

import (
	"context"
	"fmt"

	"github.com/yourmoontg/go-md2blog/internal/yamlutil"
)

// runConfig prints the effective configuration after file, environment
// and flag overrides. The GitHub token is never part of it.
func runConfig(_ context.Context, args []string, env *Environment) error {
	f := &commonFlags{}
	rest, err := parseArgs(newConfigFlagSet(f), args, env, printConfigUsage)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: config takes no arguments", ErrUsage)
	}

	a, err := newApp(*f, env)
	if err != nil {
		return err
	}
	data, err := yamlutil.Marshal(a.cfg)
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(data)
	return err
}
