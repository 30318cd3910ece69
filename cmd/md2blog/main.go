package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/yourmoontg/go-md2blog/internal/articles"
	"github.com/yourmoontg/go-md2blog/internal/github"
	"github.com/yourmoontg/go-md2blog/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

// command runs one CLI command.
type command func(ctx context.Context, args []string, env *Environment) error

// commands is the command registry.
var commands = map[string]command{
	"convert":      runConvert,
	"tomd":         runToMarkdown,
	"new":          runNew,
	"build":        runBuild,
	"list":         runList,
	"pull":         runPull,
	"publish":      runPublish,
	"delete":       runDelete,
	"upload-image": runUploadImage,
	"import":       runImport,
	"serve":        runServe,
	"doctor":       runDoctor,
	"config":       runConfig,
	"completion":   runCompletion,
}

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if isVerbose(os.Args) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain runs the CLI and returns the process exit code.
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	err := run(ctx, args, env)
	if err == nil || errors.Is(err, errHelpShown) {
		return ExitSuccess
	}
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}

// run dispatches args[1] to its command.
func run(ctx context.Context, args []string, env *Environment) error {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: missing command", ErrUsage)
	}

	name, rest := args[1], args[2:]
	switch name {
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "md2blog %s\n", Version)
		return nil
	case "help", "-h", "--help":
		return runHelp(rest, env)
	}

	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: %q (run 'md2blog help')", ErrUnknownCommand, name)
	}
	return cmd(ctx, rest, env)
}

// hintFor returns an actionable hint for remote and lookup errors.
// Other errors carry their hints in the message already.
func hintFor(err error) string {
	if errors.Is(err, articles.ErrArticleNotFound) {
		return hints.ForArticleNotFound()
	}
	if status := github.StatusCode(err); status != 0 {
		return hints.ForGitHubStatus(status)
	}
	return ""
}

// isVerbose reports whether -v or --verbose appears in args.
func isVerbose(args []string) bool {
	for _, a := range args[1:] {
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}
