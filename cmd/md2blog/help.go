package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert       Render a Markdown file to an HTML fragment")
	fmt.Fprintln(w, "  tomd          Convert an HTML fragment back to Markdown")
	fmt.Fprintln(w, "  new           Create an article in the local catalog")
	fmt.Fprintln(w, "  build         Build post pages from the catalog")
	fmt.Fprintln(w, "  list          List articles")
	fmt.Fprintln(w, "  pull          Download the catalog and sources from GitHub")
	fmt.Fprintln(w, "  publish       Push local articles to GitHub")
	fmt.Fprintln(w, "  delete        Delete an article on GitHub")
	fmt.Fprintln(w, "  upload-image  Upload an image for an article")
	fmt.Fprintln(w, "  import        Recover Markdown sources from built pages")
	fmt.Fprintln(w, "  serve         Start the editor backend")
	fmt.Fprintln(w, "  doctor        Check configuration and GitHub access")
	fmt.Fprintln(w, "  config        Print the effective configuration")
	fmt.Fprintln(w, "  completion    Generate shell completion script")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2blog help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags every command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -b, --blog-dir <dir>      Blog directory")
	fmt.Fprintln(w, "  -q, --quiet               Only show warnings and errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug output")
}

func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog convert <input.md|-> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render Markdown to the blog's article HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: stdout)")
	fmt.Fprintln(w, "      --id <id>             Article id for image paths (default: file name)")
	fmt.Fprintln(w, "      --highlight           Highlight fenced code with chroma")
	printCommonUsage(w)
}

func printToMarkdownUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog tomd <input.html|-> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert an article HTML fragment back to Markdown (best effort).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: stdout)")
	printCommonUsage(w)
}

func printNewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog new <title> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add an article to articles.json and write content/<id>.md from the scaffold.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --id <id>             Article id (default: slug of the title)")
	fmt.Fprintln(w, "      --date <date>         YYYY-MM-DD, \"today\" or \"auto\" (default: today)")
	fmt.Fprintln(w, "      --tags <a,b>          Comma-separated tags")
	fmt.Fprintln(w, "      --excerpt <s>         Short description")
	fmt.Fprintln(w, "      --read-time <n>       Minutes (default: 5)")
	fmt.Fprintln(w, "      --status <s>          draft or published (default: draft)")
	fmt.Fprintln(w, "      --icon <name>         Icon, e.g. brain (default: icon-brain.svg)")
	fmt.Fprintln(w, "  -f, --force               Overwrite an existing source")
	printCommonUsage(w)
}

func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog build <id>... | --all [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert article sources and stamp them into the post template.")
	fmt.Fprintln(w, "Pages are written to <blog-dir>/posts/.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -a, --all                 Build every article")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	printCommonUsage(w)
}

func printListUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog list [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List articles, newest first.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --status <s>          Only draft or published")
	fmt.Fprintln(w, "      --remote              List the catalog on GitHub")
	fmt.Fprintln(w, "      --json                Print JSON")
	printCommonUsage(w)
}

func printPullUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog pull [id...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Download articles.json and Markdown sources from GitHub.")
	fmt.Fprintln(w, "Requires MD2BLOG_GITHUB_TOKEN or GITHUB_TOKEN.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --catalog-only        Only download articles.json")
	printCommonUsage(w)
}

func printPublishUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog publish <id>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commit local articles (catalog entry and Markdown) to GitHub.")
	fmt.Fprintln(w, "Requires MD2BLOG_GITHUB_TOKEN or GITHUB_TOKEN.")
	printCommonUsage(w)
}

func printDeleteUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog delete <id> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Delete an article's Markdown and catalog entry on GitHub.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --local               Also remove the local source and page")
	printCommonUsage(w)
}

func printUploadImageUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog upload-image <id> <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commit an image to blog/images/<id>/ and print its Markdown reference.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --name <file>         Name in the repository (default: base name)")
	printCommonUsage(w)
}

func printImportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog import <page.html>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recover content/<id>.md from built post pages and add missing")
	fmt.Fprintln(w, "articles to the catalog.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -f, --overwrite           Replace existing sources")
	printCommonUsage(w)
}

func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Start the editor backend: live preview, drafts and GitHub articles.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default: 127.0.0.1:8080)")
	fmt.Fprintln(w, "      --drafts <path>       Drafts database (default: <blog-dir>/drafts.db)")
	fmt.Fprintln(w, "      --json-log            Log as JSON")
	printCommonUsage(w)
}

func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the blog directory, configuration and GitHub access.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print JSON")
	fmt.Fprintln(w, "      --offline             Skip the repository check")
	printCommonUsage(w)
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration as YAML, after MD2BLOG_* variables and flags")
	fmt.Fprintln(w, "are applied. The GitHub token is not shown.")
	printCommonUsage(w)
}

// commandUsage maps command names to their usage printers.
var commandUsage = map[string]func(io.Writer){
	"convert":      printConvertUsage,
	"tomd":         printToMarkdownUsage,
	"new":          printNewUsage,
	"build":        printBuildUsage,
	"list":         printListUsage,
	"pull":         printPullUsage,
	"publish":      printPublishUsage,
	"delete":       printDeleteUsage,
	"upload-image": printUploadImageUsage,
	"import":       printImportUsage,
	"serve":        printServeUsage,
	"doctor":       printDoctorUsage,
	"config":       printConfigUsage,
	"completion":   printCompletionUsage,
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2blog version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2blog help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		usage, ok := commandUsage[args[0]]
		if !ok {
			printUsage(env.Stderr)
			return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
		}
		usage(env.Stdout)
	}
	return nil
}
