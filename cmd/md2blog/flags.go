package main

import (
	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	blogDir string
	quiet   bool
	verbose bool
}

// convertFlags holds flags for convert and tomd.
type convertFlags struct {
	common    commonFlags
	output    string
	id        string
	highlight bool
}

// newFlags holds flags for the new command.
type newFlags struct {
	common   commonFlags
	id       string
	date     string
	tags     string
	excerpt  string
	readTime int
	status   string
	icon     string
	force    bool
}

// buildFlags holds flags for the build command.
type buildFlags struct {
	common  commonFlags
	all     bool
	workers int
}

// listFlags holds flags for the list command.
type listFlags struct {
	common commonFlags
	status string
	remote bool
	json   bool
}

// remoteFlags holds flags for pull, publish, delete and upload-image.
type remoteFlags struct {
	common      commonFlags
	catalogOnly bool   // pull: skip Markdown sources
	local       bool   // delete: also remove local files
	name        string // upload-image: file name in the repository
}

// importFlags holds flags for the import command.
type importFlags struct {
	common    commonFlags
	overwrite bool
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common  commonFlags
	addr    string
	drafts  string
	jsonLog bool
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common  commonFlags
	json    bool
	offline bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.blogDir, "blog-dir", "b", "", "blog directory (articles.json, content/, posts/)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show warnings and errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug output")
}

func newConvertFlagSet(name string, f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	if name == "convert" {
		fs.StringVar(&f.id, "id", "", "article id for image paths")
		fs.BoolVar(&f.highlight, "highlight", false, "highlight fenced code with chroma")
	}
	addCommonFlags(fs, &f.common)
	return fs
}

func newNewFlagSet(f *newFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	fs.StringVar(&f.id, "id", "", "article id (default: slug of the title)")
	fs.StringVar(&f.date, "date", "", "publication date YYYY-MM-DD (default: today)")
	fs.StringVar(&f.tags, "tags", "", "comma-separated tags")
	fs.StringVar(&f.excerpt, "excerpt", "", "short description")
	fs.IntVar(&f.readTime, "read-time", 0, "read time in minutes (0 = estimate on build)")
	fs.StringVar(&f.status, "status", "", "draft or published (default: draft)")
	fs.StringVar(&f.icon, "icon", "", "icon name, e.g. brain or icon-brain.svg")
	fs.BoolVarP(&f.force, "force", "f", false, "overwrite an existing Markdown source")
	addCommonFlags(fs, &f.common)
	return fs
}

func newBuildFlagSet(f *buildFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.BoolVarP(&f.all, "all", "a", false, "build every article in the catalog")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	addCommonFlags(fs, &f.common)
	return fs
}

func newListFlagSet(f *listFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.StringVar(&f.status, "status", "", "only draft or published articles")
	fs.BoolVar(&f.remote, "remote", false, "list the catalog stored on GitHub")
	fs.BoolVar(&f.json, "json", false, "print the catalog as JSON")
	addCommonFlags(fs, &f.common)
	return fs
}

func newRemoteFlagSet(name string, f *remoteFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	switch name {
	case "pull":
		fs.BoolVar(&f.catalogOnly, "catalog-only", false, "only download articles.json")
	case "delete":
		fs.BoolVar(&f.local, "local", false, "also remove the local source and page")
	case "upload-image":
		fs.StringVar(&f.name, "name", "", "file name in the repository (default: base name)")
	}
	addCommonFlags(fs, &f.common)
	return fs
}

func newImportFlagSet(f *importFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.BoolVarP(&f.overwrite, "overwrite", "f", false, "replace existing Markdown sources")
	addCommonFlags(fs, &f.common)
	return fs
}

func newServeFlagSet(f *serveFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.StringVar(&f.addr, "addr", "", "listen address (default: server.addr)")
	fs.StringVar(&f.drafts, "drafts", "", "drafts database path (default: server.draftsPath)")
	fs.BoolVar(&f.jsonLog, "json-log", false, "log requests as JSON")
	addCommonFlags(fs, &f.common)
	return fs
}

func newDoctorFlagSet(f *doctorFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	fs.BoolVar(&f.offline, "offline", false, "skip the GitHub repository check")
	addCommonFlags(fs, &f.common)
	return fs
}

func newConfigFlagSet(f *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	addCommonFlags(fs, f)
	return fs
}
