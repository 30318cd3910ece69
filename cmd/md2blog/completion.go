package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Type     flagType
	Desc     string
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	FilePattern string // glob for file arguments; empty = none
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSets.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"status":   {Values: []string{"draft", "published"}},
	"config":   {FileGlob: "*.yaml,*.yml"},
	"output":   {FileGlob: "*"},
	"drafts":   {FileGlob: "*.db"},
	"blog-dir": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets.
func getCommands() []commandDef {
	return []commandDef{
		{Name: "convert", Desc: "Render Markdown to HTML", Flags: extractFlagsFromFlagSet(newConvertFlagSet("convert", &convertFlags{})), FilePattern: "*.md"},
		{Name: "tomd", Desc: "Convert HTML back to Markdown", Flags: extractFlagsFromFlagSet(newConvertFlagSet("tomd", &convertFlags{})), FilePattern: "*.html"},
		{Name: "new", Desc: "Create an article", Flags: extractFlagsFromFlagSet(newNewFlagSet(&newFlags{}))},
		{Name: "build", Desc: "Build post pages", Flags: extractFlagsFromFlagSet(newBuildFlagSet(&buildFlags{}))},
		{Name: "list", Desc: "List articles", Flags: extractFlagsFromFlagSet(newListFlagSet(&listFlags{}))},
		{Name: "pull", Desc: "Download articles from GitHub", Flags: extractFlagsFromFlagSet(newRemoteFlagSet("pull", &remoteFlags{}))},
		{Name: "publish", Desc: "Push articles to GitHub", Flags: extractFlagsFromFlagSet(newRemoteFlagSet("publish", &remoteFlags{}))},
		{Name: "delete", Desc: "Delete an article on GitHub", Flags: extractFlagsFromFlagSet(newRemoteFlagSet("delete", &remoteFlags{}))},
		{Name: "upload-image", Desc: "Upload an article image", Flags: extractFlagsFromFlagSet(newRemoteFlagSet("upload-image", &remoteFlags{})), FilePattern: "*.png,*.jpg,*.jpeg,*.gif,*.svg,*.webp"},
		{Name: "import", Desc: "Recover Markdown from built pages", Flags: extractFlagsFromFlagSet(newImportFlagSet(&importFlags{})), FilePattern: "*.html"},
		{Name: "serve", Desc: "Start the editor backend", Flags: extractFlagsFromFlagSet(newServeFlagSet(&serveFlags{}))},
		{Name: "doctor", Desc: "Check configuration and access", Flags: extractFlagsFromFlagSet(newDoctorFlagSet(&doctorFlags{}))},
		{Name: "config", Desc: "Print the effective configuration", Flags: extractFlagsFromFlagSet(newConfigFlagSet(&commonFlags{}))},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
		{Name: "completion", Desc: "Generate shell completion script"},
	}
}

// GenerateCompletion writes shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(_ context.Context, args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func flagWords(flags []flagDef) string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return strings.Join(words, " ")
}

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for md2blog\n")
	b.WriteString("_md2blog() {\n")
	b.WriteString("  local cur prev cmd\n")
	b.WriteString("  cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("  prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("  cmd=\"${COMP_WORDS[1]}\"\n")
	b.WriteString("  if [[ $COMP_CWORD -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "    COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", commandNames(cmds))
	b.WriteString("    return\n  fi\n")

	b.WriteString("  case \"$prev\" in\n")
	seen := map[string]bool{}
	for _, c := range cmds {
		for _, f := range c.Flags {
			if seen[f.Long] {
				continue
			}
			switch f.Type {
			case flagEnum:
				fmt.Fprintf(&b, "    --%s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", f.Long, strings.Join(f.Values, " "))
			case flagDir:
				fmt.Fprintf(&b, "    --%s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", f.Long)
			case flagFile:
				fmt.Fprintf(&b, "    --%s) COMPREPLY=($(compgen -f -- \"$cur\")); return ;;\n", f.Long)
			default:
				continue
			}
			seen[f.Long] = true
		}
	}
	b.WriteString("  esac\n")

	b.WriteString("  case \"$cmd\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 && c.FilePattern == "" {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		fmt.Fprintf(&b, "      if [[ \"$cur\" == -* ]]; then COMPREPLY=($(compgen -W %q -- \"$cur\")); return; fi\n", flagWords(c.Flags))
		if c.FilePattern != "" {
			b.WriteString("      COMPREPLY=($(compgen -f -- \"$cur\"))\n")
		}
		b.WriteString("      ;;\n")
	}
	b.WriteString("  esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -o filenames -F _md2blog md2blog\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef md2blog\n\n")
	b.WriteString("_md2blog() {\n")
	b.WriteString("  local -a commands\n")
	b.WriteString("  commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("  )\n\n")
	b.WriteString("  if (( CURRENT == 2 )); then\n")
	b.WriteString("    _describe 'command' commands\n")
	b.WriteString("    return\n  fi\n\n")
	b.WriteString("  case $words[2] in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n      _arguments \\\n", c.Name)
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "        '--%s[%s]%s' \\\n", f.Long, zshEscape(f.Desc), zshAction(f))
		}
		if c.FilePattern != "" {
			b.WriteString("        '*:file:_files'\n")
		} else {
			b.WriteString("        '*:arg:'\n")
		}
		b.WriteString("      ;;\n")
	}
	b.WriteString("  esac\n}\n\n")
	b.WriteString("compdef _md2blog md2blog\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

func zshAction(f flagDef) string {
	switch f.Type {
	case flagBool:
		return ""
	case flagEnum:
		return ":value:(" + strings.Join(f.Values, " ") + ")"
	case flagDir:
		return ":directory:_files -/"
	case flagFile:
		return ":file:_files"
	default:
		return ":value:"
	}
}

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for md2blog\n")
	b.WriteString("complete -c md2blog -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c md2blog -n '__fish_use_subcommand' -a %s -d %q\n", c.Name, c.Desc)
	}
	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_seen_subcommand_from %s'", c.Name)
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c md2blog -n %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagEnum:
				line += fmt.Sprintf(" -x -a %q", strings.Join(f.Values, " "))
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagFile:
				line += " -r -F"
			case flagString, flagInt:
				line += " -x"
			}
			line += fmt.Sprintf(" -d %q\n", f.Desc)
			b.WriteString(line)
		}
		if c.FilePattern != "" {
			fmt.Fprintf(&b, "complete -c md2blog -n %s -F\n", cond)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(md2blog completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(md2blog completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    md2blog completion fish > ~/.config/fish/completions/md2blog.fish")
}
