package main

import (
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// markdownFlags holds parser flags.
type markdownFlags struct {
	lineBreaks      string
	disable         []string
	noDangerousHTML bool
	noNormalize     bool
	prefix          string
}

// renderFlags holds output rendering flags.
type renderFlags struct {
	highlight  bool
	standalone bool
	vars       []string // name=value pairs
}

// commandFlags holds all flags for a processing command.
type commandFlags struct {
	common    commonFlags
	output    string
	workers   int
	tocDepth  int
	policy    string
	assetPath string
	markdown  markdownFlags
	render    renderFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing and debug logs")
}

// addMarkdownFlags adds parser flags to a FlagSet.
func addMarkdownFlags(fs *flag.FlagSet, f *markdownFlags) {
	fs.StringVar(&f.lineBreaks, "line-breaks", "", "single newline handling: hard, soft")
	fs.StringSliceVar(&f.disable, "disable", nil, "construct to disable (repeatable)")
	fs.BoolVar(&f.noDangerousHTML, "no-dangerous-html", false, "keep raw HTML as literal text")
	fs.BoolVar(&f.noNormalize, "no-normalize", false, "keep magic block spacing as written")
	fs.StringVar(&f.prefix, "prefix", "", "custom component element prefix")
}

// addRenderFlags adds rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.BoolVar(&f.highlight, "highlight", false, "highlight fenced code with chroma")
	fs.BoolVar(&f.standalone, "standalone", false, "wrap HTML output in a full document")
	fs.StringArrayVar(&f.vars, "var", nil, "template variable name=value (repeatable)")
}

// parseCommandFlags parses the flags of cmd and returns positional args.
func parseCommandFlags(cmd command, args []string, stderr io.Writer) (*commandFlags, []string, error) {
	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &commandFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.IntVar(&f.tocDepth, "toc-depth", 0, "deepest heading level in the TOC (1-6)")
	fs.StringVar(&f.policy, "policy", "", "sanitization policy name or file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addMarkdownFlags(fs, &f.markdown)
	addRenderFlags(fs, &f.render)

	fs.Usage = func() { printCommandUsage(stderr, cmd) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parseVariables turns name=value pairs into a map.
func parseVariables(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: %q (want name=value)", ErrInvalidVariable, pair)
		}
		vars[strings.TrimSpace(name)] = value
	}
	return vars, nil
}
