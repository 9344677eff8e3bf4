package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docmark <command> [flags] [input...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'docmark help <command>' for details on a specific command.")
}

// printCommandUsage prints usage for a processing command.
func printCommandUsage(w io.Writer, cmd command) {
	fmt.Fprintf(w, "Usage: docmark %s [flags] [input...]\n", cmd.name)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s.\n", cmd.summary)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown files or directories, or - for stdin")
	fmt.Fprintln(w, "           (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintf(w, "  -o, --output <dir>        Output directory (files get the .%s extension)\n", cmd.ext)
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Markdown:")
	fmt.Fprintln(w, "  --line-breaks <mode>      Single newline handling: hard, soft (default: hard)")
	fmt.Fprintln(w, "  --disable <name>          Disable a construct (repeatable)")
	fmt.Fprintln(w, "  --no-dangerous-html       Keep raw HTML as literal text")
	fmt.Fprintln(w, "  --no-normalize            Keep magic block spacing as written")
	fmt.Fprintln(w, "  --prefix <name>           Custom component element prefix (default: x)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  --policy <name|path>      Sanitization policy (default: default)")
	fmt.Fprintln(w, "  --asset-path <dir>        Custom policies/ and templates/ directory")
	fmt.Fprintln(w, "  --toc-depth <n>           Deepest heading level in the TOC, 1-6 (default: 2)")
	fmt.Fprintln(w, "  --highlight               Highlight fenced code")
	fmt.Fprintln(w, "  --standalone              Wrap HTML output in a full document")
	fmt.Fprintln(w, "  --var <name=value>        Template variable (repeatable)")
	fmt.Fprintln(w, "                            value auto or auto:FORMAT inserts today's date")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing and debug logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A single file or stdin without --output is written to stdout. Several")
	fmt.Fprintln(w, "inputs without --output are written next to their sources.")
	if cmd.name == "fmt" {
		fmt.Fprintln(w, "For fmt this rewrites .md files in place.")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  DOCMARK_CONFIG, DOCMARK_POLICY, DOCMARK_LINE_BREAKS, DOCMARK_INPUT_DIR,")
	fmt.Fprintln(w, "  DOCMARK_OUTPUT_DIR, DOCMARK_ASSET_PATH, DOCMARK_WORKERS")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	if cmd, ok := lookupCommand(args[0]); ok {
		printCommandUsage(env.Stdout, cmd)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: docmark version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: docmark help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", args[0])
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return nil
}
