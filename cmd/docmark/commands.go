package main

import (
	"fmt"

	docmark "github.com/alnah/go-docmark"
	"github.com/alnah/go-docmark/internal/yamlutil"
	"github.com/alnah/go-docmark/mdast"
	"github.com/alnah/go-docmark/render"
)

// Renderer is the subset of the processor the commands use.
type Renderer interface {
	Parse(text string) *mdast.Node
	HTML(text string) (string, bool)
	Standalone(text string) (string, bool)
	Text(text string) (string, bool)
	Render(text string) []*render.Element
	TOC(root *mdast.Node) (string, bool)
	Markdown(root *mdast.Node) (string, bool)
}

// Compile-time interface implementation check.
var _ Renderer = (*docmark.Processor)(nil)

// renderFunc produces the output of a command for one document. An empty
// result with a nil error means the document produced nothing.
type renderFunc func(r Renderer, src string, opts outputOptions) (string, error)

// outputOptions are per-run switches that change a command's output.
type outputOptions struct {
	standalone bool
}

// command describes one processing command.
type command struct {
	name    string
	summary string
	ext     string // output file extension
	run     renderFunc
}

var commands = []command{
	{name: "html", summary: "Render markdown to HTML", ext: "html", run: runHTML},
	{name: "text", summary: "Render markdown to plain text", ext: "txt", run: runText},
	{name: "tree", summary: "Dump the document tree as YAML", ext: "yaml", run: runTree},
	{name: "render", summary: "Dump the rendered element tree as YAML", ext: "yaml", run: runRender},
	{name: "toc", summary: "Render the table of contents as HTML", ext: "html", run: runTOC},
	{name: "fmt", summary: "Reformat markdown", ext: "md", run: runFmt},
}

// lookupCommand returns the command named name.
func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func runHTML(r Renderer, src string, opts outputOptions) (string, error) {
	if opts.standalone {
		out, _ := r.Standalone(src)
		return out, nil
	}
	out, _ := r.HTML(src)
	return out, nil
}

func runText(r Renderer, src string, _ outputOptions) (string, error) {
	out, _ := r.Text(src)
	return out, nil
}

func runTree(r Renderer, src string, _ outputOptions) (string, error) {
	root := r.Parse(src)
	if root == nil {
		return "", nil
	}
	return marshalYAML(root)
}

func runRender(r Renderer, src string, _ outputOptions) (string, error) {
	elements := r.Render(src)
	if elements == nil {
		return "", nil
	}
	return marshalYAML(elements)
}

func runTOC(r Renderer, src string, _ outputOptions) (string, error) {
	out, _ := r.TOC(r.Parse(src))
	return out, nil
}

func runFmt(r Renderer, src string, _ outputOptions) (string, error) {
	out, _ := r.Markdown(r.Parse(src))
	return out, nil
}

func marshalYAML(v any) (string, error) {
	data, err := yamlutil.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding tree: %w", err)
	}
	return string(data), nil
}
