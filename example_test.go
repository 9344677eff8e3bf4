package docmark_test

import (
	"fmt"

	"github.com/alnah/go-docmark"
)

// Example renders markdown to HTML. Variables without a value stay literal.
func Example() {
	p, err := docmark.New()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	out, ok := p.HTML("Hello <<user>>!")
	if !ok {
		fmt.Println("empty input")
		return
	}
	fmt.Println(out)
	// Output: <p>Hello &lt;&lt;user&gt;&gt;!</p>
}

// Example_variables substitutes variable references.
func Example_variables() {
	p, err := docmark.New(docmark.WithVariables(map[string]string{"user": "Ada"}))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	out, _ := p.HTML("Hello <<user>>!")
	fmt.Println(out)
	// Output: <p>Hello Ada!</p>
}

// Example_toc builds a table of contents from a parsed document.
func Example_toc() {
	p, err := docmark.New()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	root := p.Parse("### Setup\n\n#### Install\n\n### Usage")
	for _, e := range p.TOCTree(root).Flatten() {
		fmt.Println(e.Number, e.Text, e.Slug)
	}
	// Output:
	// 1. Setup setup
	// 1.1. Install install
	// 2. Usage usage
}

// Example_markdown prints a parsed document back to markdown.
func Example_markdown() {
	p, err := docmark.New()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	out, _ := p.Markdown(p.Parse("Some *text* and a <<glossary:term>>."))
	fmt.Print(out)
	// Output: Some *text* and a <<glossary:term>>.
}
