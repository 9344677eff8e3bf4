package syntax

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-docmark/mdast"
)

// Default orders of the magic block constructs.
const (
	OrderHTMLBlock  = 50
	OrderMagicBlock = 60
)

// magicPattern matches [block:TYPE] ... [/block]; the body is group 2.
var magicPattern = regexp.MustCompile(`(?s)^\[block:([\w-]+)\][ \t]*\n?(.*?)\n?[ \t]*\[/block\]`)

func recognizeMagic(want string) RecognizeFunc {
	return func(src []byte) int {
		if !bytes.HasPrefix(src, []byte("[block:")) {
			return 0
		}
		m := magicPattern.FindSubmatchIndex(src)
		if m == nil {
			return 0
		}
		if want != "" && string(src[m[2]:m[3]]) != want {
			return 0
		}
		return m[1]
	}
}

func splitMagic(span []byte) (typ string, body []byte) {
	m := magicPattern.FindSubmatch(span)
	return string(m[1]), bytes.TrimSpace(m[2])
}

func decodeMagic(typ string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: [block:%s] payload: %v", ErrMalformed, typ, err)
	}
	return nil
}

type htmlPayload struct {
	HTML       string `json:"html"`
	RunScripts bool   `json:"runScripts,omitempty"`
}

// HTMLBlock recognizes [block:html]{"html": "..."}[/block].
func HTMLBlock() Construct {
	return Construct{
		Name:      "html-block",
		Kind:      Block,
		Order:     OrderHTMLBlock,
		Trigger:   []byte{'['},
		Types:     []mdast.Type{mdast.HTMLBlock},
		Recognize: recognizeMagic("html"),
		Produce: func(span []byte, _ Context) (*mdast.Node, error) {
			typ, body := splitMagic(span)
			var p htmlPayload
			if err := decodeMagic(typ, body, &p); err != nil {
				return nil, err
			}
			return mdast.NewLeaf(mdast.HTMLBlock, &mdast.HTMLBlockAttrs{RunScripts: p.RunScripts}, p.HTML), nil
		},
		Serialize: func(n *mdast.Node, _ Printer) (string, bool) {
			p := htmlPayload{HTML: n.Value}
			if a, ok := mdast.As[*mdast.HTMLBlockAttrs](n); ok {
				p.RunScripts = a.RunScripts
			}
			return encodeMagic("html", p)
		},
	}
}

func encodeMagic(typ string, payload any) (string, bool) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return "", false
	}
	return "[block:" + typ + "]\n" + strings.TrimRight(buf.String(), "\n") + "\n[/block]", true
}

// calloutThemes maps magic block callout types to icon and theme.
var calloutThemes = map[string][2]string{
	"info":    {"📘", "info"},
	"success": {"👍", "okay"},
	"warning": {"🚧", "warn"},
	"danger":  {"❗️", "error"},
}

type calloutPayload struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type codePayload struct {
	Codes []struct {
		Code     string `json:"code"`
		Language string `json:"language"`
		Name     string `json:"name"`
	} `json:"codes"`
}

type imagePayload struct {
	Images []struct {
		Image   []string `json:"image"`
		Caption string   `json:"caption"`
		Sizing  string   `json:"sizing"`
		Align   string   `json:"align"`
	} `json:"images"`
}

type embedPayload struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Provider string `json:"provider"`
}

type headerPayload struct {
	Title string `json:"title"`
	Level int    `json:"level"`
}

type parametersPayload struct {
	Data  map[string]string `json:"data"`
	Cols  int               `json:"cols"`
	Rows  int               `json:"rows"`
	Align []string          `json:"align"`
}

// MagicBlock recognizes the remaining [block:TYPE] forms and maps each to a
// standard or custom node. Unknown types fall back to literal text.
func MagicBlock() Construct {
	return Construct{
		Name:      "magic-block",
		Kind:      Block,
		Order:     OrderMagicBlock,
		Trigger:   []byte{'['},
		Recognize: recognizeMagic(""),
		Produce: func(span []byte, ctx Context) (*mdast.Node, error) {
			typ, body := splitMagic(span)
			switch typ {
			case "callout":
				return magicCallout(typ, body, ctx)
			case "code":
				return magicCode(typ, body)
			case "image":
				return magicImage(typ, body)
			case "embed":
				var p embedPayload
				if err := decodeMagic(typ, body, &p); err != nil {
					return nil, err
				}
				return NewEmbed(p.URL, p.Title, p.Provider)
			case "api-header":
				var p headerPayload
				if err := decodeMagic(typ, body, &p); err != nil {
					return nil, err
				}
				depth := p.Level
				if depth < 1 || depth > 6 {
					depth = 2
				}
				return mdast.New(mdast.Heading, &mdast.HeadingAttrs{Depth: depth}, ctx.Inlines([]byte(p.Title))...), nil
			case "parameters":
				return magicParameters(typ, body, ctx)
			}
			return nil, fmt.Errorf("%w: unknown block type %q", ErrMalformed, typ)
		},
	}
}

func magicCallout(typ string, body []byte, ctx Context) (*mdast.Node, error) {
	var p calloutPayload
	if err := decodeMagic(typ, body, &p); err != nil {
		return nil, err
	}
	theme, ok := calloutThemes[p.Type]
	if !ok {
		theme = calloutThemes["info"]
	}
	return mdast.New(mdast.Callout,
		&mdast.CalloutAttrs{Icon: theme[0], Theme: theme[1], Title: strings.TrimSpace(p.Title)},
		ctx.Blocks([]byte(p.Body))...), nil
}

func magicCode(typ string, body []byte) (*mdast.Node, error) {
	var p codePayload
	if err := decodeMagic(typ, body, &p); err != nil {
		return nil, err
	}
	if len(p.Codes) == 0 {
		return nil, fmt.Errorf("%w: [block:code] has no codes", ErrMalformed)
	}
	codes := make([]*mdast.Node, len(p.Codes))
	for i, c := range p.Codes {
		codes[i] = mdast.NewLeaf(mdast.Code, &mdast.CodeAttrs{Lang: c.Language, Meta: c.Name}, c.Code)
	}
	if len(codes) == 1 {
		return codes[0], nil
	}
	return mdast.New(mdast.CodeTabs, nil, codes...), nil
}

func magicImage(typ string, body []byte) (*mdast.Node, error) {
	var p imagePayload
	if err := decodeMagic(typ, body, &p); err != nil {
		return nil, err
	}
	para := mdast.New(mdast.Paragraph, nil)
	for _, img := range p.Images {
		if len(img.Image) == 0 || img.Image[0] == "" {
			continue
		}
		alt := img.Caption
		if alt == "" && len(img.Image) > 1 {
			alt = img.Image[1]
		}
		para.Children = append(para.Children, mdast.NewLeaf(mdast.Image, &mdast.ImageAttrs{
			URL:     img.Image[0],
			Alt:     alt,
			Caption: img.Caption,
			Width:   img.Sizing,
			Align:   img.Align,
		}, ""))
	}
	if len(para.Children) == 0 {
		return nil, fmt.Errorf("%w: [block:image] has no images", ErrMalformed)
	}
	return para, nil
}

// magicParameters builds a table from cells keyed "h-COL" for the header row
// and "ROW-COL" for body rows.
func magicParameters(typ string, body []byte, ctx Context) (*mdast.Node, error) {
	var p parametersPayload
	if err := decodeMagic(typ, body, &p); err != nil {
		return nil, err
	}
	cols, rows := p.Cols, p.Rows
	if cols <= 0 {
		cols = maxIndex(p.Data, 1) + 1
	}
	if rows < 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: [block:parameters] has no columns", ErrMalformed)
	}
	if rows == 0 {
		rows = maxIndex(p.Data, 0) + 1
	}

	align := make([]mdast.Alignment, cols)
	for i := range align {
		if i < len(p.Align) {
			align[i] = mdast.Alignment(p.Align[i])
		}
	}

	row := func(key string, header bool) *mdast.Node {
		r := mdast.New(mdast.TableRow, nil)
		for c := 0; c < cols; c++ {
			cell := mdast.New(mdast.TableCell, &mdast.TableCellAttrs{Header: header, Align: align[c]},
				ctx.Inlines([]byte(p.Data[key+"-"+strconv.Itoa(c)]))...)
			r.Children = append(r.Children, cell)
		}
		return r
	}

	table := mdast.New(mdast.Table, &mdast.TableAttrs{Align: align}, row("h", true))
	for r := 0; r < rows; r++ {
		table.Children = append(table.Children, row(strconv.Itoa(r), false))
	}
	return table, nil
}

// maxIndex returns the largest numeric component at position part of keys
// shaped "ROW-COL", or -1.
func maxIndex(data map[string]string, part int) int {
	best := -1
	for k := range data {
		fields := strings.SplitN(k, "-", 2)
		if len(fields) != 2 {
			continue
		}
		n, err := strconv.Atoi(fields[part])
		if err == nil && n > best {
			best = n
		}
	}
	return best
}
