package pipeline

import (
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/alnah/go-docmark/internal/yamlutil"
	"github.com/alnah/go-docmark/mdast"
)

// Front matter fences and the format each one introduces.
var frontMatterFences = []struct {
	fence  string
	format string
}{
	{"---", "yaml"},
	{"+++", "toml"},
}

// SplitFrontMatter splits a leading metadata block off content. It returns
// nil and content unchanged when there is no complete block. lines is the
// number of source lines the block occupied, fence lines included.
//
// The raw text is always kept. Data is nil when it does not parse; the
// failure is logged and the document is still processed.
func SplitFrontMatter(content string, logger *zap.Logger) (fm *mdast.FrontMatter, body string, lines int) {
	for _, f := range frontMatterFences {
		if !strings.HasPrefix(content, f.fence+"\n") {
			continue
		}
		rest := content[len(f.fence)+1:]
		raw, after, ok := cutFence(rest, f.fence)
		if !ok {
			return nil, content, 0
		}

		fm = &mdast.FrontMatter{Format: f.format, Raw: raw}
		if data, err := decodeFrontMatter(f.format, raw); err != nil {
			logger.Warn("front matter ignored", zap.String("format", f.format), zap.Error(err))
		} else {
			fm.Data = data
		}
		consumed := content[:len(content)-len(after)]
		return fm, after, strings.Count(consumed, "\n")
	}
	return nil, content, 0
}

// cutFence finds a line holding only fence and returns the text before it
// and the text after that line.
func cutFence(s, fence string) (before, after string, ok bool) {
	if strings.HasPrefix(s, fence+"\n") || s == fence {
		return "", strings.TrimPrefix(s[len(fence):], "\n"), true
	}
	marker := "\n" + fence
	for off := 0; ; {
		i := strings.Index(s[off:], marker)
		if i < 0 {
			return "", "", false
		}
		start := off + i
		end := start + len(marker)
		if end == len(s) || s[end] == '\n' {
			after := s[end:]
			return s[:start], strings.TrimPrefix(after, "\n"), true
		}
		off = end
	}
}

func decodeFrontMatter(format, raw string) (map[string]any, error) {
	data := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return data, nil
	}
	switch format {
	case "toml":
		if _, err := toml.Decode(raw, &data); err != nil {
			return nil, err
		}
	default:
		if err := yamlutil.Unmarshal([]byte(raw), &data); err != nil {
			return nil, err
		}
	}
	return data, nil
}
