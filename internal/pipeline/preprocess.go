package pipeline

import (
	"regexp"
	"strings"
)

var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Fenced code block delimiter (backticks or tildes)
	fencedCodeBlock = regexp.MustCompile("^ {0,3}(```|~~~)")
)

const (
	magicOpen  = "[block:"
	magicClose = "[/block]"
)

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// Preprocess prepares markdown for parsing. Line endings are always
// normalized; when normalize is set, magic blocks are moved onto lines of
// their own (see SeparateMagicBlocks).
func Preprocess(content string, normalize bool) string {
	content = NormalizeLineEndings(content)
	if normalize {
		content = SeparateMagicBlocks(content)
	}
	return content
}

// SeparateMagicBlocks puts every "[block:" at the start of a line preceded by
// a blank line, and every "[/block]" at the end of a line followed by a blank
// line. Lines inside fenced code are left alone. Existing blank lines are
// reused, so the result is stable when applied twice.
func SeparateMagicBlocks(content string) string {
	lines := processLinesWithCodeBlockAwareness(content, splitMagicLine)

	result := make([]string, 0, len(lines))
	for i, line := range lines {
		if strings.HasPrefix(line.text, magicOpen) && !line.code &&
			len(result) > 0 && !isBlankLine(result[len(result)-1]) {
			result = append(result, "")
		}
		result = append(result, line.text)
		if strings.HasSuffix(line.text, magicClose) && !line.code &&
			i+1 < len(lines) && !isBlankLine(lines[i+1].text) {
			result = append(result, "")
		}
	}
	return strings.Join(result, "\n")
}

// splitMagicLine breaks a line before "[block:" and after "[/block]".
func splitMagicLine(line string) []string {
	var parts []string
	for line != "" {
		cut := nextMagicCut(line)
		if cut <= 0 || cut >= len(line) {
			break
		}
		parts = append(parts, strings.TrimRight(line[:cut], " \t"))
		line = strings.TrimLeft(line[cut:], " \t")
	}
	return append(parts, line)
}

// nextMagicCut returns the first split offset in line, or -1.
func nextMagicCut(line string) int {
	best := -1
	if i := strings.Index(line[1:], magicOpen); i >= 0 {
		best = i + 1
	}
	if i := strings.Index(line, magicClose); i >= 0 {
		end := i + len(magicClose)
		if strings.TrimSpace(line[end:]) != "" && (best < 0 || end < best) {
			best = end
		}
	}
	return best
}

type taggedLine struct {
	text string
	code bool
}

// processLinesWithCodeBlockAwareness expands each line with split, but
// passes lines inside fenced code blocks through unchanged.
func processLinesWithCodeBlockAwareness(content string, split func(line string) []string) []taggedLine {
	lines := strings.Split(content, "\n")
	result := make([]taggedLine, 0, len(lines))

	inCodeBlock := false
	for _, line := range lines {
		if fencedCodeBlock.MatchString(line) {
			inCodeBlock = !inCodeBlock
			result = append(result, taggedLine{text: line, code: true})
			continue
		}
		if inCodeBlock {
			result = append(result, taggedLine{text: line, code: true})
			continue
		}
		for _, part := range split(line) {
			result = append(result, taggedLine{text: part})
		}
	}
	return result
}

// isBlankLine returns true if the line is empty or contains only whitespace.
func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}
