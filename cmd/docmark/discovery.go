package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-docmark/internal/fileutil"
)

// stdinPath is the input argument that reads the document from stdin.
const stdinPath = "-"

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension = errors.New("file must have .md or .markdown extension")
	ErrStdinMixed       = errors.New("stdin input cannot be combined with other inputs")
)

// FileToProcess represents a single document to process. An empty
// OutputPath writes the result to stdout.
type FileToProcess struct {
	InputPath  string
	OutputPath string
}

// discoverFiles expands inputs into the documents to process. Directories
// are walked for markdown files. Without an output directory, a single
// file or stdin goes to stdout and everything else is written next to its
// source.
func discoverFiles(inputs []string, outputDir, ext string) ([]FileToProcess, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	for _, in := range inputs {
		if in == stdinPath {
			if len(inputs) > 1 {
				return nil, ErrStdinMixed
			}
			out := ""
			if outputDir != "" {
				out = filepath.Join(outputDir, "stdin."+ext)
			}
			return []FileToProcess{{InputPath: stdinPath, OutputPath: out}}, nil
		}
	}

	var files []FileToProcess
	walked := false
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if err := validateMarkdownExtension(in); err != nil {
				return nil, err
			}
			files = append(files, FileToProcess{InputPath: in, OutputPath: resolveOutputPath(in, outputDir, "", ext)})
			continue
		}

		walked = true
		err = filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() || !fileutil.IsMarkdown(path) {
				return nil
			}
			files = append(files, FileToProcess{InputPath: path, OutputPath: resolveOutputPath(path, outputDir, in, ext)})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if outputDir == "" && !walked && len(files) == 1 {
		files[0].OutputPath = ""
	}
	return files, nil
}

// resolveOutputPath determines the output path for a markdown file. Files
// found under baseInputDir keep their relative directory in outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir, ext string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	if outputDir == "" {
		out, err := fileutil.ReplaceExt(inputPath, ext)
		if err != nil {
			return filepath.Join(filepath.Dir(inputPath), base+"."+ext)
		}
		return out
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+"."+ext)
		}
	}

	return filepath.Join(outputDir, base+"."+ext)
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !fileutil.IsMarkdown(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}
