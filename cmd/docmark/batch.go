package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/alnah/go-docmark/internal/fileutil"
	"github.com/alnah/go-docmark/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// maxInputSize bounds a single document read into memory.
const maxInputSize = 32 << 20

// Sentinel errors for batch operations.
var (
	ErrNoInput       = errors.New("no input specified")
	ErrReadMarkdown  = errors.New("failed to read markdown file")
	ErrWriteOutput   = errors.New("failed to write output file")
	ErrInputTooLarge = errors.New("input too large")
)

// batchParams groups parameters shared across a batch.
type batchParams struct {
	cmd     command
	opts    outputOptions
	workers int
	stdin   io.Reader
	logger  *zap.Logger
}

// Result holds the outcome of processing one document. Output is set only
// for results written to stdout.
type Result struct {
	InputPath  string
	OutputPath string
	Output     string
	Bytes      int
	Err        error
	Duration   time.Duration
}

// processBatch processes files concurrently. Every worker shares the same
// renderer, which is safe for concurrent use.
func processBatch(ctx context.Context, r Renderer, files []FileToProcess, params *batchParams) []Result {
	if len(files) == 0 {
		return nil
	}

	concurrency := resolveWorkers(params.workers, len(files))
	params.logger.Debug("processing",
		zap.String("command", params.cmd.name),
		zap.Int("files", len(files)),
		zap.Int("workers", concurrency))

	results := make([]Result, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = Result{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = processFile(r, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// processFile processes a single document and returns the result.
func processFile(r Renderer, f FileToProcess, params *batchParams) Result {
	start := time.Now()
	result := Result{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) Result {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := readInput(f.InputPath, params.stdin)
	if err != nil {
		return fail(err)
	}
	result.Bytes = len(content)

	out, err := params.cmd.run(r, string(content), params.opts)
	if err != nil {
		return fail(err)
	}
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	if f.OutputPath == "" {
		result.Output = out
		result.Duration = time.Since(start)
		return result
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: creating output directory: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory()))
	}
	if err := fileutil.WriteAtomic(f.OutputPath, []byte(out), filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}

	result.Duration = time.Since(start)
	params.logger.Debug("processed",
		zap.String("input", f.InputPath),
		zap.String("output", f.OutputPath),
		zap.Duration("duration", result.Duration))
	return result
}

// readInput reads a markdown document from path, or from stdin for "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	var src io.Reader
	if path == stdinPath {
		src = stdin
	} else {
		file, err := os.Open(path) // #nosec G304 -- discovered path
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadMarkdown, err)
		}
		defer file.Close()
		src = file
	}

	content, err := io.ReadAll(io.LimitReader(src, maxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}
	if len(content) > maxInputSize {
		return nil, fmt.Errorf("%w: %s exceeds %s", ErrInputTooLarge, path, humanize.IBytes(maxInputSize))
	}
	return content, nil
}

// ResultSummary holds the count of succeeded and failed documents.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Bytes     int
	Duration  time.Duration
}

// countResults tallies succeeded and failed documents.
func countResults(results []Result) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		summary.Bytes += r.Bytes
		summary.Duration += r.Duration
	}
	return summary
}

// printResultsWithWriter writes stdout results and reports file results.
// It returns the number of failures.
func printResultsWithWriter(results []Result, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if r.OutputPath == "" {
			fmt.Fprint(env.Stdout, r.Output)
			if verbose {
				fmt.Fprintf(env.Stderr, "%s (%s, %v)\n", r.InputPath, humanize.Bytes(uint64(r.Bytes)), r.Duration.Round(time.Millisecond))
			}
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%s, %v)\n", r.InputPath, r.OutputPath, humanize.Bytes(uint64(r.Bytes)), r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
		if verbose {
			fmt.Fprintf(env.Stdout, "%s processed in %v\n", humanize.Bytes(uint64(summary.Bytes)), summary.Duration.Round(time.Millisecond))
		}
	}

	return summary.Failed
}
