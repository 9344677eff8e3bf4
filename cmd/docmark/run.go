package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-docmark/internal/dateutil"
	"github.com/alnah/go-docmark/internal/hints"
)

// Sentinel errors for command dispatch.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidArgs    = errors.New("invalid arguments")
)

// batchError reports failed documents. It unwraps to the first failure so
// the exit code reflects its cause.
type batchError struct {
	failed int
	total  int
	first  error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d file(s) failed", e.failed, e.total)
}

func (e *batchError) Unwrap() error { return e.first }

// runCommand orchestrates one processing command.
func runCommand(ctx context.Context, cmd command, args []string, env *Environment) error {
	flags, positional, err := parseCommandFlags(cmd, args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}

	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	// Environment, then config file, then flags
	envCfg := loadEnvConfig()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	if err := mergeFlags(flags, cfg); err != nil {
		return err
	}
	if err := dateutil.ResolveAll(cfg.Render.Variables, env.Now()); err != nil {
		return err
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	defer func() { _ = logger.Sync() }()

	opts, err := buildOptions(cfg, logger)
	if err != nil {
		return err
	}
	proc, err := newProcessor(cfg, opts)
	if err != nil {
		return err
	}

	// Resolve inputs
	inputs := positional
	if len(inputs) == 0 && cfg.Input.DefaultDir != "" {
		inputs = []string{cfg.Input.DefaultDir}
	}
	if len(inputs) == 0 {
		return fmt.Errorf("%w%s", ErrNoInput, hints.ForNoInput())
	}

	files, err := discoverFiles(inputs, cfg.Output.DefaultDir, cmd.ext)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, strings.Join(inputs, ", "))
	}

	results := processBatch(ctx, proc, files, &batchParams{
		cmd:     cmd,
		opts:    outputOptions{standalone: cfg.Render.Standalone},
		workers: workers,
		stdin:   stdinOrEmpty(env.Stdin),
		logger:  logger,
	})

	failed := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return &batchError{failed: failed, total: len(results), first: firstError(results)}
	}
	return nil
}

func firstError(results []Result) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

func stdinOrEmpty(r io.Reader) io.Reader {
	if r == nil {
		return strings.NewReader("")
	}
	return r
}
