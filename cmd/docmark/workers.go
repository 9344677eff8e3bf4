package main

import (
	"errors"
	"fmt"
	"runtime"
)

// Worker pool bounds.
const (
	MinWorkers = 1
	MaxWorkers = 32
)

// ErrInvalidWorkerCount is returned for a worker count out of bounds.
var ErrInvalidWorkerCount = errors.New("invalid worker count")

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, MaxWorkers)
	}
	return nil
}

// resolveWorkers determines the pool size.
// Priority: explicit value > GOMAXPROCS (adjusted by automaxprocs for containers).
// The result never exceeds the number of jobs.
func resolveWorkers(requested, jobs int) int {
	n := requested
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n > MaxWorkers {
		n = MaxWorkers
	}
	if n > jobs {
		n = jobs
	}
	if n < MinWorkers {
		return MinWorkers
	}
	return n
}
