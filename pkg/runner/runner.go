/*
 * Copyright 2025 Rotur.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package runner executes external tools with a bounded worker pool and a
// per-invocation timeout. Every producer and every host-control action goes
// through it; a hung tool degrades to a timeout result, never a stuck
// goroutine holding the scheduler.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/rotur/roturlink/pkg/logger"
)

const (
	// DefaultTimeout matches the original agent's 5 second subprocess cap.
	DefaultTimeout = 5 * time.Second

	defaultWorkers = 4
)

// Result is the structured outcome of one invocation. Failures are values,
// not errors: callers return them through the normal response channel.
type Result struct {
	Success  bool   `json:"success"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
	ExitCode int    `json:"returncode"`
	Err      string `json:"error,omitempty"`
}

// Runner serializes external-tool invocations through a weighted semaphore
// so at most `workers` subprocesses run at once.
type Runner struct {
	sem     *semaphore.Weighted
	timeout time.Duration
	logger  logger.Logger
}

// New creates a Runner with the given pool size and default timeout. Zero
// values pick the defaults.
func New(workers int64, timeout time.Duration, log logger.Logger) *Runner {
	if workers <= 0 {
		workers = defaultWorkers
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Runner{
		sem:     semaphore.NewWeighted(workers),
		timeout: timeout,
		logger:  log,
	}
}

// Run executes name with args under the default timeout.
func (r *Runner) Run(ctx context.Context, name string, args ...string) Result {
	return r.RunTimeout(ctx, r.timeout, name, args...)
}

// RunShell executes a full command line through the shell. Used only by the
// explicit run command and /run endpoint, never by producers.
func (r *Runner) RunShell(ctx context.Context, timeout time.Duration, cmdline string) Result {
	return r.RunTimeout(ctx, timeout, "/bin/sh", "-c", cmdline)
}

// RunTimeout executes name with args, waiting at most timeout.
func (r *Runner) RunTimeout(ctx context.Context, timeout time.Duration, name string, args ...string) Result {
	if timeout <= 0 {
		timeout = r.timeout
	}

	if err := r.sem.Acquire(ctx, 1); err != nil {
		return Result{Success: false, Err: fmt.Sprintf("worker pool unavailable: %v", err)}
	}
	defer r.sem.Release(1)

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := Result{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	switch {
	case err == nil:
		result.Success = true
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.Err = fmt.Sprintf("command timeout (%gs)", timeout.Seconds())
	case errors.Is(err, exec.ErrNotFound):
		result.Err = fmt.Sprintf("command not found: %s", name)
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.Err = err.Error()
		}
	}

	if !result.Success && r.logger != nil {
		r.logger.Debug().
			Str("command", name).
			Strs("args", args).
			Str("error", result.Err).
			Int("returncode", result.ExitCode).
			Msg("Command failed")
	}

	return result
}
