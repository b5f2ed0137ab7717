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

package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rotur/roturlink/pkg/logger"
)

func TestRunSuccess(t *testing.T) {
	r := New(2, 0, logger.NewTestLogger())

	res := r.Run(context.Background(), "echo", "hello")

	assert.True(t, res.Success)
	assert.Equal(t, "hello", res.Stdout)
	assert.Zero(t, res.ExitCode)
	assert.Empty(t, res.Err)
}

func TestRunCommandNotFound(t *testing.T) {
	r := New(2, 0, logger.NewTestLogger())

	res := r.Run(context.Background(), "definitely-not-a-real-tool-xyz")

	assert.False(t, res.Success)
	assert.Contains(t, res.Err, "command not found: definitely-not-a-real-tool-xyz")
}

func TestRunTimeout(t *testing.T) {
	r := New(2, 0, logger.NewTestLogger())

	start := time.Now()
	res := r.RunTimeout(context.Background(), 100*time.Millisecond, "sleep", "5")

	assert.False(t, res.Success)
	assert.Contains(t, res.Err, "command timeout")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRunNonZeroExit(t *testing.T) {
	r := New(2, 0, logger.NewTestLogger())

	res := r.RunShell(context.Background(), 0, "exit 3")

	assert.False(t, res.Success)
	assert.Equal(t, 3, res.ExitCode)
}

func TestRunShellCapturesStderr(t *testing.T) {
	r := New(2, 0, logger.NewTestLogger())

	res := r.RunShell(context.Background(), 0, "echo oops >&2; exit 1")

	assert.False(t, res.Success)
	assert.Equal(t, "oops", res.Stderr)
	assert.Equal(t, 1, res.ExitCode)
}

func TestRunCanceledContext(t *testing.T) {
	r := New(1, 0, logger.NewTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := r.Run(ctx, "echo", "hello")

	assert.False(t, res.Success)
}
