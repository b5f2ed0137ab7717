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

package producers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotur/roturlink/pkg/logger"
)

type staticCounter int

func (c staticCounter) Count() int { return int(c) }

func runScheduler(t *testing.T, counter ClientCounter, p Producer, d time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	s := NewScheduler([]Producer{p}, counter, logger.NewTestLogger())
	s.Start(ctx)
	s.Wait()
}

func TestSchedulerRunsWhileClientsConnected(t *testing.T) {
	var runs atomic.Int64

	p := Producer{
		Name:     "test",
		Interval: 10 * time.Millisecond,
		Run: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	}

	runScheduler(t, staticCounter(1), p, 100*time.Millisecond)

	assert.GreaterOrEqual(t, runs.Load(), int64(2))
}

func TestSchedulerSkipsWhileIdle(t *testing.T) {
	var runs atomic.Int64

	p := Producer{
		Name:         "test",
		Interval:     10 * time.Millisecond,
		IdleInterval: 10 * time.Millisecond,
		Run: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	}

	runScheduler(t, staticCounter(0), p, 100*time.Millisecond)

	assert.Zero(t, runs.Load())
}

func TestSchedulerRunWhenIdleOverridesSkip(t *testing.T) {
	var runs atomic.Int64

	p := Producer{
		Name:        "test",
		Interval:    10 * time.Millisecond,
		RunWhenIdle: true,
		Run: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	}

	runScheduler(t, staticCounter(0), p, 100*time.Millisecond)

	assert.GreaterOrEqual(t, runs.Load(), int64(1))
}

func TestSchedulerDefaultTimeoutBelowInterval(t *testing.T) {
	var deadline time.Time

	p := Producer{
		Name:     "test",
		Interval: time.Second,
		Run: func(ctx context.Context) error {
			deadline, _ = ctx.Deadline()
			return nil
		},
	}

	s := NewScheduler(nil, staticCounter(1), logger.NewTestLogger())

	start := time.Now()
	s.runOnce(context.Background(), p)

	require.False(t, deadline.IsZero())
	assert.Less(t, deadline.Sub(start), p.Interval)
}

func TestSchedulerSurvivesProducerErrors(t *testing.T) {
	var runs atomic.Int64

	p := Producer{
		Name:     "failing",
		Interval: 10 * time.Millisecond,
		Run: func(context.Context) error {
			runs.Add(1)
			return errors.New("collection failed")
		},
	}

	runScheduler(t, staticCounter(1), p, 100*time.Millisecond)

	// The loop keeps ticking after errors.
	assert.GreaterOrEqual(t, runs.Load(), int64(2))
}
