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

// Package producers holds the background collectors. Each producer runs on
// its own schedule, refreshes one slice of host state, and broadcasts the
// result; none of them can fail the process or stall another producer.
package producers

import (
	"context"
	"sync"
	"time"

	"github.com/rotur/roturlink/pkg/logger"
)

// Producer is one independently scheduled collection loop.
type Producer struct {
	// Name identifies the producer in logs.
	Name string

	// Interval is the gap between runs while at least one client is
	// connected. IdleInterval is the gap while the client count is zero;
	// idle cycles skip Run entirely unless RunWhenIdle is set.
	Interval     time.Duration
	IdleInterval time.Duration
	RunWhenIdle  bool

	// Timeout bounds a single run. Zero means nine tenths of Interval,
	// so a hung cycle always resolves before the next tick.
	Timeout time.Duration

	// Run does one collection cycle. An error is logged, never propagated;
	// the loop always reaches the next tick.
	Run func(ctx context.Context) error
}

// ClientCounter reports the live client count, used for idle backoff.
type ClientCounter interface {
	Count() int
}

// Scheduler owns the producer goroutines.
type Scheduler struct {
	producers []Producer
	counter   ClientCounter
	logger    logger.Logger
	wg        sync.WaitGroup
}

// NewScheduler creates a scheduler over a fixed producer set.
func NewScheduler(producers []Producer, counter ClientCounter, log logger.Logger) *Scheduler {
	return &Scheduler{
		producers: producers,
		counter:   counter,
		logger:    log,
	}
}

// Start launches one goroutine per producer. Loops exit when ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	for i := range s.producers {
		s.wg.Add(1)

		go func(p Producer) {
			defer s.wg.Done()
			s.loop(ctx, p)
		}(s.producers[i])
	}

	s.logger.Info().Int("producers", len(s.producers)).Msg("Producer scheduler started")
}

// Wait blocks until every producer loop has exited.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, p Producer) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		idle := s.counter.Count() == 0

		if !idle || p.RunWhenIdle {
			s.runOnce(ctx, p)
		}

		next := p.Interval
		if idle && p.IdleInterval > 0 {
			next = p.IdleInterval
		}

		timer.Reset(next)
	}
}

func (s *Scheduler) runOnce(ctx context.Context, p Producer) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = p.Interval * 9 / 10
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	if err := p.Run(runCtx); err != nil {
		s.logger.Debug().
			Err(err).
			Str("producer", p.Name).
			Dur("elapsed", time.Since(start)).
			Msg("Producer cycle failed")
	}
}
