// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reindex

import (
	"context"
	"log/slog"
	"time"
)

// retryPolicy retries per-document reindex operations with exponential
// backoff. The delay doubles on each attempt; the error from the last attempt
// is returned when every attempt fails.
type retryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

func newRetryPolicy(maxAttempts int, baseDelay time.Duration, logger *slog.Logger) (*retryPolicy, error) {
	if maxAttempts <= 0 {
		return nil, ErrInvalidMaxAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &retryPolicy{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		logger:      logger,
	}, nil
}

// do runs the operation until it succeeds, the attempts are exhausted, or the
// context is cancelled. Cancellation is checked before each attempt and while
// waiting out a backoff delay.
func (p *retryPolicy) do(ctx context.Context, operation func() error) error {
	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				p.logger.Debug("reindex attempt succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		if attempt == p.maxAttempts {
			break
		}

		delay := p.baseDelay << (attempt - 1)
		p.logger.Debug("reindex attempt failed, backing off",
			"attempt", attempt, "max_attempts", p.maxAttempts,
			"delay", delay, "err", lastErr)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
