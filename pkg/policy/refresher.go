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

package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/rotur/roturlink/pkg/logger"
)

const (
	fetchTimeout    = 5 * time.Second
	fetchAttempts   = 3
	fetchBackoff    = 500 * time.Millisecond
	fetchMaxBackoff = 2 * time.Second

	maxRegistryBody = 1 << 20
)

var errNoOriginsKey = errors.New("registry document has no origins key")

// Refresher periodically fetches the remote origin registry and replaces
// the policy's allow-list. Fetch or parse failure leaves the previous set
// untouched; the next interval retries. Never fails closed.
type Refresher struct {
	policy *Policy
	url    string
	client *http.Client
	logger logger.Logger
}

// NewRefresher creates a refresher for the given registry URL.
func NewRefresher(p *Policy, url string, log logger.Logger) *Refresher {
	return &Refresher{
		policy: p,
		url:    url,
		client: &http.Client{Timeout: fetchTimeout},
		logger: log,
	}
}

// RefreshNow fetches the registry once, with bounded retry, and replaces
// the allow-list on success. Called synchronously at startup before the
// listeners accept, then on every refresh tick.
func (r *Refresher) RefreshNow(ctx context.Context) error {
	origins, err := retry.DoWithData(func() ([]string, error) {
		return r.fetch(ctx)
	}, retry.Attempts(fetchAttempts), retry.Delay(fetchBackoff), retry.MaxDelay(fetchMaxBackoff), retry.Context(ctx))
	if err != nil {
		r.logger.Debug().Err(err).Str("url", r.url).Msg("Origins fetch failed, keeping previous allow-list")
		return err
	}

	r.policy.Replace(origins)
	r.logger.Debug().Int("count", len(origins)).Msg("Allowed origins replaced from registry")

	return nil
}

func (r *Refresher) fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRegistryBody))
	if err != nil {
		return nil, err
	}

	var doc struct {
		Origins []string `json:"origins"`
	}

	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("registry document malformed: %w", err)
	}

	if doc.Origins == nil {
		return nil, errNoOriginsKey
	}

	return doc.Origins, nil
}
