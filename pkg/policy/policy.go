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

// Package policy decides whether a request or push-channel connection is
// permitted. Loopback peers are always allowed; everyone else is gated on
// the browser Origin header against an allow-list that is periodically
// refreshed from a remote registry.
package policy

import (
	"net"
	"strings"
	"sync"
	"time"
)

// Policy holds the current allowed-origin set. The baseline origins from
// config survive every refresh, so a broken remote document can never lock
// out local development clients.
type Policy struct {
	mu       sync.RWMutex
	baseline []string
	origins  []string
	updated  time.Time
}

// New creates a Policy seeded with the baseline origins only.
func New(baseline []string) *Policy {
	p := &Policy{
		baseline: append([]string(nil), baseline...),
	}
	p.origins = append([]string(nil), p.baseline...)

	return p
}

// IsPermitted reports whether a peer may connect or call. remoteAddr is a
// host:port pair (or bare host); origin is the raw Origin header value.
func (p *Policy) IsPermitted(remoteAddr, origin string) bool {
	if isLoopback(remoteAddr) {
		return true
	}

	return p.IsOriginAllowed(origin)
}

// IsOriginAllowed checks the origin alone. Localhost origins on any port
// are a built-in development bypass.
func (p *Policy) IsOriginAllowed(origin string) bool {
	if origin == "" {
		return false
	}

	if strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:") {
		return true
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, allowed := range p.origins {
		if allowed == origin {
			return true
		}
	}

	return false
}

// Replace installs a new origin set fetched from the remote registry. The
// whole set is replaced (remote union baseline), never merged, so an origin
// dropped from the registry stops being valid on the next refresh.
func (p *Policy) Replace(remote []string) {
	merged := make([]string, 0, len(remote)+len(p.baseline))
	merged = append(merged, remote...)
	merged = append(merged, p.baseline...)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.origins = merged
	p.updated = time.Now()
}

// Origins returns a copy of the current allow-list.
func (p *Policy) Origins() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return append([]string(nil), p.origins...)
}

// LastUpdated returns when the set was last replaced.
func (p *Policy) LastUpdated() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.updated
}

func isLoopback(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}

	ip := net.ParseIP(host)

	return ip != nil && ip.IsLoopback()
}
