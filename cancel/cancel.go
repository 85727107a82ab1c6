// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package cancel implements the cancellation token (§3): a boolean
// flag with monotonic set-once semantics, shared by the event loop
// (C3) and the stream contract (C4). It lives in its own package
// because both of those depend on it and neither should depend on the
// other.
package cancel

import "sync/atomic"

// Token is a set-once boolean. Multiple readers may observe it
// concurrently; Activate is idempotent.
type Token struct {
	active int32
}

// New returns an inactive token.
func New() *Token {
	return &Token{}
}

// Activate sets the token active. Safe to call more than once or
// concurrently; only the first call has any effect.
func (t *Token) Activate() {
	atomic.StoreInt32(&t.active, 1)
}

// IsActive reports whether the token has been activated.
func (t *Token) IsActive() bool {
	return atomic.LoadInt32(&t.active) != 0
}
