// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides retry policies for transport.Client.
//
// Action creators never retry: one invocation sends one request. A
// transport may however be configured to retry attempts that fail for
// transient reasons before it reports an outcome. A Policy combines a
// Decider, which says whether to retry, with a Waiter, which says how
// long to wait first:
//
//	decider := retry.Times(3).And(retry.StatusCode(503).Or(retry.TransientErr))
//	policy := retry.NewPolicy(decider, retry.NewExpWaiter(100*time.Millisecond, 2*time.Second, time.Now()))
//	client := &transport.Client{RetryPolicy: policy}
//
// Never is the policy transport.Client uses when none is set.
package retry
