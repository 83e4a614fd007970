// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines the attempt timeout policies of
// transport.Client. Action creators impose no timeouts of their own;
// callers bound a request either through the transport's policy or by
// giving the creator a context with a deadline.
package timeout
