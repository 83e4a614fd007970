// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies transport errors raised while sending an
// endpoint request. The transport uses the classification to decide on
// retries, and the lifecycle logging and metrics use it to label failed
// requests.
//
// Package transient depends only on the standard library.
package transient
