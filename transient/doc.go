// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient categorizes the transport faults seen by a fetchx
// Client. The client uses the category to tell a TIMEOUT_ERROR apart
// from a NETWORK_ERROR, and the hooks package uses it to label error
// metrics.
//
// Package transient depends only on the standard library.
package transient
