// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo specifies the repository interfaces which are used by
// the use cases layer in order to persist the parking lot state.
// The adapter layer realizes them, e.g., for a PostgreSQL database or
// an in-memory store. The use cases only ask for a connection from a
// Pool, open a transaction on it, and pass that Conn or Tx to one of
// the repositories (such as Vehicles) in order to obtain a queryer.
package repo

import "context"

// ConnHandler is a function which uses a Conn while it is acquired.
type ConnHandler func(context.Context, Conn) error

// Pool represents a pool of connections to the persistence store.
// The Conn method acquires a connection, passes it to the handler,
// and releases it after the handler returns.
type Pool interface {
	Conn(ctx context.Context, handler ConnHandler) error
}
