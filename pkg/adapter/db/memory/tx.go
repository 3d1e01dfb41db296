// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import "errors"

// ErrTxDone is returned when a Tx is used after its handler returns.
var ErrTxDone = errors.New("transaction is already finished")

// Tx represents an in-memory transaction which works on a private copy
// of the store. It is unsafe to be used concurrently.
type Tx struct {
	st   *state
	done bool
}

// IsTx method prevents a non-Tx object (such as a Conn) to
// mistakenly implement the Tx interface.
func (tx *Tx) IsTx() {
}

func (tx *Tx) view(f func(st *state) error) error {
	if tx.done {
		return ErrTxDone
	}
	return f(tx.st)
}

func (tx *Tx) update(f func(st *state) error) error {
	return tx.view(f)
}
