// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Tx represents a store transaction.
// It is unsafe to be used concurrently. All operations which are
// performed in a single transaction are committed atomically, or are
// rolled back altogether, so the slots and vehicles state may not
// diverge after a failure. For a PostgreSQL DBMS server, a
// READ-COMMITTED transaction is expected. For details, read
// https://www.postgresql.org/docs/current/transaction-iso.html#XACT-READ-COMMITTED
type Tx interface {
	// IsTx method prevents a non-Tx object (such as a Conn) to
	// mistakenly implement the Tx interface.
	IsTx()
}
