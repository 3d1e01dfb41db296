// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memory realizes the repo package interfaces with an
// in-process store. It is useful for running the parking lot without
// a database, e.g., in the demo command or tests, while keeping the
// transactional semantics of the PostgreSQL adapter: a Tx works on a
// private copy of the store and publishes it only if its handler
// succeeds. Transactions are serialized, so they observe a
// SERIALIZABLE isolation level.
package memory

import (
	"context"
	"sync"

	"github.com/momeni/parking-lot/pkg/core/model"
	"github.com/momeni/parking-lot/pkg/core/repo"
)

type state struct {
	vehicles map[string]*model.Vehicle
	slots    map[int]string // slot ID to the occupant plate
}

func newState() *state {
	return &state{
		vehicles: make(map[string]*model.Vehicle),
		slots:    make(map[int]string),
	}
}

func (st *state) clone() *state {
	cp := &state{
		vehicles: make(map[string]*model.Vehicle, len(st.vehicles)),
		slots:    make(map[int]string, len(st.slots)),
	}
	for plate, v := range st.vehicles {
		cp.vehicles[plate] = v.Clone()
	}
	for id, plate := range st.slots {
		cp.slots[id] = plate
	}
	return cp
}

// Pool keeps the committed state of the store. It may be used by
// concurrent go routines. Its zero value is not usable, use NewPool.
type Pool struct {
	txMutex sync.Mutex   // serializes the writers
	mutex   sync.RWMutex // guards st
	st      *state
}

// NewPool instantiates an empty in-memory store.
func NewPool() *Pool {
	return &Pool{st: newState()}
}

type ConnHandler = repo.ConnHandler

// Conn passes a Conn to the f handler. The ctx is checked before
// calling f, so a cancelled context is reported like a failed
// connection attempt.
func (p *Pool) Conn(ctx context.Context, f ConnHandler) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f(ctx, &Conn{pool: p})
}

func (p *Pool) snapshot() *state {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.st.clone()
}

func (p *Pool) publish(st *state) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.st = st
}
