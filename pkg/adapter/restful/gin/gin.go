// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin wraps the gin-gonic engine, so the command packages may
// instantiate it with the parking lot middlewares without depending on
// the gin framework directly.
package gin

import (
	"log/slog"

	ginslog "github.com/FabienMht/ginslog/logger"
	"github.com/gin-gonic/gin"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

// New instantiates a gin Engine in the given mode (debug, release, or
// test) which uses the given middlewares for all requests.
func New(mode string, middlewares ...HandlerFunc) *Engine {
	gin.SetMode(mode)
	e := gin.New()
	e.Use(middlewares...)
	return e
}

// Logger returns a middleware which logs each request after it is
// handled, using the default slog logger. So it must be called after
// the log.Setup.
func Logger() HandlerFunc {
	return ginslog.New(slog.Default())
}

func Recovery() HandlerFunc {
	return gin.Recovery()
}
