// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// registration of them with a gin-gonic engine.
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momeni/parking-lot/pkg/adapter/restful/gin/lotrs"
	"github.com/momeni/parking-lot/pkg/core/usecase/lotuc"
)

// BasePath is the common prefix of the parking lot REST APIs.
const BasePath = "/api/plweb/v1"

// Register instantiates the resources, from packages which are named
// like lotrs, in order to adapt the lot use case with the REST APIs
// and registers them as request handlers of the e engine.
// The now function provides the operation times when clients omit
// them, so tests may pass a fixed clock.
func Register(e *gin.Engine, lot *lotuc.UseCase, now func() time.Time) {
	r := e.Group(BasePath)
	lotrs.Register(r, lot, now)
}

// RegisterMetrics serves the h handler (which exports the metrics)
// at the given path of the e engine.
func RegisterMetrics(e *gin.Engine, path string, h http.Handler) {
	e.GET(path, gin.WrapH(h))
}
