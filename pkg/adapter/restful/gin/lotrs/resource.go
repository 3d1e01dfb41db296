// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package lotrs realizes the parking lot resource, allowing the park
// and unpark REST APIs to be accepted and delegated to the lot use
// case respectively.
package lotrs

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momeni/parking-lot/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/parking-lot/pkg/core/log"
	"github.com/momeni/parking-lot/pkg/core/model"
	"github.com/momeni/parking-lot/pkg/core/usecase/lotuc"
)

type resource struct {
	lot *lotuc.UseCase
	now func() time.Time
}

// Register instantiates a resource adapting the lot use case instance
// with the relevant REST APIs including:
//  1. POST request to /vehicles/:plate/park
//     in order to park a vehicle in its nearest suitable slot,
//  2. POST request to /vehicles/:plate/unpark
//     in order to unpark a vehicle and charge its fee,
//  3. GET request to /vehicles/:plate
//     in order to fetch a vehicle record and its current fee quote,
//  4. GET request to /slots
//     in order to fetch the slots table.
//
// The now function provides the operation time when a request omits
// its at timestamp.
func Register(r *gin.RouterGroup, lot *lotuc.UseCase, now func() time.Time) {
	rs := &resource{lot: lot, now: now}
	r.POST("vehicles/:plate/park", rs.Park)
	r.POST("vehicles/:plate/unpark", rs.Unpark)
	r.GET("vehicles/:plate", rs.GetVehicle)
	r.GET("slots", rs.ListSlots)
}

func (rs *resource) Park(c *gin.Context) {
	req := rs.DserParkReq(c)
	if req == nil {
		return
	}
	slot, err := rs.lot.Park(c, req.Plate, req.Size, req.Entry, req.At)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, parkResp{Plate: req.Plate, Slot: slot})
}

func (rs *resource) Unpark(c *gin.Context) {
	req := rs.DserUnparkReq(c)
	if req == nil {
		return
	}
	slot, _ := rs.lot.SlotOf(req.Plate)
	fee, err := rs.lot.Unpark(c, req.Plate, req.At)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, unparkResp{
		Plate: req.Plate, SlotID: slot.ID, Fee: fee, At: req.At,
	})
}

func (rs *resource) GetVehicle(c *gin.Context) {
	plate := c.Param("plate")
	v, err := rs.lot.Vehicle(c, plate)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	resp := vehicleResp{Vehicle: v}
	if slot, ok := rs.lot.SlotOf(plate); ok && v.IsParked() {
		resp.Slot = &slot
		now := rs.now()
		if !now.Before(v.Entry) {
			fee, err := rs.lot.Quote(c, plate, now)
			if err != nil {
				log.Warn(
					c, "cannot quote the parking fee",
					log.Err("err", err), log.Plate(plate),
				)
			} else {
				resp.Quote = &fee
			}
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (rs *resource) ListSlots(c *gin.Context) {
	slots := rs.lot.Slots()
	resp := slotsResp{Slots: slots}
	for _, s := range slots {
		if !s.IsEmpty() {
			resp.Occupied++
		}
	}
	c.JSON(http.StatusOK, resp)
}

type parkResp struct {
	Plate string     `json:"plate"`
	Slot  model.Slot `json:"slot"`
}

type unparkResp struct {
	Plate  string    `json:"plate"`
	SlotID int       `json:"slot_id"`
	Fee    float64   `json:"fee"`
	At     time.Time `json:"at"`
}

type vehicleResp struct {
	Vehicle *model.Vehicle `json:"vehicle"`
	Slot    *model.Slot    `json:"slot,omitempty"`
	Quote   *float64       `json:"fee_quote,omitempty"`
}

type slotsResp struct {
	Slots    []model.Slot `json:"slots"`
	Occupied int          `json:"occupied"`
}
