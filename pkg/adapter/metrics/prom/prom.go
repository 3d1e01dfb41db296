// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package prom exports the parking lot metrics for Prometheus. Its
// Recorder implements the lotuc.Recorder interface, so the lot use
// case may report its transactions without depending on Prometheus.
package prom

import (
	"errors"
	"net/http"

	"github.com/momeni/parking-lot/pkg/core/cerr"
	"github.com/momeni/parking-lot/pkg/core/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder records the lot transactions in Prometheus metrics.
type Recorder struct {
	parked   *prometheus.CounterVec
	unparked *prometheus.CounterVec
	fees     *prometheus.CounterVec
	rejected *prometheus.CounterVec
	occupied prometheus.Gauge
	capacity prometheus.Gauge
}

// NewRecorder registers the lot metrics on the reg registerer.
// If reg is nil, the default registerer is used. If the collectors are
// already registered, the existing ones are reused.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		parked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parkinglot_parked_total",
			Help: "Total number of parked vehicles",
		}, []string{"vehicle_size", "slot_size"}),
		unparked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parkinglot_unparked_total",
			Help: "Total number of unparked vehicles",
		}, []string{"slot_size"}),
		fees: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parkinglot_fees_total",
			Help: "Sum of the charged parking fees",
		}, []string{"slot_size"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parkinglot_rejected_total",
			Help: "Total number of rejected park and unpark requests",
		}, []string{"op", "reason"}),
		occupied: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "parkinglot_occupied_slots",
			Help: "Number of occupied slots",
		}),
		capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "parkinglot_slots",
			Help: "Number of configured slots",
		}),
	}
	var err error
	if r.parked, err = register(reg, r.parked); err != nil {
		return nil, err
	}
	if r.unparked, err = register(reg, r.unparked); err != nil {
		return nil, err
	}
	if r.fees, err = register(reg, r.fees); err != nil {
		return nil, err
	}
	if r.rejected, err = register(reg, r.rejected); err != nil {
		return nil, err
	}
	if r.occupied, err = register(reg, r.occupied); err != nil {
		return nil, err
	}
	if r.capacity, err = register(reg, r.capacity); err != nil {
		return nil, err
	}
	return r, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return c, err
		}
		existing, ok := are.ExistingCollector.(C)
		if !ok {
			return c, err
		}
		return existing, nil
	}
	return c, nil
}

// Handler returns an HTTP handler which exposes the metrics of the
// gatherer. If g is nil, the default gatherer is used.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (r *Recorder) Parked(slot model.Slot, size model.Size) {
	r.parked.WithLabelValues(size.String(), slot.Size.String()).Inc()
}

func (r *Recorder) Unparked(slot model.Slot, fee float64) {
	r.unparked.WithLabelValues(slot.Size.String()).Inc()
	r.fees.WithLabelValues(slot.Size.String()).Add(fee)
}

func (r *Recorder) Rejected(op string, err error) {
	r.rejected.WithLabelValues(op, reason(err)).Inc()
}

func (r *Recorder) Occupancy(occupied, total int) {
	r.occupied.Set(float64(occupied))
	r.capacity.Set(float64(total))
}

// reason maps err to a low-cardinality label value.
func reason(err error) string {
	for _, known := range []error{
		model.ErrNoAvailableSpot,
		model.ErrVehicleAlreadyParked,
		model.ErrVehicleNotParked,
		model.ErrInvalidEntryPoint,
		model.ErrInvalidTimestamp,
		model.ErrFeeNotComputable,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	if cerr.StatusCode(err) < 500 {
		return "bad request"
	}
	return "internal"
}
