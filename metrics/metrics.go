// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package metrics provides general system and process level metrics
// collection, along with a registry through which components register
// their own counters, meters, gauges, and timers.
package metrics

// Enabled is checked by the constructor functions for all of the standard
// metrics. If it is false, the metric returned is a stub.
//
// This global kill switch helps quantify the observer effect and makes
// for less cluttered pprof profiles.
var Enabled = false

// emptySnapshot is returned by every Nil* metric's Snapshot method; it
// answers every snapshot accessor with the zero value rather than nil so
// callers can format disabled metrics without a type switch.
type emptySnapshot struct{}

func (*emptySnapshot) Count() int64                             { return 0 }
func (*emptySnapshot) Max() int64                                { return 0 }
func (*emptySnapshot) Mean() float64                             { return 0 }
func (*emptySnapshot) Min() int64                                { return 0 }
func (*emptySnapshot) Percentile(float64) float64                { return 0 }
func (*emptySnapshot) Percentiles(ps []float64) []float64        { return make([]float64, len(ps)) }
func (*emptySnapshot) Rate() float64                             { return 0 }
func (*emptySnapshot) Rate1() float64                            { return 0 }
func (*emptySnapshot) Rate5() float64                            { return 0 }
func (*emptySnapshot) Rate15() float64                           { return 0 }
func (*emptySnapshot) RateMean() float64                         { return 0 }
func (*emptySnapshot) Size() int                                 { return 0 }
func (*emptySnapshot) StdDev() float64                           { return 0 }
func (*emptySnapshot) Sum() int64                                { return 0 }
func (*emptySnapshot) Value() int64                              { return 0 }
func (*emptySnapshot) Values() []int64                           { return nil }
func (*emptySnapshot) Variance() float64                         { return 0 }
