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

package metrics

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// DuplicateMetric is the error returned by Registry.Register when a metric
// already exists under the given name.
type DuplicateMetric string

func (err DuplicateMetric) Error() string {
	return fmt.Sprintf("duplicate metric: %s", string(err))
}

// Registry holds references to a set of named metrics and can iterate over
// them, calling callback functions provided by the user.
type Registry interface {
	// Each calls the given function for each registered metric.
	Each(func(string, interface{}))

	// Get the metric by the given name or nil if none is registered.
	Get(string) interface{}

	// GetOrRegister gets an existing metric or registers the given one.
	// The interface can be the metric to register if not found in registry,
	// or a function returning the metric for lazy instantiation.
	GetOrRegister(string, interface{}) interface{}

	// Register the given metric under the given name.
	Register(string, interface{}) error

	// Unregister the metric with the given name.
	Unregister(string)
}

// StandardRegistry is the standard implementation of a Registry using an
// internal map of names to metrics.
type StandardRegistry struct {
	metrics sync.Map
}

// NewRegistry constructs a new StandardRegistry.
func NewRegistry() Registry {
	return &StandardRegistry{}
}

// Each calls the given function for each registered metric.
func (r *StandardRegistry) Each(f func(string, interface{})) {
	names := []string{}
	r.metrics.Range(func(k, v interface{}) bool {
		names = append(names, k.(string))
		return true
	})
	sort.Strings(names)
	for _, name := range names {
		if metric, ok := r.metrics.Load(name); ok {
			f(name, metric)
		}
	}
}

// Get the metric by the given name or nil if none is registered.
func (r *StandardRegistry) Get(name string) interface{} {
	item, _ := r.metrics.Load(name)
	return item
}

// GetOrRegister gets an existing metric or registers the given one. The
// interface can be the metric to register if not found in registry, or a
// function returning the metric for lazy instantiation.
func (r *StandardRegistry) GetOrRegister(name string, i interface{}) interface{} {
	if metric, ok := r.metrics.Load(name); ok {
		return metric
	}
	if v := reflect.ValueOf(i); v.Kind() == reflect.Func {
		i = v.Call(nil)[0].Interface()
	}
	item, _ := r.metrics.LoadOrStore(name, i)
	return item
}

// Register the given metric under the given name, returning DuplicateMetric
// if the name is already taken.
func (r *StandardRegistry) Register(name string, i interface{}) error {
	if _, loaded := r.metrics.LoadOrStore(name, i); loaded {
		return DuplicateMetric(name)
	}
	return nil
}

// Unregister the metric with the given name.
func (r *StandardRegistry) Unregister(name string) {
	r.metrics.Delete(name)
}

// DefaultRegistry is the default registry every package-level constructor
// (NewRegisteredMeter, GetOrRegisterGauge, ...) falls back to when called
// with a nil Registry.
var DefaultRegistry Registry = NewRegistry()
