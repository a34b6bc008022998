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
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"
)

const rescaleThreshold = time.Hour

// SampleSnapshot is a read-only copy of a Sample.
type SampleSnapshot struct {
	count  int64
	values []int64
}

// NewSampleSnapshot constructs a new SampleSnapshot from a count and a set
// of values, exported for tests that need to fabricate one directly.
func NewSampleSnapshot(count int64, values []int64) *SampleSnapshot {
	return &SampleSnapshot{count: count, values: values}
}

func (s *SampleSnapshot) Count() int64 { return s.count }

func (s *SampleSnapshot) Max() int64 {
	if len(s.values) == 0 {
		return 0
	}
	max := s.values[0]
	for _, v := range s.values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func (s *SampleSnapshot) Mean() float64 {
	if len(s.values) == 0 {
		return 0
	}
	return float64(s.Sum()) / float64(len(s.values))
}

func (s *SampleSnapshot) Min() int64 {
	if len(s.values) == 0 {
		return 0
	}
	min := s.values[0]
	for _, v := range s.values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func (s *SampleSnapshot) Percentile(p float64) float64 {
	return s.Percentiles([]float64{p})[0]
}

// Percentiles returns an arbitrary percentile of the values at the time
// the snapshot was taken, using linear interpolation between ranks.
func (s *SampleSnapshot) Percentiles(ps []float64) []float64 {
	scores := make([]float64, len(ps))
	size := len(s.values)
	if size == 0 {
		return scores
	}
	values := make([]int64, size)
	copy(values, s.values)
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	for i, p := range ps {
		pos := p * float64(size+1)
		switch {
		case pos < 1:
			scores[i] = float64(values[0])
		case pos >= float64(size):
			scores[i] = float64(values[size-1])
		default:
			lower := float64(values[int(pos)-1])
			upper := float64(values[int(pos)])
			scores[i] = lower + (pos-math.Floor(pos))*(upper-lower)
		}
	}
	return scores
}

func (s *SampleSnapshot) Size() int { return len(s.values) }

func (s *SampleSnapshot) StdDev() float64 { return math.Sqrt(s.Variance()) }

func (s *SampleSnapshot) Sum() int64 {
	var sum int64
	for _, v := range s.values {
		sum += v
	}
	return sum
}

func (s *SampleSnapshot) Values() []int64 {
	values := make([]int64, len(s.values))
	copy(values, s.values)
	return values
}

func (s *SampleSnapshot) Variance() float64 {
	if len(s.values) == 0 {
		return 0
	}
	m := s.Mean()
	var sum float64
	for _, v := range s.values {
		d := float64(v) - m
		sum += d * d
	}
	return sum / float64(len(s.values))
}

// Sample maintains a statistically-significant selection of values from a
// stream.
type Sample interface {
	Clear()
	Count() int64
	Size() int
	Snapshot() *SampleSnapshot
	Update(int64)
}

// expDecaySample is a fixed-size, exponentially-biased sample of a stream,
// favoring recent values, per Cormode et al.'s "Forward Decay" (2009).
type ExpDecaySample struct {
	mu        sync.Mutex
	reservoirSize int
	alpha         float64
	count         int64
	values        map[float64]int64
	start         time.Time
	next          time.Time
	rand          *rand.Rand
}

// NewExpDecaySample constructs a new exponentially-decaying sample with the
// given reservoir size and alpha.
func NewExpDecaySample(reservoirSize int, alpha float64) Sample {
	if !Enabled {
		return NilSample{}
	}
	s := &ExpDecaySample{
		reservoirSize: reservoirSize,
		alpha:         alpha,
		values:        make(map[float64]int64, reservoirSize),
		rand:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.start = time.Now()
	s.next = s.start.Add(rescaleThreshold)
	return s
}

func (s *ExpDecaySample) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count = 0
	s.values = make(map[float64]int64, s.reservoirSize)
	s.start = time.Now()
	s.next = s.start.Add(rescaleThreshold)
}

func (s *ExpDecaySample) Count() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *ExpDecaySample) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

func (s *ExpDecaySample) Snapshot() *SampleSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := make([]int64, 0, len(s.values))
	for _, v := range s.values {
		values = append(values, v)
	}
	return NewSampleSnapshot(s.count, values)
}

func (s *ExpDecaySample) Update(v int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(s.start).Seconds()
	priority := math.Exp(s.alpha*elapsed) / s.rand.Float64()

	s.count++
	if len(s.values) < s.reservoirSize {
		s.values[priority] = v
	} else {
		var minKey float64
		first := true
		for k := range s.values {
			if first || k < minKey {
				minKey, first = k, false
			}
		}
		if priority > minKey {
			delete(s.values, minKey)
			s.values[priority] = v
		}
	}

	if now.After(s.next) {
		values := s.values
		s.values = make(map[float64]int64, s.reservoirSize)
		t0 := s.start
		s.start = now
		s.next = now.Add(rescaleThreshold)
		for k, val := range values {
			s.values[k*math.Exp(-s.alpha*now.Sub(t0).Seconds())] = val
		}
	}
}

// NilSample is a no-op Sample.
type NilSample struct{}

func (NilSample) Clear()             {}
func (NilSample) Count() int64       { return 0 }
func (NilSample) Size() int          { return 0 }
func (NilSample) Snapshot() *SampleSnapshot { return NewSampleSnapshot(0, nil) }
func (NilSample) Update(int64)       {}
