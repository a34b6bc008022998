// Copyright 2016 The go-ethereum Authors
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

package txpool

import (
	"container/heap"
	"math/big"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/core/types"
)

// priceItem is one sender's currently-eligible head transaction, keyed by
// its effective gas tip for the cross-sender max-heap (§4.D).
type priceItem struct {
	sender common.Address
	tx     *types.Transaction
	tip    *big.Int
}

type priceHeapImpl []*priceItem

func (h priceHeapImpl) Len() int            { return len(h) }
func (h priceHeapImpl) Less(i, j int) bool  { return h[i].tip.Cmp(h[j].tip) > 0 } // max-heap
func (h priceHeapImpl) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *priceHeapImpl) Push(x interface{}) { *h = append(*h, x.(*priceItem)) }
func (h *priceHeapImpl) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// priceHeap is a thin wrapper giving the pool a typed push/pop API over the
// container/heap machinery.
type priceHeap struct {
	impl priceHeapImpl
}

func newPriceHeap() *priceHeap {
	h := &priceHeap{}
	heap.Init(&h.impl)
	return h
}

func (h *priceHeap) Len() int { return h.impl.Len() }

func (h *priceHeap) push(item *priceItem) {
	heap.Push(&h.impl, item)
}

func (h *priceHeap) pop() *priceItem {
	return heap.Pop(&h.impl).(*priceItem)
}
