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

package types

import (
	"math/big"
	"sync/atomic"

	"github.com/clevermacaw/ethcore/common"
)

// Body is the non-header content of a block. Clique chains carry no
// uncles, but the field is kept for BlockBodies wire compatibility with
// eth/62+ peers.
type Body struct {
	Transactions []*Transaction
	Uncles       []*Header
}

// Block represents an Ethereum block, immutable once constructed via
// NewBlockWithHeader.
type Block struct {
	header       *Header
	uncles       []*Header
	transactions Transactions

	hash atomic.Pointer[common.Hash]
	size atomic.Uint64

	// td is the total difficulty of the chain up to and including this
	// block. No code in this module assigns it, so it stays nil.
	td *big.Int
}

// Transactions implements DerivableList for transaction root computation.
type Transactions []*Transaction

func (s Transactions) Len() int { return len(s) }

// NewBlockWithHeader creates a block with the given header data, deep-
// copying it so future header mutations don't leak into the sealed block.
func NewBlockWithHeader(header *Header) *Block {
	return &Block{header: CopyHeader(header)}
}

// WithBody returns a copy of the block with the given transactions.
func (b *Block) WithBody(transactions []*Transaction) *Block {
	block := &Block{
		header:       b.header,
		transactions: make(Transactions, len(transactions)),
		uncles:       b.uncles,
	}
	copy(block.transactions, transactions)
	return block
}

// WithSeal returns a new block with the data from b but the header replaced
// with a copy of header.
func (b *Block) WithSeal(header *Header) *Block {
	return &Block{
		header:       CopyHeader(header),
		transactions: b.transactions,
		uncles:       b.uncles,
	}
}

func (b *Block) Header() *Header      { return CopyHeader(b.header) }
func (b *Block) Number() *big.Int     { return new(big.Int).Set(b.header.Number) }
func (b *Block) NumberU64() uint64    { return b.header.Number.Uint64() }
func (b *Block) GasLimit() uint64     { return b.header.GasLimit }
func (b *Block) GasUsed() uint64      { return b.header.GasUsed }
func (b *Block) Difficulty() *big.Int { return new(big.Int).Set(b.header.Difficulty) }
func (b *Block) Time() uint64         { return b.header.Time }
func (b *Block) ParentHash() common.Hash { return b.header.ParentHash }
func (b *Block) Coinbase() common.Address { return b.header.Coinbase }
func (b *Block) BaseFee() *big.Int {
	if b.header.BaseFee == nil {
		return nil
	}
	return new(big.Int).Set(b.header.BaseFee)
}
func (b *Block) Transactions() Transactions { return b.transactions }
func (b *Block) Uncles() []*Header          { return b.uncles }

func (b *Block) Transaction(hash common.Hash) *Transaction {
	for _, tx := range b.transactions {
		if tx.Hash() == hash {
			return tx
		}
	}
	return nil
}

// Hash returns the keccak256 hash of the block's header.
func (b *Block) Hash() common.Hash {
	if hash := b.hash.Load(); hash != nil {
		return *hash
	}
	h := b.header.Hash()
	b.hash.Store(&h)
	return h
}
