// Copyright 2020 The go-ethereum Authors
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

package miner

import (
	"errors"
	"math/big"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/consensus/clique"
	"github.com/clevermacaw/ethcore/core/chain"
	"github.com/clevermacaw/ethcore/core/types"
	"github.com/clevermacaw/ethcore/params"
	"github.com/holiman/uint256"
)

// Errors a builder reports from addTransaction, per §4.F/§7. The caller
// (the miner's assembly loop) decides whether to stop or skip based on
// which of these it gets back.
var (
	ErrGasLimitExceeded    = errors.New("gas limit exceeded")
	ErrNonceMismatch       = errors.New("nonce mismatch")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBaseFeeTooLow       = errors.New("max fee per gas below block base fee")
	ErrRevert              = errors.New("transaction reverted")
)

// minTxGas is the intrinsic gas of the smallest possible transaction; once
// remaining gas drops below this, the block is considered full (§4.F).
const minTxGas = 21000

// HeaderOptions carries the fields the miner scheduler computes before
// opening a builder (§4.G step 8): number, difficulty, gas limit, and an
// optional post-London base fee.
type HeaderOptions struct {
	Number     *big.Int
	Difficulty *big.Int
	GasLimit   uint64
	BaseFee    *big.Int // nil pre-London
	Time       uint64
	Coinbase   common.Address
}

// CliqueOptions configures PoA sealing of the block once it's built.
type CliqueOptions struct {
	Signer    common.Address
	SignFunc  func(sealHash common.Hash) ([]byte, error)
	InTurn    bool
}

// Builder assembles one candidate block against a private VM snapshot,
// implementing open/addTransaction/build/discard (§4.F).
type Builder struct {
	parent  *types.Block
	header  *types.Header
	snap    chain.VmSnapshot
	clique  *CliqueOptions

	gasPool *uint256.Int // remaining gas, saturating (§4.J)
	txs     []*types.Transaction
	gasUsed uint64

	discarded bool
}

// Open forks a fresh VM snapshot from the parent's state root and prepares
// a pending header, implementing §4.F "open" and §4.G step 5's genesis
// bootstrap.
func Open(parent *types.Block, vm chain.VM, opts HeaderOptions, cq *CliqueOptions, genesisAlloc func() params.GenesisAlloc) *Builder {
	snap := vm.Copy()
	if parent.NumberU64() == 0 && genesisAlloc != nil {
		if alloc := genesisAlloc(); alloc != nil {
			snap.GenerateCanonicalGenesis(alloc)
		}
	}
	snap.SetStateRoot(parent.Header().Root)

	header := &types.Header{
		ParentHash: parent.Hash(),
		Number:     new(big.Int).Set(opts.Number),
		Difficulty: new(big.Int).Set(opts.Difficulty),
		GasLimit:   opts.GasLimit,
		Time:       opts.Time,
		Coinbase:   opts.Coinbase,
		Extra:      make([]byte, clique.ExtraVanity+clique.ExtraSeal),
	}
	if opts.BaseFee != nil {
		header.BaseFee = new(big.Int).Set(opts.BaseFee)
	}

	pool := new(uint256.Int)
	pool.SetUint64(opts.GasLimit)

	return &Builder{
		parent:  parent,
		header:  header,
		snap:    snap,
		clique:  cq,
		gasPool: pool,
	}
}

// AddTransaction executes tx against the private snapshot and, on success,
// appends it to the body and advances gasUsed (§4.F).
func (b *Builder) AddTransaction(tx *types.Transaction) error {
	if b.discarded {
		return errors.New("builder discarded")
	}
	remaining := b.gasPool.Uint64()
	if tx.Gas() > remaining {
		return ErrGasLimitExceeded
	}
	if b.header.BaseFee != nil && tx.GasFeeCap().Cmp(b.header.BaseFee) < 0 {
		return ErrBaseFeeTooLow
	}

	used, err := b.snap.ApplyTransaction(tx, b.header)
	if err != nil {
		switch {
		case errors.Is(err, ErrNonceMismatch), errors.Is(err, ErrInsufficientBalance), errors.Is(err, ErrRevert):
			return err
		default:
			return ErrRevert
		}
	}

	var spent uint256.Int
	spent.SetUint64(used)
	if b.gasPool.Lt(&spent) {
		// The snapshot reported more gas than we offered it; clamp rather
		// than underflow the pool.
		spent = *b.gasPool
	}
	b.gasPool.Sub(b.gasPool, &spent)
	b.gasUsed += used
	b.txs = append(b.txs, tx)
	return nil
}

// Full reports whether remaining gas has dropped below the smallest
// possible transaction, the §4.F "block full" condition.
func (b *Builder) Full() bool {
	return b.gasPool.Uint64() < minTxGas
}

// Build seals the block: computes the state root, signs under Clique if
// configured, and returns the finished block (§4.F "build", §4.G step 11).
func (b *Builder) Build() (*types.Block, error) {
	if b.discarded {
		return nil, errors.New("builder discarded")
	}
	b.header.GasUsed = b.gasUsed
	b.header.Root = b.snap.StateRoot()

	if b.clique != nil {
		copy(b.header.Extra[len(b.header.Extra)-clique.ExtraSeal:], make([]byte, clique.ExtraSeal))
		sealHash := clique.SealHash(b.header)
		sig, err := b.clique.SignFunc(sealHash)
		if err != nil {
			return nil, err
		}
		copy(b.header.Extra[len(b.header.Extra)-clique.ExtraSeal:], sig)
	}

	block := types.NewBlockWithHeader(b.header).WithBody(b.txs)
	return block, nil
}

// Discard releases the builder's snapshot without producing a block,
// implementing §4.F "discard" (called when the assembly loop is
// interrupted mid-flight).
func (b *Builder) Discard() {
	b.discarded = true
}
