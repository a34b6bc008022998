// Copyright 2015 The go-ethereum Authors
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

// Package chain implements the read-mostly facade the wire protocol and the
// miner scheduler both consult for chain head state (§4.E), and declares
// the narrow collaborator contracts (§6) this module never implements
// itself: the VM/state trie and the persistent Blockchain store.
package chain

import (
	"math/big"
	"sync"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/core/types"
	"github.com/clevermacaw/ethcore/event"
	"github.com/clevermacaw/ethcore/params"
)

// ChainUpdated is posted on the shared event.TypeMux every time putBlock
// succeeds, and is what the miner scheduler's one-shot listener watches for
// to interrupt an in-progress assembly (§4.G step 2, §6 "Event bus").
type ChainUpdated struct {
	Block *types.Block
}

// VmSnapshot is a private, forkable view of world state a block builder
// executes transactions against (§6). Concrete state/trie/EVM execution is
// an external collaborator; this module only calls through the interface.
type VmSnapshot interface {
	SetStateRoot(root common.Hash)
	GenerateCanonicalGenesis(alloc params.GenesisAlloc)
	GetNonce(addr common.Address) uint64
	GetBalance(addr common.Address) *big.Int
	// ApplyTransaction executes tx against the snapshot and returns the gas
	// it consumed, or an error drawn from the §4.F/§7 taxonomy
	// (GasLimitExceeded, NonceMismatch, InsufficientBalance, BaseFeeTooLow,
	// Revert).
	ApplyTransaction(tx *types.Transaction, header *types.Header) (gasUsed uint64, err error)
	StateRoot() common.Hash
}

// VM forks new private snapshots for block assembly (§6 "VM.copy()").
type VM interface {
	Copy() VmSnapshot
}

// Blockchain is the persistent store this module never implements itself
// (§6): it accepts sealed blocks and answers Clique turn-order questions
// that only the canonical chain, not this facade, can authoritatively
// track once forks are involved.
type Blockchain interface {
	PutBlock(block *types.Block) error
	CliqueSignerInTurn(addr common.Address) bool
	CliqueActiveSigners() []common.Address
	CliqueCheckRecentlySigned(header *types.Header) bool
}

// Chain is the facade of §4.E: latestHeader/latestBlock/totalDifficulty/
// networkId/genesisHash/hardforkAt/nextHardforkBlock, backed by an
// external Blockchain collaborator plus locally-tracked head/TD state.
type Chain struct {
	config      *params.ChainConfig
	networkID   uint64
	genesisHash common.Hash
	store       Blockchain
	mux         *event.TypeMux

	mu    sync.RWMutex
	head  *types.Block
	total *big.Int
}

func New(config *params.ChainConfig, networkID uint64, genesis *types.Block, store Blockchain, mux *event.TypeMux) *Chain {
	return &Chain{
		config:      config,
		networkID:   networkID,
		genesisHash: genesis.Hash(),
		store:       store,
		mux:         mux,
		head:        genesis,
		total:       new(big.Int),
	}
}

func (c *Chain) Config() *params.ChainConfig { return c.config }
func (c *Chain) NetworkID() uint64           { return c.networkID }
func (c *Chain) GenesisHash() common.Hash    { return c.genesisHash }

func (c *Chain) LatestHeader() *types.Header {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.head.Header()
}

func (c *Chain) LatestBlock() *types.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.head
}

func (c *Chain) TotalDifficulty() *big.Int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return new(big.Int).Set(c.total)
}

// HardforkAt reports the hardfork active at the given block number. The
// totalDifficulty parameter is threaded through unused, per SPEC_FULL Open
// Question 1: it widens the signature for a future PoS trigger without
// this module inventing PoS block-production semantics.
func (c *Chain) HardforkAt(number *big.Int, totalDifficulty *big.Int) params.Hardfork {
	return c.config.HardforkAt(number, totalDifficulty)
}

func (c *Chain) NextHardforkBlock(fork params.Hardfork) *big.Int {
	return c.config.NextHardforkBlock(fork)
}

// Submit hands a newly-sealed block to the external Blockchain collaborator
// and, on success, advances local head/TD tracking and posts ChainUpdated
// so the miner's interrupt listener fires (§4.G step 11, §6 event bus).
func (c *Chain) Submit(block *types.Block) error {
	if err := c.store.PutBlock(block); err != nil {
		return err
	}
	c.mu.Lock()
	c.head = block
	c.total = new(big.Int).Add(c.total, block.Difficulty())
	c.mu.Unlock()

	return c.mux.Post(ChainUpdated{Block: block})
}

func (c *Chain) CliqueSignerInTurn(addr common.Address) bool     { return c.store.CliqueSignerInTurn(addr) }
func (c *Chain) CliqueActiveSigners() []common.Address           { return c.store.CliqueActiveSigners() }
func (c *Chain) CliqueCheckRecentlySigned(h *types.Header) bool  { return c.store.CliqueCheckRecentlySigned(h) }
