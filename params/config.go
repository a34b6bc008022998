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

package params

import (
	"fmt"
	"math/big"

	"github.com/clevermacaw/ethcore/common"
)

// CliqueConfig is the consensus engine configuration for proof-of-authority
// based sealing (§4.G, §6 Blockchain.cliqueSignerInTurn/cliqueActiveSigners).
type CliqueConfig struct {
	Period uint64 `json:"period"` // Number of seconds between blocks to enforce
	Epoch  uint64 `json:"epoch"`  // Epoch length to reset votes and checkpoints
}

// ChainConfig is the core config which determines the blockchain settings.
//
// ChainConfig is stored in the database on a per block basis; the block in
// question is the fork block to which the config applies.
type ChainConfig struct {
	ChainID *big.Int `json:"chainId"`

	HomesteadBlock *big.Int `json:"homesteadBlock,omitempty"`
	EIP150Block    *big.Int `json:"eip150Block,omitempty"`
	EIP155Block    *big.Int `json:"eip155Block,omitempty"`
	EIP158Block    *big.Int `json:"eip158Block,omitempty"`
	ByzantiumBlock *big.Int `json:"byzantiumBlock,omitempty"`
	BerlinBlock    *big.Int `json:"berlinBlock,omitempty"`
	LondonBlock    *big.Int `json:"londonBlock,omitempty"`

	Clique *CliqueConfig `json:"clique,omitempty"`
}

// Hardfork identifies a named protocol upgrade the fork-id and header-
// validation logic key off of (§4.B, §4.E).
type Hardfork int

const (
	Frontier Hardfork = iota
	Homestead
	EIP150
	EIP155
	EIP158
	Byzantium
	Berlin
	London
)

var hardforkNames = [...]string{"frontier", "homestead", "eip150", "eip155", "eip158", "byzantium", "berlin", "london"}

func (h Hardfork) String() string {
	if int(h) < len(hardforkNames) {
		return hardforkNames[h]
	}
	return fmt.Sprintf("hardfork(%d)", int(h))
}

// blocks lists hardforks in activation order paired with the config
// field that names their activation block; nil means "not scheduled".
func (c *ChainConfig) blocks() []struct {
	fork  Hardfork
	block *big.Int
} {
	return []struct {
		fork  Hardfork
		block *big.Int
	}{
		{Frontier, big.NewInt(0)},
		{Homestead, c.HomesteadBlock},
		{EIP150, c.EIP150Block},
		{EIP155, c.EIP155Block},
		{EIP158, c.EIP158Block},
		{Byzantium, c.ByzantiumBlock},
		{Berlin, c.BerlinBlock},
		{London, c.LondonBlock},
	}
}

// HardforkAt returns the highest hardfork whose activation block is <= num.
// The totalDifficulty parameter is accepted but unused: SPEC_FULL Open
// Question 1 directs implementers to widen the signature for a future PoS
// activation without inventing PoS block-production semantics here.
func (c *ChainConfig) HardforkAt(num *big.Int, totalDifficulty *big.Int) Hardfork {
	current := Frontier
	for _, f := range c.blocks() {
		if f.block == nil {
			continue
		}
		if num.Cmp(f.block) >= 0 {
			current = f.fork
		}
	}
	return current
}

// HardforkBlock returns the activation block of the named hardfork, or nil
// if it is not scheduled on this chain.
func (c *ChainConfig) HardforkBlock(fork Hardfork) *big.Int {
	for _, f := range c.blocks() {
		if f.fork == fork {
			return f.block
		}
	}
	return nil
}

// NextHardforkBlock returns the activation block of the first hardfork
// strictly greater than the given one, or nil if none remains scheduled.
func (c *ChainConfig) NextHardforkBlock(fork Hardfork) *big.Int {
	blocks := c.blocks()
	for i, f := range blocks {
		if f.fork == fork {
			for _, next := range blocks[i+1:] {
				if next.block != nil {
					return next.block
				}
			}
			return nil
		}
	}
	return nil
}

// IsLondon reports whether num is on or after the London fork block.
func (c *ChainConfig) IsLondon(num *big.Int) bool {
	return isBlockForked(c.LondonBlock, num)
}

// IsEIP155 reports whether num is on or after the EIP-155 fork block, the
// point after which legacy transaction signatures must include chain id.
func (c *ChainConfig) IsEIP155(num *big.Int) bool {
	return isBlockForked(c.EIP155Block, num)
}

func isBlockForked(fork, num *big.Int) bool {
	if fork == nil || num == nil {
		return false
	}
	return fork.Cmp(num) <= 0
}

// AllCliqueProtocolChanges is a fully-forked chain config with a Clique
// consensus engine, useful for tests and single-node dev networks.
func AllCliqueProtocolChanges(chainID *big.Int, period, epoch uint64) *ChainConfig {
	return &ChainConfig{
		ChainID:        chainID,
		HomesteadBlock: big.NewInt(0),
		EIP150Block:    big.NewInt(0),
		EIP155Block:    big.NewInt(0),
		EIP158Block:    big.NewInt(0),
		ByzantiumBlock: big.NewInt(0),
		BerlinBlock:    big.NewInt(0),
		LondonBlock:    big.NewInt(0),
		Clique:         &CliqueConfig{Period: period, Epoch: epoch},
	}
}

// GenesisAlloc specifies the initial state of accounts in the genesis
// block, applied once by the miner scheduler when it discovers the parent
// is the genesis sentinel with uninitialized state (§4.G step 5).
type GenesisAlloc map[common.Address]GenesisAccount

type GenesisAccount struct {
	Balance *big.Int `json:"balance"`
	Nonce   uint64   `json:"nonce,omitempty"`
}
