// Copyright 2017 The go-ethereum Authors
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

// Package clique implements the proof-of-authority consensus engine.
package clique

import (
	"bytes"
	"errors"
	"math/big"
	"sort"
	"sync"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/core/types"
	"github.com/clevermacaw/ethcore/params"
)

// Clique proof-of-authority protocol constants.
var (
	InTurnDifficulty  = big.NewInt(2)
	OutOfTurnDifficulty = big.NewInt(1)

	ExtraVanity = 32 // Fixed number of extra-data prefix bytes reserved for signer vanity
	ExtraSeal   = 65 // Fixed number of extra-data suffix bytes reserved for signer seal

	nonceAuthVote = types.EncodeNonce(0xffffffffffffffff) // Magic nonce number to vote on adding a new signer
	nonceDropVote = types.EncodeNonce(0)                  // Magic nonce number to vote on removing a signer
)

var (
	ErrUnauthorizedSigner = errors.New("unauthorized signer")
	ErrRecentlySigned     = errors.New("recently signed")
	ErrInvalidVotingChain = errors.New("invalid voting chain")
)

// Snapshot is the state of the authorization voting at a given point in
// time, keyed by block hash so branches never collide.
type Snapshot struct {
	Number  uint64                      `json:"number"`
	Hash    common.Hash                 `json:"hash"`
	Signers map[common.Address]struct{} `json:"signers"`
	Recents map[uint64]common.Address   `json:"recents"`
}

// newSnapshot creates a new snapshot with the given starting signer set.
func newSnapshot(number uint64, hash common.Hash, signers []common.Address) *Snapshot {
	snap := &Snapshot{
		Number:  number,
		Hash:    hash,
		Signers: make(map[common.Address]struct{}),
		Recents: make(map[uint64]common.Address),
	}
	for _, signer := range signers {
		snap.Signers[signer] = struct{}{}
	}
	return snap
}

// copy creates a deep copy of the snapshot.
func (s *Snapshot) copy() *Snapshot {
	cpy := &Snapshot{
		Number:  s.Number,
		Hash:    s.Hash,
		Signers: make(map[common.Address]struct{}),
		Recents: make(map[uint64]common.Address),
	}
	for signer := range s.Signers {
		cpy.Signers[signer] = struct{}{}
	}
	for block, signer := range s.Recents {
		cpy.Recents[block] = signer
	}
	return cpy
}

// signers retrieves the list of authorized signers in ascending order.
func (s *Snapshot) signers() []common.Address {
	sigs := make([]common.Address, 0, len(s.Signers))
	for sig := range s.Signers {
		sigs = append(sigs, sig)
	}
	sort.Slice(sigs, func(i, j int) bool { return bytes.Compare(sigs[i][:], sigs[j][:]) < 0 })
	return sigs
}

// inturn returns whether a signer at a given block height is in-turn or not.
func (s *Snapshot) inturn(number uint64, signer common.Address) bool {
	signers, offset := s.signers(), 0
	for offset < len(signers) && signers[offset] != signer {
		offset++
	}
	return (number % uint64(len(signers))) == uint64(offset)
}

// apply advances the snapshot by one header, recording who signed it and
// dropping the oldest recently-signed entry once the lockout window slides.
func (s *Snapshot) apply(number uint64, signer common.Address, epoch uint64) *Snapshot {
	next := s.copy()
	next.Number = number
	limit := uint64(len(next.Signers)/2 + 1)
	if number >= limit {
		delete(next.Recents, number-limit)
	}
	next.Recents[number] = signer
	return next
}

// recentlySigned reports whether signer produced one of the last
// floor(len(signers)/2)+1 blocks (§4.G step 4).
func (s *Snapshot) recentlySigned(signer common.Address) bool {
	for _, recent := range s.Recents {
		if recent == signer {
			return true
		}
	}
	return false
}

// Clique is the proof-of-authority consensus engine, holding the current
// snapshot of authorized signers and their voting history for one chain
// head. It is deliberately not concerned with header validation beyond
// what the miner scheduler needs to decide turn order (§1 excludes full
// header/transaction validation rules).
type Clique struct {
	config *params.CliqueConfig

	mu   sync.RWMutex
	snap *Snapshot
}

// New creates a Clique proof-of-authority engine seeded with an initial
// signer set at the genesis snapshot.
func New(config *params.CliqueConfig, genesisSigners []common.Address) *Clique {
	return &Clique{
		config: config,
		snap:   newSnapshot(0, common.Hash{}, genesisSigners),
	}
}

// Snapshot returns a defensive copy of the current signer-set snapshot.
func (c *Clique) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.copy()
}

// Advance records that header was signed by signer, sliding the recently-
// signed lockout window forward. Called by the miner once a sealed block has
// been submitted to the chain (mirrors putBlock updating
// cliqueCheckRecentlySigned state for the next round, §6).
func (c *Clique) Advance(header *types.Header, signer common.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = c.snap.apply(header.Number.Uint64(), signer, c.config.Epoch)
}

// ActiveSigners returns the current authorized signer set (§6
// Blockchain.cliqueActiveSigners).
func (c *Clique) ActiveSigners() []common.Address {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.signers()
}

// InTurn reports whether signer is in-turn to produce the block at number
// (§6 Blockchain.cliqueSignerInTurn).
func (c *Clique) InTurn(number uint64, signer common.Address) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.inturn(number, signer)
}

// CheckRecentlySigned reports whether signer produced one of the last
// floor(activeSignerCount/2)+1 blocks and must therefore sit this round out
// (§6 Blockchain.cliqueCheckRecentlySigned).
func (c *Clique) CheckRecentlySigned(signer common.Address) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.recentlySigned(signer)
}

// Difficulty returns the block difficulty for the given turn state, per
// §4.G step 6: 2 if in-turn, 1 otherwise.
func Difficulty(inTurn bool) *big.Int {
	if inTurn {
		return new(big.Int).Set(InTurnDifficulty)
	}
	return new(big.Int).Set(OutOfTurnDifficulty)
}

// SealHash returns the hash of a header prior to it being sealed, i.e. with
// the last ExtraSeal bytes of Extra (the signature) removed.
func SealHash(header *types.Header) common.Hash {
	cpy := types.CopyHeader(header)
	if len(cpy.Extra) > ExtraSeal {
		cpy.Extra = cpy.Extra[:len(cpy.Extra)-ExtraSeal]
	}
	return cpy.Hash()
}
