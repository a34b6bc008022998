// Copyright 2019 The go-ethereum Authors
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

package eth

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"math/big"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/params"
)

// ID is the EIP-2124 fork identifier: a CRC32 checksum of the past
// activated fork blocks plus the next still-scheduled one, if any.
type ID struct {
	Hash [4]byte
	Next uint64
}

var (
	ErrRemoteStale      = errors.New("remote is advertising a future fork that passed locally")
	ErrLocalIncompatible = errors.New("local is incompatible with the remote's fork configuration")
	ErrUnknownFork      = errors.New("unknown fork hash")
)

// NewID calculates the Ethereum fork ID from the chain config and the
// current head block number.
func NewID(config *params.ChainConfig, genesisHash common.Hash, head uint64) ID {
	hash := crc32.ChecksumIEEE(genesisHash[:])
	var next uint64
	for _, fork := range gatherForks(config) {
		if fork <= head {
			hash = checksumUpdate(hash, fork)
			continue
		}
		next = fork
		break
	}
	return ID{Hash: checksumToBytes(hash), Next: next}
}

// gatherForks returns the sorted, deduplicated list of non-genesis fork
// activation blocks, matching the order params.ChainConfig.blocks() uses.
func gatherForks(config *params.ChainConfig) []uint64 {
	var forks []uint64
	add := func(b *big.Int) {
		if b == nil || b.Sign() == 0 {
			return
		}
		n := b.Uint64()
		if len(forks) == 0 || forks[len(forks)-1] != n {
			forks = append(forks, n)
		}
	}
	add(config.HomesteadBlock)
	add(config.EIP150Block)
	add(config.EIP155Block)
	add(config.EIP158Block)
	add(config.ByzantiumBlock)
	add(config.BerlinBlock)
	add(config.LondonBlock)
	return forks
}

func checksumUpdate(hash uint32, fork uint64) uint32 {
	var blob [8]byte
	binary.BigEndian.PutUint64(blob[:], fork)
	return crc32.Update(hash, crc32.IEEETable, blob[:])
}

func checksumToBytes(hash uint32) [4]byte {
	var blob [4]byte
	binary.BigEndian.PutUint32(blob[:], hash)
	return blob
}

// forkHistory pairs each locally-known fork hash with the block at which it
// was first observed, needed by Validate to answer "is the peer's fork
// older than ours" (§4.B).
type forkHistory struct {
	hash  [4]byte
	block uint64 // 0 for genesis
	next  uint64 // 0 if this was the last known fork
}

func localForkHistory(config *params.ChainConfig, genesisHash common.Hash) []forkHistory {
	forks := gatherForks(config)
	hash := crc32.ChecksumIEEE(genesisHash[:])
	history := []forkHistory{{hash: checksumToBytes(hash), block: 0}}
	for i, fork := range forks {
		hash = checksumUpdate(hash, fork)
		history = append(history, forkHistory{hash: checksumToBytes(hash), block: fork})
		history[i].next = fork
	}
	return history
}

// Validate runs the three EIP-2124 checks from §4.B against a remote peer's
// declared fork id, given the local chain config, genesis hash, and current
// head height.
func Validate(config *params.ChainConfig, genesisHash common.Hash, head uint64, remote ID) error {
	local := NewID(config, genesisHash, head)

	// 1. Same fork hash: if peer claims a next-fork block we've already
	// passed, they're stale relative to us.
	if remote.Hash == local.Hash {
		if remote.Next != 0 && head >= remote.Next {
			return ErrRemoteStale
		}
		return nil
	}

	// 2. Look up the local hardfork history entry matching the peer's hash.
	history := localForkHistory(config, genesisHash)
	var matched *forkHistory
	for i := range history {
		if history[i].hash == remote.Hash {
			matched = &history[i]
			break
		}
	}
	if matched == nil {
		return ErrUnknownFork
	}

	// 3. A matched fork we have not reached yet means the peer is ahead on
	// our own schedule, which is compatible. Otherwise the peer's fork
	// predates ours; it must correctly announce our next scheduled fork
	// after its own, or it needs a software update.
	if matched.block > head {
		return nil
	}
	if remote.Next == 0 || remote.Next != matched.next {
		return ErrLocalIncompatible
	}
	return nil
}
