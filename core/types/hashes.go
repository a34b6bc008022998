// Copyright 2023 The go-ethereum Authors
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
	"golang.org/x/crypto/sha3"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/rlp"
)

// EmptyRootHash is the known root hash of an empty trie, kept here only as
// a comparison sentinel for headers built against the external state trie
// collaborator; this module never populates a real trie itself.
var EmptyRootHash = common.HexToHash("56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421")

// EmptyUncleHash is the RLP hash of an empty uncle list, ((nil)) - Clique
// chains never have uncles but headers still carry the field for wire
// compatibility with legacy eth/6x peers.
var EmptyUncleHash = rlpHash([]*Header(nil))

func rlpHash(x interface{}) (h common.Hash) {
	hw := sha3.NewLegacyKeccak256()
	rlp.Encode(hw, x)
	hw.Sum(h[:0])
	return h
}

// newKeccakState returns a fresh keccak256 hash.Hash for the prefixed
// typed-transaction hashing scheme (EIP-2718).
func newKeccakState() interface {
	Write([]byte) (int, error)
	Sum([]byte) []byte
} {
	return sha3.NewLegacyKeccak256()
}
