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
	"io"
	"math/big"
	"sync/atomic"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/rlp"
)

// Header represents a block header. Only the fields the miner scheduler and
// the wire protocol actually need are carried; state root and receipt root
// are populated by the external VM/chain collaborator (§6 of the design
// notes: the trie and EVM live outside this module).
type Header struct {
	ParentHash  common.Hash    `json:"parentHash"       gencodec:"required"`
	UncleHash   common.Hash    `json:"sha3Uncles"       gencodec:"required"`
	Coinbase    common.Address `json:"miner"`
	Root        common.Hash    `json:"stateRoot"        gencodec:"required"`
	TxHash      common.Hash    `json:"transactionsRoot" gencodec:"required"`
	ReceiptHash common.Hash    `json:"receiptsRoot"     gencodec:"required"`
	Bloom       Bloom          `json:"logsBloom"        gencodec:"required"`
	Difficulty  *big.Int       `json:"difficulty"       gencodec:"required"`
	Number      *big.Int       `json:"number"           gencodec:"required"`
	GasLimit    uint64         `json:"gasLimit"         gencodec:"required"`
	GasUsed     uint64         `json:"gasUsed"          gencodec:"required"`
	Time        uint64         `json:"timestamp"        gencodec:"required"`
	Extra       []byte         `json:"extraData"        gencodec:"required"`
	MixDigest   common.Hash    `json:"mixHash"`
	Nonce       BlockNonce     `json:"nonce"`

	// BaseFee is nil for pre-London blocks; present once EIP-1559 activates.
	BaseFee *big.Int `json:"baseFeePerGas" rlp:"optional"`

	// cache of the RLP hash, computed lazily.
	hash atomic.Pointer[common.Hash]
}

// BlockNonce is a 64-bit hash used to prove block validity under proof of
// work; Clique blocks carry it as a fixed 8-byte zero value for wire shape
// compatibility only.
type BlockNonce [8]byte

func EncodeNonce(i uint64) BlockNonce {
	var n BlockNonce
	for x := 0; x < 8; x++ {
		n[x] = byte(i >> (56 - x*8))
	}
	return n
}

func (n BlockNonce) Uint64() uint64 {
	var v uint64
	for x := 0; x < 8; x++ {
		v = v<<8 | uint64(n[x])
	}
	return v
}

// NumberU64 returns the block number as a uint64, for callers (fork-id
// checks, wire message clamping) that never need full big.Int precision.
func (h *Header) NumberU64() uint64 {
	if h.Number == nil {
		return 0
	}
	return h.Number.Uint64()
}

// Hash returns the RLP-keccak256 hash of the header, computed once and cached.
func (h *Header) Hash() common.Hash {
	if hash := h.hash.Load(); hash != nil {
		return *hash
	}
	v := rlpHash(h)
	h.hash.Store(&v)
	return v
}

// EncodeRLP encodes the header, omitting BaseFee for pre-London headers so
// the wire encoding of legacy blocks is unchanged.
func (h *Header) EncodeRLP(w io.Writer) error {
	enc := headerRLP{
		ParentHash:  h.ParentHash,
		UncleHash:   h.UncleHash,
		Coinbase:    h.Coinbase,
		Root:        h.Root,
		TxHash:      h.TxHash,
		ReceiptHash: h.ReceiptHash,
		Bloom:       h.Bloom,
		Difficulty:  h.Difficulty,
		Number:      h.Number,
		GasLimit:    h.GasLimit,
		GasUsed:     h.GasUsed,
		Time:        h.Time,
		Extra:       h.Extra,
		MixDigest:   h.MixDigest,
		Nonce:       h.Nonce,
	}
	if h.BaseFee != nil {
		enc.BaseFee = h.BaseFee
	}
	return rlp.Encode(w, &enc)
}

// DecodeRLP decodes a header, tolerating the absence of the trailing BaseFee
// field for pre-London blocks.
func (h *Header) DecodeRLP(s *rlp.Stream) error {
	var enc headerRLP
	if err := s.Decode(&enc); err != nil {
		return err
	}
	*h = Header{
		ParentHash:  enc.ParentHash,
		UncleHash:   enc.UncleHash,
		Coinbase:    enc.Coinbase,
		Root:        enc.Root,
		TxHash:      enc.TxHash,
		ReceiptHash: enc.ReceiptHash,
		Bloom:       enc.Bloom,
		Difficulty:  enc.Difficulty,
		Number:      enc.Number,
		GasLimit:    enc.GasLimit,
		GasUsed:     enc.GasUsed,
		Time:        enc.Time,
		Extra:       enc.Extra,
		MixDigest:   enc.MixDigest,
		Nonce:       enc.Nonce,
		BaseFee:     enc.BaseFee,
	}
	return nil
}

type headerRLP struct {
	ParentHash  common.Hash
	UncleHash   common.Hash
	Coinbase    common.Address
	Root        common.Hash
	TxHash      common.Hash
	ReceiptHash common.Hash
	Bloom       Bloom
	Difficulty  *big.Int
	Number      *big.Int
	GasLimit    uint64
	GasUsed     uint64
	Time        uint64
	Extra       []byte
	MixDigest   common.Hash
	Nonce       BlockNonce
	BaseFee     *big.Int `rlp:"optional"`
}

// CopyHeader creates a deep copy of a header so the block builder can mutate
// a pending header without aliasing the parent's fields.
func CopyHeader(h *Header) *Header {
	cpy := *h
	cpy.hash = atomic.Pointer[common.Hash]{}
	if cpy.Difficulty = new(big.Int); h.Difficulty != nil {
		cpy.Difficulty.Set(h.Difficulty)
	}
	if cpy.Number = new(big.Int); h.Number != nil {
		cpy.Number.Set(h.Number)
	}
	if h.BaseFee != nil {
		cpy.BaseFee = new(big.Int).Set(h.BaseFee)
	}
	if len(h.Extra) > 0 {
		cpy.Extra = make([]byte, len(h.Extra))
		copy(cpy.Extra, h.Extra)
	}
	return &cpy
}
