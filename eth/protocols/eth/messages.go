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

package eth

import (
	"fmt"
	"io"
	"math/big"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/core/types"
	"github.com/clevermacaw/ethcore/rlp"
)

// StatusPacket is the network handshake payload (§3 "STATUS record"). The
// ForkID field is only meaningful, and only sent, for version >= 64. STATUS
// never carries a reqId, on any negotiated version.
type StatusPacket struct {
	ProtocolVersion uint32
	NetworkID       uint64
	TD              *big.Int
	Head            common.Hash
	Genesis         common.Hash
	ForkID          ID `rlp:"optional"`
}

// HashOrNumber is either a block hash or a block number, dispatching on RLP
// kind the way GetBlockHeaders's "block" field does (§4.C).
type HashOrNumber struct {
	Hash   common.Hash
	Number uint64
}

// EncodeRLP implements rlp.Encoder: a hash encodes as its raw 32 bytes, a
// number encodes as the plain minimal-big-endian integer (§4.C).
func (hn *HashOrNumber) EncodeRLP(w io.Writer) error {
	if hn.Hash == (common.Hash{}) {
		return rlp.Encode(w, hn.Number)
	}
	if hn.Number != 0 {
		return fmt.Errorf("both origin hash (%x) and number (%d) provided", hn.Hash, hn.Number)
	}
	return rlp.Encode(w, hn.Hash)
}

// DecodeRLP implements rlp.Decoder, dispatching on whether the encoded
// value is a 32-byte string (hash) or shorter (number).
func (hn *HashOrNumber) DecodeRLP(s *rlp.Stream) error {
	_, size, err := s.Kind()
	if err != nil {
		return err
	}
	origin, err := s.Raw()
	if err != nil {
		return err
	}
	if size == 32 {
		var content []byte
		if err := rlp.DecodeBytes(origin, &content); err != nil {
			return err
		}
		hn.Hash.SetBytes(content)
		hn.Number = 0
		return nil
	}
	return rlp.DecodeBytes(origin, &hn.Number)
}

// Below, every request/response pair has two wire shapes: a bare shape used
// on protocol versions 62-65, and a "Packet66" shape used on version 66,
// which prefixes the bare payload with a RequestId used to correlate
// responses with their request (§3, §4.B "ReqId rules"). requiresReqID
// gates which shape a given negotiated version uses.

// GetBlockHeadersRequest is the bare eth/62-65 wire shape of a header query.
type GetBlockHeadersRequest struct {
	Origin  HashOrNumber
	Amount  uint64
	Skip    uint64
	Reverse bool
}

// GetBlockHeadersPacket66 is the eth/66 wire shape of a header query.
type GetBlockHeadersPacket66 struct {
	RequestId uint64
	*GetBlockHeadersRequest
}

// BlockHeadersPacket is the bare eth/62-65 wire shape of a header response.
type BlockHeadersPacket []*types.Header

// BlockHeadersPacket66 is the eth/66 wire shape of a header response.
type BlockHeadersPacket66 struct {
	RequestId uint64
	BlockHeadersPacket
}

type NewBlockHashesPacket []struct {
	Hash   common.Hash
	Number uint64
}

// GetBlockBodiesPacket is the bare eth/62-65 wire shape of a bodies query.
type GetBlockBodiesPacket []common.Hash

// GetBlockBodiesPacket66 is the eth/66 wire shape of a bodies query.
type GetBlockBodiesPacket66 struct {
	RequestId uint64
	GetBlockBodiesPacket
}

type BlockBody struct {
	Transactions []*types.Transaction
	Uncles       []*types.Header
}

// BlockBodiesPacket is the bare eth/62-65 wire shape of a bodies response.
type BlockBodiesPacket []*BlockBody

// BlockBodiesPacket66 is the eth/66 wire shape of a bodies response.
type BlockBodiesPacket66 struct {
	RequestId uint64
	BlockBodiesPacket
}

type NewBlockPacket struct {
	Block *types.Block
	TD    *big.Int
}

type TransactionsPacket []*types.Transaction

type NewPooledTransactionHashesPacket []common.Hash

// GetPooledTransactionsPacket is the bare eth/65 wire shape of a pooled-tx
// query (this message never existed before eth/65, so there is no eth/62-64
// shape to reconcile it with).
type GetPooledTransactionsPacket []common.Hash

// GetPooledTransactionsPacket66 is the eth/66 wire shape of a pooled-tx
// query.
type GetPooledTransactionsPacket66 struct {
	RequestId uint64
	GetPooledTransactionsPacket
}

// PooledTransactionsPacket is the bare eth/65 wire shape of a pooled-tx
// response.
type PooledTransactionsPacket []*types.Transaction

// PooledTransactionsPacket66 is the eth/66 wire shape of a pooled-tx
// response.
type PooledTransactionsPacket66 struct {
	RequestId uint64
	PooledTransactionsPacket
}

// GetReceiptsPacket is the bare eth/63-65 wire shape of a receipts query.
type GetReceiptsPacket []common.Hash

// GetReceiptsPacket66 is the eth/66 wire shape of a receipts query.
type GetReceiptsPacket66 struct {
	RequestId uint64
	GetReceiptsPacket
}

// ReceiptsPacket is the bare eth/63-65 wire shape of a receipts response.
type ReceiptsPacket [][]*types.Receipt

// ReceiptsPacket66 is the eth/66 wire shape of a receipts response.
type ReceiptsPacket66 struct {
	RequestId uint64
	ReceiptsPacket
}

// GetNodeDataPacket is the bare eth/63-65 wire shape of a state-data query.
type GetNodeDataPacket []common.Hash

// GetNodeDataPacket66 is the eth/66 wire shape of a state-data query.
type GetNodeDataPacket66 struct {
	RequestId uint64
	GetNodeDataPacket
}

// NodeDataPacket is the bare eth/63-65 wire shape of a state-data response.
type NodeDataPacket [][]byte

// NodeDataPacket66 is the eth/66 wire shape of a state-data response.
type NodeDataPacket66 struct {
	RequestId uint64
	NodeDataPacket
}

// clampHeaderRequest enforces the §4.C bound: max <= 1024.
func clampHeaderRequest(req *GetBlockHeadersRequest) {
	if req.Amount > maxHeadersServe {
		req.Amount = maxHeadersServe
	}
}
