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

// Package eth implements the eth sub-protocol state machine: the STATUS
// handshake, fork-id validation, and version-gated message dispatch
// (§4.B), plus the message schema registry (§4.C).
package eth

import (
	"errors"
	"time"
)

// Protocol versions this build negotiates, oldest first.
const (
	ETH62 = 62
	ETH63 = 63
	ETH64 = 64
	ETH65 = 65
	ETH66 = 66
)

// ProtocolVersions lists the supported eth sub-protocol versions.
var ProtocolVersions = []uint{ETH66, ETH65, ETH64, ETH63, ETH62}

// ProtocolName is the official short name of the protocol used during
// devp2p capability negotiation.
const ProtocolName = "eth"

// Message codes, as specified on the wire (§3).
const (
	StatusMsg                     = 0x00
	NewBlockHashesMsg              = 0x01
	TransactionsMsg                = 0x02
	GetBlockHeadersMsg             = 0x03
	BlockHeadersMsg                = 0x04
	GetBlockBodiesMsg              = 0x05
	BlockBodiesMsg                 = 0x06
	NewBlockMsg                    = 0x07
	NewPooledTransactionHashesMsg  = 0x08
	GetPooledTransactionsMsg       = 0x09
	PooledTransactionsMsg          = 0x0a
	GetNodeDataMsg                 = 0x0d
	NodeDataMsg                    = 0x0e
	GetReceiptsMsg                 = 0x0f
	ReceiptsMsg                    = 0x10
)

// protocolMaxMsgSize is the maximum cap on the size of a protocol message.
const protocolMaxMsgSize = 10 * 1024 * 1024

// Protocol limits: the GetBlockHeaders cap and the STATUS handshake timeout.
const (
	maxHeadersServe   = 1024 // hard cap on GetBlockHeaders "max" field (§4.C)
	statusTimeout     = 5 * time.Second
)

var (
	ErrCodeNotAllowed        = errors.New("message code not allowed for negotiated version")
	ErrUncontrolledStatus    = errors.New("uncontrolled status message")
	ErrStatusMismatch        = errors.New("status field mismatch")
	ErrStatusTimeout         = errors.New("status handshake timed out")
	ErrForkIDRejected        = errors.New("fork id rejected")
	ErrDecode                = errors.New("invalid message")
)

// versionRange records the minimum protocol version required to send or
// receive a given message code (§4.B "Version gating").
type versionRange struct{ min, max uint }

var messageVersions = map[uint64]versionRange{
	NewBlockHashesMsg:             {ETH62, ETH66},
	TransactionsMsg:               {ETH62, ETH66},
	GetBlockHeadersMsg:            {ETH62, ETH66},
	BlockHeadersMsg:               {ETH62, ETH66},
	GetBlockBodiesMsg:             {ETH62, ETH66},
	BlockBodiesMsg:                {ETH62, ETH66},
	NewBlockMsg:                   {ETH62, ETH66},
	GetNodeDataMsg:                {ETH63, ETH66},
	NodeDataMsg:                   {ETH63, ETH66},
	GetReceiptsMsg:                {ETH63, ETH66},
	ReceiptsMsg:                   {ETH63, ETH66},
	NewPooledTransactionHashesMsg: {ETH65, ETH66},
	GetPooledTransactionsMsg:      {ETH65, ETH66},
	PooledTransactionsMsg:         {ETH65, ETH66},
}

// allowedForVersion reports whether code may be sent or received under the
// given negotiated protocol version.
func allowedForVersion(version uint, code uint64) bool {
	if code == StatusMsg {
		return true
	}
	r, ok := messageVersions[code]
	if !ok {
		return false
	}
	return version >= r.min && version <= r.max
}

// requiresReqID reports whether the negotiated version uses the eth66 wire
// shape, in which request/response pairs carry a leading reqId (§4.B
// "ReqId rules").
func requiresReqID(version uint) bool { return version >= ETH66 }

// RLPxTransport is the external collaborator (§6) that delivers decoded
// devp2p frames and knows the negotiated transport-level capability. This
// module never implements RLPx framing, encryption, or discovery itself.
type RLPxTransport interface {
	Send(peerID string, code uint64, data []byte) error
	Disconnect(peerID string, reason error)
	// ProtocolVersion is the negotiated eth sub-protocol version (62-66).
	ProtocolVersion() uint
	// DevP2PVersion is the transport-level "hello" version; snappy framing
	// turns on unconditionally once this is >= 5 (§4.A), independent of the
	// eth sub-protocol version.
	DevP2PVersion() uint
}

// snappyVersion is the devp2p transport version at and above which payload
// compression is mandatory (§4.A).
const snappyVersion = 5

// Frame is one decoded (code, payload) pair delivered by the transport.
type Frame struct {
	PeerID string
	Code   uint64
	Data   []byte
}
