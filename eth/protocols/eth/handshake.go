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

package eth

import (
	"fmt"
	"math/big"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/core/types"
	"github.com/clevermacaw/ethcore/params"
	"github.com/clevermacaw/ethcore/rlp"
)

// ChainReader is the slice of the chain facade (§4.E) the handshake needs:
// genesis hash, network id, and the local STATUS fields.
type ChainReader interface {
	NetworkID() uint64
	GenesisHash() common.Hash
	LatestHeader() *types.Header
	TotalDifficulty() *big.Int
	Config() *params.ChainConfig
}

// sendStatus emits the local STATUS packet (§4.B step 1). It arms no timer;
// the STATUS deadline is enforced by its caller.
func sendStatus(p *Peer, chain ChainReader) error {
	head := chain.LatestHeader()
	status := &StatusPacket{
		ProtocolVersion: uint32(p.version),
		NetworkID:       chain.NetworkID(),
		TD:              chain.TotalDifficulty(),
		Head:            head.Hash(),
		Genesis:         chain.GenesisHash(),
	}
	if p.version >= ETH64 {
		status.ForkID = NewID(chain.Config(), chain.GenesisHash(), head.NumberU64())
	}
	p.mu.Lock()
	p.local = status
	p.mu.Unlock()

	data, err := rlp.EncodeToBytes(status)
	if err != nil {
		meters.get(false).peerError.Mark(1)
		return err
	}
	if err := p.rw.Send(p.id, StatusMsg, encodePayload(p, data)); err != nil {
		meters.get(false).peerError.Mark(1)
		return err
	}
	return nil
}

// handleStatus processes exactly one inbound STATUS frame, applying every
// validation rule in §4.B steps 2-5. A second call after establishment
// returns ErrUncontrolledStatus.
func handleStatus(p *Peer, chain ChainReader, frame Frame) error {
	p.mu.Lock()
	if p.state != stateAwaitingStatus {
		p.mu.Unlock()
		return ErrUncontrolledStatus
	}
	p.mu.Unlock()

	payload, err := decodePayload(p, frame.Data)
	if err != nil {
		meters.get(true).peerError.Mark(1)
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	var remote StatusPacket
	if err := rlp.DecodeBytes(payload, &remote); err != nil {
		meters.get(true).peerError.Mark(1)
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if uint(remote.ProtocolVersion) != p.version {
		meters.get(true).protocolVersionMismatch.Mark(1)
		return fmt.Errorf("%w: protocol version %d != %d", ErrStatusMismatch, remote.ProtocolVersion, p.version)
	}
	if remote.NetworkID != chain.NetworkID() {
		meters.get(true).networkIDMismatch.Mark(1)
		return fmt.Errorf("%w: network id %d != %d", ErrStatusMismatch, remote.NetworkID, chain.NetworkID())
	}
	if remote.Genesis != chain.GenesisHash() {
		meters.get(true).genesisMismatch.Mark(1)
		return fmt.Errorf("%w: genesis %x != %x", ErrStatusMismatch, remote.Genesis, chain.GenesisHash())
	}
	if p.version >= ETH64 {
		head := chain.LatestHeader()
		if err := Validate(chain.Config(), chain.GenesisHash(), head.NumberU64(), remote.ForkID); err != nil {
			meters.get(true).forkidRejected.Mark(1)
			return fmt.Errorf("%w: %v", ErrForkIDRejected, err)
		}
	}

	p.mu.Lock()
	p.remote = &remote
	p.head = remote.Head
	p.td = remote.TD
	p.state = stateEstablished
	p.mu.Unlock()

	p.log.Debug("eth handshake established", "td", remote.TD, "head", remote.Head)
	return nil
}
