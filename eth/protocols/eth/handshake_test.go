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
	"errors"
	"math/big"
	"testing"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/core/types"
	"github.com/clevermacaw/ethcore/log"
	"github.com/clevermacaw/ethcore/params"
	"github.com/clevermacaw/ethcore/rlp"
)

// fakeTransport is a minimal RLPxTransport double: it captures the last
// frame handed to Send instead of putting anything on a wire.
type fakeTransport struct {
	ethVersion    uint
	devp2pVersion uint
	sent          []Frame
	disconnected  error
}

func (t *fakeTransport) Send(peerID string, code uint64, data []byte) error {
	t.sent = append(t.sent, Frame{PeerID: peerID, Code: code, Data: data})
	return nil
}
func (t *fakeTransport) Disconnect(peerID string, reason error) { t.disconnected = reason }
func (t *fakeTransport) ProtocolVersion() uint                  { return t.ethVersion }
func (t *fakeTransport) DevP2PVersion() uint                    { return t.devp2pVersion }

type fakeChainReader struct {
	networkID uint64
	genesis   common.Hash
	head      *types.Header
	td        *big.Int
	config    *params.ChainConfig
}

func (c *fakeChainReader) NetworkID() uint64            { return c.networkID }
func (c *fakeChainReader) GenesisHash() common.Hash     { return c.genesis }
func (c *fakeChainReader) LatestHeader() *types.Header  { return c.head }
func (c *fakeChainReader) TotalDifficulty() *big.Int    { return c.td }
func (c *fakeChainReader) Config() *params.ChainConfig  { return c.config }

func testChainReader() *fakeChainReader {
	return &fakeChainReader{
		networkID: 1337,
		genesis:   common.HexToHash("0xf00d"),
		head:      &types.Header{Number: big.NewInt(5)},
		td:        big.NewInt(42),
		config:    params.AllCliqueProtocolChanges(big.NewInt(1337), 1, 30000),
	}
}

func statusFrame(t *testing.T, sent []Frame) Frame {
	t.Helper()
	if len(sent) != 1 {
		t.Fatalf("expected exactly one sent frame, got %d", len(sent))
	}
	if sent[0].Code != StatusMsg {
		t.Fatalf("sent frame code = %#x, want StatusMsg", sent[0].Code)
	}
	return Frame{PeerID: sent[0].PeerID, Code: sent[0].Code, Data: sent[0].Data}
}

func TestSendStatusHandleStatusRoundTrip(t *testing.T) {
	tr := &fakeTransport{ethVersion: ETH66, devp2pVersion: snappyVersion}
	chain := testChainReader()
	p := NewPeer("peerA", ETH66, tr, log.New())

	if err := sendStatus(p, chain); err != nil {
		t.Fatalf("sendStatus failed: %v", err)
	}
	frame := statusFrame(t, tr.sent)

	remote := NewPeer("peerB", ETH66, tr, log.New())
	if err := handleStatus(remote, chain, frame); err != nil {
		t.Fatalf("handleStatus rejected our own status: %v", err)
	}
	if !remote.Established() {
		t.Errorf("peer should be established after a matching status")
	}
}

func TestHandleStatusRejectsSecondCall(t *testing.T) {
	tr := &fakeTransport{ethVersion: ETH66, devp2pVersion: snappyVersion}
	chain := testChainReader()
	p := NewPeer("peerA", ETH66, tr, log.New())
	sendStatus(p, chain)
	frame := statusFrame(t, tr.sent)

	remote := NewPeer("peerB", ETH66, tr, log.New())
	if err := handleStatus(remote, chain, frame); err != nil {
		t.Fatalf("first handleStatus failed: %v", err)
	}
	if err := handleStatus(remote, chain, frame); !errors.Is(err, ErrUncontrolledStatus) {
		t.Fatalf("second handleStatus = %v, want ErrUncontrolledStatus", err)
	}
}

func TestHandleStatusRejectsMismatchedFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*StatusPacket)
	}{
		{"protocol version", func(s *StatusPacket) { s.ProtocolVersion = ETH65 }},
		{"network id", func(s *StatusPacket) { s.NetworkID++ }},
		{"genesis", func(s *StatusPacket) { s.Genesis = common.HexToHash("0xbad") }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chain := testChainReader()
			status := &StatusPacket{
				ProtocolVersion: ETH66,
				NetworkID:       chain.NetworkID(),
				TD:              chain.TotalDifficulty(),
				Head:            chain.LatestHeader().Hash(),
				Genesis:         chain.GenesisHash(),
				ForkID:          NewID(chain.Config(), chain.GenesisHash(), chain.LatestHeader().NumberU64()),
			}
			tc.mutate(status)
			data, err := rlp.EncodeToBytes(status)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}

			tr := &fakeTransport{ethVersion: ETH66, devp2pVersion: snappyVersion}
			p := NewPeer("peerB", ETH66, tr, log.New())
			err = handleStatus(p, chain, Frame{Data: encodePayload(p, data)})
			if !errors.Is(err, ErrStatusMismatch) {
				t.Fatalf("handleStatus error = %v, want ErrStatusMismatch", err)
			}
		})
	}
}

func TestHandleStatusRejectsForkIDMismatch(t *testing.T) {
	chain := testChainReader()
	status := &StatusPacket{
		ProtocolVersion: ETH66,
		NetworkID:       chain.NetworkID(),
		TD:              chain.TotalDifficulty(),
		Head:            chain.LatestHeader().Hash(),
		Genesis:         chain.GenesisHash(),
		ForkID:          ID{Hash: [4]byte{0xde, 0xad, 0xbe, 0xef}, Next: 0},
	}
	data, err := rlp.EncodeToBytes(status)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	tr := &fakeTransport{ethVersion: ETH66, devp2pVersion: snappyVersion}
	p := NewPeer("peerB", ETH66, tr, log.New())
	err = handleStatus(p, chain, Frame{Data: encodePayload(p, data)})
	if !errors.Is(err, ErrForkIDRejected) {
		t.Fatalf("handleStatus error = %v, want ErrForkIDRejected", err)
	}
}

func TestHandleStatusSkipsForkIDBelowETH64(t *testing.T) {
	chain := testChainReader()
	status := &StatusPacket{
		ProtocolVersion: ETH63,
		NetworkID:       chain.NetworkID(),
		TD:              chain.TotalDifficulty(),
		Head:            chain.LatestHeader().Hash(),
		Genesis:         chain.GenesisHash(),
		// deliberately garbage; must not be consulted below ETH64
		ForkID: ID{Hash: [4]byte{0xff, 0xff, 0xff, 0xff}, Next: 0},
	}
	data, err := rlp.EncodeToBytes(status)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	tr := &fakeTransport{ethVersion: ETH63, devp2pVersion: 4}
	p := NewPeer("peerB", ETH63, tr, log.New())
	if err := handleStatus(p, chain, Frame{Data: data}); err != nil {
		t.Fatalf("handleStatus should ignore fork id below eth/64: %v", err)
	}
}

func TestAllowedForVersionGatesByProtocolVersion(t *testing.T) {
	tests := []struct {
		version uint
		code    uint64
		want    bool
	}{
		{ETH62, StatusMsg, true},
		{ETH62, TransactionsMsg, true},
		{ETH62, GetNodeDataMsg, false}, // introduced in eth/63
		{ETH63, GetNodeDataMsg, true},
		{ETH64, NewPooledTransactionHashesMsg, false}, // introduced in eth/65
		{ETH65, NewPooledTransactionHashesMsg, true},
		{ETH66, NewPooledTransactionHashesMsg, true},
		{ETH62, 0x99, false}, // unknown code
	}
	for _, tc := range tests {
		if got := allowedForVersion(tc.version, tc.code); got != tc.want {
			t.Errorf("allowedForVersion(%d, %#x) = %v, want %v", tc.version, tc.code, got, tc.want)
		}
	}
}

func TestRequiresReqIDOnlyFromETH66(t *testing.T) {
	if requiresReqID(ETH65) {
		t.Errorf("eth/65 should not require a reqId")
	}
	if !requiresReqID(ETH66) {
		t.Errorf("eth/66 should require a reqId")
	}
}
