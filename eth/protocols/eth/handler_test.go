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
	"math/big"
	"testing"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/core/txpool"
	"github.com/clevermacaw/ethcore/core/types"
	"github.com/clevermacaw/ethcore/log"
	"github.com/clevermacaw/ethcore/rlp"
)

// fakeBackend is the minimal Backend double the handler tests need: a
// chain reader plus an inbox capturing whatever transactions arrive.
type fakeBackend struct {
	*fakeChainReader
	received []*types.Transaction
}

func (b *fakeBackend) GetHeaders(HashOrNumber, uint64, uint64, bool) []*types.Header { return nil }
func (b *fakeBackend) GetBodies([]common.Hash) []*BlockBody                          { return nil }
func (b *fakeBackend) GetReceipts([]common.Hash) [][]*types.Receipt                  { return nil }
func (b *fakeBackend) HandleTransactions(txs []*types.Transaction, from string) {
	b.received = append(b.received, txs...)
}

func establishedPeer(t *testing.T, h *Handler, id string, version uint) (*fakeTransport, chan Frame) {
	t.Helper()
	tr := &fakeTransport{ethVersion: version, devp2pVersion: snappyVersion}
	incoming := make(chan Frame, 1)

	// The remote side's status is produced by sendStatus on a throwaway peer
	// that shares the transport, then pushed into the receive channel,
	// mirroring what a real transport would deliver right after the local
	// Send in RegisterPeer.
	local := NewPeer(id+"-remote", version, tr, log.New())
	chain := h.backend.(*fakeBackend).fakeChainReader
	if err := sendStatus(local, chain); err != nil {
		t.Fatalf("sendStatus failed: %v", err)
	}
	incoming <- Frame{PeerID: id, Code: StatusMsg, Data: tr.sent[len(tr.sent)-1].Data}

	if err := h.RegisterPeer(id, tr, func() (Frame, error) { return <-incoming, nil }); err != nil {
		t.Fatalf("RegisterPeer failed: %v", err)
	}
	return tr, incoming
}

func TestRegisterPeerEstablishesOnMatchingStatus(t *testing.T) {
	backend := &fakeBackend{fakeChainReader: testChainReader()}
	h := NewHandler(backend, txpool.New(types.LatestSignerForChainID(backend.config.ChainID, nil), nil), log.New())

	establishedPeer(t, h, "peer1", ETH66)
	if p := h.peer("peer1"); p == nil || !p.Established() {
		t.Fatalf("expected peer1 to be registered and established")
	}
}

func TestHandleFrameDropsCodeBelowVersion(t *testing.T) {
	backend := &fakeBackend{fakeChainReader: testChainReader()}
	h := NewHandler(backend, txpool.New(types.LatestSignerForChainID(backend.config.ChainID, nil), nil), log.New())
	establishedPeer(t, h, "peer1", ETH62)

	data, err := rlp.EncodeToBytes(GetPooledTransactionsPacket{{}})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	// GetPooledTransactionsMsg requires eth/65+; on an eth/62 session this
	// must be silently dropped, with the session left established, not
	// surfaced as an error (§7 scenario 6).
	if err := h.HandleFrame("peer1", Frame{Code: GetPooledTransactionsMsg, Data: data}); err != nil {
		t.Fatalf("HandleFrame error = %v, want nil (silent drop)", err)
	}
	if p := h.peer("peer1"); p == nil || !p.Established() {
		t.Fatalf("expected peer1 to remain established after a dropped frame")
	}
}

func TestHandleFrameRejectsUnestablishedPeer(t *testing.T) {
	backend := &fakeBackend{fakeChainReader: testChainReader()}
	h := NewHandler(backend, txpool.New(types.LatestSignerForChainID(backend.config.ChainID, nil), nil), log.New())

	err := h.HandleFrame("ghost", Frame{Code: TransactionsMsg})
	if err == nil {
		t.Fatalf("expected an error for a frame from an unregistered peer")
	}
}

func TestHandleFrameDispatchesTransactions(t *testing.T) {
	backend := &fakeBackend{fakeChainReader: testChainReader()}
	pool := txpool.New(types.LatestSignerForChainID(backend.config.ChainID, nil), nil)
	h := NewHandler(backend, pool, log.New())
	establishedPeer(t, h, "peer1", ETH66)

	tx := types.NewTx(&types.LegacyTx{Nonce: 0, Gas: 21000, GasPrice: big.NewInt(1), Value: big.NewInt(0)})
	packet := TransactionsPacket{tx}
	data, err := rlp.EncodeToBytes(packet)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	if err := h.HandleFrame("peer1", Frame{Code: TransactionsMsg, Data: encodePayload(h.peer("peer1"), data)}); err != nil {
		t.Fatalf("HandleFrame failed: %v", err)
	}
	if len(backend.received) != 1 || backend.received[0].Hash() != tx.Hash() {
		t.Fatalf("expected the transaction to reach the backend, got %d", len(backend.received))
	}
	if !h.peer("peer1").KnowsTx(tx.Hash()) {
		t.Errorf("peer should be marked as knowing the announced transaction")
	}
}

func TestGetBlockHeadersUsesBareShapeBelowETH66(t *testing.T) {
	backend := &fakeBackend{fakeChainReader: testChainReader()}
	h := NewHandler(backend, txpool.New(types.LatestSignerForChainID(backend.config.ChainID, nil), nil), log.New())
	tr, _ := establishedPeer(t, h, "peer1", ETH65)

	req := &GetBlockHeadersRequest{Origin: HashOrNumber{Number: 1}, Amount: 1}
	data, err := rlp.EncodeToBytes(req)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	p := h.peer("peer1")
	if err := h.HandleFrame("peer1", Frame{Code: GetBlockHeadersMsg, Data: encodePayload(p, data)}); err != nil {
		t.Fatalf("HandleFrame failed: %v", err)
	}

	sent := tr.sent[len(tr.sent)-1]
	if sent.Code != BlockHeadersMsg {
		t.Fatalf("response code = %#x, want BlockHeadersMsg", sent.Code)
	}
	payload, err := decodePayload(p, sent.Data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	var resp BlockHeadersPacket
	if err := rlp.DecodeBytes(payload, &resp); err != nil {
		t.Fatalf("eth/65 response must decode as the bare BlockHeadersPacket, not the reqId-wrapped shape: %v", err)
	}
}

func TestGetBlockHeadersUsesPacket66ShapeAtETH66(t *testing.T) {
	backend := &fakeBackend{fakeChainReader: testChainReader()}
	h := NewHandler(backend, txpool.New(types.LatestSignerForChainID(backend.config.ChainID, nil), nil), log.New())
	tr, _ := establishedPeer(t, h, "peer1", ETH66)

	packet := &GetBlockHeadersPacket66{RequestId: 7, GetBlockHeadersRequest: &GetBlockHeadersRequest{Origin: HashOrNumber{Number: 1}, Amount: 1}}
	data, err := rlp.EncodeToBytes(packet)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	p := h.peer("peer1")
	if err := h.HandleFrame("peer1", Frame{Code: GetBlockHeadersMsg, Data: encodePayload(p, data)}); err != nil {
		t.Fatalf("HandleFrame failed: %v", err)
	}

	sent := tr.sent[len(tr.sent)-1]
	payload, err := decodePayload(p, sent.Data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	var resp BlockHeadersPacket66
	if err := rlp.DecodeBytes(payload, &resp); err != nil {
		t.Fatalf("eth/66 response must decode as the reqId-wrapped Packet66 shape: %v", err)
	}
	if resp.RequestId != 7 {
		t.Errorf("response RequestId = %d, want 7 (echoed from the request)", resp.RequestId)
	}
}

func TestPooledTransactionsRejectsUnsolicitedRequestID(t *testing.T) {
	backend := &fakeBackend{fakeChainReader: testChainReader()}
	pool := txpool.New(types.LatestSignerForChainID(backend.config.ChainID, nil), nil)
	h := NewHandler(backend, pool, log.New())
	establishedPeer(t, h, "peer1", ETH66)
	p := h.peer("peer1")

	// No request for id 42 was ever issued via p.nextRequestID: the
	// response must be dropped, not routed to the backend.
	resp := &PooledTransactionsPacket66{RequestId: 42, PooledTransactionsPacket: nil}
	data, err := rlp.EncodeToBytes(resp)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if err := h.HandleFrame("peer1", Frame{Code: PooledTransactionsMsg, Data: encodePayload(p, data)}); err != nil {
		t.Fatalf("HandleFrame error = %v, want nil (unsolicited response dropped)", err)
	}
}

func TestPooledTransactionsAcceptsOutstandingRequestID(t *testing.T) {
	backend := &fakeBackend{fakeChainReader: testChainReader()}
	pool := txpool.New(types.LatestSignerForChainID(backend.config.ChainID, nil), nil)
	h := NewHandler(backend, pool, log.New())
	establishedPeer(t, h, "peer1", ETH66)
	p := h.peer("peer1")

	id := p.nextRequestID()
	tx := types.NewTx(&types.LegacyTx{Nonce: 0, Gas: 21000, GasPrice: big.NewInt(1), Value: big.NewInt(0)})
	resp := &PooledTransactionsPacket66{RequestId: id, PooledTransactionsPacket: []*types.Transaction{tx}}
	data, err := rlp.EncodeToBytes(resp)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if err := h.HandleFrame("peer1", Frame{Code: PooledTransactionsMsg, Data: encodePayload(p, data)}); err != nil {
		t.Fatalf("HandleFrame failed: %v", err)
	}
	if len(backend.received) != 1 || backend.received[0].Hash() != tx.Hash() {
		t.Fatalf("expected the transaction to reach the backend, got %d", len(backend.received))
	}

	// A second response with the same, now-consumed id must be dropped.
	backend.received = nil
	if err := h.HandleFrame("peer1", Frame{Code: PooledTransactionsMsg, Data: encodePayload(p, data)}); err != nil {
		t.Fatalf("HandleFrame error = %v, want nil (duplicate response dropped)", err)
	}
	if len(backend.received) != 0 {
		t.Fatalf("duplicate response must not reach the backend, got %d", len(backend.received))
	}
}

func TestConnectedPeersReflectsRegistrations(t *testing.T) {
	backend := &fakeBackend{fakeChainReader: testChainReader()}
	h := NewHandler(backend, txpool.New(types.LatestSignerForChainID(backend.config.ChainID, nil), nil), log.New())
	establishedPeer(t, h, "peer1", ETH66)
	establishedPeer(t, h, "peer2", ETH66)

	ids := h.ConnectedPeers()
	if len(ids) != 2 {
		t.Fatalf("expected 2 connected peers, got %d", len(ids))
	}

	h.UnregisterPeer("peer1")
	if ids := h.ConnectedPeers(); len(ids) != 1 {
		t.Fatalf("expected 1 connected peer after unregister, got %d", len(ids))
	}
}
