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
	"sync"
	"time"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/core/txpool"
	"github.com/clevermacaw/ethcore/core/types"
	"github.com/clevermacaw/ethcore/log"
	"github.com/clevermacaw/ethcore/rlp"
)

// Backend is the set of local collaborators the handler dispatches inbound
// messages against: the chain facade for header/body/status lookups and
// the transaction pool for TRANSACTIONS/POOLED_TRANSACTIONS traffic (§4.B,
// §4.D).
type Backend interface {
	ChainReader
	GetHeaders(origin HashOrNumber, amount, skip uint64, reverse bool) []*types.Header
	GetBodies(hashes []common.Hash) []*BlockBody
	GetReceipts(hashes []common.Hash) [][]*types.Receipt
	HandleTransactions(txs []*types.Transaction, from string)
}

// Handler owns the live peer set and dispatches inbound frames to the right
// per-code logic, enforcing version gating (§4.B) before anything else runs.
type Handler struct {
	backend Backend
	pool    *txpool.Pool
	log     log.Logger

	mu    sync.RWMutex
	peers map[string]*Peer
}

func NewHandler(backend Backend, pool *txpool.Pool, logger log.Logger) *Handler {
	return &Handler{
		backend: backend,
		pool:    pool,
		log:     logger,
		peers:   make(map[string]*Peer),
	}
}

// RegisterPeer performs the STATUS handshake on a freshly connected
// transport and, on success, adds it to the live peer set (§4.B steps 1-5).
func (h *Handler) RegisterPeer(id string, rw RLPxTransport, receive func() (Frame, error)) error {
	p := NewPeer(id, rw.ProtocolVersion(), rw, h.log)

	if err := sendStatus(p, h.backend); err != nil {
		return err
	}

	type result struct {
		frame Frame
		err   error
	}
	done := make(chan result, 1)
	go func() {
		frame, err := receive()
		done <- result{frame, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return r.err
		}
		if r.frame.Code != StatusMsg {
			return fmt.Errorf("%w: expected status, got code %#x", ErrDecode, r.frame.Code)
		}
		if err := handleStatus(p, h.backend, r.frame); err != nil {
			return err
		}
	case <-time.After(statusTimeout):
		meters.get(true).timeoutError.Mark(1)
		return ErrStatusTimeout
	}

	h.mu.Lock()
	h.peers[id] = p
	h.mu.Unlock()
	return nil
}

// UnregisterPeer removes a disconnected peer from the live set.
func (h *Handler) UnregisterPeer(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.peers, id)
}

func (h *Handler) peer(id string) *Peer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.peers[id]
}

// HandleFrame dispatches one already-decompressed inbound frame from an
// established peer, per the message registry in §4.C.
func (h *Handler) HandleFrame(peerID string, frame Frame) error {
	p := h.peer(peerID)
	if p == nil {
		return fmt.Errorf("frame from unregistered peer %q", peerID)
	}
	if !p.Established() {
		return ErrUncontrolledStatus
	}
	if !allowedForVersion(p.version, frame.Code) {
		// An inbound code the negotiated version doesn't carry is a peer
		// quirk, not a session-ending fault: drop the frame and keep going
		// (§7 scenario 6). The send path still refuses via allowedForVersion
		// before anything reaches the wire.
		return nil
	}
	payload, err := decodePayload(p, frame.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	frame.Data = payload

	switch frame.Code {
	case StatusMsg:
		return ErrUncontrolledStatus

	case GetBlockHeadersMsg:
		return h.handleGetBlockHeaders(p, frame)

	case BlockHeadersMsg:
		return h.handleBlockHeaders(p, frame)

	case GetBlockBodiesMsg:
		return h.handleGetBlockBodies(p, frame)

	case BlockBodiesMsg:
		return nil // response bodies are consumed by the requester's own callback, not routed here

	case NewBlockHashesMsg:
		var ann NewBlockHashesPacket
		if err := rlp.DecodeBytes(frame.Data, &ann); err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		for _, a := range ann {
			p.knownTxs.Add(a.Hash) // reuse the FIFO cache for block-hash dedup too
		}
		return nil

	case NewBlockMsg:
		var packet NewBlockPacket
		if err := rlp.DecodeBytes(frame.Data, &packet); err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		p.mu.Lock()
		p.head = packet.Block.Hash()
		p.td = packet.TD
		p.mu.Unlock()
		h.pool.RemoveNewBlockTxs(packet.Block)
		return nil

	case TransactionsMsg:
		var txs TransactionsPacket
		if err := rlp.DecodeBytes(frame.Data, &txs); err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		for _, tx := range txs {
			p.MarkTx(tx.Hash())
		}
		h.backend.HandleTransactions(txs, peerID)
		return nil

	case NewPooledTransactionHashesMsg:
		var hashes NewPooledTransactionHashesPacket
		if err := rlp.DecodeBytes(frame.Data, &hashes); err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		for _, hash := range hashes {
			p.MarkTx(hash)
		}
		unknown := h.pool.AddToKnownByPeer(hashes, peerID)
		if len(unknown) == 0 {
			return nil
		}
		var (
			data []byte
			err  error
		)
		if requiresReqID(p.version) {
			data, err = rlp.EncodeToBytes(&GetPooledTransactionsPacket66{
				RequestId:                    p.nextRequestID(),
				GetPooledTransactionsPacket: unknown,
			})
		} else {
			data, err = rlp.EncodeToBytes(GetPooledTransactionsPacket(unknown))
		}
		if err != nil {
			return err
		}
		return p.rw.Send(peerID, GetPooledTransactionsMsg, encodePayload(p, data))

	case GetPooledTransactionsMsg:
		var (
			hashes    GetPooledTransactionsPacket
			requestId uint64
		)
		if requiresReqID(p.version) {
			var req GetPooledTransactionsPacket66
			if err := rlp.DecodeBytes(frame.Data, &req); err != nil {
				return fmt.Errorf("%w: %v", ErrDecode, err)
			}
			requestId, hashes = req.RequestId, req.GetPooledTransactionsPacket
		} else {
			if err := rlp.DecodeBytes(frame.Data, &hashes); err != nil {
				return fmt.Errorf("%w: %v", ErrDecode, err)
			}
		}
		var txs []*types.Transaction
		for _, hash := range hashes {
			if tx := h.pool.GetByHash(hash); tx != nil {
				txs = append(txs, tx)
			}
		}
		var (
			data []byte
			err  error
		)
		if requiresReqID(p.version) {
			data, err = rlp.EncodeToBytes(&PooledTransactionsPacket66{RequestId: requestId, PooledTransactionsPacket: txs})
		} else {
			data, err = rlp.EncodeToBytes(PooledTransactionsPacket(txs))
		}
		if err != nil {
			return err
		}
		return p.rw.Send(peerID, PooledTransactionsMsg, encodePayload(p, data))

	case PooledTransactionsMsg:
		var txs PooledTransactionsPacket
		if requiresReqID(p.version) {
			var resp PooledTransactionsPacket66
			if err := rlp.DecodeBytes(frame.Data, &resp); err != nil {
				return fmt.Errorf("%w: %v", ErrDecode, err)
			}
			if !p.fulfillRequestID(resp.RequestId) {
				return nil // unsolicited or duplicate response, drop it
			}
			txs = resp.PooledTransactionsPacket
		} else {
			if err := rlp.DecodeBytes(frame.Data, &txs); err != nil {
				return fmt.Errorf("%w: %v", ErrDecode, err)
			}
		}
		h.backend.HandleTransactions(txs, peerID)
		return nil

	case GetReceiptsMsg:
		var (
			hashes    GetReceiptsPacket
			requestId uint64
		)
		if requiresReqID(p.version) {
			var req GetReceiptsPacket66
			if err := rlp.DecodeBytes(frame.Data, &req); err != nil {
				return fmt.Errorf("%w: %v", ErrDecode, err)
			}
			requestId, hashes = req.RequestId, req.GetReceiptsPacket
		} else {
			if err := rlp.DecodeBytes(frame.Data, &hashes); err != nil {
				return fmt.Errorf("%w: %v", ErrDecode, err)
			}
		}
		receipts := h.backend.GetReceipts(hashes)
		var (
			data []byte
			err  error
		)
		if requiresReqID(p.version) {
			data, err = rlp.EncodeToBytes(&ReceiptsPacket66{RequestId: requestId, ReceiptsPacket: receipts})
		} else {
			data, err = rlp.EncodeToBytes(ReceiptsPacket(receipts))
		}
		if err != nil {
			return err
		}
		return p.rw.Send(peerID, ReceiptsMsg, encodePayload(p, data))

	case ReceiptsMsg:
		return nil // consumed by the original requester, not routed here

	case GetNodeDataMsg, NodeDataMsg:
		return nil // state-sync payloads; no VM/trie state is served by this module (§6)

	default:
		return fmt.Errorf("%w: code %#x", ErrCodeNotAllowed, frame.Code)
	}
}

func (h *Handler) handleGetBlockHeaders(p *Peer, frame Frame) error {
	var (
		req       *GetBlockHeadersRequest
		requestId uint64
	)
	if requiresReqID(p.version) {
		var packet GetBlockHeadersPacket66
		if err := rlp.DecodeBytes(frame.Data, &packet); err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		requestId, req = packet.RequestId, packet.GetBlockHeadersRequest
	} else {
		req = new(GetBlockHeadersRequest)
		if err := rlp.DecodeBytes(frame.Data, req); err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
	}
	clampHeaderRequest(req)
	headers := h.backend.GetHeaders(req.Origin, req.Amount, req.Skip, req.Reverse)

	var (
		data []byte
		err  error
	)
	if requiresReqID(p.version) {
		data, err = rlp.EncodeToBytes(&BlockHeadersPacket66{RequestId: requestId, BlockHeadersPacket: headers})
	} else {
		data, err = rlp.EncodeToBytes(BlockHeadersPacket(headers))
	}
	if err != nil {
		return err
	}
	return p.rw.Send(p.id, BlockHeadersMsg, encodePayload(p, data))
}

func (h *Handler) handleBlockHeaders(p *Peer, frame Frame) error {
	if requiresReqID(p.version) {
		var resp BlockHeadersPacket66
		if err := rlp.DecodeBytes(frame.Data, &resp); err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		if !p.fulfillRequestID(resp.RequestId) {
			return nil // unsolicited or duplicate response, drop it
		}
		return nil // consumed by the original requester's own callback
	}
	var resp BlockHeadersPacket
	if err := rlp.DecodeBytes(frame.Data, &resp); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil // consumed by the original requester's own callback
}

func (h *Handler) handleGetBlockBodies(p *Peer, frame Frame) error {
	var (
		hashes    GetBlockBodiesPacket
		requestId uint64
	)
	if requiresReqID(p.version) {
		var req GetBlockBodiesPacket66
		if err := rlp.DecodeBytes(frame.Data, &req); err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		requestId, hashes = req.RequestId, req.GetBlockBodiesPacket
	} else {
		if err := rlp.DecodeBytes(frame.Data, &hashes); err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
	}
	bodies := h.backend.GetBodies(hashes)

	var (
		data []byte
		err  error
	)
	if requiresReqID(p.version) {
		data, err = rlp.EncodeToBytes(&BlockBodiesPacket66{RequestId: requestId, BlockBodiesPacket: bodies})
	} else {
		data, err = rlp.EncodeToBytes(BlockBodiesPacket(bodies))
	}
	if err != nil {
		return err
	}
	return p.rw.Send(p.id, BlockBodiesMsg, encodePayload(p, data))
}

// ConnectedPeers implements txpool.Broadcaster.
func (h *Handler) ConnectedPeers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.peers))
	for id := range h.peers {
		ids = append(ids, id)
	}
	return ids
}

// KnowsTx implements txpool.Broadcaster.
func (h *Handler) KnowsTx(peerID string, hash common.Hash) bool {
	p := h.peer(peerID)
	return p != nil && p.KnowsTx(hash)
}

// SendTransactions implements txpool.Broadcaster.
func (h *Handler) SendTransactions(peerID string, txs []*types.Transaction) {
	p := h.peer(peerID)
	if p == nil {
		return
	}
	for _, tx := range txs {
		p.MarkTx(tx.Hash())
	}
	data, err := rlp.EncodeToBytes(TransactionsPacket(txs))
	if err != nil {
		return
	}
	p.rw.Send(peerID, TransactionsMsg, encodePayload(p, data))
}

// AnnounceTransactions implements txpool.Broadcaster.
func (h *Handler) AnnounceTransactions(peerID string, hashes []common.Hash) {
	p := h.peer(peerID)
	if p == nil {
		return
	}
	if !allowedForVersion(p.version, NewPooledTransactionHashesMsg) {
		return // pre-eth/65 peer: no announcement is sent
	}
	for _, hash := range hashes {
		p.MarkTx(hash)
	}
	data, err := rlp.EncodeToBytes(NewPooledTransactionHashesPacket(hashes))
	if err != nil {
		return
	}
	p.rw.Send(peerID, NewPooledTransactionHashesMsg, encodePayload(p, data))
}
