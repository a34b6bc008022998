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

// Package txpool implements a nonce-ordered, price-ordered pending
// transaction pool with known-by-peer tracking (§4.D).
package txpool

import (
	"errors"
	"math/big"
	"sort"
	"sync"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/core/types"
	"github.com/clevermacaw/ethcore/log"
	"github.com/clevermacaw/ethcore/metrics"
)

var (
	ErrAlreadyKnown  = errors.New("already known")
	ErrUnderpriced   = errors.New("transaction underpriced")
	ErrInvalidSender = errors.New("invalid sender")
)

var pooledGauge = metrics.NewRegisteredGauge("txpool/pooled", nil)

// StateAccess exposes just enough of the external state collaborator (§6
// VM.copy().stateManager) for eligibility ordering: the account nonce a
// sender has already confirmed on-chain.
type StateAccess interface {
	GetNonce(addr common.Address) uint64
}

// entry is one pooled transaction plus its per-peer broadcast bookkeeping
// (§3 Transaction pool entry).
type entry struct {
	tx        *types.Transaction
	sender    common.Address
	knownBy   map[string]struct{}
}

// bySender holds every pooled transaction for one account, indexed by
// nonce; at most one entry per nonce (§3 invariant). On a collision the
// higher GasPrice wins (the fee cap, for a dynamic-fee transaction); the
// tip and the block base fee are not considered.
type bySender struct {
	txs map[uint64]*entry
}

func newBySender() *bySender { return &bySender{txs: make(map[uint64]*entry)} }

func (s *bySender) nonces() []uint64 {
	out := make([]uint64, 0, len(s.txs))
	for n := range s.txs {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Pool is the top-level transaction pool: add/remove/removeNewBlockTxs/
// getByHash/txsByPriceAndNonce/markKnownByPeer/addToKnownByPeer (§4.D).
type Pool struct {
	signer types.Signer

	mu      sync.RWMutex
	byHash  map[common.Hash]*entry
	senders map[common.Address]*bySender

	// broadcaster, when set, receives broadcast decisions on add (§4.D broadcast
	// discipline). Nil in tests that only exercise ordering.
	broadcaster Broadcaster
}

// Broadcaster is the eth sub-protocol's outbound fan-out surface, invoked
// by Add to announce or push a newly pooled transaction to peers (§4.D
// "Broadcast discipline").
type Broadcaster interface {
	// ConnectedPeers returns the ids of all currently connected peers.
	ConnectedPeers() []string
	// KnowsTx reports whether peerID has already seen hash.
	KnowsTx(peerID string, hash common.Hash) bool
	// SendTransactions pushes full transaction bodies to peerID.
	SendTransactions(peerID string, txs []*types.Transaction)
	// AnnounceTransactions sends only the hashes to peerID
	// (NEW_POOLED_TRANSACTION_HASHES).
	AnnounceTransactions(peerID string, hashes []common.Hash)
}

func New(signer types.Signer, broadcaster Broadcaster) *Pool {
	return &Pool{
		signer:      signer,
		byHash:      make(map[common.Hash]*entry),
		senders:     make(map[common.Address]*bySender),
		broadcaster: broadcaster,
	}
}

// SetBroadcaster wires the fan-out surface after construction, for callers
// that build the pool and its broadcaster (typically an eth.Handler) with
// a circular dependency on each other.
func (p *Pool) SetBroadcaster(b Broadcaster) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.broadcaster = b
}

// Add inserts tx into the pool. On collision with an existing (sender,
// nonce) pair, tx replaces the pooled transaction only if its GasPrice is
// strictly higher (the fee cap, for a dynamic-fee transaction); the tip and
// the block base fee are not considered, and otherwise ErrUnderpriced is
// returned. A successfully added transaction triggers the broadcast
// discipline.
func (p *Pool) Add(tx *types.Transaction) error {
	sender, err := types.Sender(p.signer, tx)
	if err != nil {
		return ErrInvalidSender
	}

	p.mu.Lock()
	if _, exists := p.byHash[tx.Hash()]; exists {
		p.mu.Unlock()
		return ErrAlreadyKnown
	}
	sset, ok := p.senders[sender]
	if !ok {
		sset = newBySender()
		p.senders[sender] = sset
	}
	if old, exists := sset.txs[tx.Nonce()]; exists {
		if old.tx.GasPrice().Cmp(tx.GasPrice()) >= 0 {
			p.mu.Unlock()
			return ErrUnderpriced
		}
		delete(p.byHash, old.tx.Hash())
		pooledGauge.Dec(1)
	}
	e := &entry{tx: tx, sender: sender, knownBy: make(map[string]struct{})}
	sset.txs[tx.Nonce()] = e
	p.byHash[tx.Hash()] = e
	pooledGauge.Inc(1)
	p.mu.Unlock()

	p.broadcast(e)
	return nil
}

// broadcast implements the §4.D discipline: full bodies to sqrt(unknown
// peers), hash-only announcements to the rest.
func (p *Pool) broadcast(e *entry) {
	if p.broadcaster == nil {
		return
	}
	var unknown []string
	for _, peer := range p.broadcaster.ConnectedPeers() {
		if !p.broadcaster.KnowsTx(peer, e.tx.Hash()) {
			unknown = append(unknown, peer)
		}
	}
	if len(unknown) == 0 {
		return
	}
	fullCount := isqrt(len(unknown))
	full, rest := unknown[:fullCount], unknown[fullCount:]

	p.mu.Lock()
	for _, peer := range full {
		e.knownBy[peer] = struct{}{}
	}
	for _, peer := range rest {
		e.knownBy[peer] = struct{}{}
	}
	p.mu.Unlock()

	for _, peer := range full {
		p.broadcaster.SendTransactions(peer, []*types.Transaction{e.tx})
	}
	for _, peer := range rest {
		p.broadcaster.AnnounceTransactions(peer, []common.Hash{e.tx.Hash()})
	}
}

func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// Remove drops the transaction with the given hash from the pool.
func (p *Pool) Remove(hash common.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.byHash[hash]
	if !ok {
		return
	}
	delete(p.byHash, hash)
	if sset, ok := p.senders[e.sender]; ok {
		delete(sset.txs, e.tx.Nonce())
		if len(sset.txs) == 0 {
			delete(p.senders, e.sender)
		}
	}
	pooledGauge.Dec(1)
}

// RemoveNewBlockTxs removes every transaction included in a newly-sealed or
// newly-received block, called by the miner after a successful build and
// by the eth handler on NEW_BLOCK (§4.D removeNewBlockTxs).
func (p *Pool) RemoveNewBlockTxs(block *types.Block) {
	for _, tx := range block.Transactions() {
		p.Remove(tx.Hash())
	}
}

// GetByHash returns the pooled transaction with the given hash, or nil.
func (p *Pool) GetByHash(hash common.Hash) *types.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if e, ok := p.byHash[hash]; ok {
		return e.tx
	}
	return nil
}

// MarkKnownByPeer records that peerID is now known to have every listed
// hash, without sending anything (used when receiving announcements from
// that peer).
func (p *Pool) MarkKnownByPeer(hashes []common.Hash, peerID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, h := range hashes {
		if e, ok := p.byHash[h]; ok {
			e.knownBy[peerID] = struct{}{}
		}
	}
}

// AddToKnownByPeer records peerID as knowing every listed hash and returns
// the subset peerID did not already know, for the caller to react to (e.g.
// requesting pooled bodies for that subset).
func (p *Pool) AddToKnownByPeer(hashes []common.Hash, peerID string) []common.Hash {
	p.mu.Lock()
	defer p.mu.Unlock()
	var unknown []common.Hash
	for _, h := range hashes {
		e, ok := p.byHash[h]
		if !ok {
			unknown = append(unknown, h)
			continue
		}
		if _, known := e.knownBy[peerID]; !known {
			unknown = append(unknown, h)
		}
		e.knownBy[peerID] = struct{}{}
	}
	return unknown
}

// Len reports how many transactions are currently pooled.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byHash)
}

// TxsByPriceAndNonce yields eligible transactions in the block-assembly
// order defined by §4.D: transactions whose maxFeePerGas is below baseFee
// are excluded; among the rest, the sender's lowest unconsumed nonce is
// always emitted first, and across senders the head of each per-sender
// queue competes on effective gas price.
func (p *Pool) TxsByPriceAndNonce(state StateAccess, baseFee *big.Int) []*types.Transaction {
	p.mu.RLock()
	heads := make(map[common.Address][]*types.Transaction, len(p.senders))
	for sender, sset := range p.senders {
		var list []*types.Transaction
		for _, nonce := range sset.nonces() {
			list = append(list, sset.txs[nonce].tx)
		}
		if len(list) > 0 {
			heads[sender] = list
		}
	}
	p.mu.RUnlock()

	byPrice := newPriceHeap()
	consumed := make(map[common.Address]int)
	queues := make(map[common.Address][]*types.Transaction)
	for sender, list := range heads {
		queues[sender] = list
		expected := state.GetNonce(sender)
		idx := indexOfNonce(list, expected)
		if idx < 0 {
			continue // no transaction resynchronizes with the account nonce yet
		}
		consumed[sender] = idx
		if tip, err := list[idx].EffectiveGasTip(baseFee); err == nil {
			byPrice.push(&priceItem{sender: sender, tx: list[idx], tip: tip})
		}
	}

	var out []*types.Transaction
	for byPrice.Len() > 0 {
		top := byPrice.pop()
		out = append(out, top.tx)

		list := queues[top.sender]
		next := consumed[top.sender] + 1
		if next < len(list) && list[next].Nonce() == top.tx.Nonce()+1 {
			consumed[top.sender] = next
			if tip, err := list[next].EffectiveGasTip(baseFee); err == nil {
				byPrice.push(&priceItem{sender: top.sender, tx: list[next], tip: tip})
			}
		}
	}
	return out
}

func indexOfNonce(list []*types.Transaction, nonce uint64) int {
	for i, tx := range list {
		if tx.Nonce() == nonce {
			return i
		}
	}
	return -1
}

// LogState logs a summary of the pool at debug level, for diagnostics.
func (p *Pool) LogState(logger log.Logger) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	logger.Debug("txpool state", "count", len(p.byHash), "senders", len(p.senders))
}
