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
	"sync"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/log"
)

// peerState tracks where a session sits in the handshake lifecycle (§3
// "Peer session state").
type peerState int

const (
	stateAwaitingStatus peerState = iota
	stateEstablished
	stateDisconnected
)

// Peer is one connected eth sub-protocol session. Exactly one instance
// exists per RLPx connection with the eth capability negotiated.
type Peer struct {
	id      string
	version uint
	rw      RLPxTransport
	log     log.Logger

	mu     sync.Mutex
	state  peerState
	local  *StatusPacket
	remote *StatusPacket

	head       common.Hash
	td         *big.Int
	nextReqID  uint64
	outstanding map[uint64]struct{}

	knownTxs *knownCache
}

// knownCache is a bounded FIFO set of hashes a peer is known to already
// have, used both for the pool's known-by tracking (§3) and for header/
// block announcement dedup.
type knownCache struct {
	mu    sync.Mutex
	limit int
	order []common.Hash
	set   map[common.Hash]struct{}
}

func newKnownCache(limit int) *knownCache {
	return &knownCache{limit: limit, set: make(map[common.Hash]struct{})}
}

func (c *knownCache) Has(h common.Hash) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.set[h]
	return ok
}

func (c *knownCache) Add(h common.Hash) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.set[h]; ok {
		return
	}
	if len(c.order) >= c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.set, oldest)
	}
	c.order = append(c.order, h)
	c.set[h] = struct{}{}
}

const maxKnownTxs = 32768

func NewPeer(id string, version uint, rw RLPxTransport, logger log.Logger) *Peer {
	return &Peer{
		id:          id,
		version:     version,
		rw:          rw,
		log:         logger.New("peer", id, "version", version),
		state:       stateAwaitingStatus,
		knownTxs:    newKnownCache(maxKnownTxs),
		outstanding: make(map[uint64]struct{}),
	}
}

func (p *Peer) ID() string      { return p.id }
func (p *Peer) Version() uint   { return p.version }
func (p *Peer) Established() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == stateEstablished
}

// nextRequestID returns the next reqId for an outgoing eth66 request and
// records it as outstanding, wrapping to 0 on overflow rather than treating
// it as an error (§4.B "ReqId rules"). A response bearing this id is only
// accepted once, and only if it was actually requested: fulfillRequestID
// rejects responses whose id was never issued or was already consumed,
// stricter than the teacher's un-tracked wrapping counter (§9.2).
func (p *Peer) nextRequestID() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextReqID
	p.nextReqID++
	p.outstanding[id] = struct{}{}
	return id
}

// fulfillRequestID reports whether id was outstanding and, if so, consumes
// it so a duplicate or unsolicited response with the same id is rejected.
func (p *Peer) fulfillRequestID(id uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.outstanding[id]; !ok {
		return false
	}
	delete(p.outstanding, id)
	return true
}

// KnowsTx implements txpool.Broadcaster.
func (p *Peer) KnowsTx(hash common.Hash) bool { return p.knownTxs.Has(hash) }

// MarkTx implements the announce/send side of txpool.Broadcaster.
func (p *Peer) MarkTx(hash common.Hash) { p.knownTxs.Add(hash) }
