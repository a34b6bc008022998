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

// Package miner implements the Clique block-assembly scheduler (§4.G) and
// the block builder it drives (§4.F).
package miner

import (
	"errors"
	"math/big"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/common/mclock"
	"github.com/clevermacaw/ethcore/consensus/clique"
	"github.com/clevermacaw/ethcore/consensus/misc"
	"github.com/clevermacaw/ethcore/core/chain"
	"github.com/clevermacaw/ethcore/core/txpool"
	"github.com/clevermacaw/ethcore/event"
	"github.com/clevermacaw/ethcore/log"
	"github.com/clevermacaw/ethcore/metrics"
	"github.com/clevermacaw/ethcore/params"
)

// DefaultPeriod is the Clique block period used when Config.Period is zero.
const DefaultPeriod = 15 * time.Second

var assembleTimer = metrics.NewRegisteredTimer("miner/assemble", nil)

// Config bundles the fixed inputs to the miner: block period, signer
// identity, and the signing function delegated to an external key-holder
// collaborator (secp256k1 signing is out of scope, matching
// core/types/transaction_signing.go's RecoverFunc rationale).
type Config struct {
	Period   time.Duration
	Signer   common.Address
	SignFunc func(sealHash common.Hash) ([]byte, error)
	Genesis  func() params.GenesisAlloc
}

// Miner is the cooperative scheduler of §4.G: it subscribes to
// chain.ChainUpdated, arms a single timer for the next assembly, and runs
// the 12-step build procedure with a reentrancy guard and a mid-assembly
// interrupt.
type Miner struct {
	cfg    Config
	config *params.ChainConfig
	engine *clique.Clique
	chain  *chain.Chain
	vm     chain.VM
	pool   *txpool.Pool
	clock  mclock.Clock
	mux    *event.TypeMux
	log    log.Logger

	mu         sync.Mutex
	assembling bool
	timer      mclock.Timer
	sub        event.Subscription
	stopC      chan struct{}
	wg         sync.WaitGroup
}

func New(cfg Config, config *params.ChainConfig, engine *clique.Clique, c *chain.Chain, vm chain.VM, pool *txpool.Pool, clock mclock.Clock, mux *event.TypeMux, logger log.Logger) *Miner {
	if cfg.Period == 0 {
		cfg.Period = DefaultPeriod
	}
	return &Miner{
		cfg:    cfg,
		config: config,
		engine: engine,
		chain:  c,
		vm:     vm,
		pool:   pool,
		clock:  clock,
		mux:    mux,
		log:    logger,
	}
}

// Start subscribes to CHAIN_UPDATED and schedules the first assembly (§4.G
// "start()").
func (m *Miner) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopC != nil {
		return
	}
	m.stopC = make(chan struct{})
	m.sub = m.mux.Subscribe(chain.ChainUpdated{})
	m.wg.Add(1)
	go m.loop()
	m.scheduleNextLocked()
}

// Stop cancels any pending timer and unsubscribes (§4.G "stop()").
func (m *Miner) Stop() {
	m.mu.Lock()
	if m.stopC == nil {
		m.mu.Unlock()
		return
	}
	close(m.stopC)
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	sub := m.sub
	m.stopC = nil
	m.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	m.wg.Wait()
}

// loop drains the CHAIN_UPDATED subscription so a block committed by
// another path (e.g. a synced remote block) also reschedules assembly.
func (m *Miner) loop() {
	defer m.wg.Done()
	for {
		select {
		case _, ok := <-m.sub.Chan():
			if !ok {
				return
			}
			m.mu.Lock()
			if !m.assembling {
				m.scheduleNextLocked()
			}
			m.mu.Unlock()
		case <-m.stopC:
			return
		}
	}
}

// scheduleNextLocked arms the timer for the next assembly at
// max(0, latestBlock.timestamp + period - now), with jitter added when the
// signer is out-of-turn (§4.G "Assembly timing"). Caller holds m.mu.
func (m *Miner) scheduleNextLocked() {
	if m.timer != nil {
		m.timer.Stop()
	}
	head := m.chain.LatestBlock()
	nextNumber := head.NumberU64() + 1
	inTurn := m.engine.InTurn(nextNumber, m.cfg.Signer)

	target := time.Duration(head.Time())*time.Second + m.cfg.Period
	elapsed := time.Duration(time.Now().Unix()) * time.Second
	due := target - elapsed
	if due < 0 {
		due = 0
	}
	if !inTurn {
		signers := len(m.engine.ActiveSigners())
		if signers > 0 {
			due += time.Duration(rand.Int63n(int64(signers) * int64(500*time.Millisecond)))
		}
	}
	m.timer = m.clock.AfterFunc(due, m.assemble)
}

// assemble runs the 12-step assembly procedure (§4.G).
func (m *Miner) assemble() {
	defer func(start time.Time) { assembleTimer.UpdateSince(start) }(time.Now())

	m.mu.Lock()
	if m.assembling { // step 1: reentrancy guard
		m.mu.Unlock()
		return
	}
	m.assembling = true
	m.mu.Unlock()

	var interrupt atomic.Bool
	interruptSub := m.mux.Subscribe(chain.ChainUpdated{}) // step 2: one-shot interrupt listener
	go func() {
		if _, ok := <-interruptSub.Chan(); ok {
			interrupt.Store(true)
		}
	}()
	defer func() {
		interruptSub.Unsubscribe()
		m.mu.Lock()
		m.assembling = false
		m.scheduleNextLocked()
		m.mu.Unlock()
	}()

	parent := m.chain.LatestBlock() // step 3
	number := new(big.Int).Add(parent.Number(), big.NewInt(1))
	gasLimit := misc.LondonGasLimit(m.config, parent.GasLimit(), number)

	if m.engine.CheckRecentlySigned(m.cfg.Signer) { // step 4
		m.log.Debug("skipping assembly: recently signed", "number", number)
		return
	}

	inTurn := m.engine.InTurn(number.Uint64(), m.cfg.Signer) // step 6
	difficulty := clique.Difficulty(inTurn)

	var baseFee *big.Int // step 7
	if m.config.LondonBlock != nil && number.Cmp(m.config.LondonBlock) == 0 {
		baseFee = big.NewInt(params.InitialBaseFee)
	} else if m.config.IsLondon(number) {
		baseFee = misc.CalcBaseFee(m.config, parent.Header())
	}

	cq := &CliqueOptions{Signer: m.cfg.Signer, SignFunc: m.cfg.SignFunc, InTurn: inTurn}
	builder := Open(parent, m.vm, HeaderOptions{ // step 5, step 8
		Number:     number,
		Difficulty: difficulty,
		GasLimit:   gasLimit,
		BaseFee:    baseFee,
		Time:       uint64(time.Now().Unix()),
		Coinbase:   m.cfg.Signer,
	}, cq, m.cfg.Genesis)

	pending := m.pool.TxsByPriceAndNonce(builderStateAccess{builder}, baseFee) // step 9

	for _, tx := range pending { // step 10
		if interrupt.Load() {
			builder.Discard()
			m.log.Debug("assembly interrupted", "number", number)
			return // step 12
		}
		if err := builder.AddTransaction(tx); err != nil {
			if errors.Is(err, ErrGasLimitExceeded) && builder.Full() {
				break
			}
			m.log.Trace("skipping transaction", "hash", tx.Hash(), "err", err)
			continue
		}
	}

	if interrupt.Load() {
		builder.Discard()
		return // step 12
	}

	block, err := builder.Build() // step 11
	if err != nil {
		m.log.Warn("block build failed", "number", number, "err", err)
		return
	}
	if err := m.chain.Submit(block); err != nil {
		m.log.Warn("chain submission failed", "number", number, "err", err)
		return
	}
	m.engine.Advance(block.Header(), m.cfg.Signer)
	m.pool.RemoveNewBlockTxs(block)
	m.log.Info("sealed block", "number", number, "hash", block.Hash(), "txs", len(block.Transactions()))
}

// builderStateAccess adapts a live Builder's VM snapshot to
// txpool.StateAccess so eligible transactions resync against the exact
// state the block is being built on.
type builderStateAccess struct{ b *Builder }

func (a builderStateAccess) GetNonce(addr common.Address) uint64 { return a.b.snap.GetNonce(addr) }
