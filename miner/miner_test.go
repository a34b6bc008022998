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

package miner

import (
	"math/big"
	"testing"
	"time"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/common/mclock"
	"github.com/clevermacaw/ethcore/consensus/clique"
	"github.com/clevermacaw/ethcore/core/chain"
	"github.com/clevermacaw/ethcore/core/txpool"
	"github.com/clevermacaw/ethcore/core/types"
	"github.com/clevermacaw/ethcore/event"
	"github.com/clevermacaw/ethcore/log"
	"github.com/clevermacaw/ethcore/params"
)

type testStore struct {
	engine *clique.Clique
}

func (s *testStore) PutBlock(*types.Block) error { return nil }
func (s *testStore) CliqueSignerInTurn(addr common.Address) bool {
	return s.engine.InTurn(0, addr)
}
func (s *testStore) CliqueActiveSigners() []common.Address        { return s.engine.ActiveSigners() }
func (s *testStore) CliqueCheckRecentlySigned(h *types.Header) bool { return s.engine.CheckRecentlySigned(h.Coinbase) }

func newTestMiner(t *testing.T) (*Miner, *mclock.Simulated) {
	t.Helper()
	signer := testCoinbase()
	config := params.AllCliqueProtocolChanges(big.NewInt(1337), 1, 30000)
	engine := clique.New(config.Clique, []common.Address{signer})

	genesis := testParent(0)
	mux := event.NewTypeMux()
	store := &testStore{engine: engine}
	c := chain.New(config, 1337, genesis, store, mux)

	vm := newTestVM()
	pool := txpool.New(types.LatestSignerForChainID(config.ChainID, nil), nil)
	clock := new(mclock.Simulated)

	m := New(Config{
		Period:   time.Second,
		Signer:   signer,
		SignFunc: func(common.Hash) ([]byte, error) { return make([]byte, clique.ExtraSeal), nil },
		Genesis:  func() params.GenesisAlloc { return nil },
	}, config, engine, c, vm, pool, clock, mux, log.New("test", "miner"))
	return m, clock
}

func TestMinerStartSchedulesATimer(t *testing.T) {
	m, clock := newTestMiner(t)
	m.Start()
	defer m.Stop()

	if n := clock.ActiveTimers(); n != 1 {
		t.Fatalf("expected exactly one scheduled timer after Start, got %d", n)
	}
}

func TestMinerAssembleReentrancyGuard(t *testing.T) {
	m, _ := newTestMiner(t)

	m.mu.Lock()
	m.assembling = true
	m.mu.Unlock()

	// assemble should return immediately without touching the chain head,
	// since assembling is already true (the §4.G step 1 reentrancy guard).
	before := m.chain.LatestBlock().Hash()
	m.assemble()
	after := m.chain.LatestBlock().Hash()
	if before != after {
		t.Errorf("assemble should not have run a build while assembling was already true")
	}
}

func TestMinerAssembleProducesAndSubmitsBlock(t *testing.T) {
	m, _ := newTestMiner(t)

	genesisNumber := m.chain.LatestBlock().NumberU64()
	m.assemble()

	if got := m.chain.LatestBlock().NumberU64(); got != genesisNumber+1 {
		t.Fatalf("chain head number = %d, want %d", got, genesisNumber+1)
	}
	m.mu.Lock()
	assembling := m.assembling
	m.mu.Unlock()
	if assembling {
		t.Errorf("assembling flag should be cleared once assemble returns")
	}
}

func TestMinerStopIsIdempotentAndReleasesTimer(t *testing.T) {
	m, clock := newTestMiner(t)
	m.Start()
	m.Stop()
	m.Stop() // must not panic or block on a second call

	if n := clock.ActiveTimers(); n != 0 {
		t.Errorf("expected no scheduled timers after Stop, got %d", n)
	}
}
