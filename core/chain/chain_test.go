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

package chain

import (
	"math/big"
	"testing"
	"time"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/core/types"
	"github.com/clevermacaw/ethcore/event"
	"github.com/clevermacaw/ethcore/params"
)

type fakeStore struct {
	putErr error
	blocks []*types.Block
}

func (s *fakeStore) PutBlock(block *types.Block) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.blocks = append(s.blocks, block)
	return nil
}
func (s *fakeStore) CliqueSignerInTurn(common.Address) bool      { return true }
func (s *fakeStore) CliqueActiveSigners() []common.Address       { return nil }
func (s *fakeStore) CliqueCheckRecentlySigned(*types.Header) bool { return false }

func testGenesis() *types.Block {
	return types.NewBlockWithHeader(&types.Header{
		Number:     big.NewInt(0),
		Difficulty: big.NewInt(1),
		Time:       uint64(time.Now().Unix()),
	}).WithBody(nil)
}

func TestSubmitAdvancesHeadAndPostsChainUpdated(t *testing.T) {
	genesis := testGenesis()
	store := &fakeStore{}
	mux := event.NewTypeMux()
	c := New(params.AllCliqueProtocolChanges(big.NewInt(1337), 1, 30000), 1337, genesis, store, mux)

	sub := mux.Subscribe(ChainUpdated{})
	defer sub.Unsubscribe()

	next := types.NewBlockWithHeader(&types.Header{
		Number:     big.NewInt(1),
		Difficulty: big.NewInt(2),
		ParentHash: genesis.Hash(),
	}).WithBody(nil)

	if err := c.Submit(next); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if len(store.blocks) != 1 {
		t.Fatalf("expected block to reach the store, got %d entries", len(store.blocks))
	}
	if got := c.LatestBlock().NumberU64(); got != 1 {
		t.Errorf("head number = %d, want 1", got)
	}
	if got := c.TotalDifficulty(); got.Cmp(big.NewInt(2)) != 0 {
		t.Errorf("total difficulty = %v, want 2", got)
	}

	select {
	case ev := <-sub.Chan():
		update, ok := ev.(ChainUpdated)
		if !ok {
			t.Fatalf("unexpected event type %T", ev)
		}
		if update.Block.Hash() != next.Hash() {
			t.Errorf("ChainUpdated carried the wrong block")
		}
	default:
		t.Fatalf("expected ChainUpdated to be posted synchronously by Submit")
	}
}

func TestSubmitPropagatesStoreError(t *testing.T) {
	genesis := testGenesis()
	store := &fakeStore{putErr: errBoom}
	mux := event.NewTypeMux()
	c := New(params.AllCliqueProtocolChanges(big.NewInt(1337), 1, 30000), 1337, genesis, store, mux)

	if err := c.Submit(genesis); err != errBoom {
		t.Fatalf("Submit error = %v, want %v", err, errBoom)
	}
	if got := c.LatestBlock().NumberU64(); got != 0 {
		t.Errorf("head should not advance on store failure, got number %d", got)
	}
}

func TestHardforkAtUsesConfiguredBlocks(t *testing.T) {
	genesis := testGenesis()
	config := &params.ChainConfig{
		ChainID:        big.NewInt(1337),
		HomesteadBlock: big.NewInt(0),
		LondonBlock:    big.NewInt(10),
	}
	c := New(config, 1337, genesis, &fakeStore{}, event.NewTypeMux())

	if fork := c.HardforkAt(big.NewInt(5), nil); fork != params.Homestead {
		t.Errorf("HardforkAt(5) = %v, want Homestead", fork)
	}
	if fork := c.HardforkAt(big.NewInt(10), nil); fork != params.London {
		t.Errorf("HardforkAt(10) = %v, want London", fork)
	}
}

var errBoom = boomError("boom")

type boomError string

func (e boomError) Error() string { return string(e) }
