// Copyright 2017 The go-ethereum Authors
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

package clique

import (
	"math/big"
	"testing"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/core/types"
	"github.com/clevermacaw/ethcore/params"
)

func testSigners() []common.Address {
	return []common.Address{
		common.HexToAddress("0x1000000000000000000000000000000000000001"),
		common.HexToAddress("0x2000000000000000000000000000000000000002"),
		common.HexToAddress("0x3000000000000000000000000000000000000003"),
	}
}

func TestInTurnCyclesThroughSortedSigners(t *testing.T) {
	signers := testSigners() // already in ascending address order
	c := New(&params.CliqueConfig{Period: 1, Epoch: 30000}, signers)

	sorted := c.ActiveSigners()
	if len(sorted) != 3 {
		t.Fatalf("got %d active signers, want 3", len(sorted))
	}

	for i, addr := range sorted {
		number := uint64(i)
		if !c.InTurn(number, addr) {
			t.Errorf("signer %d (%x) should be in-turn at block %d", i, addr, number)
		}
		for j, other := range sorted {
			if j == i {
				continue
			}
			if c.InTurn(number, other) {
				t.Errorf("signer %d (%x) should not be in-turn at block %d", j, other, number)
			}
		}
	}

	// The cycle wraps: block `len(signers)` is in-turn for the same signer as block 0.
	if !c.InTurn(uint64(len(sorted)), sorted[0]) {
		t.Errorf("turn order should wrap around after a full cycle")
	}
}

func TestCheckRecentlySignedSlidesWithLockoutWindow(t *testing.T) {
	signers := testSigners()
	c := New(&params.CliqueConfig{Period: 1, Epoch: 30000}, signers)
	limit := uint64(len(signers)/2 + 1) // 2

	c.Advance(&types.Header{Number: big.NewInt(1)}, signers[0])
	if !c.CheckRecentlySigned(signers[0]) {
		t.Fatalf("signer should be locked out immediately after signing")
	}

	c.Advance(&types.Header{Number: big.NewInt(2)}, signers[1])
	if !c.CheckRecentlySigned(signers[0]) {
		t.Fatalf("signer should still be locked out within the window")
	}

	// Advancing `limit` blocks further should slide the window past block 1.
	c.Advance(&types.Header{Number: big.NewInt(1 + limit)}, signers[2])
	if c.CheckRecentlySigned(signers[0]) {
		t.Errorf("signer should no longer be locked out once the window has slid past its block")
	}
}

func TestDifficultyReflectsTurn(t *testing.T) {
	if Difficulty(true).Cmp(InTurnDifficulty) != 0 {
		t.Errorf("in-turn difficulty = %v, want %v", Difficulty(true), InTurnDifficulty)
	}
	if Difficulty(false).Cmp(OutOfTurnDifficulty) != 0 {
		t.Errorf("out-of-turn difficulty = %v, want %v", Difficulty(false), OutOfTurnDifficulty)
	}
}

func TestSealHashExcludesSeal(t *testing.T) {
	header := &types.Header{
		Number:     big.NewInt(1),
		Difficulty: big.NewInt(2),
		Extra:      make([]byte, ExtraVanity+ExtraSeal),
	}
	unsealed := SealHash(header)

	sealed := types.CopyHeader(header)
	copy(sealed.Extra[len(sealed.Extra)-ExtraSeal:], []byte("some-signature-bytes-padded-out"))
	if got := SealHash(sealed); got != unsealed {
		t.Errorf("SealHash should ignore the trailing seal bytes, got %x want %x", got, unsealed)
	}
}
