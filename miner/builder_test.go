// Copyright 2020 The go-ethereum Authors
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
	"errors"
	"math/big"
	"testing"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/consensus/clique"
	"github.com/clevermacaw/ethcore/core/chain"
	"github.com/clevermacaw/ethcore/core/types"
	"github.com/clevermacaw/ethcore/params"
)

// testVM/testSnapshot are the minimal chain.VM/chain.VmSnapshot doubles the
// builder needs: a nonce/balance/gas-cost ledger with no real trie behind it.
type testVM struct {
	nonces   map[common.Address]uint64
	balances map[common.Address]*big.Int
	txGas    uint64
	failWith error
}

func newTestVM() *testVM {
	return &testVM{
		nonces:   make(map[common.Address]uint64),
		balances: make(map[common.Address]*big.Int),
		txGas:    21000,
	}
}

func (vm *testVM) Copy() chain.VmSnapshot { return &testSnapshot{vm: vm} }

type testSnapshot struct {
	vm   *testVM
	root common.Hash
}

func (s *testSnapshot) SetStateRoot(root common.Hash) { s.root = root }

func (s *testSnapshot) GenerateCanonicalGenesis(alloc params.GenesisAlloc) {
	for addr, acc := range alloc {
		s.vm.balances[addr] = new(big.Int).Set(acc.Balance)
		s.vm.nonces[addr] = acc.Nonce
	}
}

func (s *testSnapshot) GetNonce(addr common.Address) uint64 { return s.vm.nonces[addr] }

func (s *testSnapshot) GetBalance(addr common.Address) *big.Int {
	if b, ok := s.vm.balances[addr]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (s *testSnapshot) ApplyTransaction(tx *types.Transaction, header *types.Header) (uint64, error) {
	if s.vm.failWith != nil {
		return 0, s.vm.failWith
	}
	s.vm.nonces[header.Coinbase]++ // arbitrary state mutation so callers can observe execution happened
	return s.vm.txGas, nil
}

func (s *testSnapshot) StateRoot() common.Hash { return s.root }

func testParent(number int64) *types.Block {
	return types.NewBlockWithHeader(&types.Header{
		Number:     big.NewInt(number),
		Difficulty: big.NewInt(2),
		GasLimit:   1_000_000,
		Root:       common.HexToHash("0xaa"),
	}).WithBody(nil)
}

func testCoinbase() common.Address {
	return common.HexToAddress("0x1000000000000000000000000000000000000001")
}

func testTx(nonce uint64, gas uint64) *types.Transaction {
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		Gas:      gas,
		GasPrice: big.NewInt(1),
		Value:    big.NewInt(0),
	})
}

func TestBuilderAddTransactionExhaustsGasPool(t *testing.T) {
	vm := newTestVM()
	parent := testParent(1)
	builder := Open(parent, vm, HeaderOptions{
		Number: big.NewInt(2), Difficulty: big.NewInt(2), GasLimit: 50000, Coinbase: testCoinbase(),
	}, nil, nil)

	if err := builder.AddTransaction(testTx(0, 21000)); err != nil {
		t.Fatalf("first transaction should fit: %v", err)
	}
	if err := builder.AddTransaction(testTx(1, 21000)); err != nil {
		t.Fatalf("second transaction should fit: %v", err)
	}
	if err := builder.AddTransaction(testTx(2, 21000)); !errors.Is(err, ErrGasLimitExceeded) {
		t.Fatalf("third transaction should exceed remaining gas, got %v", err)
	}
	if !builder.Full() {
		t.Errorf("builder should report full once remaining gas drops below minTxGas")
	}
}

func TestBuilderAddTransactionRejectsLowFeeCap(t *testing.T) {
	vm := newTestVM()
	parent := testParent(1)
	builder := Open(parent, vm, HeaderOptions{
		Number: big.NewInt(2), Difficulty: big.NewInt(2), GasLimit: 100000,
		BaseFee: big.NewInt(100), Coinbase: testCoinbase(),
	}, nil, nil)

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   big.NewInt(1),
		Nonce:     0,
		Gas:       21000,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(50), // below the block's base fee of 100
	})
	if err := builder.AddTransaction(tx); !errors.Is(err, ErrBaseFeeTooLow) {
		t.Fatalf("expected ErrBaseFeeTooLow, got %v", err)
	}
}

func TestBuilderBuildSealsUnderClique(t *testing.T) {
	vm := newTestVM()
	parent := testParent(1)
	signer := testCoinbase()
	var signCalls int
	cq := &CliqueOptions{
		Signer: signer,
		SignFunc: func(sealHash common.Hash) ([]byte, error) {
			signCalls++
			sig := make([]byte, clique.ExtraSeal)
			copy(sig, sealHash[:])
			return sig, nil
		},
		InTurn: true,
	}
	builder := Open(parent, vm, HeaderOptions{
		Number: big.NewInt(2), Difficulty: big.NewInt(2), GasLimit: 100000, Coinbase: signer,
	}, cq, nil)

	block, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if signCalls != 1 {
		t.Fatalf("SignFunc called %d times, want 1", signCalls)
	}
	seal := block.Header().Extra[len(block.Header().Extra)-clique.ExtraSeal:]
	var allZero = true
	for _, b := range seal {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Errorf("sealed header's seal bytes should not be all zero")
	}
}

func TestBuilderDiscardRejectsFurtherUse(t *testing.T) {
	vm := newTestVM()
	builder := Open(testParent(1), vm, HeaderOptions{
		Number: big.NewInt(2), Difficulty: big.NewInt(2), GasLimit: 100000, Coinbase: testCoinbase(),
	}, nil, nil)
	builder.Discard()

	if err := builder.AddTransaction(testTx(0, 21000)); err == nil {
		t.Errorf("AddTransaction should fail on a discarded builder")
	}
	if _, err := builder.Build(); err == nil {
		t.Errorf("Build should fail on a discarded builder")
	}
}

func TestBuilderOpenAppliesGenesisAllocOnlyAtBlockZero(t *testing.T) {
	vm := newTestVM()
	alloc := func() params.GenesisAlloc {
		return params.GenesisAlloc{testCoinbase(): {Balance: big.NewInt(1000)}}
	}

	genesis := testParent(0)
	builder := Open(genesis, vm, HeaderOptions{
		Number: big.NewInt(1), Difficulty: big.NewInt(1), GasLimit: 100000, Coinbase: testCoinbase(),
	}, nil, alloc)
	if got := builder.snap.GetBalance(testCoinbase()); got.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("genesis alloc should have applied, got balance %v", got)
	}

	// Reset the shared vm's balance so that a balance in builder2's state can
	// only come from GenerateCanonicalGenesis, which must not be invoked
	// again at a non-zero parent.
	vm.balances[testCoinbase()] = big.NewInt(0)
	nonGenesisParent := testParent(1)
	builder2 := Open(nonGenesisParent, vm, HeaderOptions{
		Number: big.NewInt(2), Difficulty: big.NewInt(1), GasLimit: 100000, Coinbase: testCoinbase(),
	}, nil, alloc)
	if got := builder2.snap.GetBalance(testCoinbase()); got.Sign() != 0 {
		t.Errorf("genesis alloc should not apply at a non-zero parent, got balance %v", got)
	}
}
