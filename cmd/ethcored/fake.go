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

package main

import (
	"errors"
	"math/big"
	"sync"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/consensus/clique"
	"github.com/clevermacaw/ethcore/core/chain"
	"github.com/clevermacaw/ethcore/core/txpool"
	"github.com/clevermacaw/ethcore/core/types"
	"github.com/clevermacaw/ethcore/eth/protocols/eth"
	"github.com/clevermacaw/ethcore/log"
	"github.com/clevermacaw/ethcore/params"
)

// fakeState is the account ledger the demo VM applies transactions against.
// It stands in for the trie-backed state database the design notes exclude
// (§6): balances and nonces only, no storage, no code execution.
type fakeState struct {
	mu       sync.Mutex
	balances map[common.Address]*big.Int
	nonces   map[common.Address]uint64
}

// fakeVM implements chain.VM by handing out snapshots that share the same
// backing ledger; the demo never runs concurrent builders, so no copy-on-
// write is needed to keep this correct.
type fakeVM struct {
	state  *fakeState
	signer types.Signer
}

func newFakeVM(signer types.Signer) *fakeVM {
	return &fakeVM{
		signer: signer,
		state: &fakeState{
			balances: make(map[common.Address]*big.Int),
			nonces:   make(map[common.Address]uint64),
		},
	}
}

func (vm *fakeVM) Copy() chain.VmSnapshot {
	return &fakeSnapshot{state: vm.state, signer: vm.signer}
}

// fakeSnapshot implements chain.VmSnapshot. Sender recovery goes through the
// injected types.Signer, whose RecoverFunc is fakeRecover below — a
// placeholder for the external secp256k1 collaborator
// (core/types/transaction_signing.go), never real signature verification.
type fakeSnapshot struct {
	state  *fakeState
	signer types.Signer
	root   common.Hash
}

func (s *fakeSnapshot) SetStateRoot(root common.Hash) { s.root = root }

func (s *fakeSnapshot) GenerateCanonicalGenesis(alloc params.GenesisAlloc) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	for addr, acc := range alloc {
		s.state.balances[addr] = new(big.Int).Set(acc.Balance)
		s.state.nonces[addr] = acc.Nonce
	}
}

func (s *fakeSnapshot) GetNonce(addr common.Address) uint64 {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return s.state.nonces[addr]
}

func (s *fakeSnapshot) GetBalance(addr common.Address) *big.Int {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if b, ok := s.state.balances[addr]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (s *fakeSnapshot) ApplyTransaction(tx *types.Transaction, header *types.Header) (uint64, error) {
	sender, err := types.Sender(s.signer, tx)
	if err != nil {
		return 0, err
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if tx.Nonce() != s.state.nonces[sender] {
		return 0, errors.New("nonce mismatch")
	}
	cost := new(big.Int).Mul(tx.GasPrice(), new(big.Int).SetUint64(tx.Gas()))
	cost.Add(cost, tx.Value())
	balance := s.state.balances[sender]
	if balance == nil {
		balance = new(big.Int)
	}
	if balance.Cmp(cost) < 0 {
		return 0, errors.New("insufficient balance")
	}

	s.state.balances[sender] = new(big.Int).Sub(balance, cost)
	s.state.nonces[sender] = tx.Nonce() + 1
	if to := tx.To(); to != nil {
		recv := s.state.balances[*to]
		if recv == nil {
			recv = new(big.Int)
		}
		s.state.balances[*to] = new(big.Int).Add(recv, tx.Value())
	}
	return 21000, nil
}

func (s *fakeSnapshot) StateRoot() common.Hash { return s.root }

// fakeRecover derives a placeholder sender address from a signing hash. Real
// ECDSA/secp256k1 recovery is an external collaborator this module never
// implements (§1); this exists only so the demo network can round-trip
// locally-crafted transactions without a live key-holder.
func fakeRecover(sighash common.Hash, v, r, s *big.Int) (common.Address, error) {
	if v.Sign() == 0 && r.Sign() == 0 && s.Sign() == 0 {
		return common.Address{}, errors.New("unsigned transaction")
	}
	return common.BytesToAddress(sighash[:20]), nil
}

// fakeBlockchain implements chain.Blockchain, standing in for the persistent
// store and answering Clique turn-order questions against the shared engine
// (§6). It only logs sealed blocks; there is no database.
type fakeBlockchain struct {
	engine *clique.Clique
	chain  *chain.Chain // wired in after chain.New, see main()
	log    log.Logger
}

func (b *fakeBlockchain) PutBlock(block *types.Block) error {
	b.log.Info("put block", "number", block.NumberU64(), "hash", block.Hash(), "txs", len(block.Transactions()))
	return nil
}

func (b *fakeBlockchain) CliqueSignerInTurn(addr common.Address) bool {
	next := b.chain.LatestBlock().NumberU64() + 1
	return b.engine.InTurn(next, addr)
}

func (b *fakeBlockchain) CliqueActiveSigners() []common.Address {
	return b.engine.ActiveSigners()
}

func (b *fakeBlockchain) CliqueCheckRecentlySigned(header *types.Header) bool {
	return b.engine.CheckRecentlySigned(header.Coinbase)
}

// fakeBackend adapts the chain facade and pool to eth.Backend. GetHeaders/
// GetBodies/GetReceipts return nothing: the demo never serves historical
// sync data, only STATUS and live transaction propagation (§1 Non-goals).
type fakeBackend struct {
	*chain.Chain
	pool *txpool.Pool
	log  log.Logger
}

func (b *fakeBackend) GetHeaders(origin eth.HashOrNumber, amount, skip uint64, reverse bool) []*types.Header {
	return nil
}

func (b *fakeBackend) GetBodies(hashes []common.Hash) []*eth.BlockBody { return nil }

func (b *fakeBackend) GetReceipts(hashes []common.Hash) [][]*types.Receipt { return nil }

func (b *fakeBackend) HandleTransactions(txs []*types.Transaction, from string) {
	for _, tx := range txs {
		if err := b.pool.Add(tx); err != nil {
			b.log.Trace("rejected transaction", "hash", tx.Hash(), "from", from, "err", err)
		}
	}
}
