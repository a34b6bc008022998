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

package txpool

import (
	"errors"
	"math/big"
	"testing"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/core/types"
)

// stubSigner derives the sender from a tx's Data field instead of running
// real signature recovery, so tests can pick senders deterministically.
type stubSigner struct{}

func (stubSigner) Sender(tx *types.Transaction) (common.Address, error) {
	if len(tx.Data()) == 0 {
		return common.Address{}, errors.New("no sender encoded")
	}
	return common.BytesToAddress(tx.Data()), nil
}
func (stubSigner) Hash(tx *types.Transaction) common.Hash { return tx.Hash() }
func (stubSigner) Equal(types.Signer) bool                { return true }
func (stubSigner) ChainID() *big.Int                      { return big.NewInt(1) }

func newPoolTx(sender byte, nonce uint64, gasPrice int64) *types.Transaction {
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		Gas:      21000,
		GasPrice: big.NewInt(gasPrice),
		Value:    big.NewInt(0),
		Data:     []byte{sender},
	})
}

type zeroState struct{}

func (zeroState) GetNonce(common.Address) uint64 { return 0 }

func TestAddRejectsDuplicateHash(t *testing.T) {
	p := New(stubSigner{}, nil)
	tx := newPoolTx(1, 0, 10)
	if err := p.Add(tx); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	if err := p.Add(tx); !errors.Is(err, ErrAlreadyKnown) {
		t.Fatalf("second Add error = %v, want ErrAlreadyKnown", err)
	}
}

func TestAddReplacesOnHigherGasPriceOnly(t *testing.T) {
	p := New(stubSigner{}, nil)
	low := newPoolTx(1, 0, 10)
	if err := p.Add(low); err != nil {
		t.Fatalf("Add(low) failed: %v", err)
	}

	sameOrLower := newPoolTx(1, 0, 5)
	if err := p.Add(sameOrLower); !errors.Is(err, ErrUnderpriced) {
		t.Fatalf("Add(sameOrLower) error = %v, want ErrUnderpriced", err)
	}
	if got := p.GetByHash(low.Hash()); got == nil {
		t.Fatalf("the original transaction should still be pooled after a rejected replacement")
	}

	higher := newPoolTx(1, 0, 20)
	if err := p.Add(higher); err != nil {
		t.Fatalf("Add(higher) failed: %v", err)
	}
	if p.GetByHash(low.Hash()) != nil {
		t.Errorf("the replaced transaction should no longer be pooled")
	}
	if p.GetByHash(higher.Hash()) == nil {
		t.Errorf("the replacement transaction should be pooled")
	}
	if p.Len() != 1 {
		t.Errorf("pool length = %d, want 1 (replace, not append)", p.Len())
	}
}

func TestAddRejectsUnrecoverableSender(t *testing.T) {
	p := New(stubSigner{}, nil)
	tx := types.NewTx(&types.LegacyTx{Nonce: 0, Gas: 21000, GasPrice: big.NewInt(1), Value: big.NewInt(0)})
	if err := p.Add(tx); !errors.Is(err, ErrInvalidSender) {
		t.Fatalf("Add error = %v, want ErrInvalidSender", err)
	}
}

func TestRemoveAndRemoveNewBlockTxs(t *testing.T) {
	p := New(stubSigner{}, nil)
	tx1 := newPoolTx(1, 0, 10)
	tx2 := newPoolTx(2, 0, 10)
	p.Add(tx1)
	p.Add(tx2)

	p.Remove(tx1.Hash())
	if p.GetByHash(tx1.Hash()) != nil {
		t.Errorf("removed transaction should no longer be retrievable")
	}
	if p.Len() != 1 {
		t.Fatalf("pool length = %d, want 1", p.Len())
	}

	block := types.NewBlockWithHeader(&types.Header{Number: big.NewInt(1)}).WithBody([]*types.Transaction{tx2})
	p.RemoveNewBlockTxs(block)
	if p.Len() != 0 {
		t.Errorf("pool should be empty once the block's transactions are removed, got %d", p.Len())
	}
}

func TestAddToKnownByPeerReturnsOnlyUnknown(t *testing.T) {
	p := New(stubSigner{}, nil)
	tx := newPoolTx(1, 0, 10)
	p.Add(tx)

	unknown := p.AddToKnownByPeer([]common.Hash{tx.Hash()}, "peerA")
	if len(unknown) != 1 || unknown[0] != tx.Hash() {
		t.Fatalf("first call should report the hash as unknown, got %v", unknown)
	}
	unknown = p.AddToKnownByPeer([]common.Hash{tx.Hash()}, "peerA")
	if len(unknown) != 0 {
		t.Errorf("second call should report no unknown hashes, got %v", unknown)
	}
}

func TestTxsByPriceAndNonceOrdersByTipThenNonce(t *testing.T) {
	p := New(stubSigner{}, nil)
	// sender 1: nonce 0 (low tip), nonce 1 (very high tip, but blocked by nonce 0)
	p.Add(newPoolTx(1, 0, 5))
	p.Add(newPoolTx(1, 1, 100))
	// sender 2: nonce 0 (mid tip), resyncs immediately
	p.Add(newPoolTx(2, 0, 10))

	out := p.TxsByPriceAndNonce(zeroState{}, big.NewInt(0))
	if len(out) != 3 {
		t.Fatalf("expected all 3 transactions, got %d", len(out))
	}
	// sender 2's nonce-0 (tip 10) must beat sender 1's nonce-0 (tip 5) despite
	// sender 1 holding a much higher-tipped nonce-1 transaction behind it.
	sender2 := common.BytesToAddress([]byte{2})
	got, err := stubSigner{}.Sender(out[0])
	if err != nil || got != sender2 {
		t.Fatalf("first transaction sender = %x, want sender 2 (higher head tip)", got)
	}
	if out[2].Nonce() != 1 {
		t.Errorf("sender 1's nonce-1 transaction should only be emitted after its nonce-0, got order %+v", out)
	}
}

func TestTxsByPriceAndNonceSkipsUnsyncedSender(t *testing.T) {
	p := New(stubSigner{}, nil)
	p.Add(newPoolTx(1, 5, 10)) // sender's lowest pooled nonce is 5, but chain expects nonce 0

	out := p.TxsByPriceAndNonce(zeroState{}, big.NewInt(0))
	if len(out) != 0 {
		t.Errorf("a sender whose pooled nonce doesn't resync with the chain should contribute nothing, got %d", len(out))
	}
}

func TestTxsByPriceAndNonceExcludesBelowBaseFee(t *testing.T) {
	p := New(stubSigner{}, nil)
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID: big.NewInt(1), Nonce: 0, Gas: 21000,
		GasTipCap: big.NewInt(1), GasFeeCap: big.NewInt(5),
		Data: []byte{1},
	})
	p.Add(tx)

	out := p.TxsByPriceAndNonce(zeroState{}, big.NewInt(100))
	if len(out) != 0 {
		t.Errorf("a transaction whose fee cap is below the base fee must be excluded, got %d", len(out))
	}
}

type fakeBroadcaster struct {
	peers        []string
	known        map[string]map[common.Hash]bool
	sentFull     map[string][]common.Hash
	sentAnnounce map[string][]common.Hash
}

func newFakeBroadcaster(peers ...string) *fakeBroadcaster {
	return &fakeBroadcaster{
		peers: peers, known: make(map[string]map[common.Hash]bool),
		sentFull: make(map[string][]common.Hash), sentAnnounce: make(map[string][]common.Hash),
	}
}
func (b *fakeBroadcaster) ConnectedPeers() []string { return b.peers }
func (b *fakeBroadcaster) KnowsTx(peerID string, hash common.Hash) bool {
	return b.known[peerID] != nil && b.known[peerID][hash]
}
func (b *fakeBroadcaster) SendTransactions(peerID string, txs []*types.Transaction) {
	for _, tx := range txs {
		b.sentFull[peerID] = append(b.sentFull[peerID], tx.Hash())
	}
}
func (b *fakeBroadcaster) AnnounceTransactions(peerID string, hashes []common.Hash) {
	b.sentAnnounce[peerID] = append(b.sentAnnounce[peerID], hashes...)
}

func TestAddBroadcastsFullBodyToSqrtOfUnknownPeers(t *testing.T) {
	// 9 unknown peers -> isqrt(9) = 3 get the full body, the other 6 an announce only.
	peers := make([]string, 9)
	for i := range peers {
		peers[i] = string(rune('a' + i))
	}
	b := newFakeBroadcaster(peers...)
	p := New(stubSigner{}, b)

	tx := newPoolTx(1, 0, 10)
	if err := p.Add(tx); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	fullRecipients := 0
	for _, hashes := range b.sentFull {
		fullRecipients += len(hashes)
	}
	announceRecipients := 0
	for _, hashes := range b.sentAnnounce {
		announceRecipients += len(hashes)
	}
	if fullRecipients != 3 {
		t.Errorf("full-body recipients = %d, want 3 (isqrt(9))", fullRecipients)
	}
	if announceRecipients != 6 {
		t.Errorf("announce-only recipients = %d, want 6", announceRecipients)
	}
}

func TestAddSkipsPeersThatAlreadyKnowTheTx(t *testing.T) {
	tx := newPoolTx(1, 0, 10)
	b := newFakeBroadcaster("peerA", "peerB")
	b.known["peerA"] = map[common.Hash]bool{tx.Hash(): true}
	p := New(stubSigner{}, b)

	if err := p.Add(tx); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if len(b.sentFull["peerA"]) != 0 || len(b.sentAnnounce["peerA"]) != 0 {
		t.Errorf("peerA already knew the tx and should not have been sent anything")
	}
	if len(b.sentFull["peerB"]) == 0 {
		t.Errorf("peerB should have received the transaction (isqrt(1) = 1 full-body recipient)")
	}
}
