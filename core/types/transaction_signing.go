// Copyright 2016 The go-ethereum Authors
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

package types

import (
	"errors"
	"math/big"
	"sync"

	"github.com/clevermacaw/ethcore/common"
)

// ErrInvalidChainId is returned when a transaction's chain id does not
// match the signer's configured chain id.
var ErrInvalidChainId = errors.New("invalid chain id for signer")

// RecoverFunc recovers the sender address from a signing hash and raw
// signature values. Actual ECDSA/secp256k1 recovery is delegated to the
// same external transaction-validation collaborator the design notes
// exclude from this module's scope (§1); Signer only owns hashing and the
// per-transaction sender cache, exactly like go-ethereum's signer/sigCache
// split.
type RecoverFunc func(sighash common.Hash, v, r, s *big.Int) (common.Address, error)

// Signer encapsulates transaction signature handling. The name of a signer
// does not attach to the transaction in any way, only to the signature
// hashing scheme actually used.
type Signer interface {
	// Sender returns the sender address of the transaction.
	Sender(tx *Transaction) (common.Address, error)
	// Hash returns the signing hash of the transaction.
	Hash(tx *Transaction) common.Hash
	// Equal reports whether the given signer is the same as this one.
	Equal(Signer) bool
	ChainID() *big.Int
}

// LatestSignerForChainID returns the most permissive signer for the given
// chain id: a London-style signer that accepts both legacy and EIP-1559
// transactions.
func LatestSignerForChainID(chainID *big.Int, recover RecoverFunc) Signer {
	return &londonSigner{chainID: chainID, recover: recover}
}

type londonSigner struct {
	chainID *big.Int
	recover RecoverFunc
}

func (s *londonSigner) ChainID() *big.Int { return s.chainID }

func (s *londonSigner) Equal(s2 Signer) bool {
	other, ok := s2.(*londonSigner)
	return ok && other.chainID.Cmp(s.chainID) == 0
}

func (s *londonSigner) Sender(tx *Transaction) (common.Address, error) {
	if addr, ok := sigCache.get(tx.Hash()); ok {
		return addr, nil
	}
	v, r, sVal := tx.inner.rawSignatureValues()
	var chainIDMul *big.Int
	switch tx.Type() {
	case LegacyTxType:
		if v.BitLen() > 8 && deriveChainID(v).Cmp(s.chainID) != 0 && deriveChainID(v).Sign() != 0 {
			return common.Address{}, ErrInvalidChainId
		}
	case DynamicFeeTxType:
		if tx.ChainId().Cmp(s.chainID) != 0 {
			return common.Address{}, ErrInvalidChainId
		}
		v = new(big.Int).Add(v, big.NewInt(27))
	default:
		return common.Address{}, ErrTxTypeNotSupported
	}
	_ = chainIDMul
	if s.recover == nil {
		return common.Address{}, errors.New("no signature-recovery backend configured")
	}
	addr, err := s.recover(s.Hash(tx), v, r, sVal)
	if err != nil {
		return common.Address{}, err
	}
	sigCache.put(tx.Hash(), addr)
	return addr, nil
}

func (s *londonSigner) Hash(tx *Transaction) common.Hash {
	if tx.Type() == LegacyTxType {
		return rlpHash([]interface{}{
			tx.Nonce(), tx.GasPrice(), tx.Gas(), tx.To(), tx.Value(), tx.Data(),
		})
	}
	return prefixedRlpHash(tx.Type(), []interface{}{
		s.chainID, tx.Nonce(), tx.GasTipCap(), tx.GasFeeCap(), tx.Gas(), tx.To(), tx.Value(), tx.Data(), tx.AccessList(),
	})
}

// senderCache memoizes recovered senders by transaction hash, mirroring
// go-ethereum's sigCache but scoped to this module (no signer identity in
// the key: this build only ever runs one signer per chain).
type senderCache struct {
	mu sync.RWMutex
	m  map[common.Hash]common.Address
}

var sigCache = &senderCache{m: make(map[common.Hash]common.Address)}

func (c *senderCache) get(h common.Hash) (common.Address, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	addr, ok := c.m[h]
	return addr, ok
}

func (c *senderCache) put(h common.Hash, addr common.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[h] = addr
}

// Sender is a convenience wrapper mirroring go-ethereum's package-level
// helper of the same name.
func Sender(signer Signer, tx *Transaction) (common.Address, error) {
	return signer.Sender(tx)
}
