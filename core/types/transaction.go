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

package types

import (
	"errors"
	"io"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/rlp"
)

// Transaction types recognized by the message schema registry (§4.C). Only
// legacy and EIP-1559 dynamic-fee transactions are modeled; blob, access-list
// and account-abstraction envelopes are out of scope for this build.
const (
	LegacyTxType     = 0x00
	DynamicFeeTxType = 0x02
)

var (
	ErrInvalidSig       = errors.New("invalid transaction v, r, s values")
	ErrTxTypeNotSupported = errors.New("transaction type not supported")
	errEmptyTypedTx     = errors.New("empty typed transaction bytes")
)

// TxData is the underlying data of a transaction. Concrete implementations
// are LegacyTx and DynamicFeeTx; Transaction wraps whichever one applies.
type TxData interface {
	txType() byte
	copy() TxData

	chainID() *big.Int
	accessList() AccessList
	data() []byte
	gas() uint64
	gasPrice() *big.Int
	gasTipCap() *big.Int
	gasFeeCap() *big.Int
	value() *big.Int
	nonce() uint64
	to() *common.Address

	rawSignatureValues() (v, r, s *big.Int)
	setSignatureValues(chainID, v, r, s *big.Int)
}

// AccessList is carried on the wire shape for eth66 typed envelopes even
// though this module never populates one from real transactions.
type AccessList []AccessTuple

type AccessTuple struct {
	Address     common.Address `json:"address"`
	StorageKeys []common.Hash  `json:"storageKeys"`
}

// Transaction is an Ethereum transaction. Once constructed it is immutable
// except for its cached hash and size.
type Transaction struct {
	inner TxData
	time  time.Time

	hash atomic.Pointer[common.Hash]
	size atomic.Uint64
}

func NewTx(inner TxData) *Transaction {
	tx := new(Transaction)
	tx.setDecoded(inner.copy(), 0)
	return tx
}

func (tx *Transaction) setDecoded(inner TxData, size uint64) {
	tx.inner = inner
	tx.time = time.Now()
	if size > 0 {
		tx.size.Store(size)
	}
}

func (tx *Transaction) Type() byte           { return tx.inner.txType() }
func (tx *Transaction) ChainId() *big.Int    { return tx.inner.chainID() }
func (tx *Transaction) Data() []byte         { return tx.inner.data() }
func (tx *Transaction) AccessList() AccessList { return tx.inner.accessList() }
func (tx *Transaction) Gas() uint64          { return tx.inner.gas() }
func (tx *Transaction) GasPrice() *big.Int   { return new(big.Int).Set(tx.inner.gasPrice()) }
func (tx *Transaction) GasTipCap() *big.Int  { return new(big.Int).Set(tx.inner.gasTipCap()) }
func (tx *Transaction) GasFeeCap() *big.Int  { return new(big.Int).Set(tx.inner.gasFeeCap()) }
func (tx *Transaction) Value() *big.Int      { return new(big.Int).Set(tx.inner.value()) }
func (tx *Transaction) Nonce() uint64        { return tx.inner.nonce() }
func (tx *Transaction) To() *common.Address {
	if to := tx.inner.to(); to != nil {
		cpy := *to
		return &cpy
	}
	return nil
}
func (tx *Transaction) Time() time.Time { return tx.time }

// GasFeeCapCmp compares the fee cap of two transactions.
func (tx *Transaction) GasFeeCapCmp(other *Transaction) int {
	return tx.inner.gasFeeCap().Cmp(other.inner.gasFeeCap())
}

// EffectiveGasTip returns the effective miner tip for the given base fee,
// per EIP-1559: min(gasTipCap, gasFeeCap-baseFee). With a nil baseFee it
// returns the tip cap unmodified (the gas price, for a legacy transaction).
func (tx *Transaction) EffectiveGasTip(baseFee *big.Int) (*big.Int, error) {
	if baseFee == nil {
		return tx.GasTipCap(), nil
	}
	gasFeeCap := tx.GasFeeCap()
	if gasFeeCap.Cmp(baseFee) < 0 {
		return nil, ErrGasFeeCapTooLow
	}
	gasTipCap := tx.GasTipCap()
	tip := new(big.Int).Sub(gasFeeCap, baseFee)
	if tip.Cmp(gasTipCap) > 0 {
		tip = gasTipCap
	}
	return tip, nil
}

// ErrGasFeeCapTooLow is returned by EffectiveGasTip and the block builder
// when a type-2 transaction's fee cap sits below the block's base fee.
var ErrGasFeeCapTooLow = errors.New("gas fee cap too low")

// EncodeRLP implements rlp.Encoder. Legacy transactions encode as an RLP
// list directly; typed transactions encode as an opaque byte string whose
// first byte is the type, per EIP-2718.
func (tx *Transaction) EncodeRLP(w io.Writer) error {
	if tx.Type() == LegacyTxType {
		return rlp.Encode(w, tx.inner)
	}
	buf := encodeTyped(tx.inner)
	if eb, ok := w.(rlp.EncoderBuffer); ok {
		eb.WriteBytes(buf)
		return nil
	}
	return rlp.Encode(w, buf)
}

func encodeTyped(inner TxData) []byte {
	buf, err := rlp.EncodeToBytes(inner)
	if err != nil {
		panic(err)
	}
	return append([]byte{inner.txType()}, buf...)
}

// DecodeRLP implements rlp.Decoder, dispatching on the first byte of the
// value the way the message schema registry (§4.C) requires for
// Transactions / PooledTransactions payloads.
func (tx *Transaction) DecodeRLP(s *rlp.Stream) error {
	kind, size, err := s.Kind()
	switch {
	case err != nil:
		return err
	case kind == rlp.List:
		var inner LegacyTx
		if err := s.Decode(&inner); err != nil {
			return err
		}
		tx.setDecoded(&inner, rlp.ListSize(size))
		return nil
	default:
		b, err := s.Bytes()
		if err != nil {
			return err
		}
		inner, err := decodeTyped(b)
		if err != nil {
			return err
		}
		tx.setDecoded(inner, uint64(len(b)))
		return nil
	}
}

// UnmarshalBinary decodes the canonical RLP-encoding-or-typed-envelope form
// used when a Transactions/PooledTransactions message carries raw bytes.
func (tx *Transaction) UnmarshalBinary(b []byte) error {
	if len(b) > 0 && b[0] > 0x7f {
		var data LegacyTx
		if err := rlp.DecodeBytes(b, &data); err != nil {
			return err
		}
		tx.setDecoded(&data, uint64(len(b)))
		return nil
	}
	inner, err := decodeTyped(b)
	if err != nil {
		return err
	}
	tx.setDecoded(inner, uint64(len(b)))
	return nil
}

// MarshalBinary returns the canonical encoding used on the wire and in the
// pool's raw-bytes cache.
func (tx *Transaction) MarshalBinary() ([]byte, error) {
	if tx.Type() == LegacyTxType {
		return rlp.EncodeToBytes(tx.inner)
	}
	return encodeTyped(tx.inner), nil
}

func decodeTyped(b []byte) (TxData, error) {
	if len(b) == 0 {
		return nil, errEmptyTypedTx
	}
	switch b[0] {
	case DynamicFeeTxType:
		inner := new(DynamicFeeTx)
		if err := rlp.DecodeBytes(b[1:], inner); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, ErrTxTypeNotSupported
	}
}

// Hash returns the transaction hash, computed once and cached.
func (tx *Transaction) Hash() common.Hash {
	if hash := tx.hash.Load(); hash != nil {
		return *hash
	}
	var h common.Hash
	if tx.Type() == LegacyTxType {
		h = rlpHash(tx.inner)
	} else {
		h = prefixedRlpHash(tx.Type(), tx.inner)
	}
	tx.hash.Store(&h)
	return h
}

func prefixedRlpHash(prefix byte, x interface{}) (h common.Hash) {
	hw := newKeccakState()
	hw.Write([]byte{prefix})
	rlp.Encode(hw, x)
	hw.Sum(h[:0])
	return h
}

// Size returns the encoded storage size of the transaction, either by
// encoding and returning it, or returning a previously cached value.
func (tx *Transaction) Size() uint64 {
	if size := tx.size.Load(); size > 0 {
		return size
	}
	b, err := tx.MarshalBinary()
	if err != nil {
		return 0
	}
	tx.size.Store(uint64(len(b)))
	return uint64(len(b))
}

// TxByNonce implements sort.Interface, ordering transactions ascending by
// nonce.
type TxByNonce []*Transaction

func (s TxByNonce) Len() int           { return len(s) }
func (s TxByNonce) Less(i, j int) bool { return s[i].Nonce() < s[j].Nonce() }
func (s TxByNonce) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
