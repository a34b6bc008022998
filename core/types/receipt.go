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

import "github.com/clevermacaw/ethcore/common"

// ReceiptStatus values, post Byzantium.
const (
	ReceiptStatusFailed     = uint64(0)
	ReceiptStatusSuccessful = uint64(1)
)

// Log carried inside a receipt, matching the shape peers expect on the
// GET_RECEIPTS / RECEIPTS wire messages (§3, §4.C).
type Log struct {
	Address common.Address `json:"address"`
	Topics  []common.Hash  `json:"topics"`
	Data    []byte         `json:"data"`
}

// Receipt is the on-chain execution outcome of a transaction. This module
// never produces one itself (that's the external VM collaborator's job per
// §6) but needs the wire shape to answer GET_RECEIPTS requests.
type Receipt struct {
	Type              byte
	PostState         []byte
	Status            uint64
	CumulativeGasUsed uint64
	Bloom             Bloom
	Logs              []*Log

	TxHash          common.Hash
	ContractAddress common.Address
	GasUsed         uint64
}

// Receipts implements DerivableList for receipt root computation.
type Receipts []*Receipt

func (r Receipts) Len() int { return len(r) }
