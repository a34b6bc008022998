// Copyright 2021 The go-ethereum Authors
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

// Package misc implements the EIP-1559 base fee and London gas-limit
// transition rules the miner scheduler (§4.G step 7) applies at and after
// the London hardfork.
package misc

import (
	"errors"
	"math/big"

	"github.com/clevermacaw/ethcore/core/types"
	"github.com/clevermacaw/ethcore/params"
)

// VerifyEIP1559Header verifies that the header conforms to the EIP-1559
// rules: the base fee must be present and equal the calculated value. The
// gas limit is not checked.
func VerifyEIP1559Header(config *params.ChainConfig, parent, header *types.Header) error {
	if header.BaseFee == nil {
		return errEIP1559MissingBaseFee
	}
	expected := CalcBaseFee(config, parent)
	if header.BaseFee.Cmp(expected) != 0 {
		return errEIP1559InvalidBaseFee
	}
	return nil
}

var (
	errEIP1559MissingBaseFee = errors.New("missing baseFee for post-London header")
	errEIP1559InvalidBaseFee = errors.New("invalid baseFee for post-London header")
)

// CalcBaseFee calculates the basefee of the header, following the EIP-1559
// formula, for the block right after the given parent. At the exact London
// activation block callers must use InitialBaseFee instead (§4.G step 7);
// a pre-London parent, or one without a base fee, yields InitialBaseFee.
func CalcBaseFee(config *params.ChainConfig, parent *types.Header) *big.Int {
	if parent.BaseFee == nil || (config.LondonBlock != nil && parent.Number.Cmp(config.LondonBlock) < 0) {
		return big.NewInt(params.InitialBaseFee)
	}

	parentGasTarget := parent.GasLimit / params.DefaultElasticityMultiplier
	if parent.GasUsed == parentGasTarget {
		return new(big.Int).Set(parent.BaseFee)
	}

	var (
		num   = new(big.Int)
		denom = new(big.Int)
	)

	if parent.GasUsed > parentGasTarget {
		// baseFee * gasUsedDelta / parentGasTarget / baseFeeChangeDenominator, with a floor of 1.
		num.SetUint64(parent.GasUsed - parentGasTarget)
		num.Mul(num, parent.BaseFee)
		num.Div(num, denom.SetUint64(parentGasTarget))
		num.Div(num, denom.SetUint64(params.DefaultBaseFeeChangeDenominator))
		baseFeeDelta := maxOne(num)

		return num.Add(parent.BaseFee, baseFeeDelta)
	}

	// baseFee * gasUsedDelta / parentGasTarget / baseFeeChangeDenominator, with a floor of 0.
	num.SetUint64(parentGasTarget - parent.GasUsed)
	num.Mul(num, parent.BaseFee)
	num.Div(num, denom.SetUint64(parentGasTarget))
	num.Div(num, denom.SetUint64(params.DefaultBaseFeeChangeDenominator))

	baseFee := num.Sub(parent.BaseFee, num)
	if baseFee.Sign() < 0 {
		baseFee = new(big.Int)
	}
	return baseFee
}

func maxOne(x *big.Int) *big.Int {
	if x.Cmp(bigOne) < 0 {
		return bigOne
	}
	return x
}

var bigOne = big.NewInt(1)

// LondonGasLimit doubles the parent gas limit at the exact activation
// block, per EIP-1559 §4.G step 7; ordinary EIP-1559 blocks keep the
// parent's limit (subject to the external validation collaborator's bound
// checks, which are out of scope here).
func LondonGasLimit(config *params.ChainConfig, parentGasLimit uint64, number *big.Int) uint64 {
	if config.LondonBlock != nil && number.Cmp(config.LondonBlock) == 0 {
		return parentGasLimit * params.DefaultElasticityMultiplier
	}
	return parentGasLimit
}
