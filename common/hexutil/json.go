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

package hexutil

import (
	"encoding/hex"
	"fmt"
)

// Bytes marshals/unmarshals as a JSON string with 0x prefix.
// The empty slice marshals as "0x".
type Bytes []byte

func (b Bytes) MarshalText() ([]byte, error) {
	result := make([]byte, len(b)*2+2)
	copy(result, `0x`)
	hex.Encode(result[2:], b)
	return result, nil
}

func (b *Bytes) UnmarshalJSON(input []byte) error {
	if !isString(input) {
		return fmt.Errorf("non-string hexutil.Bytes")
	}
	return b.UnmarshalText(input[1 : len(input)-1])
}

func (b *Bytes) UnmarshalText(input []byte) error {
	raw, err := checkText(input)
	if err != nil {
		return err
	}
	dec := make([]byte, len(raw)/2)
	if _, err = hex.Decode(dec, raw); err != nil {
		err = mapError(err)
	} else {
		*b = dec
	}
	return err
}

func (b Bytes) String() string {
	return Encode(b)
}

func isString(input []byte) bool {
	return len(input) >= 2 && input[0] == '"' && input[len(input)-1] == '"'
}

func checkText(input []byte) ([]byte, error) {
	if len(input) == 0 {
		return nil, nil
	}
	if !has0xPrefix(string(input)) {
		return nil, ErrMissingPrefix
	}
	input = input[2:]
	if len(input)%2 != 0 {
		return nil, ErrOddLength
	}
	return input, nil
}

// UnmarshalFixedText decodes the input as a string with 0x prefix into out. The
// output byte slice must have the correct pre-allocated length.
func UnmarshalFixedText(typname string, input, out []byte) error {
	raw, err := checkText(input)
	if err != nil {
		return err
	}
	if len(raw)/2 != len(out) {
		return fmt.Errorf("hex string has length %d, want %d for %s", len(raw), len(out)*2, typname)
	}
	if _, err := hex.Decode(out, raw); err != nil {
		return mapError(err)
	}
	return nil
}

// UnmarshalFixedJSON decodes the input as a JSON string with 0x prefix into out.
func UnmarshalFixedJSON(typname string, input, out []byte) error {
	if !isString(input) {
		return fmt.Errorf("non-string %s", typname)
	}
	return UnmarshalFixedText(typname, input[1:len(input)-1], out)
}
