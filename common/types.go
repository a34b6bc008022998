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

package common

import (
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"

	"golang.org/x/crypto/sha3"
)

const (
	HashLength    = 32
	AddressLength = 20
)

var (
	hashT    = reflect.TypeOf(Hash{})
	addressT = reflect.TypeOf(Address{})
)

// Hash represents the 32 byte Keccak256 hash of arbitrary data.
type Hash [HashLength]byte

// BytesToHash sets b to hash. If b is larger than len(h), b will be cropped
// from the left.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// HexToHash sets byte representation of s to hash. If b is larger than
// len(h), b will be cropped from the left.
func HexToHash(s string) Hash { return BytesToHash(FromHex(s)) }

func (h Hash) Bytes() []byte  { return h[:] }
func (h Hash) Hex() string    { return ToHex(h[:]) }
func (h Hash) String() string { return h.Hex() }
func (h Hash) IsZero() bool   { return h == Hash{} }

// SetBytes sets the hash to the value of b. If b is larger than len(h), b
// will be cropped from the left.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// TerminalString implements the short-hand printer used in log output.
func (h Hash) TerminalString() string {
	return fmt.Sprintf("%x…%x", h[:3], h[29:])
}

// Format implements fmt.Formatter. It is used to pretty print byte slices
// while allowing precision and width specifiers, e.g. printing only the
// first 8 characters with "%.8s".
func (h Hash) Format(s fmt.State, c rune) {
	hexb := make([]byte, 2+len(h)*2)
	copy(hexb, "0x")
	hex.Encode(hexb[2:], h[:])

	switch c {
	case 'x', 'X':
		if !s.Flag('#') {
			hexb = hexb[2:]
		}
		if c == 'X' {
			hexb = []byte(toUpperASCII(string(hexb)))
		}
		fallthrough
	case 'v', 's':
		s.Write(hexb)
	case 'q':
		q := []byte{'"'}
		s.Write(q)
		s.Write(hexb)
		s.Write(q)
	case 'd':
		fmt.Fprint(s, [HashLength]byte(h))
	default:
		fmt.Fprintf(s, "%%!%c(hash=%x)", c, [HashLength]byte(h))
	}
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

func (h *Hash) UnmarshalJSON(input []byte) error {
	return unmarshalFixedJSON(hashT, input, h[:])
}

func (h *Hash) UnmarshalText(input []byte) error {
	return hexBytesFixed("Hash", input, h[:])
}

// Scan implements database/sql.Scanner.
func (h *Hash) Scan(src interface{}) error {
	srcB, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("can't scan %T into Hash", src)
	}
	if len(srcB) != HashLength {
		return fmt.Errorf("can't scan []byte of len %d into Hash, want %d", len(srcB), HashLength)
	}
	copy(h[:], srcB)
	return nil
}

// Value implements database/sql/driver.Valuer.
func (h Hash) Value() (driver.Value, error) {
	return h.Bytes(), nil
}

// Address represents the 20 byte address of an Ethereum account.
type Address [AddressLength]byte

func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

func HexToAddress(s string) Address { return BytesToAddress(FromHex(s)) }

// IsHexAddress verifies whether a string can represent a valid hex-encoded
// Ethereum address or not.
func IsHexAddress(s string) bool {
	if bytesHasHexPrefix([]byte(s)) {
		s = s[2:]
	}
	if len(s) != 2*AddressLength {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// Bytes returns the raw address bytes.
func (a Address) Bytes() []byte { return a[:] }

// Hex returns an EIP-55 mixed case hex encoding of the address.
func (a Address) Hex() string {
	unchecksummed := hex.EncodeToString(a[:])
	sha := sha3.NewLegacyKeccak256()
	sha.Write([]byte(unchecksummed))
	hash := sha.Sum(nil)

	result := []byte(unchecksummed)
	for i := 0; i < len(result); i++ {
		hashByte := hash[i/2]
		if i%2 == 0 {
			hashByte = hashByte >> 4
		} else {
			hashByte &= 0xf
		}
		if result[i] > '9' && hashByte > 7 {
			result[i] -= 32
		}
	}
	return "0x" + string(result)
}

func (a Address) String() string { return a.Hex() }
func (a Address) IsZero() bool   { return a == Address{} }

func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

func (a Address) Format(s fmt.State, c rune) {
	switch c {
	case 'v', 's':
		s.Write([]byte(a.Hex()))
	case 'q':
		s.Write([]byte(`"` + a.Hex() + `"`))
	case 'x', 'X':
		var hexb []byte
		if c == 'x' {
			hexb = []byte(toLowerASCII(a.Hex()[2:]))
		} else {
			hexb = []byte(toUpperASCII(a.Hex()[2:]))
		}
		if s.Flag('#') {
			s.Write([]byte("0x"))
		}
		s.Write(hexb)
	case 'd':
		fmt.Fprint(s, [AddressLength]byte(a))
	default:
		fmt.Fprintf(s, "%%!%c(address=%x)", c, [AddressLength]byte(a))
	}
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

func (a *Address) UnmarshalJSON(input []byte) error {
	return unmarshalFixedJSON(addressT, input, a[:])
}

func (a *Address) UnmarshalText(input []byte) error {
	return hexBytesFixed("Address", input, a[:])
}

// Scan implements database/sql.Scanner.
func (a *Address) Scan(src interface{}) error {
	srcB, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("can't scan %T into Address", src)
	}
	if len(srcB) != AddressLength {
		return fmt.Errorf("can't scan []byte of len %d into Address, want %d", len(srcB), AddressLength)
	}
	copy(a[:], srcB)
	return nil
}

// Value implements database/sql/driver.Valuer.
func (a Address) Value() (driver.Value, error) {
	return a.Bytes(), nil
}

// AddressEIP55 is an alias of Address whose default JSON marshalling always
// includes the EIP-55 checksum, regardless of the source casing.
type AddressEIP55 Address

func (a AddressEIP55) String() string {
	return Address(a).Hex()
}

func (a AddressEIP55) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// MixedcaseAddress retains both the original raw input, so callers can
// validate the EIP-55 checksum was intended, and the canonical Address.
type MixedcaseAddress struct {
	addr     Address
	original string
}

// NewMixedcaseAddress constructs a MixedcaseAddress from a canonical address.
func NewMixedcaseAddress(addr Address) MixedcaseAddress {
	return MixedcaseAddress{addr: addr, original: addr.Hex()}
}

// NewMixedcaseAddressFromString parses an address from a hex string,
// retaining the original casing.
func NewMixedcaseAddressFromString(hexaddr string) (*MixedcaseAddress, error) {
	if !IsHexAddress(hexaddr) {
		return nil, fmt.Errorf("invalid address")
	}
	a := FromHex(hexaddr)
	return &MixedcaseAddress{addr: BytesToAddress(a), original: hexaddr}, nil
}

func (ma *MixedcaseAddress) UnmarshalJSON(input []byte) error {
	if err := json.Unmarshal(input, &ma.original); err != nil {
		return err
	}
	return json.Unmarshal(input, &ma.addr)
}

func (ma MixedcaseAddress) MarshalJSON() ([]byte, error) {
	if strHasHexPrefixUpper(ma.original) {
		return json.Marshal(fmt.Sprintf("0x%s", ma.original[2:]))
	}
	return json.Marshal(ma.original)
}

// Address returns the canonical address.
func (ma *MixedcaseAddress) Address() Address { return ma.addr }

// String implements fmt.Stringer, printing the original (mixed-case) string.
func (ma *MixedcaseAddress) String() string {
	if ma.ValidChecksum() {
		return fmt.Sprintf("%s [chksum ok]", ma.original)
	}
	return fmt.Sprintf("%s [chksum INVALID]", ma.original)
}

// ValidChecksum reports whether the original input is exactly the EIP-55
// checksummed form returned by Hex(), including its lowercase "0x" prefix.
// Any other spelling, such as an all-lowercase one, is reported invalid.
func (ma *MixedcaseAddress) ValidChecksum() bool {
	return ma.original == ma.addr.Hex()
}

func strHasHexPrefixUpper(s string) bool {
	return len(s) >= 2 && s[0] == '0' && s[1] == 'X'
}

func toUpperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
	}
	return string(b)
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 32
		}
	}
	return string(b)
}

// unmarshalFixedJSON decodes a JSON string of hex digits into a fixed size
// byte slice, matching the strict error messages callers rely on.
func unmarshalFixedJSON(typ reflect.Type, input, out []byte) error {
	if !isString(input) {
		return &json.UnmarshalTypeError{Value: "non-string", Type: typ}
	}
	return hexBytesFixed(typ.String(), input[1:len(input)-1], out)
}

func isString(input []byte) bool {
	return len(input) >= 2 && input[0] == '"' && input[len(input)-1] == '"'
}

// hexBytesFixed decodes a hex string (with 0x prefix) into a
// fixed-size destination buffer, mirroring the strict length checking that
// go-ethereum's hexutil package applies to fixed-size types.
func hexBytesFixed(typeName string, input, out []byte) error {
	raw, err := checkText(input, true)
	if err != nil {
		return wrapTypeError(typeName, err)
	}
	if len(raw)/2 != len(out) {
		return fmt.Errorf("hex string has length %d, want %d for %s", len(raw), len(out)*2, typeName)
	}
	if _, err := hex.Decode(out, raw); err != nil {
		return wrapTypeError(typeName, mapHexError(err))
	}
	return nil
}

func wrapTypeError(typeName string, err error) error {
	if err == errMissingPrefix || err == errOddLength || err == errInvalidHexChar {
		return fmt.Errorf("json: cannot unmarshal %s into Go value of type %s", err, typeName)
	}
	return err
}

var (
	errMissingPrefix  = fmt.Errorf("hex string without 0x prefix")
	errOddLength      = fmt.Errorf("hex string of odd length")
	errInvalidHexChar = fmt.Errorf("invalid hex string")
)

func checkText(input []byte, wantPrefix bool) ([]byte, error) {
	if len(input) == 0 {
		return nil, nil
	}
	if bytesHasHexPrefix(input) {
		input = input[2:]
	} else if wantPrefix {
		return nil, errMissingPrefix
	}
	if len(input)%2 != 0 {
		return nil, errOddLength
	}
	return input, nil
}

func bytesHasHexPrefix(input []byte) bool {
	return len(input) >= 2 && input[0] == '0' && (input[1] == 'x' || input[1] == 'X')
}

func mapHexError(err error) error {
	if _, ok := err.(hex.InvalidByteError); ok {
		return errInvalidHexChar
	}
	if err == hex.ErrLength {
		return errOddLength
	}
	return err
}
