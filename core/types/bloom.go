package types

import "github.com/clevermacaw/ethcore/common/hexutil"

// BloomByteLength is the number of bytes used in a header log bloom.
const BloomByteLength = 256

// Bloom represents a 2048 bit bloom filter, carried in every header for
// wire compatibility even though this module never populates it (log
// execution is delegated to the external VM collaborator).
type Bloom [BloomByteLength]byte

// BytesToBloom converts a byte slice to a bloom filter, right-aligned.
func BytesToBloom(b []byte) Bloom {
	var bloom Bloom
	bloom.SetBytes(b)
	return bloom
}

// SetBytes sets the content of b to the given bytes, right-aligned.
func (b *Bloom) SetBytes(d []byte) {
	if len(b) < len(d) {
		panic("bloom bytes too big")
	}
	copy(b[BloomByteLength-len(d):], d)
}

func (b Bloom) Bytes() []byte { return b[:] }

func (b Bloom) MarshalText() ([]byte, error) {
	return hexutil.Bytes(b[:]).MarshalText()
}

func (b *Bloom) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("Bloom", input, b[:])
}
