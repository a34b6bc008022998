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

package eth

import (
	"github.com/golang/snappy"
)

// encodePayload snappy-compresses data when the peer's devp2p transport
// version is >= 5, otherwise returns it unchanged (§4.A). Every outbound
// Send in this package must route its payload through this before handing
// it to the RLPxTransport.
func encodePayload(p *Peer, data []byte) []byte {
	if p.rw.DevP2PVersion() < snappyVersion {
		return data
	}
	return snappy.Encode(nil, data)
}

// decodePayload reverses encodePayload. Every inbound Frame.Data must be
// passed through this before RLP-decoding it.
func decodePayload(p *Peer, data []byte) ([]byte, error) {
	if p.rw.DevP2PVersion() < snappyVersion {
		return data, nil
	}
	return snappy.Decode(nil, data)
}
