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

package rlp

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"reflect"
	"sync"
)

var (
	// Common encoded values, computed at init time.
	encoderInterface = reflect.TypeOf(new(Encoder)).Elem()
	big0             = big.NewInt(0)
)

// Encoder is implemented by types that require custom encoding rules or
// want to encode private fields.
type Encoder interface {
	// EncodeRLP should write the RLP encoding of its receiver to w. It is
	// not called for nil pointers; those are written as an empty string or
	// empty list instead.
	//
	// Implementations should generate valid RLP. The data written is not
	// verified at the moment, but a future version might. It is recommended
	// to write only a single value but writing multiple values or no value
	// at all is also permitted.
	EncodeRLP(io.Writer) error
}

// Encode writes the RLP encoding of val to w.
func Encode(w io.Writer, val interface{}) error {
	buf := getEncBuffer()
	defer encBufferPool.Put(buf)
	if err := buf.encode(val); err != nil {
		return err
	}
	return buf.writeTo(w)
}

// EncodeToBytes returns the RLP encoding of val.
func EncodeToBytes(val interface{}) ([]byte, error) {
	buf := getEncBuffer()
	defer encBufferPool.Put(buf)

	if err := buf.encode(val); err != nil {
		return nil, err
	}
	return buf.makeBytes(), nil
}

// EncodeToReader returns a reader from which the RLP encoding of val can be
// read. The returned size is the total size of the encoded data.
func EncodeToReader(val interface{}) (size int, r io.Reader, err error) {
	buf := getEncBuffer()
	if err := buf.encode(val); err != nil {
		encBufferPool.Put(buf)
		return 0, nil, err
	}
	return buf.size(), &encReader{buf: buf}, nil
}

type encbuf struct {
	str     []byte
	lheads  []*listhead
	lhsize  int
	sizebuf [9]byte
}

type listhead struct {
	offset int
	size   int
}

// encode writes head to the given buffer, which must be at least
// 9 bytes long. It returns the encoded bytes.
func (head *listhead) encode(buf []byte) []byte {
	return buf[:puthead(buf, 0xC0, 0xF7, uint64(head.size))]
}

// headsize returns the size of a list or string header for a value of the
// given size.
func headsize(size uint64) int {
	if size < 56 {
		return 1
	}
	return 1 + intsize(size)
}

// puthead writes a list or string header to buf. buf must be
// at least 9 bytes long.
func puthead(buf []byte, smalltag, largetag byte, size uint64) int {
	if size < 56 {
		buf[0] = smalltag + byte(size)
		return 1
	}
	sizesize := putint(buf[1:], size)
	buf[0] = largetag + byte(sizesize)
	return sizesize + 1
}

func (buf *encbuf) reset() {
	buf.lhsize = 0
	buf.str = buf.str[:0]
	buf.lheads = buf.lheads[:0]
}

func (buf *encbuf) size() int {
	return len(buf.str) + buf.lhsize
}

func (buf *encbuf) toBytes() []byte {
	out := make([]byte, buf.size())
	buf.copyTo(out)
	return out
}

func (buf *encbuf) copyTo(dst []byte) {
	strpos := 0
	pos := 0
	for _, head := range buf.lheads {
		n := copy(dst[pos:], buf.str[strpos:head.offset])
		pos += n
		strpos += n

		enc := head.encode(dst[pos:])
		pos += len(enc)
	}
	copy(dst[pos:], buf.str[strpos:])
}

func (buf *encbuf) writeTo(w io.Writer) (err error) {
	strpos := 0
	for _, head := range buf.lheads {
		if head.offset-strpos > 0 {
			n, err := w.Write(buf.str[strpos:head.offset])
			strpos += n
			if err != nil {
				return err
			}
		}
		enc := head.encode(buf.sizebuf[:])
		if _, err = w.Write(enc); err != nil {
			return err
		}
	}
	if strpos < len(buf.str) {
		_, err = w.Write(buf.str[strpos:])
	}
	return err
}

// encbuf implements io.Writer so it can be passed into EncodeRLP calls.
func (buf *encbuf) Write(b []byte) (int, error) {
	buf.str = append(buf.str, b...)
	return len(b), nil
}

func (buf *encbuf) writeBool(b bool) {
	if b {
		buf.str = append(buf.str, 0x01)
	} else {
		buf.str = append(buf.str, 0x80)
	}
}

func (buf *encbuf) writeUint64(i uint64) {
	if i == 0 {
		buf.str = append(buf.str, 0x80)
	} else if i < 0x80 {
		buf.str = append(buf.str, byte(i))
	} else {
		s := putint(buf.sizebuf[1:], i)
		buf.sizebuf[0] = 0x80 + byte(s)
		buf.str = append(buf.str, buf.sizebuf[:s+1]...)
	}
}

func (buf *encbuf) writeBytes(b []byte) {
	if len(b) == 1 && b[0] <= 0x7f {
		buf.str = append(buf.str, b[0])
	} else {
		buf.encodeStringHeader(len(b))
		buf.str = append(buf.str, b...)
	}
}

func (buf *encbuf) writeString(s string) {
	buf.writeBytes([]byte(s))
}

func (buf *encbuf) writeBigInt(i *big.Int) {
	bitlen := i.BitLen()
	if bitlen <= 64 {
		buf.writeUint64(i.Uint64())
		return
	}
	nbytes := (bitlen + 7) / 8
	buf.encodeStringHeader(nbytes)
	pos := len(buf.str)
	buf.str = append(buf.str, make([]byte, nbytes)...)
	i.FillBytes(buf.str[pos : pos+nbytes])
}

func (buf *encbuf) encodeStringHeader(size int) {
	if size < 56 {
		buf.str = append(buf.str, 0x80+byte(size))
	} else {
		sizesize := putint(buf.sizebuf[1:], uint64(size))
		buf.sizebuf[0] = 0xB7 + byte(sizesize)
		buf.str = append(buf.str, buf.sizebuf[:sizesize+1]...)
	}
}

// list adds a new list header to the header stack. It returns the header.
// Call listEnd with this header after encoding the content of the list.
func (buf *encbuf) list() *listhead {
	lh := &listhead{offset: len(buf.str), size: buf.lhsize}
	buf.lheads = append(buf.lheads, lh)
	return lh
}

func (buf *encbuf) listEnd(lh *listhead) {
	lh.size = buf.size() - lh.offset - lh.size
	if lh.size < 56 {
		buf.lhsize++
	} else {
		buf.lhsize += 1 + intsize(uint64(lh.size))
	}
}

func (buf *encbuf) encode(val interface{}) error {
	rval := reflect.ValueOf(val)
	writer, err := cachedWriter(rval.Type())
	if err != nil {
		return err
	}
	return writer(rval, buf)
}

func (buf *encbuf) encodeStringValue(v reflect.Value) error {
	buf.writeString(v.String())
	return nil
}

type encReader struct {
	buf    *encbuf
	lhpos  int
	strpos int
	piece  []byte
}

func (r *encReader) Read(b []byte) (n int, err error) {
	for {
		if r.piece = r.next(); r.piece == nil {
			if r.buf != nil {
				encBufferPool.Put(r.buf)
				r.buf = nil
			}
			return n, io.EOF
		}
		nn := copy(b[n:], r.piece)
		n += nn
		if nn < len(r.piece) {
			r.piece = r.piece[nn:]
			return n, nil
		}
		r.piece = nil
		if n == len(b) {
			return n, nil
		}
	}
}

func (r *encReader) next() []byte {
	switch {
	case r.buf == nil:
		return nil
	case r.piece != nil:
		return r.piece
	case r.lhpos < len(r.buf.lheads):
		head := r.buf.lheads[r.lhpos]
		sizebefore := head.offset - r.strpos
		if sizebefore > 0 {
			p := r.buf.str[r.strpos:head.offset]
			r.strpos += sizebefore
			return p
		}
		enc := head.encode(r.buf.sizebuf[:])
		r.lhpos++
		return enc
	case r.strpos < len(r.buf.str):
		p := r.buf.str[r.strpos:]
		r.strpos = len(r.buf.str)
		return p
	default:
		return nil
	}
}

func putint(b []byte, i uint64) (size int) {
	switch {
	case i < (1 << 8):
		b[0] = byte(i)
		return 1
	case i < (1 << 16):
		binary.BigEndian.PutUint16(b, uint16(i))
		return 2
	case i < (1 << 24):
		b[0] = byte(i >> 16)
		binary.BigEndian.PutUint16(b[1:], uint16(i))
		return 3
	case i < (1 << 32):
		binary.BigEndian.PutUint32(b, uint32(i))
		return 4
	case i < (1 << 40):
		b[0] = byte(i >> 32)
		binary.BigEndian.PutUint32(b[1:], uint32(i))
		return 5
	case i < (1 << 48):
		binary.BigEndian.PutUint16(b, uint16(i>>32))
		binary.BigEndian.PutUint32(b[2:], uint32(i))
		return 6
	case i < (1 << 56):
		b[0] = byte(i >> 48)
		binary.BigEndian.PutUint16(b[1:], uint16(i>>32))
		binary.BigEndian.PutUint32(b[3:], uint32(i))
		return 7
	default:
		binary.BigEndian.PutUint64(b, i)
		return 8
	}
}

func intsize(val uint64) (i int) {
	for i = 1; ; i++ {
		if val >>= 8; val == 0 {
			return i
		}
	}
}

// EncoderBuffer is a buffer for incremental encoding.
type EncoderBuffer struct {
	buf *encbuf
	dst io.Writer
	ownBuffer bool
}

// NewEncoderBuffer creates an encoder buffer that writes to w. If w is nil,
// the buffer only writes to memory and no I/O happens until Flush is
// called.
func NewEncoderBuffer(w io.Writer) EncoderBuffer {
	buf := getEncBuffer()
	return EncoderBuffer{buf, w, true}
}

// Flush writes the encoder output to the underlying stream.
func (w EncoderBuffer) Flush() error {
	var err error
	if w.dst != nil {
		err = w.buf.writeTo(w.dst)
	}
	if w.ownBuffer {
		encBufferPool.Put(w.buf)
	}
	return err
}

// ToBytes returns the encoded bytes.
func (w EncoderBuffer) ToBytes() []byte {
	return w.buf.toBytes()
}

// Write appends b to the encoder output.
func (w EncoderBuffer) Write(b []byte) (int, error) {
	return w.buf.Write(b)
}

// WriteBool writes b as the RLP boolean true and false.
func (w EncoderBuffer) WriteBool(b bool) {
	w.buf.writeBool(b)
}

// WriteUint64 encodes an unsigned integer.
func (w EncoderBuffer) WriteUint64(i uint64) {
	w.buf.writeUint64(i)
}

// WriteBigInt encodes a big.Int as an RLP string.
func (w EncoderBuffer) WriteBigInt(i *big.Int) {
	w.buf.writeBigInt(i)
}

// WriteBytes encodes b as an RLP string.
func (w EncoderBuffer) WriteBytes(b []byte) {
	w.buf.writeBytes(b)
}

// WriteString encodes s as an RLP string.
func (w EncoderBuffer) WriteString(s string) {
	w.buf.writeString(s)
}

// List starts a list. It returns an internal list header. Call ListEnd
// with this header after encoding the content to close the list.
func (w EncoderBuffer) List() *listhead {
	return w.buf.list()
}

// ListEnd closes a list started with List.
func (w EncoderBuffer) ListEnd(index *listhead) {
	w.buf.listEnd(index)
}

var encBufferPool = sync.Pool{
	New: func() interface{} { return new(encbuf) },
}

func getEncBuffer() *encbuf {
	buf := encBufferPool.Get().(*encbuf)
	buf.reset()
	return buf
}

func (buf *encbuf) makeBytes() []byte {
	return buf.toBytes()
}

func makeWriter(typ reflect.Type, ts tags) (writer, error) {
	kind := typ.Kind()
	switch {
	case typ == rawValueType:
		return writeRawValue, nil
	case typ.AssignableTo(reflect.PtrTo(bigInt)):
		return writePtrBigInt, nil
	case typ.AssignableTo(bigInt):
		return writeBigIntNoPtr, nil
	case kind == reflect.Ptr:
		return makePtrWriter(typ, ts)
	case typ.Implements(encoderInterface):
		return writeEncoder, nil
	case reflect.PtrTo(typ).Implements(encoderInterface):
		return writeEncoderNoPtr, nil
	case isUint(kind):
		return writeUint, nil
	case kind == reflect.Bool:
		return writeBool, nil
	case kind == reflect.String:
		return writeString, nil
	case kind == reflect.Slice && isByte(typ.Elem()):
		return writeBytes, nil
	case kind == reflect.Array && isByte(typ.Elem()):
		return writeByteArray, nil
	case kind == reflect.Slice || kind == reflect.Array:
		return makeSliceWriter(typ, ts)
	case kind == reflect.Struct:
		return makeStructWriter(typ)
	case kind == reflect.Interface:
		return writeInterface, nil
	default:
		return nil, fmt.Errorf("rlp: type %v is not RLP-serializable", typ)
	}
}

func writeRawValue(val reflect.Value, w *encbuf) error {
	w.str = append(w.str, val.Bytes()...)
	return nil
}

func writeUint(val reflect.Value, w *encbuf) error {
	w.writeUint64(val.Uint())
	return nil
}

func writeBool(val reflect.Value, w *encbuf) error {
	w.writeBool(val.Bool())
	return nil
}

func writeString(val reflect.Value, w *encbuf) error {
	w.writeString(val.String())
	return nil
}

func writeBytes(val reflect.Value, w *encbuf) error {
	w.writeBytes(val.Bytes())
	return nil
}

func writeByteArray(val reflect.Value, w *encbuf) error {
	if !val.CanAddr() {
		copyVal := reflect.New(val.Type()).Elem()
		copyVal.Set(val)
		val = copyVal
	}
	size := val.Len()
	slice := val.Slice(0, size).Bytes()
	w.writeBytes(slice)
	return nil
}

var bigInt = reflect.TypeOf(big.Int{})

func writePtrBigInt(val reflect.Value, w *encbuf) error {
	ptr := val.Interface().(*big.Int)
	if ptr == nil {
		w.str = append(w.str, 0x80)
		return nil
	}
	if ptr.Sign() == -1 {
		return fmt.Errorf("rlp: cannot encode negative *big.Int")
	}
	w.writeBigInt(ptr)
	return nil
}

func writeBigIntNoPtr(val reflect.Value, w *encbuf) error {
	i := val.Interface().(big.Int)
	if i.Sign() == -1 {
		return fmt.Errorf("rlp: cannot encode negative big.Int")
	}
	w.writeBigInt(&i)
	return nil
}

func writeEncoder(val reflect.Value, w *encbuf) error {
	return val.Interface().(Encoder).EncodeRLP(w)
}

// writeEncoderNoPtr handles Encoder with a value receiver.
func writeEncoderNoPtr(val reflect.Value, w *encbuf) error {
	if !val.CanAddr() {
		copyVal := reflect.New(val.Type()).Elem()
		copyVal.Set(val)
		val = copyVal
	}
	return val.Addr().Interface().(Encoder).EncodeRLP(w)
}

func writeInterface(val reflect.Value, w *encbuf) error {
	if val.IsNil() {
		w.str = append(w.str, 0xC0)
		return nil
	}
	eval := val.Elem()
	writer, err := cachedWriter(eval.Type())
	if err != nil {
		return err
	}
	return writer(eval, w)
}

func makeSliceWriter(typ reflect.Type, ts tags) (writer, error) {
	etypeinfo := cachedTypeInfo1(typ.Elem(), tags{})
	if etypeinfo.writerErr != nil {
		return nil, etypeinfo.writerErr
	}
	writer := func(val reflect.Value, w *encbuf) error {
		if !ts.tail {
			defer w.listEnd(w.list())
		}
		vlen := val.Len()
		for i := 0; i < vlen; i++ {
			if err := etypeinfo.writer(val.Index(i), w); err != nil {
				return err
			}
		}
		return nil
	}
	return writer, nil
}

func makePtrWriter(typ reflect.Type, ts tags) (writer, error) {
	nilEncoding := byte(0xC0)
	if defaultNilKind(typ.Elem()) == String {
		nilEncoding = 0x80
	}
	etypeinfo := cachedTypeInfo1(typ.Elem(), ts)
	if etypeinfo.writerErr != nil {
		return nil, etypeinfo.writerErr
	}
	writer := func(val reflect.Value, w *encbuf) error {
		if val.IsNil() {
			w.str = append(w.str, nilEncoding)
			return nil
		}
		return etypeinfo.writer(val.Elem(), w)
	}
	return writer, nil
}

func makeStructWriter(typ reflect.Type) (writer, error) {
	fields, err := structFields(typ)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		if f.info.writerErr != nil {
			return nil, structFieldError{typ, f.index, f.info.writerErr}
		}
	}
	writer := func(val reflect.Value, w *encbuf) error {
		lh := w.list()
		for _, f := range fields {
			if err := f.info.writer(val.Field(f.index), w); err != nil {
				return err
			}
		}
		w.listEnd(lh)
		return nil
	}
	return writer, nil
}
