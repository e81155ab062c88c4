package bloom

import (
	"encoding/binary"
	"errors"
	"io"
)

var magic = [8]byte{'g', 'a', 't', 'b', 'b', 'l', 'o', 'o'}

// ErrInvalidFormat means the binary block's magic number didn't match.
var ErrInvalidFormat = errors.New("bloom: invalid file format")

var be = binary.BigEndian

// WriteTo persists the filter as a single binary block: magic, u64 nbits,
// u16 nb_hashes, then the word-packed bit array.
func (f *Filter) WriteTo(w io.Writer) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, be, f.nbits); err != nil {
		return err
	}
	if err := binary.Write(w, be, uint16(f.nbHashes)); err != nil {
		return err
	}
	return binary.Write(w, be, f.bits)
}

// ReadFilter loads a filter previously written by WriteTo.
func ReadFilter(r io.Reader) (*Filter, error) {
	var m [8]byte
	if err := binary.Read(r, be, &m); err != nil {
		return nil, err
	}
	if m != magic {
		return nil, ErrInvalidFormat
	}
	f := &Filter{}
	if err := binary.Read(r, be, &f.nbits); err != nil {
		return nil, err
	}
	var h uint16
	if err := binary.Read(r, be, &h); err != nil {
		return nil, err
	}
	f.nbHashes = int(h)
	f.bits = make([]uint64, (f.nbits+63)/64)
	if err := binary.Read(r, be, f.bits); err != nil {
		return nil, err
	}
	return f, nil
}
