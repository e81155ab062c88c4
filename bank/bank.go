// Package bank defines the sequence-input boundary consumed by DSK and
// BCALM. FASTA/FASTQ/gz parsing itself is an external collaborator; this
// package only defines the Sequence record and Reader contract, plus a
// thin adapter over the FASTA/FASTQ parser the module already depends on.
package bank

import (
	"io"

	"github.com/shenwei356/bio/seqio/fastx"
)

// Sequence is one record from an input bank.
type Sequence struct {
	ID      uint64
	Comment string
	Data    []byte
	Quality []byte
}

// Reader produces Sequences until io.EOF.
type Reader interface {
	Read() (Sequence, error)
}

// FastxReader adapts github.com/shenwei356/bio/seqio/fastx.Reader, which
// handles FASTA, FASTQ and gzipped input, to the Reader contract.
type FastxReader struct {
	r    *fastx.Reader
	next uint64
}

// NewFastxReader opens file (FASTA, FASTQ, optionally gzipped) for reading.
func NewFastxReader(file string) (*FastxReader, error) {
	r, err := fastx.NewDefaultReader(file)
	if err != nil {
		return nil, err
	}
	return &FastxReader{r: r}, nil
}

// Read returns the next sequence record, or io.EOF when exhausted.
func (f *FastxReader) Read() (Sequence, error) {
	record, err := f.r.Read()
	if err != nil {
		if err == io.EOF {
			return Sequence{}, io.EOF
		}
		return Sequence{}, err
	}
	id := f.next
	f.next++
	var qual []byte
	if len(record.Seq.Qual) > 0 {
		qual = append([]byte(nil), record.Seq.Qual...)
	}
	return Sequence{
		ID:      id,
		Comment: string(record.Name),
		Data:    append([]byte(nil), record.Seq.Seq...),
		Quality: qual,
	}, nil
}

// Factory opens named banks, replacing the GATB BankRegistery global
// singleton with an explicit dependency.
type Factory interface {
	Open(uri string) (Reader, error)
}

// FastxFactory opens files through NewFastxReader.
type FastxFactory struct{}

// Open implements Factory.
func (FastxFactory) Open(uri string) (Reader, error) {
	return NewFastxReader(uri)
}

// SliceReader adapts an in-memory slice of byte sequences to Reader, used
// by tests.
type SliceReader struct {
	seqs [][]byte
	pos  int
}

// NewSliceReader returns a Reader over seqs.
func NewSliceReader(seqs [][]byte) *SliceReader {
	return &SliceReader{seqs: seqs}
}

// Read implements Reader.
func (s *SliceReader) Read() (Sequence, error) {
	if s.pos >= len(s.seqs) {
		return Sequence{}, io.EOF
	}
	seq := Sequence{ID: uint64(s.pos), Data: s.seqs[s.pos]}
	s.pos++
	return seq, nil
}
