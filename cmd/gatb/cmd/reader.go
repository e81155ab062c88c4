package cmd

import (
	"io"

	"github.com/gatb-go/gatb/bank"
)

// multiFileReader concatenates a fixed list of FASTA/FASTQ files into a
// single bank.Reader. The first file is opened when the reader is built,
// each later one when the previous file is exhausted.
type multiFileReader struct {
	files []string
	idx   int
	cur   bank.Reader
}

func newMultiFileReader(files []string) (*multiFileReader, error) {
	m := &multiFileReader{files: files}
	if err := m.openNext(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *multiFileReader) openNext() error {
	for m.idx < len(m.files) {
		r, err := bank.NewFastxReader(m.files[m.idx])
		m.idx++
		if err != nil {
			return err
		}
		m.cur = r
		return nil
	}
	m.cur = nil
	return nil
}

func (m *multiFileReader) Read() (bank.Sequence, error) {
	for {
		if m.cur == nil {
			return bank.Sequence{}, io.EOF
		}
		seq, err := m.cur.Read()
		if err == io.EOF {
			if openErr := m.openNext(); openErr != nil {
				return bank.Sequence{}, openErr
			}
			continue
		}
		return seq, err
	}
}

// openerFor builds a pipeline.Opener (dsk.Opener) that re-reads files from
// the beginning on every invocation.
func openerFor(files []string) func() (bank.Reader, error) {
	return func() (bank.Reader, error) {
		return newMultiFileReader(files)
	}
}
