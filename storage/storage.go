// Package storage provides the filesystem-directory-backed implementation
// of the "group / partition / collection" storage abstraction used by DSK,
// the debloom stage and BCALM. On-disk records are framed as
// [u32 block_size_bytes][bytes] blocks. Partition files are
// gzip-compressed with pgzip.
package storage

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strconv"

	gzip "github.com/klauspost/pgzip"
)

var be = binary.BigEndian

// Group is a named directory of Collections, mirroring GATB's HDF5
// "group" concept with a plain directory.
type Group struct {
	Dir string
}

// NewGroup creates (if needed) and returns a directory-backed Group.
func NewGroup(dir string) (*Group, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Group{Dir: dir}, nil
}

// Path returns the path of a named collection file within the group.
func (g *Group) Path(name string) string {
	return filepath.Join(g.Dir, name)
}

// Remove deletes the entire group directory and its contents.
func (g *Group) Remove() error {
	return os.RemoveAll(g.Dir)
}

// CollectionWriter appends framed records to a Collection file, optionally
// through a parallel-gzip stream.
type CollectionWriter struct {
	f  *os.File
	gz *gzip.Writer // nil when the collection is plain
	w  *bufio.Writer
}

func newCollectionWriter(f *os.File, gzipped bool) *CollectionWriter {
	if gzipped {
		gw := gzip.NewWriter(f)
		return &CollectionWriter{f: f, gz: gw, w: bufio.NewWriterSize(gw, 64*1024)}
	}
	return &CollectionWriter{f: f, w: bufio.NewWriterSize(f, 64*1024)}
}

// CreateCollection truncates (or creates) name within the group for
// writing.
func (g *Group) CreateCollection(name string) (*CollectionWriter, error) {
	f, err := os.Create(g.Path(name))
	if err != nil {
		return nil, err
	}
	return newCollectionWriter(f, false), nil
}

// AppendCollection opens name within the group for appending.
func (g *Group) AppendCollection(name string) (*CollectionWriter, error) {
	f, err := os.OpenFile(g.Path(name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return newCollectionWriter(f, false), nil
}

// WriteBlock writes one framed [u32 size][bytes] record.
func (c *CollectionWriter) WriteBlock(data []byte) error {
	var sz [4]byte
	be.PutUint32(sz[:], uint32(len(data)))
	if _, err := c.w.Write(sz[:]); err != nil {
		return err
	}
	_, err := c.w.Write(data)
	return err
}

// Flush flushes the buffered writer (and any gzip stream) to disk.
func (c *CollectionWriter) Flush() error {
	if err := c.w.Flush(); err != nil {
		return err
	}
	if c.gz != nil {
		return c.gz.Flush()
	}
	return nil
}

// Close flushes and closes the underlying file.
func (c *CollectionWriter) Close() error {
	if err := c.w.Flush(); err != nil {
		c.f.Close()
		return err
	}
	if c.gz != nil {
		if err := c.gz.Close(); err != nil {
			c.f.Close()
			return err
		}
	}
	return c.f.Close()
}

// CollectionReader reads framed records back from a Collection file,
// transparently decompressing gzip content detected by magic bytes.
type CollectionReader struct {
	f *os.File
	r *bufio.Reader
}

func newCollectionReader(f *os.File) (*CollectionReader, error) {
	br := bufio.NewReaderSize(f, 64*1024)
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gr, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, err
		}
		br = bufio.NewReaderSize(gr, 64*1024)
	}
	return &CollectionReader{f: f, r: br}, nil
}

// OpenCollection opens name within the group for reading.
func (g *Group) OpenCollection(name string) (*CollectionReader, error) {
	f, err := os.Open(g.Path(name))
	if err != nil {
		return nil, err
	}
	return newCollectionReader(f)
}

// ReadBlock reads the next framed record, returning io.EOF when exhausted.
func (c *CollectionReader) ReadBlock() ([]byte, error) {
	var sz [4]byte
	if _, err := io.ReadFull(c.r, sz[:]); err != nil {
		return nil, err
	}
	n := be.Uint32(sz[:])
	data := make([]byte, n)
	if _, err := io.ReadFull(c.r, data); err != nil {
		return nil, err
	}
	return data, nil
}

// Close closes the underlying file.
func (c *CollectionReader) Close() error { return c.f.Close() }

// PartitionSet manages N numbered partition collections within a group,
// one gzip-compressed file per (pass,partition) pair, each written in one
// pass and consumed exactly once.
type PartitionSet struct {
	group *Group
	pass  int
	n     int
}

// NewPartitionSet creates a PartitionSet of n partitions for pass p.
func NewPartitionSet(g *Group, pass, n int) *PartitionSet {
	return &PartitionSet{group: g, pass: pass, n: n}
}

func (p *PartitionSet) name(part int) string {
	return filepath.Join("pass", strconv.Itoa(p.pass), "part."+strconv.Itoa(part)+".gz")
}

// Create opens partition `part` for writing, creating parent directories
// as needed.
func (p *PartitionSet) Create(part int) (*CollectionWriter, error) {
	full := p.group.Path(p.name(part))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(full)
	if err != nil {
		return nil, err
	}
	return newCollectionWriter(f, true), nil
}

// Append opens partition `part` for appending; the appended records start
// a new gzip member, which the reader consumes as one continuous stream.
func (p *PartitionSet) Append(part int) (*CollectionWriter, error) {
	full := p.group.Path(p.name(part))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return newCollectionWriter(f, true), nil
}

// Open opens partition `part` for reading.
func (p *PartitionSet) Open(part int) (*CollectionReader, error) {
	f, err := os.Open(p.group.Path(p.name(part)))
	if err != nil {
		return nil, err
	}
	return newCollectionReader(f)
}

// RemoveAll deletes every partition file for this pass.
func (p *PartitionSet) RemoveAll() error {
	return os.RemoveAll(p.group.Path(filepath.Join("pass", strconv.Itoa(p.pass))))
}
