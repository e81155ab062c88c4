// Package kmer implements the bit-packed k-mer type shared by every stage
// of the GATB-Go pipeline: DSK, the Bloom/cFP debloom, BCALM, the unitig
// graph and the traversal engines.
// A k-mer is encoded 2 bits per nucleotide (A=0, C=1, T=2, G=3), leftmost
// nucleotide in the most significant 2-bit slot, packed into a uint64.
// This supports K in [1,32]; wider spans (K up to 64/96/128) are a
// documented extension point (see Span).
package kmer

import "errors"

// ErrIllegalBase means a byte outside {A,C,G,T,a,c,g,t} was seen.
var ErrIllegalBase = errors.New("kmer: illegal base")

// ErrKOverflow means K is outside [1,32] for the 64-bit Code type.
var ErrKOverflow = errors.New("kmer: K must be in [1,32] for a 64-bit code")

// Span tags the bit-width family a Code belongs to. GATB-Go concretely
// implements Span64 (K<=32); Span128/Span192/Span256 are reserved tags for
// a wider word type, to be added the same way Span64 is built, without
// touching callers that only depend on the Span interface.
type Span int

const (
	Span64 Span = iota
	Span128
	Span192
	Span256
)

// Code is the 2-bit-packed representation of a k-mer, K<=32.
type Code uint64

// nt2bits maps an ASCII nucleotide to its 2-bit code. IUPAC ambiguity codes
// are not accepted here: anything that isn't plain ACGT is rejected. The
// k-mer Iterator skips every window that contains such a byte and goes on
// with the rest of the sequence; the sequence as a whole is not skipped.
func nt2bits(b byte) (Code, bool) {
	switch b {
	case 'A', 'a':
		return 0, true
	case 'C', 'c':
		return 1, true
	case 'T', 't':
		return 2, true
	case 'G', 'g':
		return 3, true
	default:
		return 0, false
	}
}

var bits2nt = [4]byte{'A', 'C', 'T', 'G'}

// Encode builds the k-mer at data[offset:offset+k]. It returns
// ErrIllegalBase on the first non-ACGT byte.
func Encode(data []byte, offset, k int) (Code, error) {
	if k <= 0 || k > 32 {
		return 0, ErrKOverflow
	}
	var code Code
	for i := 0; i < k; i++ {
		v, ok := nt2bits(data[offset+i])
		if !ok {
			return 0, ErrIllegalBase
		}
		code = (code << 2) | v
	}
	return code, nil
}

// Mask returns the bitmask covering exactly 2*k bits.
func Mask(k int) Code {
	if k >= 32 {
		return ^Code(0)
	}
	return (Code(1) << uint(2*k)) - 1
}

// Complement returns the code with every nucleotide replaced by its
// Watson-Crick complement (A<->T, C<->G, i.e. x XOR 2 under this
// encoding), position unchanged.
func Complement(code Code, k int) Code {
	var c Code
	mask := code
	for i := 0; i < k; i++ {
		c |= (mask&3 ^ 2) << uint(i<<1)
		mask >>= 2
	}
	return c
}

// Reverse returns the code with nucleotide order reversed, values unchanged.
func Reverse(code Code, k int) (c Code) {
	for i := 0; i < k; i++ {
		c <<= 2
		c |= code & 3
		code >>= 2
	}
	return
}

// RevComp returns the reverse complement of code.
func RevComp(code Code, k int) (c Code) {
	for i := 0; i < k; i++ {
		c <<= 2
		c |= code&3 ^ 2
		code >>= 2
	}
	return
}

// Canonical returns min(code, revcomp(code)).
func Canonical(code Code, k int) Code {
	rc := RevComp(code, k)
	if rc < code {
		return rc
	}
	return code
}

// Decode renders code back to ASCII.
func Decode(code Code, k int) []byte {
	out := make([]byte, k)
	for i := 0; i < k; i++ {
		out[k-1-i] = bits2nt[code&3]
		code >>= 2
	}
	return out
}

// Direction is the side a k-mer is being extended from.
type Direction int

const (
	// Outgoing appends a nucleotide on the right (3' extension).
	Outgoing Direction = iota
	// Incoming prepends a nucleotide on the left (5' extension), expressed
	// in the same coordinate frame as Outgoing (i.e. the nucleotide is the
	// one that would precede the k-mer when reading left to right).
	Incoming
)

// Mode selects which representation Next returns.
type Mode int

const (
	ModeDirect Mode = iota
	ModeRevComp
	ModeCanonical
)

// Next performs a shift-and-insert extension of code by nucleotide nt in
// the given direction, returning the form selected by mode.
func Next(code Code, k int, nt byte, dir Direction, mode Mode) (Code, error) {
	v, ok := nt2bits(nt)
	if !ok {
		return 0, ErrIllegalBase
	}
	var direct Code
	switch dir {
	case Outgoing:
		direct = ((code << 2) | v) & Mask(k)
	case Incoming:
		direct = (code >> 2) | (v << uint(2*(k-1)))
	}
	switch mode {
	case ModeDirect:
		return direct, nil
	case ModeRevComp:
		return RevComp(direct, k), nil
	case ModeCanonical:
		return Canonical(direct, k), nil
	}
	return direct, nil
}

// KMer pairs a Code with its width.
type KMer struct {
	Code Code
	K    int
}

// NewKMer encodes data[offset:offset+k] into a KMer.
func NewKMer(data []byte, offset, k int) (KMer, error) {
	code, err := Encode(data, offset, k)
	if err != nil {
		return KMer{}, err
	}
	return KMer{Code: code, K: k}, nil
}

// Equal reports whether two KMers carry the same code and width.
func (m KMer) Equal(o KMer) bool { return m.K == o.K && m.Code == o.Code }

// RevComp returns the reverse complement KMer.
func (m KMer) RevComp() KMer { return KMer{RevComp(m.Code, m.K), m.K} }

// Canonical returns the canonical KMer.
func (m KMer) Canonical() KMer { return KMer{Canonical(m.Code, m.K), m.K} }

// Bytes decodes the KMer to ASCII.
func (m KMer) Bytes() []byte { return Decode(m.Code, m.K) }

// String decodes the KMer to a string.
func (m KMer) String() string { return string(m.Bytes()) }

// Next extends the KMer by one nucleotide.
func (m KMer) Next(nt byte, dir Direction, mode Mode) (KMer, error) {
	c, err := Next(m.Code, m.K, nt, dir, mode)
	if err != nil {
		return KMer{}, err
	}
	return KMer{Code: c, K: m.K}, nil
}

// Neighbors returns the 4 outgoing or incoming canonical neighbor KMers of
// m, used by debloom and unitig-graph navigation. The returned
// slice is always length 4, one per nucleotide A,C,T,G in that order;
// callers that need the extending nucleotide alongside the neighbor should
// call Next directly.
func (m KMer) Neighbors(dir Direction) [4]KMer {
	var out [4]KMer
	for i, nt := range bits2nt {
		next, _ := m.Next(nt, dir, ModeCanonical)
		out[i] = next
	}
	return out
}
