package kmer

import "sync/atomic"

// Iterator walks a byte sequence producing (canonical k-mer, is_forward,
// position) triples, skipping past any run containing a non-ACGT byte
//. It is finite (bounded by len(data)-k+1 windows),
// restartable (Reset) and cooperatively cancellable (Cancel).
type Iterator struct {
	data      []byte
	k         int
	pos       int
	cancelled int32
}

// NewIterator returns an Iterator over data for k-mers of length k.
func NewIterator(data []byte, k int) *Iterator {
	return &Iterator{data: data, k: k}
}

// Reset restarts the iterator from the beginning of data. It does not
// clear a prior Cancel.
func (it *Iterator) Reset() { it.pos = 0 }

// Cancel sets the cooperative cancellation flag; the next call to Next
// will return ok=false. Safe to call from another goroutine.
func (it *Iterator) Cancel() { atomic.StoreInt32(&it.cancelled, 1) }

// Cancelled reports whether Cancel has been called.
func (it *Iterator) Cancelled() bool { return atomic.LoadInt32(&it.cancelled) != 0 }

// Next returns the next valid window's canonical k-mer, whether the
// direct (uncomplemented) form was already the canonical one, and the
// 0-based start position of the window in data. ok is false once the
// sequence is exhausted or the iterator was cancelled.
func (it *Iterator) Next() (canon KMer, isForward bool, pos int, ok bool) {
	k := it.k
	last := len(it.data) - k
	for it.pos <= last {
		if it.Cancelled() {
			return KMer{}, false, 0, false
		}
		direct, err := Encode(it.data, it.pos, k)
		if err != nil {
			// advance past the offending window; re-encode will fail
			// again at each position until the bad byte leaves the
			// window, which naturally "skips past" it.
			it.pos++
			continue
		}
		rc := RevComp(direct, k)
		isForward = direct <= rc
		var c Code
		if isForward {
			c = direct
		} else {
			c = rc
		}
		p := it.pos
		it.pos++
		return KMer{Code: c, K: k}, isForward, p, true
	}
	return KMer{}, false, 0, false
}
