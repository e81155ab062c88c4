package bloom

import (
	"bytes"
	"testing"
)

func TestFilterWriteReadRoundTrip(t *testing.T) {
	solid := randomSolid(100, 17, 9)
	f := Build(solid, 17)

	var buf bytes.Buffer
	if err := f.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFilter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.NBits() != f.NBits() || got.NbHashes() != f.NbHashes() {
		t.Fatalf("header mismatch: got (%d,%d) want (%d,%d)", got.NBits(), got.NbHashes(), f.NBits(), f.NbHashes())
	}
	for _, c := range solid {
		if !got.Contains(c) {
			t.Fatalf("loaded filter lost inserted k-mer %v", c)
		}
	}
}

func TestReadFilterRejectsBadMagic(t *testing.T) {
	if _, err := ReadFilter(bytes.NewReader([]byte("not a bloom file"))); err != ErrInvalidFormat {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}
