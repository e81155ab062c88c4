package storage

import (
	"io"
	"path/filepath"
	"testing"
)

func TestCollectionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGroup(filepath.Join(dir, "g"))
	if err != nil {
		t.Fatal(err)
	}
	w, err := g.CreateCollection("data")
	if err != nil {
		t.Fatal(err)
	}
	records := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
	for _, r := range records {
		if err := w.WriteBlock(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := g.OpenCollection("data")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	for i, want := range records {
		got, err := r.ReadBlock()
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if string(got) != string(want) {
			t.Errorf("record %d: got %q want %q", i, got, want)
		}
	}
	if _, err := r.ReadBlock(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestPartitionSetIsolatesPasses(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGroup(dir)
	if err != nil {
		t.Fatal(err)
	}
	ps0 := NewPartitionSet(g, 0, 4)
	w, err := ps0.Create(2)
	if err != nil {
		t.Fatal(err)
	}
	w.WriteBlock([]byte("p0"))
	w.Close()

	ps1 := NewPartitionSet(g, 1, 4)
	w1, err := ps1.Create(2)
	if err != nil {
		t.Fatal(err)
	}
	w1.WriteBlock([]byte("p1"))
	w1.Close()

	r0, err := ps0.Open(2)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := r0.ReadBlock()
	r0.Close()
	if string(got) != "p0" {
		t.Errorf("pass 0 partition 2 contaminated: got %q", got)
	}

	if err := ps0.RemoveAll(); err != nil {
		t.Fatal(err)
	}
	if _, err := ps1.Open(2); err != nil {
		t.Errorf("removing pass 0 should not affect pass 1: %v", err)
	}
}
