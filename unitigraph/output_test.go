package unitigraph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFASTACarriesLinks(t *testing.T) {
	units, links := chainFixture()
	g := Build(units, links, 4)

	var buf bytes.Buffer
	written := WriteFASTA(&buf, g)
	require.Equal(t, 3, written)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], ">unitig_0")
	assert.Contains(t, lines[0], "ka:f:")
	assert.Contains(t, lines[0], "L:+:1:")
	assert.Equal(t, "AAAA", lines[1])
	// the middle unitig links both ways
	assert.Contains(t, lines[2], "L:+:2:")
	assert.Contains(t, lines[2], "L:-:0:")
}

func TestWriteFASTASkipsDeleted(t *testing.T) {
	units, links := chainFixture()
	g := Build(units, links, 4)
	g.Deleted[1] = true

	var buf bytes.Buffer
	written := WriteFASTA(&buf, g)
	assert.Equal(t, 2, written)
	assert.NotContains(t, buf.String(), ">unitig_1")
	// links to the deleted unitig must not surface either
	assert.NotContains(t, buf.String(), ":1:")
}

func TestWriteGFAEmitsSAndLLines(t *testing.T) {
	units, links := chainFixture()
	g := Build(units, links, 4)

	var buf bytes.Buffer
	written := WriteGFA(&buf, g)
	require.Equal(t, 3, written)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "H\tVN:Z:1.0"))
	assert.Equal(t, 3, strings.Count(out, "\nS\t"))
	assert.Equal(t, 2, strings.Count(out, "\nL\t"))
	assert.Contains(t, out, "\t3M\n") // k-1 overlap for k=4
}
