package stats

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thelolagemann/gbcore/internal/opcodes"
)

func TestHistogram(t *testing.T) {
	table := opcodes.Default()
	h := NewHistogram()

	// NOP, NOP, NOP, LD B,d8, LD C,d8, XOR A
	for _, op := range []uint8{0x00, 0x00, 0x00, 0x06, 0x0E, 0xAF} {
		h.Count(table.Primary(op))
	}

	assert.Equal(t, uint64(6), h.Total())
	assert.Equal(t, []Entry{
		{Mnemonic: "NOP", Count: 3},
		{Mnemonic: "LD", Count: 2},
		{Mnemonic: "XOR", Count: 1},
	}, h.Entries())
	assert.Contains(t, h.String(), "NOP             3  50.00%")
}

func TestHistogram_WritePNG(t *testing.T) {
	h := NewHistogram()
	h.Count(opcodes.Default().Primary(0x00))

	var buf bytes.Buffer
	require.NoError(t, h.WritePNG(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	// an empty histogram still renders
	path := filepath.Join(t.TempDir(), "empty.png")
	require.NoError(t, NewHistogram().SavePNG(path))
}
