package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readerOf(mem map[uint16]uint8) func(uint16) uint8 {
	return func(address uint16) uint8 { return mem[address] }
}

func TestDisassemble(t *testing.T) {
	read := readerOf(map[uint16]uint8{
		0x0100: 0x00,
		0x0101: 0xC3, 0x0102: 0x50, 0x0103: 0x01,
	})

	lines := Disassemble(read, 0x0100, 3)

	require.Len(t, lines, 3)
	assert.Equal(t, DisasmLine{Address: 0x0100, Instruction: "NOP", IsCurrent: true}, lines[0])
	assert.Equal(t, DisasmLine{Address: 0x0101, Instruction: "JP n16 ; $0150"}, lines[1])
	assert.Equal(t, uint16(0x0104), lines[2].Address)
}

func TestDisassembleStopsAtEndOfMemory(t *testing.T) {
	lines := Disassemble(readerOf(nil), 0xFFFE, 10)

	require.Len(t, lines, 2)
	assert.Equal(t, uint16(0xFFFF), lines[1].Address)
}
