package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var unusedEncodings = []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD}

func TestDirectTableCoverage(t *testing.T) {
	defined := 0
	for i := 0; i < 256; i++ {
		if op := LookupOpcode(uint8(i)); op != nil {
			defined++
			assert.Equal(t, uint8(i), op.Encoding)
			assert.False(t, op.Prefixed)
		}
	}
	assert.Equal(t, 256-len(unusedEncodings)-1, defined)

	for _, e := range unusedEncodings {
		assert.Nil(t, LookupOpcode(e), "%#02x", e)
	}
	assert.Nil(t, LookupOpcode(opcodePrefix))
}

func TestPrefixedTableCoverage(t *testing.T) {
	for i := 0; i < 256; i++ {
		op := LookupPrefixedOpcode(uint8(i))
		require.NotNil(t, op, "0xCB%02X", i)
		assert.True(t, op.Prefixed)
		assert.Equal(t, uint8(2), op.Bytes)
	}
}

func TestOpcodeCosts(t *testing.T) {
	testCases := []struct {
		op                  *Opcode
		name                string
		bytes, cycles, more uint8
	}{
		{LookupOpcode(0x00), "NOP", 1, 1, 0},
		{LookupOpcode(0x06), "LD B,n8", 2, 2, 0},
		{LookupOpcode(0x31), "LD SP,n16", 3, 3, 0},
		{LookupOpcode(0x80), "ADD A,B", 1, 1, 0},
		{LookupOpcode(0x8E), "ADC A,(HL)", 1, 2, 0},
		{LookupOpcode(0x3F), "CCF", 1, 1, 0},
		{LookupOpcode(0xFB), "EI", 1, 1, 0},
		{LookupOpcode(0xD9), "RETI", 1, 4, 0},
		{LookupOpcode(0xCD), "CALL n16", 3, 6, 0},
		{LookupOpcode(0x3B), "DEC SP", 1, 2, 0},
		{LookupOpcode(0x20), "JR NZ,e8", 2, 2, 1},
		{LookupOpcode(0xCA), "JP Z,n16", 3, 3, 1},
		{LookupOpcode(0xDC), "CALL C,n16", 3, 3, 3},
		{LookupOpcode(0xD0), "RET NC", 1, 2, 3},
		{LookupOpcode(0x08), "LD (n16),SP", 3, 5, 0},
		{LookupOpcode(0x76), "HALT", 1, 1, 0},
		{LookupOpcode(0xFF), "RST $38", 1, 4, 0},
		{LookupPrefixedOpcode(0x30), "SWAP B", 2, 2, 0},
		{LookupPrefixedOpcode(0x46), "BIT 0,(HL)", 2, 3, 0},
		{LookupPrefixedOpcode(0xFE), "SET 7,(HL)", 2, 4, 0},
		{LookupPrefixedOpcode(0x86), "RES 0,(HL)", 2, 4, 0},
	}
	for _, tC := range testCases {
		t.Run(tC.name, func(t *testing.T) {
			require.NotNil(t, tC.op)
			assert.Equal(t, tC.name, tC.op.Name)
			assert.Equal(t, tC.bytes, tC.op.Bytes)
			assert.Equal(t, tC.cycles, tC.op.Cycles)
			assert.Equal(t, tC.more, tC.op.AdditionalCycles)
		})
	}
}

func TestDisassemble(t *testing.T) {
	mem := map[uint16]uint8{
		0x00: 0x31, 0x01: 0xFE, 0x02: 0xFF,
		0x03: 0xCB, 0x04: 0x7C,
		0x05: 0x3E, 0x06: 0x42,
		0x07: 0xD3,
		0x08: 0xC9,
	}
	read := func(address uint16) uint8 { return mem[address] }

	testCases := []struct {
		address  uint16
		want     string
		wantSize uint8
	}{
		{0x00, "LD SP,n16 ; $FFFE", 3},
		{0x03, "BIT 7,H", 2},
		{0x05, "LD A,n8 ; $42", 2},
		{0x07, "DB $D3", 1},
		{0x08, "RET", 1},
	}
	for _, tC := range testCases {
		got, size := Disassemble(read, tC.address)
		assert.Equal(t, tC.want, got)
		assert.Equal(t, tC.wantSize, size)
	}
}
