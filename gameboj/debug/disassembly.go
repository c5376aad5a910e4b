package debug

import (
	"github.com/valerio/go-gameboj/gameboj/cpu"
)

type DisasmLine struct {
	Address     uint16
	Instruction string
	IsCurrent   bool
}

// Disassemble decodes up to maxLines instructions starting at pc, reading
// memory through read. Decoding stops at the end of the address space.
func Disassemble(read func(address uint16) uint8, pc uint16, maxLines int) []DisasmLine {
	lines := make([]DisasmLine, 0, maxLines)
	address := uint32(pc)
	for len(lines) < maxLines && address <= 0xFFFF {
		instruction, length := cpu.Disassemble(read, uint16(address))
		lines = append(lines, DisasmLine{
			Address:     uint16(address),
			Instruction: instruction,
			IsCurrent:   uint16(address) == pc,
		})
		address += uint32(length)
	}
	return lines
}
