package cpu

import (
	"fmt"

	"github.com/valerio/go-gameboj/gameboj/bit"
)

// family groups opcodes that share a behaviour and differ only by the
// registers, conditions or indices encoded in their bits.
type family uint8

const (
	famNop family = iota
	famLdR8HLR
	famLdAHLRU
	famLdAN8R
	famLdACR
	famLdAN16R
	famLdABCR
	famLdADER
	famLdR8N8
	famLdR16SPN16
	famPopR16
	famLdHLRR8
	famLdHLRUA
	famLdN8RA
	famLdCRA
	famLdN16RA
	famLdBCRA
	famLdDERA
	famLdHLRN8
	famLdN16RSP
	famLdR8R8
	famLdSPHL
	famPushR16
	famAddAN8
	famAddAR8
	famAddAHLR
	famIncR8
	famIncHLR
	famIncR16SP
	famAddHLR16SP
	famLdHLSPS8
	famSubAN8
	famSubAR8
	famSubAHLR
	famDecR8
	famDecHLR
	famCpAR8
	famCpAN8
	famCpAHLR
	famDecR16SP
	famAndAN8
	famAndAR8
	famAndAHLR
	famOrAR8
	famOrAN8
	famOrAHLR
	famXorAR8
	famXorAN8
	famXorAHLR
	famCpl
	famRotCA
	famRotA
	famRotCR8
	famRotR8
	famRotCHLR
	famRotHLR
	famSwapR8
	famSwapHLR
	famSlaR8
	famSraR8
	famSrlR8
	famSlaHLR
	famSraHLR
	famSrlHLR
	famBitU3R8
	famBitU3HLR
	famChgU3R8
	famChgU3HLR
	famDaa
	famSCCF
	famJpHL
	famJpN16
	famJpCCN16
	famJrE8
	famJrCCE8
	famCallN16
	famCallCCN16
	famRstU3
	famRet
	famRetCC
	famEDI
	famReti
	famHalt
	famStop
)

// Opcode describes one instruction of either table.
type Opcode struct {
	Name     string
	Encoding uint8
	Prefixed bool
	// Bytes is the total instruction length, prefix included.
	Bytes uint8
	// Cycles is the cost in machine cycles; AdditionalCycles is added when
	// a conditional jump, call or return is taken.
	Cycles           uint8
	AdditionalCycles uint8

	family family
}

func (o *Opcode) String() string {
	if o.Prefixed {
		return fmt.Sprintf("0xCB%02X (%s)", o.Encoding, o.Name)
	}
	return fmt.Sprintf("0x%02X (%s)", o.Encoding, o.Name)
}

const opcodePrefix = 0xCB

var (
	directOpcodes   = buildDirectTable()
	prefixedOpcodes = buildPrefixedTable()
)

// LookupOpcode returns the direct opcode with the given encoding, or nil for
// the unused encodings and the prefix byte itself.
func LookupOpcode(encoding uint8) *Opcode {
	return directOpcodes[encoding]
}

// LookupPrefixedOpcode returns the opcode encoded as 0xCB followed by encoding.
func LookupPrefixedOpcode(encoding uint8) *Opcode {
	return prefixedOpcodes[encoding]
}

// r8Names follows the 3 bit register field, including (HL) at 0b110.
var r8Names = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

var r16Names = [4]string{"BC", "DE", "HL", "SP"}

var stackPairNames = [4]string{"BC", "DE", "HL", "AF"}

var conditionNames = [4]string{"NZ", "Z", "NC", "C"}

type tableBuilder struct {
	table    [256]*Opcode
	prefixed bool
}

func (b *tableBuilder) def(encoding uint8, name string, fam family, bytes, cycles, additional uint8) {
	if b.table[encoding] != nil {
		panic(fmt.Sprintf("cpu: opcode %#02x defined twice (%s, %s)", encoding, b.table[encoding].Name, name))
	}
	b.table[encoding] = &Opcode{
		Name:             name,
		Encoding:         encoding,
		Prefixed:         b.prefixed,
		Bytes:            bytes,
		Cycles:           cycles,
		AdditionalCycles: additional,
		family:           fam,
	}
}

func buildDirectTable() [256]*Opcode {
	b := &tableBuilder{}

	b.def(0x00, "NOP", famNop, 1, 1, 0)
	b.def(0x10, "STOP", famStop, 2, 1, 0)
	b.def(0x76, "HALT", famHalt, 1, 1, 0)

	// 16 bit loads and arithmetic, one row per pair
	for p := uint8(0); p < 4; p++ {
		row := p << 4
		rr := r16Names[p]
		b.def(row|0x01, "LD "+rr+",n16", famLdR16SPN16, 3, 3, 0)
		b.def(row|0x03, "INC "+rr, famIncR16SP, 1, 2, 0)
		b.def(row|0x09, "ADD HL,"+rr, famAddHLR16SP, 1, 2, 0)
		b.def(row|0x0B, "DEC "+rr, famDecR16SP, 1, 2, 0)
		b.def(0xC1|row, "POP "+stackPairNames[p], famPopR16, 1, 3, 0)
		b.def(0xC5|row, "PUSH "+stackPairNames[p], famPushR16, 1, 4, 0)
	}

	// INC, DEC and LD n8 on every register field
	for r := uint8(0); r < 8; r++ {
		name := r8Names[r]
		if r == indirectHLField {
			b.def(0x34, "INC (HL)", famIncHLR, 1, 3, 0)
			b.def(0x35, "DEC (HL)", famDecHLR, 1, 3, 0)
			b.def(0x36, "LD (HL),n8", famLdHLRN8, 2, 3, 0)
			continue
		}
		b.def(r<<3|0x04, "INC "+name, famIncR8, 1, 1, 0)
		b.def(r<<3|0x05, "DEC "+name, famDecR8, 1, 1, 0)
		b.def(r<<3|0x06, "LD "+name+",n8", famLdR8N8, 2, 2, 0)
	}

	b.def(0x02, "LD (BC),A", famLdBCRA, 1, 2, 0)
	b.def(0x12, "LD (DE),A", famLdDERA, 1, 2, 0)
	b.def(0x22, "LD (HL+),A", famLdHLRUA, 1, 2, 0)
	b.def(0x32, "LD (HL-),A", famLdHLRUA, 1, 2, 0)
	b.def(0x0A, "LD A,(BC)", famLdABCR, 1, 2, 0)
	b.def(0x1A, "LD A,(DE)", famLdADER, 1, 2, 0)
	b.def(0x2A, "LD A,(HL+)", famLdAHLRU, 1, 2, 0)
	b.def(0x3A, "LD A,(HL-)", famLdAHLRU, 1, 2, 0)
	b.def(0x08, "LD (n16),SP", famLdN16RSP, 3, 5, 0)

	b.def(0x07, "RLCA", famRotCA, 1, 1, 0)
	b.def(0x0F, "RRCA", famRotCA, 1, 1, 0)
	b.def(0x17, "RLA", famRotA, 1, 1, 0)
	b.def(0x1F, "RRA", famRotA, 1, 1, 0)
	b.def(0x27, "DAA", famDaa, 1, 1, 0)
	b.def(0x2F, "CPL", famCpl, 1, 1, 0)
	b.def(0x37, "SCF", famSCCF, 1, 1, 0)
	b.def(0x3F, "CCF", famSCCF, 1, 1, 0)

	b.def(0x18, "JR e8", famJrE8, 2, 3, 0)
	for cc := uint8(0); cc < 4; cc++ {
		cond := conditionNames[cc]
		b.def(0x20|cc<<3, "JR "+cond+",e8", famJrCCE8, 2, 2, 1)
		b.def(0xC0|cc<<3, "RET "+cond, famRetCC, 1, 2, 3)
		b.def(0xC2|cc<<3, "JP "+cond+",n16", famJpCCN16, 3, 3, 1)
		b.def(0xC4|cc<<3, "CALL "+cond+",n16", famCallCCN16, 3, 3, 3)
	}

	// register to register loads
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			encoding := 0x40 | dst<<3 | src
			switch {
			case dst == indirectHLField && src == indirectHLField:
				// HALT
			case dst == indirectHLField:
				b.def(encoding, "LD (HL),"+r8Names[src], famLdHLRR8, 1, 2, 0)
			case src == indirectHLField:
				b.def(encoding, "LD "+r8Names[dst]+",(HL)", famLdR8HLR, 1, 2, 0)
			default:
				b.def(encoding, "LD "+r8Names[dst]+","+r8Names[src], famLdR8R8, 1, 1, 0)
			}
		}
	}

	// 8 bit arithmetic on A: register, (HL) and immediate forms
	aluOps := [8]struct {
		name              string
		r8, hlr, n8       family
		immediateEncoding uint8
	}{
		{"ADD A,", famAddAR8, famAddAHLR, famAddAN8, 0xC6},
		{"ADC A,", famAddAR8, famAddAHLR, famAddAN8, 0xCE},
		{"SUB A,", famSubAR8, famSubAHLR, famSubAN8, 0xD6},
		{"SBC A,", famSubAR8, famSubAHLR, famSubAN8, 0xDE},
		{"AND A,", famAndAR8, famAndAHLR, famAndAN8, 0xE6},
		{"XOR A,", famXorAR8, famXorAHLR, famXorAN8, 0xEE},
		{"OR A,", famOrAR8, famOrAHLR, famOrAN8, 0xF6},
		{"CP A,", famCpAR8, famCpAHLR, famCpAN8, 0xFE},
	}
	for op, alu := range aluOps {
		for r := uint8(0); r < 8; r++ {
			encoding := 0x80 | uint8(op)<<3 | r
			if r == indirectHLField {
				b.def(encoding, alu.name+"(HL)", alu.hlr, 1, 2, 0)
				continue
			}
			b.def(encoding, alu.name+r8Names[r], alu.r8, 1, 1, 0)
		}
		b.def(alu.immediateEncoding, alu.name+"n8", alu.n8, 2, 2, 0)
	}

	for n := uint8(0); n < 8; n++ {
		b.def(0xC7|n<<3, fmt.Sprintf("RST $%02X", n*8), famRstU3, 1, 4, 0)
	}

	b.def(0xC3, "JP n16", famJpN16, 3, 4, 0)
	b.def(0xE9, "JP HL", famJpHL, 1, 1, 0)
	b.def(0xCD, "CALL n16", famCallN16, 3, 6, 0)
	b.def(0xC9, "RET", famRet, 1, 4, 0)
	b.def(0xD9, "RETI", famReti, 1, 4, 0)

	b.def(0xE0, "LDH (n8),A", famLdN8RA, 2, 3, 0)
	b.def(0xF0, "LDH A,(n8)", famLdAN8R, 2, 3, 0)
	b.def(0xE2, "LD (C),A", famLdCRA, 1, 2, 0)
	b.def(0xF2, "LD A,(C)", famLdACR, 1, 2, 0)
	b.def(0xEA, "LD (n16),A", famLdN16RA, 3, 4, 0)
	b.def(0xFA, "LD A,(n16)", famLdAN16R, 3, 4, 0)
	b.def(0xE8, "ADD SP,e8", famLdHLSPS8, 2, 4, 0)
	b.def(0xF8, "LD HL,SP+e8", famLdHLSPS8, 2, 3, 0)
	b.def(0xF9, "LD SP,HL", famLdSPHL, 1, 2, 0)
	b.def(0xF3, "DI", famEDI, 1, 1, 0)
	b.def(0xFB, "EI", famEDI, 1, 1, 0)

	return b.table
}

func buildPrefixedTable() [256]*Opcode {
	b := &tableBuilder{prefixed: true}

	shifts := [8]struct {
		name    string
		r8, hlr family
	}{
		{"RLC ", famRotCR8, famRotCHLR},
		{"RRC ", famRotCR8, famRotCHLR},
		{"RL ", famRotR8, famRotHLR},
		{"RR ", famRotR8, famRotHLR},
		{"SLA ", famSlaR8, famSlaHLR},
		{"SRA ", famSraR8, famSraHLR},
		{"SWAP ", famSwapR8, famSwapHLR},
		{"SRL ", famSrlR8, famSrlHLR},
	}
	for op, s := range shifts {
		for r := uint8(0); r < 8; r++ {
			encoding := uint8(op)<<3 | r
			if r == indirectHLField {
				b.def(encoding, s.name+"(HL)", s.hlr, 2, 4, 0)
				continue
			}
			b.def(encoding, s.name+r8Names[r], s.r8, 2, 2, 0)
		}
	}

	groups := [3]struct {
		name    string
		base    uint8
		r8, hlr family
		hlrCost uint8
	}{
		{"BIT ", 0x40, famBitU3R8, famBitU3HLR, 3},
		{"RES ", 0x80, famChgU3R8, famChgU3HLR, 4},
		{"SET ", 0xC0, famChgU3R8, famChgU3HLR, 4},
	}
	for _, g := range groups {
		for n := uint8(0); n < 8; n++ {
			for r := uint8(0); r < 8; r++ {
				encoding := g.base | n<<3 | r
				name := fmt.Sprintf("%s%d,%s", g.name, n, r8Names[r])
				if r == indirectHLField {
					b.def(encoding, name, g.hlr, 2, g.hlrCost, 0)
					continue
				}
				b.def(encoding, name, g.r8, 2, 2, 0)
			}
		}
	}

	return b.table
}

// Disassemble renders the instruction at address, reading its bytes with
// read. It returns the text and the instruction length.
func Disassemble(read func(address uint16) uint8, address uint16) (string, uint8) {
	op := LookupOpcode(read(address))
	if read(address) == opcodePrefix {
		op = LookupPrefixedOpcode(read(address + 1))
	}
	if op == nil {
		return fmt.Sprintf("DB $%02X", read(address)), 1
	}

	switch op.Bytes - bit.Bool(op.Prefixed) {
	case 2:
		return fmt.Sprintf("%s ; $%02X", op.Name, read(address+1)), op.Bytes
	case 3:
		return fmt.Sprintf("%s ; $%04X", op.Name, bit.Combine(read(address+2), read(address+1))), op.Bytes
	}
	return op.Name, op.Bytes
}
