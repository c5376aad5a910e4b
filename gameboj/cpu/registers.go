package cpu

import "fmt"

// Reg is one of the eight 8 bit registers.
type Reg uint8

const (
	regA Reg = iota
	regF
	regB
	regC
	regD
	regE
	regH
	regL
)

var allRegs = []Reg{regA, regF, regB, regC, regD, regE, regH, regL}

var regTable = [...]struct {
	index int
	name  string
}{
	regA: {0, "A"},
	regF: {1, "F"},
	regB: {2, "B"},
	regC: {3, "C"},
	regD: {4, "D"},
	regE: {5, "E"},
	regH: {6, "H"},
	regL: {7, "L"},
}

// Index returns the slot of r in the register file.
func (r Reg) Index() int {
	if int(r) >= len(regTable) {
		return -1
	}
	return regTable[r].index
}

func (r Reg) String() string {
	if int(r) >= len(regTable) {
		return fmt.Sprintf("Reg(%d)", uint8(r))
	}
	return regTable[r].name
}

// Reg16 is a register pair.
type Reg16 uint8

const (
	regAF Reg16 = iota
	regBC
	regDE
	regHL
)

var pairTable = [...]struct {
	high, low Reg
	name      string
}{
	regAF: {regA, regF, "AF"},
	regBC: {regB, regC, "BC"},
	regDE: {regD, regE, "DE"},
	regHL: {regH, regL, "HL"},
}

func (r Reg16) String() string {
	return pairTable[r].name
}

// r8Field maps the 3 bit register field of an encoding to a register.
// Value 0b110 selects (HL) and is handled by dedicated families.
var r8Field = [8]Reg{regB, regC, regD, regE, regH, regL, 0xFF, regA}

// r16Field maps the 2 bit pair field of an encoding. Value 0b11 means AF
// or SP depending on the instruction.
var r16Field = [4]Reg16{regBC, regDE, regHL, regAF}

const indirectHLField = 0b110

// extractReg decodes the register field starting at bit start.
func extractReg(encoding uint8, start uint8) Reg {
	field := (encoding >> start) & 0b111
	if field == indirectHLField {
		panic(fmt.Sprintf("cpu: encoding %#02x selects (HL) where a register was expected", encoding))
	}
	return r8Field[field]
}

func extractReg16(encoding uint8) Reg16 {
	return r16Field[(encoding>>4)&0b11]
}
