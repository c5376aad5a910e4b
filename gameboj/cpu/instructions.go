package cpu

import (
	"github.com/valerio/go-gameboj/gameboj/addr"
	"github.com/valerio/go-gameboj/gameboj/bit"
)

// dispatch executes op and returns its cost in cycles.
func (c *CPU) dispatch(op *Opcode) uint8 {
	nextPC := c.pc + uint16(op.Bytes)
	taken := false

	switch op.family {
	case famNop:

	// loads
	case famLdR8HLR:
		c.regs.Set(extractReg(op.Encoding, 3), c.read8AtHL())
	case famLdAHLRU:
		c.regs.Set(regA, c.read8AtHL())
		c.setReg16(regHL, c.reg16(regHL)+hlIncrement(op))
	case famLdAN8R:
		c.regs.Set(regA, c.read8(addr.IOStart+uint16(c.read8AfterOpcode())))
	case famLdACR:
		c.regs.Set(regA, c.read8(addr.IOStart+uint16(c.regs.Get(regC))))
	case famLdAN16R:
		c.regs.Set(regA, c.read8(c.read16AfterOpcode()))
	case famLdABCR:
		c.regs.Set(regA, c.read8(c.reg16(regBC)))
	case famLdADER:
		c.regs.Set(regA, c.read8(c.reg16(regDE)))
	case famLdR8N8:
		c.regs.Set(extractReg(op.Encoding, 3), c.read8AfterOpcode())
	case famLdR16SPN16:
		c.setReg16SP(extractReg16(op.Encoding), c.read16AfterOpcode())
	case famPopR16:
		c.setReg16(extractReg16(op.Encoding), c.pop16())
	case famLdHLRR8:
		c.write8AtHL(c.regs.Get(extractReg(op.Encoding, 0)))
	case famLdHLRUA:
		c.write8AtHL(c.regs.Get(regA))
		c.setReg16(regHL, c.reg16(regHL)+hlIncrement(op))
	case famLdN8RA:
		c.write8(addr.IOStart+uint16(c.read8AfterOpcode()), c.regs.Get(regA))
	case famLdCRA:
		c.write8(addr.IOStart+uint16(c.regs.Get(regC)), c.regs.Get(regA))
	case famLdN16RA:
		c.write8(c.read16AfterOpcode(), c.regs.Get(regA))
	case famLdBCRA:
		c.write8(c.reg16(regBC), c.regs.Get(regA))
	case famLdDERA:
		c.write8(c.reg16(regDE), c.regs.Get(regA))
	case famLdHLRN8:
		c.write8AtHL(c.read8AfterOpcode())
	case famLdN16RSP:
		c.write16(c.read16AfterOpcode(), c.sp)
	case famLdR8R8:
		c.regs.Set(extractReg(op.Encoding, 3), c.regs.Get(extractReg(op.Encoding, 0)))
	case famLdSPHL:
		c.sp = c.reg16(regHL)
	case famPushR16:
		c.push16(c.reg16(extractReg16(op.Encoding)))

	// add
	case famAddAN8:
		c.setRegFlags(regA, Add(c.regs.Get(regA), c.read8AfterOpcode(), c.carryIn(op)))
	case famAddAR8:
		c.setRegFlags(regA, Add(c.regs.Get(regA), c.regs.Get(extractReg(op.Encoding, 0)), c.carryIn(op)))
	case famAddAHLR:
		c.setRegFlags(regA, Add(c.regs.Get(regA), c.read8AtHL(), c.carryIn(op)))
	case famIncR8:
		r := extractReg(op.Encoding, 3)
		vf := Add(c.regs.Get(r), 1, false)
		c.setRegFromALU(r, vf)
		c.combineALUFlags(vf, srcALU, srcV0, srcALU, srcCPU)
	case famIncHLR:
		vf := Add(c.read8AtHL(), 1, false)
		c.write8AtHL(vf.Value8())
		c.combineALUFlags(vf, srcALU, srcV0, srcALU, srcCPU)
	case famIncR16SP:
		r := extractReg16(op.Encoding)
		c.setReg16SP(r, c.reg16SP(r)+1)
	case famAddHLR16SP:
		vf := Add16H(c.reg16(regHL), c.reg16SP(extractReg16(op.Encoding)))
		c.setReg16(regHL, vf.Value())
		c.combineALUFlags(vf, srcCPU, srcV0, srcALU, srcALU)
	case famLdHLSPS8:
		vf := Add16L(c.sp, uint16(bit.SignExtend8(c.read8AfterOpcode())))
		if bit.IsSet(4, op.Encoding) {
			c.setReg16(regHL, vf.Value())
		} else {
			c.sp = vf.Value()
		}
		c.combineALUFlags(vf, srcV0, srcV0, srcALU, srcALU)

	// subtract
	case famSubAN8:
		c.setRegFlags(regA, Sub(c.regs.Get(regA), c.read8AfterOpcode(), c.carryIn(op)))
	case famSubAR8:
		c.setRegFlags(regA, Sub(c.regs.Get(regA), c.regs.Get(extractReg(op.Encoding, 0)), c.carryIn(op)))
	case famSubAHLR:
		c.setRegFlags(regA, Sub(c.regs.Get(regA), c.read8AtHL(), c.carryIn(op)))
	case famDecR8:
		r := extractReg(op.Encoding, 3)
		vf := Sub(c.regs.Get(r), 1, false)
		c.setRegFromALU(r, vf)
		c.combineALUFlags(vf, srcALU, srcV1, srcALU, srcCPU)
	case famDecHLR:
		vf := Sub(c.read8AtHL(), 1, false)
		c.write8AtHL(vf.Value8())
		c.combineALUFlags(vf, srcALU, srcV1, srcALU, srcCPU)
	case famCpAR8:
		c.setFlags(Sub(c.regs.Get(regA), c.regs.Get(extractReg(op.Encoding, 0)), false))
	case famCpAN8:
		c.setFlags(Sub(c.regs.Get(regA), c.read8AfterOpcode(), false))
	case famCpAHLR:
		c.setFlags(Sub(c.regs.Get(regA), c.read8AtHL(), false))
	case famDecR16SP:
		r := extractReg16(op.Encoding)
		c.setReg16SP(r, c.reg16SP(r)-1)

	// and, or, xor, complement
	case famAndAN8:
		c.setRegFlags(regA, And(c.regs.Get(regA), c.read8AfterOpcode()))
	case famAndAR8:
		c.setRegFlags(regA, And(c.regs.Get(regA), c.regs.Get(extractReg(op.Encoding, 0))))
	case famAndAHLR:
		c.setRegFlags(regA, And(c.regs.Get(regA), c.read8AtHL()))
	case famOrAN8:
		c.setRegFlags(regA, Or(c.regs.Get(regA), c.read8AfterOpcode()))
	case famOrAR8:
		c.setRegFlags(regA, Or(c.regs.Get(regA), c.regs.Get(extractReg(op.Encoding, 0))))
	case famOrAHLR:
		c.setRegFlags(regA, Or(c.regs.Get(regA), c.read8AtHL()))
	case famXorAN8:
		c.setRegFlags(regA, Xor(c.regs.Get(regA), c.read8AfterOpcode()))
	case famXorAR8:
		c.setRegFlags(regA, Xor(c.regs.Get(regA), c.regs.Get(extractReg(op.Encoding, 0))))
	case famXorAHLR:
		c.setRegFlags(regA, Xor(c.regs.Get(regA), c.read8AtHL()))
	case famCpl:
		c.regs.Set(regA, ^c.regs.Get(regA))
		c.combineALUFlags(0, srcCPU, srcV1, srcV1, srcCPU)

	// rotate, shift
	case famRotCA:
		vf := Rotate(rotDir(op), c.regs.Get(regA))
		c.setRegFromALU(regA, vf)
		c.combineALUFlags(vf, srcV0, srcV0, srcV0, srcALU)
	case famRotA:
		vf := RotateThroughCarry(rotDir(op), c.regs.Get(regA), c.flag(carryFlag))
		c.setRegFromALU(regA, vf)
		c.combineALUFlags(vf, srcV0, srcV0, srcV0, srcALU)
	case famRotCR8:
		r := extractReg(op.Encoding, 0)
		c.setRegFlags(r, Rotate(rotDir(op), c.regs.Get(r)))
	case famRotR8:
		r := extractReg(op.Encoding, 0)
		c.setRegFlags(r, RotateThroughCarry(rotDir(op), c.regs.Get(r), c.flag(carryFlag)))
	case famRotCHLR:
		c.write8AtHLAndSetFlags(Rotate(rotDir(op), c.read8AtHL()))
	case famRotHLR:
		c.write8AtHLAndSetFlags(RotateThroughCarry(rotDir(op), c.read8AtHL(), c.flag(carryFlag)))
	case famSwapR8:
		r := extractReg(op.Encoding, 0)
		c.setRegFlags(r, Swap(c.regs.Get(r)))
	case famSwapHLR:
		c.write8AtHLAndSetFlags(Swap(c.read8AtHL()))
	case famSlaR8:
		r := extractReg(op.Encoding, 0)
		c.setRegFlags(r, ShiftLeft(c.regs.Get(r)))
	case famSraR8:
		r := extractReg(op.Encoding, 0)
		c.setRegFlags(r, ShiftRightA(c.regs.Get(r)))
	case famSrlR8:
		r := extractReg(op.Encoding, 0)
		c.setRegFlags(r, ShiftRightL(c.regs.Get(r)))
	case famSlaHLR:
		c.write8AtHLAndSetFlags(ShiftLeft(c.read8AtHL()))
	case famSraHLR:
		c.write8AtHLAndSetFlags(ShiftRightA(c.read8AtHL()))
	case famSrlHLR:
		c.write8AtHLAndSetFlags(ShiftRightL(c.read8AtHL()))

	// bit test and set
	case famBitU3R8:
		vf := TestBit(c.regs.Get(extractReg(op.Encoding, 0)), bitIndex(op))
		c.combineALUFlags(vf, srcALU, srcV0, srcV1, srcCPU)
	case famBitU3HLR:
		vf := TestBit(c.read8AtHL(), bitIndex(op))
		c.combineALUFlags(vf, srcALU, srcV0, srcV1, srcCPU)
	case famChgU3R8:
		r := extractReg(op.Encoding, 0)
		c.regs.Set(r, changeBit(op, c.regs.Get(r)))
	case famChgU3HLR:
		c.write8AtHL(changeBit(op, c.read8AtHL()))

	// misc ALU
	case famDaa:
		vf := BCDAdjust(c.regs.Get(regA), c.flag(subFlag), c.flag(halfCarryFlag), c.flag(carryFlag))
		c.setRegFromALU(regA, vf)
		c.combineALUFlags(vf, srcALU, srcCPU, srcV0, srcALU)
	case famSCCF:
		// CCF takes the toggled carry, SCF forces it
		toggled := Packed(c.regs.Get(regF) ^ uint8(carryFlag))
		carry := srcV1
		if bit.IsSet(3, op.Encoding) {
			carry = srcALU
		}
		c.combineALUFlags(toggled, srcCPU, srcV0, srcV0, carry)

	// jumps
	case famJpHL:
		nextPC = c.reg16(regHL)
	case famJpN16:
		nextPC = c.read16AfterOpcode()
	case famJpCCN16:
		if taken = c.condition(op); taken {
			nextPC = c.read16AfterOpcode()
		}
	case famJrE8:
		nextPC += uint16(bit.SignExtend8(c.read8AfterOpcode()))
	case famJrCCE8:
		if taken = c.condition(op); taken {
			nextPC += uint16(bit.SignExtend8(c.read8AfterOpcode()))
		}

	// calls and returns
	case famCallN16:
		c.push16(nextPC)
		nextPC = c.read16AfterOpcode()
	case famCallCCN16:
		if taken = c.condition(op); taken {
			c.push16(nextPC)
			nextPC = c.read16AfterOpcode()
		}
	case famRstU3:
		c.push16(nextPC)
		nextPC = addr.RSTVector(bitIndex(op))
	case famRet:
		nextPC = c.pop16()
	case famRetCC:
		if taken = c.condition(op); taken {
			nextPC = c.pop16()
		}

	// interrupts
	case famEDI:
		c.ime = bit.IsSet(3, op.Encoding)
	case famReti:
		c.ime = true
		nextPC = c.pop16()

	// misc control
	case famHalt:
		c.nextNonIdleCycle = never
	case famStop:
		panic("STOP is not implemented")

	default:
		panic("cpu: unhandled opcode family for " + op.String())
	}

	c.pc = nextPC

	if taken {
		return op.Cycles + op.AdditionalCycles
	}
	return op.Cycles
}

// carryIn is the carry flag for ADC and SBC (bit 3 set), false otherwise.
func (c *CPU) carryIn(op *Opcode) bool {
	return bit.IsSet(3, op.Encoding) && c.flag(carryFlag)
}

func hlIncrement(op *Opcode) uint16 {
	if bit.IsSet(4, op.Encoding) {
		return 0xFFFF
	}
	return 1
}

func rotDir(op *Opcode) RotDir {
	if bit.IsSet(3, op.Encoding) {
		return RotateRight
	}
	return RotateLeft
}

func bitIndex(op *Opcode) uint8 {
	return bit.Extract(op.Encoding, 3, 3)
}

// changeBit applies SET (bit 6 of the encoding set) or RES.
func changeBit(op *Opcode, value uint8) uint8 {
	return bit.SetTo(bitIndex(op), value, bit.IsSet(6, op.Encoding))
}
