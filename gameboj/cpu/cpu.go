package cpu

import (
	"fmt"
	"log/slog"
	"math"
	"math/bits"

	"github.com/valerio/go-gameboj/gameboj/addr"
	"github.com/valerio/go-gameboj/gameboj/bit"
	"github.com/valerio/go-gameboj/gameboj/bus"
	"github.com/valerio/go-gameboj/gameboj/memory"
	"github.com/valerio/go-gameboj/gameboj/register"
)

// never is the next active cycle of a halted CPU.
const never = math.MaxUint64

// interruptMask covers the five implemented interrupt sources.
const interruptMask = 0x1F

// flagSrc selects where each flag of an instruction result comes from.
type flagSrc uint8

const (
	srcV0  flagSrc = iota // forced to 0
	srcV1                 // forced to 1
	srcALU                // taken from the ALU result
	srcCPU                // left unchanged
)

// CPU is the SM83 core. It owns high RAM and the IE and IF registers, and
// runs one instruction whenever the cycle counter reaches its next active
// cycle.
type CPU struct {
	regs   *register.File[Reg]
	pc, sp uint16

	ime bool
	ie  uint8
	ifr uint8

	hram *memory.RAM
	bus  *bus.Bus

	nextNonIdleCycle uint64
	trace            bool
}

type Option func(*CPU)

// WithTracing logs every executed instruction at debug level.
func WithTracing() Option { return func(c *CPU) { c.trace = true } }

// New returns a CPU with every register cleared, ready to run from address
// 0 (the boot ROM).
func New(opts ...Option) *CPU {
	c := &CPU{
		regs: register.NewFile(allRegs),
		hram: memory.NewRAM(addr.HRAMSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AttachTo connects the CPU to b for instruction fetches and memory
// access, and maps the CPU's own registers on it.
func (c *CPU) AttachTo(b *bus.Bus) {
	c.bus = b
	b.Attach(c)
}

// SkipBoot loads the register values the DMG boot ROM leaves behind, so a
// cartridge can be started directly at 0x100.
func (c *CPU) SkipBoot() {
	c.setReg16(regAF, 0x01B0)
	c.setReg16(regBC, 0x0013)
	c.setReg16(regDE, 0x00D8)
	c.setReg16(regHL, 0x014D)
	c.sp = 0xFFFE
	c.pc = 0x0100
}

// RequestInterrupt raises the IF bit of i.
func (c *CPU) RequestInterrupt(i addr.Interrupt) {
	c.ifr |= i.Mask()
}

func (c *CPU) Read(address uint16) (uint8, bool) {
	switch {
	case address >= addr.HRAMStart && address < addr.HRAMEnd:
		return c.hram.Read(int(address - addr.HRAMStart)), true
	case address == addr.IE:
		return c.ie, true
	case address == addr.IF:
		return c.ifr, true
	}
	return 0, false
}

func (c *CPU) Write(address uint16, value uint8) {
	switch {
	case address >= addr.HRAMStart && address < addr.HRAMEnd:
		c.hram.Write(int(address-addr.HRAMStart), value)
	case address == addr.IE:
		c.ie = value
	case address == addr.IF:
		c.ifr = value
	}
}

// Cycle runs the CPU for the given cycle. A halted CPU wakes up as soon as
// an enabled interrupt is pending, whether or not IME is set.
func (c *CPU) Cycle(cycle uint64) {
	if c.nextNonIdleCycle == never && c.pendingInterrupts() != 0 {
		c.nextNonIdleCycle = cycle
	}
	if c.nextNonIdleCycle != cycle {
		return
	}

	if c.ime && c.pendingInterrupts() != 0 {
		c.serviceInterrupt()
		return
	}

	op := c.fetch()
	if c.trace {
		text, _ := Disassemble(c.read8, c.pc)
		slog.Debug("exec", "cycle", cycle, "pc", fmt.Sprintf("%04X", c.pc), "op", text)
	}
	cycles := c.dispatch(op)
	if c.nextNonIdleCycle != never {
		c.nextNonIdleCycle += uint64(cycles)
	}
}

// Halted reports whether the CPU is waiting for an interrupt.
func (c *CPU) Halted() bool {
	return c.nextNonIdleCycle == never
}

func (c *CPU) pendingInterrupts() uint8 {
	return c.ie & c.ifr & interruptMask
}

// serviceInterrupt jumps to the vector of the highest priority pending
// interrupt, which is the lowest set bit.
func (c *CPU) serviceInterrupt() {
	i := addr.Interrupt(bits.TrailingZeros8(c.pendingInterrupts()))
	c.ime = false
	c.ifr = bit.Clear(uint8(i), c.ifr)
	c.push16(c.pc)
	c.pc = i.Vector()
	c.nextNonIdleCycle += 5

	if c.trace {
		slog.Debug("interrupt", "source", i.String(), "vector", fmt.Sprintf("%04X", c.pc))
	}
}

func (c *CPU) fetch() *Opcode {
	encoding := c.read8(c.pc)
	op := LookupOpcode(encoding)
	if encoding == opcodePrefix {
		op = LookupPrefixedOpcode(c.read8(c.pc + 1))
	}
	if op == nil {
		panic(fmt.Sprintf("cpu: invalid opcode %#02x at %#04x", encoding, c.pc))
	}
	return op
}

// State is a snapshot of the programmer visible registers.
type State struct {
	PC, SP                 uint16
	A, F, B, C, D, E, H, L uint8
	IME                    bool
	IE, IF                 uint8
}

// State returns the current register values.
func (c *CPU) State() State {
	return State{
		PC:  c.pc,
		SP:  c.sp,
		A:   c.regs.Get(regA),
		F:   c.regs.Get(regF),
		B:   c.regs.Get(regB),
		C:   c.regs.Get(regC),
		D:   c.regs.Get(regD),
		E:   c.regs.Get(regE),
		H:   c.regs.Get(regH),
		L:   c.regs.Get(regL),
		IME: c.ime,
		IE:  c.ie,
		IF:  c.ifr,
	}
}

// FlagString renders the flag register as ZNHC, with '-' for cleared flags.
func (s State) FlagString() string {
	flags := []byte("----")
	for i, f := range []struct {
		flag Flag
		name byte
	}{{zeroFlag, 'Z'}, {subFlag, 'N'}, {halfCarryFlag, 'H'}, {carryFlag, 'C'}} {
		if s.F&uint8(f.flag) != 0 {
			flags[i] = f.name
		}
	}
	return string(flags)
}

func (c *CPU) read8(address uint16) uint8 {
	return c.bus.Read(address)
}

func (c *CPU) read16(address uint16) uint16 {
	return bit.Combine(c.read8(address+1), c.read8(address))
}

func (c *CPU) read8AfterOpcode() uint8 {
	return c.read8(c.pc + 1)
}

func (c *CPU) read16AfterOpcode() uint16 {
	return c.read16(c.pc + 1)
}

func (c *CPU) read8AtHL() uint8 {
	return c.read8(c.reg16(regHL))
}

func (c *CPU) write8(address uint16, value uint8) {
	c.bus.Write(address, value)
}

func (c *CPU) write16(address uint16, value uint16) {
	c.write8(address, bit.Low(value))
	c.write8(address+1, bit.High(value))
}

func (c *CPU) write8AtHL(value uint8) {
	c.write8(c.reg16(regHL), value)
}

func (c *CPU) push16(value uint16) {
	c.sp -= 2
	c.write16(c.sp, value)
}

func (c *CPU) pop16() uint16 {
	value := c.read16(c.sp)
	c.sp += 2
	return value
}

func (c *CPU) reg16(r Reg16) uint16 {
	p := pairTable[r]
	return c.regs.Pair(p.high, p.low)
}

func (c *CPU) setReg16(r Reg16, value uint16) {
	if r == regAF {
		// the low nibble of F does not exist
		value &= 0xFFF0
	}
	p := pairTable[r]
	c.regs.SetPair(p.high, p.low, value)
}

// reg16SP reads a pair where the AF slot stands for SP.
func (c *CPU) reg16SP(r Reg16) uint16 {
	if r == regAF {
		return c.sp
	}
	return c.reg16(r)
}

func (c *CPU) setReg16SP(r Reg16, value uint16) {
	if r == regAF {
		c.sp = value
		return
	}
	c.setReg16(r, value)
}

func (c *CPU) flag(f Flag) bool {
	return c.regs.Get(regF)&uint8(f) != 0
}

func (c *CPU) setFlags(vf Packed) {
	c.regs.Set(regF, vf.Flags())
}

func (c *CPU) setRegFromALU(r Reg, vf Packed) {
	c.regs.Set(r, vf.Value8())
}

func (c *CPU) setRegFlags(r Reg, vf Packed) {
	c.setRegFromALU(r, vf)
	c.setFlags(vf)
}

func (c *CPU) write8AtHLAndSetFlags(vf Packed) {
	c.write8AtHL(vf.Value8())
	c.setFlags(vf)
}

// combineALUFlags builds F from the per flag sources.
func (c *CPU) combineALUFlags(vf Packed, z, n, h, cy flagSrc) {
	mask := func(src flagSrc) uint8 {
		return MaskZNHC(z == src, n == src, h == src, cy == src)
	}
	flags := c.regs.Get(regF)&mask(srcCPU) | vf.Flags()&mask(srcALU) | mask(srcV1)
	c.regs.Set(regF, flags)
}

// condition evaluates the 2 bit condition field: NZ, Z, NC, C.
func (c *CPU) condition(op *Opcode) bool {
	switch (op.Encoding >> 3) & 0b11 {
	case 0b00:
		return !c.flag(zeroFlag)
	case 0b01:
		return c.flag(zeroFlag)
	case 0b10:
		return !c.flag(carryFlag)
	default:
		return c.flag(carryFlag)
	}
}
