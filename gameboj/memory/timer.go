package memory

import (
	"github.com/valerio/go-gameboj/gameboj/addr"
	"github.com/valerio/go-gameboj/gameboj/bit"
	"github.com/valerio/go-gameboj/gameboj/bus"
)

// tacLookup maps TAC input clock select (bits 1–0) to the bit position
// of the 16‑bit main counter used as the timer's clock source. TIMA
// increments on falling edges of this selected bit when the timer is
// enabled (TAC bit 2 = 1).
//
//	00 -> bit 9
//	01 -> bit 3
//	10 -> bit 5
//	11 -> bit 7
var tacLookup = [4]uint8{9, 3, 5, 7}

// Timer encapsulates the DIV/TIMA/TMA/TAC behavior. The main counter
// advances by 4 every cycle, DIV exposes its upper 8 bits.
type Timer struct {
	irq bus.InterruptRequester

	main uint16
	tima uint8
	tma  uint8
	tac  uint8
}

func NewTimer(irq bus.InterruptRequester) *Timer {
	return &Timer{irq: irq}
}

// Cycle advances the main counter and increments TIMA on a falling edge of
// the selected tap.
func (t *Timer) Cycle(cycle uint64) {
	s0 := t.state()
	t.main += 4
	t.incrementOnFallingEdge(s0)
}

// state is the timer enable bit ANDed with the tapped counter bit.
func (t *Timer) state() bool {
	if !bit.IsSet(2, t.tac) {
		return false
	}
	return (t.main>>tacLookup[t.tac&0x03])&1 == 1
}

func (t *Timer) incrementOnFallingEdge(previous bool) {
	if !previous || t.state() {
		return
	}
	if t.tima == 0xFF {
		t.tima = t.tma
		t.irq.RequestInterrupt(addr.TimerInterrupt)
		return
	}
	t.tima++
}

func (t *Timer) Read(address uint16) (uint8, bool) {
	switch address {
	case addr.DIV:
		return uint8(t.main >> 8), true
	case addr.TIMA:
		return t.tima, true
	case addr.TMA:
		return t.tma, true
	case addr.TAC:
		return t.tac, true
	}
	return 0, false
}

func (t *Timer) Write(address uint16, value uint8) {
	switch address {
	case addr.DIV:
		// resetting the counter can itself drop the tapped bit
		s0 := t.state()
		t.main = 0
		t.incrementOnFallingEdge(s0)
	case addr.TIMA:
		t.tima = value
	case addr.TMA:
		t.tma = value
	case addr.TAC:
		s0 := t.state()
		t.tac = value
		t.incrementOnFallingEdge(s0)
	}
}
