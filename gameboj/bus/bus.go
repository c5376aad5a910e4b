// Package bus connects memory mapped components over the 16 bit address space.
package bus

import "github.com/valerio/go-gameboj/gameboj/addr"

// NoData is returned by Bus.Read when no attached component answers.
const NoData uint8 = 0xFF

// Component is any device mapped into the address space. Read reports false
// for addresses the component does not own; Write must silently ignore them,
// since every write is broadcast to every component.
type Component interface {
	Read(address uint16) (uint8, bool)
	Write(address uint16, value uint8)
}

// Clocked is implemented by components advanced by the shared cycle counter.
// Cycle is called exactly once per cycle, with strictly increasing values.
type Clocked interface {
	Cycle(cycle uint64)
}

// InterruptRequester sets a pending interrupt flag. The CPU owns the IF
// register; other components receive this handle at construction.
type InterruptRequester interface {
	RequestInterrupt(i addr.Interrupt)
}

// Bus dispatches reads to the first component that owns an address and
// broadcasts writes to all of them. Attachment order is read priority.
type Bus struct {
	components []Component
}

func New() *Bus {
	return &Bus{}
}

// Attach appends c to the bus.
func (b *Bus) Attach(c Component) {
	if c == nil {
		panic("bus: cannot attach a nil component")
	}
	b.components = append(b.components, c)
}

// Read returns the value from the first component that answers, or NoData.
func (b *Bus) Read(address uint16) uint8 {
	for _, c := range b.components {
		if v, ok := c.Read(address); ok {
			return v
		}
	}
	return NoData
}

// Write broadcasts value to every attached component.
func (b *Bus) Write(address uint16, value uint8) {
	for _, c := range b.components {
		c.Write(address, value)
	}
}
