// Package register provides a small byte bench addressed by a closed set of
// register identifiers.
package register

import (
	"fmt"

	"github.com/valerio/go-gameboj/gameboj/bit"
)

// Register is implemented by register identifiers. Index must map every
// member of the set to a distinct slot in [0, n), where n is the set size.
// Implementations should derive it from an explicit table rather than
// declaration order.
type Register interface {
	comparable
	Index() int
}

// File holds one byte per register of a set.
type File[R Register] struct {
	regs []uint8
}

// NewFile creates a zeroed file for the given register set. It panics if the
// indices of all are not a permutation of [0, len(all)).
func NewFile[R Register](all []R) *File[R] {
	seen := make([]bool, len(all))
	for _, r := range all {
		i := r.Index()
		if i < 0 || i >= len(all) || seen[i] {
			panic(fmt.Sprintf("register: invalid index %d for %v", i, r))
		}
		seen[i] = true
	}
	return &File[R]{regs: make([]uint8, len(all))}
}

// Get returns the value held by r.
func (f *File[R]) Get(r R) uint8 {
	return f.regs[f.slot(r)]
}

// Set stores value in r.
func (f *File[R]) Set(r R, value uint8) {
	f.regs[f.slot(r)] = value
}

// TestBit reports whether bit index of r is set.
func (f *File[R]) TestBit(r R, index uint8) bool {
	return bit.IsSet(index, f.Get(r))
}

// SetBit sets or clears bit index of r.
func (f *File[R]) SetBit(r R, index uint8, value bool) {
	f.Set(r, bit.SetTo(index, f.Get(r), value))
}

// Pair reads two registers as one 16 bit value, high register first.
func (f *File[R]) Pair(high, low R) uint16 {
	return bit.Combine(f.Get(high), f.Get(low))
}

// SetPair splits value across two registers, high byte into high.
func (f *File[R]) SetPair(high, low R, value uint16) {
	f.Set(high, bit.High(value))
	f.Set(low, bit.Low(value))
}

func (f *File[R]) slot(r R) int {
	i := r.Index()
	if i < 0 || i >= len(f.regs) {
		panic(fmt.Sprintf("register: %v is not part of this file", r))
	}
	return i
}
