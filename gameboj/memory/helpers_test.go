package memory

import "github.com/valerio/go-gameboj/gameboj/addr"

// irqRecorder collects requested interrupts in order.
type irqRecorder struct {
	requested []addr.Interrupt
}

func (r *irqRecorder) RequestInterrupt(i addr.Interrupt) {
	r.requested = append(r.requested, i)
}

func (r *irqRecorder) count(i addr.Interrupt) int {
	n := 0
	for _, got := range r.requested {
		if got == i {
			n++
		}
	}
	return n
}
