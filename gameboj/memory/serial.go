package memory

import (
	"log/slog"
	"strings"

	"github.com/valerio/go-gameboj/gameboj/addr"
	"github.com/valerio/go-gameboj/gameboj/bit"
	"github.com/valerio/go-gameboj/gameboj/bus"
)

// serialCyclesPerByte is the duration of one internally clocked transfer in
// machine cycles (8 bits at 8192Hz).
const serialCyclesPerByte = 1024

// SerialLogSink is a serial port with nothing plugged in. Outgoing bytes are
// logged as text lines, which is how test ROMs report their results.
type SerialLogSink struct {
	irq            bus.InterruptRequester
	sb, sc         uint8
	transferActive bool
	countdown      int
	immediate      bool
	logger         *slog.Logger

	line   []byte
	output strings.Builder
}

type SerialOption func(*SerialLogSink)

// WithSerialTiming completes transfers after the DMG transfer duration
// instead of on the write that starts them.
func WithSerialTiming() SerialOption { return func(s *SerialLogSink) { s.immediate = false } }

// WithSerialLogger replaces the default logger.
func WithSerialLogger(l *slog.Logger) SerialOption { return func(s *SerialLogSink) { s.logger = l } }

// NewSerialLogSink creates a sink that raises the serial interrupt on irq
// whenever a transfer completes.
func NewSerialLogSink(irq bus.InterruptRequester, opts ...SerialOption) *SerialLogSink {
	s := &SerialLogSink{
		irq:       irq,
		immediate: true,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Output returns every byte sent so far.
func (s *SerialLogSink) Output() string {
	return s.output.String()
}

func (s *SerialLogSink) Read(address uint16) (uint8, bool) {
	switch address {
	case addr.SB:
		return s.sb, true
	case addr.SC:
		return s.sc, true
	}
	return 0, false
}

func (s *SerialLogSink) Write(address uint16, value uint8) {
	switch address {
	case addr.SB:
		s.sb = value
	case addr.SC:
		s.sc = value
		s.maybeStartTransfer()
	}
}

func (s *SerialLogSink) Cycle(cycle uint64) {
	if s.immediate || !s.transferActive {
		return
	}
	s.countdown--
	if s.countdown <= 0 {
		s.completeTransfer()
	}
}

func (s *SerialLogSink) maybeStartTransfer() {
	if s.transferActive {
		return
	}
	// only internally clocked transfers run, there is no peer to drive the clock
	if !bit.IsSet(7, s.sc) || !bit.IsSet(0, s.sc) {
		return
	}

	b := s.sb
	s.output.WriteByte(b)
	if b == 0 || b == '\n' || b == '\r' {
		if len(s.line) > 0 {
			s.logger.Info("serial", "line", string(s.line))
			s.line = s.line[:0]
		}
	} else {
		s.line = append(s.line, b)
	}

	if s.immediate {
		s.completeTransfer()
		return
	}

	s.transferActive = true
	s.countdown = serialCyclesPerByte
}

func (s *SerialLogSink) completeTransfer() {
	s.sb = bus.NoData
	s.sc = bit.Clear(7, s.sc)
	s.transferActive = false
	s.irq.RequestInterrupt(addr.SerialInterrupt)
}
