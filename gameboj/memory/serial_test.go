package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/go-gameboj/gameboj/addr"
)

func sendByte(s *SerialLogSink, b uint8) {
	s.Write(addr.SB, b)
	s.Write(addr.SC, 0x81)
}

func TestSerialLogSinkImmediate(t *testing.T) {
	irq := &irqRecorder{}
	s := NewSerialLogSink(irq)

	for _, b := range []byte("Passed\n") {
		sendByte(s, b)
	}

	assert.Equal(t, "Passed\n", s.Output())
	assert.Equal(t, 7, irq.count(addr.SerialInterrupt))

	sb, _ := s.Read(addr.SB)
	sc, _ := s.Read(addr.SC)
	assert.Equal(t, uint8(0xFF), sb)
	assert.Equal(t, uint8(0x01), sc)
}

func TestSerialLogSinkExternalClock(t *testing.T) {
	irq := &irqRecorder{}
	s := NewSerialLogSink(irq)

	s.Write(addr.SB, 'x')
	s.Write(addr.SC, 0x80)

	assert.Empty(t, s.Output())
	assert.Empty(t, irq.requested)
}

func TestSerialLogSinkTimed(t *testing.T) {
	irq := &irqRecorder{}
	s := NewSerialLogSink(irq, WithSerialTiming())

	sendByte(s, 'A')
	for c := uint64(0); c < serialCyclesPerByte-1; c++ {
		s.Cycle(c)
	}
	assert.Empty(t, irq.requested)
	sc, _ := s.Read(addr.SC)
	assert.Equal(t, uint8(0x81), sc)

	s.Cycle(serialCyclesPerByte)
	assert.Equal(t, 1, irq.count(addr.SerialInterrupt))
	sc, _ = s.Read(addr.SC)
	assert.Equal(t, uint8(0x01), sc)
}

func TestSerialLogSinkTimedIgnoresStartDuringTransfer(t *testing.T) {
	irq := &irqRecorder{}
	s := NewSerialLogSink(irq, WithSerialTiming())

	sendByte(s, 'O')
	for c := uint64(0); c < 10; c++ {
		s.Cycle(c)
	}
	sendByte(s, 'K')
	assert.Equal(t, "O", s.Output())

	for c := uint64(10); c < serialCyclesPerByte; c++ {
		s.Cycle(c)
	}
	assert.Equal(t, 1, irq.count(addr.SerialInterrupt))
	sc, _ := s.Read(addr.SC)
	assert.Equal(t, uint8(0x01), sc)

	sendByte(s, 'K')
	assert.Equal(t, "OK", s.Output())
}

func TestSerialLogSinkIgnoresOtherAddresses(t *testing.T) {
	s := NewSerialLogSink(&irqRecorder{})
	_, ok := s.Read(addr.DIV)
	assert.False(t, ok)
}
