//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"

	"bozzard/bozos/input"
)

type tinyGoTime struct {
	start time.Time
}

func newTinyGoTime() *tinyGoTime { return &tinyGoTime{start: time.Now()} }

func (t *tinyGoTime) Millis() uint32 {
	return uint32(time.Since(t.start) / time.Millisecond)
}

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type pinLEDs struct {
	pins [4]machine.Pin
}

func newPinLEDs(pins [4]machine.Pin) *pinLEDs {
	for _, p := range pins {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}
	return &pinLEDs{pins: pins}
}

func (l *pinLEDs) SetLEDs(mask uint8) {
	for i, p := range l.pins {
		p.Set(mask&(1<<i) != 0)
	}
}

type uartSerial struct {
	uart *machine.UART
}

func (s *uartSerial) Buffered() int { return s.uart.Buffered() }

func (s *uartSerial) Read(p []byte) (int, error) {
	if s.uart.Buffered() == 0 {
		return 0, nil
	}
	return s.uart.Read(p)
}

func (s *uartSerial) Write(p []byte) (int, error) { return s.uart.Write(p) }

// adcBattery reads the supply through a divide-by-three network.
type adcBattery struct {
	adc machine.ADC
}

func newADCBattery(pin machine.Pin) *adcBattery {
	machine.InitADC()
	adc := machine.ADC{Pin: pin}
	adc.Configure(machine.ADCConfig{})
	return &adcBattery{adc: adc}
}

func (b *adcBattery) Millivolts() uint16 {
	return uint16(uint32(b.adc.Get()) * 3 * 3300 / 65535)
}

type tinyGoPower struct{}

// Idle yields for the rest of the millisecond. The scheduler sleeps the core
// while nothing is runnable.
func (tinyGoPower) Idle(allowSleep bool) {
	if allowSleep {
		time.Sleep(time.Millisecond)
		return
	}
	time.Sleep(100 * time.Microsecond)
}

func inputPins(pins [input.NumButtons]machine.Pin) [input.NumButtons]Pin {
	var out [input.NumButtons]Pin
	for i, p := range pins {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		out[i] = p
	}
	return out
}
