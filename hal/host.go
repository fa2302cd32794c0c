//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"bozzard/bozos/display/lcdsim"
)

// HostConfig selects the devices of the desktop build.
type HostConfig struct {
	// EEPROMPath is the backing file. BOZ_EEPROM_PATH overrides it.
	EEPROMPath string
	EEPROMSize uint32
	// SerialPort is a device path, "stdio", or empty for no PC link.
	SerialPort string
	SerialBaud int
	BatteryMv  uint16
	Audio      bool
	Log        io.Writer
}

// Host is the desktop HAL. Front-ends drive its virtual panel and read back
// the emulated LCD, LEDs and speaker.
type Host struct {
	logger  *hostLogger
	leds    *hostLEDs
	lcd     *lcdsim.LCD
	speaker *hostSpeaker
	panel   *VirtualPanel
	t       *hostTime
	eeprom  EEPROM
	flash   *hostEEPROM
	serial  *streamSerial
	battery hostBattery
	power   *hostPower
}

// NewHost returns a host HAL. Devices that fail to open are logged and left
// out.
func NewHost(cfg HostConfig) *Host {
	w := cfg.Log
	if w == nil {
		w = os.Stdout
	}
	logger := &hostLogger{w: w}
	t := newHostTime()
	h := &Host{
		logger:  logger,
		leds:    &hostLEDs{logger: logger},
		lcd:     lcdsim.New(),
		speaker: newHostSpeaker(cfg.Audio),
		panel:   NewVirtualPanel(t),
		t:       t,
		battery: hostBattery(cfg.BatteryMv),
		power:   &hostPower{},
	}

	if f, err := openHostEEPROM(cfg.EEPROMPath, cfg.EEPROMSize); err != nil {
		logger.WriteLineString(fmt.Sprintf("hal: eeprom: %v", err))
	} else {
		h.flash, h.eeprom = f, f
	}

	if cfg.SerialPort != "" {
		s, err := openSerial(cfg.SerialPort, cfg.SerialBaud)
		if err != nil {
			logger.WriteLineString(fmt.Sprintf("hal: serial: %v", err))
		} else {
			h.serial = s
		}
	}
	return h
}

func (h *Host) Logger() Logger   { return h.logger }
func (h *Host) LEDs() LEDs       { return h.leds }
func (h *Host) LCD() CharLCD     { return h.lcd }
func (h *Host) Speaker() Speaker { return h.speaker }
func (h *Host) Buttons() Buttons { return h.panel.Buttons() }
func (h *Host) Time() Time       { return h.t }
func (h *Host) EEPROM() EEPROM   { return h.eeprom }
func (h *Host) Battery() Battery { return h.battery }
func (h *Host) Power() Power     { return h.power }

func (h *Host) Serial() Serial {
	if h.serial == nil {
		return nil
	}
	return h.serial
}

// Panel is the virtual button panel.
func (h *Host) Panel() *VirtualPanel { return h.panel }

// Screen is the emulated controller.
func (h *Host) Screen() *lcdsim.LCD { return h.lcd }

// LEDMask is the LED mask last written.
func (h *Host) LEDMask() uint8 { return uint8(h.leds.mask.Load()) }

// Tone is the frequency the speaker is playing, 0 when silent.
func (h *Host) Tone() uint16 { return h.speaker.Frequency() }

// Sleeping reports whether the runtime last allowed a deep idle.
func (h *Host) Sleeping() bool { return h.power.sleeping.Load() }

// Close releases files and ports.
func (h *Host) Close() error {
	var first error
	if h.serial != nil {
		first = h.serial.Close()
	}
	if h.flash != nil {
		if err := h.flash.Close(); err != nil && first == nil {
			first = err
		}
	}
	h.speaker.Close()
	return first
}

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLEDs struct {
	mask   atomic.Uint32
	logger *hostLogger
}

func (l *hostLEDs) SetLEDs(mask uint8) {
	if old := l.mask.Swap(uint32(mask)); old != uint32(mask) {
		l.logger.WriteLineString(fmt.Sprintf("leds: %04b", mask))
	}
}

type hostBattery uint16

func (b hostBattery) Millivolts() uint16 { return uint16(b) }

type hostPower struct {
	sleeping atomic.Bool
}

func (p *hostPower) Idle(allowSleep bool) { p.sleeping.Store(allowSleep) }
