//go:build !tinygo

package hal

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"bozzard/bozos/input"
)

func TestHostDevices(t *testing.T) {
	t.Setenv("BOZ_EEPROM_PATH", "")
	var log bytes.Buffer
	h := NewHost(HostConfig{
		EEPROMPath: filepath.Join(t.TempDir(), "h.eeprom"),
		EEPROMSize: 128,
		BatteryMv:  3700,
		Log:        &log,
	})
	defer h.Close()

	if h.Serial() != nil {
		t.Fatal("no serial port configured, want nil Serial")
	}
	if h.EEPROM() == nil || h.EEPROM().Size() != 128 {
		t.Fatal("expected a 128 byte EEPROM")
	}
	if mv := h.Battery().Millivolts(); mv != 3700 {
		t.Fatalf("Millivolts() = %d, want 3700", mv)
	}

	h.LEDs().SetLEDs(0b0101)
	h.LEDs().SetLEDs(0b0101)
	if h.LEDMask() != 0b0101 {
		t.Fatalf("LEDMask() = %04b", h.LEDMask())
	}
	if n := strings.Count(log.String(), "leds: 0101"); n != 1 {
		t.Fatalf("logged %d LED changes, want 1:\n%s", n, log.String())
	}

	h.Speaker().SetFrequency(880)
	if h.Tone() != 880 {
		t.Fatalf("Tone() = %d, want 880", h.Tone())
	}
	h.Power().Idle(true)
	if !h.Sleeping() {
		t.Fatal("Idle(true) should be reported as sleeping")
	}

	h.Panel().Hold(input.Yellow)
	if active, _ := h.Buttons().Level(input.Yellow); !active {
		t.Fatal("held button should read active")
	}
}

func TestHostWithoutEEPROM(t *testing.T) {
	t.Setenv("BOZ_EEPROM_PATH", "")
	var log bytes.Buffer
	h := NewHost(HostConfig{EEPROMPath: filepath.Join(t.TempDir(), "missing", "x.eeprom"), Log: &log})
	defer h.Close()
	if h.EEPROM() != nil {
		t.Fatal("unopenable path should leave EEPROM nil")
	}
	if !strings.Contains(log.String(), "hal: eeprom:") {
		t.Fatalf("expected the failure to be logged, got %q", log.String())
	}
}
