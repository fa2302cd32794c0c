//go:build tinygo && baremetal

package hal

import (
	"machine"

	"bozzard/bozos/input"
)

// Console wiring on a Pico.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 9600 8N1, shared by the log and the
// PC link. LCD: PCF8574 backpack on I2C0, GP4 (SDA) / GP5 (SCL).
var (
	buttonPins = [input.NumButtons]machine.Pin{
		input.Buzzer0:     machine.GP6,
		input.Buzzer1:     machine.GP7,
		input.Buzzer2:     machine.GP8,
		input.Buzzer3:     machine.GP9,
		input.Play:        machine.GP10,
		input.Yellow:      machine.GP11,
		input.Reset:       machine.GP12,
		input.RotaryKey:   machine.GP13,
		input.RotaryClock: machine.GP14,
		input.RotaryData:  machine.GP15,
	}
	ledPins     = [4]machine.Pin{machine.GP16, machine.GP17, machine.GP18, machine.GP19}
	speakerPin  = machine.GP2
	batteryPin  = machine.ADC3
	lcdI2CAddr  = uint8(0x27)
	uartBaud    = uint32(9600)
	eepromBytes = uint32(1024)
)

type tinyGoHAL struct {
	logger  *uartLogger
	leds    *pinLEDs
	lcd     CharLCD
	speaker Speaker
	buttons *PinButtons
	t       *tinyGoTime
	eeprom  EEPROM
	serial  *uartSerial
	battery *adcBattery
}

// New returns the console HAL for a Pico.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: uartBaud,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	logger := &uartLogger{uart: uart}

	t := newTinyGoTime()
	buttons := NewPinButtons(t, inputPins(buttonPins))
	for b := range buttonPins {
		buttons.SetActiveLow(input.Button(b), true)
	}

	h := &tinyGoHAL{
		logger:  logger,
		leds:    newPinLEDs(ledPins),
		buttons: buttons,
		t:       t,
		serial:  &uartSerial{uart: uart},
		battery: newADCBattery(batteryPin),
	}
	if lcd, err := newI2CLCD(machine.I2C0, machine.GP4, machine.GP5, lcdI2CAddr); err != nil {
		logger.WriteLineString("hal: lcd: " + err.Error())
	} else {
		h.lcd = lcd
	}
	if s := newPWMSpeaker(speakerPin); s != nil {
		h.speaker = s
	}
	if e, err := newFlashEEPROM(eepromBytes); err != nil {
		logger.WriteLineString("hal: eeprom: " + err.Error())
	} else {
		h.eeprom = e
	}
	return h
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) LEDs() LEDs       { return h.leds }
func (h *tinyGoHAL) LCD() CharLCD     { return h.lcd }
func (h *tinyGoHAL) Speaker() Speaker { return h.speaker }
func (h *tinyGoHAL) Buttons() Buttons { return h.buttons }
func (h *tinyGoHAL) Time() Time       { return h.t }
func (h *tinyGoHAL) EEPROM() EEPROM   { return h.eeprom }
func (h *tinyGoHAL) Serial() Serial   { return h.serial }
func (h *tinyGoHAL) Battery() Battery { return h.battery }
func (h *tinyGoHAL) Power() Power     { return tinyGoPower{} }
