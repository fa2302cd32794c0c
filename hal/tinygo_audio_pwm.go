//go:build tinygo && baremetal

package hal

import (
	"machine"
)

type pwmDevice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	SetPeriod(period uint64) error
	Top() uint32
	Set(channel uint8, value uint32)
	Enable(enable bool)
}

// pwmSpeaker drives the piezo with a 50% duty square wave at the requested
// frequency.
type pwmSpeaker struct {
	pin machine.Pin
	pwm pwmDevice
	ch  uint8
	hz  uint16
}

func newPWMSpeaker(pin machine.Pin) *pwmSpeaker {
	pwm := pwmForPin(pin)
	if pwm == nil {
		return nil
	}
	if err := pwm.Configure(machine.PWMConfig{Period: 1e9 / 1000}); err != nil {
		return nil
	}
	ch, err := pwm.Channel(pin)
	if err != nil {
		return nil
	}
	pwm.Set(ch, 0)
	return &pwmSpeaker{pin: pin, pwm: pwm, ch: ch}
}

func pwmForPin(pin machine.Pin) pwmDevice {
	slice, err := machine.PWMPeripheral(pin)
	if err != nil {
		return nil
	}
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		return nil
	}
}

func (s *pwmSpeaker) SetFrequency(hz uint16) {
	if hz == s.hz {
		return
	}
	s.hz = hz
	if hz == 0 {
		s.pwm.Set(s.ch, 0)
		return
	}
	if err := s.pwm.SetPeriod(1e9 / uint64(hz)); err != nil {
		s.pwm.Set(s.ch, 0)
		return
	}
	s.pwm.Set(s.ch, s.pwm.Top()/2)
}
