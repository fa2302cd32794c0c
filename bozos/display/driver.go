package display

// busyBudgetUs bounds how much controller time one Poll may consume.
const busyBudgetUs = 1000

// Poll sends queued commands to the LCD until the queue is empty or the
// controller has been kept busy for a full tick. It returns the number of
// commands sent.
func (c *Controller) Poll(now uint32) int {
	if c.lcd == nil {
		c.q.Clear()
		return 0
	}
	sent := 0
	var busy uint32
	for busy < busyBudgetUs {
		cmd, ok := c.q.Pop()
		if !ok {
			break
		}
		if cmd == ResetCGRAM {
			busy += c.loadGlyphs()
		} else {
			busy += c.lcd.Command(cmd)
		}
		sent++
	}
	return sent
}

// Init brings the controller up in 4-bit, two line mode with the default
// custom characters, display on, cursor hidden.
func (c *Controller) Init() {
	if c.lcd == nil {
		return
	}
	c.lcd.Command(cmdFunctionSet | bit(true, 3))
	c.lcd.Command(cmdDisplayCtl | bit(true, 2))
	c.lcd.Command(cmdEntryMode | bit(true, 1))
	c.loadGlyphs()
	c.lcd.Command(cmdClear)
}

func (c *Controller) loadGlyphs() uint32 {
	var busy uint32
	for code := range DefaultGlyphs {
		busy += c.lcd.Command(cmdSetCGRAMAddr | uint16(code<<3))
		for _, row := range DefaultGlyphs[code] {
			busy += c.lcd.Command(Data | uint16(row))
		}
	}
	busy += c.lcd.Command(cmdSetDDRAMAddr)
	return busy
}
