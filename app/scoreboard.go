//go:build !tinygo

package app

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"bozzard/bozos/display"
	"bozzard/bozos/kernel"
	"bozzard/hal"
	"bozzard/internal/config"
)

// rowSource is implemented by LCDs that can report what they show.
type rowSource interface {
	Row(row int) string
}

// scoreboard mirrors the console state into a block of Modbus holding
// registers on a TCP endpoint, for a venue display. Snapshots are taken on
// the tick goroutine and written from a background goroutine, so a slow or
// dead endpoint never stalls the kernel.
type scoreboard struct {
	kernel.NopObserver

	s        *System
	rows     rowSource
	unitID   uint8
	address  uint16
	interval uint32
	lastAt   uint32
	primed   bool

	out    chan []uint16
	stop   chan struct{}
	done   sync.WaitGroup
	logger hal.Logger

	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

func newScoreboard(cfg *config.Config, s *System, lcd hal.CharLCD, logger hal.Logger) (*scoreboard, error) {
	sc := cfg.Scoreboard
	if sc.Endpoint == "" {
		return nil, nil
	}
	if _, _, err := net.SplitHostPort(sc.Endpoint); err != nil {
		return nil, fmt.Errorf("scoreboard: endpoint %q: %w", sc.Endpoint, err)
	}

	h := modbus.NewTCPClientHandler(sc.Endpoint)
	h.Timeout = time.Duration(sc.TimeoutMs) * time.Millisecond
	h.SlaveId = sc.UnitID

	sb := &scoreboard{
		s:        s,
		unitID:   sc.UnitID,
		address:  sc.Address,
		interval: uint32(sc.IntervalMs),
		out:      make(chan []uint16, 1),
		stop:     make(chan struct{}),
		logger:   logger,
		handler:  h,
		client:   modbus.NewClient(h),
	}
	if r, ok := lcd.(rowSource); ok {
		sb.rows = r
	}
	sb.done.Add(1)
	go sb.run()
	return sb, nil
}

func (sb *scoreboard) OnTick(now uint32) {
	if sb.s.Kernel == nil {
		return
	}
	if sb.primed && now-sb.lastAt < sb.interval {
		return
	}
	sb.primed = true
	sb.lastAt = now

	regs := snapshotRegisters(sb.s.Kernel, sb.rows)
	select {
	case sb.out <- regs:
	default:
		// Writer still busy with the previous snapshot; drop this one.
	}
}

func (sb *scoreboard) run() {
	defer sb.done.Done()
	failing := false
	for {
		select {
		case <-sb.stop:
			return
		case regs := <-sb.out:
			err := sb.write(regs)
			switch {
			case err != nil && !failing:
				logf(sb.logger, "scoreboard: write failed: %v", err)
				failing = true
			case err == nil && failing:
				logf(sb.logger, "scoreboard: write recovered")
				failing = false
			}
		}
	}
}

func (sb *scoreboard) write(regs []uint16) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.handler.SlaveId = sb.unitID
	_, err := sb.client.WriteMultipleRegisters(sb.address, uint16(len(regs)), packRegisters(regs))
	if err != nil {
		// Drop the connection so the next write redials.
		_ = sb.handler.Close()
	}
	return err
}

// Close stops the writer and closes the connection.
func (sb *scoreboard) Close() {
	close(sb.stop)
	sb.done.Wait()
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if err := sb.handler.Close(); err != nil {
		logf(sb.logger, "scoreboard: close: %v", err)
	}
}

// snapshotRegisters lays out the mirrored block:
//
//	0      top app id
//	1      stack depth << 8 | kernel state
//	2      LED mask
//	3      seconds since boot, wrapping
//	4..11  LCD row 0, two characters per register
//	12..19 LCD row 1
func snapshotRegisters(k *kernel.Kernel, rows rowSource) []uint16 {
	regs := make([]uint16, config.ScoreboardRegisters)
	regs[0] = uint16(k.Top())
	regs[1] = uint16(k.Depth())<<8 | uint16(k.State())
	regs[2] = uint16(k.LEDs())
	regs[3] = uint16(k.Now() / 1000)
	if rows == nil {
		return regs
	}
	for r := 0; r < display.Rows; r++ {
		line := rows.Row(r)
		for c := 0; c < display.Columns; c += 2 {
			hi, lo := byte(' '), byte(' ')
			if c < len(line) {
				hi = line[c]
			}
			if c+1 < len(line) {
				lo = line[c+1]
			}
			regs[4+r*display.Columns/2+c/2] = uint16(hi)<<8 | uint16(lo)
		}
	}
	return regs
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
