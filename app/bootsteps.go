package app

import (
	"fmt"
	"sync"
)

// bootDone is the last boot step: the kernel is up and ticking.
const bootDone = "running"

type bootStep struct {
	name string
	at   uint32
}

// bootLog records when each boot step began. Steps are numbered from 1.
type bootLog struct {
	mu    sync.Mutex
	steps []bootStep
}

// mark starts step name at now and returns its number with the log line
// announcing it.
func (b *bootLog) mark(name string, now uint32) (int, string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.steps) + 1
	start := now
	if n > 1 {
		start = b.steps[0].at
	}
	line := fmt.Sprintf("boot: %d %s +%dms", n, name, now-start)
	if n > 1 {
		prev := b.steps[n-2]
		line += fmt.Sprintf(" (%s took %dms)", prev.name, now-prev.at)
	}
	b.steps = append(b.steps, bootStep{name: name, at: now})
	return n, line
}

// current reports the step in progress, how long it has been running and
// how long the whole boot has taken so far.
func (b *bootLog) current(now uint32) (name string, n int, stepMs, totalMs uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.steps) == 0 {
		return "", 0, 0, 0
	}
	last := b.steps[len(b.steps)-1]
	return last.name, len(b.steps), now - last.at, now - b.steps[0].at
}

func (b *bootLog) done() bool {
	name, _, _, _ := b.current(0)
	return name == bootDone
}

// bootRow is the LCD's second row during boot: step number, name and the
// time since power up, padded to the full width.
func bootRow(n int, name string, totalMs uint32) string {
	if len(name) > 7 {
		name = name[:7]
	}
	if totalMs > 99999 {
		totalMs = 99999
	}
	return fmt.Sprintf("%d %-7s%5dms", n%10, name, totalMs)
}

// bootMask lights one contestant LED per completed step.
func bootMask(n int) uint8 {
	if n > 4 {
		n = 4
	}
	if n < 0 {
		n = 0
	}
	return uint8(1<<n - 1)
}
