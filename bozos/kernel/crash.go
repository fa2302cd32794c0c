package kernel

import (
	"fmt"

	"bozzard/bozos/fault"
)

// CrashInfo describes what stopped the console.
type CrashInfo struct {
	App     AppID
	Trail   []AppID
	Pattern uint8
	Value   any
	Stack   []byte
}

type crashRequest struct {
	pattern uint8
}

// Crashed reports whether the kernel is in crash mode, and why.
func (k *Kernel) Crashed() (CrashInfo, bool) {
	return k.crash, k.state == StateCrashed
}

func (k *Kernel) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			k.enterCrash(r)
		}
	}()
	fn()
}

func (k *Kernel) enterCrash(r any) {
	k.crashOnce.Do(func() {
		info := CrashInfo{App: k.Top(), Trail: k.safeTrail(), Pattern: 0x0F, Value: r}
		switch v := r.(type) {
		case crashRequest:
			info.Pattern = v.pattern
			info.Value = nil
		default:
			info.Stack = captureStack()
			k.setLEDs(info.Pattern)
		}
		k.crash = info
		k.state = StateCrashed
		k.pending = transition{}

		k.logf("kernel: crash trail=%v", info.Trail)
		if v, ok := fault.As(r); ok {
			k.logf("kernel: crash app=%d violation: %v", info.App, v)
		} else if info.Value != nil {
			k.logf("kernel: crash app=%d panic: %v", info.App, info.Value)
		} else {
			k.logf("kernel: crash app=%d pattern=%#x", info.App, info.Pattern)
		}
		if k.cfg.Sound != nil {
			k.cfg.Sound.StopAll()
		}
		if k.cfg.Display != nil {
			k.cfg.Display.Discard()
		}
		if k.cfg.OnCrash != nil {
			k.cfg.OnCrash(info)
		}
	})
}

// safeTrail reads the trail without trusting the arena, which may be the
// thing that faulted.
func (k *Kernel) safeTrail() (ids []AppID) {
	defer func() {
		if recover() != nil {
			ids = nil
		}
	}()
	return k.Trail()
}

func (i CrashInfo) String() string {
	if i.Value != nil {
		return fmt.Sprintf("app %d: %v", i.App, i.Value)
	}
	return fmt.Sprintf("app %d: crash %#x", i.App, i.Pattern)
}
