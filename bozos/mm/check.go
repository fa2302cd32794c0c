package mm

import "fmt"

// Check walks the whole arena and verifies its bookkeeping: chunks tile the
// buffer, the free list is address ordered and fully coalesced, and every
// used chunk sits on the list its header names.
func (a *Arena) Check() error {
	freeCount, usedCount := 0, 0
	prevFree := false
	for c := 0; c < len(a.buf); {
		sz := int(a.size(uint16(c)))
		if sz < headerBytes || sz%granule != 0 || c+sz > len(a.buf) {
			return fmt.Errorf("mm: chunk at %d has bad size %d", c, sz)
		}
		if a.used(uint16(c)) {
			if l := a.list(uint16(c)); l > a.depth {
				return fmt.Errorf("mm: chunk at %d on dead list %d", c, l)
			}
			usedCount++
			prevFree = false
		} else {
			if prevFree {
				return fmt.Errorf("mm: adjacent free chunks at %d", c)
			}
			freeCount++
			prevFree = true
		}
		c += sz
	}

	n := 0
	last := none
	for c := a.freeHead; c != none; c = a.next(c) {
		if a.used(c) {
			return fmt.Errorf("mm: used chunk %d on free list", c)
		}
		if a.prev(c) != last {
			return fmt.Errorf("mm: free chunk %d has bad back link", c)
		}
		if last != none && c <= last {
			return fmt.Errorf("mm: free list out of order at %d", c)
		}
		last = c
		n++
	}
	if n != freeCount {
		return fmt.Errorf("mm: free list has %d chunks, arena has %d", n, freeCount)
	}

	n = 0
	for i := 0; i <= a.depth; i++ {
		last = none
		for c := a.lists[i]; c != none; c = a.next(c) {
			if !a.used(c) || a.list(c) != i {
				return fmt.Errorf("mm: chunk %d misfiled on list %d", c, i)
			}
			if a.prev(c) != last {
				return fmt.Errorf("mm: used chunk %d has bad back link", c)
			}
			last = c
			n++
		}
	}
	if n != usedCount {
		return fmt.Errorf("mm: used lists hold %d chunks, arena has %d", n, usedCount)
	}
	return nil
}
