// Package mm implements the application memory arena.
//
// The arena is a single byte slice tiled by chunks. Every chunk starts with
// an 8 byte header:
//
//	[0:2] total chunk size including the header
//	[2]   flags: bit 7 set when in use, low bits the owning list
//	[3]   slack: payload bytes beyond the requested size
//	[4:6] previous chunk in the free list or the owning used list
//	[6:8] next chunk in the same list
//
// Free chunks form one address-ordered doubly linked list. Used chunks are
// threaded onto the list that was on top when they were allocated: list 0
// is the permanent main list, lists 1..n belong to pushed scopes.
package mm

import (
	"encoding/binary"
	"errors"

	"bozzard/bozos/fault"
)

// Ptr addresses the payload of an allocated chunk. Nil is never a payload.
type Ptr uint16

// Nil is the failed or empty allocation.
const Nil Ptr = 0

const (
	headerBytes = 8
	granule     = 4
	// A split must leave room for a header and a useful payload.
	minSplit = headerBytes + 8

	maxArenaBytes = 0xFFFC
	usedFlag      = 0x80
	listMask      = 0x7F

	none uint16 = 0xFFFF
)

var (
	ErrScopeDepth = errors.New("mm: scope stack full")
	ErrNoScope    = errors.New("mm: no scope pushed")
)

// Arena is a fixed pool of bytes with scoped usage tracking.
type Arena struct {
	buf      []byte
	freeHead uint16

	lists  []uint16
	scopes []*Scope
	depth  int
}

// New returns an arena of size bytes (rounded down to the allocation
// granule) supporting maxScopes nested scopes.
func New(size, maxScopes int) *Arena {
	size &^= granule - 1
	if size > maxArenaBytes {
		size = maxArenaBytes
	}
	if size < minSplit {
		size = minSplit
	}
	if maxScopes < 0 {
		maxScopes = 0
	}
	if maxScopes > listMask {
		maxScopes = listMask
	}
	a := &Arena{
		buf:    make([]byte, size),
		lists:  make([]uint16, maxScopes+1),
		scopes: make([]*Scope, maxScopes+1),
	}
	a.reset()
	return a
}

func (a *Arena) reset() {
	for i := range a.buf {
		a.buf[i] = 0
	}
	for i := range a.lists {
		a.lists[i] = none
		a.scopes[i] = nil
	}
	a.depth = 0
	a.setSize(0, uint16(len(a.buf)))
	a.setFlags(0, 0)
	a.setSlack(0, 0)
	a.setPrev(0, none)
	a.setNext(0, none)
	a.freeHead = 0
}

// Alloc reserves size bytes in the list currently on top of the scope stack.
// It returns Nil when size is not positive or no free region is big enough.
func (a *Arena) Alloc(size int) Ptr {
	return a.alloc(size, a.depth)
}

// MainAlloc reserves size bytes in the permanent main list.
func (a *Arena) MainAlloc(size int) Ptr {
	return a.alloc(size, 0)
}

// Free returns an outstanding chunk to the pool. Nil is ignored.
func (a *Arena) Free(p Ptr) {
	if p == Nil {
		return
	}
	c := a.chunkOf("free", p)
	a.release(c)
}

// MainFree frees a chunk obtained from MainAlloc.
func (a *Arena) MainFree(p Ptr) {
	if p == Nil {
		return
	}
	c := a.chunkOf("main free", p)
	if a.list(c) != 0 {
		fault.Raise("mm", "main free", "chunk %d belongs to scope %d", p, a.list(c))
	}
	a.release(c)
}

// Bytes returns the payload of p, exactly as long as requested.
func (a *Arena) Bytes(p Ptr) []byte {
	c := a.chunkOf("bytes", p)
	n := int(a.size(c)) - headerBytes - int(a.slack(c))
	start := int(c) + headerBytes
	return a.buf[start : start+n : start+n]
}

// TotalSize is the arena capacity including bookkeeping.
func (a *Arena) TotalSize() int { return len(a.buf) }

// FreeBytes is the sum of all free regions, headers included.
func (a *Arena) FreeBytes() int {
	total := 0
	for c := a.freeHead; c != none; c = a.next(c) {
		total += int(a.size(c))
	}
	return total
}

// LargestFree is the biggest payload a single Alloc could currently satisfy.
func (a *Arena) LargestFree() int {
	best := 0
	for c := a.freeHead; c != none; c = a.next(c) {
		if n := int(a.size(c)) - headerBytes; n > best {
			best = n
		}
	}
	return best
}

// Outstanding counts live chunks across every list.
func (a *Arena) Outstanding() int {
	n := 0
	for i := 0; i <= a.depth; i++ {
		for c := a.lists[i]; c != none; c = a.next(c) {
			n++
		}
	}
	return n
}

func (a *Arena) alloc(size int, list int) Ptr {
	if size <= 0 || size > maxArenaBytes {
		return Nil
	}
	need := (size + granule - 1) &^ (granule - 1)
	need += headerBytes
	if need > len(a.buf) {
		return Nil
	}

	for c := a.freeHead; c != none; c = a.next(c) {
		csize := int(a.size(c))
		if csize < need {
			continue
		}
		if rem := csize - need; rem >= minSplit {
			tail := c + uint16(need)
			a.setSize(tail, uint16(rem))
			a.setFlags(tail, 0)
			a.setSlack(tail, 0)
			a.replaceFree(c, tail)
			a.setSize(c, uint16(need))
			csize = need
		} else {
			a.unlinkFree(c)
		}
		a.setFlags(c, usedFlag|byte(list))
		a.setSlack(c, byte(csize-headerBytes-size))
		a.pushUsed(list, c)
		return Ptr(c + headerBytes)
	}
	return Nil
}

func (a *Arena) release(c uint16) {
	a.unlinkUsed(c)
	a.setFlags(c, 0)
	a.setSlack(c, 0)
	a.insertFree(c)
}

// chunkOf validates p by walking the tiling, so a pointer into the middle of
// a chunk or at a free chunk is caught.
func (a *Arena) chunkOf(op string, p Ptr) uint16 {
	if p < headerBytes || int(p) >= len(a.buf) {
		fault.Raise("mm", op, "pointer %d outside arena", p)
	}
	want := uint16(p) - headerBytes
	for c := 0; c < len(a.buf); {
		sz := int(a.size(uint16(c)))
		if sz < headerBytes {
			fault.Raise("mm", op, "corrupt chunk at %d", c)
		}
		if uint16(c) == want {
			if !a.used(want) {
				fault.Raise("mm", op, "pointer %d is not outstanding", p)
			}
			return want
		}
		if uint16(c) > want {
			break
		}
		c += sz
	}
	fault.Raise("mm", op, "pointer %d is not a chunk", p)
	return none
}

func (a *Arena) pushUsed(list int, c uint16) {
	head := a.lists[list]
	a.setPrev(c, none)
	a.setNext(c, head)
	if head != none {
		a.setPrev(head, c)
	}
	a.lists[list] = c
}

func (a *Arena) unlinkUsed(c uint16) {
	prev, next := a.prev(c), a.next(c)
	if prev == none {
		a.lists[a.list(c)] = next
	} else {
		a.setNext(prev, next)
	}
	if next != none {
		a.setPrev(next, prev)
	}
}

func (a *Arena) unlinkFree(c uint16) {
	prev, next := a.prev(c), a.next(c)
	if prev == none {
		a.freeHead = next
	} else {
		a.setNext(prev, next)
	}
	if next != none {
		a.setPrev(next, prev)
	}
}

// replaceFree puts nc where c was in the free list. nc follows c in memory
// and nothing lies between them, so address order holds.
func (a *Arena) replaceFree(c, nc uint16) {
	prev, next := a.prev(c), a.next(c)
	a.setPrev(nc, prev)
	a.setNext(nc, next)
	if prev == none {
		a.freeHead = nc
	} else {
		a.setNext(prev, nc)
	}
	if next != none {
		a.setPrev(next, nc)
	}
}

func (a *Arena) insertFree(c uint16) {
	prev := none
	next := a.freeHead
	for next != none && next < c {
		prev = next
		next = a.next(next)
	}

	a.setPrev(c, prev)
	a.setNext(c, next)
	if prev == none {
		a.freeHead = c
	} else {
		a.setNext(prev, c)
	}
	if next != none {
		a.setPrev(next, c)
	}

	if next != none && c+a.size(c) == next {
		a.setSize(c, a.size(c)+a.size(next))
		nn := a.next(next)
		a.setNext(c, nn)
		if nn != none {
			a.setPrev(nn, c)
		}
	}
	if prev != none && prev+a.size(prev) == c {
		a.setSize(prev, a.size(prev)+a.size(c))
		cn := a.next(c)
		a.setNext(prev, cn)
		if cn != none {
			a.setPrev(cn, prev)
		}
	}
}

func (a *Arena) size(c uint16) uint16 { return binary.LittleEndian.Uint16(a.buf[c:]) }
func (a *Arena) flags(c uint16) byte  { return a.buf[c+2] }
func (a *Arena) slack(c uint16) byte  { return a.buf[c+3] }
func (a *Arena) prev(c uint16) uint16 { return binary.LittleEndian.Uint16(a.buf[c+4:]) }
func (a *Arena) next(c uint16) uint16 { return binary.LittleEndian.Uint16(a.buf[c+6:]) }
func (a *Arena) used(c uint16) bool   { return a.flags(c)&usedFlag != 0 }
func (a *Arena) list(c uint16) int    { return int(a.flags(c) & listMask) }

func (a *Arena) setSize(c, v uint16)       { binary.LittleEndian.PutUint16(a.buf[c:], v) }
func (a *Arena) setFlags(c uint16, v byte) { a.buf[c+2] = v }
func (a *Arena) setSlack(c uint16, v byte) { a.buf[c+3] = v }
func (a *Arena) setPrev(c, v uint16)       { binary.LittleEndian.PutUint16(a.buf[c+4:], v) }
func (a *Arena) setNext(c, v uint16)       { binary.LittleEndian.PutUint16(a.buf[c+6:], v) }
