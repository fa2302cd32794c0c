package mm

import "bozzard/bozos/fault"

// Scope is the guard for one pushed used-chunk list. Releasing it frees
// every chunk still tracked in that list.
type Scope struct {
	a        *Arena
	level    int
	released bool
}

// PushScope starts a new, empty used-chunk list on top of the stack.
func (a *Arena) PushScope() (*Scope, error) {
	if a.depth+1 >= len(a.lists) {
		return nil, ErrScopeDepth
	}
	a.depth++
	a.lists[a.depth] = none
	s := &Scope{a: a, level: a.depth}
	a.scopes[a.depth] = s
	return s, nil
}

// PopScope releases the scope on top of the stack.
func (a *Arena) PopScope() error {
	if a.depth == 0 {
		return ErrNoScope
	}
	a.scopes[a.depth].Release()
	return nil
}

// ScopeDepth is the number of pushed scopes.
func (a *Arena) ScopeDepth() int { return a.depth }

// Level is the list index the scope tracks into.
func (s *Scope) Level() int { return s.level }

// Live reports whether the scope has not been released yet.
func (s *Scope) Live() bool { return s != nil && !s.released }

// Release frees the scope's remaining chunks and pops it. Only the top scope
// may be released, and only once.
func (s *Scope) Release() {
	if s.released {
		fault.Raise("mm", "release scope", "scope %d already released", s.level)
	}
	a := s.a
	if a.depth != s.level {
		fault.Raise("mm", "release scope", "scope %d is not on top (depth %d)", s.level, a.depth)
	}
	for c := a.lists[s.level]; c != none; c = a.lists[s.level] {
		a.release(c)
	}
	a.scopes[s.level] = nil
	a.depth--
	s.released = true
}
