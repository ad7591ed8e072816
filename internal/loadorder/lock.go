package loadorder

import "fmt"

// Locked reports whether Lock Load Order is engaged.
func (s *Service) Locked() bool {
	s.ensureLoaded()

	return s.locked
}

// ToggleLock flips Lock Load Order and persists the flag. Engaging the
// lock consults confirm first (the UI owns the actual prompt); a nil
// confirm engages without asking. A declined confirmation leaves the
// lock off and returns [ErrLockDeclined].
func (s *Service) ToggleLock(confirm func() bool) (bool, error) {
	s.ensureLoaded()

	lock := !s.locked

	declined := false
	if lock && confirm != nil && !confirm() {
		lock = false
		declined = true
	}

	s.locked = lock

	if s.locks != nil {
		if err := s.locks.SaveLocked(lock); err != nil {
			return lock, fmt.Errorf("saving lock flag: %w", err)
		}
	}

	if declined {
		return lock, ErrLockDeclined
	}

	return lock, nil
}

// ConsumeLockWarning returns whether a forced rewrite happened because
// external state drifted from the memorized order, and clears the flag.
func (s *Service) ConsumeLockWarning() bool {
	warned := s.warnLocked
	s.warnLocked = false

	return warned
}

// Suspend forces the lock off and returns a restore function for defer.
// The captured value is restored unconditionally, including when the
// enclosed operation fails, so drift correction is skipped during
// internal operations such as programmatic swaps.
//
//	defer svc.Suspend()()
func (s *Service) Suspend() func() {
	s.ensureLoaded()

	prev := s.locked
	s.locked = false

	return func() {
		s.locked = prev
	}
}
