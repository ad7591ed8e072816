package loadorder_test

import (
	"errors"
	"testing"

	"github.com/plugorder/plugorder/internal/loadorder"
)

func Test_ToggleLock_Engages_When_Confirmed(t *testing.T) {
	t.Parallel()

	locks := &fakeLocks{}
	svc := newService(t, &fakeGame{}, loadorder.Options{Locks: locks})

	locked, err := svc.ToggleLock(func() bool { return true })
	if err != nil {
		t.Fatal(err)
	}

	if !locked || !svc.Locked() {
		t.Fatal("lock should be engaged")
	}

	if !locks.locked || locks.saves != 1 {
		t.Fatalf("lock flag not persisted: %+v", locks)
	}
}

func Test_ToggleLock_Stays_Off_When_Declined(t *testing.T) {
	t.Parallel()

	locks := &fakeLocks{}
	svc := newService(t, &fakeGame{}, loadorder.Options{Locks: locks})

	locked, err := svc.ToggleLock(func() bool { return false })
	if !errors.Is(err, loadorder.ErrLockDeclined) {
		t.Fatalf("err = %v, want ErrLockDeclined", err)
	}

	if locked || svc.Locked() {
		t.Fatal("declined lock should stay off")
	}
}

func Test_ToggleLock_Disengages_Without_Confirmation(t *testing.T) {
	t.Parallel()

	locks := &fakeLocks{locked: true}
	svc := newService(t, &fakeGame{}, loadorder.Options{Locks: locks})

	confirmed := false

	locked, err := svc.ToggleLock(func() bool { confirmed = true; return true })
	if err != nil {
		t.Fatal(err)
	}

	if locked || confirmed {
		t.Fatal("disengaging should not prompt")
	}

	if locks.locked {
		t.Fatal("lock flag not persisted")
	}
}

func Test_ToggleLock_Persists_Failure_Is_Surfaced(t *testing.T) {
	t.Parallel()

	locks := &fakeLocks{saveErr: errors.New("disk full")}
	svc := newService(t, &fakeGame{}, loadorder.Options{Locks: locks})

	_, err := svc.ToggleLock(nil)
	if err == nil {
		t.Fatal("expected save error")
	}

	// The in-memory flag still flipped; only persistence failed.
	if !svc.Locked() {
		t.Fatal("lock should be engaged in memory")
	}
}

func Test_Suspend_Restores_Lock_When_Operation_Fails(t *testing.T) {
	t.Parallel()

	svc := newService(t, &fakeGame{}, loadorder.Options{Locks: &fakeLocks{locked: true}})

	failing := func() (err error) {
		restore := svc.Suspend()
		defer restore()

		if svc.Locked() {
			t.Fatal("lock should be suspended inside the guard")
		}

		return errors.New("boom")
	}

	if err := failing(); err == nil {
		t.Fatal("operation should fail")
	}

	if !svc.Locked() {
		t.Fatal("lock should be restored after the failed operation")
	}
}

func Test_Persisted_Lock_Flag_Loads_Lazily(t *testing.T) {
	t.Parallel()

	svc := newService(t, &fakeGame{}, loadorder.Options{Locks: &fakeLocks{locked: true}})

	if !svc.Locked() {
		t.Fatal("persisted lock flag should load on first access")
	}
}
